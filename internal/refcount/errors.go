package refcount

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"rcgen/pkg/layout"
)

// log is the package-level logger, overridable by SetLogger. The pass
// itself never logs on the per-node dispatch path — only when it mints a
// helper (delegated to pkg/oracle) or when it is about to panic on one of
// the three assertion-failure classes below.
var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the package-level logger, e.g. to attach request
// scoping in a host process that embeds this pass.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

// notApplicable panics when a directive names an op that does not apply
// to a layout, e.g. DecRef on something that is not refcounted at all.
func notApplicable(op, reason string, l layout.Layout) {
	err := errors.Errorf("refcount: %s not applicable to layout %s: %s", op, layout.Key(l), reason)
	log.WithField("layout", layout.Key(l)).Error(err)
	panic(err)
}

// notImplemented panics when the layout mentions something this pass does
// not model (Dict/Set, or a bare top-level RecursivePointer).
func notImplemented(l layout.Layout) {
	err := errors.Errorf("refcount: layout not implemented: %s", layout.Key(l))
	log.WithField("layout", layout.Key(l)).Warn(err)
	panic(err)
}

// invariant panics when an internal consistency check fails — this
// indicates a bug in the pass itself, not a malformed input.
func invariant(msg string) {
	err := errors.New("refcount: invariant violation: " + msg)
	log.Error(err)
	panic(err)
}
