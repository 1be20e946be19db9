// Package rcconfig holds the small set of knobs this pass takes from its
// host environment: the target pointer size every size/alignment
// computation is relative to, and a couple of toggles cmd/rcgen exposes as
// flags (spec.md §9's notes: pointer size is assumed fixed per compilation
// unit; everything else about a layout is self-describing).
package rcconfig

// Config is the pass's configuration, independent of any one layout or
// directive.
type Config struct {
	// PtrSize is the target's pointer width in bytes. spec.md's concrete
	// scenarios all use 8; 32-bit targets would set this to 4.
	PtrSize int

	// TreatBareRecursivePointerAsImplemented overrides the Open Question 1
	// resolution (spec.md §9): by default a bare top-level RecursivePointer
	// is unimplemented (layout.IsImplemented returns false, matching the
	// dispatcher's own rejection). Setting this true is an escape hatch for
	// callers that have their own convention for what a bare
	// RecursivePointer means at the top level; the pass does not interpret
	// it differently when this is set, it only skips cmd/rcgen's own
	// IsImplemented guard — refcount.Lower still checks IsImplemented
	// itself and panics with "not implemented" if it can't handle what
	// it's given.
	TreatBareRecursivePointerAsImplemented bool

	// EmitDebugComments asks cmd/rcgen to print each directive's source
	// line, layout key and layout.Shape() above its IR, and raises the log
	// level to Debug so the oracle's "minted helper" lines appear. The
	// pass itself never consults this — it's a presentation-only flag
	// plumbed through to the CLI.
	EmitDebugComments bool
}

// Default returns the configuration spec.md's own scenarios assume: an
// 8-byte pointer, the strict Open Question 1 resolution, and no debug
// annotations.
func Default() Config {
	return Config{PtrSize: 8}
}
