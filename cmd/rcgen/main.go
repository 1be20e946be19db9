// Command rcgen drives the reference-count pass end to end against a
// small text script, for demoing and debugging the pass without a full
// front end wired up.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rcgen/internal/refcount"
	"rcgen/pkg/layout"
	"rcgen/pkg/oracle"
	"rcgen/pkg/rcconfig"
)

var log = logrus.StandardLogger()

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("rcgen: %v", r)
			os.Exit(1)
		}
	}()

	cfg := rcconfig.Default()

	root := &cobra.Command{
		Use:   "rcgen [script]",
		Short: "Lower inc/dec/decref directives against a layout into refcount IR",
		Long: "rcgen reads a small layout/directive script (one directive per line,\n" +
			"e.g. \"inc(s, 3) : str\" or \"dec(l) : list(str)\") and prints the IR the\n" +
			"reference-count pass synthesizes for it, driving pkg/oracle and\n" +
			"internal/refcount exactly as a real code generator would.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}
	root.Flags().IntVar(&cfg.PtrSize, "ptr-size", cfg.PtrSize, "target pointer width in bytes")
	root.Flags().BoolVarP(&cfg.EmitDebugComments, "verbose", "v", cfg.EmitDebugComments, "annotate IR with layout keys and shapes")

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(cfg rcconfig.Config, args []string) error {
	if cfg.EmitDebugComments {
		log.SetLevel(logrus.DebugLevel)
	}

	var src []byte
	var err error
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	lines, err := parseScript(string(src))
	if err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("script had no directives")
	}

	o := oracle.New(log)
	pass := refcount.New(o, cfg.PtrSize)

	for i, sl := range lines {
		if !layout.IsImplemented(sl.layout) && !cfg.TreatBareRecursivePointerAsImplemented {
			return fmt.Errorf("line %d (%q): layout is not implemented at the top level", i+1, sl.raw)
		}

		if cfg.EmitDebugComments {
			fmt.Printf("; %s\n; key=%s shape=%s\n", sl.raw, layout.Key(sl.layout), layout.ShapeString(sl.layout.Shape()))
		}

		tail := pass.Arena.NewRet("done")
		stmt := pass.Lower(sl.layout, sl.directive, tail)

		var b strings.Builder
		printStmt(&b, stmt, 0)
		fmt.Print(b.String())
		fmt.Println()
	}

	return nil
}
