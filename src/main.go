package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"vslc/src/ast"
	"vslc/src/codegen"
	"vslc/src/util"
)

// run executes the compile command's stages: read the AST JSON, lower it,
// write the resulting IR. It mirrors the teacher's own staged run(opt)
// function, trimmed to the stages this core is responsible for.
func run(opt util.Options) error {
	log := util.NewLogger(opt.Verbose)

	log.WithField("src", opt.Src).Info("reading AST")
	data, err := os.ReadFile(opt.Src)
	if err != nil {
		return errors.Wrap(err, "reading AST file")
	}

	prog, err := ast.DecodeProgram(ast.NewBuilder(), data)
	if err != nil {
		return errors.Wrap(err, "decoding AST")
	}

	log.Info("generating IR")
	ctx, err := codegen.Generate(prog)
	if err != nil {
		return errors.Wrap(err, "code generation")
	}
	log.WithField("module", ctx.Module.String()).Debug("generated module")

	out := os.Stdout
	if opt.Out != "" {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "opening output file")
		}
		defer f.Close()
		out = f
	}

	if _, err := fmt.Fprint(out, ctx.Module.String()); err != nil {
		return errors.Wrap(err, "writing IR")
	}
	log.WithField("out", opt.Out).Info("wrote IR")
	return nil
}

func newRootCmd() *cobra.Command {
	opt := util.Options{}

	root := &cobra.Command{
		Use:   "vslc",
		Short: "vslc lowers a compiled language's AST to LLVM IR",
	}

	compile := &cobra.Command{
		Use:   "compile <ast.json>",
		Short: "Lower an AST JSON file to a textual LLVM IR module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt.Src = args[0]
			return run(opt)
		},
	}
	compile.Flags().StringVarP(&opt.Out, "out", "o", "", "output path for the generated IR (default stdout)")
	compile.Flags().BoolVarP(&opt.Verbose, "verbose", "v", false, "log the generated module at debug level")

	root.AddCommand(compile)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
