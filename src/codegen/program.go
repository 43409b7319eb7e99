// Package codegen is the AST Evaluator: it walks a parsed program and
// lowers it to a single textual buffer of LLVM IR, built with
// github.com/llir/llvm's object model rather than hand-managed string
// buffers.
package codegen

import (
	"github.com/pkg/errors"

	"vslc/src/ast"
)

// Generate lowers prog to a complete LLVM IR module. The header — printf
// and scanf declarations plus any interned string globals — and the body —
// one function definition per declared function — are both owned by the
// returned Context's *ir.Module; its String method renders header before
// body without any separate buffer bookkeeping.
func Generate(prog *ast.Program) (*Context, error) {
	ctx := NewContext()

	if err := declareFunctions(ctx, prog); err != nil {
		return nil, errors.Wrap(err, "declaring functions")
	}
	for _, fd := range prog.Funcs {
		if err := genFunc(ctx, fd); err != nil {
			return nil, errors.Wrapf(err, "generating function %q", fd.Name)
		}
	}
	return ctx, nil
}
