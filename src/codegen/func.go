package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"

	"vslc/src/ast"
	"vslc/src/symtab"
	"vslc/src/types"
)

// Func carries the per-function state the evaluator needs while lowering
// one function declaration's body: the llir/llvm function being built, the
// basic block instructions are currently appended to, and the function's
// declared return type (used to synthesize the guard return).
type Func struct {
	ctx  *Context
	LLVM *ir.Func
	cur  *ir.Block
	ret  types.Type
	id   int
}

// declareFunctions registers every function's signature before any body is
// lowered, so a function may call itself or a function declared after it —
// this is what makes the recursive fib scenario type-check.
func declareFunctions(ctx *Context, prog *ast.Program) error {
	for _, fd := range prog.Funcs {
		retKind, err := types.ParsePrimitiveName(fd.ReturnType)
		if err != nil {
			return errors.Wrapf(ErrUnknownType, "function %q: return type %q", fd.Name, fd.ReturnType)
		}
		retType := types.Primitive(retKind)

		params := make([]*ir.Param, 0, len(fd.Params))
		paramTypes := make([]types.Type, 0, len(fd.Params))
		for _, p := range fd.Params {
			pKind, err := types.ParsePrimitiveName(p.TypeName)
			if err != nil {
				return errors.Wrapf(ErrUnknownType, "function %q: parameter %q type %q", fd.Name, p.Name, p.TypeName)
			}
			pt := types.Primitive(pKind)
			if p.IsArray {
				pt = types.Array(pKind)
			}
			params = append(params, ir.NewParam(p.Name, ToLLVMType(pt)))
			paramTypes = append(paramTypes, pt)
		}

		fn := ctx.Module.NewFunc(fd.Name, ToLLVM(retKind), params...)

		err = ctx.Funcs.Register(fd.Name, &symtab.FuncHandle{
			Decl:       fd,
			LLVM:       fn,
			ReturnType: retType,
			HasReturn:  true,
			ParamTypes: paramTypes,
		})
		if err != nil {
			return errors.Wrapf(err, "function %q", fd.Name)
		}
	}
	return nil
}

// genFunc lowers one already-declared function's body.
func genFunc(ctx *Context, fd *ast.FuncDecl) error {
	h, err := ctx.Funcs.Lookup(fd.Name)
	if err != nil {
		return err
	}
	fn := h.LLVM.(*ir.Func)

	f := &Func{ctx: ctx, LLVM: fn, ret: h.ReturnType, id: fd.Id()}
	f.cur = fn.NewBlock("entry")

	scope := symtab.NewRoot()
	for i, p := range fd.Params {
		pt := h.ParamTypes[i]
		if pt.IsArray() {
			if err := scope.Declare(p.Name, &symtab.VarHandle{Type: pt, Addr: fn.Params[i]}); err != nil {
				return errors.Wrapf(err, "function %q parameter %q", fd.Name, p.Name)
			}
			continue
		}
		ptr := f.cur.NewAlloca(ToLLVM(pt.Kind()))
		ptr.SetName(fmt.Sprintf("ptr.%s.%d", p.Name, fd.Id()))
		f.cur.NewStore(fn.Params[i], ptr)
		if err := scope.Declare(p.Name, &symtab.VarHandle{Type: pt, Addr: ptr}); err != nil {
			return errors.Wrapf(err, "function %q parameter %q", fd.Name, p.Name)
		}
	}

	if _, err := f.evalBlock(fd.Body, scope); err != nil {
		return errors.Wrapf(err, "function %q", fd.Name)
	}
	f.emitGuardReturn()
	return nil
}

// emitGuardReturn appends the trailing `ret <ret_ty> <zero>` spec.md
// mandates to guard paths that fall off the end of the function body. It
// closes whatever block is current: if that block has no terminator yet
// (the common case, including a dangling if/else end.N block whose
// branches all returned), the guard ret closes it directly. Only when
// f.cur is already terminated — the body's last statement was itself a
// return — does the guard spill into a fresh, otherwise-unreachable block,
// since llir/llvm refuses a second terminator on the same block. Any other
// block still lacking a terminator (the end.N of a nested if whose
// branches both returned) receives the same guard ret.
func (f *Func) emitGuardReturn() {
	if f.cur.Term != nil {
		f.cur = f.LLVM.NewBlock(fmt.Sprintf("unreachable.%d", f.id))
	}
	for _, block := range f.LLVM.Blocks {
		if block.Term == nil {
			block.NewRet(zeroOf(f.ret))
		}
	}
}

func zeroOf(t types.Type) constant.Constant {
	if t.Kind() == types.Float {
		return constant.NewFloat(irtypes.Double, 0)
	}
	return constant.NewInt(irtypes.I64, 0)
}
