package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"vslc/src/ast"
	"vslc/src/symtab"
	"vslc/src/types"
)

// evalStmt dispatches on the concrete AST statement type. It returns
// terminated = true when control cannot fall through past this statement
// (a return, or an if/else whose branches both returned; a while always
// reports false) — the caller uses this to decide whether to keep
// appending to f.cur or whether the block is done.
func (f *Func) evalStmt(s ast.Stmt, scope *symtab.Scope) (terminated bool, err error) {
	switch n := s.(type) {
	case *ast.VarDecl:
		return false, f.evalVarDecl(n, scope)
	case *ast.Assign:
		return false, f.evalAssign(n, scope)
	case *ast.Block:
		return f.evalBlock(n, scope.NewChild())
	case *ast.If:
		return f.evalIf(n, scope)
	case *ast.While:
		return f.evalWhile(n, scope)
	case *ast.Return:
		return f.evalReturn(n, scope)
	case *ast.Print:
		return false, f.evalPrint(n, scope)
	case *ast.Scan:
		return false, f.evalScan(n, scope)
	default:
		return false, errors.Wrapf(ErrUnknownOperator, "unrecognized statement node %T", s)
	}
}

// evalBlock evaluates stmts in scope in order, stopping early once a
// statement terminates the block — spec.md's AST Evaluator never continues
// lowering dead code past a return.
func (f *Func) evalBlock(b *ast.Block, scope *symtab.Scope) (bool, error) {
	for _, s := range b.Stmts {
		terminated, err := f.evalStmt(s, scope)
		if err != nil {
			return false, err
		}
		if terminated {
			return true, nil
		}
	}
	return false, nil
}

func (f *Func) evalVarDecl(n *ast.VarDecl, scope *symtab.Scope) error {
	kind, err := types.ParsePrimitiveName(n.TypeName)
	if err != nil {
		return errors.Wrapf(ErrUnknownType, "%q at %d:%d", n.TypeName, n.Pos())
	}

	if n.IsArray {
		if n.Size == nil {
			return errors.Wrapf(ErrMissingArraySize, "%q at %d:%d", n.Name, n.Pos())
		}
		if n.Init != nil {
			return errors.Wrapf(ErrTypeMismatch, "array %q may not have an initializer at %d:%d", n.Name, n.Pos())
		}
		size, err := f.evalExpr(n.Size, scope)
		if err != nil {
			return err
		}
		if size.T.IsArray() || size.T.Kind() != types.Int {
			return errors.Wrapf(ErrIndexMustBeInt, "array %q size at %d:%d", n.Name, n.Pos())
		}

		elemTy := ToLLVM(kind)
		arr := f.cur.NewAlloca(elemTy)
		arr.NElems = size.V
		arr.SetName(fmt.Sprintf("ptr.%s.%d", n.Name, n.Id()))

		return scope.Declare(n.Name, &symtab.VarHandle{Type: types.Array(kind), Addr: arr})
	}

	declType := types.Primitive(kind)
	ptr := f.cur.NewAlloca(ToLLVM(kind))
	ptr.SetName(fmt.Sprintf("ptr.%s.%d", n.Name, n.Id()))

	if err := scope.Declare(n.Name, &symtab.VarHandle{Type: declType, Addr: ptr}); err != nil {
		return errors.Wrapf(err, "at %d:%d", n.Pos())
	}

	if n.Init != nil {
		v, err := f.evalExpr(n.Init, scope)
		if err != nil {
			return err
		}
		if !v.T.Equal(declType) {
			return errors.Wrapf(ErrTypeMismatch, "initializer for %q: want %s, got %s at %d:%d", n.Name, declType, v.T, n.Pos())
		}
		f.cur.NewStore(v.V, ptr)
	}
	return nil
}

// evalAssign computes the store target's pointer exactly once and stores
// through it directly — it never routes through the identifier/index
// rvalue evaluators, which would emit an extra load and (for an indexed
// target) duplicate the index expression's side effects.
func (f *Func) evalAssign(n *ast.Assign, scope *symtab.Scope) error {
	h, err := scope.Lookup(n.Name)
	if err != nil {
		return errors.Wrapf(err, "at %d:%d", n.Pos())
	}

	rhs, err := f.evalExpr(n.RHS, scope)
	if err != nil {
		return err
	}

	if n.Index == nil {
		if h.Type.IsArray() {
			return errors.Wrapf(ErrCannotAssignToArray, "%q at %d:%d", n.Name, n.Pos())
		}
		if !rhs.T.Equal(h.Type) {
			return errors.Wrapf(ErrTypeMismatch, "assignment to %q: want %s, got %s at %d:%d", n.Name, h.Type, rhs.T, n.Pos())
		}
		f.cur.NewStore(rhs.V, h.Addr)
		return nil
	}

	if !h.Type.IsArray() {
		return errors.Wrapf(ErrNotAnArray, "%q at %d:%d", n.Name, n.Pos())
	}
	idx, err := f.evalExpr(n.Index, scope)
	if err != nil {
		return err
	}
	if idx.T.IsArray() || idx.T.Kind() != types.Int {
		return errors.Wrapf(ErrIndexMustBeInt, "at %d:%d", n.Pos())
	}
	if rhs.T.IsArray() || rhs.T.Kind() != h.Type.ElementKind() {
		return errors.Wrapf(ErrTypeMismatch, "assignment to %q[..]: want %s, got %s at %d:%d", n.Name, h.Type.ElementKind(), rhs.T, n.Pos())
	}

	elemTy := ToLLVM(h.Type.ElementKind())
	gep := f.cur.NewGetElementPtr(elemTy, h.Addr, idx.V)
	gep.SetName(fmt.Sprintf("arrayPtr.%d", n.Id()))
	f.cur.NewStore(rhs.V, gep)
	return nil
}

// evalIf lowers an if/else exactly as spec.md prescribes: then and else
// labels are always both emitted, converging on an end label. It reports
// terminated = true only when both branches return on every path, so a
// caller can omit dead code after a fully-returning if.
func (f *Func) evalIf(n *ast.If, scope *symtab.Scope) (bool, error) {
	cond, err := f.evalExpr(n.Cond, scope)
	if err != nil {
		return false, err
	}
	if cond.T.IsArray() || cond.T.Kind() != types.Int {
		return false, errors.Wrapf(ErrConditionMustBeInt, "at %d:%d", n.Pos())
	}
	test := f.cur.NewICmp(enum.IPredNE, cond.V, constant.NewInt(irtypes.I64, 0))
	test.SetName(fmt.Sprintf("conditionCast.%d", n.Id()))

	thenBlock := f.LLVM.NewBlock(fmt.Sprintf("then.%d", n.Id()))
	elseBlock := f.LLVM.NewBlock(fmt.Sprintf("else.%d", n.Id()))
	endBlock := f.LLVM.NewBlock(fmt.Sprintf("end.%d", n.Id()))
	f.cur.NewCondBr(test, thenBlock, elseBlock)

	f.cur = thenBlock
	thenTerminated, err := f.evalBlock(n.Then, scope.NewChild())
	if err != nil {
		return false, err
	}
	if !thenTerminated {
		f.cur.NewBr(endBlock)
	}

	f.cur = elseBlock
	elseTerminated := false
	if n.Else != nil {
		elseTerminated, err = f.evalBlock(n.Else, scope.NewChild())
		if err != nil {
			return false, err
		}
	}
	if !elseTerminated {
		f.cur.NewBr(endBlock)
	}

	f.cur = endBlock
	if thenTerminated && elseTerminated {
		// end.i is unreachable: every live path already returned. It is
		// still emitted, matching spec.md's "always emitted" requirement,
		// and left without a terminator of its own. The enclosing block
		// stops lowering here, and the function's guard return later
		// closes end.i, since it has no terminator yet.
		return true, nil
	}
	return false, nil
}

// evalWhile lowers a pre-tested loop. The condition is re-evaluated at the
// top of while.i on every iteration, so any side effects in it run once
// per iteration plus once more for the exiting check, as spec.md requires.
func (f *Func) evalWhile(n *ast.While, scope *symtab.Scope) (bool, error) {
	whileBlock := f.LLVM.NewBlock(fmt.Sprintf("while.%d", n.Id()))
	bodyBlock := f.LLVM.NewBlock(fmt.Sprintf("block.%d", n.Id()))
	endBlock := f.LLVM.NewBlock(fmt.Sprintf("end.%d", n.Id()))

	f.cur.NewBr(whileBlock)
	f.cur = whileBlock

	cond, err := f.evalExpr(n.Cond, scope)
	if err != nil {
		return false, err
	}
	if cond.T.IsArray() || cond.T.Kind() != types.Int {
		return false, errors.Wrapf(ErrConditionMustBeInt, "at %d:%d", n.Pos())
	}
	test := f.cur.NewICmp(enum.IPredNE, cond.V, constant.NewInt(irtypes.I64, 0))
	test.SetName(fmt.Sprintf("conditionCast.%d", n.Id()))
	f.cur.NewCondBr(test, bodyBlock, endBlock)

	f.cur = bodyBlock
	bodyTerminated, err := f.evalBlock(n.Body, scope.NewChild())
	if err != nil {
		return false, err
	}
	if !bodyTerminated {
		f.cur.NewBr(whileBlock)
	}

	f.cur = endBlock
	return false, nil
}

func (f *Func) evalReturn(n *ast.Return, scope *symtab.Scope) (bool, error) {
	v, err := f.evalExpr(n.Value, scope)
	if err != nil {
		return false, err
	}
	if !v.T.Equal(f.ret) {
		return false, errors.Wrapf(ErrTypeMismatch, "return: want %s, got %s at %d:%d", f.ret, v.T, n.Pos())
	}
	f.cur.NewRet(v.V)
	return true, nil
}

// evalPrint evaluates the format string and arguments in source order and
// calls the variadic printf declaration every Context carries.
func (f *Func) evalPrint(n *ast.Print, scope *symtab.Scope) error {
	fmtPtr := f.ctx.StringPtr(n.Format.Value)

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := f.evalExpr(a, scope)
		if err != nil {
			return err
		}
		args[i] = v.V
	}

	call := f.cur.NewCall(f.ctx.Printf, append([]value.Value{fmtPtr}, args...)...)
	call.SetName(fmt.Sprintf("printCall.%d", n.Id()))
	return nil
}

// evalScan evaluates scanf targets into pointer operands: an indexed
// target's element pointer is computed once via getelementptr, a plain
// target's pointer is used directly.
func (f *Func) evalScan(n *ast.Scan, scope *symtab.Scope) error {
	fmtPtr := f.ctx.StringPtr(n.Format.Value)

	args := make([]value.Value, len(n.Targets))
	for i, t := range n.Targets {
		h, err := scope.Lookup(t.Name)
		if err != nil {
			return errors.Wrapf(err, "at %d:%d", n.Pos())
		}
		if t.Index != nil {
			if !h.Type.IsArray() {
				return errors.Wrapf(ErrNotAnArray, "%q at %d:%d", t.Name, n.Pos())
			}
			idx, err := f.evalExpr(t.Index, scope)
			if err != nil {
				return err
			}
			if idx.T.IsArray() || idx.T.Kind() != types.Int {
				return errors.Wrapf(ErrIndexMustBeInt, "at %d:%d", n.Pos())
			}
			elemTy := ToLLVM(h.Type.ElementKind())
			gep := f.cur.NewGetElementPtr(elemTy, h.Addr, idx.V)
			gep.SetName(fmt.Sprintf("arrayPtr.%d.%d", n.Id(), i))
			args[i] = gep
			continue
		}
		if h.Type.IsArray() {
			return errors.Wrapf(ErrCannotScanIntoArray, "%q at %d:%d", t.Name, n.Pos())
		}
		args[i] = h.Addr
	}

	call := f.cur.NewCall(f.ctx.Scanf, append([]value.Value{fmtPtr}, args...)...)
	call.SetName(fmt.Sprintf("scanCall.%d", n.Id()))
	return nil
}
