package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"vslc/src/ast"
	"vslc/src/symtab"
	"vslc/src/types"
)

// namedValue is satisfied by every llir/llvm instruction this evaluator
// creates: a value usable as an operand, with a settable register name.
type namedValue interface {
	value.Value
	SetName(string)
}

// evalExpr dispatches on the concrete AST expression type, matching
// spec.md's §4.4 one-method-per-node-variant evaluator. Every case type
// checks its operands, emits its instruction sequence, and returns the
// value handle flowing up to the parent node.
func (f *Func) evalExpr(e ast.Expr, scope *symtab.Scope) (Val, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return f.evalIntLit(n)
	case *ast.FloatLit:
		return f.evalFloatLit(n)
	case *ast.Ident:
		return f.evalIdent(n, scope)
	case *ast.IndexExpr:
		return f.evalIndex(n, scope)
	case *ast.UnaryExpr:
		return f.evalUnary(n, scope)
	case *ast.BinaryExpr:
		return f.evalBinary(n, scope)
	case *ast.RelExpr:
		return f.evalRel(n, scope)
	case *ast.NotExpr:
		return f.evalNot(n, scope)
	case *ast.LogicalExpr:
		return f.evalLogical(n, scope)
	case *ast.CastExpr:
		return f.evalCast(n, scope)
	case *ast.CallExpr:
		return f.evalCall(n, scope)
	default:
		return Val{}, errors.Wrapf(ErrUnknownOperator, "unrecognized expression node %T", e)
	}
}

func (f *Func) evalIntLit(n *ast.IntLit) (Val, error) {
	r := f.cur.NewAdd(constant.NewInt(irtypes.I64, 0), constant.NewInt(irtypes.I64, n.Value))
	r.SetName(fmt.Sprintf("val.%d", n.Id()))
	return Val{V: r, T: types.TypeInt}, nil
}

func (f *Func) evalFloatLit(n *ast.FloatLit) (Val, error) {
	r := f.cur.NewFAdd(constant.NewFloat(irtypes.Double, 0), constant.NewFloat(irtypes.Double, n.Value))
	r.SetName(fmt.Sprintf("val.%d", n.Id()))
	return Val{V: r, T: types.TypeFloat}, nil
}

func (f *Func) evalIdent(n *ast.Ident, scope *symtab.Scope) (Val, error) {
	h, err := scope.Lookup(n.Name)
	if err != nil {
		return Val{}, errors.Wrapf(err, "at %d:%d", n.Pos())
	}
	if h.Type.IsArray() {
		return Val{V: h.Addr, T: h.Type}, nil
	}
	r := f.cur.NewLoad(ToLLVM(h.Type.Kind()), h.Addr)
	r.SetName(fmt.Sprintf("var.%d", n.Id()))
	return Val{V: r, T: h.Type}, nil
}

func (f *Func) evalIndex(n *ast.IndexExpr, scope *symtab.Scope) (Val, error) {
	h, err := scope.Lookup(n.Name)
	if err != nil {
		return Val{}, errors.Wrapf(err, "at %d:%d", n.Pos())
	}
	if !h.Type.IsArray() {
		return Val{}, errors.Wrapf(ErrNotAnArray, "%q at %d:%d", n.Name, n.Pos())
	}
	idx, err := f.evalExpr(n.Index, scope)
	if err != nil {
		return Val{}, err
	}
	if idx.T.IsArray() || idx.T.Kind() != types.Int {
		return Val{}, errors.Wrapf(ErrIndexMustBeInt, "at %d:%d", n.Pos())
	}

	elemTy := ToLLVM(h.Type.Kind())
	gep := f.cur.NewGetElementPtr(elemTy, h.Addr, idx.V)
	gep.SetName(fmt.Sprintf("arrayPtr.%d", n.Id()))

	r := f.cur.NewLoad(elemTy, gep)
	r.SetName(fmt.Sprintf("var.%d", n.Id()))
	return Val{V: r, T: types.Primitive(h.Type.Kind())}, nil
}

func (f *Func) evalUnary(n *ast.UnaryExpr, scope *symtab.Scope) (Val, error) {
	v, err := f.evalExpr(n.Operand, scope)
	if err != nil {
		return Val{}, err
	}
	if v.T.IsArray() {
		return Val{}, errors.Wrapf(ErrArrayOperandForbidden, "at %d:%d", n.Pos())
	}
	switch n.Op {
	case "+":
		return v, nil
	case "-":
		var res namedValue
		var resT types.Type
		if v.T.Kind() == types.Float {
			res, resT = f.cur.NewFSub(constant.NewFloat(irtypes.Double, 0), v.V), types.TypeFloat
		} else {
			res, resT = f.cur.NewSub(constant.NewInt(irtypes.I64, 0), v.V), types.TypeInt
		}
		res.SetName(fmt.Sprintf("unOp.%d", n.Id()))
		return Val{V: res, T: resT}, nil
	default:
		return Val{}, errors.Wrapf(ErrUnknownOperator, "unary %q at %d:%d", n.Op, n.Pos())
	}
}

// promote applies spec.md's implicit int->float promotion: if exactly one
// of l, r is Float, the Int side is converted with sitofp and the common
// type becomes Float. Arrays are rejected by the caller before promote is
// invoked.
func (f *Func) promote(id int, l, r Val) (Val, Val, types.Type) {
	if l.T.Kind() == r.T.Kind() {
		return l, r, l.T
	}
	if l.T.Kind() == types.Int {
		conv := f.cur.NewSIToFP(l.V, irtypes.Double)
		conv.SetName(fmt.Sprintf("conv.%d", id))
		l = Val{V: conv, T: types.TypeFloat}
	} else {
		conv := f.cur.NewSIToFP(r.V, irtypes.Double)
		conv.SetName(fmt.Sprintf("conv.%d", id))
		r = Val{V: conv, T: types.TypeFloat}
	}
	return l, r, types.TypeFloat
}

func (f *Func) evalBinary(n *ast.BinaryExpr, scope *symtab.Scope) (Val, error) {
	l, err := f.evalExpr(n.Left, scope)
	if err != nil {
		return Val{}, err
	}
	r, err := f.evalExpr(n.Right, scope)
	if err != nil {
		return Val{}, err
	}
	if l.T.IsArray() || r.T.IsArray() {
		return Val{}, errors.Wrapf(ErrArrayOperandForbidden, "at %d:%d", n.Pos())
	}
	l, r, common := f.promote(n.Id(), l, r)

	if n.Op == "%" && common.Kind() == types.Float {
		return Val{}, errors.Wrapf(ErrTypeMismatch, "%% not supported on float at %d:%d", n.Pos())
	}

	isFloat := common.Kind() == types.Float
	var res namedValue
	switch n.Op {
	case "+":
		if isFloat {
			res = f.cur.NewFAdd(l.V, r.V)
		} else {
			res = f.cur.NewAdd(l.V, r.V)
		}
	case "-":
		if isFloat {
			res = f.cur.NewFSub(l.V, r.V)
		} else {
			res = f.cur.NewSub(l.V, r.V)
		}
	case "*":
		if isFloat {
			res = f.cur.NewFMul(l.V, r.V)
		} else {
			res = f.cur.NewMul(l.V, r.V)
		}
	case "/":
		if isFloat {
			res = f.cur.NewFDiv(l.V, r.V)
		} else {
			res = f.cur.NewSDiv(l.V, r.V)
		}
	case "%":
		res = f.cur.NewSRem(l.V, r.V)
	default:
		return Val{}, errors.Wrapf(ErrUnknownOperator, "binary %q at %d:%d", n.Op, n.Pos())
	}
	res.SetName(fmt.Sprintf("binOp.%d", n.Id()))
	return Val{V: res, T: common}, nil
}

func (f *Func) evalRel(n *ast.RelExpr, scope *symtab.Scope) (Val, error) {
	l, err := f.evalExpr(n.Left, scope)
	if err != nil {
		return Val{}, err
	}
	r, err := f.evalExpr(n.Right, scope)
	if err != nil {
		return Val{}, err
	}
	if l.T.IsArray() || r.T.IsArray() {
		return Val{}, errors.Wrapf(ErrArrayOperandForbidden, "at %d:%d", n.Pos())
	}
	l, r, common := f.promote(n.Id(), l, r)

	var temp namedValue
	if common.Kind() == types.Float {
		pred, err := fpred(n.Op)
		if err != nil {
			return Val{}, errors.Wrapf(err, "at %d:%d", n.Pos())
		}
		temp = f.cur.NewFCmp(pred, l.V, r.V)
	} else {
		pred, err := ipred(n.Op)
		if err != nil {
			return Val{}, errors.Wrapf(err, "at %d:%d", n.Pos())
		}
		temp = f.cur.NewICmp(pred, l.V, r.V)
	}
	temp.SetName(fmt.Sprintf("temp.%d", n.Id()))

	widened := f.cur.NewZExt(temp, irtypes.I64)
	widened.SetName(fmt.Sprintf("relOp.%d", n.Id()))
	return Val{V: widened, T: types.TypeInt}, nil
}

func ipred(op string) (enum.IPred, error) {
	switch op {
	case "==":
		return enum.IPredEQ, nil
	case "!=":
		return enum.IPredNE, nil
	case "<":
		return enum.IPredSLT, nil
	case ">":
		return enum.IPredSGT, nil
	case "<=":
		return enum.IPredSLE, nil
	case ">=":
		return enum.IPredSGE, nil
	default:
		return 0, errors.Wrapf(ErrUnknownOperator, "relational %q", op)
	}
}

func fpred(op string) (enum.FPred, error) {
	switch op {
	case "==":
		return enum.FPredOEQ, nil
	case "!=":
		return enum.FPredONE, nil
	case "<":
		return enum.FPredOLT, nil
	case ">":
		return enum.FPredOGT, nil
	case "<=":
		return enum.FPredOLE, nil
	case ">=":
		return enum.FPredOGE, nil
	default:
		return 0, errors.Wrapf(ErrUnknownOperator, "relational %q", op)
	}
}

func (f *Func) evalNot(n *ast.NotExpr, scope *symtab.Scope) (Val, error) {
	v, err := f.evalExpr(n.Operand, scope)
	if err != nil {
		return Val{}, err
	}
	if v.T.IsArray() || v.T.Kind() != types.Int {
		return Val{}, errors.Wrapf(ErrLogicalOperandMustBeInt, "at %d:%d", n.Pos())
	}
	isZero := f.cur.NewICmp(enum.IPredEQ, v.V, constant.NewInt(irtypes.I64, 0))
	isZero.SetName(fmt.Sprintf("boolIsZero.%d", n.Id()))

	widened := f.cur.NewZExt(isZero, irtypes.I64)
	widened.SetName(fmt.Sprintf("boolUnOp.%d", n.Id()))
	return Val{V: widened, T: types.TypeInt}, nil
}

// evalLogical implements && and || as eager bitwise combination, exactly
// as spec.md's resolved open question requires: both operands are always
// evaluated, in source order, with no short-circuiting.
func (f *Func) evalLogical(n *ast.LogicalExpr, scope *symtab.Scope) (Val, error) {
	l, err := f.evalExpr(n.Left, scope)
	if err != nil {
		return Val{}, err
	}
	r, err := f.evalExpr(n.Right, scope)
	if err != nil {
		return Val{}, err
	}
	if l.T.IsArray() || l.T.Kind() != types.Int || r.T.IsArray() || r.T.Kind() != types.Int {
		return Val{}, errors.Wrapf(ErrLogicalOperandMustBeInt, "at %d:%d", n.Pos())
	}

	var combined namedValue
	switch n.Op {
	case "&&":
		combined = f.cur.NewAnd(l.V, r.V)
	case "||":
		combined = f.cur.NewOr(l.V, r.V)
	default:
		return Val{}, errors.Wrapf(ErrUnknownOperator, "logical %q at %d:%d", n.Op, n.Pos())
	}
	combined.SetName(fmt.Sprintf("and.%d", n.Id()))

	nz := f.cur.NewICmp(enum.IPredNE, combined, constant.NewInt(irtypes.I64, 0))
	nz.SetName(fmt.Sprintf("logic.%d", n.Id()))

	widened := f.cur.NewZExt(nz, irtypes.I64)
	widened.SetName(fmt.Sprintf("boolBinOp.%d", n.Id()))
	return Val{V: widened, T: types.TypeInt}, nil
}

func (f *Func) evalCast(n *ast.CastExpr, scope *symtab.Scope) (Val, error) {
	v, err := f.evalExpr(n.Operand, scope)
	if err != nil {
		return Val{}, err
	}
	if v.T.IsArray() {
		return Val{}, errors.Wrapf(ErrArrayOperandForbidden, "cast at %d:%d", n.Pos())
	}
	targetKind, err := types.ParsePrimitiveName(n.Target)
	if err != nil {
		return Val{}, errors.Wrapf(ErrUnknownType, "cast target %q at %d:%d", n.Target, n.Pos())
	}
	if v.T.Kind() == targetKind {
		return v, nil
	}

	var conv namedValue
	if targetKind == types.Float {
		conv = f.cur.NewSIToFP(v.V, irtypes.Double)
	} else {
		conv = f.cur.NewFPToSI(v.V, irtypes.I64)
	}
	conv.SetName(fmt.Sprintf("conv.%d", n.Id()))
	return Val{V: conv, T: types.Primitive(targetKind)}, nil
}

func (f *Func) evalCall(n *ast.CallExpr, scope *symtab.Scope) (Val, error) {
	h, err := f.ctx.Funcs.Lookup(n.Name)
	if err != nil {
		return Val{}, errors.Wrapf(err, "at %d:%d", n.Pos())
	}
	if len(n.Args) != len(h.ParamTypes) {
		return Val{}, errors.Wrapf(ErrArityMismatch, "%q: want %d argument(s), got %d at %d:%d",
			n.Name, len(h.ParamTypes), len(n.Args), n.Pos())
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := f.evalExpr(a, scope)
		if err != nil {
			return Val{}, err
		}
		if !v.T.Equal(h.ParamTypes[i]) {
			return Val{}, errors.Wrapf(ErrTypeMismatch, "%q argument %d: want %s, got %s at %d:%d",
				n.Name, i+1, h.ParamTypes[i], v.T, n.Pos())
		}
		args[i] = v.V
	}

	call := f.cur.NewCall(h.LLVM.(*ir.Func), args...)
	call.SetName(fmt.Sprintf("call.%d", n.Id()))
	return Val{V: call, T: h.ReturnType}, nil
}
