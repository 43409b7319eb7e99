package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vslc/src/ast"
)

// program1 returns: int main() { return 42; }
func program1(b *ast.Builder) *ast.Program {
	body := b.Block(1, 1, []ast.Stmt{
		b.Return(1, 1, b.IntLit(1, 1, 42)),
	})
	main := b.FuncDecl(1, 1, "main", "int", nil, body)
	return b.Program(1, 1, []*ast.FuncDecl{main})
}

func TestGenerateIntegerReturn(t *testing.T) {
	b := ast.NewBuilder()
	ctx, err := Generate(program1(b))
	require.NoError(t, err)

	ir := ctx.Module.String()
	assert.Contains(t, ir, "define i64 @main()")
	assert.Contains(t, ir, "entry:")
	assert.Contains(t, ir, "add i64 0, 42")
	assert.Contains(t, ir, "ret i64")
	assert.Contains(t, ir, "declare i32 @printf")
	assert.Contains(t, ir, "declare i32 @scanf")
}

// program2: int main() { float f = 1.0; int i = 2; return (int)(f + i); }
func program2(b *ast.Builder) *ast.Program {
	fDecl := b.VarDecl(1, 1, "f", "float", false, nil, b.FloatLit(1, 1, 1.0))
	iDecl := b.VarDecl(1, 1, "i", "int", false, nil, b.IntLit(1, 1, 2))
	sum := b.BinaryExpr(1, 1, "+", b.Ident(1, 1, "f"), b.Ident(1, 1, "i"))
	ret := b.Return(1, 1, b.CastExpr(1, 1, "int", sum))
	body := b.Block(1, 1, []ast.Stmt{fDecl, iDecl, ret})
	main := b.FuncDecl(1, 1, "main", "int", nil, body)
	return b.Program(1, 1, []*ast.FuncDecl{main})
}

func TestGenerateFloatPromotion(t *testing.T) {
	b := ast.NewBuilder()
	ctx, err := Generate(program2(b))
	require.NoError(t, err)

	ir := ctx.Module.String()
	assert.Contains(t, ir, "sitofp i64")
	assert.Contains(t, ir, "fadd double")
	assert.Contains(t, ir, "fptosi double")
	assert.Contains(t, ir, "ret i64")
}

// program3: int main() { int i = 3; while (i) { i = i - 1; } return i; }
func program3(b *ast.Builder) *ast.Program {
	iDecl := b.VarDecl(1, 1, "i", "int", false, nil, b.IntLit(1, 1, 3))
	dec := b.Assign(1, 1, "i", nil, b.BinaryExpr(1, 1, "-", b.Ident(1, 1, "i"), b.IntLit(1, 1, 1)))
	loop := b.While(1, 1, b.Ident(1, 1, "i"), b.Block(1, 1, []ast.Stmt{dec}))
	ret := b.Return(1, 1, b.Ident(1, 1, "i"))
	body := b.Block(1, 1, []ast.Stmt{iDecl, loop, ret})
	main := b.FuncDecl(1, 1, "main", "int", nil, body)
	return b.Program(1, 1, []*ast.FuncDecl{main})
}

func TestGenerateWhileLoop(t *testing.T) {
	b := ast.NewBuilder()
	ctx, err := Generate(program3(b))
	require.NoError(t, err)

	ir := ctx.Module.String()
	assert.Contains(t, ir, "while.")
	assert.Contains(t, ir, "block.")
	assert.Contains(t, ir, "end.")
	assert.Contains(t, ir, "icmp ne i64")
}

// program4: int main() { int[3] a; a[0]=10; a[1]=20; a[2]=30; return a[0]+a[1]+a[2]; }
func program4(b *ast.Builder) *ast.Program {
	decl := b.VarDecl(1, 1, "a", "int", true, b.IntLit(1, 1, 3), nil)
	set := func(i, v int64) ast.Stmt {
		return b.Assign(1, 1, "a", b.IntLit(1, 1, i), b.IntLit(1, 1, v))
	}
	sum := b.BinaryExpr(1, 1, "+",
		b.BinaryExpr(1, 1, "+", b.IndexExpr(1, 1, "a", b.IntLit(1, 1, 0)), b.IndexExpr(1, 1, "a", b.IntLit(1, 1, 1))),
		b.IndexExpr(1, 1, "a", b.IntLit(1, 1, 2)))
	ret := b.Return(1, 1, sum)
	body := b.Block(1, 1, []ast.Stmt{decl, set(0, 10), set(1, 20), set(2, 30), ret})
	main := b.FuncDecl(1, 1, "main", "int", nil, body)
	return b.Program(1, 1, []*ast.FuncDecl{main})
}

func TestGenerateArraySum(t *testing.T) {
	b := ast.NewBuilder()
	ctx, err := Generate(program4(b))
	require.NoError(t, err)

	ir := ctx.Module.String()
	// the size literal is the first node minted, so it is lowered into
	// %val.0 and that register is the alloca's element count
	assert.Contains(t, ir, "%val.0 = add i64 0, 3")
	assert.Contains(t, ir, "alloca i64, i64 %val.0")
	// three indexed stores plus three indexed loads, each a getelementptr i64
	assert.Equal(t, 6, strings.Count(ir, "getelementptr i64"))
	assert.Equal(t, 2, strings.Count(ir, "add i64 %"))
}

// program5: two printf("hi\n") calls in one function.
func program5(b *ast.Builder) *ast.Program {
	p1 := b.Print(1, 1, b.StringLit(1, 1, "hi\n"), nil)
	p2 := b.Print(1, 1, b.StringLit(1, 1, "hi\n"), nil)
	ret := b.Return(1, 1, b.IntLit(1, 1, 0))
	body := b.Block(1, 1, []ast.Stmt{p1, p2, ret})
	main := b.FuncDecl(1, 1, "main", "int", nil, body)
	return b.Program(1, 1, []*ast.FuncDecl{main})
}

func TestGenerateStringDedup(t *testing.T) {
	b := ast.NewBuilder()
	ctx, err := Generate(program5(b))
	require.NoError(t, err)

	ir := ctx.Module.String()
	assert.Equal(t, 1, strings.Count(ir, `private constant [4 x i8] c"hi\0A\00"`))
	// one global definition plus one reference per call site
	assert.Equal(t, 3, strings.Count(ir, "@str.0"))
}

// program6: int fib(int n) { if (n <= 1) { return n; } return fib(n-1)+fib(n-2); }
//           int main() { return fib(5); }
func program6(b *ast.Builder) *ast.Program {
	n := ast.Param{Name: "n", TypeName: "int"}
	cond := b.RelExpr(1, 1, "<=", b.Ident(1, 1, "n"), b.IntLit(1, 1, 1))
	thenBlk := b.Block(1, 1, []ast.Stmt{b.Return(1, 1, b.Ident(1, 1, "n"))})
	ifStmt := b.If(1, 1, cond, thenBlk, nil)
	call1 := b.CallExpr(1, 1, "fib", []ast.Expr{b.BinaryExpr(1, 1, "-", b.Ident(1, 1, "n"), b.IntLit(1, 1, 1))})
	call2 := b.CallExpr(1, 1, "fib", []ast.Expr{b.BinaryExpr(1, 1, "-", b.Ident(1, 1, "n"), b.IntLit(1, 1, 2))})
	ret := b.Return(1, 1, b.BinaryExpr(1, 1, "+", call1, call2))
	fibBody := b.Block(1, 1, []ast.Stmt{ifStmt, ret})
	fib := b.FuncDecl(1, 1, "fib", "int", []ast.Param{n}, fibBody)

	mainBody := b.Block(1, 1, []ast.Stmt{b.Return(1, 1, b.CallExpr(1, 1, "fib", []ast.Expr{b.IntLit(1, 1, 5)}))})
	main := b.FuncDecl(1, 1, "main", "int", nil, mainBody)

	return b.Program(1, 1, []*ast.FuncDecl{fib, main})
}

func TestGenerateRecursion(t *testing.T) {
	b := ast.NewBuilder()
	ctx, err := Generate(program6(b))
	require.NoError(t, err)

	ir := ctx.Module.String()
	// two recursive calls inside fib, plus main's initial call
	assert.Equal(t, 3, strings.Count(ir, "call i64 @fib(i64"))
}

// program7: int f(int n) { if (n) { return 1; } else { return 2; } }
// Both branches of the if return, so the if's own end.N block is left
// with no terminator of its own — String() must not panic on it, and the
// function's guard return must close it rather than orphan it.
func program7(b *ast.Builder) *ast.Program {
	n := ast.Param{Name: "n", TypeName: "int"}
	thenBlk := b.Block(1, 1, []ast.Stmt{b.Return(1, 1, b.IntLit(1, 1, 1))})
	elseBlk := b.Block(1, 1, []ast.Stmt{b.Return(1, 1, b.IntLit(1, 1, 2))})
	ifStmt := b.If(1, 1, b.Ident(1, 1, "n"), thenBlk, elseBlk)
	body := b.Block(1, 1, []ast.Stmt{ifStmt})
	f := b.FuncDecl(1, 1, "f", "int", []ast.Param{n}, body)
	return b.Program(1, 1, []*ast.FuncDecl{f})
}

func TestGenerateIfElseBothReturnClosesEndBlock(t *testing.T) {
	b := ast.NewBuilder()
	ctx, err := Generate(program7(b))
	require.NoError(t, err)

	// ir.Module.String() walks every block's terminator; a dangling
	// end.N with Term == nil panics here instead of returning a string.
	ir := ctx.Module.String()
	assert.Contains(t, ir, "ret i64 1")
	assert.Contains(t, ir, "ret i64 2")

	endLabel := "end."
	idx := strings.Index(ir, endLabel)
	require.NotEqual(t, -1, idx, "expected an end.N label in the generated IR")
	tail := ir[idx:]
	nextBlankOrBrace := strings.IndexAny(tail, "}")
	require.NotEqual(t, -1, nextBlankOrBrace)
	assert.Contains(t, tail[:nextBlankOrBrace], "ret")
}
