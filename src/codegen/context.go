package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"

	"vslc/src/symtab"
)

// Context is the compilation-wide state the evaluator threads through the
// tree walk: the IR module under construction, the function table, and the
// string-interning table. Bundling these in a value instead of package
// globals is what makes a Context safely reentrant — a fresh Context per
// compilation needs no reset step between runs.
type Context struct {
	Module *ir.Module
	Funcs  *symtab.FuncTable

	strings map[string]*ir.Global
	strSeq  int

	Printf *ir.Func
	Scanf  *ir.Func
}

// NewContext returns a Context with a fresh module already carrying the
// printf/scanf declarations spec.md requires to be present in the header
// regardless of whether the source program calls them.
func NewContext() *Context {
	m := ir.NewModule()

	printf := m.NewFunc("printf", irtypes.I32, ir.NewParam("", irtypes.I8Ptr))
	printf.Sig.Variadic = true

	scanf := m.NewFunc("scanf", irtypes.I32, ir.NewParam("", irtypes.I8Ptr))
	scanf.Sig.Variadic = true

	return &Context{
		Module:  m,
		Funcs:   symtab.NewFuncTable(),
		strings: make(map[string]*ir.Global),
		Printf:  printf,
		Scanf:   scanf,
	}
}

// InternString returns the global string constant holding s, creating it
// on first use. Re-interning identical content returns the same global,
// satisfying the string-dedup law. The array length is the UTF-8 byte
// count of s plus one for the NUL terminator.
func (c *Context) InternString(s string) *ir.Global {
	if g, ok := c.strings[s]; ok {
		return g
	}
	encoded := s + "\x00"
	arr := constant.NewCharArrayFromString(encoded)
	g := c.Module.NewGlobalDef(fmt.Sprintf("str.%d", c.strSeq), arr)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	c.strSeq++
	c.strings[s] = g
	return g
}

// StringPtr returns an i8* constant pointing at the first byte of s's
// interned global, suitable as the format argument of printf/scanf. The
// address of a global's first element is always a compile-time constant,
// so this is built as a constant getelementptr rather than an emitted
// instruction.
func (c *Context) StringPtr(s string) constant.Constant {
	g := c.InternString(s)
	zero := constant.NewInt(irtypes.I64, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}
