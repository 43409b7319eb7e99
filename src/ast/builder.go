package ast

// Builder mints syntax tree nodes and assigns each one a unique id at
// construction time. A Builder is owned by a single parse; constructing a
// fresh Builder per compilation (instead of a package-level counter) keeps
// the core reentrant, per spec.md's design note against hidden process-wide
// state.
type Builder struct {
	next int
}

// NewBuilder returns a Builder whose first minted node has id 0.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) id() int {
	id := b.next
	b.next++
	return id
}

func (b *Builder) mk(line, col int) base {
	return base{id: b.id(), line: line, col: col}
}

func (b *Builder) IntLit(line, col int, v int64) *IntLit {
	return &IntLit{base: b.mk(line, col), Value: v}
}

func (b *Builder) FloatLit(line, col int, v float64) *FloatLit {
	return &FloatLit{base: b.mk(line, col), Value: v}
}

func (b *Builder) StringLit(line, col int, v string) *StringLit {
	return &StringLit{base: b.mk(line, col), Value: v}
}

func (b *Builder) Ident(line, col int, name string) *Ident {
	return &Ident{base: b.mk(line, col), Name: name}
}

func (b *Builder) IndexExpr(line, col int, name string, idx Expr) *IndexExpr {
	return &IndexExpr{base: b.mk(line, col), Name: name, Index: idx}
}

func (b *Builder) UnaryExpr(line, col int, op string, operand Expr) *UnaryExpr {
	return &UnaryExpr{base: b.mk(line, col), Op: op, Operand: operand}
}

func (b *Builder) BinaryExpr(line, col int, op string, l, r Expr) *BinaryExpr {
	return &BinaryExpr{base: b.mk(line, col), Op: op, Left: l, Right: r}
}

func (b *Builder) RelExpr(line, col int, op string, l, r Expr) *RelExpr {
	return &RelExpr{base: b.mk(line, col), Op: op, Left: l, Right: r}
}

func (b *Builder) NotExpr(line, col int, operand Expr) *NotExpr {
	return &NotExpr{base: b.mk(line, col), Operand: operand}
}

func (b *Builder) LogicalExpr(line, col int, op string, l, r Expr) *LogicalExpr {
	return &LogicalExpr{base: b.mk(line, col), Op: op, Left: l, Right: r}
}

func (b *Builder) CastExpr(line, col int, target string, operand Expr) *CastExpr {
	return &CastExpr{base: b.mk(line, col), Target: target, Operand: operand}
}

func (b *Builder) CallExpr(line, col int, name string, args []Expr) *CallExpr {
	return &CallExpr{base: b.mk(line, col), Name: name, Args: args}
}

func (b *Builder) VarDecl(line, col int, name, typeName string, isArray bool, size, init Expr) *VarDecl {
	return &VarDecl{base: b.mk(line, col), Name: name, TypeName: typeName, IsArray: isArray, Size: size, Init: init}
}

func (b *Builder) Assign(line, col int, name string, index Expr, rhs Expr) *Assign {
	return &Assign{base: b.mk(line, col), Name: name, Index: index, RHS: rhs}
}

func (b *Builder) Block(line, col int, stmts []Stmt) *Block {
	return &Block{base: b.mk(line, col), Stmts: stmts}
}

func (b *Builder) If(line, col int, cond Expr, then, els *Block) *If {
	return &If{base: b.mk(line, col), Cond: cond, Then: then, Else: els}
}

func (b *Builder) While(line, col int, cond Expr, body *Block) *While {
	return &While{base: b.mk(line, col), Cond: cond, Body: body}
}

func (b *Builder) Return(line, col int, v Expr) *Return {
	return &Return{base: b.mk(line, col), Value: v}
}

func (b *Builder) Print(line, col int, format *StringLit, args []Expr) *Print {
	return &Print{base: b.mk(line, col), Format: format, Args: args}
}

func (b *Builder) Scan(line, col int, format *StringLit, targets []ScanTarget) *Scan {
	return &Scan{base: b.mk(line, col), Format: format, Targets: targets}
}

func (b *Builder) FuncDecl(line, col int, name, retType string, params []Param, body *Block) *FuncDecl {
	return &FuncDecl{base: b.mk(line, col), Name: name, ReturnType: retType, Params: params, Body: body}
}

func (b *Builder) Program(line, col int, funcs []*FuncDecl) *Program {
	return &Program{base: b.mk(line, col), Funcs: funcs}
}
