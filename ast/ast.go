package ast

type Program struct {
	Body []Statement
}

type Statement interface {
	isStatement()
}

// VarDecl binds Name in the active frame. A nil Value binds 0.
type VarDecl struct {
	Name  string
	Value Expr
}

func (VarDecl) isStatement() {}

type AssignStmt struct {
	Name  string
	Value Expr
}

func (AssignStmt) isStatement() {}

// IfStmt has a nil Else when no else block was written.
type IfStmt struct {
	Cond Expr
	Then []Statement
	Else []Statement
}

func (IfStmt) isStatement() {}

type ForStmt struct {
	Init Statement
	Cond Expr
	Post AssignStmt
	Body []Statement
}

func (ForStmt) isStatement() {}

// FuncDef stores a function. Return is nil when the body has no return clause.
type FuncDef struct {
	Name   string
	Params []string
	Body   []Statement
	Return Expr
}

func (FuncDef) isStatement() {}

type CallStmt struct {
	Name string
	Args []Expr
}

func (CallStmt) isStatement() {}

type PrintStmt struct {
	Expr Expr
}

func (PrintStmt) isStatement() {}

// InputStmt reads one integer. An empty Target is the bare `input();` form.
type InputStmt struct {
	Target string
}

func (InputStmt) isStatement() {}

type Expr interface {
	isExpr()
}

type IntLit struct {
	Value int64
}

func (IntLit) isExpr() {}

type Ident struct {
	Name string
}

func (Ident) isExpr() {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}
