package exprc

// Expr is an arithmetic expression: a Var, an Add, or a Mul.
type Expr interface {
	exprNode()
}

// Var references a named value, either a previously assigned variable or an
// implicitly declared input.
type Var struct {
	Name string
}

// Add is a + b.
type Add struct {
	A, B Expr
}

// Mul is a * b.
type Mul struct {
	A, B Expr
}

func (Var) exprNode() {}
func (Add) exprNode() {}
func (Mul) exprNode() {}

// Assign is one top-level statement: a plain variable assignment or an
// output declaration.
type Assign interface {
	assignNode()
}

// AssignVar is `name = expr;`.
type AssignVar struct {
	Name string
	Expr Expr
}

// AssignOut is `out name = expr;`.
type AssignOut struct {
	Name string
	Expr Expr
}

func (AssignVar) assignNode() {}
func (AssignOut) assignNode() {}
