package exprc

import (
	"strings"
	"testing"
)

func TestParseSimpleAssign(t *testing.T) {
	prog, err := Parse(strings.NewReader("out X = A + B;"))
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, len(prog) == 1, "expected 1 statement, got %d", len(prog))

	out, ok := prog[0].(AssignOut)
	assert(t, ok, "expected AssignOut, got %T", prog[0])
	assert(t, out.Name == "X", "expected name X, got %s", out.Name)

	add, ok := out.Expr.(Add)
	assert(t, ok, "expected Add, got %T", out.Expr)
	a, ok := add.A.(Var)
	assert(t, ok && a.Name == "A", "expected Var A, got %#v", add.A)
	b, ok := add.B.(Var)
	assert(t, ok && b.Name == "B", "expected Var B, got %#v", add.B)
}

func TestParsePrecedenceAndParens(t *testing.T) {
	prog, err := Parse(strings.NewReader("out X = (A + B) * C;"))
	assert(t, err == nil, "unexpected error: %s", err)
	out := prog[0].(AssignOut)
	mul, ok := out.Expr.(Mul)
	assert(t, ok, "expected Mul at top level, got %T", out.Expr)
	_, ok = mul.A.(Add)
	assert(t, ok, "expected Add on the left of *, got %T", mul.A)
}

func TestParseMultiStatement(t *testing.T) {
	prog, err := Parse(strings.NewReader("Y = A + B;\nout X = Y * C;\n"))
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, len(prog) == 2, "expected 2 statements, got %d", len(prog))
	_, ok := prog[0].(AssignVar)
	assert(t, ok, "expected first statement to be AssignVar, got %T", prog[0])
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"= A + B;",
		"X A + B;",
		"out X = (A + B;",
		"out X = ;",
		"out X = A + B",
	}
	for _, src := range cases {
		_, err := Parse(strings.NewReader(src))
		assert(t, err != nil, "expected parse error for %q", src)
	}
}
