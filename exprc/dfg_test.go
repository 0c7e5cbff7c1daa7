package exprc

import (
	"strings"
	"testing"
)

func TestDFGUsesAndDefs(t *testing.T) {
	prog, err := Parse(strings.NewReader("Y = A + B;\nout X = Y * C;\n"))
	assert(t, err == nil, "parse error: %s", err)
	ir, err := Translate(prog)
	assert(t, err == nil, "translate error: %s", err)

	dfg, err := BuildDFG(ir.Sequence)
	assert(t, err == nil, "dfg error: %s", err)

	yOp, _ := ir.Names.OperandOf("Y")
	uses := dfg.UsedBy(yOp)
	assert(t, len(uses) == 1, "expected Y to be used once, got %d", len(uses))
	assert(t, uses[0].Op == OpMul, "expected Y's use to be the MUL, got %s", uses[0].Op)

	cOp, _ := ir.Names.OperandOf("C")
	def := dfg.DefinedBy(cOp)
	assert(t, def.Op == OpInput, "expected C to be defined by an INPUT instruction, got %s", def.Op)
}
