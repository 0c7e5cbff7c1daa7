package exprc

import (
	"strings"
	"testing"
)

func TestTranslateImplicitInputs(t *testing.T) {
	prog, err := Parse(strings.NewReader("out X = A + B;"))
	assert(t, err == nil, "parse error: %s", err)

	ir, err := Translate(prog)
	assert(t, err == nil, "translate error: %s", err)

	assert(t, len(ir.Sequence) == 4, "expected 4 instructions (2 inputs, 1 add, 1 output), got %d", len(ir.Sequence))

	opsSeen := map[Opcode]int{}
	for _, instr := range ir.Sequence {
		opsSeen[instr.Op]++
	}
	assert(t, opsSeen[OpInput] == 2, "expected 2 INPUT instructions, got %d", opsSeen[OpInput])
	assert(t, opsSeen[OpAdd] == 1, "expected 1 ADD instruction, got %d", opsSeen[OpAdd])
	assert(t, opsSeen[OpOutput] == 1, "expected 1 OUTPUT instruction, got %d", opsSeen[OpOutput])

	_, ok := ir.Names.OperandOf("A")
	assert(t, ok, "expected A to be bound in the name table")
}

func TestTranslateRedefinedVariable(t *testing.T) {
	prog, err := Parse(strings.NewReader("X = A + B;\nX = A * B;\n"))
	assert(t, err == nil, "parse error: %s", err)

	_, err = Translate(prog)
	assert(t, err != nil, "expected redefinition error")
	assert(t, strings.Contains(err.Error(), "variable X defined more than once"), "unexpected error message: %s", err)
}

func TestTranslateRedefinedOutput(t *testing.T) {
	prog, err := Parse(strings.NewReader("out X = A + B;\nout X = A * B;\n"))
	assert(t, err == nil, "parse error: %s", err)

	_, err = Translate(prog)
	assert(t, err != nil, "expected redefinition error")
	assert(t, strings.Contains(err.Error(), "output variable X defined more than once"), "unexpected error message: %s", err)
}

func TestTranslateSharedSubexpression(t *testing.T) {
	prog, err := Parse(strings.NewReader("Y = A + B;\nout X = Y * Y;\n"))
	assert(t, err == nil, "parse error: %s", err)

	ir, err := Translate(prog)
	assert(t, err == nil, "translate error: %s", err)

	yOp, ok := ir.Names.OperandOf("Y")
	assert(t, ok, "expected Y bound")

	mulCount := 0
	for _, instr := range ir.Sequence {
		if instr.Op == OpMul {
			mulCount++
			assert(t, len(instr.Src) == 2 && instr.Src[0] == yOp && instr.Src[1] == yOp,
				"expected Y*Y to reuse the same operand on both sides, got %s", instr)
		}
	}
	assert(t, mulCount == 1, "expected exactly 1 MUL instruction, got %d", mulCount)
}
