package exprc

import "fmt"

// DFG is the data-flow graph over a Program's instruction sequence: the
// def/use relation between operands and the instructions that define or
// consume them.
type DFG struct {
	def map[OperandID]Instruction
	use map[OperandID][]Instruction
}

// BuildDFG makes a single pass over seq, recording a use edge for every src
// operand (failing if it was never defined) and a def edge for every dst
// operand (failing if it was already defined).
func BuildDFG(seq []Instruction) (*DFG, error) {
	g := &DFG{
		def: make(map[OperandID]Instruction),
		use: make(map[OperandID][]Instruction),
	}
	for _, instr := range seq {
		for _, src := range instr.Src {
			if _, ok := g.def[src]; !ok {
				return nil, fmt.Errorf("malformed sequence: %s is undefined in %s", Operand{ID: src}, instr)
			}
			g.use[src] = append(g.use[src], instr)
		}
		if instr.Dst == nil {
			continue
		}
		if prev, redefined := g.def[*instr.Dst]; redefined {
			return nil, fmt.Errorf("malformed sequence: %s redefines %s in %s", prev, Operand{ID: *instr.Dst}, instr)
		}
		g.def[*instr.Dst] = instr
	}
	return g, nil
}

// DefinedBy returns the instruction that defines op. op must come from a
// Program this DFG was built over; a miss means an earlier pass handed the
// DFG an operand it never should have, which is a programming bug.
func (g *DFG) DefinedBy(op OperandID) Instruction {
	instr, ok := g.def[op]
	if !ok {
		Fatalf("dfg: %s has no definition", Operand{ID: op})
	}
	return instr
}

// UsedBy returns every instruction consuming op, in program order. May be
// empty — that's exactly the condition the dead-code check looks for.
func (g *DFG) UsedBy(op OperandID) []Instruction {
	return g.use[op]
}
