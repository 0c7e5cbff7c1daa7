// Package exprc implements a tiny high-level synthesis compiler: it parses a
// program of `+`/`*` assignments over named inputs and emits a synchronous
// Verilog datapath-plus-controller that computes the declared outputs.
package exprc

// OperandID identifies an SSA value produced by exactly one Instruction.
type OperandID uint32

// InstrID identifies an Instruction in the linear program sequence.
type InstrID uint32

// idGen hands out monotonically increasing IDs of a single ID type, starting
// at zero. Each pass owns its own idGen rather than reaching for a global
// counter, so two compiles never share mutable state.
type idGen[T ~uint32] struct {
	next T
}

func (g *idGen[T]) make() T {
	id := g.next
	g.next++
	return id
}
