package exprc

import "sort"

// Schedule is the ASAP control-step assignment produced by BuildSchedule: a
// step -> instructions multimap plus the reverse instruction -> step lookup.
type Schedule struct {
	byStep map[uint32][]Instruction
	stepOf map[InstrID]uint32
	steps  []uint32 // sorted ascending, distinct
}

// BuildSchedule runs the two-pass ASAP scheduler: pass one places every
// non-OUTPUT instruction one step after the latest of its producers (an
// INPUT, having no Src, lands at step 0); pass two pins every OUTPUT to a
// single shared step, one past the latest non-OUTPUT step.
func BuildSchedule(seq []Instruction, dfg *DFG) *Schedule {
	s := &Schedule{
		byStep: make(map[uint32][]Instruction),
		stepOf: make(map[InstrID]uint32),
	}

	var lastNonOutput uint32
	haveNonOutput := false
	for _, instr := range seq {
		if instr.Op == OpOutput {
			continue
		}
		var step uint32
		for _, src := range instr.Src {
			if p := s.stepOf[dfg.DefinedBy(src).ID] + 1; p > step {
				step = p
			}
		}
		s.place(step, instr)
		if !haveNonOutput || step > lastNonOutput {
			lastNonOutput = step
		}
		haveNonOutput = true
	}

	writeStep := lastNonOutput
	if haveNonOutput {
		writeStep = lastNonOutput + 1
	}
	for _, instr := range seq {
		if instr.Op == OpOutput {
			s.place(writeStep, instr)
		}
	}

	sort.Slice(s.steps, func(i, j int) bool { return s.steps[i] < s.steps[j] })
	return s
}

func (s *Schedule) place(step uint32, instr Instruction) {
	if _, seen := s.byStep[step]; !seen {
		s.steps = append(s.steps, step)
	}
	s.byStep[step] = append(s.byStep[step], instr)
	s.stepOf[instr.ID] = step
}

// LastStep is the highest control step containing any instruction (the
// output-write step, for any non-empty program).
func (s *Schedule) LastStep() uint32 {
	if len(s.steps) == 0 {
		return 0
	}
	return s.steps[len(s.steps)-1]
}

// At returns the instructions scheduled at step, in program order.
func (s *Schedule) At(step uint32) []Instruction {
	return s.byStep[step]
}

// StepOf returns the control step instr id was placed at.
func (s *Schedule) StepOf(id InstrID) uint32 {
	return s.stepOf[id]
}

// Steps returns the sorted, distinct steps that hold at least one
// instruction.
func (s *Schedule) Steps() []uint32 {
	return s.steps
}
