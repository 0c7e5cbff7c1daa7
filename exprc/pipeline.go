package exprc

import "io"

// Result bundles every intermediate artifact the pipeline produces. The CLI
// keeps it around so its debug dump can walk the same instructions, DFG,
// and schedule the allocator used, instead of recomputing any of it.
type Result struct {
	Program  *Program
	DFG      *DFG
	Schedule *Schedule
	Path     *DataPath
}

// Compile runs the full pipeline over r: parse, translate, build the
// data-flow graph, reject dead code, schedule, and allocate. Each stage's
// error comes back tagged with the stage that produced it.
func Compile(r io.Reader) (*Result, error) {
	assigns, err := Parse(r)
	if err != nil {
		return nil, wrapStage(StageParse, err)
	}
	Tracef("parse: %d statements", len(assigns))

	prog, err := Translate(assigns)
	if err != nil {
		return nil, wrapStage(StageTranslate, err)
	}
	Tracef("translate: %d instructions", len(prog.Sequence))

	dfg, err := BuildDFG(prog.Sequence)
	if err != nil {
		return nil, wrapStage(StageTranslate, err)
	}

	if err := CheckDeadCode(prog, dfg); err != nil {
		return nil, wrapStage(StageDeadCode, err)
	}

	schedule := BuildSchedule(prog.Sequence, dfg)
	Tracef("schedule: %d control steps", schedule.LastStep()+1)

	path := Allocate(schedule, prog.Names)

	return &Result{Program: prog, DFG: dfg, Schedule: schedule, Path: path}, nil
}
