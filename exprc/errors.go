package exprc

import "fmt"

// Stage names a pipeline phase, used to tag where a CompileError originated
// so a caller (or the CLI) can report it without re-deriving it from the
// message text.
type Stage string

const (
	StageParse     Stage = "parse"
	StageTranslate Stage = "translate"
	StageDeadCode  Stage = "deadcode"
)

// CompileError wraps a pipeline failure with the stage that produced it.
// Parse, Translate, and CheckDeadCode are the only stages that return
// user-facing errors — BuildDFG's own errors (malformed sequences) should
// never occur on output from Translate and are reported the same way if
// they ever do, since they indicate the same class of problem: bad input.
type CompileError struct {
	Stage Stage
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func wrapStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &CompileError{Stage: stage, Err: err}
}
