package exprc

import "fmt"

// CheckDeadCode rejects a program containing a plain variable assignment
// ("name = expr;") whose value is never consumed by another instruction.
// Implicit inputs and declared outputs are exempt: an input exists only
// because some expression reads it, and an output is by definition
// consumed by the world outside the circuit. Walking entries in translation
// order makes the reported name deterministic when a program has more than
// one dead variable.
func CheckDeadCode(prog *Program, dfg *DFG) error {
	for _, e := range prog.Names.entries {
		if e.kind != nameVar {
			continue
		}
		if len(dfg.UsedBy(e.op)) == 0 {
			return fmt.Errorf("variable %s is not used", e.name)
		}
	}
	return nil
}
