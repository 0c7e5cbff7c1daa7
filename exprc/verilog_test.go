package exprc

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpProducesModuleShell(t *testing.T) {
	r := mustCompile(t, "out X = (A + B) * (C + D);")

	var buf bytes.Buffer
	err := NewDumper(r.Path, r.Schedule.LastStep()).Dump(&buf)
	assert(t, err == nil, "dump error: %s", err)

	out := buf.String()
	assert(t, strings.Contains(out, "module exprc("), "missing module header")
	assert(t, strings.Contains(out, "endmodule"), "missing endmodule")
	assert(t, strings.Contains(out, "input wire [7:0] A"), "missing input port A")
	assert(t, strings.Contains(out, "output wire [7:0] X"), "missing output port X")
	assert(t, strings.Contains(out, "output reg done,"), "missing done handshake register")
	assert(t, strings.Contains(out, "output reg ready"), "missing ready handshake register")
	assert(t, strings.Contains(out, "assign X ="), "expected output X to be continuously assigned, got:\n%s", out)

	// OUTPUT lands at step 3 (inputs@0, adds@1, mul@2), so the controller
	// only needs two real states: S1 (adds) and S2 (multiply).
	assert(t, strings.Contains(out, "S1 = 2'd0,"), "expected S1 = 2'd0, got:\n%s", out)
	assert(t, strings.Contains(out, "S2 = 2'd1;"), "expected S2 = 2'd1, got:\n%s", out)
	assert(t, !strings.Contains(out, "S3 ="), "did not expect a third state — the output step is not a controller state, got:\n%s", out)
}

func TestDumpHandshakeAndDontCareDefault(t *testing.T) {
	r := mustCompile(t, "out X = (A + B) * (C + D);")

	var buf bytes.Buffer
	assert(t, NewDumper(r.Path, r.Schedule.LastStep()).Dump(&buf) == nil, "dump failed")
	out := buf.String()

	assert(t, strings.Contains(out, "if (ena)"), "expected S1 to be gated by ena")
	assert(t, strings.Contains(out, "done <= 1'b1;"), "expected done to be asserted on the final state")
	assert(t, strings.Contains(out, "ready <= 1'b1;"), "expected ready to be asserted on reset and the final state")
	assert(t, strings.Contains(out, "8'dX"), "expected unassigned functional-unit ports to default to don't-care")
}

func TestDumpDeterministic(t *testing.T) {
	r := mustCompile(t, "Y = A + B;\nout X = Y * C;\n")

	var first, second bytes.Buffer
	assert(t, NewDumper(r.Path, r.Schedule.LastStep()).Dump(&first) == nil, "first dump failed")
	assert(t, NewDumper(r.Path, r.Schedule.LastStep()).Dump(&second) == nil, "second dump failed")
	assert(t, first.String() == second.String(), "expected identical output from two dumps of the same datapath")
}
