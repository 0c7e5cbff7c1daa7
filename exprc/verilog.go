package exprc

import (
	"fmt"
	"io"
	"math/bits"
	"sort"
)

// errWriter accumulates the first write error across a sequence of Fprintf
// calls so the caller doesn't have to check one after every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// wiring resolves every port on every device to the Verilog identifier that
// represents it: the expression producing an output port's value, and the
// lvalue name for the ports driven combinationally (adder/multiplier
// operands) versus the ones that resolve straight to a device's own name
// (registers and outputs, which are never split into a separate "_in"
// signal).
type wiring struct {
	outExpr    map[OutPortID]string
	combInput  map[InPortID]string   // adder/multiplier operand -> reg lvalue
	regInput   map[InPortID]DeviceID // register data-in port -> owning register
	outputPort map[InPortID]string   // Output device's In[0] -> output port name
}

func buildWiring(path *DataPath) wiring {
	w := wiring{
		outExpr:    make(map[OutPortID]string),
		combInput:  make(map[InPortID]string),
		regInput:   make(map[InPortID]DeviceID),
		outputPort: make(map[InPortID]string),
	}
	for _, in := range path.Inputs {
		w.outExpr[in.Out] = in.Name
	}
	for _, out := range path.Outputs {
		w.outputPort[out.In[0]] = out.Name
	}
	for _, a := range path.Adders {
		w.outExpr[a.Out] = fmt.Sprintf("add%d_out", a.ID)
		w.combInput[a.In[0]] = fmt.Sprintf("add%d_in0", a.ID)
		w.combInput[a.In[1]] = fmt.Sprintf("add%d_in1", a.ID)
	}
	for _, m := range path.Multipliers {
		w.outExpr[m.Out] = fmt.Sprintf("mul%d_out", m.ID)
		w.combInput[m.In[0]] = fmt.Sprintf("mul%d_in0", m.ID)
		w.combInput[m.In[1]] = fmt.Sprintf("mul%d_in1", m.ID)
	}
	for _, id := range sortedRegisterIDs(path.Registers) {
		r := path.Registers[id]
		w.outExpr[r.Out] = fmt.Sprintf("reg%d", r.ID)
		w.regInput[r.In[0]] = r.ID
	}
	return w
}

func sortedRegisterIDs(regs map[DeviceID]Register) []DeviceID {
	ids := make([]DeviceID, 0, len(regs))
	for id := range regs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// msb returns the 0-indexed position of val's highest set bit, 0 if val is
// 0 — the same hand-rolled scan the reference tool uses to size the state
// register, expressed with bits.Len32.
func msb(val uint32) int {
	if val == 0 {
		return 0
	}
	return bits.Len32(val) - 1
}

// Dumper emits a synthesizable Verilog module for a DataPath: a Moore
// controller walking one state per control step, a bank of
// combinationally-routed adders and multipliers, and a register file
// latching every value that lives past the step it was produced in. The
// step holding the OUTPUT instructions is not a controller state — its
// values are wired out with continuous assigns, since by the time it's
// reached every driving register already holds its final value.
type Dumper struct {
	path      *DataPath
	outStep   uint32 // the step at which OUTPUT instructions are driven
	lastState uint32 // outStep - 1: the last real controller state
	wiring    wiring
}

// NewDumper prepares a Dumper for path, whose OUTPUT instructions were
// scheduled at outStep (Schedule.LastStep()).
func NewDumper(path *DataPath, outStep uint32) *Dumper {
	var lastState uint32
	if outStep > 0 {
		lastState = outStep - 1
	}
	return &Dumper{path: path, outStep: outStep, lastState: lastState, wiring: buildWiring(path)}
}

// Dump writes the complete "exprc" module to w.
func (d *Dumper) Dump(w io.Writer) error {
	ew := &errWriter{w: w}
	entries := d.path.Drivers()
	d.writeHeader(ew)
	d.writeStateParams(ew)
	d.writeDeclarations(ew)
	d.writeOutputAssigns(ew, entries)
	d.writeController(ew, entries)
	d.writeRouting(ew, entries)
	ew.printf("endmodule\n")
	return ew.err
}

func (d *Dumper) writeHeader(ew *errWriter) {
	ew.printf("module exprc(\n")
	ew.printf("  input wire clk,\n")
	ew.printf("  input wire rst,\n")
	ew.printf("  input wire ena,\n")
	for _, in := range d.path.Inputs {
		ew.printf("  input wire [7:0] %s,\n", in.Name)
	}
	for _, out := range d.path.Outputs {
		ew.printf("  output wire [7:0] %s,\n", out.Name)
	}
	ew.printf("  output reg done,\n")
	ew.printf("  output reg ready\n")
	ew.printf(");\n\n")
}

func (d *Dumper) writeStateParams(ew *errWriter) {
	stateMSB := msb(d.lastState)
	if d.lastState == 0 {
		return
	}
	ew.printf("  localparam [0:%d]\n", stateMSB)
	for state := uint32(1); state <= d.lastState; state++ {
		sep := ","
		if state == d.lastState {
			sep = ";"
		}
		ew.printf("    S%d = %d'd%d%s\n", state, stateMSB+1, state-1, sep)
	}
}

func (d *Dumper) writeDeclarations(ew *errWriter) {
	for _, id := range sortedRegisterIDs(d.path.Registers) {
		ew.printf("  reg [7:0] reg%d;\n", id)
	}
	ew.printf("\n")
	for _, a := range d.path.Adders {
		ew.printf("  reg [7:0] add%d_in0;\n", a.ID)
		ew.printf("  reg [7:0] add%d_in1;\n", a.ID)
		ew.printf("  wire [7:0] add%d_out = add%d_in0 + add%d_in1;\n\n", a.ID, a.ID, a.ID)
	}
	for _, m := range d.path.Multipliers {
		ew.printf("  reg [7:0] mul%d_in0;\n", m.ID)
		ew.printf("  reg [7:0] mul%d_in1;\n", m.ID)
		ew.printf("  wire [7:0] mul%d_out = mul%d_in0 * mul%d_in1;\n\n", m.ID, m.ID, m.ID)
	}
}

// writeOutputAssigns wires every OUTPUT instruction's value straight from
// its driver with a continuous assign — the output step is never a
// controller state.
func (d *Dumper) writeOutputAssigns(ew *errWriter, entries []DriverEntry) {
	for _, e := range entries {
		if e.Step != d.outStep {
			continue
		}
		name, ok := d.wiring.outputPort[e.In]
		if !ok {
			continue
		}
		ew.printf("  assign %s = %s;\n", name, d.wiring.outExpr[e.Driver])
	}
	ew.printf("\n")
}

// writeController emits the sequential always block: state advances one
// per clock from S1 through S_last_state and wraps back to S1, gated at
// S1 by ena so the circuit idles until told to start. Every register whose
// driver map entry lands on the step just finished is latched alongside
// the state transition.
func (d *Dumper) writeController(ew *errWriter, entries []DriverEntry) {
	ew.printf("  reg [0:%d] state;\n", msb(d.lastState))
	ew.printf("  always @(posedge clk)\n")
	ew.printf("    begin\n")
	ew.printf("      if (rst)\n")
	ew.printf("        begin\n")
	ew.printf("          state <= S1;\n")
	ew.printf("          done <= 1'b0;\n")
	ew.printf("          ready <= 1'b1;\n")
	ew.printf("        end\n")
	ew.printf("    else\n")
	ew.printf("      begin\n")
	ew.printf("        case (state)\n")
	for state := uint32(1); state <= d.lastState; state++ {
		next := state + 1
		if state == d.lastState {
			next = 1
		}
		ew.printf("          S%d:\n", state)
		ew.printf("            begin\n")
		if state == 1 {
			ew.printf("              if (ena)\n")
			ew.printf("                begin\n")
			ew.printf("                  state <= S%d;\n", next)
			ew.printf("                  done <= 1'b0;\n")
			ew.printf("                  ready <= 1'b0;\n")
			ew.printf("                end\n")
		} else {
			ew.printf("              state <= S%d;\n", next)
		}
		for _, e := range entries {
			if e.Step != state {
				continue
			}
			if regID, ok := d.wiring.regInput[e.In]; ok {
				ew.printf("              reg%d <= %s;\n", regID, d.wiring.outExpr[e.Driver])
			}
		}
		if state == d.lastState {
			ew.printf("              done <= 1'b1;\n")
			ew.printf("              ready <= 1'b1;\n")
		}
		ew.printf("            end\n")
	}
	ew.printf("        endcase\n")
	ew.printf("      end\n")
	ew.printf("    end\n\n")
}

// writeRouting emits the combinational always block driving every
// adder/multiplier operand input from whatever output port feeds it at the
// current state; any functional-unit input not driven at a given state is
// tied to the don't-care value so no latch is inferred.
func (d *Dumper) writeRouting(ew *errWriter, entries []DriverEntry) {
	ew.printf("  always @(*)\n")
	ew.printf("    begin\n")
	ew.printf("      case (state)\n")
	for state := uint32(1); state <= d.lastState; state++ {
		ew.printf("        S%d:\n", state)
		ew.printf("          begin\n")
		assigned := map[InPortID]bool{}
		for _, e := range entries {
			if e.Step != state {
				continue
			}
			lvalue, ok := d.wiring.combInput[e.In]
			if !ok {
				continue
			}
			ew.printf("            %s = %s;\n", lvalue, d.wiring.outExpr[e.Driver])
			assigned[e.In] = true
		}
		for _, in := range d.sortedCombPorts() {
			if !assigned[in] {
				ew.printf("            %s = 8'dX;\n", d.wiring.combInput[in])
			}
		}
		ew.printf("          end\n")
	}
	ew.printf("      endcase\n")
	ew.printf("    end\n\n")
}

func (d *Dumper) sortedCombPorts() []InPortID {
	ports := make([]InPortID, 0, len(d.wiring.combInput))
	for p := range d.wiring.combInput {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports
}
