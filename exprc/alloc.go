package exprc

import "sort"

// driverKey identifies one combinational routing decision: which device
// output drives a given device input during a given control step.
type driverKey struct {
	Step uint32
	In   InPortID
}

// DriverEntry is one row of the driver map, the shape the Verilog emitter
// consumes directly.
type DriverEntry struct {
	Step   uint32
	In     InPortID
	Driver OutPortID
}

// DataPath is the allocator's output: the concrete device inventory plus
// the per-step wiring between them.
type DataPath struct {
	Inputs      []Input
	Outputs     []Output
	Adders      []Adder
	Multipliers []Multiplier
	Registers   map[DeviceID]Register

	drivers map[driverKey]OutPortID
}

// Drivers returns the full driver map sorted by (step, input port), the
// order the spec requires for deterministic emission.
func (d *DataPath) Drivers() []DriverEntry {
	entries := make([]DriverEntry, 0, len(d.drivers))
	for k, v := range d.drivers {
		entries = append(entries, DriverEntry{Step: k.Step, In: k.In, Driver: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Step != entries[j].Step {
			return entries[i].Step < entries[j].Step
		}
		return entries[i].In < entries[j].In
	})
	return entries
}

// functionalPool hands out devices of one kind with across-step reuse: get
// returns a distinct device on every call within one reset/get cycle,
// recycling devices minted in earlier cycles before minting a new one, so
// two independent adds scheduled at the same step never share an adder but
// the same adder serves every step after reset.
type functionalPool[D any] struct {
	items  []D
	cursor int
	alloc  func() D
}

func newFunctionalPool[D any](alloc func() D) *functionalPool[D] {
	return &functionalPool[D]{alloc: alloc}
}

func (p *functionalPool[D]) reset() { p.cursor = 0 }

func (p *functionalPool[D]) get() D {
	if p.cursor == len(p.items) {
		p.items = append(p.items, p.alloc())
	}
	d := p.items[p.cursor]
	p.cursor++
	return d
}

// registerPool recycles registers by DeviceID on a FIFO free list: a new
// request takes the register that has been free the longest, not the one
// freed most recently, and mints a fresh register only when none is free.
type registerPool struct {
	ctx  *deviceContext
	free []DeviceID
	regs map[DeviceID]Register
}

func newRegisterPool(ctx *deviceContext) *registerPool {
	return &registerPool{ctx: ctx, regs: make(map[DeviceID]Register)}
}

func (p *registerPool) alloc() DeviceID {
	if len(p.free) == 0 {
		r := p.ctx.newRegister()
		p.regs[r.ID] = r
		return r.ID
	}
	id := p.free[0]
	p.free = p.free[1:]
	return id
}

func (p *registerPool) put(id DeviceID) {
	p.free = append(p.free, id)
}

func (p *registerPool) reg(id DeviceID) Register {
	return p.regs[id]
}

// allocator is the H.1/H.2 pass: assign a register to every operand whose
// lifetime crosses a control-step boundary, then walk the schedule forward
// binding every instruction to a concrete device and recording the
// combinational driver feeding each device input at each step.
type allocator struct {
	ctx         deviceContext
	names       *NameTable
	schedule    *Schedule
	inputs      []Input
	outputs     []Output
	adders      *functionalPool[Adder]
	multipliers *functionalPool[Multiplier]
	regs        *registerPool

	regMapping map[OperandID]DeviceID // operand -> register holding its value across steps
	fedByInput map[OperandID]OutPortID
	fedByReg   map[OperandID]OutPortID
	drivers    map[driverKey]OutPortID
}

// Allocate runs H.1 (register allocation) then H.2 (device binding and
// driver-map construction) and returns the finished datapath.
func Allocate(schedule *Schedule, names *NameTable) *DataPath {
	a := &allocator{
		names:      names,
		schedule:   schedule,
		regMapping: make(map[OperandID]DeviceID),
		fedByInput: make(map[OperandID]OutPortID),
		fedByReg:   make(map[OperandID]OutPortID),
		drivers:    make(map[driverKey]OutPortID),
	}
	a.regs = newRegisterPool(&a.ctx)
	a.adders = newFunctionalPool(func() Adder { return a.ctx.newAdder() })
	a.multipliers = newFunctionalPool(func() Multiplier { return a.ctx.newMultiplier() })

	a.allocateRegisters()
	a.allocateDevices()

	Tracef("alloc: %d adders, %d multipliers, %d registers, %d inputs, %d outputs",
		len(a.adders.items), len(a.multipliers.items), len(a.regs.regs), len(a.inputs), len(a.outputs))

	return &DataPath{
		Inputs:      a.inputs,
		Outputs:     a.outputs,
		Adders:      a.adders.items,
		Multipliers: a.multipliers.items,
		Registers:   a.regs.regs,
		drivers:     a.drivers,
	}
}

// allocateRegisters is H.1: walk control steps from the last one down to
// (but not including) step 1, freeing the register belonging to any
// operand an instruction at this step defines, then claiming one for every
// source operand that doesn't have one yet. A source this walk never
// reaches is read only at step 1 and is fed straight off the INPUT pad
// that produced it at step 0 instead (handled in allocateDevices), so it
// never needs to survive a clock edge.
func (a *allocator) allocateRegisters() {
	steps := a.schedule.Steps()
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if step <= 1 {
			break
		}
		for _, instr := range a.schedule.At(step) {
			if instr.Dst != nil {
				if regID, ok := a.regMapping[*instr.Dst]; ok {
					a.regs.put(regID)
				}
			}
			for _, src := range instr.Src {
				if _, ok := a.regMapping[src]; !ok {
					a.regMapping[src] = a.regs.alloc()
				}
			}
		}
	}
}

// allocateDevices is H.2: walk control steps forward from 0, binding each
// instruction to a device from the appropriate pool (resetting the
// functional-unit pools at the start of every step so a device is never
// shared within a step but is reused across steps) and recording the
// driver feeding every device input.
func (a *allocator) allocateDevices() {
	last := a.schedule.LastStep()
	for step := uint32(0); step <= last; step++ {
		a.adders.reset()
		a.multipliers.reset()
		for _, instr := range a.schedule.At(step) {
			switch instr.Op {
			case OpInput:
				if step != 0 {
					Fatalf("alloc: %s scheduled at step %d, INPUT must land at step 0", instr, step)
				}
				name, ok := a.names.NameOf(*instr.Dst)
				if !ok {
					Fatalf("alloc: input operand %s has no name", Operand{ID: *instr.Dst})
				}
				dev := a.ctx.newInput(name)
				a.inputs = append(a.inputs, dev)
				a.mapOut(step, instr, dev.Out)
			case OpOutput:
				name, ok := a.names.NameOf(instr.Src[0])
				if !ok {
					Fatalf("alloc: output operand %s has no name", Operand{ID: instr.Src[0]})
				}
				dev := a.ctx.newOutput(name)
				a.outputs = append(a.outputs, dev)
				a.mapIn(step, instr, dev.In[:])
			case OpAdd:
				dev := a.adders.get()
				a.mapIn(step, instr, dev.In[:])
				a.mapOut(step, instr, dev.Out)
			case OpMul:
				dev := a.multipliers.get()
				a.mapIn(step, instr, dev.In[:])
				a.mapOut(step, instr, dev.Out)
			default:
				Fatalf("alloc: unrecognized opcode in %s", instr)
			}
		}
	}
}

// mapIn records, for every source of instr, which device output drives the
// matching device input port at step. Step 1 sources are fed straight off
// the INPUT pad that produced them (an INPUT always lands at step 0, one
// step ahead); every later step's sources are fed off the register that
// was allocated to hold them.
func (a *allocator) mapIn(step uint32, instr Instruction, inPorts []InPortID) {
	if len(instr.Src) != len(inPorts) {
		Fatalf("alloc: arity mismatch for %s: %d src vs %d ports", instr, len(instr.Src), len(inPorts))
	}
	for k, src := range instr.Src {
		in := inPorts[k]
		var driver OutPortID
		var ok bool
		if step == 1 {
			driver, ok = a.fedByInput[src]
		} else {
			driver, ok = a.fedByReg[src]
		}
		if !ok {
			Fatalf("alloc: %s has no driver feeding %s at step %d", Operand{ID: src}, in, step)
		}
		a.drivers[driverKey{Step: step, In: in}] = driver
	}
}

// mapOut records where instr's result lands: a step-0 INPUT always goes
// into fedByInput for its step-1 consumers, and any result with an
// assigned register is also latched into that register at the step it is
// produced (step 1 for a step-0 INPUT), via a driver entry wiring the
// device's output to the register's input.
func (a *allocator) mapOut(step uint32, instr Instruction, out OutPortID) {
	if instr.Dst == nil {
		return
	}
	dst := *instr.Dst
	if instr.Op == OpInput {
		a.fedByInput[dst] = out
	}
	regID, ok := a.regMapping[dst]
	if !ok {
		if instr.Op != OpInput || step != 0 {
			Fatalf("alloc: %s at step %d has no register and is not a step-0 INPUT", instr, step)
		}
		return
	}
	reg := a.regs.reg(regID)
	latchStep := step
	if latchStep < 1 {
		latchStep = 1
	}
	a.drivers[driverKey{Step: latchStep, In: reg.In[0]}] = out
	a.fedByReg[dst] = reg.Out
}
