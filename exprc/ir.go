package exprc

import (
	"fmt"
	"strings"
)

// Opcode is the instruction kind. There is no constant, subtraction, or
// division opcode — the language doesn't have them.
type Opcode int

const (
	OpInput Opcode = iota
	OpOutput
	OpAdd
	OpMul
)

func (op Opcode) String() string {
	switch op {
	case OpInput:
		return "INPUT"
	case OpOutput:
		return "OUTPUT"
	case OpAdd:
		return "ADD"
	case OpMul:
		return "MUL"
	default:
		return "???"
	}
}

// Operand is an SSA value, defined exactly once.
type Operand struct {
	ID OperandID
}

func (o Operand) String() string {
	return fmt.Sprintf("op<Id:%d>", o.ID)
}

// Instruction is a single IR op. Arity is opcode-dependent: INPUT has no Src
// and a Dst; OUTPUT has one Src and no Dst; ADD and MUL have two Src and a
// Dst.
type Instruction struct {
	ID  InstrID
	Op  Opcode
	Dst *OperandID
	Src []OperandID
}

func (i Instruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<Id:%d> ", i.ID)
	if i.Dst != nil {
		fmt.Fprintf(&b, "op<Id:%d> = <%s>", *i.Dst, i.Op)
	}
	for _, s := range i.Src {
		fmt.Fprintf(&b, " op<Id:%d>", s)
	}
	return b.String()
}

// irContext hands out Operand and Instruction IDs for a single translation.
// It is owned by the translator and discarded with it, never shared.
type irContext struct {
	operands idGen[OperandID]
	instrs   idGen[InstrID]
}

func (c *irContext) newOperand() Operand {
	return Operand{ID: c.operands.make()}
}

func (c *irContext) newInstr(op Opcode, dst *OperandID, src []OperandID) Instruction {
	return Instruction{ID: c.instrs.make(), Op: op, Dst: dst, Src: src}
}

// nameKind classifies how a name entered the symbol table: as an implicit
// input, a plain intermediate variable, or a declared output.
type nameKind int

const (
	nameInput nameKind = iota
	nameVar
	nameOut
)

type nameEntry struct {
	name string
	kind nameKind
	op   OperandID
}

// NameTable is the bidirectional map between user-chosen names and the
// operands they define, plus enough bookkeeping to tell an implicit input
// apart from a plain variable or a declared output (needed by the dead-code
// check, which only cares about plain variables).
type NameTable struct {
	entries    []nameEntry
	operByName map[string]OperandID
	nameByOper map[OperandID]string
}

// NameOf returns the user-chosen name bound to op, if any.
func (n *NameTable) NameOf(op OperandID) (string, bool) {
	name, ok := n.nameByOper[op]
	return name, ok
}

// OperandOf returns the operand bound to name, if any.
func (n *NameTable) OperandOf(name string) (OperandID, bool) {
	op, ok := n.operByName[name]
	return op, ok
}

// Program is the result of translation: the linear instruction sequence in
// program order plus the symbol table the emitter needs for port names.
type Program struct {
	Sequence []Instruction
	Names    *NameTable
}

// translator lowers an AST into a Program. Each assignment's expression is
// lowered bottom-up (left child before right), emitting one ADD or MUL
// instruction per inner node; a Var naming a not-yet-seen identifier emits a
// fresh INPUT instruction (implicit input declaration).
type translator struct {
	ctx        irContext
	sequence   []Instruction
	entries    []nameEntry
	operByName map[string]OperandID
	nameByOper map[OperandID]string
}

// Translate lowers a parsed program into IR.
func Translate(program []Assign) (*Program, error) {
	t := &translator{
		operByName: make(map[string]OperandID),
		nameByOper: make(map[OperandID]string),
	}
	for _, a := range program {
		if err := t.translateAssign(a); err != nil {
			return nil, err
		}
	}
	return &Program{
		Sequence: t.sequence,
		Names: &NameTable{
			entries:    t.entries,
			operByName: t.operByName,
			nameByOper: t.nameByOper,
		},
	}, nil
}

func (t *translator) bind(name string, op OperandID, kind nameKind) {
	t.operByName[name] = op
	t.nameByOper[op] = name
	t.entries = append(t.entries, nameEntry{name: name, kind: kind, op: op})
}

func (t *translator) addInstr(op Opcode, dst *OperandID, src []OperandID) Instruction {
	instr := t.ctx.newInstr(op, dst, src)
	t.sequence = append(t.sequence, instr)
	return instr
}

func (t *translator) translateAssign(a Assign) error {
	switch a := a.(type) {
	case AssignVar:
		res, err := t.translateExpr(a.Expr)
		if err != nil {
			return err
		}
		if _, redefined := t.operByName[a.Name]; redefined {
			return fmt.Errorf("variable %s defined more than once", a.Name)
		}
		t.bind(a.Name, res, nameVar)
		return nil
	case AssignOut:
		res, err := t.translateExpr(a.Expr)
		if err != nil {
			return err
		}
		if _, redefined := t.operByName[a.Name]; redefined {
			return fmt.Errorf("output variable %s defined more than once", a.Name)
		}
		t.bind(a.Name, res, nameOut)
		t.addInstr(OpOutput, nil, []OperandID{res})
		return nil
	default:
		return fmt.Errorf("unrecognized assignment node %T", a)
	}
}

func (t *translator) translateExpr(e Expr) (OperandID, error) {
	switch e := e.(type) {
	case Add:
		a, err := t.translateExpr(e.A)
		if err != nil {
			return 0, err
		}
		b, err := t.translateExpr(e.B)
		if err != nil {
			return 0, err
		}
		res := t.ctx.newOperand()
		t.addInstr(OpAdd, &res.ID, []OperandID{a, b})
		return res.ID, nil
	case Mul:
		a, err := t.translateExpr(e.A)
		if err != nil {
			return 0, err
		}
		b, err := t.translateExpr(e.B)
		if err != nil {
			return 0, err
		}
		res := t.ctx.newOperand()
		t.addInstr(OpMul, &res.ID, []OperandID{a, b})
		return res.ID, nil
	case Var:
		if op, ok := t.operByName[e.Name]; ok {
			return op, nil
		}
		op := t.ctx.newOperand()
		t.addInstr(OpInput, &op.ID, nil)
		t.bind(e.Name, op.ID, nameInput)
		return op.ID, nil
	default:
		return 0, fmt.Errorf("unrecognized expression node %T", e)
	}
}
