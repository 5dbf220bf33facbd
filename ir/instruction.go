package ir

import (
	"reflect"
	"strings"
)

// Instruction represents a single three-address operation: an opcode applied
// to an ordered list of source operands, producing an ordered list of
// destination operands.  Method is set only on call instructions.
type Instruction struct {
	Op Opcode

	Sources      []Variable
	Destinations []Variable

	Method *reflect.Method
}

// NewInstr creates an instruction whose single destination is a fresh
// temporary of the given result type.  The temporary's defining-instruction
// back-reference is wired here; id numbers the temporary within its lambda.
func NewInstr(op Opcode, id int, resultType reflect.Type, sources ...Variable) *Instruction {
	instr := &Instruction{Op: op, Sources: sources}

	t := &Temporary{VariableBase: NewVariableBase(resultType), ID: id, Def: instr}
	instr.Destinations = []Variable{t}

	return instr
}

// NewMemberWrite creates a non-indexed member write: destinations are the
// host object and the member name constant, the single source is the value
// written.
func NewMemberWrite(host Variable, name *Constant, value Variable) *Instruction {
	return &Instruction{
		Op:           OpMemberWrite,
		Sources:      []Variable{value},
		Destinations: []Variable{host, name},
	}
}

// Result returns the first destination of the instruction, or nil if the
// instruction has no destinations.
func (instr *Instruction) Result() Variable {
	if len(instr.Destinations) == 0 {
		return nil
	}

	return instr.Destinations[0]
}

func (instr *Instruction) Repr() string {
	sb := strings.Builder{}

	if instr.Op == OpMemberWrite {
		sb.WriteString(instr.Op.String())
		sb.WriteString(" [")
		writeOperands(&sb, instr.Destinations)
		sb.WriteString("] <- ")
		writeOperands(&sb, instr.Sources)

		return sb.String()
	}

	if r := instr.Result(); r != nil {
		sb.WriteString(r.Repr())
		sb.WriteString(" = ")
	}

	sb.WriteString(instr.Op.String())

	if instr.Method != nil {
		sb.WriteRune('.')
		sb.WriteString(instr.Method.Name)
	}

	sb.WriteRune('(')
	writeOperands(&sb, instr.Sources)
	sb.WriteRune(')')

	return sb.String()
}

// ReprList renders an instruction sequence one instruction per line in
// emission order.
func ReprList(instrs []*Instruction) string {
	sb := strings.Builder{}

	for _, instr := range instrs {
		sb.WriteString("  ")
		sb.WriteString(instr.Repr())
		sb.WriteRune('\n')
	}

	return sb.String()
}

func writeOperands(sb *strings.Builder, operands []Variable) {
	for i, o := range operands {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(o.Repr())
	}
}
