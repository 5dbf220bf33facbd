package ir

import (
	"fmt"
	"reflect"
)

// Variable is an interface representing a single operand of an instruction: a
// lambda parameter, a constant, or a temporary produced by an earlier
// instruction.
type Variable interface {
	// Repr returns the string representation of the variable.
	Repr() string

	// Type is the static type of the value the variable holds.
	Type() reflect.Type
}

// VariableBase is the base struct for all variables.
type VariableBase struct {
	typ reflect.Type
}

func NewVariableBase(typ reflect.Type) VariableBase {
	return VariableBase{typ: typ}
}

func (vb *VariableBase) Type() reflect.Type {
	return vb.typ
}

// -----------------------------------------------------------------------------

// Parameter represents a bound lambda parameter.
type Parameter struct {
	VariableBase

	Name string
}

// NewParameter creates a new parameter variable.
func NewParameter(name string, typ reflect.Type) *Parameter {
	return &Parameter{VariableBase: NewVariableBase(typ), Name: name}
}

func (p *Parameter) Repr() string {
	return "$" + p.Name
}

// Constant represents an immutable compile-time value.
type Constant struct {
	VariableBase

	Value interface{}
}

// NewConstant creates a new constant variable.
func NewConstant(value interface{}, typ reflect.Type) *Constant {
	if typ == nil {
		typ = reflect.TypeOf(value)
	}

	return &Constant{VariableBase: NewVariableBase(typ), Value: value}
}

func (c *Constant) Repr() string {
	if s, ok := c.Value.(string); ok {
		return fmt.Sprintf("const %q", s)
	}

	return fmt.Sprintf("const %v", c.Value)
}

// Temporary represents an intermediate value produced by exactly one
// instruction.  Def is the defining instruction: its first destination is
// this temporary.
type Temporary struct {
	VariableBase

	// ID numbers the temporary within its lambda, in emission order.
	ID int

	Def *Instruction
}

func (t *Temporary) Repr() string {
	return fmt.Sprintf("$t%d", t.ID)
}
