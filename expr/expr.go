package expr

import (
	"fmt"
	"reflect"
	"strings"
)

// Expr represents a typed expression tree node.  All expression nodes
// implement the `Expr` interface.  Nodes are compared by identity: the same
// sub-expression referenced twice within a lambda is the same node pointer.
type Expr interface {
	// Kind is the kind tag of the expression node.
	Kind() Kind

	// Type is the static type of the value the expression yields.
	Type() reflect.Type

	// Repr returns a compact source-like rendering of the node used in
	// diagnostics.
	Repr() string
}

// ExprBase is the base struct for all expression nodes.
type ExprBase struct {
	kind Kind
	typ  reflect.Type
}

func NewExprBase(kind Kind, typ reflect.Type) ExprBase {
	return ExprBase{kind: kind, typ: typ}
}

func (eb *ExprBase) Kind() Kind {
	return eb.kind
}

func (eb *ExprBase) Type() reflect.Type {
	return eb.typ
}

// -----------------------------------------------------------------------------

// Parameter represents a declared lambda parameter.
type Parameter struct {
	ExprBase

	Name string
}

// NewParameter creates a new parameter node of the given static type.
func NewParameter(name string, typ reflect.Type) *Parameter {
	return &Parameter{ExprBase: NewExprBase(KindParameter, typ), Name: name}
}

func (p *Parameter) Repr() string {
	return p.Name
}

// Constant represents a compile-time constant value.
type Constant struct {
	ExprBase

	Value interface{}
}

// NewConstant creates a new constant node.  The static type is taken from the
// value unless an explicit type is given.
func NewConstant(value interface{}, typ reflect.Type) *Constant {
	if typ == nil {
		typ = reflect.TypeOf(value)
	}

	return &Constant{ExprBase: NewExprBase(KindConstant, typ), Value: value}
}

func (c *Constant) Repr() string {
	return fmt.Sprintf("%v", c.Value)
}

// -----------------------------------------------------------------------------

// Member represents a member access expression (x.F).  A nil target denotes a
// static or closed-over member: the access does not depend on any lambda
// parameter and can be folded to a constant.  For closed accesses, Static
// optionally carries the owning value the member is read from.
type Member struct {
	ExprBase

	Target Expr
	Name   string
	Static reflect.Value
}

// NewMember creates a member access on the given target.
func NewMember(target Expr, name string, typ reflect.Type) *Member {
	return &Member{ExprBase: NewExprBase(KindMemberAccess, typ), Target: target, Name: name}
}

// NewClosedMember creates a closed member access over the given owner value.
func NewClosedMember(owner interface{}, name string, typ reflect.Type) *Member {
	return &Member{
		ExprBase: NewExprBase(KindMemberAccess, typ),
		Name:     name,
		Static:   reflect.ValueOf(owner),
	}
}

func (m *Member) Repr() string {
	if m.Target == nil {
		return "." + m.Name
	}

	return m.Target.Repr() + "." + m.Name
}

// -----------------------------------------------------------------------------

// Binary represents a binary operator application.  The node kind is the
// operator kind: eg. Add, ArrayIndex, AddAssign.
type Binary struct {
	ExprBase

	Left, Right Expr
}

// NewBinary creates a binary operator application of the given operator kind.
func NewBinary(op Kind, left, right Expr, typ reflect.Type) *Binary {
	return &Binary{ExprBase: NewExprBase(op, typ), Left: left, Right: right}
}

func (b *Binary) Repr() string {
	return fmt.Sprintf("(%s %s %s)", b.Kind(), b.Left.Repr(), b.Right.Repr())
}

// Unary represents a unary operator application.  The node kind is the
// operator kind: eg. Negate, Convert, Quote.
type Unary struct {
	ExprBase

	Operand Expr
}

// NewUnary creates a unary operator application of the given operator kind.
func NewUnary(op Kind, operand Expr, typ reflect.Type) *Unary {
	return &Unary{ExprBase: NewExprBase(op, typ), Operand: operand}
}

func (u *Unary) Repr() string {
	return fmt.Sprintf("(%s %s)", u.Kind(), u.Operand.Repr())
}

// Quote wraps a lambda so that it is lowered rather than invoked.
func Quote(l *Lambda) *Unary {
	return NewUnary(KindQuote, l, l.Type())
}

// -----------------------------------------------------------------------------

// Conditional represents a ternary conditional expression.
type Conditional struct {
	ExprBase

	Test, Then, Else Expr
}

// NewConditional creates a ternary conditional node.
func NewConditional(test, then, els Expr, typ reflect.Type) *Conditional {
	return &Conditional{ExprBase: NewExprBase(KindConditional, typ), Test: test, Then: then, Else: els}
}

func (c *Conditional) Repr() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Test.Repr(), c.Then.Repr(), c.Else.Repr())
}

// -----------------------------------------------------------------------------

// Call represents a method call expression.  Instance is nil for static
// calls.  Method is the reflected method handle carried through to the
// emitted instruction.
type Call struct {
	ExprBase

	Instance Expr
	Method   reflect.Method
	Args     []Expr
}

// NewCall creates a method call node.
func NewCall(instance Expr, method reflect.Method, args []Expr, typ reflect.Type) *Call {
	return &Call{ExprBase: NewExprBase(KindCall, typ), Instance: instance, Method: method, Args: args}
}

func (c *Call) Repr() string {
	sb := strings.Builder{}

	if c.Instance != nil {
		sb.WriteString(c.Instance.Repr())
		sb.WriteRune('.')
	}

	sb.WriteString(c.Method.Name)
	sb.WriteRune('(')
	writeExprList(&sb, c.Args)
	sb.WriteRune(')')

	return sb.String()
}

// -----------------------------------------------------------------------------

// New represents an object construction expression.  The short object
// initializer form (`new Point { X = a }`) carries the initialized member
// names in Members with the matching value expressions in MemberArgs; in that
// form Args is empty.
type New struct {
	ExprBase

	Args []Expr

	Members    []string
	MemberArgs []Expr
}

// NewNew creates a constructor call node.
func NewNew(typ reflect.Type, args ...Expr) *New {
	return &New{ExprBase: NewExprBase(KindNew, typ), Args: args}
}

// NewNewWithMembers creates a constructor node in object initializer short
// form.
func NewNewWithMembers(typ reflect.Type, members []string, memberArgs []Expr) *New {
	return &New{ExprBase: NewExprBase(KindNew, typ), Members: members, MemberArgs: memberArgs}
}

func (n *New) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("new ")

	if n.Type() != nil {
		sb.WriteString(n.Type().String())
	}

	sb.WriteRune('(')
	writeExprList(&sb, n.Args)
	sb.WriteRune(')')

	if len(n.Members) > 0 {
		sb.WriteString(" {")
		for i, m := range n.Members {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(m)
			sb.WriteString(" = ")
			sb.WriteString(n.MemberArgs[i].Repr())
		}
		sb.WriteRune('}')
	}

	return sb.String()
}

// NewArray represents an array construction expression.  The node kind is
// either NewArrayInit (explicit elements) or NewArrayBounds (dimension
// lengths).
type NewArray struct {
	ExprBase

	Exprs []Expr
}

// NewNewArray creates an array construction node of the given kind.
func NewNewArray(kind Kind, typ reflect.Type, exprs ...Expr) *NewArray {
	return &NewArray{ExprBase: NewExprBase(kind, typ), Exprs: exprs}
}

func (na *NewArray) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("new [")
	writeExprList(&sb, na.Exprs)
	sb.WriteRune(']')

	return sb.String()
}

// -----------------------------------------------------------------------------

// Enumeration of member binding kinds.
const (
	BindAssignment = iota // member = value
	BindMember            // member = { nested bindings }
	BindList              // member = { list initializers }
)

// Binding is a single member binding within a member initializer.
type Binding struct {
	// BindKind must be one of the enumerated binding kinds.  Only assignment
	// bindings are lowerable.
	BindKind int

	Member string
	Value  Expr
}

// MemberInit represents a member initialization expression: a constructor
// call followed by a list of member bindings.
type MemberInit struct {
	ExprBase

	New      *New
	Bindings []Binding
}

// NewMemberInit creates a member initialization node.
func NewMemberInit(n *New, bindings []Binding) *MemberInit {
	return &MemberInit{ExprBase: NewExprBase(KindMemberInit, n.Type()), New: n, Bindings: bindings}
}

func (mi *MemberInit) Repr() string {
	sb := strings.Builder{}
	sb.WriteString(mi.New.Repr())
	sb.WriteString(" {")

	for i, b := range mi.Bindings {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(b.Member)
		if b.BindKind == BindAssignment {
			sb.WriteString(" = ")
			sb.WriteString(b.Value.Repr())
		} else {
			sb.WriteString(" = {...}")
		}
	}

	sb.WriteRune('}')
	return sb.String()
}

// ListInit represents a list initialization expression: a constructor call
// followed by element initializer argument lists.
type ListInit struct {
	ExprBase

	New   *New
	Inits [][]Expr
}

// NewListInit creates a list initialization node.
func NewListInit(n *New, inits [][]Expr) *ListInit {
	return &ListInit{ExprBase: NewExprBase(KindListInit, n.Type()), New: n, Inits: inits}
}

func (li *ListInit) Repr() string {
	return li.New.Repr() + " {...}"
}

// -----------------------------------------------------------------------------

// Lambda represents a parameterized expression tree fragment.
type Lambda struct {
	ExprBase

	Params []*Parameter
	Body   Expr
}

// NewLambda creates a lambda node.  The static type of a lambda is the type
// of its body.
func NewLambda(params []*Parameter, body Expr) *Lambda {
	return &Lambda{ExprBase: NewExprBase(KindLambda, body.Type()), Params: params, Body: body}
}

func (l *Lambda) Repr() string {
	sb := strings.Builder{}
	sb.WriteRune('(')

	for i, p := range l.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Name)
	}

	sb.WriteString(") => ")
	sb.WriteString(l.Body.Repr())

	return sb.String()
}

// -----------------------------------------------------------------------------

// Index represents an indexer access expression (x[i] through a named or
// default indexer).  Indexer may be empty when the index target has no named
// indexer.
type Index struct {
	ExprBase

	Object  Expr
	Indexer string
	Args    []Expr
}

// NewIndex creates an indexer access node.
func NewIndex(object Expr, indexer string, args []Expr, typ reflect.Type) *Index {
	return &Index{ExprBase: NewExprBase(KindIndex, typ), Object: object, Indexer: indexer, Args: args}
}

func (ix *Index) Repr() string {
	sb := strings.Builder{}

	if ix.Object != nil {
		sb.WriteString(ix.Object.Repr())
	}

	sb.WriteRune('[')
	writeExprList(&sb, ix.Args)
	sb.WriteRune(']')

	return sb.String()
}

// -----------------------------------------------------------------------------

// Bad represents a node of a kind the lowering pass does not accept.  The
// frontend schema still admits such nodes so that rejection can name the real
// kind tag.
type Bad struct {
	ExprBase

	Children []Expr
}

// NewBad creates a node of the given (unsupported) kind.
func NewBad(kind Kind, typ reflect.Type, children ...Expr) *Bad {
	return &Bad{ExprBase: NewExprBase(kind, typ), Children: children}
}

func (b *Bad) Repr() string {
	return fmt.Sprintf("<%s>", b.Kind())
}

// -----------------------------------------------------------------------------

// QuotedLambda unwraps a quoted lambda argument.  It returns the lambda under
// the quote and whether the expression was in fact a quoted lambda.
func QuotedLambda(e Expr) (*Lambda, bool) {
	u, ok := e.(*Unary)
	if !ok || u.Kind() != KindQuote {
		return nil, false
	}

	l, ok := u.Operand.(*Lambda)
	return l, ok
}

func writeExprList(sb *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(e.Repr())
	}
}
