package lower

import (
	"reflect"

	"github.com/imzhenyu/rDSN.dist.service.flow/expr"
	"github.com/imzhenyu/rDSN.dist.service.flow/ir"
)

var (
	stringType = reflect.TypeOf("")
	objectType = reflect.TypeOf((*interface{})(nil)).Elem()
)

// binaryOps maps binary expression kinds to instruction opcodes.  Compound
// assignment and array indexing lower through the same two-source form as
// plain arithmetic.
var binaryOps = map[expr.Kind]ir.Opcode{
	expr.KindAdd:                ir.OpAdd,
	expr.KindSubtract:           ir.OpSubtract,
	expr.KindMultiply:           ir.OpMultiply,
	expr.KindDivide:             ir.OpDivide,
	expr.KindModulo:             ir.OpModulo,
	expr.KindPower:              ir.OpPower,
	expr.KindAnd:                ir.OpAnd,
	expr.KindOr:                 ir.OpOr,
	expr.KindExclusiveOr:        ir.OpExclusiveOr,
	expr.KindLeftShift:          ir.OpLeftShift,
	expr.KindRightShift:         ir.OpRightShift,
	expr.KindAndAlso:            ir.OpAndAlso,
	expr.KindOrElse:             ir.OpOrElse,
	expr.KindEqual:              ir.OpEqual,
	expr.KindNotEqual:           ir.OpNotEqual,
	expr.KindLessThan:           ir.OpLessThan,
	expr.KindLessThanOrEqual:    ir.OpLessThanOrEqual,
	expr.KindGreaterThan:        ir.OpGreaterThan,
	expr.KindGreaterThanOrEqual: ir.OpGreaterThanOrEqual,
	expr.KindArrayIndex:         ir.OpArrayIndex,
	expr.KindAssign:             ir.OpAssign,
	expr.KindAddAssign:          ir.OpAddAssign,
	expr.KindSubtractAssign:     ir.OpSubtractAssign,
	expr.KindMultiplyAssign:     ir.OpMultiplyAssign,
	expr.KindDivideAssign:       ir.OpDivideAssign,
	expr.KindModuloAssign:       ir.OpModuloAssign,
	expr.KindPowerAssign:        ir.OpPowerAssign,
	expr.KindAndAssign:          ir.OpAndAssign,
	expr.KindOrAssign:           ir.OpOrAssign,
	expr.KindExclusiveOrAssign:  ir.OpExclusiveOrAssign,
	expr.KindLeftShiftAssign:    ir.OpLeftShiftAssign,
	expr.KindRightShiftAssign:   ir.OpRightShiftAssign,
}

// unaryOps maps unary expression kinds to instruction opcodes.  Quote and
// UnaryPlus are handled out of table: quotes are transparent and a unary plus
// lowers to a single-operand add.
var unaryOps = map[expr.Kind]ir.Opcode{
	expr.KindNegate:              ir.OpNegate,
	expr.KindNegateChecked:       ir.OpNegate,
	expr.KindNot:                 ir.OpNot,
	expr.KindOnesComplement:      ir.OpOnesComplement,
	expr.KindIncrement:           ir.OpIncrement,
	expr.KindDecrement:           ir.OpDecrement,
	expr.KindPreIncrementAssign:  ir.OpPreIncrementAssign,
	expr.KindPreDecrementAssign:  ir.OpPreDecrementAssign,
	expr.KindPostIncrementAssign: ir.OpPostIncrementAssign,
	expr.KindPostDecrementAssign: ir.OpPostDecrementAssign,
	expr.KindConvert:             ir.OpConvert,
	expr.KindConvertChecked:      ir.OpConvert,
	expr.KindTypeAs:              ir.OpConvert,
}

// visit walks an expression node and returns the variable holding the node's
// value, emitting instructions as needed.  Instruction-emitting nodes are
// shared by node identity: two appearances of the same node within one lambda
// yield exactly one emitted instruction.
func (l *Lowerer) visit(e expr.Expr) ir.Variable {
	if e == nil {
		malformed(expr.KindLambda, "expression")
	}

	// Consult the sharing cache before emitting anything for this node.
	if instr, ok := l.exprCache[e]; ok {
		return instr.Result()
	}

	switch v := e.(type) {
	case *expr.Parameter:
		return l.visitParameter(v)
	case *expr.Constant:
		return l.visitConstant(v)
	case *expr.Member:
		return l.visitMember(v)
	case *expr.Binary:
		return l.visitBinary(v)
	case *expr.Unary:
		return l.visitUnary(v)
	case *expr.Conditional:
		return l.visitConditional(v)
	case *expr.Call:
		return l.visitCall(v)
	case *expr.New:
		return l.visitNew(v)
	case *expr.NewArray:
		return l.visitNewArray(v)
	case *expr.MemberInit:
		return l.visitMemberInit(v)
	case *expr.ListInit:
		return l.visitListInit(v)
	case *expr.Lambda:
		return l.visitLambda(v)
	case *expr.Index:
		return l.visitIndex(v)
	}

	unsupported(e)
	return nil
}

// visitParameter looks up or creates the parameter variable for a parameter
// node of the current lambda scope.
func (l *Lowerer) visitParameter(p *expr.Parameter) ir.Variable {
	if pv, ok := l.params[p]; ok {
		return pv
	}

	pv := ir.NewParameter(p.Name, p.Type())
	l.params[p] = pv

	return pv
}

// visitConstant looks up or creates the constant variable for a constant
// node, deduplicated across the lambda by node identity.
func (l *Lowerer) visitConstant(c *expr.Constant) ir.Variable {
	if cv, ok := l.constCache[c]; ok {
		return cv
	}

	cv := ir.NewConstant(c.Value, c.Type())
	l.constCache[c] = cv

	return cv
}

// visitMember lowers a member access.  An access with a target reads the
// member at runtime; an access without one is closed over its environment and
// is folded to a constant by partial evaluation.
func (l *Lowerer) visitMember(m *expr.Member) ir.Variable {
	if m.Target == nil {
		if cv, ok := l.constCache[m]; ok {
			return cv
		}

		val, ok := evalClosed(m)
		if !ok {
			unsupported(m)
		}

		cv := ir.NewConstant(val, m.Type())
		l.constCache[m] = cv

		return cv
	}

	host := l.visit(m.Target)

	instr := l.emit(ir.OpMemberRead, m.Type(), host, ir.NewConstant(m.Name, stringType))
	l.exprCache[m] = instr

	return instr.Result()
}

// visitBinary lowers a binary operator application.
func (l *Lowerer) visitBinary(b *expr.Binary) ir.Variable {
	op, ok := binaryOps[b.Kind()]
	if !ok {
		unsupported(b)
	}

	if b.Left == nil {
		malformed(b.Kind(), "left operand")
	}
	if b.Right == nil {
		malformed(b.Kind(), "right operand")
	}

	lhs := l.visit(b.Left)
	rhs := l.visit(b.Right)

	instr := l.emit(op, b.Type(), lhs, rhs)
	l.exprCache[b] = instr

	return instr.Result()
}

// visitUnary lowers a unary operator application.
func (l *Lowerer) visitUnary(u *expr.Unary) ir.Variable {
	if u.Operand == nil {
		malformed(u.Kind(), "operand")
	}

	switch u.Kind() {
	case expr.KindQuote:
		// Quotes are transparent here: the operand's variable is the quote's
		// value.
		return l.visit(u.Operand)
	case expr.KindUnaryPlus:
		// Identity: an add over a single operand.
		operand := l.visit(u.Operand)

		instr := l.emit(ir.OpAdd, u.Type(), operand)
		l.exprCache[u] = instr

		return instr.Result()
	}

	op, ok := unaryOps[u.Kind()]
	if !ok {
		unsupported(u)
	}

	operand := l.visit(u.Operand)

	instr := l.emit(op, u.Type(), operand)
	l.exprCache[u] = instr

	return instr.Result()
}

// visitConditional lowers a ternary conditional.
func (l *Lowerer) visitConditional(c *expr.Conditional) ir.Variable {
	if c.Test == nil {
		malformed(c.Kind(), "test")
	}
	if c.Then == nil {
		malformed(c.Kind(), "then branch")
	}
	if c.Else == nil {
		malformed(c.Kind(), "else branch")
	}

	test := l.visit(c.Test)
	then := l.visit(c.Then)
	els := l.visit(c.Else)

	instr := l.emit(ir.OpConditional, c.Type(), test, then, els)
	l.exprCache[c] = instr

	return instr.Result()
}

// visitCall lowers a method call.  The instance (if present) is visited
// before the arguments, left to right.
func (l *Lowerer) visitCall(c *expr.Call) ir.Variable {
	var sources []ir.Variable

	if c.Instance != nil {
		sources = append(sources, l.visit(c.Instance))
	}

	for _, arg := range c.Args {
		sources = append(sources, l.visit(arg))
	}

	instr := l.emit(ir.OpCall, c.Type(), sources...)
	instr.Method = &c.Method
	l.exprCache[c] = instr

	return instr.Result()
}

// visitNew lowers an object construction.  The object initializer short form
// constructs with no arguments and then writes each initialized member in
// initializer order.
func (l *Lowerer) visitNew(n *expr.New) ir.Variable {
	if len(n.Members) == 0 {
		var sources []ir.Variable
		for _, arg := range n.Args {
			sources = append(sources, l.visit(arg))
		}

		instr := l.emit(ir.OpNew, n.Type(), sources...)
		l.exprCache[n] = instr

		return instr.Result()
	}

	instr := l.emit(ir.OpNew, n.Type())
	l.exprCache[n] = instr
	obj := instr.Result()

	for i, member := range n.Members {
		val := l.visit(n.MemberArgs[i])
		l.emitMemberWrite(obj, member, val)
	}

	return obj
}

// visitNewArray lowers an array construction.
func (l *Lowerer) visitNewArray(na *expr.NewArray) ir.Variable {
	var op ir.Opcode
	switch na.Kind() {
	case expr.KindNewArrayInit:
		op = ir.OpNewArrayInit
	case expr.KindNewArrayBounds:
		op = ir.OpNewArrayBounds
	default:
		unsupported(na)
	}

	var sources []ir.Variable
	for _, e := range na.Exprs {
		sources = append(sources, l.visit(e))
	}

	instr := l.emit(op, na.Type(), sources...)
	l.exprCache[na] = instr

	return instr.Result()
}

// visitMemberInit lowers a member initialization: the inner construction
// followed by one member write per assignment binding.  Nested member and
// list bindings are not translatable.
func (l *Lowerer) visitMemberInit(mi *expr.MemberInit) ir.Variable {
	if mi.New == nil {
		malformed(mi.Kind(), "constructor")
	}

	obj := l.visit(mi.New)

	for _, b := range mi.Bindings {
		switch b.BindKind {
		case expr.BindAssignment:
			val := l.visit(b.Value)
			l.emitMemberWrite(obj, b.Member, val)
		case expr.BindMember:
			unsupportedKind(expr.KindMemberInit, mi)
		default:
			unsupportedKind(expr.KindElementInit, mi)
		}
	}

	// Share the whole initializer through its construction instruction so a
	// second appearance of this node does not re-run the member writes.
	l.exprCache[mi] = l.exprCache[mi.New]

	return obj
}

// visitListInit lowers a list initialization.  Only the degenerate empty form
// is translatable.
func (l *Lowerer) visitListInit(li *expr.ListInit) ir.Variable {
	if li.New == nil {
		malformed(li.Kind(), "constructor")
	}

	obj := l.visit(li.New)

	for _, init := range li.Inits {
		if len(init) > 0 {
			unsupportedKind(expr.KindElementInit, li)
		}
	}

	l.exprCache[li] = l.exprCache[li.New]

	return obj
}

// visitLambda lowers a nested lambda in the current scope: its parameters
// are registered and its body's variable is the lambda's value.
func (l *Lowerer) visitLambda(lam *expr.Lambda) ir.Variable {
	for _, p := range lam.Params {
		l.visitParameter(p)
	}

	if lam.Body == nil {
		malformed(lam.Kind(), "body")
	}

	return l.visit(lam.Body)
}

// visitIndex lowers an indexer access.  The source order is fixed: the
// indexed object (a null object constant when absent), the indexer name (""
// when unnamed), then the index arguments.
func (l *Lowerer) visitIndex(ix *expr.Index) ir.Variable {
	sources := make([]ir.Variable, 0, len(ix.Args)+2)

	if ix.Object != nil {
		sources = append(sources, l.visit(ix.Object))
	} else {
		sources = append(sources, ir.NewConstant(nil, objectType))
	}

	sources = append(sources, ir.NewConstant(ix.Indexer, stringType))

	for _, arg := range ix.Args {
		sources = append(sources, l.visit(arg))
	}

	instr := l.emit(ir.OpIndex, ix.Type(), sources...)
	l.exprCache[ix] = instr

	return instr.Result()
}
