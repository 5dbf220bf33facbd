package lower

import (
	"fmt"
	"reflect"

	"github.com/imzhenyu/rDSN.dist.service.flow/expr"
	"github.com/imzhenyu/rDSN.dist.service.flow/graph"
	"github.com/imzhenyu/rDSN.dist.service.flow/ir"
	"github.com/imzhenyu/rDSN.dist.service.flow/report"
)

// Lowerer is responsible for converting the composed sub-lambdas of a logical
// graph into per-lambda three-address instruction sequences.
//
// All of its maps are per-lambda state: they are keyed by expression-node
// identity and cleared after each lambda is lowered.  Sharing is therefore
// confined to a single lambda body; across lambdas operand identity and scope
// change and reuse would be unsound.
type Lowerer struct {
	// exprCache maps already-lowered expression nodes to their emitted
	// instruction so that a node referenced twice yields one instruction.
	exprCache map[expr.Expr]*ir.Instruction

	// constCache deduplicates constant variables by expression-node identity.
	constCache map[expr.Expr]*ir.Constant

	// params maps parameter nodes of the current lambda scope to their
	// parameter variables.
	params map[*expr.Parameter]*ir.Parameter

	// instrs is the instruction list of the lambda being lowered, in emission
	// order.
	instrs []*ir.Instruction

	// nextTemp numbers the temporaries of the current lambda.
	nextTemp int
}

// NewLowerer creates a lowerer with empty per-lambda caches.
func NewLowerer() *Lowerer {
	l := &Lowerer{}
	l.reset()
	return l
}

// Build lowers every eligible sub-lambda of the given graph and attaches the
// resulting instruction lists to the graph's vertices.  On error the whole
// build is aborted: the graph's partially populated instruction maps must be
// discarded by the caller.
func Build(g *graph.LGraph) error {
	return NewLowerer().Build(g)
}

// Build lowers the graph using the Lowerer.
func (l *Lowerer) Build(g *graph.LGraph) error {
	for _, v := range g.SortedVertices() {
		// Synthetic vertices carry no originating call and are left alone.
		if v.Origin == nil {
			continue
		}

		report.ReportInfo("Lowering", fmt.Sprintf("vertex %d: %s", v.ID, v.Origin.Method.Name))

		for _, arg := range v.Origin.Args {
			lambda, ok := expr.QuotedLambda(arg)
			if !ok {
				continue
			}

			// Routing lambdas are owned by the vertex their handle parameter
			// refers to, not by this one.
			if isRoutingLambda(lambda) {
				continue
			}

			instrs, err := l.LowerLambda(lambda)
			if err != nil {
				report.ReportLoweringError(fmt.Sprintf("vertex %d", v.ID), err)
				return fmt.Errorf("vertex %d: %w", v.ID, err)
			}

			v.Instructions[lambda] = instrs
		}
	}

	return nil
}

// LowerLambda lowers a single lambda into its instruction sequence.  The
// per-lambda caches are cleared before this function returns, whether it
// succeeds or not.
func (l *Lowerer) LowerLambda(lambda *expr.Lambda) (instrs []*ir.Instruction, err error) {
	defer l.reset()
	defer catch(&err)

	// Register the declared parameters before walking the body so that every
	// parameter variable exists exactly once per scope.
	for _, p := range lambda.Params {
		l.visitParameter(p)
	}

	l.visit(lambda.Body)

	return l.instrs, nil
}

// reset clears the per-lambda caches and the instruction list.
func (l *Lowerer) reset() {
	l.exprCache = make(map[expr.Expr]*ir.Instruction)
	l.constCache = make(map[expr.Expr]*ir.Constant)
	l.params = make(map[*expr.Parameter]*ir.Parameter)
	l.instrs = nil
	l.nextTemp = 0
}

// isRoutingLambda implements the vertex-skipping heuristic: a lambda with at
// least one Symbol-typed parameter whose body is a call expresses
// cross-vertex routing and is lowered by the vertex owning the handle.
func isRoutingLambda(lambda *expr.Lambda) bool {
	if _, ok := lambda.Body.(*expr.Call); !ok {
		return false
	}

	for _, p := range lambda.Params {
		if graph.IsSymbolType(p.Type()) {
			return true
		}
	}

	return false
}

// emit appends an instruction whose single destination is a fresh temporary
// of the given result type.
func (l *Lowerer) emit(op ir.Opcode, resultType reflect.Type, sources ...ir.Variable) *ir.Instruction {
	instr := ir.NewInstr(op, l.nextTemp, resultType, sources...)
	l.nextTemp++

	l.instrs = append(l.instrs, instr)
	return instr
}

// emitMemberWrite appends a non-indexed member write.
func (l *Lowerer) emitMemberWrite(host ir.Variable, member string, value ir.Variable) *ir.Instruction {
	instr := ir.NewMemberWrite(host, ir.NewConstant(member, stringType), value)

	l.instrs = append(l.instrs, instr)
	return instr
}
