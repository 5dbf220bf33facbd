package lower

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imzhenyu/rDSN.dist.service.flow/expr"
	"github.com/imzhenyu/rDSN.dist.service.flow/graph"
	"github.com/imzhenyu/rDSN.dist.service.flow/ir"
)

var (
	intT  = reflect.TypeOf(0)
	boolT = reflect.TypeOf(true)
)

// mathSvc provides reflected method handles for call tests.
type mathSvc struct{}

func (mathSvc) Foo(a, b int) int { return a + b }

func (mathSvc) Compose(f func(int) int) int { return f(1) }

// vertexHandle is a Symbol-typed vertex handle.
type vertexHandle struct{}

func (vertexHandle) SymbolHandle() {}

func (vertexHandle) Bar(v int) int { return v }

func methodOf(recv interface{}, name string) reflect.Method {
	m, ok := reflect.TypeOf(recv).MethodByName(name)
	if !ok {
		panic("no method " + name)
	}

	return m
}

func lowerBody(t *testing.T, params []*expr.Parameter, body expr.Expr) []*ir.Instruction {
	t.Helper()

	instrs, err := NewLowerer().LowerLambda(expr.NewLambda(params, body))
	require.NoError(t, err)

	return instrs
}

// -----------------------------------------------------------------------------

func TestBinaryCSE(t *testing.T) {
	// (x) => (x + 1) * (x + 1) where both (x + 1) are the same node.
	x := expr.NewParameter("x", intT)
	add := expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT)
	mul := expr.NewBinary(expr.KindMultiply, add, add, intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, mul)

	require.Len(t, instrs, 2)
	assert.Equal(t, ir.OpAdd, instrs[0].Op)
	assert.Equal(t, ir.OpMultiply, instrs[1].Op)

	// Both multiply sources are the add's result temporary.
	addResult := instrs[0].Result()
	assert.Same(t, addResult, instrs[1].Sources[0])
	assert.Same(t, addResult, instrs[1].Sources[1])
}

func TestConditional(t *testing.T) {
	// (x) => x > 0 ? x : -x
	x := expr.NewParameter("x", intT)
	test := expr.NewBinary(expr.KindGreaterThan, x, expr.NewConstant(0, intT), boolT)
	neg := expr.NewUnary(expr.KindNegate, x, intT)
	cond := expr.NewConditional(test, x, neg, intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, cond)

	require.Len(t, instrs, 3)
	assert.Equal(t, ir.OpGreaterThan, instrs[0].Op)
	assert.Equal(t, ir.OpNegate, instrs[1].Op)
	assert.Equal(t, ir.OpConditional, instrs[2].Op)

	require.Len(t, instrs[2].Sources, 3)
	assert.Same(t, instrs[0].Result(), instrs[2].Sources[0])
	assert.Same(t, instrs[1].Result(), instrs[2].Sources[2])

	// The then-branch is the parameter itself.
	p, ok := instrs[2].Sources[1].(*ir.Parameter)
	require.True(t, ok)
	assert.Equal(t, "x", p.Name)
}

func TestObjectInitializer(t *testing.T) {
	// new Point { X = a, Y = b + 1 }
	type point struct{ X, Y int }
	pointT := reflect.TypeOf(point{})

	a := expr.NewParameter("a", intT)
	b := expr.NewParameter("b", intT)
	add := expr.NewBinary(expr.KindAdd, b, expr.NewConstant(1, intT), intT)

	n := expr.NewNewWithMembers(pointT, []string{"X", "Y"}, []expr.Expr{a, add})

	instrs := lowerBody(t, []*expr.Parameter{a, b}, n)

	require.Len(t, instrs, 4)
	assert.Equal(t, ir.OpNew, instrs[0].Op)
	assert.Empty(t, instrs[0].Sources)

	obj := instrs[0].Result()

	// Writes happen in initializer order.
	writes := []*ir.Instruction{}
	for _, instr := range instrs {
		if instr.Op == ir.OpMemberWrite {
			writes = append(writes, instr)
		}
	}
	require.Len(t, writes, 2)

	for i, name := range []string{"X", "Y"} {
		require.Len(t, writes[i].Destinations, 2)
		assert.Same(t, obj, writes[i].Destinations[0])

		nameConst, ok := writes[i].Destinations[1].(*ir.Constant)
		require.True(t, ok)
		assert.Equal(t, name, nameConst.Value)

		require.Len(t, writes[i].Sources, 1)
	}
}

func TestMethodCallWithReceiver(t *testing.T) {
	// (s, x, y) => s.Foo(x, y)
	s := expr.NewParameter("s", reflect.TypeOf(mathSvc{}))
	x := expr.NewParameter("x", intT)
	y := expr.NewParameter("y", intT)

	call := expr.NewCall(s, methodOf(mathSvc{}, "Foo"), []expr.Expr{x, y}, intT)

	instrs := lowerBody(t, []*expr.Parameter{s, x, y}, call)

	require.Len(t, instrs, 1)
	assert.Equal(t, ir.OpCall, instrs[0].Op)
	require.Len(t, instrs[0].Sources, 3)

	require.NotNil(t, instrs[0].Method)
	assert.Equal(t, "Foo", instrs[0].Method.Name)
}

func TestRoutingLambdaSkipped(t *testing.T) {
	// A quoted (h: Symbol) => h.Bar(v) argument must not be lowered on this
	// vertex.
	h := expr.NewParameter("h", reflect.TypeOf(vertexHandle{}))
	v := expr.NewParameter("v", intT)
	routing := expr.NewLambda(
		[]*expr.Parameter{h, v},
		expr.NewCall(h, methodOf(vertexHandle{}, "Bar"), []expr.Expr{v}, intT),
	)

	// A plain computation lambda on the same vertex is still lowered.
	x := expr.NewParameter("x", intT)
	compute := expr.NewLambda(
		[]*expr.Parameter{x},
		expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT),
	)

	g := graph.NewLGraph()
	vtx := g.AddVertex(expr.NewCall(
		nil,
		methodOf(mathSvc{}, "Compose"),
		[]expr.Expr{expr.Quote(routing), expr.Quote(compute)},
		intT,
	))

	require.NoError(t, Build(g))

	assert.NotContains(t, vtx.Instructions, routing)
	require.Contains(t, vtx.Instructions, compute)
	assert.Len(t, vtx.Instructions[compute], 1)
}

func TestUnsupportedNodeAbortsBuild(t *testing.T) {
	x := expr.NewParameter("x", intT)
	bad := expr.NewLambda([]*expr.Parameter{x}, expr.NewBad(expr.KindSwitch, intT))

	g := graph.NewLGraph()
	vtx := g.AddVertex(expr.NewCall(
		nil,
		methodOf(mathSvc{}, "Compose"),
		[]expr.Expr{expr.Quote(bad)},
		intT,
	))

	err := Build(g)
	require.Error(t, err)

	var ue *UnsupportedExpressionError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, expr.KindSwitch, ue.Kind)

	assert.NotContains(t, vtx.Instructions, bad)
}

// -----------------------------------------------------------------------------

func TestUnsupportedKindsTable(t *testing.T) {
	kinds := []expr.Kind{
		expr.KindBlock,
		expr.KindSwitch,
		expr.KindLoop,
		expr.KindGoto,
		expr.KindLabel,
		expr.KindTry,
		expr.KindTypeIs,
		expr.KindInvoke,
		expr.KindDynamic,
		expr.KindDebugInfo,
		expr.KindDefault,
	}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			x := expr.NewParameter("x", intT)
			lam := expr.NewLambda([]*expr.Parameter{x}, expr.NewBad(kind, intT))

			_, err := NewLowerer().LowerLambda(lam)

			var ue *UnsupportedExpressionError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, kind, ue.Kind)
		})
	}
}

func TestMalformedBinary(t *testing.T) {
	x := expr.NewParameter("x", intT)
	b := expr.NewBinary(expr.KindAdd, x, nil, intT)

	_, err := NewLowerer().LowerLambda(expr.NewLambda([]*expr.Parameter{x}, b))

	var me *MalformedNodeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, expr.KindAdd, me.Kind)
}

func TestMemberRead(t *testing.T) {
	type box struct{ F int }

	x := expr.NewParameter("x", reflect.TypeOf(box{}))
	m := expr.NewMember(x, "F", intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, m)

	require.Len(t, instrs, 1)
	assert.Equal(t, ir.OpMemberRead, instrs[0].Op)
	require.Len(t, instrs[0].Sources, 2)

	nameConst, ok := instrs[0].Sources[1].(*ir.Constant)
	require.True(t, ok)
	assert.Equal(t, "F", nameConst.Value)
}

func TestClosedMemberFoldsToConstant(t *testing.T) {
	owner := struct{ Threshold int }{Threshold: 42}

	x := expr.NewParameter("x", intT)
	m := expr.NewClosedMember(owner, "Threshold", intT)
	b := expr.NewBinary(expr.KindAdd, x, m, intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, b)

	require.Len(t, instrs, 1)

	c, ok := instrs[0].Sources[1].(*ir.Constant)
	require.True(t, ok)
	assert.Equal(t, 42, c.Value)
}

func TestClosedMemberMethod(t *testing.T) {
	x := expr.NewParameter("x", intT)
	m := expr.NewClosedMember(mathSvc{}, "Compose", intT)

	// Compose takes an argument, so partial evaluation must fail and report
	// the node as unsupported rather than calling it.
	b := expr.NewBinary(expr.KindAdd, x, m, intT)

	_, err := NewLowerer().LowerLambda(expr.NewLambda([]*expr.Parameter{x}, b))

	var ue *UnsupportedExpressionError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, expr.KindMemberAccess, ue.Kind)
}

func TestClosedMemberMissing(t *testing.T) {
	owner := struct{ A int }{}

	x := expr.NewParameter("x", intT)
	m := expr.NewClosedMember(owner, "Missing", intT)

	_, err := NewLowerer().LowerLambda(expr.NewLambda([]*expr.Parameter{x}, m))

	var ue *UnsupportedExpressionError
	require.ErrorAs(t, err, &ue)
}

func TestConstantDedup(t *testing.T) {
	// The same constant node twice yields one constant variable; a distinct
	// node with the same value yields another.
	x := expr.NewParameter("x", intT)
	one := expr.NewConstant(1, intT)
	otherOne := expr.NewConstant(1, intT)

	b1 := expr.NewBinary(expr.KindAdd, one, one, intT)
	b2 := expr.NewBinary(expr.KindMultiply, b1, otherOne, intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, b2)

	require.Len(t, instrs, 2)
	assert.Same(t, instrs[0].Sources[0], instrs[0].Sources[1])
	assert.NotSame(t, instrs[0].Sources[0], instrs[1].Sources[1])
}

func TestUnaryPlusLowersToSingleSourceAdd(t *testing.T) {
	x := expr.NewParameter("x", intT)
	up := expr.NewUnary(expr.KindUnaryPlus, x, intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, up)

	require.Len(t, instrs, 1)
	assert.Equal(t, ir.OpAdd, instrs[0].Op)
	assert.Len(t, instrs[0].Sources, 1)
}

func TestQuoteIsTransparent(t *testing.T) {
	x := expr.NewParameter("x", intT)
	add := expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT)
	quoted := expr.NewUnary(expr.KindQuote, add, intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, quoted)

	require.Len(t, instrs, 1)
	assert.Equal(t, ir.OpAdd, instrs[0].Op)
}

func TestIndexSourceOrder(t *testing.T) {
	type table struct{}

	x := expr.NewParameter("x", reflect.TypeOf(table{}))
	i := expr.NewParameter("i", intT)

	ix := expr.NewIndex(x, "Item", []expr.Expr{i}, intT)

	instrs := lowerBody(t, []*expr.Parameter{x, i}, ix)

	require.Len(t, instrs, 1)
	require.Len(t, instrs[0].Sources, 3)

	nameConst, ok := instrs[0].Sources[1].(*ir.Constant)
	require.True(t, ok)
	assert.Equal(t, "Item", nameConst.Value)
}

func TestIndexWithoutObject(t *testing.T) {
	i := expr.NewParameter("i", intT)

	ix := expr.NewIndex(nil, "", []expr.Expr{i}, intT)

	instrs := lowerBody(t, []*expr.Parameter{i}, ix)

	require.Len(t, instrs, 1)
	require.Len(t, instrs[0].Sources, 3)

	objConst, ok := instrs[0].Sources[0].(*ir.Constant)
	require.True(t, ok)
	assert.Nil(t, objConst.Value)

	nameConst, ok := instrs[0].Sources[1].(*ir.Constant)
	require.True(t, ok)
	assert.Equal(t, "", nameConst.Value)
}

func TestMemberInit(t *testing.T) {
	type point struct{ X int }
	pointT := reflect.TypeOf(point{})

	a := expr.NewParameter("a", intT)
	n := expr.NewNew(pointT)

	mi := expr.NewMemberInit(n, []expr.Binding{
		{BindKind: expr.BindAssignment, Member: "X", Value: a},
	})

	instrs := lowerBody(t, []*expr.Parameter{a}, mi)

	require.Len(t, instrs, 2)
	assert.Equal(t, ir.OpNew, instrs[0].Op)
	assert.Equal(t, ir.OpMemberWrite, instrs[1].Op)
	assert.Same(t, instrs[0].Result(), instrs[1].Destinations[0])
}

func TestMemberInitNestedBindingFails(t *testing.T) {
	type point struct{ X int }

	a := expr.NewParameter("a", intT)
	mi := expr.NewMemberInit(expr.NewNew(reflect.TypeOf(point{})), []expr.Binding{
		{BindKind: expr.BindMember, Member: "X", Value: a},
	})

	_, err := NewLowerer().LowerLambda(expr.NewLambda([]*expr.Parameter{a}, mi))

	var ue *UnsupportedExpressionError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, expr.KindMemberInit, ue.Kind)
}

func TestListInit(t *testing.T) {
	type bag struct{}

	a := expr.NewParameter("a", intT)
	n := expr.NewNew(reflect.TypeOf(bag{}))

	// The empty form is the only translatable list initializer.
	instrs := lowerBody(t, []*expr.Parameter{a}, expr.NewListInit(n, nil))
	require.Len(t, instrs, 1)
	assert.Equal(t, ir.OpNew, instrs[0].Op)

	full := expr.NewListInit(expr.NewNew(reflect.TypeOf(bag{})), [][]expr.Expr{{a}})
	_, err := NewLowerer().LowerLambda(expr.NewLambda([]*expr.Parameter{a}, full))

	var ue *UnsupportedExpressionError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, expr.KindElementInit, ue.Kind)
}

func TestNewArray(t *testing.T) {
	x := expr.NewParameter("x", intT)
	arrT := reflect.TypeOf([]int{})

	init := expr.NewNewArray(expr.KindNewArrayInit, arrT, x, expr.NewConstant(2, intT))
	instrs := lowerBody(t, []*expr.Parameter{x}, init)
	require.Len(t, instrs, 1)
	assert.Equal(t, ir.OpNewArrayInit, instrs[0].Op)
	assert.Len(t, instrs[0].Sources, 2)

	bounds := expr.NewNewArray(expr.KindNewArrayBounds, arrT, expr.NewConstant(8, intT))
	instrs = lowerBody(t, []*expr.Parameter{x}, bounds)
	require.Len(t, instrs, 1)
	assert.Equal(t, ir.OpNewArrayBounds, instrs[0].Op)
}

// -----------------------------------------------------------------------------

func TestTempsDefinedBeforeUse(t *testing.T) {
	// Structural invariant: every temporary used as a source was defined by
	// an earlier instruction of the same lambda.
	x := expr.NewParameter("x", intT)
	add := expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT)
	neg := expr.NewUnary(expr.KindNegate, add, intT)
	mul := expr.NewBinary(expr.KindMultiply, neg, add, intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, mul)

	defined := map[*ir.Instruction]int{}
	for i, instr := range instrs {
		defined[instr] = i
	}

	for i, instr := range instrs {
		for _, src := range instr.Sources {
			if tmp, ok := src.(*ir.Temporary); ok {
				at, ok := defined[tmp.Def]
				require.True(t, ok)
				assert.Less(t, at, i)
			}
		}
	}
}

func TestTemporaryBackReference(t *testing.T) {
	x := expr.NewParameter("x", intT)
	add := expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT)

	instrs := lowerBody(t, []*expr.Parameter{x}, add)

	require.Len(t, instrs, 1)
	tmp, ok := instrs[0].Result().(*ir.Temporary)
	require.True(t, ok)
	assert.Same(t, instrs[0], tmp.Def)
}

func TestCachesClearedBetweenLambdas(t *testing.T) {
	l := NewLowerer()

	// The same body node lowered in two lambdas must not be shared across
	// them.
	x := expr.NewParameter("x", intT)
	add := expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT)
	lam := expr.NewLambda([]*expr.Parameter{x}, add)

	first, err := l.LowerLambda(lam)
	require.NoError(t, err)

	second, err := l.LowerLambda(lam)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotSame(t, first[0], second[0])

	// Fresh temp numbering in the second run.
	assert.Equal(t, first[0].Result().Repr(), second[0].Result().Repr())
}

func TestLoweringIsDeterministic(t *testing.T) {
	x := expr.NewParameter("x", intT)
	add := expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT)
	cond := expr.NewConditional(
		expr.NewBinary(expr.KindGreaterThan, add, expr.NewConstant(0, intT), boolT),
		add,
		expr.NewUnary(expr.KindNegate, add, intT),
		intT,
	)
	lam := expr.NewLambda([]*expr.Parameter{x}, cond)

	first, err := NewLowerer().LowerLambda(lam)
	require.NoError(t, err)

	second, err := NewLowerer().LowerLambda(lam)
	require.NoError(t, err)

	assert.Equal(t, ir.ReprList(first), ir.ReprList(second))
}

func TestNonLambdaArgumentsIgnored(t *testing.T) {
	x := expr.NewParameter("x", intT)
	compute := expr.NewLambda(
		[]*expr.Parameter{x},
		expr.NewBinary(expr.KindAdd, x, expr.NewConstant(1, intT), intT),
	)

	g := graph.NewLGraph()
	vtx := g.AddVertex(expr.NewCall(
		nil,
		methodOf(mathSvc{}, "Compose"),
		[]expr.Expr{expr.NewConstant(7, intT), expr.Quote(compute)},
		intT,
	))

	// Synthetic vertices are untouched.
	synthetic := g.AddVertex(nil)

	require.NoError(t, Build(g))

	assert.Len(t, vtx.Instructions, 1)
	assert.Empty(t, synthetic.Instructions)
}
