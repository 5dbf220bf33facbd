package expr

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intT = reflect.TypeOf(0)

func TestKindNames(t *testing.T) {
	assert.Equal(t, "Parameter", KindParameter.String())
	assert.Equal(t, "GreaterThanOrEqual", KindGreaterThanOrEqual.String())
	assert.Equal(t, "PostDecrementAssign", KindPostDecrementAssign.String())
	assert.Equal(t, "ElementInit", KindElementInit.String())
	assert.Equal(t, "Unknown", Kind(-1).String())

	// Every kind has a name.
	assert.Len(t, kindNames, int(KindElementInit)+1)
}

func TestOperatorNodesCarryOperatorKind(t *testing.T) {
	x := NewParameter("x", intT)

	b := NewBinary(KindAdd, x, NewConstant(1, intT), intT)
	assert.Equal(t, KindAdd, b.Kind())

	u := NewUnary(KindNegate, x, intT)
	assert.Equal(t, KindNegate, u.Kind())
}

func TestQuotedLambda(t *testing.T) {
	x := NewParameter("x", intT)
	lam := NewLambda([]*Parameter{x}, x)

	q := Quote(lam)
	assert.Equal(t, KindQuote, q.Kind())

	got, ok := QuotedLambda(q)
	require.True(t, ok)
	assert.Same(t, lam, got)

	// A bare lambda is not a quoted lambda argument.
	_, ok = QuotedLambda(lam)
	assert.False(t, ok)

	// Neither is a quote around a non-lambda.
	_, ok = QuotedLambda(NewUnary(KindQuote, x, intT))
	assert.False(t, ok)
}

func TestRepr(t *testing.T) {
	x := NewParameter("x", intT)
	add := NewBinary(KindAdd, x, NewConstant(1, intT), intT)
	lam := NewLambda([]*Parameter{x}, add)

	assert.Equal(t, "(Add x 1)", add.Repr())
	assert.Equal(t, "(x) => (Add x 1)", lam.Repr())

	m := NewMember(x, "F", intT)
	assert.Equal(t, "x.F", m.Repr())

	bad := NewBad(KindSwitch, intT)
	assert.Equal(t, "<Switch>", bad.Repr())
}

func TestConstantTypeInference(t *testing.T) {
	c := NewConstant(1, nil)
	assert.Equal(t, intT, c.Type())

	typed := NewConstant(nil, intT)
	assert.Equal(t, intT, typed.Type())
}
