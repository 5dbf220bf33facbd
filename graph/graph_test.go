package graph

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle struct{}

func (handle) SymbolHandle() {}

func TestIsSymbolType(t *testing.T) {
	assert.True(t, IsSymbolType(reflect.TypeOf(handle{})))
	assert.True(t, IsSymbolType(reflect.TypeOf(&handle{})))
	assert.False(t, IsSymbolType(reflect.TypeOf(0)))
	assert.False(t, IsSymbolType(nil))
}

func TestSortedVertices(t *testing.T) {
	g := NewLGraph()

	v0 := g.AddVertex(nil)
	v1 := g.AddVertex(nil)
	v2 := g.AddVertex(nil)

	sorted := g.SortedVertices()
	require.Len(t, sorted, 3)
	assert.Equal(t, []*LVertex{v0, v1, v2}, sorted)

	assert.Equal(t, VertexID(0), v0.ID)
	assert.Equal(t, VertexID(2), v2.ID)
}

func TestAddVertexInitializesInstructionMap(t *testing.T) {
	g := NewLGraph()
	v := g.AddVertex(nil)

	require.NotNil(t, v.Instructions)
	assert.Empty(t, v.Instructions)
}
