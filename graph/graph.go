package graph

import (
	"github.com/imzhenyu/rDSN.dist.service.flow/expr"
	"github.com/imzhenyu/rDSN.dist.service.flow/ir"
	"github.com/imzhenyu/rDSN.dist.service.flow/util"
)

// VertexID identifies a vertex within a logical graph.
type VertexID int

// LGraph is the logical dataflow graph of service invocations.  Each vertex
// corresponds to one service call in the composition; lowered per-lambda
// instruction lists are attached to the vertices.
type LGraph struct {
	Vertices map[VertexID]*LVertex

	nextID VertexID
}

// LVertex is a single vertex of the logical graph.
type LVertex struct {
	ID VertexID

	// Origin is the service-call expression that created the vertex.  It is
	// nil for synthetic vertices, which the lowering pass leaves untouched.
	Origin *expr.Call

	// Instructions maps each composed sub-lambda of the vertex to its lowered
	// instruction sequence.
	Instructions map[*expr.Lambda][]*ir.Instruction
}

// NewLGraph creates an empty logical graph.
func NewLGraph() *LGraph {
	return &LGraph{Vertices: make(map[VertexID]*LVertex)}
}

// AddVertex adds a vertex with the given originating call expression, which
// may be nil for synthetic vertices.  The new vertex is returned.
func (g *LGraph) AddVertex(origin *expr.Call) *LVertex {
	v := &LVertex{
		ID:           g.nextID,
		Origin:       origin,
		Instructions: make(map[*expr.Lambda][]*ir.Instruction),
	}

	g.Vertices[v.ID] = v
	g.nextID++

	return v
}

// SortedVertices returns the graph's vertices in ascending id order.  The
// lowering pass and the IR printer both visit vertices in this order so that
// output is deterministic.
func (g *LGraph) SortedVertices() []*LVertex {
	ids := util.SortedKeys(g.Vertices)

	return util.Map(ids, func(id VertexID) *LVertex { return g.Vertices[id] })
}
