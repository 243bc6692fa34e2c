package component

import (
	"github.com/mudesheng/graphhmm/cursor"
	"github.com/mudesheng/graphhmm/graph"
)

// Component is the subgraph induced by a vertex set: every edge with
// both ends in the set.
type Component struct {
	Leader   uint32
	vertices map[uint32]bool
	edges    []uint32
}

// FromVertices builds the component of vs, adding the conjugate of every
// vertex when addConjugate is set so both strands are searched.
func FromVertices(g *graph.Graph, leader uint32, vs []uint32, addConjugate bool) *Component {
	c := &Component{Leader: leader, vertices: make(map[uint32]bool, 2*len(vs))}
	for _, v := range vs {
		c.vertices[v] = true
		if addConjugate {
			c.vertices[g.ConjugateNode(v)] = true
		}
	}
	for _, v := range sortedKeys(c.vertices) {
		for _, e := range g.Outgoing(v) {
			if c.vertices[g.End(e)] {
				c.edges = append(c.edges, e)
			}
		}
	}
	return c
}

func FromNeighbourhood(g *graph.Graph, nb Neighbourhood) *Component {
	return FromVertices(g, nb.Leader, nb.Vertices, true)
}

func (c *Component) Vertices() []uint32 { return sortedKeys(c.vertices) }

func (c *Component) HasVertex(v uint32) bool { return c.vertices[v] }

func (c *Component) Edges() []uint32 { return c.edges }

// EdgeNum counts edges of one strand.
func (c *Component) EdgeNum() int { return len(c.edges) / 2 }

// Cursors returns the DBG cursors of every component edge.
func (c *Component) Cursors(g *graph.Graph) []cursor.DBG {
	return cursor.AllCursors(g, c.edges)
}

// Draw writes the component as a dot file, edges in highlight in green.
func Draw(g *graph.Graph, c *Component, highlight []uint32, fn string) error {
	hl := make(map[uint32]bool, len(highlight))
	for _, e := range highlight {
		hl[e] = true
	}
	return g.WriteGraphviz(c.edges, hl, fn)
}
