package cursor

import (
	"github.com/mudesheng/graphhmm/graph"
)

// DBG is a letter position on a de Bruijn graph edge. The first K
// letters of an edge belong to the edges entering its start node, so
// positions run over [K, len(seq)), or [0, len(seq)) when nothing enters
// the start node. Each letter of the graph has exactly one cursor.
type DBG struct {
	E   uint32
	Pos uint32
}

func firstPos(g *graph.Graph, e uint32) uint32 {
	if len(g.Incoming(g.Start(e))) == 0 {
		return 0
	}
	return uint32(g.K)
}

func (c DBG) IsEmpty() bool { return c.E == 0 }

func (c DBG) Next(g *graph.Graph) []DBG {
	if c.IsEmpty() {
		return nil
	}
	if int(c.Pos)+1 < len(g.Seq(c.E)) {
		return []DBG{{E: c.E, Pos: c.Pos + 1}}
	}
	out := g.Outgoing(g.End(c.E))
	arr := make([]DBG, len(out))
	for i, e := range out {
		arr[i] = DBG{E: e, Pos: uint32(g.K)}
	}
	return arr
}

func (c DBG) Prev(g *graph.Graph) []DBG {
	if c.IsEmpty() {
		return nil
	}
	if c.Pos > firstPos(g, c.E) {
		return []DBG{{E: c.E, Pos: c.Pos - 1}}
	}
	in := g.Incoming(g.Start(c.E))
	arr := make([]DBG, len(in))
	for i, e := range in {
		arr[i] = DBG{E: e, Pos: uint32(len(g.Seq(e)) - 1)}
	}
	return arr
}

func (c DBG) Letter(g *graph.Graph) byte {
	return g.Seq(c.E)[c.Pos]
}

func (c DBG) Edges() []uint32 {
	if c.IsEmpty() {
		return nil
	}
	return []uint32{c.E}
}

// EdgeCursors returns the cursors of e in sequence order.
func EdgeCursors(g *graph.Graph, e uint32) []DBG {
	start := firstPos(g, e)
	l := uint32(len(g.Seq(e)))
	arr := make([]DBG, 0, l-start)
	for p := start; p < l; p++ {
		arr = append(arr, DBG{E: e, Pos: p})
	}
	return arr
}

// FirstCursor and LastCursor are the ends of EdgeCursors(g, e).
func FirstCursor(g *graph.Graph, e uint32) DBG {
	return DBG{E: e, Pos: firstPos(g, e)}
}

func LastCursor(g *graph.Graph, e uint32) DBG {
	return DBG{E: e, Pos: uint32(len(g.Seq(e)) - 1)}
}

func AllCursors(g *graph.Graph, edges []uint32) []DBG {
	var arr []DBG
	for _, e := range edges {
		arr = append(arr, EdgeCursors(g, e)...)
	}
	return arr
}
