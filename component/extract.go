// Package component collects the graph neighbourhoods of edges matched
// by a profile model and merges them into search components.
package component

import (
	"sort"

	"github.com/mudesheng/graphhmm/cursor"
	"github.com/mudesheng/graphhmm/graph"
	"github.com/mudesheng/graphhmm/utils"
)

// Overhang is the part of the model left unaligned before (Left) and
// after (Right) a matched edge, in model nodes.
type Overhang struct {
	Left, Right int
}

// Neighbourhood is the vertex set around a matched edge, sorted.
type Neighbourhood struct {
	Leader   uint32
	Vertices []uint32
}

// Multiplier converts model nodes to graph letters: a codon per node on
// both strands for amino acid models, both strands for nucleotides.
func Multiplier(aminoModel bool) int {
	if aminoModel {
		return 6
	}
	return 2
}

type dbgReversal = cursor.Reversal[cursor.DBG, *graph.Graph]

// Extract walks Left*mult letters back from the start of e and
// Right*mult letters on from its end. A vertex is reached when the
// walk crosses it within budget, crossing an edge costs its Length on
// either strand.
func Extract(g *graph.Graph, e uint32, oh Overhang, mult int) Neighbourhood {
	set := map[uint32]bool{g.Start(e): true, g.End(e): true}

	if budget := oh.Right * mult; budget > 0 {
		var starts []cursor.DBG
		for _, ne := range g.Outgoing(g.End(e)) {
			starts = append(starts, cursor.FirstCursor(g, ne))
		}
		for c := range cursor.Reach[cursor.DBG, *graph.Graph](starts, g, budget) {
			if c == cursor.LastCursor(g, c.E) {
				set[g.End(c.E)] = true
			}
		}
	}

	if budget := oh.Left * mult; budget > 0 {
		var starts []dbgReversal
		for _, pe := range g.Incoming(g.Start(e)) {
			starts = append(starts, dbgReversal{Base: cursor.LastCursor(g, pe)})
		}
		for c := range cursor.Reach[dbgReversal, *graph.Graph](starts, g, budget) {
			if int(c.Base.Pos) <= g.K {
				set[g.Start(c.Base.E)] = true
			}
		}
	}

	return Neighbourhood{Leader: e, Vertices: sortedKeys(set)}
}

func sortedKeys(set map[uint32]bool) []uint32 {
	vs := make([]uint32, 0, len(set))
	for v := range set {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}

// Merge joins neighbourhoods sharing a vertex until none do. A merged
// neighbourhood is led by its smallest leader, output is sorted by
// leader.
func Merge(nbrs []Neighbourhood) []Neighbourhood {
	ds := utils.NewDisjointSet[uint32]()
	for _, nb := range nbrs {
		for i, v := range nb.Vertices {
			ds.MakeSet(v)
			if i > 0 {
				ds.Union(nb.Vertices[0], v)
			}
		}
	}

	byRoot := make(map[uint32]int)
	var groups []map[uint32]bool
	var leaders []uint32
	for _, nb := range nbrs {
		if len(nb.Vertices) == 0 {
			groups = append(groups, map[uint32]bool{})
			leaders = append(leaders, nb.Leader)
			continue
		}
		r := ds.Find(nb.Vertices[0])
		i, ok := byRoot[r]
		if !ok {
			i = len(groups)
			byRoot[r] = i
			groups = append(groups, make(map[uint32]bool))
			leaders = append(leaders, nb.Leader)
		}
		if nb.Leader < leaders[i] {
			leaders[i] = nb.Leader
		}
		for _, v := range nb.Vertices {
			groups[i][v] = true
		}
	}

	merged := make([]Neighbourhood, len(groups))
	for i, set := range groups {
		merged[i] = Neighbourhood{Leader: leaders[i], Vertices: sortedKeys(set)}
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Leader < merged[j].Leader })
	return merged
}
