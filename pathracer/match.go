package pathracer

import (
	"log"

	"github.com/mudesheng/graphhmm/component"
	"github.com/mudesheng/graphhmm/cursor"
	"github.com/mudesheng/graphhmm/fees"
	"github.com/mudesheng/graphhmm/graph"
	"golang.org/x/sync/errgroup"
)

// Match is an edge the model aligns to on its own, with the model parts
// the edge cannot hold.
type Match struct {
	Edge     uint32
	Score    float64
	Overhang component.Overhang
}

func overhangs(m, hmmFrom, hmmTo, seqFrom, seqTo, l int) component.Overhang {
	return component.Overhang{
		Left:  max(hmmFrom-seqFrom, 0),
		Right: max((m-hmmTo)-(l-seqTo), 0),
	}
}

type hits struct {
	m        Match
	ok       bool
	minScore float64
}

func (h *hits) add(score float64, oh component.Overhang) {
	if score < h.minScore {
		return
	}
	if !h.ok || score > h.m.Score {
		h.m.Score = score
	}
	h.ok = true
	h.m.Overhang.Left = max(h.m.Overhang.Left, oh.Left)
	h.m.Overhang.Right = max(h.m.Overhang.Right, oh.Right)
}

// matchEdge aligns f locally against the sequence of e, amino models in
// each frame apart. The overhang is the max over every hit scoring at
// least minScore bits.
func matchEdge(g *graph.Graph, e uint32, f *fees.Fees, minScore float64) (Match, bool) {
	seq := g.Seq(e)
	lctx := &cursor.LinearContext{Seq: seq}
	initial := cursor.LinearCursors(lctx)
	h := hits{m: Match{Edge: e}, minScore: minScore}
	if !f.Amino {
		for _, al := range fees.FindBestPath(f, initial, lctx).Alignments() {
			h.add(al.Score, overhangs(f.M, al.HMMFrom, al.HMMTo, int(al.First.I), int(al.Last.I), len(seq)))
		}
		return h.m, h.ok
	}

	for frame := 0; frame < 3; frame++ {
		var starts []cursor.Linear
		for _, c := range initial {
			if c.Index()%3 == frame {
				starts = append(starts, c)
			}
		}
		ps := fees.FindBestPath(f, cursor.MakeAA[cursor.Linear, *cursor.LinearContext](starts, lctx), lctx)
		for _, al := range ps.Alignments() {
			from, to := al.First.C0.Index(), al.Last.C0.Index()
			h.add(al.Score, overhangs(f.M, al.HMMFrom, al.HMMTo, (from-frame)/3+1, (to-frame)/3+1, (len(seq)-frame)/3))
		}
	}
	return h.m, h.ok
}

// MatchedEdges scans edges with a local copy of f and keeps the hits
// scoring at least cfg.MinScore bits, in edge order.
func MatchedEdges(g *graph.Graph, edges []uint32, f *fees.Fees, cfg Config, lg *log.Logger) []Match {
	local := *f
	local.Local = true
	if cfg.EdgeID != 0 {
		edges = []uint32{cfg.EdgeID}
	}

	slots := make([]Match, len(edges))
	hit := make([]bool, len(edges))
	var eg errgroup.Group
	eg.SetLimit(max(cfg.NumCPU, 1))
	for i, e := range edges {
		i, e := i, e
		eg.Go(func() error {
			if g.Edge(e) == nil {
				return nil
			}
			m, ok := matchEdge(g, e, &local, cfg.MinScore)
			if ok {
				slots[i], hit[i] = m, true
			}
			return nil
		})
	}
	eg.Wait()

	var matches []Match
	for i, m := range slots {
		if !hit[i] {
			continue
		}
		if cfg.Debug {
			lg.Printf("[MatchedEdges] edge %d score %.2f overhang left %d right %d\n", m.Edge, m.Score, m.Overhang.Left, m.Overhang.Right)
		}
		matches = append(matches, m)
	}
	lg.Printf("[MatchedEdges] %d of %d edges matched model %s\n", len(matches), len(edges), f.Name)
	return matches
}
