package fees

import (
	"math"
	"slices"

	"github.com/mudesheng/graphhmm/cursor"
	"github.com/mudesheng/graphhmm/utils"
)

// ScoredPath is a cursor path with its letters and score in bits.
// Deletions are empty cursors in Path and absent from Seq.
type ScoredPath[C any] struct {
	Path  []C
	Seq   string
	Score float64
}

// Alignment locates the best path on the model, node numbers are 1-based.
type Alignment[C any] struct {
	HMMFrom, HMMTo int
	// First and Last are the first and last cursors emitted by a match state.
	First, Last C
	Score       float64
}

// PathSet is the outcome of FindBestPath, ends ordered by cost.
type PathSet[C cursor.Cursor[C, X], X any] struct {
	f    *Fees
	ctx  X
	ends []*hyp[C]
}

func (ps *PathSet[C, X]) Empty() bool { return len(ps.ends) == 0 }

// BestScore is the best score in bits, -Inf when nothing aligned.
func (ps *PathSet[C, X]) BestScore() float64 {
	if ps.Empty() {
		return math.Inf(-1)
	}
	return Bits(ps.ends[0].cost)
}

func unwind[C any](h *hyp[C]) []*hyp[C] {
	var hs []*hyp[C]
	for ; h != nil; h = h.prev {
		hs = append(hs, h)
	}
	slices.Reverse(hs)
	return hs
}

func (ps *PathSet[C, X]) path(h *hyp[C]) []C {
	hs := unwind(h)
	path := make([]C, len(hs))
	for i, x := range hs {
		if x.st != stD {
			path[i] = x.cur
		}
	}
	return path
}

func (ps *PathSet[C, X]) letters(path []C) string {
	s := make([]byte, 0, len(path))
	for _, c := range path {
		if !c.IsEmpty() {
			s = append(s, c.Letter(ps.ctx))
		}
	}
	return utils.Bytes2String(s)
}

func (ps *PathSet[C, X]) BestPath() []C {
	if ps.Empty() {
		return nil
	}
	return ps.path(ps.ends[0])
}

func (ps *PathSet[C, X]) BestPathString() string {
	return ps.letters(ps.BestPath())
}

func (ps *PathSet[C, X]) alignment(h *hyp[C]) Alignment[C] {
	al := Alignment[C]{Score: Bits(h.cost)}
	for _, x := range unwind(h) {
		if x.st != stM {
			continue
		}
		if al.HMMFrom == 0 {
			al.HMMFrom, al.First = x.i, x.cur
		}
		al.HMMTo, al.Last = x.i, x.cur
	}
	return al
}

func (ps *PathSet[C, X]) BestAlignment() (al Alignment[C], ok bool) {
	if ps.Empty() {
		return al, false
	}
	return ps.alignment(ps.ends[0]), true
}

// Alignments locates every kept end, best first.
func (ps *PathSet[C, X]) Alignments() []Alignment[C] {
	res := make([]Alignment[C], len(ps.ends))
	for i, h := range ps.ends {
		res[i] = ps.alignment(h)
	}
	return res
}

func emitted[C cursor.Cursor[C, X], X any](path []C) []C {
	res := make([]C, 0, len(path))
	for _, c := range path {
		if !c.IsEmpty() {
			res = append(res, c)
		}
	}
	return res
}

// TopK returns up to k best paths with distinct emitted cursors,
// equal scores keep the order the search produced them in.
func (ps *PathSet[C, X]) TopK(k int) []ScoredPath[C] {
	var res []ScoredPath[C]
	var seen [][]C
	for _, h := range ps.ends {
		if len(res) >= k {
			break
		}
		path := ps.path(h)
		key := emitted[C, X](path)
		dup := false
		for _, s := range seen {
			if slices.Equal(s, key) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, key)
		res = append(res, ScoredPath[C]{Path: path, Seq: ps.letters(path), Score: Bits(h.cost)})
	}
	return res
}
