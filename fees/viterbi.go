package fees

import (
	"container/heap"
	"math"
	"slices"
	"sort"

	"github.com/mudesheng/graphhmm/cursor"
)

type state uint8

const (
	stM state = iota
	stI
	stD
)

// hyp is one partial alignment ending in state st of node i at cursor cur.
type hyp[C any] struct {
	cost float64
	cur  C
	st   state
	i    int
	prev *hyp[C]
	seq  int
}

// layer keeps the best hypotheses per cursor, cells sorted by cost and
// cursors in discovery order.
type layer[C comparable] struct {
	keys  []C
	cells map[C][]*hyp[C]
	k     int
}

func newLayer[C comparable](k int) *layer[C] {
	return &layer[C]{cells: make(map[C][]*hyp[C]), k: k}
}

func insertSorted[C any](cell []*hyp[C], h *hyp[C], k int) ([]*hyp[C], bool) {
	idx := sort.Search(len(cell), func(i int) bool { return cell[i].cost > h.cost })
	if idx >= k {
		return cell, false
	}
	cell = slices.Insert(cell, idx, h)
	if len(cell) > k {
		cell = cell[:k]
	}
	return cell, true
}

func (l *layer[C]) push(h *hyp[C]) bool {
	if math.IsInf(h.cost, 1) || math.IsNaN(h.cost) {
		return false
	}
	cell, ok := l.cells[h.cur]
	if !ok {
		l.keys = append(l.keys, h.cur)
	}
	cell, kept := insertSorted(cell, h, l.k)
	l.cells[h.cur] = cell
	return kept
}

func (l *layer[C]) each(f func(h *hyp[C])) {
	for _, c := range l.keys {
		for _, h := range l.cells[c] {
			f(h)
		}
	}
}

type hypHeap[C any] []*hyp[C]

func (hh hypHeap[C]) Len() int { return len(hh) }
func (hh hypHeap[C]) Less(i, j int) bool {
	if hh[i].cost != hh[j].cost {
		return hh[i].cost < hh[j].cost
	}
	return hh[i].seq < hh[j].seq
}
func (hh hypHeap[C]) Swap(i, j int)       { hh[i], hh[j] = hh[j], hh[i] }
func (hh *hypHeap[C]) Push(x interface{}) { *hh = append(*hh, x.(*hyp[C])) }
func (hh *hypHeap[C]) Pop() interface{} {
	old := *hh
	h := old[len(old)-1]
	*hh = old[:len(old)-1]
	return h
}

type aligner[C cursor.Cursor[C, X], X any] struct {
	f       *Fees
	initial []C
	ctx     X
	k       int
	seq     int
	ends    []*hyp[C]
	endCap  int
}

func (a *aligner[C, X]) successors(c C) []C {
	if c.IsEmpty() {
		return a.initial
	}
	return c.Next(a.ctx)
}

func (a *aligner[C, X]) newHyp(cost float64, cur C, st state, i int, prev *hyp[C]) *hyp[C] {
	a.seq++
	return &hyp[C]{cost: cost, cur: cur, st: st, i: i, prev: prev, seq: a.seq}
}

func (a *aligner[C, X]) end(h *hyp[C]) {
	if h.cur.IsEmpty() || math.IsInf(h.cost, 1) {
		return
	}
	a.ends, _ = insertSorted(a.ends, h, a.endCap)
}

// match builds layer i of match states from the states of layer i-1.
func (a *aligner[C, X]) match(i int, pm, pi, pd *layer[C]) *layer[C] {
	f := a.f
	cur := newLayer[C](a.k)
	if i == 1 || f.Local {
		entry := f.trans[0][MM]
		if f.Local {
			entry = f.entry
		}
		for _, c := range a.initial {
			cur.push(a.newHyp(entry+f.MatchCost(i, c.Letter(a.ctx)), c, stM, i, nil))
		}
	}
	if i == 1 {
		return cur
	}
	step := func(src *layer[C], t int) {
		src.each(func(h *hyp[C]) {
			base := h.cost + f.trans[i-1][t]
			for _, n := range a.successors(h.cur) {
				cur.push(a.newHyp(base+f.MatchCost(i, n.Letter(a.ctx)), n, stM, i, h))
			}
		})
	}
	step(pm, MM)
	step(pi, IM)
	step(pd, DM)
	return cur
}

func (a *aligner[C, X]) delete(i int, pm, pd *layer[C]) *layer[C] {
	f := a.f
	cur := newLayer[C](a.k)
	if i == 1 {
		if !f.Local {
			var empty C
			cur.push(a.newHyp(f.trans[0][MD], empty, stD, i, nil))
		}
		return cur
	}
	pm.each(func(h *hyp[C]) {
		cur.push(a.newHyp(h.cost+f.trans[i-1][MD], h.cur, stD, i, h))
	})
	pd.each(func(h *hyp[C]) {
		cur.push(a.newHyp(h.cost+f.trans[i-1][DD], h.cur, stD, i, h))
	})
	return cur
}

// insert relaxes the insert states of node i in cost order, each cell
// accepts at most k hypotheses so cycles terminate.
func (a *aligner[C, X]) insert(i int, m *layer[C]) *layer[C] {
	f := a.f
	cur := newLayer[C](a.k)
	var hh hypHeap[C]
	m.each(func(h *hyp[C]) {
		for _, n := range h.cur.Next(a.ctx) {
			hh = append(hh, a.newHyp(h.cost+f.trans[i][MI]+f.InsertCost(i, n.Letter(a.ctx)), n, stI, i, h))
		}
	})
	heap.Init(&hh)
	for hh.Len() > 0 {
		h := heap.Pop(&hh).(*hyp[C])
		if !cur.push(h) {
			continue
		}
		for _, n := range h.cur.Next(a.ctx) {
			heap.Push(&hh, a.newHyp(h.cost+f.trans[i][II]+f.InsertCost(i, n.Letter(a.ctx)), n, stI, i, h))
		}
	}
	return cur
}

// FindBestPath aligns f against the cursor space entered through
// initial. The model is global unless f.Local, the space always local.
func FindBestPath[C cursor.Cursor[C, X], X any](f *Fees, initial []C, ctx X) *PathSet[C, X] {
	k := f.Hyps
	if k <= 0 {
		k = DefaultHyps
	}
	a := &aligner[C, X]{f: f, initial: initial, ctx: ctx, k: k, endCap: 4 * k}
	pm, pi, pd := newLayer[C](k), newLayer[C](k), newLayer[C](k)
	for i := 1; i <= f.M; i++ {
		m := a.match(i, pm, pi, pd)
		var d, ins *layer[C]
		if i < f.M || !f.Local {
			d = a.delete(i, pm, pd)
		} else {
			d = newLayer[C](k)
		}
		if i < f.M {
			ins = a.insert(i, m)
		} else {
			ins = newLayer[C](k)
		}
		if f.Local {
			m.each(a.end)
		}
		pm, pi, pd = m, ins, d
	}
	if !f.Local {
		pm.each(a.end)
		pd.each(a.end)
	}
	return &PathSet[C, X]{f: f, ctx: ctx, ends: a.ends}
}
