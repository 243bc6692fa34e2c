package cursor

import (
	"testing"

	"github.com/mudesheng/graphhmm/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fork builds v1 -A-> v2 with v2 -B-> v3 and v2 -C-> v4, k = 3.
func fork(t *testing.T) (g *graph.Graph, a, b, c uint32) {
	g = graph.NewGraph(3)
	v1, v2, v3, v4 := g.AddVertex(), g.AddVertex(), g.AddVertex(), g.AddVertex()
	var err error
	a, err = g.AddEdge(v1, v2, []byte("AACCG"))
	require.NoError(t, err)
	b, err = g.AddEdge(v2, v3, []byte("CCGTT"))
	require.NoError(t, err)
	c, err = g.AddEdge(v2, v4, []byte("CCGAA"))
	require.NoError(t, err)
	return
}

func TestDBGPositions(t *testing.T) {
	g, a, b, _ := fork(t)
	assert.Len(t, EdgeCursors(g, a), 5, "source edge keeps its leading k-mer")
	assert.Len(t, EdgeCursors(g, b), 2)
	assert.Equal(t, DBG{E: b, Pos: 3}, FirstCursor(g, b))
	assert.Equal(t, DBG{E: a, Pos: 4}, LastCursor(g, a))

	var s []byte
	cur := FirstCursor(g, a)
	for !cur.IsEmpty() {
		s = append(s, cur.Letter(g))
		var next DBG
		for _, n := range cur.Next(g) {
			if n.E == a || n.E == b {
				next = n
			}
		}
		cur = next
	}
	assert.Equal(t, "AACCGTT", string(s))
	assert.Len(t, LastCursor(g, a).Next(g), 2)
	assert.Empty(t, FirstCursor(g, a).Prev(g))
	assert.Empty(t, DBG{}.Next(g))
	assert.Nil(t, DBG{}.Edges())
}

func TestNextPrevDuality(t *testing.T) {
	g, _, _, _ := fork(t)
	all := AllCursors(g, g.Edges())
	for _, c := range all {
		for _, n := range c.Next(g) {
			assert.Contains(t, n.Prev(g), c, "next %v of %v", n, c)
		}
		for _, p := range c.Prev(g) {
			assert.Contains(t, p.Next(g), c, "prev %v of %v", p, c)
		}
	}

	lctx := &LinearContext{Seq: []byte("ACGT")}
	for _, c := range LinearCursors(lctx) {
		for _, n := range c.Next(lctx) {
			assert.Contains(t, n.Prev(lctx), c)
		}
	}
	assert.Empty(t, Linear{I: 1}.Prev(lctx))
	assert.Empty(t, Linear{I: 4}.Next(lctx))
	assert.Equal(t, byte('G'), Linear{I: 3}.Letter(lctx))
	assert.Equal(t, 2, Linear{I: 3}.Index())
}

func TestReversal(t *testing.T) {
	g, a, b, c := fork(t)
	r := Reversal[DBG, *graph.Graph]{Base: FirstCursor(g, b)}
	assert.Equal(t, []Reversal[DBG, *graph.Graph]{{Base: LastCursor(g, a)}}, r.Next(g))

	r = Reversal[DBG, *graph.Graph]{Base: LastCursor(g, a)}
	prev := r.Prev(g)
	require.Len(t, prev, 2)
	assert.ElementsMatch(t, []DBG{FirstCursor(g, b), FirstCursor(g, c)}, []DBG{prev[0].Base, prev[1].Base})
	assert.Equal(t, byte('G'), r.Letter(g))
	assert.Equal(t, []uint32{a}, r.Edges())
	assert.True(t, Reversal[DBG, *graph.Graph]{}.IsEmpty())

	for _, rc := range MakeReversal[DBG, *graph.Graph](AllCursors(g, g.Edges())) {
		for _, n := range rc.Next(g) {
			assert.Contains(t, n.Prev(g), rc)
		}
	}
}

func TestRestrictionClosure(t *testing.T) {
	g, a, b, c := fork(t)
	inside := AllCursors(g, []uint32{a, b})
	space := NewSpace(inside)
	assert.Equal(t, 7, space.Len())
	assert.False(t, space.Contains(FirstCursor(g, c)))

	for _, r := range MakeRestricted[DBG, *graph.Graph](inside, space) {
		for _, n := range append(r.Next(g), r.Prev(g)...) {
			assert.True(t, space.Contains(n.Base), "%v left the space", n.Base)
		}
	}
	r := NewRestricted[DBG, *graph.Graph](LastCursor(g, a), space)
	next := r.Next(g)
	require.Len(t, next, 1)
	assert.Equal(t, FirstCursor(g, b), next[0].Base)

	var nilSpace *Space[DBG]
	assert.False(t, nilSpace.Contains(FirstCursor(g, a)))
	assert.Zero(t, nilSpace.Len())
}

func TestOptimizedMatchesRestricted(t *testing.T) {
	g, a, _, c := fork(t)
	inside := AllCursors(g, []uint32{a, c, g.Conjugate(c)})
	space := NewSpace(inside)
	octx := NewOptimizedContext(space, g)

	for _, base := range inside {
		r := NewRestricted[DBG, *graph.Graph](base, space)
		o := OptimizedRestricted[DBG, *graph.Graph]{Base: base}
		var rn, on []DBG
		for _, n := range r.Next(g) {
			rn = append(rn, n.Base)
		}
		for _, n := range o.Next(octx) {
			on = append(on, n.Base)
		}
		assert.Equal(t, rn, on)

		rn, on = nil, nil
		for _, p := range r.Prev(g) {
			rn = append(rn, p.Base)
		}
		for _, p := range o.Prev(octx) {
			on = append(on, p.Base)
		}
		assert.Equal(t, rn, on)
		assert.Equal(t, r.Letter(g), o.Letter(octx))
		assert.Equal(t, r.Edges(), o.Edges())
	}
	assert.Len(t, MakeOptimizedRestricted[DBG, *graph.Graph](inside), len(inside))
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, byte('M'), Translate('A', 'T', 'G'))
	assert.Equal(t, byte('*'), Translate('T', 'A', 'A'))
	assert.Equal(t, byte('W'), Translate('u', 'g', 'g'))
	assert.Equal(t, byte('X'), Translate('A', 'N', 'G'))
	assert.Equal(t, "MA*", string(TranslateSeq([]byte("ATGGCCTAAN"))))
}

func TestAACursor(t *testing.T) {
	lctx := &LinearContext{Seq: []byte("ATGGCCTAA")}
	codons := MakeAA[Linear, *LinearContext](LinearCursors(lctx), lctx)
	require.Len(t, codons, 7)

	var prot []byte
	cur := codons[0]
	for !cur.IsEmpty() {
		prot = append(prot, cur.Letter(lctx))
		next := cur.Next(lctx)
		if len(next) == 0 {
			break
		}
		assert.Contains(t, next[0].Prev(lctx), cur)
		cur = next[0]
	}
	assert.Equal(t, "MA*", string(prot))

	g, a, b, c := fork(t)
	aa := MakeAA[DBG, *graph.Graph]([]DBG{{E: a, Pos: 3}}, g)
	require.Len(t, aa, 2)
	assert.Equal(t, []uint32{a, b}, aa[0].Edges())
	assert.Equal(t, byte('R'), aa[0].Letter(g), "CGT")
	assert.Equal(t, []uint32{a, c}, aa[1].Edges())
	assert.Equal(t, byte('R'), aa[1].Letter(g), "CGA")
	assert.Nil(t, AA[DBG, *graph.Graph]{}.Edges())
}

func TestReachMonotone(t *testing.T) {
	g, a, _, _ := fork(t)
	start := []DBG{FirstCursor(g, a)}
	assert.Empty(t, Reach[DBG, *graph.Graph](start, g, 0))

	r3 := Reach[DBG, *graph.Graph](start, g, 3)
	assert.Equal(t, map[DBG]int{{E: a, Pos: 0}: 1, {E: a, Pos: 1}: 2, {E: a, Pos: 2}: 3}, r3)

	prev := r3
	for budget := 4; budget < 10; budget++ {
		cur := Reach[DBG, *graph.Graph](start, g, budget)
		for c, d := range prev {
			assert.Equal(t, d, cur[c])
		}
		assert.GreaterOrEqual(t, len(cur), len(prev))
		prev = cur
	}
	assert.Len(t, prev, 9, "every forward cursor reachable from A")
}

func checkDuality[C Cursor[C, X], X any](t *testing.T, cs []C, ctx X) {
	t.Helper()
	for _, c := range cs {
		for _, n := range c.Next(ctx) {
			assert.Contains(t, n.Prev(ctx), c, "next %v of %v", n, c)
		}
		for _, p := range c.Prev(ctx) {
			assert.Contains(t, p.Next(ctx), c, "prev %v of %v", p, c)
		}
	}
}

type dbgAA = AA[DBG, *graph.Graph]

func TestAAComposition(t *testing.T) {
	g, a, b, _ := fork(t)
	codons := MakeAA[DBG, *graph.Graph](AllCursors(g, g.Edges()), g)
	require.NotEmpty(t, codons)
	checkDuality(t, codons, g)

	// translation outside, reversal inside
	rev := MakeAA[Reversal[DBG, *graph.Graph], *graph.Graph](MakeReversal[DBG, *graph.Graph](AllCursors(g, g.Edges())), g)
	require.NotEmpty(t, rev)
	checkDuality(t, rev, g)

	// reversal outside, translation inside
	revAA := MakeReversal[dbgAA, *graph.Graph](codons)
	checkDuality(t, revAA, g)
	for i, r := range revAA {
		assert.Equal(t, codons[i].Prev(g), baseOf(r.Next(g)))
		assert.Equal(t, codons[i].Letter(g), r.Letter(g))
	}

	inside := AllCursors(g, []uint32{a, b})
	dbgSpace := NewSpace(inside)
	inSpace := func(x dbgAA) bool {
		return dbgSpace.Contains(x.C0) && dbgSpace.Contains(x.C1) && dbgSpace.Contains(x.C2)
	}

	// restriction outside, translation inside
	var kept []dbgAA
	for _, x := range codons {
		if inSpace(x) {
			kept = append(kept, x)
		}
	}
	aaSpace := NewSpace(kept)
	outer := MakeRestricted[dbgAA, *graph.Graph](kept, aaSpace)
	checkDuality(t, outer, g)
	for _, r := range outer {
		for _, n := range append(r.Next(g), r.Prev(g)...) {
			assert.True(t, aaSpace.Contains(n.Base), "%v left the space", n.Base)
		}
	}

	// translation outside, restriction inside
	inner := MakeAA[Restricted[DBG, *graph.Graph], *graph.Graph](MakeRestricted[DBG, *graph.Graph](inside, dbgSpace), g)
	checkDuality(t, inner, g)
	var flat []dbgAA
	for _, x := range inner {
		y := dbgAA{C0: x.C0.Base, C1: x.C1.Base, C2: x.C2.Base}
		assert.Equal(t, y.Letter(g), x.Letter(g))
		flat = append(flat, y)
		for _, n := range append(x.Next(g), x.Prev(g)...) {
			assert.Subset(t, []uint32{a, b}, n.Edges())
		}
	}
	assert.ElementsMatch(t, kept, flat, "both orders see the same codons")
}

func baseOf[C Cursor[C, X], X any](rs []Reversal[C, X]) []C {
	var res []C
	for _, r := range rs {
		res = append(res, r.Base)
	}
	return res
}
