package pathracer

import (
	"bytes"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mudesheng/graphhmm/component"
	"github.com/mudesheng/graphhmm/cursor"
	"github.com/mudesheng/graphhmm/fees"
	"github.com/mudesheng/graphhmm/graph"
	"github.com/mudesheng/graphhmm/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consensusFees(cons string, alpha fees.Alphabet) *fees.Fees {
	return fees.FeesFromHMM(fees.ConsensusHMM("toy", cons, alpha, 0.97))
}

type fixture struct {
	g       *graph.Graph
	v       [5]uint32
	a, b, c uint32
}

// fork spells the model ACGTTGCATCCGAT along A then B, C branches off
// after A. k = 3.
func fork(t *testing.T) *fixture {
	f := &fixture{g: graph.NewGraph(3)}
	for i := 1; i <= 4; i++ {
		f.v[i] = f.g.AddVertex()
	}
	add := func(s, e uint32, seq string) uint32 {
		id, err := f.g.AddEdge(s, e, []byte(seq))
		require.NoError(t, err)
		return id
	}
	f.a = add(f.v[1], f.v[2], "ACGTTGCA")
	f.b = add(f.v[2], f.v[3], "GCATCCGAT")
	f.c = add(f.v[2], f.v[4], "GCAGGGGGG")
	return f
}

func testLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func TestWholeEdgeSentinel(t *testing.T) {
	g := graph.NewGraph(21)
	s, e := g.AddVertex(), g.AddVertex()
	seq := make([]byte, 71)
	rng := rand.New(rand.NewSource(1))
	for i := range seq {
		seq[i] = "ACGT"[rng.Intn(4)]
	}
	leader, err := g.AddEdge(s, e, seq)
	require.NoError(t, err)
	require.Equal(t, 50, g.Length(leader))

	lg, _ := testLogger()
	d := NewDriver(g, DefaultConfig(), lg)
	c := component.FromVertices(g, leader, []uint32{s, e}, true)
	require.Equal(t, 1, c.EdgeNum())

	// a nil model proves the aligner is never reached
	cr, ok, err := d.Search(nil, c)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, cr.Results, 1)
	assert.Equal(t, PathResult{Leader: leader, Rank: 0, Seq: "", Path: []uint32{leader}}, cr.Results[0])
	assert.True(t, cr.Results[0].WholeEdge())
	assert.Equal(t, [][]uint32{{leader}}, cr.Paths)
}

func TestOversizedComponentSkipped(t *testing.T) {
	f := fork(t)
	cfg := DefaultConfig()
	cfg.MaxSize = 2
	lg, buf := testLogger()
	d := NewDriver(f.g, cfg, lg)
	c := component.FromVertices(f.g, f.a, []uint32{f.v[1], f.v[2], f.v[3], f.v[4]}, true)
	_, ok, err := d.Search(nil, c)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "WARN")
}

func TestSearchDrawsDistinctPaths(t *testing.T) {
	fx := fork(t)
	cfg := DefaultConfig()
	cfg.Top = 6
	cfg.Draw = true
	cfg.OutputPrefix = filepath.Join(t.TempDir(), "draw_")
	lg, _ := testLogger()
	d := NewDriver(fx.g, cfg, lg)
	model := consensusFees("ACGTTGCATCCGAT", fees.DNA)
	c := component.FromVertices(fx.g, fx.a, []uint32{fx.v[1], fx.v[2], fx.v[3], fx.v[4]}, true)

	cr, ok, err := d.Search(model, c)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, cr.Paths)
	assert.LessOrEqual(t, len(cr.Paths), len(cr.Results))
	for i := range cr.Paths {
		assert.FileExists(t, fmt.Sprintf("%s%d_%d.dot", cfg.OutputPrefix, fx.a, i))
	}
	assert.NoFileExists(t, fmt.Sprintf("%s%d_%d.dot", cfg.OutputPrefix, fx.a, len(cr.Paths)))
	assert.FileExists(t, fmt.Sprintf("%s%d.dot", cfg.OutputPrefix, fx.a))
}

func TestToPathCollapse(t *testing.T) {
	f := fork(t)
	g := f.g
	withEmpty := []cursor.DBG{{E: f.a, Pos: 6}, {}, {E: f.a, Pos: 7}, {}, {}, cursor.FirstCursor(g, f.b)}
	plain := []cursor.DBG{{E: f.a, Pos: 6}, {E: f.a, Pos: 7}, cursor.FirstCursor(g, f.b)}
	assert.Equal(t, ToPath[cursor.DBG, *graph.Graph](plain), ToPath[cursor.DBG, *graph.Graph](withEmpty))
	assert.Equal(t, []uint32{f.a, f.b}, ToPath[cursor.DBG, *graph.Graph](withEmpty))
	assert.Nil(t, ToPath[cursor.DBG, *graph.Graph](nil))
}

func TestMergeSequences(t *testing.T) {
	f := fork(t)
	seq := MergeSequences(f.g, []uint32{f.a, f.b})
	assert.Equal(t, "ACGTTGCATCCGAT", string(seq))
	assert.Equal(t, f.g.Length(f.a)+f.g.Length(f.b)+f.g.K, len(seq))
	assert.Equal(t, "GCAGGGGGG", string(MergeSequences(f.g, []uint32{f.c})))
	assert.Nil(t, MergeSequences(f.g, nil))
	assert.Panics(t, func() { MergeSequences(f.g, []uint32{f.b, f.a}) })
	assert.Panics(t, func() { MergeSequences(f.g, []uint32{f.b, f.c}) })
}

func TestPathToString(t *testing.T) {
	assert.Equal(t, "", PathToString(nil))
	assert.Equal(t, "2_4_6", PathToString([]uint32{2, 4, 6}))
}

func TestMatchedEdges(t *testing.T) {
	f := fork(t)
	cfg := DefaultConfig()
	cfg.MinScore = 3
	cfg.NumCPU = 2
	lg, _ := testLogger()
	model := consensusFees("ACGTTGCATCCGAT", fees.DNA)

	matches := MatchedEdges(f.g, f.g.Edges(), model, cfg, lg)
	require.Len(t, matches, 2)
	assert.Equal(t, f.a, matches[0].Edge)
	assert.Equal(t, component.Overhang{Left: 0, Right: 6}, matches[0].Overhang)
	assert.Equal(t, f.b, matches[1].Edge)
	assert.Equal(t, component.Overhang{Left: 5, Right: 0}, matches[1].Overhang)
	assert.False(t, model.Local, "the caller's model is not modified")

	cfg.EdgeID = f.b
	matches = MatchedEdges(f.g, f.g.Edges(), model, cfg, lg)
	require.Len(t, matches, 1)
	assert.Equal(t, f.b, matches[0].Edge)
}

func TestMatchEdgeKeepsEveryHit(t *testing.T) {
	g := graph.NewGraph(3)
	s, e := g.AddVertex(), g.AddVertex()
	// model nodes 6..14 open the edge, nodes 1..10 close it
	leader, err := g.AddEdge(s, e, []byte("GCATCCGAT"+"GGGG"+"ACGTTGCATC"))
	require.NoError(t, err)
	model := consensusFees("ACGTTGCATCCGAT", fees.DNA)
	model.Local = true

	lctx := &cursor.LinearContext{Seq: g.Seq(leader)}
	best, ok := fees.FindBestPath(model, cursor.LinearCursors(lctx), lctx).BestAlignment()
	require.True(t, ok)
	assert.Equal(t, 1, best.HMMFrom)
	assert.Equal(t, cursor.Linear{I: 14}, best.First)

	m, ok := matchEdge(g, leader, model, 5)
	require.True(t, ok)
	assert.Equal(t, component.Overhang{Left: 5, Right: 4}, m.Overhang)
	assert.InDelta(t, best.Score, m.Score, 1e-9)

	_, ok = matchEdge(g, leader, model, best.Score+1)
	assert.False(t, ok)
}

func TestMatchEdgeAminoFrame(t *testing.T) {
	g := graph.NewGraph(3)
	s, e := g.AddVertex(), g.AddVertex()
	// ATG GCC AAA in the second frame
	leader, err := g.AddEdge(s, e, []byte("CATGGCCAAAT"))
	require.NoError(t, err)
	model := consensusFees("MAK", fees.Amino)
	model.Local = true

	m, ok := matchEdge(g, leader, model, 8)
	require.True(t, ok)
	assert.Equal(t, component.Overhang{}, m.Overhang)
	assert.Greater(t, m.Score, 8.0)
}

func TestOverhangs(t *testing.T) {
	assert.Equal(t, component.Overhang{Left: 4, Right: 0}, overhangs(20, 5, 20, 1, 30, 30))
	assert.Equal(t, component.Overhang{Left: 0, Right: 7}, overhangs(20, 1, 10, 3, 12, 15))
}

func TestOptimizedMatchesPlainRestriction(t *testing.T) {
	fx := fork(t)
	g := fx.g
	cfg := DefaultConfig()
	lg, _ := testLogger()
	d := NewDriver(g, cfg, lg)
	model := consensusFees("ACGTTGCATCCGAT", fees.DNA)

	c := component.FromVertices(g, fx.a, []uint32{fx.v[1], fx.v[2], fx.v[3], fx.v[4]}, true)
	base := c.Cursors(g)
	space := cursor.NewSpace(base)
	plain := searchComponent(d, model, fx.a, cursor.MakeRestricted[cursor.DBG, *graph.Graph](base, space), g)
	octx := cursor.NewOptimizedContext(space, g)
	opt := searchComponent(d, model, fx.a, cursor.MakeOptimizedRestricted[cursor.DBG, *graph.Graph](base), octx)
	require.NotEmpty(t, plain)
	assert.Equal(t, plain, opt)
}

func TestRunAndReport(t *testing.T) {
	fx := fork(t)
	cfg := DefaultConfig()
	cfg.MinScore = 3
	cfg.Debug = true
	cfg.GeneMinEdgeLen = 2
	cfg.OutputPrefix = filepath.Join(t.TempDir(), "out_")
	lg, buf := testLogger()
	d := NewDriver(fx.g, cfg, lg)
	model := consensusFees("ACGTTGCATCCGAT", fees.DNA)

	results, err := d.Run(model)
	require.NoError(t, err)
	require.Len(t, results, 1)
	cr := results[0]
	assert.Equal(t, fx.a, cr.Leader)
	require.NotEmpty(t, cr.Results)
	assert.Equal(t, "ACGTTGCATCCGAT", cr.Results[0].Seq)
	assert.Equal(t, []uint32{fx.a, fx.b}, cr.Results[0].Path)
	assert.Equal(t, []uint32{fx.a, fx.b}, cr.Paths[0])
	for i, pr := range cr.Results {
		assert.Equal(t, i, pr.Rank)
	}
	for i := range cr.Paths {
		for j := 0; j < i; j++ {
			assert.NotEqual(t, cr.Paths[i], cr.Paths[j])
		}
	}
	assert.Contains(t, buf.String(), "best score")

	require.NoError(t, d.Report(model.Name, model.Amino, results))
	data, err := os.ReadFile(ResultFileName(cfg.OutputPrefix, "toy"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), ">2_0\nACGTTGCATCCGAT\n"), string(data))

	data, err = os.ReadFile(RescoreFileName(cfg.OutputPrefix, "toy"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), ">2_4 gene=0\nACGTTGCATCCGAT\n"), string(data))
}

func TestAminoSearch(t *testing.T) {
	g := graph.NewGraph(3)
	s, e := g.AddVertex(), g.AddVertex()
	leader, err := g.AddEdge(s, e, []byte("CATGGCCAAAT"))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.MinSize = 0
	lg, _ := testLogger()
	d := NewDriver(g, cfg, lg)
	model := consensusFees("MAK", fees.Amino)
	require.True(t, model.Amino)

	cr, ok, err := d.Search(model, component.FromVertices(g, leader, []uint32{s, e}, true))
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, cr.Results)
	assert.Equal(t, "MAK", cr.Results[0].Seq)
	assert.Equal(t, []uint32{leader}, cr.Results[0].Path)
}

func TestDedupAndJoinGenes(t *testing.T) {
	fx := fork(t)
	g := fx.g
	results := []ComponentResult{
		{Leader: fx.a, Paths: [][]uint32{{fx.a, fx.b}, {fx.a, fx.c}}},
		{Leader: fx.c, Paths: [][]uint32{{fx.a, fx.b}, {fx.c}}},
	}
	paths := DedupPaths(results)
	assert.Equal(t, [][]uint32{{fx.a, fx.b}, {fx.a, fx.c}, {fx.c}}, paths)

	assert.Equal(t, []int{0, 0, 0}, JoinGenes(g, paths, 2))
	assert.Equal(t, []int{0, 1, 2}, JoinGenes(g, paths, 10))

	strands := [][]uint32{{fx.b}, {g.Conjugate(fx.b)}, {fx.a}}
	assert.Equal(t, []int{0, 0, 1}, JoinGenes(g, strands, 2))
}

func TestWriteRescoreMismatch(t *testing.T) {
	fx := fork(t)
	err := WriteRescore(filepath.Join(t.TempDir(), "x.fa"), fx.g, [][]uint32{{fx.a}}, nil)
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	fn := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("top: 3\ndebug: true\nmin_score: 12.5\n"), 0644))
	cfg, err = LoadConfig(fn)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Top)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 12.5, cfg.MinScore)
	assert.Equal(t, 1000, cfg.MaxSize)

	t.Setenv(envTop, "7")
	t.Setenv(envPrefix, "run_")
	cfg, err = LoadConfig(fn)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Top)
	assert.Equal(t, "run_", cfg.OutputPrefix)

	t.Setenv(envMaxSize, "many")
	_, err = LoadConfig(fn)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := DefaultConfig()
	bad.MaxSize = 1
	assert.Error(t, bad.Validate())
	bad = DefaultConfig()
	bad.Top = 0
	assert.Error(t, bad.Validate())
}

func TestApplyGlobal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumCPU = 8
	cfg.OutputPrefix = "cfg_"
	applyGlobal(utils.ArgsOpt{NumCPU: 1}, &cfg)
	assert.Equal(t, 8, cfg.NumCPU, "default -t keeps the configured threads")
	assert.Equal(t, "cfg_", cfg.OutputPrefix)

	applyGlobal(utils.ArgsOpt{NumCPU: 4, Prefix: "flag_"}, &cfg)
	assert.Equal(t, 4, cfg.NumCPU)
	assert.Equal(t, "flag_", cfg.OutputPrefix)
}

func TestProcess(t *testing.T) {
	fx := fork(t)
	dir := t.TempDir()
	graphfn := filepath.Join(dir, "g.fa.zst")
	require.NoError(t, graph.WriteGraph(graphfn, fx.g))

	hmmfn := filepath.Join(dir, "models.hmm")
	var sb strings.Builder
	require.NoError(t, fees.WriteHMM(&sb, fees.ConsensusHMM("fwd", "ACGTTGCATCCGAT", fees.DNA, 0.97)))
	require.NoError(t, fees.WriteHMM(&sb, fees.ConsensusHMM("none", "TTTTTTTTTTTTTT", fees.DNA, 0.97)))
	require.NoError(t, os.WriteFile(hmmfn, []byte(sb.String()), 0644))

	cfg := DefaultConfig()
	cfg.MinScore = 3
	cfg.OutputPrefix = filepath.Join(dir, "run_")
	opt := Options{HMMFn: hmmfn, GraphFn: graphfn}
	opt.Kmer = 3
	lg, buf := testLogger()
	require.NoError(t, Process(opt, cfg, lg))
	assert.Contains(t, buf.String(), "model fwd")

	data, err := os.ReadFile(ResultFileName(cfg.OutputPrefix, "fwd"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ACGTTGCATCCGAT")
	data, err = os.ReadFile(RescoreFileName(cfg.OutputPrefix, "none"))
	require.NoError(t, err)
	assert.Empty(t, data)

	opt.HMMFn = filepath.Join(dir, "missing.hmm")
	assert.Error(t, Process(opt, cfg, lg))
}
