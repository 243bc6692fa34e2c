package pathracer

import (
	"fmt"
	"log"

	"github.com/mudesheng/graphhmm/component"
	"github.com/mudesheng/graphhmm/cursor"
	"github.com/mudesheng/graphhmm/fees"
	"github.com/mudesheng/graphhmm/graph"
	"golang.org/x/sync/errgroup"
)

// PathResult is one ranked alignment of a component. An empty Seq tells
// the writer to report the whole leader edge.
type PathResult struct {
	Leader uint32
	Rank   int
	Seq    string
	Path   []uint32
}

func (pr PathResult) WholeEdge() bool { return pr.Seq == "" }

// ComponentResult holds the ranked results of a component and its
// distinct edge paths in rank order.
type ComponentResult struct {
	Leader  uint32
	Results []PathResult
	Paths   [][]uint32
}

type Driver struct {
	g   *graph.Graph
	cfg Config
	lg  *log.Logger
}

func NewDriver(g *graph.Graph, cfg Config, lg *log.Logger) *Driver {
	return &Driver{g: g, cfg: cfg, lg: lg}
}

func (d *Driver) Config() Config { return d.cfg }

type (
	dbgContext  = cursor.OptimizedContext[cursor.DBG, *graph.Graph]
	dbgRestrict = cursor.OptimizedRestricted[cursor.DBG, *graph.Graph]
)

// Search aligns f over c. The bool is false when the component was
// skipped for its size.
func (d *Driver) Search(f *fees.Fees, c *component.Component) (ComponentResult, bool, error) {
	cr := ComponentResult{Leader: c.Leader}
	n := c.EdgeNum()
	if n < d.cfg.MinSize {
		path := []uint32{c.Leader}
		cr.Results = []PathResult{{Leader: c.Leader, Rank: 0, Seq: "", Path: path}}
		cr.Paths = [][]uint32{path}
		return cr, true, nil
	}
	if n > d.cfg.MaxSize {
		d.lg.Printf("[Search] WARN component of edge %d has %d edges, more than max_size %d, skipped\n", c.Leader, n, d.cfg.MaxSize)
		return cr, false, nil
	}
	if d.cfg.Debug {
		d.lg.Printf("[Search] component of edge %d: %d edges %d vertices\n", c.Leader, n, len(c.Vertices()))
	}
	if d.cfg.Draw {
		fn := fmt.Sprintf("%s%d.dot", d.cfg.OutputPrefix, c.Leader)
		if err := component.Draw(d.g, c, []uint32{c.Leader}, fn); err != nil {
			return cr, false, err
		}
	}

	glocal := *f
	glocal.Local = false
	glocal.Hyps = max(d.cfg.Top, fees.DefaultHyps)
	base := c.Cursors(d.g)
	octx := cursor.NewOptimizedContext(cursor.NewSpace(base), d.g)
	initial := cursor.MakeOptimizedRestricted[cursor.DBG, *graph.Graph](base)
	if f.Amino {
		aa := cursor.MakeAA[dbgRestrict, *dbgContext](initial, octx)
		cr.Results = searchComponent(d, &glocal, c.Leader, aa, octx)
	} else {
		cr.Results = searchComponent(d, &glocal, c.Leader, initial, octx)
	}

	seen := make(map[string]bool)
	for _, pr := range cr.Results {
		key := PathToString(pr.Path)
		if seen[key] {
			continue
		}
		seen[key] = true
		cr.Paths = append(cr.Paths, pr.Path)
		if d.cfg.Draw {
			fn := fmt.Sprintf("%s%d_%d.dot", d.cfg.OutputPrefix, c.Leader, len(cr.Paths)-1)
			if err := component.Draw(d.g, c, pr.Path, fn); err != nil {
				return cr, false, err
			}
		}
	}
	return cr, true, nil
}

func searchComponent[C cursor.Cursor[C, X], X any](d *Driver, f *fees.Fees, leader uint32, initial []C, ctx X) []PathResult {
	ps := fees.FindBestPath(f, initial, ctx)
	if ps.Empty() {
		d.lg.Printf("[Search] WARN no alignment in component of edge %d\n", leader)
		return nil
	}
	d.lg.Printf("[Search] edge %d best score %.2f path %s\n", leader, ps.BestScore(), ps.BestPathString())

	top := ps.TopK(d.cfg.Top)
	results := make([]PathResult, len(top))
	for i, sp := range top {
		path := ToPath[C, X](sp.Path)
		results[i] = PathResult{Leader: leader, Rank: i, Seq: sp.Seq, Path: path}
		if d.cfg.Debug {
			d.lg.Printf("[Search] edge %d rank %d score %.2f edges %s seq %s\n", leader, i, sp.Score, PathToString(path), sp.Seq)
		}
	}
	return results
}

// Components matches f against the graph and returns the merged
// neighbourhoods of the hits as components.
func (d *Driver) Components(f *fees.Fees) []*component.Component {
	matches := MatchedEdges(d.g, d.g.Edges(), f, d.cfg, d.lg)
	mult := component.Multiplier(f.Amino)
	nbrs := make([]component.Neighbourhood, len(matches))
	for i, m := range matches {
		nbrs[i] = component.Extract(d.g, m.Edge, m.Overhang, mult)
	}
	merged := component.Merge(nbrs)
	comps := make([]*component.Component, len(merged))
	for i, nb := range merged {
		comps[i] = component.FromNeighbourhood(d.g, nb)
	}
	d.lg.Printf("[Components] %d neighbourhoods merged into %d components\n", len(nbrs), len(comps))
	return comps
}

// Run searches every component of f on cfg.NumCPU workers. Results keep
// component order, skipped components are left out.
func (d *Driver) Run(f *fees.Fees) ([]ComponentResult, error) {
	comps := d.Components(f)
	slots := make([]ComponentResult, len(comps))
	kept := make([]bool, len(comps))
	var eg errgroup.Group
	eg.SetLimit(max(d.cfg.NumCPU, 1))
	for i, c := range comps {
		i, c := i, c
		eg.Go(func() error {
			cr, ok, err := d.Search(f, c)
			if err != nil {
				return err
			}
			slots[i], kept[i] = cr, ok
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	var results []ComponentResult
	for i, cr := range slots {
		if kept[i] {
			results = append(results, cr)
		}
	}
	return results, nil
}
