package pathracer

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/graphhmm/component"
	"github.com/mudesheng/graphhmm/fees"
	"github.com/mudesheng/graphhmm/graph"
	"github.com/mudesheng/graphhmm/utils"
	"github.com/pkg/errors"
)

type Options struct {
	utils.ArgsOpt
	HMMFn   string
	GraphFn string
}

func intFlag(c cli.Command, name string) (int, error) {
	v, ok := c.Flag(name).Get().(int)
	if !ok {
		return 0, errors.Errorf("[checkArgs] argument '%s': %v set error", name, c.Flag(name))
	}
	return v, nil
}

func boolFlag(c cli.Command, name string) (bool, error) {
	v, ok := c.Flag(name).Get().(bool)
	if !ok {
		return false, errors.Errorf("[checkArgs] argument '%s': %v set error, must set true|false", name, c.Flag(name))
	}
	return v, nil
}

// checkArgs lays the flags that differ from their default over cfg.
func checkArgs(c cli.Command, cfg *Config) (opt Options, err error) {
	def := DefaultConfig()
	opt.HMMFn = c.Flag("hmm").String()
	opt.GraphFn = c.Flag("graph").String()
	if opt.HMMFn == "" || opt.GraphFn == "" {
		return opt, errors.Errorf("[checkArgs] arguments 'hmm' and 'graph' must be set")
	}
	for _, f := range []struct {
		name string
		def  int
		dst  *int
	}{
		{"top", def.Top, &cfg.Top},
		{"min_size", def.MinSize, &cfg.MinSize},
		{"max_size", def.MaxSize, &cfg.MaxSize},
		{"gene_min_len", def.GeneMinEdgeLen, &cfg.GeneMinEdgeLen},
	} {
		v, err := intFlag(c, f.name)
		if err != nil {
			return opt, err
		}
		if v != f.def {
			*f.dst = v
		}
	}
	eid, err := intFlag(c, "edge_id")
	if err != nil {
		return opt, err
	}
	if eid < 0 {
		return opt, errors.Errorf("[checkArgs] argument 'edge_id': %d must not be negative", eid)
	}
	if eid != 0 {
		cfg.EdgeID = uint32(eid)
	}
	if t, ok := c.Flag("T").Get().(float64); !ok {
		return opt, errors.Errorf("[checkArgs] argument 'T': %v set error", c.Flag("T"))
	} else if t != def.MinScore {
		cfg.MinScore = t
	}
	for _, f := range []struct {
		name string
		def  bool
		dst  *bool
	}{
		{"debug", def.Debug, &cfg.Debug},
		{"draw", def.Draw, &cfg.Draw},
		{"save", def.Save, &cfg.Save},
		{"rescore", def.Rescore, &cfg.Rescore},
	} {
		v, err := boolFlag(c, f.name)
		if err != nil {
			return opt, err
		}
		if v != f.def {
			*f.dst = v
		}
	}
	return opt, cfg.Validate()
}

// applyGlobal lays the global flags that differ from their default
// over cfg.
func applyGlobal(gOpt utils.ArgsOpt, cfg *Config) {
	if gOpt.Prefix != "" {
		cfg.OutputPrefix = gOpt.Prefix
	}
	if gOpt.NumCPU != DefaultConfig().NumCPU {
		cfg.NumCPU = gOpt.NumCPU
	}
}

func startProfile(fn string) func() {
	if fn == "" {
		return func() {}
	}
	fp, err := os.Create(fn)
	if err != nil {
		log.Fatalf("[startProfile] open cpuprofile file: %v failed\n", fn)
	}
	pprof.StartCPUProfile(fp)
	return func() {
		pprof.StopCPUProfile()
		fp.Close()
	}
}

// HMM aligns every model of the hmm file against the graph.
func HMM(c cli.Command) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if !suc {
		log.Fatalf("[HMM] check global Arguments error, opt: %v\n", gOpt)
	}
	cfg, err := LoadConfig(gOpt.CfgFn)
	if err != nil {
		log.Fatalf("[HMM] %v\n", err)
	}
	applyGlobal(gOpt, &cfg)
	opt, err := checkArgs(c, &cfg)
	if err != nil {
		log.Fatalf("[HMM] check Arguments error: %v\n", err)
	}
	opt.ArgsOpt = gOpt
	defer startProfile(opt.Cpuprofile)()
	runtime.GOMAXPROCS(cfg.NumCPU + 1)
	lg := log.New(os.Stderr, "", log.LstdFlags)
	lg.Printf("[HMM] opt: %+v cfg: %+v\n", opt, cfg)

	if err := Process(opt, cfg, lg); err != nil {
		log.Fatalf("[HMM] %v\n", err)
	}
}

// Process runs the search of every model in opt.HMMFn in file order.
func Process(opt Options, cfg Config, lg *log.Logger) error {
	t0 := time.Now()
	g, err := graph.ReadGraph(opt.GraphFn, opt.Kmer)
	if err != nil {
		return err
	}
	lg.Printf("[Process] graph %s: %d nodes %d edges, load used: %v\n", opt.GraphFn, g.NodeNum(), g.EdgeNum(), time.Since(t0))

	hf, err := fees.OpenHMMFile(opt.HMMFn)
	if err != nil {
		return err
	}
	defer hf.Close()
	d := NewDriver(g, cfg, lg)
	for {
		h, err := hf.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "[Process] %s", opt.HMMFn)
		}
		t1 := time.Now()
		f := fees.FeesFromHMM(h)
		results, err := d.Run(f)
		if err != nil {
			return errors.Wrapf(err, "[Process] model %s", h.Name)
		}
		if err := d.Report(h.Name, f.Amino, results); err != nil {
			return err
		}
		lg.Printf("[Process] model %s (%d nodes, %s) done, %d components, used: %v\n", h.Name, h.M, h.Alphabet, len(results), time.Since(t1))
	}
	return nil
}

// Nbr draws the neighbourhood of one edge.
func Nbr(c cli.Command) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if !suc {
		log.Fatalf("[Nbr] check global Arguments error, opt: %v\n", gOpt)
	}
	graphfn := c.Flag("graph").String()
	eid, err := intFlag(c, "edge_id")
	if err != nil || eid < int(graph.MinID) {
		log.Fatalf("[Nbr] argument 'edge_id': %v set error\n", c.Flag("edge_id"))
	}
	left, err1 := intFlag(c, "left")
	right, err2 := intFlag(c, "right")
	amino, err3 := boolFlag(c, "amino")
	if err1 != nil || err2 != nil || err3 != nil {
		log.Fatalf("[Nbr] check Arguments error: %v %v %v\n", err1, err2, err3)
	}
	g, err := graph.ReadGraph(graphfn, gOpt.Kmer)
	if err != nil {
		log.Fatalf("[Nbr] %v\n", err)
	}
	e := uint32(eid)
	if g.Edge(e) == nil {
		log.Fatalf("[Nbr] edge %d not in graph %s\n", e, graphfn)
	}
	nb := component.Extract(g, e, component.Overhang{Left: left, Right: right}, component.Multiplier(amino))
	comp := component.FromNeighbourhood(g, nb)
	fn := fmt.Sprintf("%snbr_%d.dot", gOpt.Prefix, e)
	if err := component.Draw(g, comp, []uint32{e}, fn); err != nil {
		log.Fatalf("[Nbr] %v\n", err)
	}
	log.Printf("[Nbr] edge %d: %d vertices %d edges written to %s\n", e, len(nb.Vertices), comp.EdgeNum(), fn)
}
