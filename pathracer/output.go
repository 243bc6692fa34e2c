package pathracer

import (
	"bufio"
	"fmt"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/cespare/xxhash"
	"github.com/mudesheng/graphhmm/graph"
	"github.com/mudesheng/graphhmm/utils"
	"github.com/pkg/errors"
)

const (
	fastaWidth = 60
	wholeEdge  = "(whole edge)"
)

func ResultFileName(prefix, model string) string {
	return prefix + "graph-hmm-" + model + ".fa"
}

func RescoreFileName(prefix, model string) string {
	return prefix + "graph-hmm-" + model + ".edges.fa"
}

type fastaFile struct {
	fp *os.File
	bw *bufio.Writer
	w  *fasta.Writer
}

func createFasta(fn string) (*fastaFile, error) {
	fp, err := os.Create(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "[createFasta] create file %s", fn)
	}
	bw := bufio.NewWriterSize(fp, 1<<16)
	return &fastaFile{fp: fp, bw: bw, w: fasta.NewWriter(bw, fastaWidth)}, nil
}

func (ff *fastaFile) write(id, desc string, seq []byte, alpha alphabet.Alphabet) error {
	s := linear.NewSeq(id, alphabet.BytesToLetters(seq), alpha)
	s.Desc = desc
	_, err := ff.w.Write(s)
	return err
}

func (ff *fastaFile) Close() error {
	if err := ff.bw.Flush(); err != nil {
		ff.fp.Close()
		return err
	}
	return ff.fp.Close()
}

// WriteResults writes every ranked path as <leader>_<rank>. Whole-edge
// results carry the leader edge sequence.
func WriteResults(fn string, g *graph.Graph, results []ComponentResult, amino bool) error {
	ff, err := createFasta(fn)
	if err != nil {
		return err
	}
	var alpha alphabet.Alphabet = alphabet.DNA
	if amino {
		alpha = alphabet.Protein
	}
	for _, cr := range results {
		for _, pr := range cr.Results {
			id := fmt.Sprintf("%d_%d", pr.Leader, pr.Rank)
			if pr.WholeEdge() {
				err = ff.write(id, wholeEdge, g.Seq(pr.Leader), alphabet.DNA)
			} else {
				err = ff.write(id, "", []byte(pr.Seq), alpha)
			}
			if err != nil {
				ff.Close()
				return errors.Wrapf(err, "[WriteResults] write %s", fn)
			}
		}
	}
	return errors.Wrapf(ff.Close(), "[WriteResults] close %s", fn)
}

// DedupPaths keeps the first occurrence of every edge path.
func DedupPaths(results []ComponentResult) [][]uint32 {
	seen := make(map[uint64][]string)
	var paths [][]uint32
	for _, cr := range results {
		for _, p := range cr.Paths {
			key := PathToString(p)
			h := xxhash.Sum64([]byte(key))
			dup := false
			for _, k := range seen[h] {
				if k == key {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			seen[h] = append(seen[h], key)
			paths = append(paths, p)
		}
	}
	return paths
}

// JoinGenes assigns gene ids to paths, two paths sharing an edge (on
// either strand) longer than minEdgeLen get the same id. Ids are dense
// and follow path order.
func JoinGenes(g *graph.Graph, paths [][]uint32, minEdgeLen int) []int {
	ds := utils.NewDisjointSet[int]()
	owner := make(map[uint32]int)
	for i, p := range paths {
		ds.MakeSet(i)
		for _, e := range p {
			if g.Length(e) <= minEdgeLen {
				continue
			}
			key := min(e, g.Conjugate(e))
			if j, ok := owner[key]; ok {
				ds.Union(i, j)
			} else {
				owner[key] = i
			}
		}
	}
	genes := make([]int, len(paths))
	for id, grp := range ds.Groups() {
		for _, i := range grp {
			genes[i] = id
		}
	}
	return genes
}

// WriteRescore writes the spelled sequence of every path named by its
// edges, with its gene id.
func WriteRescore(fn string, g *graph.Graph, paths [][]uint32, genes []int) error {
	if len(genes) != len(paths) {
		return errors.Errorf("[WriteRescore] %d paths but %d gene ids", len(paths), len(genes))
	}
	ff, err := createFasta(fn)
	if err != nil {
		return err
	}
	for i, p := range paths {
		desc := fmt.Sprintf("gene=%d", genes[i])
		if err := ff.write(PathToString(p), desc, MergeSequences(g, p), alphabet.DNA); err != nil {
			ff.Close()
			return errors.Wrapf(err, "[WriteRescore] write %s", fn)
		}
	}
	return errors.Wrapf(ff.Close(), "[WriteRescore] close %s", fn)
}

// Report writes the outputs enabled in the config for model name.
func (d *Driver) Report(name string, amino bool, results []ComponentResult) error {
	if d.cfg.Save {
		fn := ResultFileName(d.cfg.OutputPrefix, name)
		if err := WriteResults(fn, d.g, results, amino); err != nil {
			return err
		}
		d.lg.Printf("[Report] results of %d components written to %s\n", len(results), fn)
	}
	paths := DedupPaths(results)
	if !d.cfg.Rescore {
		return nil
	}
	genes := JoinGenes(d.g, paths, d.cfg.GeneMinEdgeLen)
	fn := RescoreFileName(d.cfg.OutputPrefix, name)
	if err := WriteRescore(fn, d.g, paths, genes); err != nil {
		return err
	}
	d.lg.Printf("[Report] %d distinct edge paths written to %s\n", len(paths), fn)
	return nil
}
