package pathracer

import (
	"log"
	"strconv"
	"strings"

	"github.com/mudesheng/graphhmm/cursor"
	"github.com/mudesheng/graphhmm/graph"
)

// ToPath lists the edges a cursor path runs through, each once per
// visit. Empty cursors are skipped.
func ToPath[C cursor.Cursor[C, X], X any](cs []C) []uint32 {
	var path []uint32
	for _, c := range cs {
		if c.IsEmpty() {
			continue
		}
		for _, e := range c.Edges() {
			if len(path) == 0 || path[len(path)-1] != e {
				path = append(path, e)
			}
		}
	}
	return path
}

// MergeSequences spells an edge path, consecutive edges overlap by k.
// A path with non adjacent edges is a search defect and panics.
func MergeSequences(g *graph.Graph, path []uint32) []byte {
	if len(path) == 0 {
		return nil
	}
	seqs := make([][]byte, len(path))
	overlaps := make([]uint32, len(path)-1)
	for i, e := range path {
		if i > 0 {
			if !g.IsAdjacent(path[i-1], e) {
				log.Panicf("[MergeSequences] edges %d and %d of path %s are not adjacent\n", path[i-1], e, PathToString(path))
			}
			overlaps[i-1] = uint32(g.K)
		}
		seqs[i] = g.Seq(e)
	}
	seq, err := g.MergeData(seqs, overlaps, true)
	if err != nil {
		log.Panicf("[MergeSequences] path %s: %v\n", PathToString(path), err)
	}
	return seq
}

func PathToString(path []uint32) string {
	var sb strings.Builder
	for i, e := range path {
		if i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(strconv.FormatUint(uint64(e), 10))
	}
	return sb.String()
}
