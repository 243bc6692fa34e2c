package graph

import (
	"log"

	"github.com/pkg/errors"
)

var bntRev = func() (arr [256]byte) {
	for i := range arr {
		arr[i] = 'N'
	}
	pairs := []string{"AT", "CG", "GC", "TA", "at", "cg", "gc", "ta", "NN", "nn"}
	for _, p := range pairs {
		arr[p[0]] = p[1]
	}
	return
}()

func ReverseComplement(seq []byte) []byte {
	rc := make([]byte, len(seq))
	for i, c := range seq {
		rc[len(seq)-1-i] = bntRev[c]
	}
	return rc
}

// Link records an explicit overlap between two edges meeting at a node.
type Link struct {
	Link    [2]uint32
	Overlap uint32
}

// Overlap is either a SimpleOverlap stored inline or an *OverlapStorage
// holding a list of links.
type Overlap interface {
	isOverlap()
}

type SimpleOverlap uint32

func (SimpleOverlap) isOverlap() {}

type OverlapStorage struct {
	links []*Link
}

func (*OverlapStorage) isOverlap() {}

func (s *OverlapStorage) AddLink(l *Link) { s.links = append(s.links, l) }

func (s *OverlapStorage) AddLinks(links []*Link) { s.links = append(s.links, links...) }

func (s *OverlapStorage) Links() []*Link {
	arr := make([]*Link, len(s.links))
	copy(arr, s.links)
	return arr
}

func (s *OverlapStorage) MoveLinks() []*Link {
	arr := s.links
	s.links = nil
	return arr
}

// VertexData is the overlap information kept per node. The zero value
// holds a simple overlap of 0.
type VertexData struct {
	overlap Overlap
}

func NewVertexData(overlap uint32) VertexData {
	return VertexData{overlap: SimpleOverlap(overlap)}
}

func NewComplexVertexData(links []*Link) VertexData {
	return VertexData{overlap: &OverlapStorage{links: append([]*Link(nil), links...)}}
}

func (d VertexData) HasComplexOverlap() bool {
	_, ok := d.overlap.(*OverlapStorage)
	return ok
}

func (d *VertexData) SetOverlap(overlap uint32) {
	d.overlap = SimpleOverlap(overlap)
}

func (d VertexData) Overlap() uint32 {
	switch o := d.overlap.(type) {
	case nil:
		return 0
	case SimpleOverlap:
		return uint32(o)
	default:
		log.Panicf("[VertexData.Overlap] vertex has complex overlap")
	}
	return 0
}

func (d VertexData) storage() *OverlapStorage {
	s, ok := d.overlap.(*OverlapStorage)
	if !ok {
		log.Panicf("[VertexData] vertex has simple overlap")
	}
	return s
}

func (d VertexData) Links() []*Link { return d.storage().Links() }

func (d VertexData) MoveLinks() []*Link { return d.storage().MoveLinks() }

func (d VertexData) AddLink(l *Link) { d.storage().AddLink(l) }

func (d VertexData) AddLinks(links []*Link) { d.storage().AddLinks(links) }

// DataMaster holds the operations on edge sequences that depend on k.
type DataMaster struct {
	K int
}

func (dm DataMaster) Length(seq []byte) int {
	return len(seq) - dm.K
}

// MergeOverlappingSequences joins ss, dropping the first overlaps[i-1]
// letters of ss[i]. With safe set the dropped letters must equal the
// tail of the previous sequence.
func MergeOverlappingSequences(ss [][]byte, overlaps []uint32, safe bool) ([]byte, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	if len(overlaps) != len(ss)-1 {
		return nil, errors.Errorf("[MergeOverlappingSequences] %d sequences need %d overlaps, got %d", len(ss), len(ss)-1, len(overlaps))
	}
	size := len(ss[0])
	for i := 1; i < len(ss); i++ {
		size += len(ss[i]) - int(overlaps[i-1])
	}
	seq := make([]byte, 0, size)
	seq = append(seq, ss[0]...)
	for i := 1; i < len(ss); i++ {
		ov := int(overlaps[i-1])
		if ov > len(ss[i]) || ov > len(seq) {
			return nil, errors.Errorf("[MergeOverlappingSequences] overlap %d longer than sequence %d", ov, i)
		}
		if safe && string(seq[len(seq)-ov:]) != string(ss[i][:ov]) {
			return nil, errors.Errorf("[MergeOverlappingSequences] sequence %d does not overlap the previous one by %d", i, ov)
		}
		seq = append(seq, ss[i][ov:]...)
	}
	return seq, nil
}

// MergeData merges consecutive edge sequences, each pair overlapping by
// the given amounts (K for a de Bruijn path).
func (dm DataMaster) MergeData(ss [][]byte, overlaps []uint32, safe bool) ([]byte, error) {
	return MergeOverlappingSequences(ss, overlaps, safe)
}

// SplitData cuts seq after pos k+1-mers. The two pieces overlap by K at
// the new node.
func (dm DataMaster) SplitData(seq []byte, pos int, selfConj bool) (VertexData, []byte, []byte) {
	end := len(seq)
	if pos <= 0 || pos >= dm.Length(seq) {
		log.Panicf("[SplitData] position %d out of (0, %d)", pos, dm.Length(seq))
	}
	if selfConj {
		end -= pos
	}
	first := append([]byte(nil), seq[:pos+dm.K]...)
	second := append([]byte(nil), seq[pos:end]...)
	return NewVertexData(uint32(dm.K)), first, second
}

func (dm DataMaster) GlueData(_, data2 []byte) []byte {
	return data2
}

func (dm DataMaster) ConjugateData(seq []byte) []byte {
	return ReverseComplement(seq)
}

func (dm DataMaster) IsSelfConjugate(seq []byte) bool {
	return string(seq) == string(ReverseComplement(seq))
}
