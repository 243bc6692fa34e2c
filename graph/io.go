package graph

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// conjugate node references carry this suffix in edge headers
const conjMark = "'"

type edgeRecord struct {
	id, start, end     uint32
	startConj, endConj bool
	seq                []byte
}

// OpenReader opens fn, decompressing *.zst and *.br files.
func OpenReader(fn string) (io.ReadCloser, error) {
	fp, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(fn, ".zst"):
		zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
		if err != nil {
			fp.Close()
			return nil, errors.Wrapf(err, "[OpenReader] open zstd file %s", fn)
		}
		return &stackCloser{Reader: zr, close: func() error { zr.Close(); return fp.Close() }}, nil
	case strings.HasSuffix(fn, ".br"):
		br := cbrotli.NewReader(fp)
		return &stackCloser{Reader: br, close: func() error { br.Close(); return fp.Close() }}, nil
	}
	return fp, nil
}

type stackCloser struct {
	io.Reader
	close func() error
}

func (s *stackCloser) Close() error { return s.close() }

func parseNodeRef(s string) (id uint32, conj bool, err error) {
	if strings.HasSuffix(s, conjMark) {
		conj = true
		s = strings.TrimSuffix(s, conjMark)
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false, err
	}
	return uint32(v), conj, nil
}

// parseEdgeHeader reads "ID StartNID EndNID", node references ending in
// ' denote the conjugate of that node.
func parseEdgeHeader(header string) (er edgeRecord, err error) {
	flist := strings.Fields(header)
	if len(flist) < 3 {
		return er, errors.Errorf("[parseEdgeHeader] header %q needs 'ID StartNID EndNID'", header)
	}
	id, err := strconv.ParseUint(flist[0], 10, 32)
	if err != nil {
		return er, errors.Wrapf(err, "[parseEdgeHeader] edge ID %q not digits", flist[0])
	}
	er.id = uint32(id)
	if er.start, er.startConj, err = parseNodeRef(flist[1]); err != nil {
		return er, errors.Wrapf(err, "[parseEdgeHeader] eID:%d StartNID %q", er.id, flist[1])
	}
	if er.end, er.endConj, err = parseNodeRef(flist[2]); err != nil {
		return er, errors.Wrapf(err, "[parseEdgeHeader] eID:%d EndNID %q", er.id, flist[2])
	}
	if er.id < MinID || er.start < MinID || er.end < MinID {
		return er, errors.Errorf("[parseEdgeHeader] IDs in %q must be >= %d", header, MinID)
	}
	return er, nil
}

// ReadGraph loads a graph stored as FASTA edge records, one strand per
// record. The reverse complement strand is rebuilt: the conjugate of
// edge (node) i gets ID i + max edge (node) ID + 1.
func ReadGraph(fn string, k int) (*Graph, error) {
	fp, err := OpenReader(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "[ReadGraph] open %s", fn)
	}
	defer fp.Close()
	g, err := ReadGraphFrom(bufio.NewReaderSize(fp, 1<<20), k)
	if err != nil {
		return nil, errors.Wrapf(err, "[ReadGraph] %s", fn)
	}
	return g, nil
}

func ReadGraphFrom(r io.Reader, k int) (*Graph, error) {
	if k <= 0 {
		return nil, errors.Errorf("[ReadGraphFrom] k-mer size %d must be positive", k)
	}
	fafp := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
	var records []edgeRecord
	var maxEID, maxNID uint32
	for {
		s, err := fafp.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "[ReadGraphFrom] read fasta record")
		}
		l := s.(*linear.Seq)
		er, err := parseEdgeHeader(l.ID + " " + l.Desc)
		if err != nil {
			return nil, err
		}
		er.seq = make([]byte, len(l.Seq))
		for i, b := range l.Seq {
			er.seq[i] = upper(byte(b))
		}
		records = append(records, er)
		if er.id > maxEID {
			maxEID = er.id
		}
		if er.start > maxNID {
			maxNID = er.start
		}
		if er.end > maxNID {
			maxNID = er.end
		}
	}

	g := NewGraph(k)
	eShift, nShift := maxEID+1, maxNID+1
	node := func(id uint32, conj bool) (uint32, error) {
		if err := g.AddVertexWithID(id, id+nShift); err != nil {
			return 0, err
		}
		if conj {
			return id + nShift, nil
		}
		return id, nil
	}
	for _, er := range records {
		start, err := node(er.start, er.startConj)
		if err != nil {
			return nil, err
		}
		end, err := node(er.end, er.endConj)
		if err != nil {
			return nil, err
		}
		if err := g.AddEdgeWithID(er.id, er.id+eShift, start, end, er.seq); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func (g *Graph) nodeRef(v uint32) string {
	if g.IsForwardNode(v) {
		return strconv.Itoa(int(v))
	}
	return strconv.Itoa(int(g.ConjugateNode(v))) + conjMark
}

// WritefaRecord writes one forward edge record.
func (g *Graph) WritefaRecord(fp io.Writer, e *DBGEdge) {
	fmt.Fprintf(fp, ">%d\t%s\t%s\n%s\n", e.ID, g.nodeRef(e.StartNID), g.nodeRef(e.EndNID), e.Ks)
}

// WriteGraph stores the forward strand of g in the format read by
// ReadGraph, zstd compressed when fn ends in .zst.
func WriteGraph(fn string, g *Graph) error {
	fp, err := os.Create(fn)
	if err != nil {
		return errors.Wrapf(err, "[WriteGraph] create %s", fn)
	}
	defer fp.Close()
	var w io.Writer = fp
	var zw *zstd.Encoder
	if strings.HasSuffix(fn, ".zst") {
		zw, err = zstd.NewWriter(fp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
		if err != nil {
			return errors.Wrapf(err, "[WriteGraph] zstd writer %s", fn)
		}
		w = zw
	}
	buf := bufio.NewWriterSize(w, 1<<20)
	g.WriteGraphTo(buf)
	if err := buf.Flush(); err != nil {
		return errors.Wrapf(err, "[WriteGraph] flush %s", fn)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return errors.Wrapf(err, "[WriteGraph] close %s", fn)
		}
	}
	return nil
}

func (g *Graph) WriteGraphTo(w io.Writer) {
	for _, e := range g.Edges() {
		if g.IsForward(e) {
			g.WritefaRecord(w, g.Edge(e))
		}
	}
}

// String renders the forward strand in the on-disk format.
func (g *Graph) String() string {
	var b bytes.Buffer
	g.WriteGraphTo(&b)
	return b.String()
}
