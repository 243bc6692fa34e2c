// Package fees reads HMMER3 profile models and aligns them against
// cursor spaces.
package fees

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mudesheng/graphhmm/graph"
	"github.com/pkg/errors"
)

type Alphabet int

const (
	Amino Alphabet = iota
	DNA
	RNA
)

const (
	aminoSymbols = "ACDEFGHIKLMNPQRSTVWY"
	dnaSymbols   = "ACGT"
	rnaSymbols   = "ACGU"
)

func (a Alphabet) String() string {
	switch a {
	case Amino:
		return "amino"
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	}
	return "unknown"
}

func (a Alphabet) Symbols() string {
	switch a {
	case DNA:
		return dnaSymbols
	case RNA:
		return rnaSymbols
	}
	return aminoSymbols
}

// transition order of a HMMER3 node line
const (
	MM = iota
	MI
	MD
	IM
	II
	DM
	DD
	NTrans
)

// HMM is a profile model as stored in the file, all values are -ln p.
// Node 0 is the begin node; Mat[0] is unused.
type HMM struct {
	Name     string
	Acc      string
	Desc     string
	M        int
	Alphabet Alphabet
	Compo    []float64
	Mat      [][]float64
	Ins      [][]float64
	Trans    [][NTrans]float64
}

func (h *HMM) IsAmino() bool { return h.Alphabet == Amino }

// HMMFile reads consecutive models from a stream.
type HMMFile struct {
	sc     *bufio.Scanner
	closer io.Closer
	line   int
}

func NewHMMReader(r io.Reader) *HMMFile {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<16), 1<<24)
	return &HMMFile{sc: sc}
}

// OpenHMMFile opens a model file, optionally zstd or brotli compressed.
func OpenHMMFile(fn string) (*HMMFile, error) {
	rc, err := graph.OpenReader(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "[OpenHMMFile] open %s", fn)
	}
	hf := NewHMMReader(rc)
	hf.closer = rc
	return hf, nil
}

func (hf *HMMFile) Close() error {
	if hf.closer == nil {
		return nil
	}
	return hf.closer.Close()
}

func (hf *HMMFile) next() ([]string, bool) {
	for hf.sc.Scan() {
		hf.line++
		fields := strings.Fields(hf.sc.Text())
		if len(fields) > 0 {
			return fields, true
		}
	}
	return nil, false
}

func (hf *HMMFile) errorf(format string, args ...interface{}) error {
	return errors.Errorf("[HMMFile.Read] line %d: "+format, append([]interface{}{hf.line}, args...)...)
}

func parseCost(s string) (float64, error) {
	if s == "*" {
		return math.Inf(1), nil
	}
	return strconv.ParseFloat(s, 64)
}

func (hf *HMMFile) values(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, hf.errorf("expect %d values, got %d", n, len(fields))
	}
	vs := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := parseCost(fields[i])
		if err != nil {
			return nil, hf.errorf("bad value %q", fields[i])
		}
		vs[i] = v
	}
	return vs, nil
}

func (hf *HMMFile) trans() ([NTrans]float64, error) {
	var t [NTrans]float64
	fields, ok := hf.next()
	if !ok {
		return t, hf.errorf("unexpected end of file")
	}
	vs, err := hf.values(fields, NTrans)
	if err != nil {
		return t, err
	}
	copy(t[:], vs)
	return t, nil
}

// Read returns the next model, io.EOF after the last one.
func (hf *HMMFile) Read() (*HMM, error) {
	var fields []string
	ok := false
	for {
		if fields, ok = hf.next(); !ok {
			if err := hf.sc.Err(); err != nil {
				return nil, errors.Wrap(err, "[HMMFile.Read]")
			}
			return nil, io.EOF
		}
		if strings.HasPrefix(fields[0], "HMMER3") {
			break
		}
	}

	h := &HMM{Alphabet: -1}
	for {
		if fields, ok = hf.next(); !ok {
			return nil, hf.errorf("unexpected end of file in header")
		}
		if fields[0] == "HMM" {
			break
		}
		val := ""
		if len(fields) > 1 {
			val = strings.Join(fields[1:], " ")
		}
		switch fields[0] {
		case "NAME":
			h.Name = val
		case "ACC":
			h.Acc = val
		case "DESC":
			h.Desc = val
		case "LENG":
			m, err := strconv.Atoi(val)
			if err != nil || m < 1 {
				return nil, hf.errorf("bad LENG %q", val)
			}
			h.M = m
		case "ALPH":
			switch strings.ToLower(val) {
			case "amino":
				h.Alphabet = Amino
			case "dna":
				h.Alphabet = DNA
			case "rna":
				h.Alphabet = RNA
			default:
				return nil, hf.errorf("unsupported alphabet %q", val)
			}
		}
	}
	if h.M == 0 || h.Alphabet < 0 {
		return nil, hf.errorf("model %q lacks LENG or ALPH", h.Name)
	}
	syms := h.Alphabet.Symbols()
	if strings.Join(fields[1:], "") != syms {
		return nil, hf.errorf("symbol line %v does not match alphabet %s", fields[1:], h.Alphabet)
	}
	n := len(syms)
	// transition header
	if _, ok = hf.next(); !ok {
		return nil, hf.errorf("unexpected end of file")
	}

	h.Mat = make([][]float64, h.M+1)
	h.Ins = make([][]float64, h.M+1)
	h.Trans = make([][NTrans]float64, h.M+1)
	if fields, ok = hf.next(); !ok {
		return nil, hf.errorf("unexpected end of file")
	}
	var err error
	if fields[0] == "COMPO" {
		if h.Compo, err = hf.values(fields[1:], n); err != nil {
			return nil, err
		}
		if fields, ok = hf.next(); !ok {
			return nil, hf.errorf("unexpected end of file")
		}
	}
	if h.Ins[0], err = hf.values(fields, n); err != nil {
		return nil, err
	}
	if h.Trans[0], err = hf.trans(); err != nil {
		return nil, err
	}
	for i := 1; i <= h.M; i++ {
		if fields, ok = hf.next(); !ok {
			return nil, hf.errorf("unexpected end of file at node %d", i)
		}
		if fields[0] != strconv.Itoa(i) {
			return nil, hf.errorf("expect node %d, got %q", i, fields[0])
		}
		if h.Mat[i], err = hf.values(fields[1:], n); err != nil {
			return nil, err
		}
		if fields, ok = hf.next(); !ok {
			return nil, hf.errorf("unexpected end of file at node %d", i)
		}
		if h.Ins[i], err = hf.values(fields, n); err != nil {
			return nil, err
		}
		if h.Trans[i], err = hf.trans(); err != nil {
			return nil, err
		}
	}
	if fields, ok = hf.next(); !ok || fields[0] != "//" {
		return nil, hf.errorf("model %q not terminated by //", h.Name)
	}
	return h, nil
}

// ReadHMMs loads every model of fn.
func ReadHMMs(fn string) ([]*HMM, error) {
	hf, err := OpenHMMFile(fn)
	if err != nil {
		return nil, err
	}
	defer hf.Close()
	var hmms []*HMM
	for {
		h, err := hf.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "[ReadHMMs] %s", fn)
		}
		hmms = append(hmms, h)
	}
	return hmms, nil
}
