package fees

import (
	"math"
)

// HMMER amino acid background frequencies, aminoSymbols order
var aminoBackground = [20]float64{
	0.0787945, 0.0151600, 0.0535222, 0.0668298, 0.0397062,
	0.0695071, 0.0229198, 0.0590092, 0.0594422, 0.0963728,
	0.0237718, 0.0414386, 0.0482904, 0.0395639, 0.0540978,
	0.0683364, 0.0540687, 0.0673417, 0.0114135, 0.0304133,
}

// DefaultHyps is the number of hypotheses kept per state and cursor.
const DefaultHyps = 10

// Fees holds the alignment costs of a model in nats, lower is better.
// Mat[i] are match costs of node i over the alphabet.
type Fees struct {
	Name  string
	M     int
	Amino bool
	// Local aligns locally in the model as well as in the sequence.
	Local bool
	// Hyps bounds the hypotheses kept per state and cursor.
	Hyps int

	index  [256]int8
	mat    [][]float64
	ins    [][]float64
	maxMat []float64
	maxIns []float64
	trans  [][NTrans]float64
	entry  float64
}

func FeesFromHMM(h *HMM) *Fees {
	syms := h.Alphabet.Symbols()
	n := len(syms)
	bg := make([]float64, n)
	for a := 0; a < n; a++ {
		if h.IsAmino() {
			bg[a] = aminoBackground[a]
		} else {
			bg[a] = 1 / float64(n)
		}
	}

	f := &Fees{Name: h.Name, M: h.M, Amino: h.IsAmino(), Hyps: DefaultHyps}
	for i := range f.index {
		f.index[i] = -1
	}
	for a := 0; a < n; a++ {
		f.index[syms[a]] = int8(a)
		f.index[syms[a]|0x20] = int8(a)
	}
	if !f.Amino {
		// graph letters are DNA whatever the model alphabet
		for _, c := range []byte{'T', 't', 'U', 'u'} {
			f.index[c] = 3
		}
	}

	f.mat = make([][]float64, h.M+1)
	f.ins = make([][]float64, h.M+1)
	f.maxMat = make([]float64, h.M+1)
	f.maxIns = make([]float64, h.M+1)
	f.trans = make([][NTrans]float64, h.M+1)
	copy(f.trans, h.Trans)
	for i := 0; i <= h.M; i++ {
		f.maxMat[i], f.maxIns[i] = math.Inf(-1), math.Inf(-1)
		if i > 0 {
			f.mat[i] = make([]float64, n)
			for a := 0; a < n; a++ {
				f.mat[i][a] = h.Mat[i][a] + math.Log(bg[a])
				f.maxMat[i] = math.Max(f.maxMat[i], f.mat[i][a])
			}
		}
		f.ins[i] = make([]float64, n)
		for a := 0; a < n; a++ {
			f.ins[i][a] = math.Max(h.Ins[i][a]+math.Log(bg[a]), 0)
			f.maxIns[i] = math.Max(f.maxIns[i], f.ins[i][a])
		}
	}
	m := float64(h.M)
	f.entry = -math.Log(2 / (m * (m + 1)))
	return f
}

// MatchCost is the cost of emitting letter at match node i, unknown
// letters get the worst cost of the node.
func (f *Fees) MatchCost(i int, letter byte) float64 {
	a := f.index[letter]
	if a < 0 {
		return f.maxMat[i]
	}
	return f.mat[i][a]
}

func (f *Fees) InsertCost(i int, letter byte) float64 {
	a := f.index[letter]
	if a < 0 {
		return f.maxIns[i]
	}
	return f.ins[i][a]
}

// Trans is the -ln p of transition t leaving node i.
func (f *Fees) Trans(i, t int) float64 { return f.trans[i][t] }

// Bits converts a cost in nats to a score in bits.
func Bits(cost float64) float64 { return -cost / math.Ln2 }
