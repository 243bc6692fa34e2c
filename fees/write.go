package fees

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

func formatCost(v float64) string {
	if math.IsInf(v, 1) {
		return "      *"
	}
	return fmt.Sprintf("%7.5f", v)
}

func writeRow(w *bufio.Writer, lead string, vs []float64, tail string) {
	w.WriteString(lead)
	for _, v := range vs {
		w.WriteString("  ")
		w.WriteString(formatCost(v))
	}
	w.WriteString(tail)
	w.WriteByte('\n')
}

// WriteHMM writes h in HMMER3/f text format with the fields Read uses.
func WriteHMM(wr io.Writer, h *HMM) error {
	w := bufio.NewWriter(wr)
	fmt.Fprintf(w, "HMMER3/f [graphhmm]\nNAME  %s\n", h.Name)
	if h.Acc != "" {
		fmt.Fprintf(w, "ACC   %s\n", h.Acc)
	}
	if h.Desc != "" {
		fmt.Fprintf(w, "DESC  %s\n", h.Desc)
	}
	fmt.Fprintf(w, "LENG  %d\nALPH  %s\n", h.M, h.Alphabet)
	syms := h.Alphabet.Symbols()
	w.WriteString("HMM     ")
	for i := 0; i < len(syms); i++ {
		fmt.Fprintf(w, "        %c", syms[i])
	}
	w.WriteString("\n            m->m     m->i     m->d     i->m     i->i     d->m     d->d\n")
	if h.Compo != nil {
		writeRow(w, "  COMPO", h.Compo, "")
	}
	writeRow(w, "       ", h.Ins[0], "")
	writeRow(w, "       ", h.Trans[0][:], "")
	for i := 1; i <= h.M; i++ {
		writeRow(w, fmt.Sprintf("%7d", i), h.Mat[i], fmt.Sprintf(" %6d - - -", i))
		writeRow(w, "       ", h.Ins[i], "")
		writeRow(w, "       ", h.Trans[i][:], "")
	}
	w.WriteString("//\n")
	return w.Flush()
}

// ConsensusHMM builds an ungapped-leaning model whose match states
// emit cons with probability p.
func ConsensusHMM(name, cons string, alpha Alphabet, p float64) *HMM {
	syms := alpha.Symbols()
	n := len(syms)
	m := len(cons)
	h := &HMM{Name: name, M: m, Alphabet: alpha,
		Mat: make([][]float64, m+1), Ins: make([][]float64, m+1), Trans: make([][NTrans]float64, m+1)}
	hit, miss, uni := -math.Log(p), -math.Log((1-p)/float64(n-1)), -math.Log(1/float64(n))
	half := -math.Log(0.5)
	for i := 0; i <= m; i++ {
		h.Ins[i] = make([]float64, n)
		for a := range h.Ins[i] {
			h.Ins[i][a] = uni
		}
		h.Trans[i] = [NTrans]float64{-math.Log(0.9), -math.Log(0.05), -math.Log(0.05), half, half, half, half}
		if i == 0 {
			continue
		}
		h.Mat[i] = make([]float64, n)
		for a := range h.Mat[i] {
			h.Mat[i][a] = miss
			if syms[a] == upperByte(cons[i-1]) {
				h.Mat[i][a] = hit
			}
		}
	}
	h.Trans[m] = [NTrans]float64{0, math.Inf(1), math.Inf(1), half, half, 0, math.Inf(1)}
	return h
}

func upperByte(b byte) byte {
	return strings.ToUpper(string(b))[0]
}
