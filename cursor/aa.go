package cursor

// standard genetic code, codons enumerated in TCAG order
const codonTable = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"

func tcagIndex(b byte) int {
	switch b {
	case 'T', 't', 'U', 'u':
		return 0
	case 'C', 'c':
		return 1
	case 'A', 'a':
		return 2
	case 'G', 'g':
		return 3
	}
	return -1
}

// Translate returns the amino acid of a codon, '*' for a stop codon and
// 'X' when any base is ambiguous.
func Translate(b0, b1, b2 byte) byte {
	i0, i1, i2 := tcagIndex(b0), tcagIndex(b1), tcagIndex(b2)
	if i0 < 0 || i1 < 0 || i2 < 0 {
		return 'X'
	}
	return codonTable[i0*16+i1*4+i2]
}

// TranslateSeq translates seq in frame 0, a trailing partial codon is dropped.
func TranslateSeq(seq []byte) []byte {
	aa := make([]byte, 0, len(seq)/3)
	for i := 0; i+2 < len(seq); i += 3 {
		aa = append(aa, Translate(seq[i], seq[i+1], seq[i+2]))
	}
	return aa
}

// AA groups three consecutive nucleotide cursors into one codon position.
// Next steps a whole codon forward from the last base, Prev a whole codon
// back from the first base.
type AA[C Cursor[C, X], X any] struct {
	C0, C1, C2 C
}

func (a AA[C, X]) IsEmpty() bool { return a.C0.IsEmpty() }

func (a AA[C, X]) Next(ctx X) []AA[C, X] {
	var res []AA[C, X]
	for _, n0 := range a.C2.Next(ctx) {
		for _, n1 := range n0.Next(ctx) {
			for _, n2 := range n1.Next(ctx) {
				res = append(res, AA[C, X]{C0: n0, C1: n1, C2: n2})
			}
		}
	}
	return res
}

func (a AA[C, X]) Prev(ctx X) []AA[C, X] {
	var res []AA[C, X]
	for _, p2 := range a.C0.Prev(ctx) {
		for _, p1 := range p2.Prev(ctx) {
			for _, p0 := range p1.Prev(ctx) {
				res = append(res, AA[C, X]{C0: p0, C1: p1, C2: p2})
			}
		}
	}
	return res
}

func (a AA[C, X]) Letter(ctx X) byte {
	return Translate(a.C0.Letter(ctx), a.C1.Letter(ctx), a.C2.Letter(ctx))
}

func (a AA[C, X]) Edges() []uint32 {
	if a.IsEmpty() {
		return nil
	}
	var es []uint32
	for _, c := range [3]C{a.C0, a.C1, a.C2} {
		for _, e := range c.Edges() {
			if len(es) == 0 || es[len(es)-1] != e {
				es = append(es, e)
			}
		}
	}
	return es
}

// MakeAA builds every codon whose first base is one of cursors.
func MakeAA[C Cursor[C, X], X any](cursors []C, ctx X) []AA[C, X] {
	var res []AA[C, X]
	for _, c := range cursors {
		for _, n1 := range c.Next(ctx) {
			for _, n2 := range n1.Next(ctx) {
				res = append(res, AA[C, X]{C0: c, C1: n1, C2: n2})
			}
		}
	}
	return res
}
