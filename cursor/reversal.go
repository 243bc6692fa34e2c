package cursor

// Reversal walks its base cursor backwards: Next is the base Prev and
// Prev the base Next. Two reversals are equal when their bases are.
type Reversal[C Cursor[C, X], X any] struct {
	Base C
}

func wrapReversal[C Cursor[C, X], X any](arr []C) []Reversal[C, X] {
	res := make([]Reversal[C, X], len(arr))
	for i, c := range arr {
		res[i] = Reversal[C, X]{Base: c}
	}
	return res
}

func (r Reversal[C, X]) Next(ctx X) []Reversal[C, X] {
	return wrapReversal[C, X](r.Base.Prev(ctx))
}

func (r Reversal[C, X]) Prev(ctx X) []Reversal[C, X] {
	return wrapReversal[C, X](r.Base.Next(ctx))
}

func (r Reversal[C, X]) Letter(ctx X) byte { return r.Base.Letter(ctx) }

func (r Reversal[C, X]) IsEmpty() bool { return r.Base.IsEmpty() }

func (r Reversal[C, X]) Edges() []uint32 { return r.Base.Edges() }

func MakeReversal[C Cursor[C, X], X any](cursors []C) []Reversal[C, X] {
	return wrapReversal[C, X](cursors)
}
