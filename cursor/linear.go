package cursor

type LinearContext struct {
	Seq []byte
}

// Linear is a position on a plain sequence, I is 1-based.
type Linear struct {
	I uint32
}

func (c Linear) IsEmpty() bool { return c.I == 0 }

// Index is the 0-based offset into the sequence.
func (c Linear) Index() int { return int(c.I) - 1 }

func (c Linear) Next(ctx *LinearContext) []Linear {
	if c.IsEmpty() || int(c.I) >= len(ctx.Seq) {
		return nil
	}
	return []Linear{{I: c.I + 1}}
}

func (c Linear) Prev(ctx *LinearContext) []Linear {
	if c.I <= 1 {
		return nil
	}
	return []Linear{{I: c.I - 1}}
}

func (c Linear) Letter(ctx *LinearContext) byte {
	return ctx.Seq[c.I-1]
}

func (c Linear) Edges() []uint32 { return nil }

func LinearCursors(ctx *LinearContext) []Linear {
	arr := make([]Linear, len(ctx.Seq))
	for i := range arr {
		arr[i] = Linear{I: uint32(i + 1)}
	}
	return arr
}
