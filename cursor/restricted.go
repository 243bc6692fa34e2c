package cursor

// Restricted confines its base cursor to a search space, neighbours
// outside the space are dropped. Every cursor keeps a pointer to the
// shared space.
type Restricted[C Cursor[C, X], X any] struct {
	Base  C
	space *Space[C]
}

func NewRestricted[C Cursor[C, X], X any](c C, space *Space[C]) Restricted[C, X] {
	return Restricted[C, X]{Base: c, space: space}
}

func (r Restricted[C, X]) filter(arr []C) []Restricted[C, X] {
	res := make([]Restricted[C, X], 0, len(arr))
	for _, c := range arr {
		if r.space.Contains(c) {
			res = append(res, Restricted[C, X]{Base: c, space: r.space})
		}
	}
	return res
}

func (r Restricted[C, X]) Next(ctx X) []Restricted[C, X] { return r.filter(r.Base.Next(ctx)) }

func (r Restricted[C, X]) Prev(ctx X) []Restricted[C, X] { return r.filter(r.Base.Prev(ctx)) }

func (r Restricted[C, X]) Letter(ctx X) byte { return r.Base.Letter(ctx) }

func (r Restricted[C, X]) IsEmpty() bool { return r.Base.IsEmpty() }

func (r Restricted[C, X]) Edges() []uint32 { return r.Base.Edges() }

func MakeRestricted[C Cursor[C, X], X any](cursors []C, space *Space[C]) []Restricted[C, X] {
	res := make([]Restricted[C, X], len(cursors))
	for i, c := range cursors {
		res[i] = NewRestricted[C, X](c, space)
	}
	return res
}

// OptimizedContext bundles the search space with the base context so
// that OptimizedRestricted cursors need not store it.
type OptimizedContext[C Cursor[C, X], X any] struct {
	Space   *Space[C]
	Context X
}

func NewOptimizedContext[C Cursor[C, X], X any](space *Space[C], ctx X) *OptimizedContext[C, X] {
	return &OptimizedContext[C, X]{Space: space, Context: ctx}
}

// OptimizedRestricted filters like Restricted but reads the space from
// the traversal context.
type OptimizedRestricted[C Cursor[C, X], X any] struct {
	Base C
}

func filterOptimized[C Cursor[C, X], X any](arr []C, space *Space[C]) []OptimizedRestricted[C, X] {
	res := make([]OptimizedRestricted[C, X], 0, len(arr))
	for _, c := range arr {
		if space.Contains(c) {
			res = append(res, OptimizedRestricted[C, X]{Base: c})
		}
	}
	return res
}

func (r OptimizedRestricted[C, X]) Next(ctx *OptimizedContext[C, X]) []OptimizedRestricted[C, X] {
	return filterOptimized[C, X](r.Base.Next(ctx.Context), ctx.Space)
}

func (r OptimizedRestricted[C, X]) Prev(ctx *OptimizedContext[C, X]) []OptimizedRestricted[C, X] {
	return filterOptimized[C, X](r.Base.Prev(ctx.Context), ctx.Space)
}

func (r OptimizedRestricted[C, X]) Letter(ctx *OptimizedContext[C, X]) byte {
	return r.Base.Letter(ctx.Context)
}

func (r OptimizedRestricted[C, X]) IsEmpty() bool { return r.Base.IsEmpty() }

func (r OptimizedRestricted[C, X]) Edges() []uint32 { return r.Base.Edges() }

func MakeOptimizedRestricted[C Cursor[C, X], X any](cursors []C) []OptimizedRestricted[C, X] {
	res := make([]OptimizedRestricted[C, X], len(cursors))
	for i, c := range cursors {
		res[i] = OptimizedRestricted[C, X]{Base: c}
	}
	return res
}
