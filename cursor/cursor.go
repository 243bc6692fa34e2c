// Package cursor implements positions over a sequence graph that a
// generic alignment algorithm can walk. Decorators change how a cursor
// walks (reversed, restricted to a search space, translated to amino
// acids) without touching the algorithm.
//
// The zero value of every cursor type is the empty cursor.
package cursor

// Cursor is the capability set every cursor type provides. X is the
// context the traversal needs (the graph, a sequence, a search space).
// Next and Prev return an empty slice at a dead end.
type Cursor[C any, X any] interface {
	comparable
	Next(ctx X) []C
	Prev(ctx X) []C
	Letter(ctx X) byte
	IsEmpty() bool
	// Edges lists the graph edges the position lies on, in path order.
	Edges() []uint32
}

// Space is a read-only set of cursors bounding a search.
type Space[C comparable] struct {
	set map[C]struct{}
}

func NewSpace[C comparable](cursors []C) *Space[C] {
	s := &Space[C]{set: make(map[C]struct{}, len(cursors))}
	for _, c := range cursors {
		s.set[c] = struct{}{}
	}
	return s
}

func (s *Space[C]) Contains(c C) bool {
	if s == nil {
		return false
	}
	_, ok := s.set[c]
	return ok
}

func (s *Space[C]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.set)
}

// Reach runs a breadth-first walk from starts and returns each cursor
// reached within budget steps with its distance, starts count as step 1.
func Reach[C Cursor[C, X], X any](starts []C, ctx X, budget int) map[C]int {
	dist := make(map[C]int)
	if budget <= 0 {
		return dist
	}
	queue := make([]C, 0, len(starts))
	for _, c := range starts {
		if c.IsEmpty() {
			continue
		}
		if _, ok := dist[c]; !ok {
			dist[c] = 1
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		d := dist[c]
		if d >= budget {
			continue
		}
		for _, n := range c.Next(ctx) {
			if _, ok := dist[n]; !ok {
				dist[n] = d + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}
