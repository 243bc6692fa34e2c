package utils

// DisjointSet groups opaque ids into equivalence classes with union by
// rank and path compression. The zero value is not usable, call
// NewDisjointSet.
type DisjointSet[T comparable] struct {
	parents map[T]T
	ranks   map[T]int
	order   []T
}

func NewDisjointSet[T comparable]() *DisjointSet[T] {
	return &DisjointSet[T]{parents: make(map[T]T), ranks: make(map[T]int)}
}

// MakeSet adds x as a singleton. Adding an existing element is a no-op.
func (ds *DisjointSet[T]) MakeSet(x T) {
	if _, ok := ds.parents[x]; ok {
		return
	}
	ds.parents[x] = x
	ds.ranks[x] = 0
	ds.order = append(ds.order, x)
}

func (ds *DisjointSet[T]) Contains(x T) bool {
	_, ok := ds.parents[x]
	return ok
}

// Find returns the representative of x, adding x first if unknown.
func (ds *DisjointSet[T]) Find(x T) T {
	p, ok := ds.parents[x]
	if !ok {
		ds.MakeSet(x)
		return x
	}
	if p == x {
		return x
	}
	root := ds.Find(p)
	ds.parents[x] = root
	return root
}

// Union joins the trees of x and y and returns the new root.
func (ds *DisjointSet[T]) Union(x, y T) T {
	x = ds.Find(x)
	y = ds.Find(y)
	if x == y {
		return x
	}
	if ds.ranks[x] < ds.ranks[y] {
		x, y = y, x
	}
	ds.parents[y] = x
	if ds.ranks[x] == ds.ranks[y] {
		ds.ranks[x]++
	}
	return x
}

func (ds *DisjointSet[T]) Len() int {
	return len(ds.parents)
}

// Groups returns the classes in insertion order of their first member,
// members in insertion order too.
func (ds *DisjointSet[T]) Groups() [][]T {
	idx := make(map[T]int)
	var groups [][]T
	for _, x := range ds.order {
		r := ds.Find(x)
		i, ok := idx[r]
		if !ok {
			i = len(groups)
			idx[r] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], x)
	}
	return groups
}
