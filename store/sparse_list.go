package store

import "sort"

// Item is one stored entry of a SparseList.
type Item[T any] struct {
	Index int
	Value T
}

// SparseList is a sorted list of index→value entries over a single axis.
// Absent indices read as the list's default.
type SparseList[T any] struct {
	keys   []int
	values []T
	def    T
}

// NewSparseList returns an empty list whose absent entries read as def.
func NewSparseList[T any](def T) *SparseList[T] {
	return &SparseList[T]{def: def}
}

// Len is the number of stored entries.
func (l *SparseList[T]) Len() int { return len(l.keys) }

func (l *SparseList[T]) search(index int) (int, bool) {
	i := sort.SearchInts(l.keys, index)
	return i, i < len(l.keys) && l.keys[i] == index
}

// Contains reports whether index holds a value.
func (l *SparseList[T]) Contains(index int) bool {
	_, ok := l.search(index)
	return ok
}

// Get returns the value at index or the default.
func (l *SparseList[T]) Get(index int) T {
	if i, ok := l.search(index); ok {
		return l.values[i]
	}
	return l.def
}

// Set stores value at index, returning the previous value if there was one.
func (l *SparseList[T]) Set(index int, value T) (T, bool) {
	i, ok := l.search(index)
	if ok {
		prev := l.values[i]
		l.values[i] = value
		return prev, true
	}
	l.keys = append(l.keys, 0)
	copy(l.keys[i+1:], l.keys[i:])
	l.keys[i] = index
	var zero T
	l.values = append(l.values, zero)
	copy(l.values[i+1:], l.values[i:])
	l.values[i] = value
	return l.def, false
}

// Clear removes index, returning the removed value if there was one.
func (l *SparseList[T]) Clear(index int) (T, bool) {
	i, ok := l.search(index)
	if !ok {
		return l.def, false
	}
	prev := l.values[i]
	l.removeRange(i, i+1)
	return prev, true
}

// ClearBetween removes every entry in [from, to].
func (l *SparseList[T]) ClearBetween(from, to int) []Item[T] {
	i, j := l.bounds(from, to)
	removed := l.items(i, j)
	l.removeRange(i, j)
	return removed
}

// NonEmptyBetween returns the entries in [from, to] without touching
// absent indices.
func (l *SparseList[T]) NonEmptyBetween(from, to int) []Item[T] {
	i, j := l.bounds(from, to)
	return l.items(i, j)
}

// Items returns every stored entry.
func (l *SparseList[T]) Items() []Item[T] { return l.items(0, len(l.keys)) }

// DataBetween returns a dense slice of the values in [from, to].
func (l *SparseList[T]) DataBetween(from, to int) []T {
	out := make([]T, to-from+1)
	for k := range out {
		out[k] = l.def
	}
	i, j := l.bounds(from, to)
	for k := i; k < j; k++ {
		out[l.keys[k]-from] = l.values[k]
	}
	return out
}

// NextIndex returns the first stored index strictly after index.
func (l *SparseList[T]) NextIndex(index int) (int, bool) {
	i := sort.SearchInts(l.keys, index+1)
	if i < len(l.keys) {
		return l.keys[i], true
	}
	return -1, false
}

// InsertAt moves every entry at or after index up by n.
func (l *SparseList[T]) InsertAt(index, n int) {
	for i := sort.SearchInts(l.keys, index); i < len(l.keys); i++ {
		l.keys[i] += n
	}
}

// DeleteAt removes indices index..index+n-1 and moves later entries down by n.
func (l *SparseList[T]) DeleteAt(index, n int) []Item[T] {
	removed := l.ClearBetween(index, index+n-1)
	for i := sort.SearchInts(l.keys, index+n); i < len(l.keys); i++ {
		l.keys[i] -= n
	}
	return removed
}

// bounds returns the [i, j) slice range of keys within [from, to].
func (l *SparseList[T]) bounds(from, to int) (int, int) {
	i := sort.SearchInts(l.keys, from)
	j := sort.SearchInts(l.keys, to+1)
	return i, max(i, j)
}

func (l *SparseList[T]) items(i, j int) []Item[T] {
	if i >= j {
		return nil
	}
	out := make([]Item[T], 0, j-i)
	for k := i; k < j; k++ {
		out = append(out, Item[T]{Index: l.keys[k], Value: l.values[k]})
	}
	return out
}

func (l *SparseList[T]) removeRange(i, j int) {
	if i >= j {
		return
	}
	l.keys = append(l.keys[:i], l.keys[j:]...)
	l.values = append(l.values[:i], l.values[j:]...)
}
