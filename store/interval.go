package store

import (
	"fmt"
	"iter"
	"sort"
)

// Interval is an inclusive [Start, End] range carrying a value.
type Interval[T any] struct {
	Start int
	End   int
	Value T
}

// Len is the number of positions covered.
func (iv Interval[T]) Len() int { return iv.End - iv.Start + 1 }

// IntervalChange records one overwrite of [Start, End] and the pieces that
// covered that span beforehand.
type IntervalChange[T any] struct {
	Start int
	End   int
	Prior []Interval[T]
}

// IntervalRestoreData is the ordered change log of a mutation.
type IntervalRestoreData[T any] struct {
	Changes []IntervalChange[T]
}

// Merge appends o's changes after d's.
func (d *IntervalRestoreData[T]) Merge(o IntervalRestoreData[T]) {
	d.Changes = append(d.Changes, o.Changes...)
}

// Empty reports whether nothing was captured.
func (d IntervalRestoreData[T]) Empty() bool { return len(d.Changes) == 0 }

// IntervalStore maps non-overlapping inclusive ranges of a single axis to
// values. Stored intervals are kept in ascending start order and are never
// coalesced; positions without an interval read as the default.
//
// A zero value is not ready to use; construct with NewIntervalStore.
type IntervalStore[T any] struct {
	intervals []Interval[T]
	def       T
}

// NewIntervalStore returns an empty store whose uncovered positions read as def.
func NewIntervalStore[T any](def T) *IntervalStore[T] {
	return &IntervalStore[T]{def: def}
}

// Default returns the value of uncovered positions.
func (s *IntervalStore[T]) Default() T { return s.def }

// Len is the number of stored intervals.
func (s *IntervalStore[T]) Len() int { return len(s.intervals) }

// All iterates the stored intervals in ascending order.
func (s *IntervalStore[T]) All() iter.Seq[Interval[T]] {
	return func(yield func(Interval[T]) bool) {
		for _, iv := range s.intervals {
			if !yield(iv) {
				return
			}
		}
	}
}

// Intervals returns a copy of the stored intervals.
func (s *IntervalStore[T]) Intervals() []Interval[T] {
	out := make([]Interval[T], len(s.intervals))
	copy(out, s.intervals)
	return out
}

// End returns the last covered position, or -1 when empty.
func (s *IntervalStore[T]) End() int {
	if len(s.intervals) == 0 {
		return -1
	}
	return s.intervals[len(s.intervals)-1].End
}

// indexAtOrAfter returns the index of the first interval whose End >= pos.
func (s *IntervalStore[T]) indexAtOrAfter(pos int) int {
	return sort.Search(len(s.intervals), func(i int) bool { return s.intervals[i].End >= pos })
}

// Find returns the interval covering pos.
func (s *IntervalStore[T]) Find(pos int) (Interval[T], bool) {
	i := s.indexAtOrAfter(pos)
	if i < len(s.intervals) && s.intervals[i].Start <= pos {
		return s.intervals[i], true
	}
	return Interval[T]{}, false
}

// Get returns the value at pos, or the default when uncovered.
func (s *IntervalStore[T]) Get(pos int) T {
	if iv, ok := s.Find(pos); ok {
		return iv.Value
	}
	return s.def
}

// Contains reports whether pos is covered.
func (s *IntervalStore[T]) Contains(pos int) bool {
	_, ok := s.Find(pos)
	return ok
}

// Overlapping returns the intervals intersecting [start, end], clipped to it.
func (s *IntervalStore[T]) Overlapping(start, end int) []Interval[T] {
	var out []Interval[T]
	for i := s.indexAtOrAfter(start); i < len(s.intervals) && s.intervals[i].Start <= end; i++ {
		iv := s.intervals[i]
		iv.Start = max(iv.Start, start)
		iv.End = min(iv.End, end)
		out = append(out, iv)
	}
	return out
}

// Set overwrites [start, end] with value and returns the displaced pieces,
// clipped to [start, end].
func (s *IntervalStore[T]) Set(start, end int, value T) []Interval[T] {
	removed := s.Cut(start, end)
	i := s.indexAtOrAfter(start)
	s.intervals = append(s.intervals, Interval[T]{})
	copy(s.intervals[i+1:], s.intervals[i:])
	s.intervals[i] = Interval[T]{Start: start, End: end, Value: value}
	return removed
}

// BatchSet applies each interval in order, as repeated calls to Set would.
func (s *IntervalStore[T]) BatchSet(intervals []Interval[T]) []Interval[T] {
	var removed []Interval[T]
	for _, iv := range intervals {
		removed = append(removed, s.Set(iv.Start, iv.End, iv.Value)...)
	}
	return removed
}

// Cut uncovers [start, end], splitting intervals that straddle either edge,
// and returns what was removed.
func (s *IntervalStore[T]) Cut(start, end int) []Interval[T] {
	checkSpan("interval", start, end)
	i := s.indexAtOrAfter(start)
	if i == len(s.intervals) || s.intervals[i].Start > end {
		return nil
	}

	var removed []Interval[T]
	var keep []Interval[T]
	j := i
	for ; j < len(s.intervals) && s.intervals[j].Start <= end; j++ {
		iv := s.intervals[j]
		if iv.Start < start {
			keep = append(keep, Interval[T]{Start: iv.Start, End: start - 1, Value: iv.Value})
		}
		removed = append(removed, Interval[T]{Start: max(iv.Start, start), End: min(iv.End, end), Value: iv.Value})
		if iv.End > end {
			keep = append(keep, Interval[T]{Start: end + 1, End: iv.End, Value: iv.Value})
		}
	}

	tail := append(keep, s.intervals[j:]...)
	s.intervals = append(s.intervals[:i], tail...)
	return removed
}

// InsertAt opens n positions at start. Intervals at or after start move
// right by n. An interval straddling start is split so the gap reads as the
// default, unless expand is set, in which case it grows by n instead.
func (s *IntervalStore[T]) InsertAt(start, n int, expand bool) {
	checkCount("interval", n)
	if n == 0 {
		return
	}
	i := s.indexAtOrAfter(start)
	if i < len(s.intervals) && s.intervals[i].Start < start {
		iv := s.intervals[i]
		if expand {
			s.intervals[i].End += n
			i++
		} else {
			s.intervals[i].End = start - 1
			right := Interval[T]{Start: start + n, End: iv.End + n, Value: iv.Value}
			s.intervals = append(s.intervals, Interval[T]{})
			copy(s.intervals[i+2:], s.intervals[i+1:])
			s.intervals[i+1] = right
			i += 2
		}
	}
	for ; i < len(s.intervals); i++ {
		s.intervals[i].Start += n
		s.intervals[i].End += n
	}
}

// RemoveAt deletes positions start..start+n-1, returning the removed pieces
// and moving everything after the band left by n.
func (s *IntervalStore[T]) RemoveAt(start, n int) []Interval[T] {
	checkCount("interval", n)
	if n == 0 {
		return nil
	}
	removed := s.Cut(start, start+n-1)
	for i := s.indexAtOrAfter(start + n); i < len(s.intervals); i++ {
		s.intervals[i].Start -= n
		s.intervals[i].End -= n
	}
	return removed
}

// Restore replays a change log backwards and returns the log that undoes
// the replay.
func (s *IntervalStore[T]) Restore(data IntervalRestoreData[T]) IntervalRestoreData[T] {
	var inverse IntervalRestoreData[T]
	for i := len(data.Changes) - 1; i >= 0; i-- {
		c := data.Changes[i]
		current := s.Cut(c.Start, c.End)
		for _, iv := range c.Prior {
			s.Set(iv.Start, iv.End, iv.Value)
		}
		inverse.Changes = append(inverse.Changes, IntervalChange[T]{Start: c.Start, End: c.End, Prior: current})
	}
	return inverse
}

// Complement returns the parts of [start, end] that pieces leave uncovered,
// each carrying fill. pieces must be sorted and clipped to the span, as
// Overlapping returns them.
func Complement[T, U any](pieces []Interval[T], start, end int, fill U) []Interval[U] {
	var out []Interval[U]
	next := start
	for _, p := range pieces {
		if p.Start > next {
			out = append(out, Interval[U]{Start: next, End: p.Start - 1, Value: fill})
		}
		next = p.End + 1
	}
	if next <= end {
		out = append(out, Interval[U]{Start: next, End: end, Value: fill})
	}
	return out
}

// Cover returns pieces with every gap of [start, end] filled with fill.
func Cover[T any](pieces []Interval[T], start, end int, fill T) []Interval[T] {
	gaps := Complement(pieces, start, end, fill)
	out := make([]Interval[T], 0, len(pieces)+len(gaps))
	i, j := 0, 0
	for i < len(pieces) || j < len(gaps) {
		if j == len(gaps) || (i < len(pieces) && pieces[i].Start < gaps[j].Start) {
			out = append(out, pieces[i])
			i++
		} else {
			out = append(out, gaps[j])
			j++
		}
	}
	return out
}

func checkSpan(what string, start, end int) {
	if start < 0 || start > end {
		panic(fmt.Sprintf("%s: invalid span [%d, %d]", what, start, end))
	}
}

func checkCount(what string, n int) {
	if n < 0 {
		panic(fmt.Sprintf("%s: negative count %d", what, n))
	}
}
