package store

import (
	"math"
	"sort"
)

// CumulativeStore holds the sizes of ranges along one axis (row heights,
// column widths) and answers offset queries. The offset of a position is
// the total size of every position before it, so position 0 is always at 0.
//
// Given size 20 at position 0 and size 30 over [2,3]:
//
//	   0       1        2    3      4
//	| 20 | default |   30   30  | default
//
// the offset of 1 is 20, of 2 is 20+default and of 4 is 80+default.
type CumulativeStore struct {
	sizes *IntervalStore[float64]
	def   float64

	// Parallel tables, one entry per stored interval. Entries before
	// dirtyFrom are valid.
	starts    []int
	ends      []int
	values    []float64
	cumStarts []float64
	cumEnds   []float64
	dirtyFrom int
}

// NewCumulativeStore returns a store where unset positions have size def.
func NewCumulativeStore(def float64) *CumulativeStore {
	return &CumulativeStore{sizes: NewIntervalStore(def), def: def}
}

// Default is the size of positions that were never set.
func (s *CumulativeStore) Default() float64 { return s.def }

// Intervals exposes the explicitly sized ranges.
func (s *CumulativeStore) Intervals() []Interval[float64] { return s.sizes.Intervals() }

// Overlapping returns the explicitly sized pieces of [start, end].
func (s *CumulativeStore) Overlapping(start, end int) []Interval[float64] {
	return s.sizes.Overlapping(start, end)
}

// Size returns the size at position.
func (s *CumulativeStore) Size(position int) float64 { return s.sizes.Get(position) }

// Set sizes [start, end] and returns the displaced intervals.
func (s *CumulativeStore) Set(start, end int, size float64) []Interval[float64] {
	removed := s.sizes.Set(start, end, size)
	s.invalidate(start)
	return removed
}

// BatchSet sizes several ranges in order.
func (s *CumulativeStore) BatchSet(intervals []Interval[float64]) []Interval[float64] {
	if len(intervals) == 0 {
		return nil
	}
	removed := s.sizes.BatchSet(intervals)
	from := intervals[0].Start
	for _, iv := range intervals[1:] {
		from = min(from, iv.Start)
	}
	s.invalidate(from)
	return removed
}

// Cut resets [start, end] to the default size.
func (s *CumulativeStore) Cut(start, end int) []Interval[float64] {
	removed := s.sizes.Cut(start, end)
	s.invalidate(start)
	return removed
}

// InsertAt opens n default-sized positions at start.
func (s *CumulativeStore) InsertAt(start, n int) {
	s.sizes.InsertAt(start, n, false)
	s.invalidate(start)
}

// RemoveAt deletes n positions at start.
func (s *CumulativeStore) RemoveAt(start, n int) []Interval[float64] {
	removed := s.sizes.RemoveAt(start, n)
	s.invalidate(start)
	return removed
}

// Restore replays a change log and returns its inverse.
func (s *CumulativeStore) Restore(data IntervalRestoreData[float64]) IntervalRestoreData[float64] {
	inverse := s.sizes.Restore(data)
	for _, c := range data.Changes {
		s.invalidate(c.Start)
	}
	return inverse
}

// invalidate drops cached rows for every interval ending at or after from.
func (s *CumulativeStore) invalidate(from int) {
	valid := min(s.dirtyFrom, len(s.ends))
	i := sort.Search(valid, func(i int) bool { return s.ends[i] >= from })
	s.dirtyFrom = min(s.dirtyFrom, i)
}

func (s *CumulativeStore) rebuild() {
	n := s.sizes.Len()
	if s.dirtyFrom >= n && len(s.starts) == n {
		return
	}
	from := min(s.dirtyFrom, len(s.starts), n)
	s.starts = s.starts[:from]
	s.ends = s.ends[:from]
	s.values = s.values[:from]
	s.cumStarts = s.cumStarts[:from]
	s.cumEnds = s.cumEnds[:from]

	for i := from; i < n; i++ {
		iv := s.sizes.intervals[i]
		var cumStart float64
		if i == 0 {
			cumStart = float64(iv.Start) * s.def
		} else {
			cumStart = s.cumEnds[i-1] + float64(iv.Start-s.ends[i-1]-1)*s.def
		}
		s.starts = append(s.starts, iv.Start)
		s.ends = append(s.ends, iv.End)
		s.values = append(s.values, iv.Value)
		s.cumStarts = append(s.cumStarts, cumStart)
		s.cumEnds = append(s.cumEnds, cumStart+float64(iv.Len())*iv.Value)
	}
	s.dirtyFrom = n
}

// Cumulative returns the offset at the start of position.
func (s *CumulativeStore) Cumulative(position int) float64 {
	s.rebuild()
	n := len(s.starts)
	if n == 0 {
		return float64(position) * s.def
	}
	if position > s.ends[n-1] {
		return s.cumEnds[n-1] + float64(position-s.ends[n-1]-1)*s.def
	}
	// last interval starting at or before position
	i := sort.SearchInts(s.starts, position+1) - 1
	if i < 0 {
		return float64(position) * s.def
	}
	if position <= s.ends[i] {
		return s.cumStarts[i] + float64(position-s.starts[i])*s.values[i]
	}
	return s.cumEnds[i] + float64(position-s.ends[i]-1)*s.def
}

// SizeBetween is the distance from the start of a to the start of b.
func (s *CumulativeStore) SizeBetween(a, b int) float64 {
	return s.Cumulative(b) - s.Cumulative(a)
}

// Position returns the greatest position whose offset is <= cumulative.
// Zero-sized runs therefore resolve to the first position after them. With
// a zero default, positions past the last interval all share one offset
// and resolve to the first of them.
func (s *CumulativeStore) Position(cumulative float64) int {
	cumulative = max(cumulative, 0)
	s.rebuild()
	n := len(s.starts)
	if n == 0 {
		return s.gapPosition(0, 0, cumulative, -1)
	}

	// last interval starting at or below the query
	i := sort.Search(n, func(i int) bool { return s.cumStarts[i] > cumulative }) - 1
	if i < 0 {
		return s.gapPosition(0, 0, cumulative, s.starts[0]-1)
	}
	if cumulative < s.cumEnds[i] {
		p := s.starts[i] + int(math.Floor((cumulative-s.cumStarts[i])/s.values[i]))
		return min(p, s.ends[i])
	}
	limit := -1
	if i+1 < n {
		limit = s.starts[i+1] - 1
	}
	return s.gapPosition(s.ends[i]+1, s.cumEnds[i], cumulative, limit)
}

// gapPosition resolves a query inside a default-sized run beginning at
// position from with offset base. limit is the last position of the run,
// or -1 when the run is unbounded.
func (s *CumulativeStore) gapPosition(from int, base, cumulative float64, limit int) int {
	if s.def <= 0 {
		return from
	}
	p := from + int(math.Floor((cumulative-base)/s.def))
	if limit >= 0 {
		p = min(p, limit)
	}
	return p
}
