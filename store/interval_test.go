package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalStore_GetReturnsDefaultWhenUncovered(t *testing.T) {
	s := NewIntervalStore("none")
	s.Set(2, 4, "a")

	assert.Equal(t, "none", s.Get(1))
	assert.Equal(t, "a", s.Get(2))
	assert.Equal(t, "a", s.Get(4))
	assert.Equal(t, "none", s.Get(5))
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(0))
}

func TestIntervalStore_Set_SplitsAndReturnsDisplaced(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(0, 10, 1)

	removed := s.Set(3, 5, 2)
	assert.Equal(t, []Interval[int]{{Start: 3, End: 5, Value: 1}}, removed)
	assert.Equal(t, []Interval[int]{
		{Start: 0, End: 2, Value: 1},
		{Start: 3, End: 5, Value: 2},
		{Start: 6, End: 10, Value: 1},
	}, s.Intervals())
}

func TestIntervalStore_Set_SpanningSeveral(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(0, 1, 1)
	s.Set(3, 4, 2)
	s.Set(6, 8, 3)

	removed := s.Set(1, 7, 9)
	assert.Equal(t, []Interval[int]{
		{Start: 1, End: 1, Value: 1},
		{Start: 3, End: 4, Value: 2},
		{Start: 6, End: 7, Value: 3},
	}, removed)
	assert.Equal(t, []Interval[int]{
		{Start: 0, End: 0, Value: 1},
		{Start: 1, End: 7, Value: 9},
		{Start: 8, End: 8, Value: 3},
	}, s.Intervals())
}

func TestIntervalStore_AdjacentIntervalsAreNotCoalesced(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(0, 1, 5)
	s.Set(2, 3, 5)
	assert.Equal(t, 2, s.Len())
}

func TestIntervalStore_BatchSet_AppliesInOrder(t *testing.T) {
	s := NewIntervalStore(0)
	s.BatchSet([]Interval[int]{
		{Start: 0, End: 5, Value: 1},
		{Start: 2, End: 3, Value: 2},
		{Start: 3, End: 8, Value: 3},
	})
	assert.Equal(t, []Interval[int]{
		{Start: 0, End: 1, Value: 1},
		{Start: 2, End: 2, Value: 2},
		{Start: 3, End: 8, Value: 3},
	}, s.Intervals())
}

func TestIntervalStore_Cut(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(0, 9, 1)
	removed := s.Cut(4, 5)
	assert.Equal(t, []Interval[int]{{Start: 4, End: 5, Value: 1}}, removed)
	assert.Equal(t, 0, s.Get(4))
	assert.Equal(t, 1, s.Get(3))
	assert.Equal(t, 1, s.Get(6))
	assert.Nil(t, s.Cut(20, 30))
}

func TestIntervalStore_InsertAt_SplitsStraddlingInterval(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(2, 5, 7)
	s.Set(8, 9, 3)

	s.InsertAt(4, 2, false)
	assert.Equal(t, []Interval[int]{
		{Start: 2, End: 3, Value: 7},
		{Start: 6, End: 7, Value: 7},
		{Start: 10, End: 11, Value: 3},
	}, s.Intervals())
	assert.Equal(t, 0, s.Get(4))
	assert.Equal(t, 0, s.Get(5))
}

func TestIntervalStore_InsertAt_ExpandGrowsStraddlingInterval(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(2, 5, 7)
	s.Set(8, 9, 3)

	s.InsertAt(4, 2, true)
	assert.Equal(t, []Interval[int]{
		{Start: 2, End: 7, Value: 7},
		{Start: 10, End: 11, Value: 3},
	}, s.Intervals())
}

func TestIntervalStore_InsertAt_AtStartShifts(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(2, 5, 7)
	s.InsertAt(2, 3, false)
	assert.Equal(t, []Interval[int]{{Start: 5, End: 8, Value: 7}}, s.Intervals())
}

func TestIntervalStore_RemoveAt(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(0, 3, 1)
	s.Set(6, 9, 2)

	removed := s.RemoveAt(2, 5)
	assert.Equal(t, []Interval[int]{
		{Start: 2, End: 3, Value: 1},
		{Start: 6, End: 6, Value: 2},
	}, removed)
	assert.Equal(t, []Interval[int]{
		{Start: 0, End: 1, Value: 1},
		{Start: 2, End: 4, Value: 2},
	}, s.Intervals())
}

func TestIntervalStore_InsertThenRemoveRoundTrips(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(1, 3, 1)
	s.Set(5, 5, 2)
	before := s.Intervals()

	s.InsertAt(4, 3, false)
	s.RemoveAt(4, 3)
	assert.Equal(t, before, s.Intervals())
}

func TestIntervalStore_Restore_ReversesChangeLog(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(0, 9, 1)
	before := intervalValues(s, 15)

	var data IntervalRestoreData[int]
	data.Changes = append(data.Changes, IntervalChange[int]{Start: 2, End: 4, Prior: s.Set(2, 4, 5)})
	data.Changes = append(data.Changes, IntervalChange[int]{Start: 3, End: 12, Prior: s.Set(3, 12, 6)})
	after := intervalValues(s, 15)

	inverse := s.Restore(data)
	assert.Equal(t, before, intervalValues(s, 15))

	s.Restore(inverse)
	assert.Equal(t, after, intervalValues(s, 15))
}

func intervalValues(s *IntervalStore[int], n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.Get(i)
	}
	return out
}

func TestIntervalStore_Overlapping_Clips(t *testing.T) {
	s := NewIntervalStore(0)
	s.Set(0, 4, 1)
	s.Set(6, 10, 2)
	assert.Equal(t, []Interval[int]{
		{Start: 3, End: 4, Value: 1},
		{Start: 6, End: 7, Value: 2},
	}, s.Overlapping(3, 7))
}

func TestIntervalStore_PanicsOnInvalidSpan(t *testing.T) {
	s := NewIntervalStore(0)
	require.Panics(t, func() { s.Set(5, 2, 1) })
	require.Panics(t, func() { s.InsertAt(0, -1, false) })
}

func TestComplementAndCover(t *testing.T) {
	pieces := []Interval[int]{{Start: 2, End: 3, Value: 1}, {Start: 6, End: 6, Value: 2}}

	assert.Equal(t, []Interval[bool]{
		{Start: 0, End: 1, Value: true},
		{Start: 4, End: 5, Value: true},
		{Start: 7, End: 8, Value: true},
	}, Complement(pieces, 0, 8, true))

	assert.Equal(t, []Interval[int]{
		{Start: 2, End: 3, Value: 1},
		{Start: 4, End: 5, Value: 9},
		{Start: 6, End: 6, Value: 2},
	}, Cover(pieces, 2, 6, 9))

	assert.Nil(t, Complement(pieces[:1], 2, 3, 0))
}
