package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHeights builds the axis
//
//	   0    1    2    3    4 ...
//	| 20 | 10 | 30   30 | 10 ...
func newHeights(t *testing.T) *CumulativeStore {
	t.Helper()
	s := NewCumulativeStore(10)
	s.Set(0, 0, 20)
	s.Set(2, 3, 30)
	return s
}

func TestCumulativeStore_EmptyUsesDefault(t *testing.T) {
	s := NewCumulativeStore(15)
	assert.Equal(t, 0.0, s.Cumulative(0))
	assert.Equal(t, 150.0, s.Cumulative(10))
	assert.Equal(t, 10, s.Position(150))
	assert.Equal(t, 9, s.Position(149))
}

func TestCumulativeStore_Cumulative(t *testing.T) {
	s := newHeights(t)
	assert.Equal(t, 0.0, s.Cumulative(0))
	assert.Equal(t, 20.0, s.Cumulative(1))
	assert.Equal(t, 30.0, s.Cumulative(2))
	assert.Equal(t, 60.0, s.Cumulative(3))
	assert.Equal(t, 90.0, s.Cumulative(4))
	assert.Equal(t, 100.0, s.Cumulative(5))
	assert.Equal(t, 70.0, s.SizeBetween(1, 4))
}

func TestCumulativeStore_Position(t *testing.T) {
	s := newHeights(t)
	assert.Equal(t, 0, s.Position(-5))
	assert.Equal(t, 0, s.Position(0))
	assert.Equal(t, 0, s.Position(19.9))
	assert.Equal(t, 1, s.Position(20))
	assert.Equal(t, 1, s.Position(29))
	assert.Equal(t, 2, s.Position(30))
	assert.Equal(t, 2, s.Position(59))
	assert.Equal(t, 3, s.Position(60))
	assert.Equal(t, 4, s.Position(95))
	assert.Equal(t, 95, s.Position(1000))
}

func TestCumulativeStore_PositionInvertsCumulative(t *testing.T) {
	s := NewCumulativeStore(12)
	s.Set(3, 7, 5)
	s.Set(10, 10, 40)
	s.Set(20, 30, 1.5)
	for p := 0; p < 60; p++ {
		require.Equal(t, p, s.Position(s.Cumulative(p)), "position %d", p)
	}
}

func TestCumulativeStore_ZeroSizedRunResolvesPastIt(t *testing.T) {
	s := NewCumulativeStore(10)
	s.Set(2, 3, 0)

	assert.Equal(t, 20.0, s.Cumulative(2))
	assert.Equal(t, 20.0, s.Cumulative(4))
	assert.Equal(t, 4, s.Position(20))
	assert.Equal(t, 1, s.Position(19))
	for _, p := range []int{0, 1, 4, 5, 9} {
		assert.Equal(t, p, s.Position(s.Cumulative(p)))
	}
}

func TestCumulativeStore_ZeroDefaultDoesNotDivideByZero(t *testing.T) {
	s := NewCumulativeStore(0)
	s.Set(2, 3, 10)

	assert.Equal(t, 0.0, s.Cumulative(2))
	assert.Equal(t, 20.0, s.Cumulative(9))
	assert.Equal(t, 2, s.Position(0))
	assert.Equal(t, 3, s.Position(10))
	assert.Equal(t, 4, s.Position(500))
}

func TestCumulativeStore_MutationInvalidatesTables(t *testing.T) {
	s := newHeights(t)
	require.Equal(t, 100.0, s.Cumulative(5))

	s.Set(1, 1, 50)
	assert.Equal(t, 140.0, s.Cumulative(5))

	s.Cut(2, 3)
	assert.Equal(t, 100.0, s.Cumulative(5))

	s.InsertAt(0, 2)
	assert.Equal(t, 20.0, s.Cumulative(2))
	assert.Equal(t, 40.0, s.Cumulative(3))

	s.RemoveAt(0, 2)
	assert.Equal(t, 100.0, s.Cumulative(5))
}

func TestCumulativeStore_RestoreRebuilds(t *testing.T) {
	s := newHeights(t)
	var data IntervalRestoreData[float64]
	data.Changes = append(data.Changes, IntervalChange[float64]{Start: 0, End: 4, Prior: s.Set(0, 4, 1)})
	require.Equal(t, 5.0, s.Cumulative(5))

	inverse := s.Restore(data)
	assert.Equal(t, 100.0, s.Cumulative(5))

	s.Restore(inverse)
	assert.Equal(t, 5.0, s.Cumulative(5))
}
