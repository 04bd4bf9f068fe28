package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFiveRegionStore builds
//
//	       0  1  2  3  4  5
//	   0 | 5|  |  |  | 3|  |
//	   1 | 1|  |  |  | 3|  |
//	   2 |  |  | 2| 2| 3|  |
//	   3 |  |  | 2| 2|  |  |
//	   4 |  |  |  |  |  |  |
//	   5 |  |  |  |  |  | 4|
func newFiveRegionStore(t *testing.T, opts ...RegionOption) *RegionStore[int] {
	t.Helper()
	s := NewRegionStore[int](opts...)
	s.Add(CellRegion(1, 0), 1)
	s.Add(NewRegion(2, 3, 2, 3), 2)
	s.Add(NewRegion(0, 2, 4, 4), 3)
	s.Add(CellRegion(5, 5), 4)
	s.Add(CellRegion(0, 0), 5)
	return s
}

func TestRegionStore_AddAndRetrieve(t *testing.T) {
	s := NewRegionStore[bool]()
	s.Add(NewRegion(1, 2, 1, 2), true)
	require.Len(t, s.GetAllDataRegions(), 1)

	for _, p := range []Position{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		regions := s.GetDataRegions(p.Row, p.Col)
		require.Len(t, regions, 1, p.String())
		assert.True(t, regions[0].Data)
		assert.Equal(t, []bool{true}, s.GetData(p.Row, p.Col))
	}
	for _, p := range []Position{{0, 1}, {3, 1}, {1, 3}, {2, 3}} {
		assert.Empty(t, s.GetDataRegions(p.Row, p.Col), p.String())
	}
}

func TestRegionStore_SingleCellDoesNotLeak(t *testing.T) {
	s := NewRegionStore[bool]()
	s.Add(CellRegion(1, 1), true)
	assert.NotEmpty(t, s.GetDataRegions(1, 1))
	assert.Empty(t, s.GetDataRegions(0, 1))
	assert.Empty(t, s.GetDataRegions(2, 1))
	assert.Empty(t, s.GetDataRegions(2, 2))
}

func TestRegionStore_SharedPayload(t *testing.T) {
	s := NewRegionStore[string]()
	s.Add(NewRegion(0, 1, 0, 1), "rule")
	s.Add(NewRegion(5, 6, 5, 6), "rule")
	s.Add(NewRegion(0, 6, 0, 0), "other")

	assert.Equal(t, []Region{NewRegion(0, 1, 0, 1), NewRegion(5, 6, 5, 6)}, s.GetRegions("rule"))
	assert.ElementsMatch(t, []string{"rule", "other"}, s.GetData(0, 0))

	b, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, NewRegion(0, 6, 0, 6), b)
}

func TestRegionStore_RemoveRowsShiftsRemovesAndContracts(t *testing.T) {
	s := newFiveRegionStore(t)
	s.RemoveRows(1, 3)

	//	       0  1  2  3  4  5
	//	   0 | 5|  |  |  | 3|  |
	//	   1 |  |  |  |  |  |  |
	//	   2 |  |  |  |  |  | 4|
	assert.NotEmpty(t, s.GetData(0, 0))
	assert.Empty(t, s.GetData(0, 1))
	assert.NotEmpty(t, s.GetData(0, 4))
	assert.Empty(t, s.GetData(1, 0))
	assert.Empty(t, s.GetData(1, 4))
	assert.Empty(t, s.GetData(2, 4))
	assert.Empty(t, s.GetData(1, 5))
	assert.Equal(t, []int{4}, s.GetData(2, 5))
	assert.Len(t, s.GetAllDataRegions(), 3)
}

func TestRegionStore_InsertRowsShiftsAndExpands(t *testing.T) {
	s := newFiveRegionStore(t, WithExpandWhenInsertAfter(true))
	s.InsertRows(2, 2)

	//	       0  1  2  3  4  5
	//	   0 | 5|  |  |  | 3|  |
	//	   1 | 1|  |  |  | 3|  |
	//	   2 | 1|  |  |  | 3|  |
	//	   3 | 1|  |  |  | 3|  |
	//	   4 |  |  | 2| 2| 3|  |
	//	   5 |  |  | 2| 2|  |  |
	//	   6 |  |  |  |  |  |  |
	//	   7 |  |  |  |  |  | 4|
	assert.Len(t, s.GetAllDataRegions(), 5)
	assert.NotEmpty(t, s.GetData(0, 0))
	assert.NotEmpty(t, s.GetData(1, 0))
	assert.NotEmpty(t, s.GetData(3, 0))
	assert.NotEmpty(t, s.GetData(0, 4))
	assert.NotEmpty(t, s.GetData(4, 4))
	assert.Empty(t, s.GetData(2, 2))
	assert.Empty(t, s.GetData(6, 5))
	assert.NotEmpty(t, s.GetData(7, 5))
}

func TestRegionStore_InsertRowsWithoutExpandLeavesRegionAbove(t *testing.T) {
	s := newFiveRegionStore(t)
	s.InsertRows(2, 2)

	assert.Equal(t, []Region{CellRegion(1, 0)}, s.GetRegions(1))
	assert.Equal(t, []Region{NewRegion(0, 4, 4, 4)}, s.GetRegions(3))
	assert.Equal(t, []Region{NewRegion(4, 5, 2, 3)}, s.GetRegions(2))
}

func TestRegionStore_InsertAtSameRowShiftsDown(t *testing.T) {
	s := NewRegionStore[int]()
	s.Add(CellRegion(0, 0), -1)
	s.InsertRows(0, 1)
	assert.Empty(t, s.GetData(0, 0))
	assert.Equal(t, []int{-1}, s.GetData(1, 0))
}

func TestRegionStore_InsertAtSameColShiftsRight(t *testing.T) {
	s := NewRegionStore[int]()
	s.Add(CellRegion(0, 0), -1)
	s.InsertCols(0, 1)
	assert.Empty(t, s.GetData(0, 0))
	assert.Equal(t, []int{-1}, s.GetData(0, 1))
}

func TestRegionStore_InsertThenRemoveRoundTrips(t *testing.T) {
	for _, expand := range []bool{false, true} {
		s := newFiveRegionStore(t, WithExpandWhenInsertAfter(expand))
		before := s.GetAllDataRegions()

		s.InsertRows(2, 3)
		s.RemoveRows(2, 4)
		assert.ElementsMatch(t, before, s.GetAllDataRegions())

		s.InsertCols(3, 2)
		s.RemoveCols(3, 4)
		assert.ElementsMatch(t, before, s.GetAllDataRegions())
	}
}

func TestRegionStore_UnboundedRegionsKeepOpenEdges(t *testing.T) {
	s := NewRegionStore[int]()
	s.Add(RowRegion(3, 4), 1)
	s.Add(ColumnRegion(2, 2), 2)

	s.InsertCols(0, 5)
	s.InsertRows(0, 5)
	assert.Equal(t, []Region{RowRegion(8, 9)}, s.GetRegions(1))
	assert.Equal(t, ColumnRegion(7, 7).Left, s.GetRegions(2)[0].Left)
	assert.Equal(t, Unbounded, s.GetRegions(2)[0].Bottom)

	s.RemoveRows(0, 8)
	assert.Equal(t, []Region{RowRegion(0, 0)}, s.GetRegions(1))
}

func TestRegionStore_StructuralRestore(t *testing.T) {
	s := newFiveRegionStore(t)
	before := s.GetAllDataRegions()

	data := s.RemoveRows(1, 3)
	after := s.GetAllDataRegions()

	inverse := s.Restore(data)
	assert.ElementsMatch(t, before, s.GetAllDataRegions())

	s.Restore(inverse)
	assert.ElementsMatch(t, after, s.GetAllDataRegions())
}

func TestRegionStore_CopyWithPartialDataAndRestore(t *testing.T) {
	s := NewRegionStore[int]()
	region := NewRegion(0, 5, 0, 5)
	s.Add(region, -1)

	data := s.Copy(NewRegion(2, 5, 2, 5), Position{Row: 0, Col: 6})
	assert.Equal(t, []int{-1}, s.GetData(0, 0))
	assert.Equal(t, []int{-1}, s.GetData(5, 5))
	assert.Equal(t, []int{-1}, s.GetData(0, 6))
	assert.Equal(t, []int{-1}, s.GetData(3, 6))
	assert.Equal(t, []int{-1}, s.GetData(3, 9))
	assert.Empty(t, s.GetData(4, 10))

	s.Restore(data)
	assert.Equal(t, []RegionData[int]{{Region: region, Data: -1}}, s.GetAllDataRegions())
}

func TestRegionStore_ClearAll(t *testing.T) {
	s := NewRegionStore[int]()
	s.Add(NewRegion(0, 5, 0, 5), -1)
	s.Add(NewRegion(2, 6, 2, 6), -1)
	s.Clear(NewRegion(0, 5, 0, 5))
	assert.Empty(t, s.GetDataRegionsIn(NewRegion(0, 5, 0, 5)))
	assert.Equal(t, []int{-1}, s.GetData(6, 6))
}

func TestRegionStore_ClearContractsAndRestores(t *testing.T) {
	s := NewRegionStore[int]()
	s.Add(NewRegion(0, 4, 0, 4), 7)

	data := s.Clear(NewRegion(1, 2, 1, 2))
	assert.Len(t, s.GetAllDataRegions(), 4)
	assert.Empty(t, s.GetData(1, 1))
	assert.Equal(t, []int{7}, s.GetData(0, 0))
	assert.Equal(t, []int{7}, s.GetData(3, 3))

	s.Restore(data)
	assert.Equal(t, []RegionData[int]{{Region: NewRegion(0, 4, 0, 4), Data: 7}}, s.GetAllDataRegions())
}

func TestRegionStore_ClearDataOnlyTouchesPayload(t *testing.T) {
	s := NewRegionStore[string]()
	s.Add(NewRegion(0, 2, 0, 2), "a")
	s.Add(NewRegion(0, 2, 0, 2), "b")
	s.ClearData(NewRegion(0, 2, 0, 2), "a")
	assert.Equal(t, []string{"b"}, s.GetData(1, 1))
}

func TestRegionStore_MinAreaDropsSmallPieces(t *testing.T) {
	s := NewRegionStore[bool](WithMinArea(1))
	assert.True(t, s.Add(CellRegion(0, 0), true).Empty())

	s.Add(NewRegion(0, 1, 0, 0), true)
	s.RemoveRows(1, 1)
	assert.Zero(t, s.Len())
}

func TestRegionStore_Delete(t *testing.T) {
	s := NewRegionStore[int]()
	s.Add(NewRegion(0, 1, 0, 1), 1)
	s.Add(NewRegion(0, 1, 0, 1), 2)

	data := s.Delete(NewRegion(0, 1, 0, 1), 1)
	assert.Equal(t, []int{2}, s.GetData(0, 0))
	assert.Len(t, data.Removed, 1)
	assert.True(t, s.Delete(NewRegion(5, 5, 5, 5), 1).Empty())
}

func TestRegionRestoreData_MergeCancels(t *testing.T) {
	e := RegionData[int]{Region: CellRegion(0, 0), Data: 1}
	var d RegionRestoreData[int]
	d.Merge(RegionRestoreData[int]{Added: []RegionData[int]{e}})
	d.Merge(RegionRestoreData[int]{Removed: []RegionData[int]{e}})
	assert.True(t, d.Empty())
}
