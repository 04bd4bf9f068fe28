package sheetcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisInfo_OffsetsFollowSizes(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Rows.SetSize(2, 3, 50)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Rows.Offset(0))
	assert.Equal(t, 100.0, s.Rows.Offset(3))
	assert.Equal(t, 150.0, s.Rows.Offset(4))
	assert.Equal(t, 300.0, s.Rows.TotalSize())
	assert.Equal(t, 100.0, s.Rows.SizeBetween(2, 4))

	assert.Equal(t, 3, s.Rows.IndexAt(149))
	assert.Equal(t, 4, s.Rows.IndexAt(150))
	assert.Equal(t, 9, s.Rows.IndexAt(1e9), "clamped to the last row")
}

func TestAxisInfo_SetSizeValidates(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Columns.SetSize(3, 1, 10)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = s.Columns.SetSize(0, 10, 10)
	assert.ErrorIs(t, err, ErrOutOfSheet)
	_, err = s.Columns.SetSize(0, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestAxisInfo_HideRowsAndRestore(t *testing.T) {
	s := NewSheet(100, 100)

	rd, err := s.Rows.Hide(10, 18)
	require.NoError(t, err)
	for row := 10; row <= 18; row++ {
		assert.Equal(t, 0.0, s.Rows.Size(row), "row %d", row)
		assert.False(t, s.Rows.IsVisible(row), "row %d", row)
	}
	for _, row := range []int{0, 9, 19, 99} {
		assert.Equal(t, 25.0, s.Rows.Size(row), "row %d", row)
		assert.True(t, s.Rows.IsVisible(row), "row %d", row)
	}
	assert.Equal(t, 250.0, s.Rows.Offset(10))
	assert.Equal(t, 250.0, s.Rows.Offset(19))
	assert.Equal(t, 19, s.Rows.IndexAt(250), "hidden rows are skipped")

	redo := s.Restore(rd)
	for row := 10; row <= 18; row++ {
		assert.Equal(t, 25.0, s.Rows.Size(row), "row %d", row)
		assert.True(t, s.Rows.IsVisible(row), "row %d", row)
	}
	assert.Equal(t, 475.0, s.Rows.Offset(19))

	s.Restore(redo)
	assert.False(t, s.Rows.IsVisible(12))
	assert.Equal(t, 0.0, s.Rows.Size(12))
}

func TestAxisInfo_UnhideRestoresRememberedSizes(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Rows.SetSize(4, 4, 40)
	require.NoError(t, err)
	_, err = s.Rows.Hide(2, 6)
	require.NoError(t, err)

	// resizing a hidden row only changes what it comes back at
	_, err = s.Rows.SetSize(3, 3, 60)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Rows.Size(3))

	rd, err := s.Rows.Unhide(2, 6)
	require.NoError(t, err)
	assert.Equal(t, 25.0, s.Rows.Size(2))
	assert.Equal(t, 60.0, s.Rows.Size(3))
	assert.Equal(t, 40.0, s.Rows.Size(4))
	assert.True(t, s.Rows.IsVisible(4))

	s.Restore(rd)
	assert.Equal(t, 0.0, s.Rows.Size(4))
	assert.False(t, s.Rows.IsVisible(4))
}

func TestAxisInfo_HideTwiceKeepsOriginalSize(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Columns.SetSize(1, 1, 30)
	require.NoError(t, err)
	_, err = s.Columns.Hide(1, 1)
	require.NoError(t, err)
	_, err = s.Columns.Hide(0, 2)
	require.NoError(t, err)

	_, err = s.Columns.Unhide(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 105.0, s.Columns.Size(0))
	assert.Equal(t, 30.0, s.Columns.Size(1))
}

func TestAxisInfo_HeadingsFollowInsert(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Columns.SetHeading(2, 2, "Total")
	require.NoError(t, err)

	rd, err := s.InsertCols(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "Total", s.Columns.Heading(3))
	assert.Equal(t, "", s.Columns.Heading(2))

	s.Restore(rd)
	assert.Equal(t, "Total", s.Columns.Heading(2))
}

func TestAxisInfo_DirtyOnResize(t *testing.T) {
	s := newTestSheet(t)
	var events []DirtyEvent
	s.OnDirty(func(ev DirtyEvent) { events = append(events, ev) })

	_, err := s.Rows.SetSize(5, 5, 30)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Regions, 1)
	assert.Equal(t, 5, events[0].Regions[0].Top)
}
