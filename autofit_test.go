package sheetcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/sheetcore/store"
)

func TestAutoFitColumns(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Cells.SetValues([]CellValue{
		{0, 0, "hello"},
		{1, 0, "hi"},
		{0, 2, "日本"},
		{0, 3, "ab\nabcdef"},
		{0, 4, 1.5},
	})
	require.NoError(t, err)

	rd, err := s.AutoFitColumns(0, 4)
	require.NoError(t, err)
	assert.Equal(t, 5*7.0+8, s.Columns.Size(0))
	assert.Equal(t, 105.0, s.Columns.Size(1), "empty columns keep the default")
	assert.Equal(t, 4*7.0+8, s.Columns.Size(2), "wide runes count twice")
	assert.Equal(t, 6*7.0+8, s.Columns.Size(3), "widest line wins")
	assert.Equal(t, 3*7.0+8, s.Columns.Size(4))

	s.Restore(rd)
	for col := 0; col <= 4; col++ {
		assert.Equal(t, 105.0, s.Columns.Size(col), "col %d", col)
	}
}

func TestAutoFitColumns_Options(t *testing.T) {
	s := newTestSheet(t, WithCharWidth(10), WithCellPadding(0))
	_, err := s.Cells.SetValue(0, 0, "abc")
	require.NoError(t, err)

	_, err = s.AutoFitColumns(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 30.0, s.Columns.Size(0))
}

func TestAutoFitColumns_SkipsMergedAndHidden(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Cells.SetValue(3, 2, "a rather long title")
	require.NoError(t, err)
	_, err = s.Cells.Merge(store.NewRegion(3, 3, 2, 3))
	require.NoError(t, err)
	_, err = s.Cells.SetValue(0, 5, "hidden text")
	require.NoError(t, err)
	_, err = s.Columns.Hide(5, 5)
	require.NoError(t, err)

	rd, err := s.AutoFitColumns(0, 9)
	require.NoError(t, err)
	assert.True(t, rd.Empty())
	assert.Equal(t, 105.0, s.Columns.Size(2))
	assert.Equal(t, 0.0, s.Columns.Size(5))
}

func TestAutoFitRows(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Cells.SetValue(0, 0, "a\nb\nc")
	require.NoError(t, err)
	_, err = s.Rows.SetSize(1, 1, 60)
	require.NoError(t, err)

	_, err = s.AutoFitRows(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 75.0, s.Rows.Size(0))
	assert.Equal(t, 25.0, s.Rows.Size(1))
	assert.Equal(t, 25.0, s.Rows.Size(2))

	_, err = s.AutoFitRows(0, 20)
	assert.ErrorIs(t, err, ErrOutOfSheet)
}
