package sheetcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/sheetcore/store"
)

func TestInsertDelimitedText_Basic(t *testing.T) {
	s := newTestSheet(t)
	region, rd, err := s.InsertDelimitedText("a\tb\nc\td\n", store.Position{Row: 1, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, store.NewRegion(1, 2, 1, 2), region)
	assert.Equal(t, "a", s.Cells.GetValue(1, 1))
	assert.Equal(t, "b", s.Cells.GetValue(1, 2))
	assert.Equal(t, "c", s.Cells.GetValue(2, 1))
	assert.Equal(t, "d", s.Cells.GetValue(2, 2))
	assert.Nil(t, s.Cells.GetValue(3, 1), "trailing newline adds no row")

	s.Restore(rd)
	assert.Empty(t, s.Cells.NonEmptyPositions(s.Region()))
}

func TestInsertDelimitedText_LineEndings(t *testing.T) {
	s := newTestSheet(t)
	region, _, err := s.InsertDelimitedText("a\r\nb\rc", store.Position{})
	require.NoError(t, err)
	assert.Equal(t, store.NewRegion(0, 2, 0, 0), region)
	assert.Equal(t, []any{"a", "b", "c"}, []any{
		s.Cells.GetValue(0, 0), s.Cells.GetValue(1, 0), s.Cells.GetValue(2, 0),
	})
}

func TestInsertDelimitedText_RaggedRows(t *testing.T) {
	s := newTestSheet(t)
	region, _, err := s.InsertDelimitedText("a\tb\tc\nd", store.Position{})
	require.NoError(t, err)
	assert.Equal(t, store.NewRegion(0, 1, 0, 2), region)
	assert.Nil(t, s.Cells.GetValue(1, 1))
}

func TestInsertDelimitedText_KeepsEmptyFields(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Cells.SetValue(0, 1, "old")
	require.NoError(t, err)

	_, _, err = s.InsertDelimitedText("a\t\tc", store.Position{})
	require.NoError(t, err)
	assert.Equal(t, "", s.Cells.GetValue(0, 1))
}

func TestInsertDelimitedText_ClipsToSheet(t *testing.T) {
	s := NewSheet(3, 3)
	region, _, err := s.InsertDelimitedText("1\t2\t3\t4\n5\n6\n7", store.Position{Row: 1, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, store.NewRegion(1, 2, 1, 2), region)
	assert.Equal(t, "2", s.Cells.GetValue(1, 2))
	assert.Equal(t, "5", s.Cells.GetValue(2, 1))
}

func TestInsertDelimitedText_EdgeCases(t *testing.T) {
	s := newTestSheet(t)

	_, _, err := s.InsertDelimitedText("x", store.Position{Row: 10})
	assert.ErrorIs(t, err, ErrOutOfSheet)

	region, rd, err := s.InsertDelimitedText("", store.Position{Row: 4, Col: 4})
	require.NoError(t, err)
	assert.Equal(t, store.CellRegion(4, 4), region)
	assert.True(t, rd.Empty())
}

func TestGetRegionAsDelimitedText(t *testing.T) {
	s := newTestSheet(t)
	_, err := s.Cells.SetValues([]CellValue{
		{0, 0, "x\ty"},
		{0, 1, 1.5},
		{1, 1, "line\nbreak"},
		{1, 2, true},
	})
	require.NoError(t, err)

	text, ok := s.GetRegionAsDelimitedText(store.NewRegion(0, 1, 0, 2))
	require.True(t, ok)
	assert.Equal(t, "x y\t1.5\t\n\tline break\tTRUE\n", text)

	_, ok = s.GetRegionAsDelimitedText(store.NewRegion(20, 21, 0, 0))
	assert.False(t, ok)
}

func TestDelimitedText_RoundTrip(t *testing.T) {
	s := newTestSheet(t)
	in := "name\tqty\nbolt\t4\nnut\t\n"
	region, _, err := s.InsertDelimitedText(in, store.Position{Row: 2, Col: 3})
	require.NoError(t, err)

	out, ok := s.GetRegionAsDelimitedText(region)
	require.True(t, ok)
	assert.Equal(t, in, out)
}
