package sheetcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/sheetcore/store"
)

func TestViewport_AtOrigin(t *testing.T) {
	s := NewSheet(100, 100)
	vp, ok := s.Viewport(0, 0, 300, 100, 0)
	require.True(t, ok)

	assert.Equal(t, store.NewRegion(0, 4, 0, 2), vp.VisibleRegion)
	assert.Equal(t, 0.0, vp.Left)
	assert.Equal(t, 0.0, vp.Top)
	assert.Equal(t, 315.0, vp.VisibleWidth)
	assert.Equal(t, 125.0, vp.VisibleHeight)
	assert.Equal(t, 10500.0-315, vp.DistanceRight)
	assert.Equal(t, 2500.0-125, vp.DistanceBottom)
}

func TestViewport_ScrolledWithOverflow(t *testing.T) {
	s := NewSheet(100, 100)
	vp, ok := s.Viewport(210, 50, 300, 100, 1)
	require.True(t, ok)

	assert.Equal(t, store.NewRegion(1, 7, 1, 5), vp.VisibleRegion)
	assert.Equal(t, 105.0, vp.Left)
	assert.Equal(t, 25.0, vp.Top)
}

func TestViewport_ClampsAtSheetEnd(t *testing.T) {
	s := NewSheet(10, 10)
	vp, ok := s.Viewport(5000, 5000, 300, 300, 3)
	require.True(t, ok)
	assert.Equal(t, 9, vp.VisibleRegion.Bottom)
	assert.Equal(t, 9, vp.VisibleRegion.Right)
	assert.Equal(t, 0.0, vp.DistanceRight)
	assert.Equal(t, 0.0, vp.DistanceBottom)
}

func TestViewport_SkipsHiddenRows(t *testing.T) {
	s := NewSheet(100, 100)
	_, err := s.Rows.Hide(0, 1)
	require.NoError(t, err)

	vp, ok := s.Viewport(0, 0, 100, 100, 0)
	require.True(t, ok)
	assert.Equal(t, 2, vp.VisibleRegion.Top)
	assert.Equal(t, 0.0, vp.Top)
}

func TestViewport_EmptySheet(t *testing.T) {
	_, ok := NewSheet(0, 5).Viewport(0, 0, 100, 100, 0)
	assert.False(t, ok)
}
