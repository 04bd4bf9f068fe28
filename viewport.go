package sheetcore

import "github.com/javajack/sheetcore/store"

// Viewport is the part of the sheet a renderer draws for a scroll position.
// VisibleRegion includes overflow cells rendered off-screen.
type Viewport struct {
	VisibleRegion store.Region
	// Left and Top are the pixel offsets of VisibleRegion's top-left cell.
	Left float64
	Top  float64
	// VisibleWidth and VisibleHeight are the pixel extent of VisibleRegion.
	VisibleWidth  float64
	VisibleHeight float64
	// DistanceRight and DistanceBottom are the pixels between the end of
	// VisibleRegion and the end of the sheet.
	DistanceRight  float64
	DistanceBottom float64
}

// Viewport computes the cells covering the window of width x height pixels
// scrolled to (scrollLeft, scrollTop), extended by overflow rows and columns
// on every side. ok is false for an empty sheet.
func (s *Sheet) Viewport(scrollLeft, scrollTop, width, height float64, overflow int) (vp Viewport, ok bool) {
	if s.numRows == 0 || s.numCols == 0 {
		return Viewport{}, false
	}
	r0, r1 := axisWindow(s.Rows, scrollTop, height, overflow)
	c0, c1 := axisWindow(s.Columns, scrollLeft, width, overflow)

	vp.VisibleRegion = store.NewRegion(r0, r1, c0, c1)
	vp.Left = s.Columns.Offset(c0)
	vp.Top = s.Rows.Offset(r0)
	vp.VisibleWidth = s.Columns.SizeBetween(c0, c1+1)
	vp.VisibleHeight = s.Rows.SizeBetween(r0, r1+1)
	vp.DistanceRight = s.Columns.TotalSize() - vp.Left - vp.VisibleWidth
	vp.DistanceBottom = s.Rows.TotalSize() - vp.Top - vp.VisibleHeight
	return vp, true
}

func axisWindow(a *AxisInfo, scroll, extent float64, overflow int) (int, int) {
	scroll = max(scroll, 0)
	first := a.IndexAt(scroll)
	last := a.IndexAt(scroll + max(extent, 0))
	return max(first-overflow, 0), min(last+overflow, a.Count()-1)
}
