package sheetcore

import (
	"fmt"

	"github.com/javajack/sheetcore/store"
)

// AxisInfo holds per-row or per-column layout state: sizes and the pixel
// offsets derived from them, visibility, axis-wide formats and headings.
type AxisInfo struct {
	sheet *Sheet
	axis  store.Axis

	sizes *store.CumulativeStore
	// hidden remembers the size each hidden position had before hiding.
	hidden   *store.IntervalStore[float64]
	formats  *store.IntervalStore[Format]
	headings *store.IntervalStore[string]
}

func newAxisInfo(sheet *Sheet, axis store.Axis, defaultSize float64) *AxisInfo {
	return &AxisInfo{
		sheet:    sheet,
		axis:     axis,
		sizes:    store.NewCumulativeStore(defaultSize),
		hidden:   store.NewIntervalStore(0.0),
		formats:  store.NewIntervalStore(Format{}),
		headings: store.NewIntervalStore(""),
	}
}

// Count is the number of rows or columns in the sheet.
func (a *AxisInfo) Count() int {
	if a.axis == store.AxisCol {
		return a.sheet.numCols
	}
	return a.sheet.numRows
}

// DefaultSize is the size of positions never sized explicitly.
func (a *AxisInfo) DefaultSize() float64 { return a.sizes.Default() }

// Size returns the rendered size at index; hidden positions have size 0.
func (a *AxisInfo) Size(index int) float64 { return a.sizes.Size(index) }

// Offset returns the pixel offset of the start of index.
func (a *AxisInfo) Offset(index int) float64 { return a.sizes.Cumulative(index) }

// SizeBetween is the pixel distance from the start of i to the start of j.
func (a *AxisInfo) SizeBetween(i, j int) float64 { return a.sizes.SizeBetween(i, j) }

// TotalSize is the pixel extent of the whole axis.
func (a *AxisInfo) TotalSize() float64 { return a.sizes.Cumulative(a.Count()) }

// IndexAt returns the position under the pixel offset, clamped to the sheet.
func (a *AxisInfo) IndexAt(offset float64) int {
	return min(a.sizes.Position(offset), max(a.Count()-1, 0))
}

// ShownSize is the size index has when visible, remembered while it is hidden.
func (a *AxisInfo) ShownSize(index int) float64 {
	if iv, ok := a.hidden.Find(index); ok {
		return iv.Value
	}
	return a.sizes.Size(index)
}

// IsVisible reports whether index is not hidden.
func (a *AxisInfo) IsVisible(index int) bool { return !a.hidden.Contains(index) }

// Format returns the axis-wide format at index.
func (a *AxisInfo) Format(index int) Format { return a.formats.Get(index) }

// Heading returns the heading text at index, or "" when none is set.
func (a *AxisInfo) Heading(index int) string { return a.headings.Get(index) }

// SetSize sizes start..end. Hidden positions keep size 0 and remember the
// new size for when they are shown again.
func (a *AxisInfo) SetSize(start, end int, size float64) (RestoreData, error) {
	if err := a.checkSpan(start, end); err != nil {
		return RestoreData{}, err
	}
	if size < 0 {
		return RestoreData{}, fmt.Errorf("%w: negative size %v", ErrInvalidCount, size)
	}
	return a.mutate(start, func() AxisRestoreData { return a.setSize(start, end, size) }), nil
}

// Hide hides start..end, collapsing their size to 0.
func (a *AxisInfo) Hide(start, end int) (RestoreData, error) {
	if err := a.checkSpan(start, end); err != nil {
		return RestoreData{}, err
	}
	return a.mutate(start, func() AxisRestoreData { return a.hide(start, end) }), nil
}

// Unhide shows start..end again at their remembered sizes.
func (a *AxisInfo) Unhide(start, end int) (RestoreData, error) {
	if err := a.checkSpan(start, end); err != nil {
		return RestoreData{}, err
	}
	return a.mutate(start, func() AxisRestoreData { return a.unhide(start, end) }), nil
}

// SetHeading labels start..end.
func (a *AxisInfo) SetHeading(start, end int, heading string) (RestoreData, error) {
	if err := a.checkSpan(start, end); err != nil {
		return RestoreData{}, err
	}
	return a.mutate(start, func() AxisRestoreData {
		return AxisRestoreData{Headings: setInterval(a.headings, start, end, heading)}
	}), nil
}

// mutate runs fn inside a batch and marks everything from start onward dirty.
func (a *AxisInfo) mutate(start int, fn func() AxisRestoreData) RestoreData {
	a.sheet.BatchUpdates()
	defer a.sheet.EndBatchUpdates()
	d := fn()
	a.sheet.markAxisDirty(a.axis, start)
	return a.wrap(d)
}

func (a *AxisInfo) wrap(d AxisRestoreData) RestoreData {
	if a.axis == store.AxisCol {
		return RestoreData{Columns: d}
	}
	return RestoreData{Rows: d}
}

func (a *AxisInfo) checkSpan(start, end int) error {
	if start < 0 || start > end {
		return fmt.Errorf("%w: %s span %d..%d", ErrInvalidRegion, a.axis, start, end)
	}
	if end >= a.Count() {
		return fmt.Errorf("%w: %s %d of %d", ErrOutOfSheet, a.axis, end, a.Count())
	}
	return nil
}

func (a *AxisInfo) setSize(start, end int, size float64) AxisRestoreData {
	var d AxisRestoreData
	hidden := a.hidden.Overlapping(start, end)
	for _, iv := range hidden {
		d.Hidden.Merge(setInterval(a.hidden, iv.Start, iv.End, size))
	}
	for _, iv := range store.Complement(hidden, start, end, size) {
		d.Sizes.Merge(setSizes(a.sizes, iv.Start, iv.End, size))
	}
	return d
}

func (a *AxisInfo) hide(start, end int) AxisRestoreData {
	var d AxisRestoreData
	for _, gap := range store.Complement(a.hidden.Overlapping(start, end), start, end, 0.0) {
		current := store.Cover(a.sizes.Overlapping(gap.Start, gap.End), gap.Start, gap.End, a.sizes.Default())
		for _, iv := range current {
			d.Hidden.Merge(setInterval(a.hidden, iv.Start, iv.End, iv.Value))
		}
	}
	d.Sizes.Merge(setSizes(a.sizes, start, end, 0))
	return d
}

func (a *AxisInfo) unhide(start, end int) AxisRestoreData {
	var d AxisRestoreData
	for _, iv := range a.hidden.Overlapping(start, end) {
		if iv.Value == a.sizes.Default() {
			d.Sizes.Merge(cutSizes(a.sizes, iv.Start, iv.End))
		} else {
			d.Sizes.Merge(setSizes(a.sizes, iv.Start, iv.End, iv.Value))
		}
	}
	prior := a.hidden.Cut(start, end)
	if len(prior) > 0 {
		d.Hidden.Changes = append(d.Hidden.Changes, store.IntervalChange[float64]{Start: start, End: end, Prior: prior})
	}
	return d
}

// setFormat merges f over the axis formats of start..end.
func (a *AxisInfo) setFormat(start, end int, f Format) AxisRestoreData {
	prior := a.formats.Overlapping(start, end)
	a.formats.Cut(start, end)
	for _, iv := range store.Cover(prior, start, end, Format{}) {
		a.formats.Set(iv.Start, iv.End, iv.Value.Merge(f))
	}
	return AxisRestoreData{Formats: store.IntervalRestoreData[Format]{
		Changes: []store.IntervalChange[Format]{{Start: start, End: end, Prior: prior}},
	}}
}

func (a *AxisInfo) insert(at, n int) {
	a.sizes.InsertAt(at, n)
	a.hidden.InsertAt(at, n, false)
	a.formats.InsertAt(at, n, false)
	a.headings.InsertAt(at, n, false)
}

func (a *AxisInfo) remove(at, n int) AxisRestoreData {
	end := at + n - 1
	return AxisRestoreData{
		Sizes:    removedChange(at, end, a.sizes.RemoveAt(at, n)),
		Hidden:   removedChange(at, end, a.hidden.RemoveAt(at, n)),
		Formats:  removedChange(at, end, a.formats.RemoveAt(at, n)),
		Headings: removedChange(at, end, a.headings.RemoveAt(at, n)),
	}
}

func (a *AxisInfo) restore(d AxisRestoreData) AxisRestoreData {
	return AxisRestoreData{
		Sizes:    a.sizes.Restore(d.Sizes),
		Hidden:   a.hidden.Restore(d.Hidden),
		Formats:  a.formats.Restore(d.Formats),
		Headings: a.headings.Restore(d.Headings),
	}
}

func setInterval[T any](s *store.IntervalStore[T], start, end int, v T) store.IntervalRestoreData[T] {
	prior := s.Set(start, end, v)
	return store.IntervalRestoreData[T]{Changes: []store.IntervalChange[T]{{Start: start, End: end, Prior: prior}}}
}

func setSizes(s *store.CumulativeStore, start, end int, size float64) store.IntervalRestoreData[float64] {
	prior := s.Set(start, end, size)
	return store.IntervalRestoreData[float64]{Changes: []store.IntervalChange[float64]{{Start: start, End: end, Prior: prior}}}
}

func cutSizes(s *store.CumulativeStore, start, end int) store.IntervalRestoreData[float64] {
	prior := s.Cut(start, end)
	return store.IntervalRestoreData[float64]{Changes: []store.IntervalChange[float64]{{Start: start, End: end, Prior: prior}}}
}

func removedChange[T any](start, end int, removed []store.Interval[T]) store.IntervalRestoreData[T] {
	if len(removed) == 0 {
		return store.IntervalRestoreData[T]{}
	}
	return store.IntervalRestoreData[T]{Changes: []store.IntervalChange[T]{{Start: start, End: end, Prior: removed}}}
}
