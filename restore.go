package sheetcore

import "github.com/javajack/sheetcore/store"

// Shift describes a structural change Restore must perform: inserting or
// removing Count rows or columns at Index.
type Shift struct {
	Axis   store.Axis
	Index  int
	Count  int
	Insert bool
}

// AxisRestoreData captures the prior state of one axis' interval stores.
type AxisRestoreData struct {
	Sizes    store.IntervalRestoreData[float64]
	Hidden   store.IntervalRestoreData[float64]
	Formats  store.IntervalRestoreData[Format]
	Headings store.IntervalRestoreData[string]
}

// Merge appends o's changes after a's.
func (a *AxisRestoreData) Merge(o AxisRestoreData) {
	a.Sizes.Merge(o.Sizes)
	a.Hidden.Merge(o.Hidden)
	a.Formats.Merge(o.Formats)
	a.Headings.Merge(o.Headings)
}

// Empty reports whether nothing was captured.
func (a AxisRestoreData) Empty() bool {
	return a.Sizes.Empty() && a.Hidden.Empty() && a.Formats.Empty() && a.Headings.Empty()
}

// RestoreData is the state a sheet mutation displaced. Passing it to
// Sheet.Restore reverses the mutation and yields the capture that redoes it.
// A zero RestoreData restores nothing.
type RestoreData struct {
	Values      store.MatrixRestoreData[any]
	Formats     store.MatrixRestoreData[Format]
	Types       store.MatrixRestoreData[string]
	Formulas    store.MatrixRestoreData[string]
	Validators  store.MatrixRestoreData[string]
	Merges      store.RegionRestoreData[bool]
	Conditional store.RegionRestoreData[Rule]
	Rows        AxisRestoreData
	Columns     AxisRestoreData
	Shift       *Shift
}

// Merge folds o, captured after r, into r. At most one of them may carry
// a Shift.
func (r *RestoreData) Merge(o RestoreData) {
	r.Values.Merge(o.Values)
	r.Formats.Merge(o.Formats)
	r.Types.Merge(o.Types)
	r.Formulas.Merge(o.Formulas)
	r.Validators.Merge(o.Validators)
	r.Merges.Merge(o.Merges)
	r.Conditional.Merge(o.Conditional)
	r.Rows.Merge(o.Rows)
	r.Columns.Merge(o.Columns)
	if o.Shift != nil {
		r.Shift = o.Shift
	}
}

// Empty reports whether replaying r would change nothing.
func (r RestoreData) Empty() bool {
	return r.Values.Empty() && r.Formats.Empty() && r.Types.Empty() && r.Formulas.Empty() &&
		r.Validators.Empty() && r.Merges.Empty() && r.Conditional.Empty() &&
		r.Rows.Empty() && r.Columns.Empty() && r.Shift == nil
}

// AffectedPositions returns every cell position whose data was captured.
func (r RestoreData) AffectedPositions() []store.Position {
	seen := map[store.Position]struct{}{}
	var out []store.Position
	add := func(ps []store.Position) {
		for _, p := range ps {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	add(r.Values.AffectedPositions())
	add(r.Formats.AffectedPositions())
	add(r.Types.AffectedPositions())
	add(r.Formulas.AffectedPositions())
	add(r.Validators.AffectedPositions())
	return out
}

// AffectedRegions returns the regions whose merges or conditional formats changed.
func (r RestoreData) AffectedRegions() []store.Region {
	return append(r.Merges.Regions(), r.Conditional.Regions()...)
}
