package sheetcore

import (
	"fmt"
	"slices"

	"github.com/javajack/sheetcore/store"
)

// Cell is a read-only snapshot of every aspect stored for one position.
type Cell struct {
	Row       int
	Col       int
	Value     any
	Formula   string
	Format    Format
	Type      string
	Validator string
}

// HasFormula reports whether the cell holds a formula.
func (c Cell) HasFormula() bool { return c.Formula != "" }

// IsEmpty reports whether the cell has neither value nor formula.
func (c Cell) IsEmpty() bool { return c.Value == nil && c.Formula == "" }

// CellValue is one value write of a bulk SetValues call.
type CellValue struct {
	Row   int
	Col   int
	Value any
}

// CellsChangedEvent lists the cells whose data changed in a batch.
type CellsChangedEvent struct {
	Positions []store.Position
	Regions   []store.Region
}

// AxisShiftTracker is implemented by formula trackers that follow rows and
// columns being inserted or removed. delta is negative for removals.
type AxisShiftTracker interface {
	AxisShifted(axis store.Axis, index, delta int)
}

// CellStore owns the per-aspect cell data of a sheet and the merged
// regions. All mutations go through it so restore data and change
// notifications stay consistent.
type CellStore struct {
	sheet *Sheet

	values     store.MatrixStore[any]
	formats    store.MatrixStore[Format]
	types      store.MatrixStore[string]
	formulas   store.MatrixStore[string]
	validators store.MatrixStore[string]
	merges     *store.RegionStore[bool]
	tracker    FormulaTracker

	changed        *positionSet
	changedRegions []store.Region
	listeners      []func(CellsChangedEvent)
}

func newMatrix[T any](layout Layout, def T) store.MatrixStore[T] {
	if layout == LayoutRows {
		return store.NewRowMatrix(def)
	}
	return store.NewColumnMatrix(def)
}

func newCellStore(sheet *Sheet) *CellStore {
	l := sheet.opts.layout
	tracker := sheet.opts.formulas
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &CellStore{
		sheet:      sheet,
		values:     newMatrix[any](l, nil),
		formats:    newMatrix(l, Format{}),
		types:      newMatrix(l, ""),
		formulas:   newMatrix(l, ""),
		validators: newMatrix(l, ""),
		merges:     store.NewRegionStore[bool](store.WithMinArea(1), store.WithExpandWhenInsertAfter(sheet.opts.expandMerges)),
		tracker:    tracker,
		changed:    newPositionSet(),
	}
}

// OnCellsChanged registers fn to receive the cells changed by each batch.
func (c *CellStore) OnCellsChanged(fn func(CellsChangedEvent)) {
	c.listeners = append(c.listeners, fn)
}

// GetCell returns every aspect stored at (row, col).
func (c *CellStore) GetCell(row, col int) Cell {
	return Cell{
		Row:       row,
		Col:       col,
		Value:     c.values.Get(row, col),
		Formula:   c.formulas.Get(row, col),
		Format:    c.formats.Get(row, col),
		Type:      c.types.Get(row, col),
		Validator: c.validators.Get(row, col),
	}
}

// GetValue returns the value at (row, col), or nil.
func (c *CellStore) GetValue(row, col int) any { return c.values.Get(row, col) }

// GetFormula returns the formula text at (row, col), or "".
func (c *CellStore) GetFormula(row, col int) string { return c.formulas.Get(row, col) }

// HasFormula reports whether (row, col) holds a formula.
func (c *CellStore) HasFormula(row, col int) bool { return c.formulas.Contains(row, col) }

// GetFormat returns the cell's own format, without row or column formats.
func (c *CellStore) GetFormat(row, col int) Format { return c.formats.Get(row, col) }

// GetType returns the cell type name at (row, col), or "".
func (c *CellStore) GetType(row, col int) string { return c.types.Get(row, col) }

// GetValidator returns the validator id applied at (row, col), or "".
func (c *CellStore) GetValidator(row, col int) string { return c.validators.Get(row, col) }

// GetCellsInRegion returns every cell of region inside the sheet, row by row.
func (c *CellStore) GetCellsInRegion(region store.Region) []Cell {
	clipped, ok := c.sheet.Clip(region)
	if !ok {
		return nil
	}
	out := make([]Cell, 0, clipped.Area())
	for row := clipped.Top; row <= clipped.Bottom; row++ {
		for col := clipped.Left; col <= clipped.Right; col++ {
			out = append(out, c.GetCell(row, col))
		}
	}
	return out
}

// NonEmptyPositions returns the positions inside region holding a value or
// a formula, sorted by row then column.
func (c *CellStore) NonEmptyPositions(region store.Region) []store.Position {
	set := newPositionSet()
	for _, p := range c.values.NonEmptyPositions(region) {
		set.add(p)
	}
	for _, p := range c.formulas.NonEmptyPositions(region) {
		set.add(p)
	}
	out := set.items()
	slices.SortFunc(out, func(a, b store.Position) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	return out
}

// FormattedPositions returns the positions inside region with a cell format.
func (c *CellStore) FormattedPositions(region store.Region) []store.Position {
	return c.formats.NonEmptyPositions(region)
}

// NextNonBlank finds the next cell holding data strictly after (row, col)
// along axis, inside the sheet.
func (c *CellStore) NextNonBlank(row, col int, axis store.Axis) (store.Position, bool) {
	next := func(m interface {
		NextNonBlankRow(int, int) (int, bool)
		NextNonBlankCol(int, int) (int, bool)
	}) (int, bool) {
		if axis == store.AxisCol {
			return m.NextNonBlankCol(row, col)
		}
		return m.NextNonBlankRow(row, col)
	}
	a, okA := next(c.values)
	b, okB := next(c.formulas)
	var idx int
	switch {
	case okA && okB:
		idx = min(a, b)
	case okA:
		idx = a
	case okB:
		idx = b
	default:
		return store.Position{}, false
	}
	p := store.Position{Row: idx, Col: col}
	if axis == store.AxisCol {
		p = store.Position{Row: row, Col: idx}
	}
	if !c.sheet.Contains(p.Row, p.Col) {
		return store.Position{}, false
	}
	return p, true
}

// SetValue writes value at (row, col), replacing any formula there. A nil
// value clears the cell.
func (c *CellStore) SetValue(row, col int, value any) (RestoreData, error) {
	return c.SetValues([]CellValue{{Row: row, Col: col, Value: value}})
}

// SetValues writes several values in one batch.
func (c *CellStore) SetValues(values []CellValue) (RestoreData, error) {
	for _, v := range values {
		if !c.sheet.Contains(v.Row, v.Col) {
			return RestoreData{}, fmt.Errorf("set value at %v: %w", store.Position{Row: v.Row, Col: v.Col}, ErrOutOfSheet)
		}
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()

	var rd RestoreData
	positions := make([]store.Position, 0, len(values))
	for _, v := range values {
		if v.Value == nil {
			rd.Values.Merge(c.values.Clear(v.Row, v.Col))
		} else {
			rd.Values.Merge(c.values.Set(v.Row, v.Col, v.Value))
		}
		rd.Formulas.Merge(c.clearFormula(v.Row, v.Col))
		positions = append(positions, store.Position{Row: v.Row, Col: v.Col})
	}
	c.touch(positions, nil)
	return rd, nil
}

// SetFormula writes formula text at (row, col) through the formula tracker
// and clears the cell's value. An empty formula clears the formula.
func (c *CellStore) SetFormula(row, col int, formula string) (RestoreData, error) {
	if !c.sheet.Contains(row, col) {
		return RestoreData{}, fmt.Errorf("set formula at %v: %w", store.Position{Row: row, Col: col}, ErrOutOfSheet)
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()

	var rd RestoreData
	if formula == "" {
		rd.Formulas = c.clearFormula(row, col)
	} else {
		rd.Formulas = c.setFormula(row, col, formula)
		rd.Values = c.values.Clear(row, col)
	}
	c.touch([]store.Position{{Row: row, Col: col}}, nil)
	return rd, nil
}

// ClearCells clears values, formulas and validators inside regions.
// Formats and types are kept.
func (c *CellStore) ClearCells(regions ...store.Region) (RestoreData, error) {
	clipped, err := c.clipAll(regions)
	if err != nil {
		return RestoreData{}, err
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()

	var rd RestoreData
	rd.Values = c.values.ClearRegions(clipped)
	rd.Validators = c.validators.ClearRegions(clipped)
	for _, r := range clipped {
		for _, e := range c.formulas.NonEmptyData(r) {
			rd.Formulas.Merge(c.clearFormula(e.Row, e.Col))
		}
	}
	c.touch(rd.AffectedPositions(), nil)
	return rd, nil
}

// ClearFormats removes the cell formats inside regions.
func (c *CellStore) ClearFormats(regions ...store.Region) (RestoreData, error) {
	clipped, err := c.clipAll(regions)
	if err != nil {
		return RestoreData{}, err
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()

	rd := RestoreData{Formats: c.formats.ClearRegions(clipped)}
	c.sheet.MarkDirtyRegions(clipped...)
	return rd, nil
}

// SetType sets the cell type of every cell in region. An empty type clears it.
func (c *CellStore) SetType(region store.Region, cellType string) (RestoreData, error) {
	var rd RestoreData
	err := c.fillRegion(region, func(clipped store.Region) {
		rd.Types = fillMatrix(c.types, clipped, cellType, "")
	})
	return rd, err
}

// SetValidator applies validator id to every cell in region. An empty id
// removes validators.
func (c *CellStore) SetValidator(region store.Region, id string) (RestoreData, error) {
	var rd RestoreData
	err := c.fillRegion(region, func(clipped store.Region) {
		rd.Validators = fillMatrix(c.validators, clipped, id, "")
	})
	return rd, err
}

func (c *CellStore) fillRegion(region store.Region, fn func(store.Region)) error {
	if err := validateRegion(region); err != nil {
		return err
	}
	clipped, ok := c.sheet.Clip(region)
	if !ok {
		return fmt.Errorf("region %v: %w", region, ErrOutOfSheet)
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()
	fn(clipped)
	c.touch(nil, []store.Region{clipped})
	return nil
}

func fillMatrix[T comparable](m store.MatrixStore[T], region store.Region, v, def T) store.MatrixRestoreData[T] {
	if v == def {
		return m.ClearRegion(region)
	}
	var d store.MatrixRestoreData[T]
	for row := region.Top; row <= region.Bottom; row++ {
		for col := region.Left; col <= region.Right; col++ {
			d.Merge(m.Set(row, col, v))
		}
	}
	return d
}

// Merge merges region into one cell. Values and formulas outside its
// top-left cell are cleared.
func (c *CellStore) Merge(region store.Region) (RestoreData, error) {
	if err := validateRegion(region); err != nil {
		return RestoreData{}, err
	}
	if !c.sheet.Region().ContainsRegion(region) {
		return RestoreData{}, fmt.Errorf("merge %v: %w", region, ErrOutOfSheet)
	}
	if existing := c.merges.GetDataRegionsIn(region); len(existing) > 0 {
		return RestoreData{}, fmt.Errorf("merge %v with %v: %w", region, existing[0].Region, ErrMergeOverlap)
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()

	var rd RestoreData
	for _, r := range region.Break(store.CellRegion(region.Top, region.Left)) {
		rd.Values.Merge(c.values.ClearRegion(r))
		for _, e := range c.formulas.NonEmptyData(r) {
			rd.Formulas.Merge(c.clearFormula(e.Row, e.Col))
		}
	}
	rd.Merges = c.merges.Add(region, true)
	c.touch(rd.AffectedPositions(), []store.Region{region})
	return rd, nil
}

// Unmerge removes every merge intersecting region.
func (c *CellStore) Unmerge(region store.Region) (RestoreData, error) {
	if err := validateRegion(region); err != nil {
		return RestoreData{}, err
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()

	var rd RestoreData
	for _, e := range c.merges.GetDataRegionsIn(region) {
		rd.Merges.Merge(c.merges.Delete(e.Region, e.Data))
	}
	c.touch(nil, rd.Merges.Regions())
	return rd, nil
}

// GetMerge returns the merged region covering (row, col).
func (c *CellStore) GetMerge(row, col int) (store.Region, bool) {
	regions := c.merges.GetDataRegions(row, col)
	if len(regions) == 0 {
		return store.Region{}, false
	}
	return regions[0].Region, true
}

// IsMerged reports whether (row, col) is part of a merge.
func (c *CellStore) IsMerged(row, col int) bool { return c.merges.Any(row, col) }

// Merges returns every merged region.
func (c *CellStore) Merges() []store.Region {
	var out []store.Region
	for _, e := range c.merges.GetAllDataRegions() {
		out = append(out, e.Region)
	}
	return out
}

// CopyCells copies values, formulas, formats, types and validators from
// region from to the same-sized region whose top-left is to. Relative
// formula references follow the copy. The destination is clipped to the sheet.
func (c *CellStore) CopyCells(from store.Region, to store.Position) (RestoreData, error) {
	if err := validateRegion(from); err != nil {
		return RestoreData{}, err
	}
	src, ok := c.sheet.Clip(from)
	if !ok {
		return RestoreData{}, fmt.Errorf("copy from %v: %w", from, ErrOutOfSheet)
	}
	dr, dc := to.Row-src.Top, to.Col-src.Left
	dst, ok := c.sheet.Clip(src.Translate(dr, dc))
	if !ok {
		return RestoreData{}, fmt.Errorf("copy to %v: %w", to, ErrOutOfSheet)
	}
	c.sheet.BatchUpdates()
	defer c.sheet.EndBatchUpdates()

	formulas := c.formulas.NonEmptyData(src)
	var rd RestoreData
	rd.Values = c.values.Copy(src, dst)
	rd.Formats = c.formats.Copy(src, dst)
	rd.Types = c.types.Copy(src, dst)
	rd.Validators = c.validators.Copy(src, dst)
	for _, e := range c.formulas.NonEmptyData(dst) {
		rd.Formulas.Merge(c.clearFormula(e.Row, e.Col))
	}
	for _, e := range formulas {
		row, col := e.Row+dr, e.Col+dc
		if dst.Contains(row, col) {
			rd.Formulas.Merge(c.setFormula(row, col, ShiftFormula(e.Value, dr, dc)))
		}
	}
	c.touch(rd.AffectedPositions(), []store.Region{dst})
	return rd, nil
}

func (c *CellStore) clipAll(regions []store.Region) ([]store.Region, error) {
	var out []store.Region
	for _, r := range regions {
		if err := validateRegion(r); err != nil {
			return nil, err
		}
		if clipped, ok := c.sheet.Clip(r); ok {
			out = append(out, clipped)
		}
	}
	return out, nil
}

// touch records changed cells for the CellsChanged flush and marks them dirty.
func (c *CellStore) touch(positions []store.Position, regions []store.Region) {
	c.markChanged(positions, regions)
	if len(positions) > 0 {
		c.sheet.MarkDirty(positions...)
	}
	if len(regions) > 0 {
		c.sheet.MarkDirtyRegions(regions...)
	}
}

func (c *CellStore) markChanged(positions []store.Position, regions []store.Region) {
	for _, p := range positions {
		c.changed.add(p)
	}
	c.changedRegions = append(c.changedRegions, regions...)
}

func (c *CellStore) resetChanges() {
	c.changed.reset()
	c.changedRegions = nil
}

func (c *CellStore) hasChanges() bool {
	return c.changed.len() > 0 || len(c.changedRegions) > 0
}

// flushChanges emits held changes until listeners stop producing new ones.
func (c *CellStore) flushChanges() {
	for c.hasChanges() {
		ev := CellsChangedEvent{Positions: c.changed.items(), Regions: c.changedRegions}
		c.resetChanges()
		for _, fn := range c.listeners {
			fn(ev)
		}
	}
}

func (c *CellStore) setFormula(row, col int, formula string) store.MatrixRestoreData[string] {
	pos := store.Position{Row: row, Col: col}
	if prev := c.formulas.Get(row, col); c.formulas.Contains(row, col) {
		c.tracker.FormulaCleared(pos, prev)
	}
	d := c.formulas.Set(row, col, formula)
	c.tracker.FormulaSet(pos, formula)
	return d
}

func (c *CellStore) clearFormula(row, col int) store.MatrixRestoreData[string] {
	d := c.formulas.Clear(row, col)
	for _, e := range d.Removed() {
		c.tracker.FormulaCleared(e.Position(), e.Value)
	}
	return d
}

// restoreFormulas replays a formula capture through the tracker.
func (c *CellStore) restoreFormulas(d store.MatrixRestoreData[string]) store.MatrixRestoreData[string] {
	var inverse store.MatrixRestoreData[string]
	for i := len(d.Changes) - 1; i >= 0; i-- {
		ch := d.Changes[i]
		if ch.Existed {
			inverse.Merge(c.setFormula(ch.Row, ch.Col, ch.Value))
		} else {
			inverse.Merge(c.clearFormula(ch.Row, ch.Col))
		}
	}
	return inverse
}

// restore replays the cell aspects and merges of data, formulas first.
func (c *CellStore) restore(data RestoreData) RestoreData {
	var inverse RestoreData
	inverse.Formulas = c.restoreFormulas(data.Formulas)
	inverse.Values = c.values.Restore(data.Values)
	inverse.Formats = c.formats.Restore(data.Formats)
	inverse.Types = c.types.Restore(data.Types)
	inverse.Validators = c.validators.Restore(data.Validators)
	inverse.Merges = c.merges.Restore(data.Merges)
	c.touch(data.AffectedPositions(), data.Merges.Regions())
	return inverse
}

// mergeFormats merges f into the format of every cell in region.
func (c *CellStore) mergeFormats(region store.Region, f Format) store.MatrixRestoreData[Format] {
	var d store.MatrixRestoreData[Format]
	for row := region.Top; row <= region.Bottom; row++ {
		for col := region.Left; col <= region.Right; col++ {
			d.Merge(c.formats.Set(row, col, c.formats.Get(row, col).Merge(f)))
		}
	}
	return d
}

// mergeExistingFormats merges f into cells of region that already have a format.
func (c *CellStore) mergeExistingFormats(region store.Region, f Format) store.MatrixRestoreData[Format] {
	var d store.MatrixRestoreData[Format]
	for _, e := range c.formats.NonEmptyData(region) {
		d.Merge(c.formats.Set(e.Row, e.Col, e.Value.Merge(f)))
	}
	return d
}

func (c *CellStore) insertAt(axis store.Axis, at, n int) {
	for _, fn := range []func(int, int){
		insertFn(c.values, axis), insertFn(c.formats, axis), insertFn(c.types, axis),
		insertFn(c.formulas, axis), insertFn(c.validators, axis),
	} {
		fn(at, n)
	}
	if t, ok := c.tracker.(AxisShiftTracker); ok {
		t.AxisShifted(axis, at, n)
	}
}

func insertFn[T any](m store.MatrixStore[T], axis store.Axis) func(int, int) {
	if axis == store.AxisCol {
		return m.InsertColAt
	}
	return m.InsertRowAt
}

func removeFrom[T any](m store.MatrixStore[T], axis store.Axis, at, n int) store.MatrixRestoreData[T] {
	if axis == store.AxisCol {
		return m.RemoveColAt(at, n)
	}
	return m.RemoveRowAt(at, n)
}

// removeAt deletes a band from every aspect, in value, format, type,
// formula, validator order. Removed formulas are reported to the tracker.
func (c *CellStore) removeAt(axis store.Axis, at, n int) RestoreData {
	var rd RestoreData
	rd.Values = removeFrom(c.values, axis, at, n)
	rd.Formats = removeFrom(c.formats, axis, at, n)
	rd.Types = removeFrom(c.types, axis, at, n)
	rd.Formulas = removeFrom(c.formulas, axis, at, n)
	for _, e := range rd.Formulas.Removed() {
		c.tracker.FormulaCleared(e.Position(), e.Value)
	}
	rd.Validators = removeFrom(c.validators, axis, at, n)
	if t, ok := c.tracker.(AxisShiftTracker); ok {
		t.AxisShifted(axis, at, -n)
	}
	return rd
}

func (c *CellStore) insertMerges(axis store.Axis, at, n int) store.RegionRestoreData[bool] {
	if axis == store.AxisCol {
		return c.merges.InsertCols(at, n)
	}
	return c.merges.InsertRows(at, n)
}

func (c *CellStore) removeMerges(axis store.Axis, at, n int) store.RegionRestoreData[bool] {
	if axis == store.AxisCol {
		return c.merges.RemoveCols(at, at+n-1)
	}
	return c.merges.RemoveRows(at, at+n-1)
}
