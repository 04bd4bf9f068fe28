package sheetcore

import (
	"fmt"
	"log/slog"

	"github.com/javajack/sheetcore/store"
)

// DirtyEvent carries the positions and regions a renderer must redraw.
type DirtyEvent struct {
	Positions []store.Position
	Regions   []store.Region
}

// Sheet is a finite grid of cells with row and column layout, merges and
// conditional formats. It is not safe for concurrent use.
//
// Every mutation returns a RestoreData. Passing it to Restore reverses the
// mutation and returns the RestoreData that reapplies it.
type Sheet struct {
	numRows int
	numCols int
	opts    *Options
	log     *slog.Logger

	Cells              *CellStore
	Rows               *AxisInfo
	Columns            *AxisInfo
	ConditionalFormats *ConditionalFormatManager

	batchDepth     int
	flushing       bool
	dirtyPositions *positionSet
	dirtyRegions   []store.Region
	dirtyListeners []func(DirtyEvent)
}

// NewSheet creates an empty sheet of numRows x numCols cells.
func NewSheet(numRows, numCols int, opts ...Option) *Sheet {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	s := &Sheet{
		numRows:        max(numRows, 0),
		numCols:        max(numCols, 0),
		opts:           o,
		log:            o.logger,
		dirtyPositions: newPositionSet(),
	}
	s.Cells = newCellStore(s)
	s.Rows = newAxisInfo(s, store.AxisRow, o.defaultRowHeight)
	s.Columns = newAxisInfo(s, store.AxisCol, o.defaultColumnWidth)
	s.ConditionalFormats = newConditionalFormatManager(s)
	return s
}

// Name is the worksheet name set with WithName, or "".
func (s *Sheet) Name() string { return s.opts.name }

// NumRows is the number of rows in the sheet.
func (s *Sheet) NumRows() int { return s.numRows }

// NumCols is the number of columns in the sheet.
func (s *Sheet) NumCols() int { return s.numCols }

// Region spans the whole sheet.
func (s *Sheet) Region() store.Region {
	return store.NewRegion(0, s.numRows-1, 0, s.numCols-1)
}

// Contains reports whether (row, col) lies inside the sheet.
func (s *Sheet) Contains(row, col int) bool {
	return row >= 0 && col >= 0 && row < s.numRows && col < s.numCols
}

// Clip intersects region with the sheet.
func (s *Sheet) Clip(region store.Region) (store.Region, bool) {
	if s.numRows == 0 || s.numCols == 0 {
		return store.Region{}, false
	}
	return region.Intersection(s.Region())
}

// Range parses an A1-style reference ("B2", "A1:C5", "A:B", "2:4") and
// clips it to the sheet.
func (s *Sheet) Range(ref string) (store.Region, error) {
	r, err := store.ParseRegion(ref)
	if err != nil {
		return store.Region{}, fmt.Errorf("parse range %q: %w", ref, err)
	}
	clipped, ok := s.Clip(r)
	if !ok {
		return store.Region{}, fmt.Errorf("range %q: %w", ref, ErrOutOfSheet)
	}
	return clipped, nil
}

// OnDirty registers fn to receive coalesced redraw notifications.
func (s *Sheet) OnDirty(fn func(DirtyEvent)) {
	s.dirtyListeners = append(s.dirtyListeners, fn)
}

// IsBatching reports whether a batch is open.
func (s *Sheet) IsBatching() bool { return s.batchDepth > 0 }

// BatchUpdates opens a batch. Notifications are held until the outermost
// batch is closed. Batches nest.
func (s *Sheet) BatchUpdates() {
	if s.batchDepth == 0 && !s.flushing {
		s.dirtyPositions.reset()
		s.dirtyRegions = nil
		s.Cells.resetChanges()
	}
	s.batchDepth++
}

// EndBatchUpdates closes a batch. Closing the outermost one emits the held
// cell-change notifications and then the dirty event. Listeners of either
// kind may mutate the sheet while the flush runs; those changes are emitted
// in further passes before the flush returns.
func (s *Sheet) EndBatchUpdates() {
	if s.batchDepth == 0 {
		return
	}
	s.batchDepth--
	if s.batchDepth > 0 || s.flushing {
		return
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	for s.Cells.hasChanges() || s.hasDirty() {
		s.Cells.flushChanges()
		if !s.hasDirty() {
			continue
		}
		ev := DirtyEvent{Positions: s.dirtyPositions.items(), Regions: s.dirtyRegions}
		s.dirtyPositions.reset()
		s.dirtyRegions = nil
		for _, fn := range s.dirtyListeners {
			fn(ev)
		}
	}
}

func (s *Sheet) hasDirty() bool {
	return s.dirtyPositions.len() > 0 || len(s.dirtyRegions) > 0
}

// MarkDirty queues positions for redraw.
func (s *Sheet) MarkDirty(positions ...store.Position) {
	s.BatchUpdates()
	for _, p := range positions {
		s.dirtyPositions.add(p)
	}
	s.EndBatchUpdates()
}

// MarkDirtyRegions queues regions for redraw.
func (s *Sheet) MarkDirtyRegions(regions ...store.Region) {
	s.BatchUpdates()
	s.dirtyRegions = append(s.dirtyRegions, regions...)
	s.EndBatchUpdates()
}

func (s *Sheet) markAxisDirty(axis store.Axis, from int) {
	if axis == store.AxisCol {
		s.MarkDirtyRegions(store.ColumnRegion(from, store.Unbounded))
	} else {
		s.MarkDirtyRegions(store.RowRegion(from, store.Unbounded))
	}
}

// GetFormat returns the stored format of a cell: the row format, overlaid
// by the column format, overlaid by the cell's own format.
func (s *Sheet) GetFormat(row, col int) Format {
	return s.Rows.Format(row).Merge(s.Columns.Format(col)).Merge(s.Cells.GetFormat(row, col))
}

// EffectiveFormat is GetFormat overlaid with the conditional format result.
func (s *Sheet) EffectiveFormat(row, col int) Format {
	f := s.GetFormat(row, col)
	if cf, ok := s.ConditionalFormats.GetFormatResult(row, col); ok {
		f = f.Merge(cf)
	}
	return f
}

// SetFormat merges f into region. Whole rows and whole columns are
// formatted on the axis so no cells are materialized; cells that already
// carry a format inside them are merged too.
func (s *Sheet) SetFormat(region store.Region, f Format) (RestoreData, error) {
	if err := validateRegion(region); err != nil {
		return RestoreData{}, err
	}
	clipped, ok := s.Clip(region)
	if !ok {
		return RestoreData{}, fmt.Errorf("format %v: %w", region, ErrOutOfSheet)
	}
	s.BatchUpdates()
	defer s.EndBatchUpdates()

	var rd RestoreData
	switch {
	case region.IsRowRegion():
		rd.Rows = s.Rows.setFormat(clipped.Top, clipped.Bottom, f)
		rd.Formats = s.Cells.mergeExistingFormats(clipped, f)
	case region.IsColumnRegion():
		rd.Columns = s.Columns.setFormat(clipped.Left, clipped.Right, f)
		rd.Formats = s.Cells.mergeExistingFormats(clipped, f)
	default:
		rd.Formats = s.Cells.mergeFormats(clipped, f)
	}
	s.MarkDirtyRegions(clipped)
	return rd, nil
}

// InsertRows inserts n empty rows before row.
func (s *Sheet) InsertRows(row, n int) (RestoreData, error) {
	return s.insertAxis(store.AxisRow, row, n)
}

// InsertCols inserts n empty columns before col.
func (s *Sheet) InsertCols(col, n int) (RestoreData, error) {
	return s.insertAxis(store.AxisCol, col, n)
}

// RemoveRows removes n rows starting at row.
func (s *Sheet) RemoveRows(row, n int) (RestoreData, error) {
	return s.removeAxis(store.AxisRow, row, n)
}

// RemoveCols removes n columns starting at col.
func (s *Sheet) RemoveCols(col, n int) (RestoreData, error) {
	return s.removeAxis(store.AxisCol, col, n)
}

func (s *Sheet) axisLength(axis store.Axis) int {
	if axis == store.AxisCol {
		return s.numCols
	}
	return s.numRows
}

func (s *Sheet) axisInfo(axis store.Axis) *AxisInfo {
	if axis == store.AxisCol {
		return s.Columns
	}
	return s.Rows
}

func (s *Sheet) insertAxis(axis store.Axis, at, n int) (RestoreData, error) {
	if err := checkBand(axis, at, n, s.axisLength(axis), true); err != nil {
		return RestoreData{}, err
	}
	s.BatchUpdates()
	defer s.EndBatchUpdates()

	s.insertBand(axis, at, n)
	rd := RestoreData{
		Merges:      s.Cells.insertMerges(axis, at, n),
		Conditional: s.ConditionalFormats.insert(axis, at, n),
		Shift:       &Shift{Axis: axis, Index: at, Count: n, Insert: false},
	}
	s.log.Debug("insert", "axis", axis, "index", at, "count", n)
	return rd, nil
}

func (s *Sheet) removeAxis(axis store.Axis, at, n int) (RestoreData, error) {
	if err := checkBand(axis, at, n, s.axisLength(axis), false); err != nil {
		return RestoreData{}, err
	}
	s.BatchUpdates()
	defer s.EndBatchUpdates()

	rd := s.removeBand(axis, at, n)
	rd.Merges = s.Cells.removeMerges(axis, at, n)
	rd.Conditional = s.ConditionalFormats.remove(axis, at, n)
	rd.Shift = &Shift{Axis: axis, Index: at, Count: n, Insert: true}
	s.log.Debug("remove", "axis", axis, "index", at, "count", n, "captured", len(rd.AffectedPositions()))
	return rd, nil
}

// insertBand opens n empty positions at at in every cell aspect and the
// axis layout. Region stores are handled by the caller.
func (s *Sheet) insertBand(axis store.Axis, at, n int) {
	s.Cells.insertAt(axis, at, n)
	s.axisInfo(axis).insert(at, n)
	if axis == store.AxisCol {
		s.numCols += n
	} else {
		s.numRows += n
	}
	s.Cells.markChanged(nil, []store.Region{bandFrom(axis, at)})
	s.markAxisDirty(axis, at)
}

// removeBand deletes n positions at at from every cell aspect and the axis
// layout, capturing what was there. Region stores are handled by the caller.
func (s *Sheet) removeBand(axis store.Axis, at, n int) RestoreData {
	rd := s.Cells.removeAt(axis, at, n)
	d := s.axisInfo(axis).remove(at, n)
	if axis == store.AxisCol {
		rd.Columns = d
		s.numCols -= n
	} else {
		rd.Rows = d
		s.numRows -= n
	}
	s.Cells.markChanged(nil, []store.Region{bandFrom(axis, at)})
	s.markAxisDirty(axis, at)
	return rd
}

func bandFrom(axis store.Axis, at int) store.Region {
	if axis == store.AxisCol {
		return store.ColumnRegion(at, store.Unbounded)
	}
	return store.RowRegion(at, store.Unbounded)
}

// Restore reverses the mutation that produced data and returns the
// RestoreData that reapplies it. data must have been captured from the
// sheet's current state; nothing checks that it was.
func (s *Sheet) Restore(data RestoreData) RestoreData {
	s.BatchUpdates()
	defer s.EndBatchUpdates()

	sh := data.Shift
	switch {
	case sh == nil:
		return s.restoreData(data)
	case sh.Insert:
		s.insertBand(sh.Axis, sh.Index, sh.Count)
		replayed := s.restoreData(data)
		s.log.Debug("restore insert", "axis", sh.Axis, "index", sh.Index, "count", sh.Count)
		// removing the band again captures its contents afresh
		return RestoreData{
			Merges:      replayed.Merges,
			Conditional: replayed.Conditional,
			Shift:       &Shift{Axis: sh.Axis, Index: sh.Index, Count: sh.Count, Insert: false},
		}
	default:
		inverse := s.restoreData(data)
		inverse.Merge(s.removeBand(sh.Axis, sh.Index, sh.Count))
		inverse.Shift = &Shift{Axis: sh.Axis, Index: sh.Index, Count: sh.Count, Insert: true}
		s.log.Debug("restore remove", "axis", sh.Axis, "index", sh.Index, "count", sh.Count)
		return inverse
	}
}

// restoreData replays every captured aspect, formulas first so the
// dependency layer sees them before the values they feed.
func (s *Sheet) restoreData(data RestoreData) RestoreData {
	inverse := s.Cells.restore(data)
	inverse.Conditional = s.ConditionalFormats.restore(data.Conditional)
	inverse.Rows = s.Rows.restore(data.Rows)
	inverse.Columns = s.Columns.restore(data.Columns)
	if !data.Rows.Empty() {
		s.markAxisDirty(store.AxisRow, 0)
	}
	if !data.Columns.Empty() {
		s.markAxisDirty(store.AxisCol, 0)
	}
	return inverse
}
