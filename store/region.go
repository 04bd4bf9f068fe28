package store

import "slices"

// RegionData pairs a stored region with its payload.
type RegionData[T comparable] struct {
	Region Region
	Data   T
}

// RegionRestoreData lists the region entries a mutation added and removed.
// An entry added and later removed within one capture cancels out.
type RegionRestoreData[T comparable] struct {
	Added   []RegionData[T]
	Removed []RegionData[T]
}

// Empty reports whether nothing was captured.
func (d RegionRestoreData[T]) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// Merge folds o, which happened after d, into d.
func (d *RegionRestoreData[T]) Merge(o RegionRestoreData[T]) {
	for _, e := range o.Removed {
		d.addRemoved(e)
	}
	for _, e := range o.Added {
		d.addAdded(e)
	}
}

// Inverse returns the capture that undoes replaying d.
func (d RegionRestoreData[T]) Inverse() RegionRestoreData[T] {
	return RegionRestoreData[T]{Added: slices.Clone(d.Removed), Removed: slices.Clone(d.Added)}
}

// Regions returns every region touched by the capture.
func (d RegionRestoreData[T]) Regions() []Region {
	out := make([]Region, 0, len(d.Added)+len(d.Removed))
	for _, e := range d.Added {
		out = append(out, e.Region)
	}
	for _, e := range d.Removed {
		out = append(out, e.Region)
	}
	return out
}

func (d *RegionRestoreData[T]) addAdded(e RegionData[T]) {
	if i := slices.Index(d.Removed, e); i >= 0 {
		d.Removed = slices.Delete(d.Removed, i, i+1)
		return
	}
	d.Added = append(d.Added, e)
}

func (d *RegionRestoreData[T]) addRemoved(e RegionData[T]) {
	if i := slices.Index(d.Added, e); i >= 0 {
		d.Added = slices.Delete(d.Added, i, i+1)
		return
	}
	d.Removed = append(d.Removed, e)
}

// RegionOption configures a RegionStore.
type RegionOption func(*regionConfig)

type regionConfig struct {
	minArea               int
	expandWhenInsertAfter bool
}

// WithMinArea drops any region whose area is at or below minArea when it is
// added, contracted or split.
func WithMinArea(minArea int) RegionOption {
	return func(c *regionConfig) { c.minArea = minArea }
}

// WithExpandWhenInsertAfter makes a region whose last row (or column) sits
// just before an insertion point grow over the inserted band.
func WithExpandWhenInsertAfter(expand bool) RegionOption {
	return func(c *regionConfig) { c.expandWhenInsertAfter = expand }
}

// RegionStore associates payloads with rectangular regions. Regions may
// overlap, and one payload may be attached to several regions. Entries keep
// the order they were added in.
type RegionStore[T comparable] struct {
	entries []RegionData[T]
	cfg     regionConfig
}

// NewRegionStore returns an empty store.
func NewRegionStore[T comparable](opts ...RegionOption) *RegionStore[T] {
	s := &RegionStore[T]{}
	for _, o := range opts {
		o(&s.cfg)
	}
	return s
}

// Len is the number of stored entries.
func (s *RegionStore[T]) Len() int { return len(s.entries) }

// Add attaches data to region.
func (s *RegionStore[T]) Add(region Region, data T) RegionRestoreData[T] {
	var rd RegionRestoreData[T]
	s.add(&rd, RegionData[T]{Region: region, Data: data})
	return rd
}

func (s *RegionStore[T]) add(rd *RegionRestoreData[T], e RegionData[T]) {
	checkRegion(e.Region)
	if e.Region.Area() <= s.cfg.minArea {
		return
	}
	s.entries = append(s.entries, e)
	rd.addAdded(e)
}

// remove deletes the first entry equal to e.
func (s *RegionStore[T]) remove(rd *RegionRestoreData[T], e RegionData[T]) bool {
	i := slices.Index(s.entries, e)
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	rd.addRemoved(e)
	return true
}

// GetDataRegions returns every entry whose region covers (row, col).
func (s *RegionStore[T]) GetDataRegions(row, col int) []RegionData[T] {
	var out []RegionData[T]
	for _, e := range s.entries {
		if e.Region.Contains(row, col) {
			out = append(out, e)
		}
	}
	return out
}

// GetData returns the payloads covering (row, col).
func (s *RegionStore[T]) GetData(row, col int) []T {
	var out []T
	for _, e := range s.entries {
		if e.Region.Contains(row, col) {
			out = append(out, e.Data)
		}
	}
	return out
}

// GetDataRegionsIn returns every entry intersecting region.
func (s *RegionStore[T]) GetDataRegionsIn(region Region) []RegionData[T] {
	var out []RegionData[T]
	for _, e := range s.entries {
		if e.Region.Intersects(region) {
			out = append(out, e)
		}
	}
	return out
}

// GetRegions returns every region data is attached to.
func (s *RegionStore[T]) GetRegions(data T) []Region {
	var out []Region
	for _, e := range s.entries {
		if e.Data == data {
			out = append(out, e.Region)
		}
	}
	return out
}

// GetAllDataRegions returns a copy of every entry.
func (s *RegionStore[T]) GetAllDataRegions() []RegionData[T] {
	return slices.Clone(s.entries)
}

// Any reports whether some region covers (row, col).
func (s *RegionStore[T]) Any(row, col int) bool {
	return slices.ContainsFunc(s.entries, func(e RegionData[T]) bool { return e.Region.Contains(row, col) })
}

// Bounds returns the bounding box of every stored region.
func (s *RegionStore[T]) Bounds() (Region, bool) {
	if len(s.entries) == 0 {
		return Region{}, false
	}
	b := s.entries[0].Region
	for _, e := range s.entries[1:] {
		b = b.Union(e.Region)
	}
	return b, true
}

// Delete removes the entry attaching data to exactly region.
func (s *RegionStore[T]) Delete(region Region, data T) RegionRestoreData[T] {
	var rd RegionRestoreData[T]
	s.remove(&rd, RegionData[T]{Region: region, Data: data})
	return rd
}

// Clear removes region from every stored region. Partly covered regions are
// contracted to the pieces left outside it.
func (s *RegionStore[T]) Clear(region Region) RegionRestoreData[T] {
	return s.clear(region, func(T) bool { return true })
}

// ClearData is Clear restricted to entries carrying data.
func (s *RegionStore[T]) ClearData(region Region, data T) RegionRestoreData[T] {
	return s.clear(region, func(d T) bool { return d == data })
}

func (s *RegionStore[T]) clear(region Region, match func(T) bool) RegionRestoreData[T] {
	checkRegion(region)
	var rd RegionRestoreData[T]
	for _, e := range s.GetDataRegionsIn(region) {
		if !match(e.Data) {
			continue
		}
		s.remove(&rd, e)
		for _, piece := range e.Region.Break(region) {
			s.add(&rd, RegionData[T]{Region: piece, Data: e.Data})
		}
	}
	return rd
}

// InsertRows opens n rows at row using the store's expansion policy.
func (s *RegionStore[T]) InsertRows(row, n int) RegionRestoreData[T] {
	return s.insert(AxisRow, row, n, s.cfg.expandWhenInsertAfter)
}

// InsertRowsExpand is InsertRows with an explicit expansion policy.
func (s *RegionStore[T]) InsertRowsExpand(row, n int, expand bool) RegionRestoreData[T] {
	return s.insert(AxisRow, row, n, expand)
}

// InsertCols opens n columns at col using the store's expansion policy.
func (s *RegionStore[T]) InsertCols(col, n int) RegionRestoreData[T] {
	return s.insert(AxisCol, col, n, s.cfg.expandWhenInsertAfter)
}

// InsertColsExpand is InsertCols with an explicit expansion policy.
func (s *RegionStore[T]) InsertColsExpand(col, n int, expand bool) RegionRestoreData[T] {
	return s.insert(AxisCol, col, n, expand)
}

// RemoveRows deletes rows r0..r1.
func (s *RegionStore[T]) RemoveRows(r0, r1 int) RegionRestoreData[T] {
	return s.removeBand(AxisRow, r0, r1)
}

// RemoveCols deletes cols c0..c1.
func (s *RegionStore[T]) RemoveCols(c0, c1 int) RegionRestoreData[T] {
	return s.removeBand(AxisCol, c0, c1)
}

// insert shifts regions starting at or after at by n. Regions straddling at
// grow by n. A region ending right before at grows only when expand is set.
func (s *RegionStore[T]) insert(axis Axis, at, n int, expand bool) RegionRestoreData[T] {
	checkCount("region", n)
	var rd RegionRestoreData[T]
	if n == 0 {
		return rd
	}
	for i, e := range s.entries {
		start, end := e.Region.Span(axis)
		if spansAxis(start, end) {
			continue
		}
		switch {
		case start >= at:
			start, end = start+n, addBound(end, n)
		case end >= at, expand && end == at-1:
			end = addBound(end, n)
		default:
			continue
		}
		s.replace(&rd, i, withSpan(e.Region, axis, start, end))
	}
	return rd
}

// removeBand deletes the band [b0, b1]. Regions inside it are dropped,
// regions overlapping it contract and regions after it shift back.
func (s *RegionStore[T]) removeBand(axis Axis, b0, b1 int) RegionRestoreData[T] {
	checkSpan("region", b0, b1)
	var rd RegionRestoreData[T]
	k := b1 - b0 + 1
	for i := 0; i < len(s.entries); {
		e := s.entries[i]
		start, end := e.Region.Span(axis)
		switch {
		case end < b0, spansAxis(start, end):
			i++
			continue
		case start > b1:
			start, end = start-k, addBound(end, -k)
		case start >= b0 && end <= b1:
			s.remove(&rd, e)
			continue
		default:
			start = min(start, b0)
			if end > b1 {
				end = addBound(end, -k)
			} else {
				end = b0 - 1
			}
		}
		region := withSpan(e.Region, axis, start, end)
		if region.Area() <= s.cfg.minArea {
			s.remove(&rd, e)
			continue
		}
		s.replace(&rd, i, region)
		i++
	}
	return rd
}

func (s *RegionStore[T]) replace(rd *RegionRestoreData[T], i int, region Region) {
	old := s.entries[i]
	s.entries[i].Region = region
	rd.addRemoved(old)
	rd.addAdded(s.entries[i])
}

// Copy clears the destination of from translated to origin to, then adds a
// translated copy of every stored piece intersecting from.
func (s *RegionStore[T]) Copy(from Region, to Position) RegionRestoreData[T] {
	checkRegion(from)
	dr, dc := to.Row-from.Top, to.Col-from.Left
	var pieces []RegionData[T]
	for _, e := range s.GetDataRegionsIn(from) {
		in, _ := e.Region.Intersection(from)
		pieces = append(pieces, RegionData[T]{Region: in.Translate(dr, dc), Data: e.Data})
	}
	rd := s.Clear(from.Translate(dr, dc))
	for _, p := range pieces {
		s.add(&rd, p)
	}
	return rd
}

// Restore deletes what data added, re-adds what it removed and returns the
// capture that reverses the replay.
func (s *RegionStore[T]) Restore(data RegionRestoreData[T]) RegionRestoreData[T] {
	var rd RegionRestoreData[T]
	for _, e := range data.Added {
		s.remove(&rd, e)
	}
	for _, e := range data.Removed {
		s.entries = append(s.entries, e)
		rd.addAdded(e)
	}
	return rd
}

// spansAxis reports whether a region covers its whole axis, as whole-row
// regions do along columns. Such regions never move along that axis.
func spansAxis(start, end int) bool { return start == 0 && end == Unbounded }

func withSpan(r Region, axis Axis, start, end int) Region {
	if axis == AxisCol {
		r.Left, r.Right = start, end
	} else {
		r.Top, r.Bottom = start, end
	}
	return r
}

func checkRegion(r Region) {
	if err := r.Validate(); err != nil {
		panic("region: " + err.Error())
	}
}
