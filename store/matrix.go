package store

// Entry is a stored (row, col) value.
type Entry[T any] struct {
	Row   int
	Col   int
	Value T
}

// Position returns the entry's coordinate.
func (e Entry[T]) Position() Position { return Position{Row: e.Row, Col: e.Col} }

// CellChange records the state of one cell before it was written or
// cleared. Existed is false when the cell held no value.
type CellChange[T any] struct {
	Row     int
	Col     int
	Value   T
	Existed bool
}

// MatrixRestoreData is the ordered log of prior cell states displaced by
// a mutation. Replaying it backwards reverses the mutation exactly.
type MatrixRestoreData[T any] struct {
	Changes []CellChange[T]
}

// Merge appends o's changes after d's.
func (d *MatrixRestoreData[T]) Merge(o MatrixRestoreData[T]) {
	d.Changes = append(d.Changes, o.Changes...)
}

// Empty reports whether nothing was captured.
func (d MatrixRestoreData[T]) Empty() bool { return len(d.Changes) == 0 }

// Removed returns the values that existed before the mutation.
func (d MatrixRestoreData[T]) Removed() []Entry[T] {
	var out []Entry[T]
	for _, c := range d.Changes {
		if c.Existed {
			out = append(out, Entry[T]{Row: c.Row, Col: c.Col, Value: c.Value})
		}
	}
	return out
}

// AffectedPositions returns each touched position once, in capture order.
func (d MatrixRestoreData[T]) AffectedPositions() []Position {
	seen := make(map[Position]struct{}, len(d.Changes))
	var out []Position
	for _, c := range d.Changes {
		p := Position{Row: c.Row, Col: c.Col}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// MatrixStore stores one aspect of cell data keyed by (row, col). Absent
// cells read as the store's default and are never materialized.
type MatrixStore[T any] interface {
	Contains(row, col int) bool
	Get(row, col int) T
	Set(row, col int, value T) MatrixRestoreData[T]
	Clear(row, col int) MatrixRestoreData[T]
	ClearPositions(positions []Position) MatrixRestoreData[T]
	ClearRegion(region Region) MatrixRestoreData[T]
	ClearRegions(regions []Region) MatrixRestoreData[T]

	InsertRowAt(row, n int)
	InsertColAt(col, n int)
	RemoveRowAt(row, n int) MatrixRestoreData[T]
	RemoveColAt(col, n int) MatrixRestoreData[T]

	NonEmptyPositions(region Region) []Position
	NonEmptyData(region Region) []Entry[T]
	NextNonBlankRow(row, col int) (int, bool)
	NextNonBlankCol(row, col int) (int, bool)

	Copy(from, to Region) MatrixRestoreData[T]
	SubMatrix(region Region, resetOffsets bool) MatrixStore[T]
	Restore(data MatrixRestoreData[T]) MatrixRestoreData[T]
}

func setChange[T any](row, col int, prev T, existed bool) MatrixRestoreData[T] {
	return MatrixRestoreData[T]{Changes: []CellChange[T]{{Row: row, Col: col, Value: prev, Existed: existed}}}
}

func clearPositions[T any](m MatrixStore[T], positions []Position) MatrixRestoreData[T] {
	var data MatrixRestoreData[T]
	for _, p := range positions {
		data.Merge(m.Clear(p.Row, p.Col))
	}
	return data
}

func clearRegions[T any](m MatrixStore[T], regions []Region) MatrixRestoreData[T] {
	var data MatrixRestoreData[T]
	for _, r := range regions {
		data.Merge(m.ClearRegion(r))
	}
	return data
}

// copyRegion clears to and writes the non-empty entries of from into it,
// offset by the difference of the two origins.
func copyRegion[T any](m MatrixStore[T], from, to Region) MatrixRestoreData[T] {
	entries := m.NonEmptyData(from)
	data := m.ClearRegion(to)
	dr := to.Top - from.Top
	dc := to.Left - from.Left
	for _, e := range entries {
		r, c := e.Row+dr, e.Col+dc
		if !to.Contains(r, c) {
			continue
		}
		data.Merge(m.Set(r, c, e.Value))
	}
	return data
}

func restoreMatrix[T any](m MatrixStore[T], data MatrixRestoreData[T]) MatrixRestoreData[T] {
	var inverse MatrixRestoreData[T]
	for i := len(data.Changes) - 1; i >= 0; i-- {
		c := data.Changes[i]
		if c.Existed {
			inverse.Merge(m.Set(c.Row, c.Col, c.Value))
		} else {
			inverse.Merge(m.Clear(c.Row, c.Col))
		}
	}
	return inverse
}

func subMatrix[T any](m MatrixStore[T], dst MatrixStore[T], region Region, resetOffsets bool) MatrixStore[T] {
	dr, dc := 0, 0
	if resetOffsets {
		dr, dc = region.Top, region.Left
	}
	for _, e := range m.NonEmptyData(region) {
		dst.Set(e.Row-dr, e.Col-dc, e.Value)
	}
	return dst
}
