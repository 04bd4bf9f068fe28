package store

// RowMatrix is a row-major sparse matrix: a sparse list of rows, each a
// sparse list of columns. It adds dense extraction by contiguous row scans.
type RowMatrix[T any] struct {
	rows *SparseList[*SparseList[T]]
	def  T
}

var _ MatrixStore[int] = (*RowMatrix[int])(nil)

// NewRowMatrix returns an empty matrix whose absent cells read as def.
func NewRowMatrix[T any](def T) *RowMatrix[T] {
	return &RowMatrix[T]{rows: NewSparseList[*SparseList[T]](nil), def: def}
}

func (m *RowMatrix[T]) Contains(row, col int) bool {
	r := m.rows.Get(row)
	return r != nil && r.Contains(col)
}

func (m *RowMatrix[T]) Get(row, col int) T {
	r := m.rows.Get(row)
	if r == nil {
		return m.def
	}
	return r.Get(col)
}

func (m *RowMatrix[T]) Set(row, col int, value T) MatrixRestoreData[T] {
	r := m.rows.Get(row)
	if r == nil {
		r = NewSparseList(m.def)
		m.rows.Set(row, r)
	}
	prev, existed := r.Set(col, value)
	return setChange(row, col, prev, existed)
}

func (m *RowMatrix[T]) Clear(row, col int) MatrixRestoreData[T] {
	r := m.rows.Get(row)
	if r == nil {
		return MatrixRestoreData[T]{}
	}
	prev, ok := r.Clear(col)
	if !ok {
		return MatrixRestoreData[T]{}
	}
	if r.Len() == 0 {
		m.rows.Clear(row)
	}
	return setChange(row, col, prev, true)
}

func (m *RowMatrix[T]) ClearPositions(positions []Position) MatrixRestoreData[T] {
	return clearPositions[T](m, positions)
}

func (m *RowMatrix[T]) ClearRegion(region Region) MatrixRestoreData[T] {
	var data MatrixRestoreData[T]
	for _, row := range m.rows.NonEmptyBetween(region.Top, region.Bottom) {
		for _, it := range row.Value.ClearBetween(region.Left, region.Right) {
			data.Changes = append(data.Changes, CellChange[T]{Row: row.Index, Col: it.Index, Value: it.Value, Existed: true})
		}
		if row.Value.Len() == 0 {
			m.rows.Clear(row.Index)
		}
	}
	return data
}

func (m *RowMatrix[T]) ClearRegions(regions []Region) MatrixRestoreData[T] {
	return clearRegions[T](m, regions)
}

func (m *RowMatrix[T]) InsertRowAt(row, n int) {
	checkCount("matrix", n)
	m.rows.InsertAt(row, n)
}

func (m *RowMatrix[T]) InsertColAt(col, n int) {
	checkCount("matrix", n)
	for _, row := range m.rows.Items() {
		row.Value.InsertAt(col, n)
	}
}

func (m *RowMatrix[T]) RemoveRowAt(row, n int) MatrixRestoreData[T] {
	checkCount("matrix", n)
	var data MatrixRestoreData[T]
	if n == 0 {
		return data
	}
	for _, r := range m.rows.DeleteAt(row, n) {
		for _, it := range r.Value.Items() {
			data.Changes = append(data.Changes, CellChange[T]{Row: r.Index, Col: it.Index, Value: it.Value, Existed: true})
		}
	}
	return data
}

func (m *RowMatrix[T]) RemoveColAt(col, n int) MatrixRestoreData[T] {
	checkCount("matrix", n)
	var data MatrixRestoreData[T]
	if n == 0 {
		return data
	}
	for _, r := range m.rows.Items() {
		for _, it := range r.Value.DeleteAt(col, n) {
			data.Changes = append(data.Changes, CellChange[T]{Row: r.Index, Col: it.Index, Value: it.Value, Existed: true})
		}
		if r.Value.Len() == 0 {
			m.rows.Clear(r.Index)
		}
	}
	return data
}

func (m *RowMatrix[T]) NonEmptyPositions(region Region) []Position {
	var out []Position
	for _, row := range m.rows.NonEmptyBetween(region.Top, region.Bottom) {
		for _, it := range row.Value.NonEmptyBetween(region.Left, region.Right) {
			out = append(out, Position{Row: row.Index, Col: it.Index})
		}
	}
	return out
}

func (m *RowMatrix[T]) NonEmptyData(region Region) []Entry[T] {
	var out []Entry[T]
	for _, row := range m.rows.NonEmptyBetween(region.Top, region.Bottom) {
		for _, it := range row.Value.NonEmptyBetween(region.Left, region.Right) {
			out = append(out, Entry[T]{Row: row.Index, Col: it.Index, Value: it.Value})
		}
	}
	return out
}

// NonEmptyRowData returns, for each stored row inside region, the dense
// slice of its columns. Rows with no data are omitted.
func (m *RowMatrix[T]) NonEmptyRowData(region Region) []Item[[]T] {
	var out []Item[[]T]
	for _, row := range m.rows.NonEmptyBetween(region.Top, region.Bottom) {
		if len(row.Value.NonEmptyBetween(region.Left, region.Right)) == 0 {
			continue
		}
		out = append(out, Item[[]T]{Index: row.Index, Value: row.Value.DataBetween(region.Left, region.Right)})
	}
	return out
}

// Data returns region as a dense grid, absent cells filled with the default.
// region must be bounded.
func (m *RowMatrix[T]) Data(region Region) [][]T {
	out := make([][]T, region.Height())
	for i := range out {
		if r := m.rows.Get(region.Top + i); r != nil {
			out[i] = r.DataBetween(region.Left, region.Right)
			continue
		}
		line := make([]T, region.Width())
		for k := range line {
			line[k] = m.def
		}
		out[i] = line
	}
	return out
}

func (m *RowMatrix[T]) NextNonBlankRow(row, col int) (int, bool) {
	for next, ok := m.rows.NextIndex(row); ok; next, ok = m.rows.NextIndex(next) {
		if m.rows.Get(next).Contains(col) {
			return next, true
		}
	}
	return -1, false
}

func (m *RowMatrix[T]) NextNonBlankCol(row, col int) (int, bool) {
	r := m.rows.Get(row)
	if r == nil {
		return -1, false
	}
	return r.NextIndex(col)
}

func (m *RowMatrix[T]) Copy(from, to Region) MatrixRestoreData[T] {
	return copyRegion[T](m, from, to)
}

func (m *RowMatrix[T]) SubMatrix(region Region, resetOffsets bool) MatrixStore[T] {
	return subMatrix[T](m, NewRowMatrix(m.def), region, resetOffsets)
}

func (m *RowMatrix[T]) Restore(data MatrixRestoreData[T]) MatrixRestoreData[T] {
	return restoreMatrix[T](m, data)
}
