package store

import "github.com/tidwall/btree"

// ColumnMatrix is a column-major sparse matrix: an ordered map of columns,
// each an ordered map of rows.
type ColumnMatrix[T any] struct {
	columns btree.Map[int, *btree.Map[int, T]]
	def     T
}

var _ MatrixStore[int] = (*ColumnMatrix[int])(nil)

// NewColumnMatrix returns an empty matrix whose absent cells read as def.
func NewColumnMatrix[T any](def T) *ColumnMatrix[T] {
	return &ColumnMatrix[T]{def: def}
}

func (m *ColumnMatrix[T]) column(col int) *btree.Map[int, T] {
	c, _ := m.columns.Get(col)
	return c
}

func (m *ColumnMatrix[T]) Contains(row, col int) bool {
	c := m.column(col)
	if c == nil {
		return false
	}
	_, ok := c.Get(row)
	return ok
}

func (m *ColumnMatrix[T]) Get(row, col int) T {
	c := m.column(col)
	if c == nil {
		return m.def
	}
	if v, ok := c.Get(row); ok {
		return v
	}
	return m.def
}

func (m *ColumnMatrix[T]) Set(row, col int, value T) MatrixRestoreData[T] {
	c := m.column(col)
	if c == nil {
		c = new(btree.Map[int, T])
		m.columns.Set(col, c)
	}
	prev, replaced := c.Set(row, value)
	if !replaced {
		prev = m.def
	}
	return setChange(row, col, prev, replaced)
}

func (m *ColumnMatrix[T]) Clear(row, col int) MatrixRestoreData[T] {
	c := m.column(col)
	if c == nil {
		return MatrixRestoreData[T]{}
	}
	prev, ok := c.Delete(row)
	if !ok {
		return MatrixRestoreData[T]{}
	}
	if c.Len() == 0 {
		m.columns.Delete(col)
	}
	return setChange(row, col, prev, true)
}

func (m *ColumnMatrix[T]) ClearPositions(positions []Position) MatrixRestoreData[T] {
	return clearPositions[T](m, positions)
}

func (m *ColumnMatrix[T]) ClearRegion(region Region) MatrixRestoreData[T] {
	var data MatrixRestoreData[T]
	for _, e := range m.NonEmptyData(region) {
		data.Merge(m.Clear(e.Row, e.Col))
	}
	return data
}

func (m *ColumnMatrix[T]) ClearRegions(regions []Region) MatrixRestoreData[T] {
	return clearRegions[T](m, regions)
}

// InsertRowAt moves every entry at or below row down by n.
func (m *ColumnMatrix[T]) InsertRowAt(row, n int) {
	checkCount("matrix", n)
	m.columns.Scan(func(_ int, c *btree.Map[int, T]) bool {
		shiftKeys(c, row, Unbounded, n)
		return true
	})
}

// RemoveRowAt deletes rows row..row+n-1 and moves later rows up by n.
func (m *ColumnMatrix[T]) RemoveRowAt(row, n int) MatrixRestoreData[T] {
	checkCount("matrix", n)
	var data MatrixRestoreData[T]
	if n == 0 {
		return data
	}
	var empty []int
	m.columns.Scan(func(col int, c *btree.Map[int, T]) bool {
		c.Ascend(row, func(r int, v T) bool {
			if r > row+n-1 {
				return false
			}
			data.Changes = append(data.Changes, CellChange[T]{Row: r, Col: col, Value: v, Existed: true})
			return true
		})
		deleteKeys(c, row, row+n-1)
		shiftKeys(c, row+n, Unbounded, -n)
		if c.Len() == 0 {
			empty = append(empty, col)
		}
		return true
	})
	for _, col := range empty {
		m.columns.Delete(col)
	}
	return data
}

// InsertColAt moves every column at or right of col by n.
func (m *ColumnMatrix[T]) InsertColAt(col, n int) {
	checkCount("matrix", n)
	shiftKeys(&m.columns, col, Unbounded, n)
}

// RemoveColAt deletes cols col..col+n-1 and moves later columns left by n.
func (m *ColumnMatrix[T]) RemoveColAt(col, n int) MatrixRestoreData[T] {
	checkCount("matrix", n)
	var data MatrixRestoreData[T]
	if n == 0 {
		return data
	}
	m.columns.Ascend(col, func(k int, c *btree.Map[int, T]) bool {
		if k > col+n-1 {
			return false
		}
		c.Scan(func(r int, v T) bool {
			data.Changes = append(data.Changes, CellChange[T]{Row: r, Col: k, Value: v, Existed: true})
			return true
		})
		return true
	})
	deleteKeys(&m.columns, col, col+n-1)
	shiftKeys(&m.columns, col+n, Unbounded, -n)
	return data
}

func (m *ColumnMatrix[T]) NonEmptyPositions(region Region) []Position {
	var out []Position
	for _, e := range m.NonEmptyData(region) {
		out = append(out, e.Position())
	}
	return out
}

// NonEmptyData seeks to the first column and, inside it, the first row of
// the region, so absent cells are never visited.
func (m *ColumnMatrix[T]) NonEmptyData(region Region) []Entry[T] {
	var out []Entry[T]
	m.columns.Ascend(region.Left, func(col int, c *btree.Map[int, T]) bool {
		if col > region.Right {
			return false
		}
		c.Ascend(region.Top, func(r int, v T) bool {
			if r > region.Bottom {
				return false
			}
			out = append(out, Entry[T]{Row: r, Col: col, Value: v})
			return true
		})
		return true
	})
	return out
}

func (m *ColumnMatrix[T]) NextNonBlankRow(row, col int) (int, bool) {
	c := m.column(col)
	if c == nil {
		return -1, false
	}
	next, found := -1, false
	c.Ascend(row+1, func(r int, _ T) bool {
		next, found = r, true
		return false
	})
	return next, found
}

func (m *ColumnMatrix[T]) NextNonBlankCol(row, col int) (int, bool) {
	next, found := -1, false
	m.columns.Ascend(col+1, func(k int, c *btree.Map[int, T]) bool {
		if _, ok := c.Get(row); ok {
			next, found = k, true
			return false
		}
		return true
	})
	return next, found
}

func (m *ColumnMatrix[T]) Copy(from, to Region) MatrixRestoreData[T] {
	return copyRegion[T](m, from, to)
}

func (m *ColumnMatrix[T]) SubMatrix(region Region, resetOffsets bool) MatrixStore[T] {
	return subMatrix[T](m, NewColumnMatrix(m.def), region, resetOffsets)
}

func (m *ColumnMatrix[T]) Restore(data MatrixRestoreData[T]) MatrixRestoreData[T] {
	return restoreMatrix[T](m, data)
}

// shiftKeys adds delta to every key in [from, to]. Keys are re-inserted in
// an order that never collides with a key still waiting to move.
func shiftKeys[V any](tr *btree.Map[int, V], from, to, delta int) {
	if delta == 0 {
		return
	}
	var keys []int
	var vals []V
	tr.Ascend(from, func(k int, v V) bool {
		if k > to {
			return false
		}
		keys = append(keys, k)
		vals = append(vals, v)
		return true
	})
	for _, k := range keys {
		tr.Delete(k)
	}
	for i, k := range keys {
		tr.Set(k+delta, vals[i])
	}
}

func deleteKeys[V any](tr *btree.Map[int, V], from, to int) {
	var keys []int
	tr.Ascend(from, func(k int, _ V) bool {
		if k > to {
			return false
		}
		keys = append(keys, k)
		return true
	})
	for _, k := range keys {
		tr.Delete(k)
	}
}
