package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unbounded marks the open end of a whole-row or whole-column region.
const Unbounded = math.MaxInt32

// Axis selects rows or columns.
type Axis int

const (
	AxisRow Axis = iota
	AxisCol
)

func (a Axis) String() string {
	if a == AxisCol {
		return "col"
	}
	return "row"
}

// Position is a zero-based (row, col) grid coordinate.
type Position struct {
	Row int
	Col int
}

// String formats the position in A1 notation.
func (p Position) String() string {
	return ColToName(p.Col) + fmt.Sprintf("%d", p.Row+1)
}

// Region is an inclusive axis-aligned rectangle. Bottom or Right may be
// Unbounded for whole-row and whole-column regions.
type Region struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// NewRegion returns the region spanning rows top..bottom and cols left..right.
func NewRegion(top, bottom, left, right int) Region {
	return Region{Top: top, Bottom: bottom, Left: left, Right: right}
}

// CellRegion returns the single-cell region at (row, col).
func CellRegion(row, col int) Region {
	return Region{Top: row, Bottom: row, Left: col, Right: col}
}

// RowRegion spans rows top..bottom across every column.
func RowRegion(top, bottom int) Region {
	return Region{Top: top, Bottom: bottom, Left: 0, Right: Unbounded}
}

// ColumnRegion spans cols left..right across every row.
func ColumnRegion(left, right int) Region {
	return Region{Top: 0, Bottom: Unbounded, Left: left, Right: right}
}

// Validate reports inverted or negative bounds.
func (r Region) Validate() error {
	if r.Top < 0 || r.Left < 0 {
		return fmt.Errorf("region %v has negative bounds", r)
	}
	if r.Top > r.Bottom || r.Left > r.Right {
		return fmt.Errorf("region %v has inverted bounds", r)
	}
	return nil
}

// IsRowRegion reports whether the region spans every column.
func (r Region) IsRowRegion() bool { return r.Left == 0 && r.Right == Unbounded }

// IsColumnRegion reports whether the region spans every row.
func (r Region) IsColumnRegion() bool { return r.Top == 0 && r.Bottom == Unbounded }

// TopLeft returns the region's origin.
func (r Region) TopLeft() Position { return Position{Row: r.Top, Col: r.Left} }

// Height is the number of rows covered.
func (r Region) Height() int { return r.Bottom - r.Top + 1 }

// Width is the number of columns covered.
func (r Region) Width() int { return r.Right - r.Left + 1 }

// Area is Height*Width, or zero for degenerate regions.
func (r Region) Area() int {
	if r.Bottom < r.Top || r.Right < r.Left {
		return 0
	}
	return r.Height() * r.Width()
}

// Contains reports whether (row, col) lies inside the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.Top && row <= r.Bottom && col >= r.Left && col <= r.Right
}

// ContainsRegion reports whether o lies entirely inside r.
func (r Region) ContainsRegion(o Region) bool {
	return o.Top >= r.Top && o.Bottom <= r.Bottom && o.Left >= r.Left && o.Right <= r.Right
}

// Intersects reports whether the two regions share at least one cell.
func (r Region) Intersects(o Region) bool {
	return r.Top <= o.Bottom && o.Top <= r.Bottom && r.Left <= o.Right && o.Left <= r.Right
}

// Intersection returns the shared part of two regions.
func (r Region) Intersection(o Region) (Region, bool) {
	if !r.Intersects(o) {
		return Region{}, false
	}
	return Region{
		Top:    max(r.Top, o.Top),
		Bottom: min(r.Bottom, o.Bottom),
		Left:   max(r.Left, o.Left),
		Right:  min(r.Right, o.Right),
	}, true
}

// Union returns the bounding box of both regions.
func (r Region) Union(o Region) Region {
	return Region{
		Top:    min(r.Top, o.Top),
		Bottom: max(r.Bottom, o.Bottom),
		Left:   min(r.Left, o.Left),
		Right:  max(r.Right, o.Right),
	}
}

// Translate moves the region by (dRow, dCol). Unbounded edges stay unbounded.
func (r Region) Translate(dRow, dCol int) Region {
	return Region{
		Top:    r.Top + dRow,
		Bottom: addBound(r.Bottom, dRow),
		Left:   r.Left + dCol,
		Right:  addBound(r.Right, dCol),
	}
}

// Break subtracts o from r, returning up to four non-overlapping pieces
// that cover what remains of r.
func (r Region) Break(o Region) []Region {
	in, ok := r.Intersection(o)
	if !ok {
		return []Region{r}
	}
	var pieces []Region
	if in.Top > r.Top {
		pieces = append(pieces, Region{Top: r.Top, Bottom: in.Top - 1, Left: r.Left, Right: r.Right})
	}
	if in.Bottom < r.Bottom {
		pieces = append(pieces, Region{Top: in.Bottom + 1, Bottom: r.Bottom, Left: r.Left, Right: r.Right})
	}
	if in.Left > r.Left {
		pieces = append(pieces, Region{Top: in.Top, Bottom: in.Bottom, Left: r.Left, Right: in.Left - 1})
	}
	if in.Right < r.Right {
		pieces = append(pieces, Region{Top: in.Top, Bottom: in.Bottom, Left: in.Right + 1, Right: r.Right})
	}
	return pieces
}

// Span returns the region's extent along axis.
func (r Region) Span(axis Axis) (start, end int) {
	if axis == AxisCol {
		return r.Left, r.Right
	}
	return r.Top, r.Bottom
}

// String formats the region as "A1:C5", "A:B" or "2:4".
func (r Region) String() string {
	switch {
	case r.Right == Unbounded && r.Bottom == Unbounded:
		return "*"
	case r.Right == Unbounded:
		return fmt.Sprintf("%d:%d", r.Top+1, r.Bottom+1)
	case r.Bottom == Unbounded:
		return ColToName(r.Left) + ":" + ColToName(r.Right)
	}
	if r.Top == r.Bottom && r.Left == r.Right {
		return r.TopLeft().String()
	}
	return r.TopLeft().String() + ":" + Position{Row: r.Bottom, Col: r.Right}.String()
}

func addBound(v, d int) int {
	if v == Unbounded {
		return v
	}
	return v + d
}

// ParsePosition parses a reference like "A1" or "$B$7".
func ParsePosition(s string) (Position, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if s == "" {
		return Position{}, fmt.Errorf("empty cell reference")
	}
	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return Position{}, fmt.Errorf("invalid cell reference: %q", s)
	}
	col, err := NameToCol(s[:i])
	if err != nil {
		return Position{}, err
	}
	row, err := parseRowNumber(s[i:])
	if err != nil {
		return Position{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	return Position{Row: row, Col: col}, nil
}

// ParseRegion parses "A1", "A1:C5", column ranges "A:B" and row ranges "2:4".
func ParseRegion(s string) (Region, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		s = s[idx+1:]
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) == 1 {
		p, err := ParsePosition(parts[0])
		if err != nil {
			return Region{}, err
		}
		return CellRegion(p.Row, p.Col), nil
	}
	a, b := parts[0], parts[1]
	switch {
	case allAlpha(a) && allAlpha(b):
		c0, err := NameToCol(a)
		if err != nil {
			return Region{}, err
		}
		c1, err := NameToCol(b)
		if err != nil {
			return Region{}, err
		}
		return ColumnRegion(min(c0, c1), max(c0, c1)), nil
	case allDigit(a) && allDigit(b):
		r0, err := parseRowNumber(a)
		if err != nil {
			return Region{}, err
		}
		r1, err := parseRowNumber(b)
		if err != nil {
			return Region{}, err
		}
		return RowRegion(min(r0, r1), max(r0, r1)), nil
	}
	p0, err := ParsePosition(a)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	p1, err := ParsePosition(b)
	if err != nil {
		return Region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	return Region{
		Top:    min(p0.Row, p1.Row),
		Bottom: max(p0.Row, p1.Row),
		Left:   min(p0.Col, p1.Col),
		Right:  max(p0.Col, p1.Col),
	}, nil
}

func parseRowNumber(s string) (int, error) {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("invalid row number %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row number %q", s)
	}
	return n - 1, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func allAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

func allDigit(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}
