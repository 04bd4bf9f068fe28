package sheetcore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/javajack/sheetcore/store"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// InsertDelimitedText pastes tab-separated, newline-terminated text with its
// top-left cell at pos. A single trailing empty line is ignored and text that
// runs past the sheet is cut off. It returns the region written; cells are
// stored as strings.
func (s *Sheet) InsertDelimitedText(text string, pos store.Position) (store.Region, RestoreData, error) {
	if !s.Contains(pos.Row, pos.Col) {
		return store.Region{}, RestoreData{}, fmt.Errorf("paste at %v: %w", pos, ErrOutOfSheet)
	}
	lines := strings.Split(lineBreaks.Replace(text), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return store.CellRegion(pos.Row, pos.Col), RestoreData{}, nil
	}

	endRow := min(pos.Row+len(lines)-1, s.numRows-1)
	endCol := pos.Col
	var values []CellValue
	for row := pos.Row; row <= endRow; row++ {
		fields := strings.Split(lines[row-pos.Row], "\t")
		last := min(pos.Col+len(fields)-1, s.numCols-1)
		endCol = max(endCol, last)
		for col := pos.Col; col <= last; col++ {
			values = append(values, CellValue{Row: row, Col: col, Value: fields[col-pos.Col]})
		}
	}
	rd, err := s.Cells.SetValues(values)
	if err != nil {
		return store.Region{}, RestoreData{}, err
	}
	return store.NewRegion(pos.Row, endRow, pos.Col, endCol), rd, nil
}

var cellSeparators = strings.NewReplacer("\r\n", " ", "\t", " ", "\n", " ", "\r", " ")

// GetRegionAsDelimitedText renders region as tab-separated rows, each ended
// by a newline. Tabs and line breaks inside string values become a single
// space. ok is false when region lies outside the sheet.
func (s *Sheet) GetRegionAsDelimitedText(region store.Region) (text string, ok bool) {
	clipped, ok := s.Clip(region)
	if !ok {
		return "", false
	}
	var b strings.Builder
	for row := clipped.Top; row <= clipped.Bottom; row++ {
		for col := clipped.Left; col <= clipped.Right; col++ {
			if col > clipped.Left {
				b.WriteByte('\t')
			}
			b.WriteString(cellSeparators.Replace(DisplayText(s.Cells.GetValue(row, col))))
		}
		b.WriteByte('\n')
	}
	return b.String(), true
}

// DisplayText renders a cell value as plain text.
func DisplayText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return t.Format(time.DateOnly)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
