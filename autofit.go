package sheetcore

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/javajack/sheetcore/store"
)

// AutoFitColumns sizes columns start..end to their widest visible text.
// Columns with no text return to the default width; hidden columns and
// merged cells are skipped.
func (s *Sheet) AutoFitColumns(start, end int) (RestoreData, error) {
	if err := s.Columns.checkSpan(start, end); err != nil {
		return RestoreData{}, err
	}
	s.BatchUpdates()
	defer s.EndBatchUpdates()

	var rd RestoreData
	for col := start; col <= end; col++ {
		if !s.Columns.IsVisible(col) {
			continue
		}
		width := s.Columns.DefaultSize()
		if cells := s.textWidth(store.ColumnRegion(col, col), maxLineWidth); cells > 0 {
			width = float64(cells)*s.opts.charWidth + s.opts.cellPadding
		}
		if width == s.Columns.Size(col) {
			continue
		}
		d, err := s.Columns.SetSize(col, col, width)
		if err != nil {
			return rd, err
		}
		rd.Merge(d)
	}
	return rd, nil
}

// AutoFitRows sizes rows start..end to fit their tallest multi-line text, one
// default row height per line.
func (s *Sheet) AutoFitRows(start, end int) (RestoreData, error) {
	if err := s.Rows.checkSpan(start, end); err != nil {
		return RestoreData{}, err
	}
	s.BatchUpdates()
	defer s.EndBatchUpdates()

	var rd RestoreData
	for row := start; row <= end; row++ {
		if !s.Rows.IsVisible(row) {
			continue
		}
		lines := max(s.textWidth(store.RowRegion(row, row), lineCount), 1)
		height := float64(lines) * s.Rows.DefaultSize()
		if height == s.Rows.Size(row) {
			continue
		}
		d, err := s.Rows.SetSize(row, row, height)
		if err != nil {
			return rd, err
		}
		rd.Merge(d)
	}
	return rd, nil
}

func maxLineWidth(text string) int {
	w := 0
	for line := range strings.SplitSeq(text, "\n") {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}

func lineCount(text string) int { return strings.Count(text, "\n") + 1 }

// textWidth returns the largest measure of the unmerged cell texts in region.
func (s *Sheet) textWidth(region store.Region, measure func(string) int) int {
	clipped, ok := s.Clip(region)
	if !ok {
		return 0
	}
	best := 0
	for _, p := range s.Cells.NonEmptyPositions(clipped) {
		if s.Cells.IsMerged(p.Row, p.Col) {
			continue
		}
		text := DisplayText(s.Cells.GetValue(p.Row, p.Col))
		if text == "" {
			text = s.Cells.GetFormula(p.Row, p.Col)
		}
		best = max(best, measure(text))
	}
	return best
}
