package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/sheetcore"
	"github.com/javajack/sheetcore/store"
)

// Export writes s into worksheet name of f, creating the worksheet if it is
// missing. Values, formulas, stored formats, merges, sizes and hidden rows
// and columns are written. Conditional formats are not.
func Export(s *sheetcore.Sheet, f *excelize.File, name string) error {
	if idx, err := f.GetSheetIndex(name); err != nil {
		return fmt.Errorf("look up sheet %q: %w", name, err)
	} else if idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}
	ex := exporter{f: f, name: name, sheet: s, styles: map[sheetcore.Format]int{}}
	steps := []func() error{ex.cells, ex.formats, ex.merges, ex.rows, ex.columns}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo exports s into a new workbook with a single worksheet and writes
// it to w.
func WriteTo(s *sheetcore.Sheet, w io.Writer, name string) error {
	f, err := newWorkbook(s, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save exports s into a new workbook with a single worksheet at path.
func Save(s *sheetcore.Sheet, path, name string) error {
	f, err := newWorkbook(s, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

func newWorkbook(s *sheetcore.Sheet, name string) (*excelize.File, error) {
	f := excelize.NewFile()
	first := f.GetSheetList()[0]
	if name != first {
		if err := f.SetSheetName(first, name); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet to %q: %w", name, err)
		}
	}
	if err := Export(s, f, name); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

type exporter struct {
	f      *excelize.File
	name   string
	sheet  *sheetcore.Sheet
	styles map[sheetcore.Format]int
}

func (ex *exporter) cells() error {
	for _, p := range ex.sheet.Cells.NonEmptyPositions(ex.sheet.Region()) {
		cell := p.String()
		c := ex.sheet.Cells.GetCell(p.Row, p.Col)
		var err error
		switch v := c.Value.(type) {
		case sheetcore.Hyperlink:
			err = ex.hyperlink(cell, v)
		default:
			if c.HasFormula() {
				err = ex.f.SetCellFormula(ex.name, cell, strings.TrimPrefix(c.Formula, "="))
			} else {
				err = ex.f.SetCellValue(ex.name, cell, v)
			}
		}
		if err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	return nil
}

func (ex *exporter) hyperlink(cell string, h sheetcore.Hyperlink) error {
	if err := ex.f.SetCellValue(ex.name, cell, h.String()); err != nil {
		return err
	}
	return ex.f.SetCellHyperLink(ex.name, cell, h.URL, "External")
}

func (ex *exporter) formats() error {
	region := ex.sheet.Region()
	seen := map[store.Position]bool{}
	positions := append(ex.sheet.Cells.FormattedPositions(region), ex.sheet.Cells.NonEmptyPositions(region)...)
	for _, p := range positions {
		if seen[p] {
			continue
		}
		seen[p] = true
		f := ex.sheet.GetFormat(p.Row, p.Col)
		if f.IsEmpty() {
			continue
		}
		id, err := ex.style(f)
		if err != nil {
			return err
		}
		cell := p.String()
		if err := ex.f.SetCellStyle(ex.name, cell, cell, id); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
	}
	return nil
}

func (ex *exporter) style(f sheetcore.Format) (int, error) {
	if id, ok := ex.styles[f]; ok {
		return id, nil
	}
	id, err := ex.f.NewStyle(styleFromFormat(f))
	if err != nil {
		return 0, fmt.Errorf("create style for %+v: %w", f, err)
	}
	ex.styles[f] = id
	return id, nil
}

func (ex *exporter) merges() error {
	for _, m := range ex.sheet.Cells.Merges() {
		tl := m.TopLeft().String()
		br := store.Position{Row: m.Bottom, Col: m.Right}.String()
		if err := ex.f.MergeCell(ex.name, tl, br); err != nil {
			return fmt.Errorf("merge %s:%s: %w", tl, br, err)
		}
	}
	return nil
}

func (ex *exporter) rows() error {
	rows := ex.sheet.Rows
	for r := range ex.sheet.NumRows() {
		if size := rows.ShownSize(r); size != rows.DefaultSize() {
			if err := ex.f.SetRowHeight(ex.name, r+1, RowPoints(size)); err != nil {
				return fmt.Errorf("set height of row %d: %w", r+1, err)
			}
		}
		if !rows.IsVisible(r) {
			if err := ex.f.SetRowVisible(ex.name, r+1, false); err != nil {
				return fmt.Errorf("hide row %d: %w", r+1, err)
			}
		}
	}
	return nil
}

func (ex *exporter) columns() error {
	cols := ex.sheet.Columns
	for c := range ex.sheet.NumCols() {
		col := store.ColToName(c)
		if size := cols.ShownSize(c); size != cols.DefaultSize() {
			if err := ex.f.SetColWidth(ex.name, col, col, ColumnChars(size)); err != nil {
				return fmt.Errorf("set width of column %s: %w", col, err)
			}
		}
		if !cols.IsVisible(c) {
			if err := ex.f.SetColVisible(ex.name, col, false); err != nil {
				return fmt.Errorf("hide column %s: %w", col, err)
			}
		}
	}
	return nil
}
