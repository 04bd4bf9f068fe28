// Package xlsx moves sheets between the in-memory core and xlsx workbooks.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/sheetcore"
	"github.com/javajack/sheetcore/store"
)

// Excel's defaults for sheets that never set a size.
const (
	excelColWidth  = 9.140625 // characters
	excelRowHeight = 15.0     // points
)

// ColumnPixels converts an Excel column width in characters to pixels.
func ColumnPixels(chars float64) float64 { return chars*7 + 5 }

// ColumnChars converts a pixel column width back to Excel characters.
func ColumnChars(px float64) float64 { return max(px-5, 0) / 7 }

// RowPixels converts a row height in points to pixels.
func RowPixels(points float64) float64 { return points * 4 / 3 }

// RowPoints converts a pixel row height back to points.
func RowPoints(px float64) float64 { return px * 3 / 4 }

// Options holds configuration for Import.
type Options struct {
	sheet     string
	minRows   int
	minCols   int
	sheetOpts []sheetcore.Option
}

func defaultOptions() *Options {
	return &Options{minRows: 100, minCols: 26}
}

// Option configures Import.
type Option func(*Options)

// WithSheet selects the worksheet to import (default: the first one).
func WithSheet(name string) Option {
	return func(o *Options) { o.sheet = name }
}

// WithMinSize sets the smallest sheet Import creates (default: 100x26).
func WithMinSize(rows, cols int) Option {
	return func(o *Options) { o.minRows, o.minCols = rows, cols }
}

// WithSheetOptions passes options through to the created sheet. They apply
// after the Excel default sizes.
func WithSheetOptions(opts ...sheetcore.Option) Option {
	return func(o *Options) { o.sheetOpts = append(o.sheetOpts, opts...) }
}

// Open reads the workbook at path and imports one of its worksheets.
func Open(path string, opts ...Option) (*sheetcore.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()
	return Import(f, opts...)
}

// Read imports a worksheet from an xlsx stream.
func Read(r io.Reader, opts ...Option) (*sheetcore.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()
	return Import(f, opts...)
}

// Import builds a sheet from a worksheet of f: values, formulas, cell
// formats, merges, row heights, column widths and hidden rows and columns.
// The sheet is named after the worksheet.
func Import(f *excelize.File, opts ...Option) (*sheetcore.Sheet, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	name := o.sheet
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		name = list[0]
	}

	rows, err := readRows(f, name)
	if err != nil {
		return nil, err
	}
	merges, err := readMerges(f, name)
	if err != nil {
		return nil, err
	}

	numRows, numCols := max(len(rows), o.minRows), o.minCols
	for _, row := range rows {
		numCols = max(numCols, len(row))
	}
	for _, m := range merges {
		numRows, numCols = max(numRows, m.Bottom+1), max(numCols, m.Right+1)
	}

	sheetOpts := append([]sheetcore.Option{
		sheetcore.WithName(name),
		sheetcore.WithDefaultRowHeight(RowPixels(excelRowHeight)),
		sheetcore.WithDefaultColumnWidth(ColumnPixels(excelColWidth)),
	}, o.sheetOpts...)
	s := sheetcore.NewSheet(numRows, numCols, sheetOpts...)
	s.BatchUpdates()
	defer s.EndBatchUpdates()

	im := importer{f: f, name: name, sheet: s, styles: map[int]sheetcore.Format{}}
	if err := im.cells(rows); err != nil {
		return nil, err
	}
	for _, m := range merges {
		if _, err := s.Cells.Merge(m); err != nil {
			return nil, fmt.Errorf("merge %v in sheet %q: %w", m, name, err)
		}
	}
	if err := im.rows(len(rows)); err != nil {
		return nil, err
	}
	if err := im.columns(); err != nil {
		return nil, err
	}
	return s, nil
}

// readRows streams the raw values of every row up to the last row element
// in the worksheet. Unlike GetRows it keeps trailing rows without values,
// which may still carry a height or be hidden.
func readRows(f *excelize.File, name string) ([][]string, error) {
	it, err := f.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", name, err)
	}
	defer it.Close()
	var values [][]string
	for it.Next() {
		row, err := it.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read row %d from sheet %q: %w", len(values)+1, name, err)
		}
		values = append(values, row)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", name, err)
	}
	return values, nil
}

func readMerges(f *excelize.File, name string) ([]store.Region, error) {
	cells, err := f.GetMergeCells(name, true)
	if err != nil {
		return nil, fmt.Errorf("read merges from sheet %q: %w", name, err)
	}
	out := make([]store.Region, 0, len(cells))
	for _, mc := range cells {
		r, err := store.ParseRegion(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merge %v: %w", mc, err)
		}
		out = append(out, r)
	}
	return out, nil
}

type importer struct {
	f      *excelize.File
	name   string
	sheet  *sheetcore.Sheet
	styles map[int]sheetcore.Format
}

func (im *importer) cells(rows [][]string) error {
	var values []sheetcore.CellValue
	for r, row := range rows {
		for c, raw := range row {
			cell := store.Position{Row: r, Col: c}.String()
			if err := im.format(r, c, cell); err != nil {
				return err
			}
			formula, err := im.f.GetCellFormula(im.name, cell)
			if err != nil {
				return fmt.Errorf("read formula %s: %w", cell, err)
			}
			if formula != "" {
				if _, err := im.sheet.Cells.SetFormula(r, c, "="+formula); err != nil {
					return err
				}
				continue
			}
			if raw == "" {
				continue
			}
			v, err := im.value(cell, raw)
			if err != nil {
				return err
			}
			values = append(values, sheetcore.CellValue{Row: r, Col: c, Value: v})
		}
	}
	_, err := im.sheet.Cells.SetValues(values)
	return err
}

func (im *importer) value(cell, raw string) (any, error) {
	linked, target, err := im.f.GetCellHyperLink(im.name, cell)
	if err != nil {
		return nil, fmt.Errorf("read hyperlink %s: %w", cell, err)
	}
	if linked {
		return sheetcore.Hyperlink{URL: target, Display: raw}, nil
	}
	typ, err := im.f.GetCellType(im.name, cell)
	if err != nil {
		return nil, fmt.Errorf("read type %s: %w", cell, err)
	}
	return parseValue(raw, typ), nil
}

func parseValue(raw string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

func (im *importer) format(r, c int, cell string) error {
	id, err := im.f.GetCellStyle(im.name, cell)
	if err != nil {
		return fmt.Errorf("read style id of %s: %w", cell, err)
	}
	if id == 0 {
		return nil
	}
	f, ok := im.styles[id]
	if !ok {
		style, err := im.f.GetStyle(id)
		if err != nil {
			return fmt.Errorf("read style of %s: %w", cell, err)
		}
		f = formatFromStyle(style)
		im.styles[id] = f
	}
	if f.IsEmpty() {
		return nil
	}
	_, err = im.sheet.SetFormat(store.CellRegion(r, c), f)
	return err
}

// rows applies heights and hidden flags of the first n rows. excelize
// reports rows past the last row element as hidden, so they are skipped.
func (im *importer) rows(n int) error {
	for r := range n {
		h, err := im.f.GetRowHeight(im.name, r+1)
		if err != nil {
			return fmt.Errorf("read height of row %d: %w", r+1, err)
		}
		if h != excelRowHeight {
			if _, err := im.sheet.Rows.SetSize(r, r, RowPixels(h)); err != nil {
				return err
			}
		}
		visible, err := im.f.GetRowVisible(im.name, r+1)
		if err != nil {
			return fmt.Errorf("read visibility of row %d: %w", r+1, err)
		}
		if !visible {
			if _, err := im.sheet.Rows.Hide(r, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (im *importer) columns() error {
	for c := range im.sheet.NumCols() {
		col := store.ColToName(c)
		w, err := im.f.GetColWidth(im.name, col)
		if err != nil {
			return fmt.Errorf("read width of column %s: %w", col, err)
		}
		if w != excelColWidth {
			if _, err := im.sheet.Columns.SetSize(c, c, ColumnPixels(w)); err != nil {
				return err
			}
		}
		visible, err := im.f.GetColVisible(im.name, col)
		if err != nil {
			return fmt.Errorf("read visibility of column %s: %w", col, err)
		}
		if !visible {
			if _, err := im.sheet.Columns.Hide(c, c); err != nil {
				return err
			}
		}
	}
	return nil
}
