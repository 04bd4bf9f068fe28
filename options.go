package sheetcore

import "log/slog"

// Layout selects the internal layout of the cell aspect matrices.
type Layout int

const (
	// LayoutColumns stores cells column-major in ordered trees.
	LayoutColumns Layout = iota
	// LayoutRows stores cells row-major in sparse lists, which favours dense
	// row extraction.
	LayoutRows
)

// Options holds configuration for a Sheet.
type Options struct {
	defaultRowHeight   float64
	defaultColumnWidth float64
	layout             Layout
	formulas           FormulaTracker
	logger             *slog.Logger
	charWidth          float64
	cellPadding        float64
	expandMerges       bool
	name               string
}

func defaultOptions() *Options {
	return &Options{
		defaultRowHeight:   25,
		defaultColumnWidth: 105,
		layout:             LayoutColumns,
		logger:             slog.New(slog.DiscardHandler),
		charWidth:          7,
		cellPadding:        8,
	}
}

// Option configures a Sheet.
type Option func(*Options)

// WithDefaultRowHeight sets the height of rows never sized explicitly (default: 25).
func WithDefaultRowHeight(h float64) Option {
	return func(o *Options) { o.defaultRowHeight = h }
}

// WithDefaultColumnWidth sets the width of columns never sized explicitly (default: 105).
func WithDefaultColumnWidth(w float64) Option {
	return func(o *Options) { o.defaultColumnWidth = w }
}

// WithMatrixLayout selects how cell aspects are stored (default: LayoutColumns).
func WithMatrixLayout(l Layout) Option {
	return func(o *Options) { o.layout = l }
}

// WithFormulaTracker registers the dependency layer notified when formulas
// are written or cleared.
func WithFormulaTracker(t FormulaTracker) Option {
	return func(o *Options) { o.formulas = t }
}

// WithLogger sets the structured logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCharWidth sets the pixel width of one display cell of text used by
// auto-fit (default: 7).
func WithCharWidth(w float64) Option {
	return func(o *Options) { o.charWidth = w }
}

// WithCellPadding sets the horizontal padding auto-fit adds to a column (default: 8).
func WithCellPadding(p float64) Option {
	return func(o *Options) { o.cellPadding = p }
}

// WithExpandMerges makes merged regions ending just before an inserted row
// or column grow over it.
func WithExpandMerges(expand bool) Option {
	return func(o *Options) { o.expandMerges = expand }
}

// WithName records the name of the worksheet the sheet stands for.
func WithName(name string) Option {
	return func(o *Options) { o.name = name }
}
