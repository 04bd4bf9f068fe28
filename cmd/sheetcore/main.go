// Package main provides the sheetcore CLI: load one worksheet of an xlsx
// workbook, optionally edit it, and print it as tab-separated text.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javajack/sheetcore"
	"github.com/javajack/sheetcore/store"
	"github.com/javajack/sheetcore/xlsx"
)

type flags struct {
	sheet      string
	ref        string
	describe   bool
	pastePath  string
	pasteAt    string
	hideRows   string
	autofit    bool
	outputPath string
	validate   bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:   "sheetcore [input.xlsx]",
		Short: "Load, edit and print a worksheet",
		Long: `sheetcore loads one worksheet of an xlsx workbook into memory, applies
the requested edits and prints the used range as tab-separated text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], f)
		},
	}

	rootCmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to load (default: first)")
	rootCmd.Flags().StringVarP(&f.ref, "range", "r", "", "Range to print, e.g. A1:C10 (default: used range)")
	rootCmd.Flags().BoolVar(&f.describe, "describe", false, "Print the sheet layout instead of cell text")
	rootCmd.Flags().StringVar(&f.pastePath, "paste", "", "Tab-separated file to paste before printing ('-' for stdin)")
	rootCmd.Flags().StringVar(&f.pasteAt, "at", "A1", "Top-left cell for --paste")
	rootCmd.Flags().StringVar(&f.hideRows, "hide-rows", "", "Rows to hide, e.g. 10:18")
	rootCmd.Flags().BoolVar(&f.autofit, "autofit", false, "Fit column widths to their text")
	rootCmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Save the edited sheet to this xlsx file")
	rootCmd.Flags().BoolVar(&f.validate, "validate", false, "Report formula and merge problems instead of printing cells")
	rootCmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log sheet activity to stderr")
	return rootCmd
}

func run(cmd *cobra.Command, inputPath string, f *flags) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	var sheetOpts []sheetcore.Option
	if f.verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		sheetOpts = append(sheetOpts, sheetcore.WithLogger(logger))
	}
	s, err := xlsx.Open(inputPath, xlsx.WithSheet(f.sheet), xlsx.WithSheetOptions(sheetOpts...))
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	if err := edit(cmd, s, f); err != nil {
		return err
	}

	if f.outputPath != "" {
		if err := xlsx.Save(s, f.outputPath, s.Name()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if f.validate {
		return report(out, s.Validate())
	}
	if f.describe {
		_, err := io.WriteString(out, s.Describe())
		return err
	}
	region, ok := usedRange(s)
	if f.ref != "" {
		if region, err = s.Range(f.ref); err != nil {
			return err
		}
		ok = true
	}
	if !ok {
		return nil
	}
	text, _ := s.GetRegionAsDelimitedText(region)
	_, err = io.WriteString(out, text)
	return err
}

func report(out io.Writer, issues []sheetcore.ValidationIssue) error {
	errs := 0
	for _, issue := range issues {
		if issue.Severity == sheetcore.SeverityError {
			errs++
		}
		if _, err := fmt.Fprintln(out, issue); err != nil {
			return err
		}
	}
	if errs > 0 {
		return fmt.Errorf("validation found %d error(s)", errs)
	}
	return nil
}

func edit(cmd *cobra.Command, s *sheetcore.Sheet, f *flags) error {
	if f.pastePath != "" {
		text, err := readPaste(cmd, f.pastePath)
		if err != nil {
			return err
		}
		at, err := store.ParsePosition(f.pasteAt)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		if _, _, err := s.InsertDelimitedText(text, at); err != nil {
			return fmt.Errorf("paste failed: %w", err)
		}
	}
	if f.hideRows != "" {
		start, end, err := parseRowSpan(f.hideRows)
		if err != nil {
			return err
		}
		if _, err := s.Rows.Hide(start, end); err != nil {
			return fmt.Errorf("hide rows %s: %w", f.hideRows, err)
		}
	}
	if f.autofit && s.NumCols() > 0 {
		if _, err := s.AutoFitColumns(0, s.NumCols()-1); err != nil {
			return fmt.Errorf("autofit failed: %w", err)
		}
	}
	return nil
}

func readPaste(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read paste input: %w", err)
	}
	return string(data), nil
}

// parseRowSpan parses a one-based "N" or "N:M" into zero-based indices.
func parseRowSpan(s string) (int, int, error) {
	first, last, found := strings.Cut(s, ":")
	if !found {
		last = first
	}
	start, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || start < 1 {
		return 0, 0, fmt.Errorf("invalid row span %q", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil || end < start {
		return 0, 0, fmt.Errorf("invalid row span %q", s)
	}
	return start - 1, end - 1, nil
}

// usedRange is the bounding box of every cell holding data.
func usedRange(s *sheetcore.Sheet) (store.Region, bool) {
	positions := s.Cells.NonEmptyPositions(s.Region())
	if len(positions) == 0 {
		return store.Region{}, false
	}
	r := store.CellRegion(positions[0].Row, positions[0].Col)
	for _, p := range positions[1:] {
		r = r.Union(store.CellRegion(p.Row, p.Col))
	}
	return r, true
}
