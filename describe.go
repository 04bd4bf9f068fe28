package sheetcore

import (
	"fmt"
	"strings"

	"github.com/javajack/sheetcore/store"
)

// Describe returns a human-readable dump of everything the sheet stores:
// axis layout, merges, conditional formats and non-empty cells.
// Useful for debugging and golden tests.
func (s *Sheet) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet %dx%d\n", s.numRows, s.numCols)

	s.describeAxis(&b, "Rows", s.Rows, func(i int) string { return fmt.Sprint(i + 1) })
	s.describeAxis(&b, "Columns", s.Columns, store.ColToName)

	if merges := s.Cells.Merges(); len(merges) > 0 {
		b.WriteString("Merges:\n")
		for _, m := range merges {
			fmt.Fprintf(&b, "  %s\n", m)
		}
	}

	if rules := s.ConditionalFormats.Rules(); len(rules) > 0 {
		b.WriteString("Conditional formats:\n")
		for i, r := range rules {
			var refs []string
			for _, region := range s.ConditionalFormats.Regions(r) {
				refs = append(refs, region.String())
			}
			fmt.Fprintf(&b, "  #%d %s %s\n", i+1, describeRule(r), strings.Join(refs, ","))
		}
	}

	if s.numRows == 0 || s.numCols == 0 {
		return b.String()
	}
	positions := s.Cells.NonEmptyPositions(s.Region())
	if len(positions) > 0 {
		b.WriteString("Cells:\n")
	}
	for _, p := range positions {
		c := s.Cells.GetCell(p.Row, p.Col)
		fmt.Fprintf(&b, "  %s", p)
		if c.HasFormula() {
			fmt.Fprintf(&b, " =%s", strings.TrimPrefix(c.Formula, "="))
		} else {
			fmt.Fprintf(&b, " %q", DisplayText(c.Value))
		}
		if c.Type != "" {
			fmt.Fprintf(&b, " type=%s", c.Type)
		}
		if c.Validator != "" {
			fmt.Fprintf(&b, " validator=%s", c.Validator)
		}
		if !c.Format.IsEmpty() {
			fmt.Fprintf(&b, " format=%+v", c.Format)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *Sheet) describeAxis(b *strings.Builder, title string, a *AxisInfo, name func(int) string) {
	var lines []string
	for _, iv := range a.sizes.Intervals() {
		if a.hidden.Contains(iv.Start) {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s size %g", span(iv.Start, iv.End, name), iv.Value))
	}
	for _, iv := range a.hidden.Intervals() {
		lines = append(lines, fmt.Sprintf("  %s hidden", span(iv.Start, iv.End, name)))
	}
	for _, iv := range a.headings.Intervals() {
		lines = append(lines, fmt.Sprintf("  %s heading %q", span(iv.Start, iv.End, name), iv.Value))
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n%s\n", title, strings.Join(lines, "\n"))
}

func span(start, end int, name func(int) string) string {
	if start == end {
		return name(start)
	}
	return name(start) + "-" + name(end)
}

func describeRule(r Rule) string {
	switch t := r.(type) {
	case *ExprRule:
		return fmt.Sprintf("expr %q", t.Expression)
	case *ColorScaleRule:
		return fmt.Sprintf("color scale %s..%s", t.MinColor, t.MaxColor)
	case *PredicateRule:
		return "predicate"
	}
	return fmt.Sprintf("%T", r)
}
