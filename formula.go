package sheetcore

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/javajack/sheetcore/store"
)

// FormulaTracker is the dependency layer that parses and evaluates formulas.
// The sheet only stores formula text; every write and clear of a formula,
// including those replayed by Restore, goes through the tracker so its
// dependency graph stays consistent.
type FormulaTracker interface {
	FormulaSet(pos store.Position, formula string)
	FormulaCleared(pos store.Position, formula string)
}

type noopTracker struct{}

func (noopTracker) FormulaSet(store.Position, string)     {}
func (noopTracker) FormulaCleared(store.Position, string) {}

// cellRefRegex matches A1-style references with optional $ anchors.
var cellRefRegex = regexp.MustCompile(`(\$?)([A-Z]{1,3})(\$?)(\d+)`)

// ShiftFormula relocates the relative references in formula by (dRow, dCol),
// the way a copied formula follows its new position. Anchored ($) parts stay
// fixed, quoted text and function names are left alone, and references
// pushed off the grid become #REF!.
func ShiftFormula(formula string, dRow, dCol int) string {
	if dRow == 0 && dCol == 0 {
		return formula
	}
	return mapReferences(formula, func(r formulaRef) string {
		if !r.colAbs {
			r.Col += dCol
		}
		if !r.rowAbs {
			r.Row += dRow
		}
		if r.Row < 0 || r.Col < 0 {
			return "#REF!"
		}
		return r.String()
	})
}

// FormulaReferences returns the cells referenced by formula in order of
// appearance. Range endpoints are returned as two references.
func FormulaReferences(formula string) []store.Position {
	var refs []store.Position
	mapReferences(formula, func(r formulaRef) string {
		refs = append(refs, r.Position)
		return r.String()
	})
	return refs
}

type formulaRef struct {
	store.Position
	colAbs, rowAbs bool
}

func (r formulaRef) String() string {
	var b strings.Builder
	if r.colAbs {
		b.WriteByte('$')
	}
	b.WriteString(store.ColToName(r.Col))
	if r.rowAbs {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(r.Row + 1))
	return b.String()
}

// mapReferences replaces every cell reference outside quoted text with the
// result of fn.
func mapReferences(formula string, fn func(formulaRef) string) string {
	var b strings.Builder
	quoted := false
	start := 0
	flush := func(end int) {
		seg := formula[start:end]
		if quoted {
			b.WriteString(seg)
		} else {
			b.WriteString(mapSegment(seg, fn))
		}
	}
	for i := 0; i < len(formula); i++ {
		if formula[i] != '"' {
			continue
		}
		if quoted {
			b.WriteString(formula[start : i+1])
			start = i + 1
		} else {
			flush(i)
			start = i
		}
		quoted = !quoted
	}
	flush(len(formula))
	return b.String()
}

func mapSegment(seg string, fn func(formulaRef) string) string {
	matches := cellRefRegex.FindAllStringSubmatchIndex(seg, -1)
	if len(matches) == 0 {
		return seg
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if isNamePart(seg, m[0]-1) || (m[1] < len(seg) && (isNamePart(seg, m[1]) || seg[m[1]] == '(')) {
			continue
		}
		col, err := store.NameToCol(seg[m[4]:m[5]])
		if err != nil {
			continue
		}
		row, err := strconv.Atoi(seg[m[8]:m[9]])
		if err != nil {
			continue
		}
		b.WriteString(seg[last:m[0]])
		b.WriteString(fn(formulaRef{
			Position: store.Position{Row: row - 1, Col: col},
			colAbs:   m[3] > m[2],
			rowAbs:   m[7] > m[6],
		}))
		last = m[1]
	}
	b.WriteString(seg[last:])
	return b.String()
}

func isNamePart(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || c == '.' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
