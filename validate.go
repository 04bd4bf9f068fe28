package sheetcore

import (
	"fmt"
	"strings"

	"github.com/javajack/sheetcore/store"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Data is already wrong
	SeverityWarning                 // Data may render or evaluate unexpectedly
)

// ValidationIssue represents a single problem found in a sheet.
type ValidationIssue struct {
	Severity Severity
	Position store.Position
	Message  string
}

// String formats the issue as "[ERROR] A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Position, v.Message)
}

// Validate checks the stored data for problems that no single mutation
// rejects: formulas whose references were pushed off the grid, formulas
// pointing outside the sheet and data hidden under a merge. Issues are
// ordered by cell.
func (s *Sheet) Validate() []ValidationIssue {
	if s.numRows == 0 || s.numCols == 0 {
		return nil
	}
	var issues []ValidationIssue
	for _, p := range s.Cells.NonEmptyPositions(s.Region()) {
		c := s.Cells.GetCell(p.Row, p.Col)
		if c.HasFormula() {
			issues = append(issues, s.validateFormula(p, c.Formula)...)
		}
		if m, ok := s.Cells.GetMerge(p.Row, p.Col); ok && m.TopLeft() != p {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Position: p,
				Message:  fmt.Sprintf("data is hidden by merge %s", m),
			})
		}
	}
	return issues
}

func (s *Sheet) validateFormula(p store.Position, formula string) []ValidationIssue {
	if strings.Contains(formula, "#REF!") {
		return []ValidationIssue{{
			Severity: SeverityError,
			Position: p,
			Message:  fmt.Sprintf("formula %q has a broken reference", formula),
		}}
	}
	var issues []ValidationIssue
	for _, ref := range FormulaReferences(formula) {
		if s.Contains(ref.Row, ref.Col) {
			continue
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Position: p,
			Message:  fmt.Sprintf("formula references %s outside the sheet", ref),
		})
	}
	return issues
}
