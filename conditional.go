package sheetcore

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/javajack/sheetcore/store"
)

// Rule computes a conditional format for the cells of the regions it is
// applied to. Rules are compared by identity, so implementations should be
// pointers.
type Rule interface {
	// Predicate reports whether the rule applies to pos.
	Predicate(pos store.Position, s *Sheet) bool
	// Format is the format contributed when Predicate matched.
	Format(pos store.Position, s *Sheet) Format
	// StopIfTrue stops later rules from being evaluated after a match.
	StopIfTrue() bool
	// IsShared rules derive state from all of their cells together and are
	// re-prepared and redrawn as a whole when any of them changes.
	IsShared() bool
	// Prepare recomputes cached state over the regions the rule covers.
	Prepare(regions []store.Region, s *Sheet)
}

// PredicateRule applies Style to cells whose snapshot satisfies Match.
type PredicateRule struct {
	Match func(cell Cell) bool
	Style Format
	Stop  bool
}

func (r *PredicateRule) Predicate(pos store.Position, s *Sheet) bool {
	return r.Match != nil && r.Match(s.Cells.GetCell(pos.Row, pos.Col))
}

func (r *PredicateRule) Format(store.Position, *Sheet) Format { return r.Style }
func (r *PredicateRule) StopIfTrue() bool                     { return r.Stop }
func (r *PredicateRule) IsShared() bool                       { return false }
func (r *PredicateRule) Prepare([]store.Region, *Sheet)       {}

// exprPrograms caches compiled rule expressions by source text.
var exprPrograms sync.Map

// ExprRule applies Style where a boolean expression holds. The expression
// sees the cell as value, text (its display string), row and col, all
// zero-based.
type ExprRule struct {
	Expression string
	Style      Format
	Stop       bool

	program *vm.Program
}

// NewExprRule compiles expression into a rule.
func NewExprRule(expression string, style Format, stop bool) (*ExprRule, error) {
	program, err := compileRule(expression)
	if err != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expression, err)
	}
	return &ExprRule{Expression: expression, Style: style, Stop: stop, program: program}, nil
}

func compileRule(expression string) (*vm.Program, error) {
	if cached, ok := exprPrograms.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(ruleEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	exprPrograms.Store(expression, program)
	return program, nil
}

// ruleEnv is what a rule expression can reference.
type ruleEnv struct {
	Value any    `expr:"value"`
	Text  string `expr:"text"`
	Row   int    `expr:"row"`
	Col   int    `expr:"col"`
}

func (r *ExprRule) Predicate(pos store.Position, s *Sheet) bool {
	v := s.Cells.GetValue(pos.Row, pos.Col)
	out, err := expr.Run(r.program, ruleEnv{Value: v, Text: DisplayText(v), Row: pos.Row, Col: pos.Col})
	if err != nil {
		s.log.Warn("conditional rule failed", "expression", r.Expression, "cell", pos.String(), "error", err)
		return false
	}
	b, _ := out.(bool)
	return b
}

func (r *ExprRule) Format(store.Position, *Sheet) Format { return r.Style }
func (r *ExprRule) StopIfTrue() bool                     { return r.Stop }
func (r *ExprRule) IsShared() bool                       { return false }
func (r *ExprRule) Prepare([]store.Region, *Sheet)       {}

// ColorScaleRule shades numeric cells between MinColor and MaxColor
// ("#rrggbb") by where their value falls in the range of all numeric cells
// the rule covers.
type ColorScaleRule struct {
	MinColor string
	MaxColor string

	min, max float64
	ready    bool
}

func (r *ColorScaleRule) Predicate(pos store.Position, s *Sheet) bool {
	_, ok := numeric(s.Cells.GetValue(pos.Row, pos.Col))
	return ok && r.ready
}

func (r *ColorScaleRule) Format(pos store.Position, s *Sheet) Format {
	v, _ := numeric(s.Cells.GetValue(pos.Row, pos.Col))
	t := 0.0
	if r.max > r.min {
		t = (v - r.min) / (r.max - r.min)
	}
	return Format{BackgroundColor: blendColor(r.MinColor, r.MaxColor, t)}
}

func (r *ColorScaleRule) StopIfTrue() bool { return false }
func (r *ColorScaleRule) IsShared() bool   { return true }

func (r *ColorScaleRule) Prepare(regions []store.Region, s *Sheet) {
	r.min, r.max, r.ready = math.Inf(1), math.Inf(-1), false
	for _, region := range regions {
		clipped, ok := s.Clip(region)
		if !ok {
			continue
		}
		for _, p := range s.Cells.NonEmptyPositions(clipped) {
			v, ok := numeric(s.Cells.GetValue(p.Row, p.Col))
			if !ok {
				continue
			}
			r.min, r.max, r.ready = min(r.min, v), max(r.max, v), true
		}
	}
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func blendColor(from, to string, t float64) string {
	a, okA := parseHexColor(from)
	b, okB := parseHexColor(to)
	if !okA || !okB {
		return to
	}
	t = min(max(t, 0), 1)
	var out [3]int
	for i := range out {
		out[i] = int(math.Round(float64(a[i]) + (float64(b[i])-float64(a[i]))*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

func parseHexColor(s string) ([3]int, bool) {
	var rgb [3]int
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rgb, false
	}
	for i := range rgb {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb, false
		}
		rgb[i] = int(v)
	}
	return rgb, true
}

// ConditionalFormatManager keeps the regions each rule is applied to and
// evaluates them in registration order.
type ConditionalFormatManager struct {
	sheet   *Sheet
	regions *store.RegionStore[Rule]
	order   map[Rule]int
}

func newConditionalFormatManager(s *Sheet) *ConditionalFormatManager {
	m := &ConditionalFormatManager{
		sheet:   s,
		regions: store.NewRegionStore[Rule](),
		order:   map[Rule]int{},
	}
	s.Cells.OnCellsChanged(m.onCellsChanged)
	return m
}

func (m *ConditionalFormatManager) register(r Rule) {
	if _, ok := m.order[r]; !ok {
		m.order[r] = len(m.order)
	}
}

// Apply attaches rule to region. A rule may be applied to several regions.
func (m *ConditionalFormatManager) Apply(region store.Region, rule Rule) (RestoreData, error) {
	if rule == nil {
		return RestoreData{}, fmt.Errorf("apply conditional format to %v: nil rule", region)
	}
	if err := validateRegion(region); err != nil {
		return RestoreData{}, err
	}
	clipped, ok := m.sheet.Clip(region)
	if !ok {
		return RestoreData{}, fmt.Errorf("conditional format %v: %w", region, ErrOutOfSheet)
	}
	m.sheet.BatchUpdates()
	defer m.sheet.EndBatchUpdates()

	m.register(rule)
	rd := m.regions.Add(clipped, rule)
	m.prepare(rule)
	m.sheet.MarkDirtyRegions(m.regions.GetRegions(rule)...)
	return RestoreData{Conditional: rd}, nil
}

// Remove detaches rule from every region it is applied to.
func (m *ConditionalFormatManager) Remove(rule Rule) RestoreData {
	m.sheet.BatchUpdates()
	defer m.sheet.EndBatchUpdates()

	var rd store.RegionRestoreData[Rule]
	for _, region := range m.regions.GetRegions(rule) {
		rd.Merge(m.regions.Delete(region, rule))
	}
	m.sheet.MarkDirtyRegions(rd.Regions()...)
	return RestoreData{Conditional: rd}
}

// Clear detaches every rule from region, contracting regions that only
// partly overlap it.
func (m *ConditionalFormatManager) Clear(region store.Region) (RestoreData, error) {
	if err := validateRegion(region); err != nil {
		return RestoreData{}, err
	}
	m.sheet.BatchUpdates()
	defer m.sheet.EndBatchUpdates()

	rd := m.regions.Clear(region)
	m.reprepare(rd)
	m.sheet.MarkDirtyRegions(rd.Regions()...)
	return RestoreData{Conditional: rd}, nil
}

// Rules returns the applied rules in registration order.
func (m *ConditionalFormatManager) Rules() []Rule {
	var out []Rule
	for _, e := range m.regions.GetAllDataRegions() {
		if !slices.Contains(out, e.Data) {
			out = append(out, e.Data)
		}
	}
	m.sortRules(out)
	return out
}

// Regions returns the regions rule is applied to.
func (m *ConditionalFormatManager) Regions(rule Rule) []store.Region {
	return m.regions.GetRegions(rule)
}

// GetFormatResult evaluates the rules covering (row, col) and merges the
// formats of those that match. ok is false when none matched.
func (m *ConditionalFormatManager) GetFormatResult(row, col int) (f Format, ok bool) {
	if !m.sheet.Contains(row, col) {
		return Format{}, false
	}
	var rules []Rule
	for _, r := range m.regions.GetData(row, col) {
		if !slices.Contains(rules, r) {
			rules = append(rules, r)
		}
	}
	m.sortRules(rules)
	pos := store.Position{Row: row, Col: col}
	for _, r := range rules {
		if !r.Predicate(pos, m.sheet) {
			continue
		}
		f, ok = f.Merge(r.Format(pos, m.sheet)), true
		if r.StopIfTrue() {
			break
		}
	}
	return f, ok
}

func (m *ConditionalFormatManager) sortRules(rules []Rule) {
	slices.SortStableFunc(rules, func(a, b Rule) int { return m.order[a] - m.order[b] })
}

func (m *ConditionalFormatManager) prepare(rule Rule) {
	rule.Prepare(m.regions.GetRegions(rule), m.sheet)
}

// reprepare refreshes the rules whose regions a capture touched.
func (m *ConditionalFormatManager) reprepare(d store.RegionRestoreData[Rule]) {
	var rules []Rule
	for _, e := range slices.Concat(d.Added, d.Removed) {
		if !slices.Contains(rules, e.Data) {
			rules = append(rules, e.Data)
		}
	}
	for _, r := range rules {
		m.register(r)
		m.prepare(r)
	}
}

func (m *ConditionalFormatManager) onCellsChanged(ev CellsChangedEvent) {
	var touched []Rule
	add := func(r Rule) {
		if !slices.Contains(touched, r) {
			touched = append(touched, r)
		}
	}
	for _, p := range ev.Positions {
		for _, r := range m.regions.GetData(p.Row, p.Col) {
			add(r)
		}
	}
	for _, region := range ev.Regions {
		for _, e := range m.regions.GetDataRegionsIn(region) {
			add(e.Data)
		}
	}
	for _, r := range touched {
		m.prepare(r)
		if r.IsShared() {
			m.sheet.MarkDirtyRegions(m.regions.GetRegions(r)...)
		}
	}
}

func (m *ConditionalFormatManager) insert(axis store.Axis, at, n int) store.RegionRestoreData[Rule] {
	if axis == store.AxisCol {
		return m.regions.InsertCols(at, n)
	}
	return m.regions.InsertRows(at, n)
}

func (m *ConditionalFormatManager) remove(axis store.Axis, at, n int) store.RegionRestoreData[Rule] {
	var rd store.RegionRestoreData[Rule]
	if axis == store.AxisCol {
		rd = m.regions.RemoveCols(at, at+n-1)
	} else {
		rd = m.regions.RemoveRows(at, at+n-1)
	}
	m.reprepare(rd)
	return rd
}

func (m *ConditionalFormatManager) restore(d store.RegionRestoreData[Rule]) store.RegionRestoreData[Rule] {
	inverse := m.regions.Restore(d)
	m.reprepare(d)
	m.sheet.MarkDirtyRegions(d.Regions()...)
	return inverse
}
