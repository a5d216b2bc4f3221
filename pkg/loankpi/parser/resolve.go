package parser

import (
	"fmt"
	"strings"
)

// SheetMatcher selects a sheet by name. Every All substring must appear in
// the lowercased name; when Any is non-empty at least one of its substrings
// must appear too.
type SheetMatcher struct {
	All []string `yaml:"all"`
	Any []string `yaml:"any"`
}

// Match reports whether name satisfies the matcher.
func (m SheetMatcher) Match(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range m.All {
		if !strings.Contains(lower, strings.ToLower(s)) {
			return false
		}
	}
	if len(m.Any) == 0 {
		return true
	}
	for _, s := range m.Any {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func (m SheetMatcher) String() string {
	var parts []string
	if len(m.All) > 0 {
		parts = append(parts, fmt.Sprintf("all of %q", m.All))
	}
	if len(m.Any) > 0 {
		parts = append(parts, fmt.Sprintf("any of %q", m.Any))
	}
	if len(parts) == 0 {
		return "any sheet"
	}
	return strings.Join(parts, " and ")
}

// FindSheet returns the index of the first name in file order that the
// matcher accepts.
func FindSheet(names []string, m SheetMatcher) (int, error) {
	for i, name := range names {
		if m.Match(name) {
			return i, nil
		}
	}
	available := make([]string, len(names))
	copy(available, names)
	return -1, &SheetNotFoundError{Matcher: m, Available: available}
}

// FieldSpec describes how to locate and interpret one semantic column.
type FieldSpec struct {
	// Name identifies the field in accumulators and reports.
	Name string
	// Headers are lowercase substrings searched for in the header row.
	Headers []string
	// Spans are column ranges scanned for a column holding usable values.
	Spans []ColumnSpan
	// Default is the fixed 0-based column used when nothing else matches.
	// Negative means no default.
	Default int
	// Kind is the expected value kind.
	Kind Kind
	// Range bounds numeric values; nil accepts any finite number.
	Range *Range
	// Positive rejects numeric values <= 0.
	Positive bool
	// Synonyms maps uppercased text to canonical labels for KindCategory.
	Synonyms map[string]string
	// Title title-cases KindLabel values.
	Title bool
	// Optional fields may stay unresolved without failing the report.
	Optional bool
	// Roles says how the aggregator uses the coerced value.
	Roles Role
}

// Role is a set of aggregation roles.
type Role uint8

const (
	// RoleCount counts rows per coerced label.
	RoleCount Role = 1 << iota
	// RoleSum adds numeric values to a running total.
	RoleSum
	// RoleCollect appends numeric values to a collection for distribution statistics.
	RoleCollect
	// RoleDistinct counts distinct labels.
	RoleDistinct
)

// Has reports whether r includes every role in other.
func (r Role) Has(other Role) bool {
	return r&other == other
}

// Numeric reports whether the field coerces to a number.
func (f FieldSpec) Numeric() bool {
	return f.Kind == KindNumeric || f.Kind == KindCurrency
}

// Coerce turns one cell into a number or a label according to the field's
// kind. It never fails; an unusable cell yields ok=false.
func (f FieldSpec) Coerce(c Cell) (num float64, label string, ok bool) {
	switch f.Kind {
	case KindNumeric, KindCurrency:
		num, ok = CoerceNumber(c, f.Range, f.Positive)
		return num, "", ok
	case KindCategory:
		label, ok = CoerceCategory(c, f.Synonyms)
		return 0, label, ok
	default:
		label, ok = CoerceLabel(c, f.Title)
		return 0, label, ok
	}
}

// ColumnStrategy proposes a column index for a field.
type ColumnStrategy interface {
	Resolve(header []Cell, rows [][]Cell, field FieldSpec) (int, bool)
}

// HeaderMatch selects the first header cell, scanning left to right, whose
// lowercased text contains any of the substrings.
type HeaderMatch []string

func (h HeaderMatch) Resolve(header []Cell, _ [][]Cell, _ FieldSpec) (int, bool) {
	if len(h) == 0 {
		return 0, false
	}
	for i, c := range header {
		text := strings.ToLower(c.Label())
		if text == "" {
			continue
		}
		for _, sub := range h {
			if sub != "" && strings.Contains(text, strings.ToLower(sub)) {
				return i, true
			}
		}
	}
	return 0, false
}

// SpanScan selects the first column in the span that holds at least one
// value the field accepts.
type SpanScan ColumnSpan

func (s SpanScan) Resolve(_ []Cell, rows [][]Cell, field FieldSpec) (int, bool) {
	for col := s.From; col <= s.To; col++ {
		for _, row := range rows {
			if _, _, ok := field.Coerce(At(row, col)); ok {
				return col, true
			}
		}
	}
	return 0, false
}

// FixedColumn always selects its index when non-negative.
type FixedColumn int

func (f FixedColumn) Resolve(_ []Cell, _ [][]Cell, _ FieldSpec) (int, bool) {
	if f < 0 {
		return 0, false
	}
	return int(f), true
}

// Strategies returns the field's resolution chain: header match, then each
// scan span, then the fixed default.
func (f FieldSpec) Strategies() []ColumnStrategy {
	chain := make([]ColumnStrategy, 0, len(f.Spans)+2)
	if len(f.Headers) > 0 {
		chain = append(chain, HeaderMatch(f.Headers))
	}
	for _, span := range f.Spans {
		chain = append(chain, SpanScan(span))
	}
	chain = append(chain, FixedColumn(f.Default))
	return chain
}

// ResolveColumn runs the field's strategy chain and stops at the first
// success.
func ResolveColumn(header []Cell, rows [][]Cell, field FieldSpec) (int, bool) {
	for _, s := range field.Strategies() {
		if col, ok := s.Resolve(header, rows, field); ok {
			return col, true
		}
	}
	return 0, false
}

// Binding ties a field to the column it resolved to.
type Binding struct {
	Field  FieldSpec
	Column int
}

// Resolution is the outcome of locating a report's sheet and columns.
type Resolution struct {
	Sheet    *Sheet
	Bindings []Binding
	// Unbound lists optional fields that resolved to no column.
	Unbound []string
}

// Resolve selects the sheet and resolves every field once, before any row
// is aggregated.
func Resolve(wb *Workbook, m SheetMatcher, headerRow int, fields []FieldSpec) (*Resolution, error) {
	idx, err := FindSheet(wb.SheetNames(), m)
	if err != nil {
		return nil, err
	}
	sheet := wb.Sheet(idx)
	header := sheet.Header(headerRow)
	rows := sheet.DataRows(headerRow)

	res := &Resolution{Sheet: sheet, Bindings: make([]Binding, 0, len(fields))}
	for _, field := range fields {
		col, ok := ResolveColumn(header, rows, field)
		if !ok {
			if field.Optional {
				res.Unbound = append(res.Unbound, field.Name)
				continue
			}
			return nil, &ColumnNotFoundError{Sheet: sheet.Name, Field: field.Name}
		}
		res.Bindings = append(res.Bindings, Binding{Field: field, Column: col})
	}
	return res, nil
}
