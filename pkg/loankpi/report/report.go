// Package report defines the programme reports: where each one reads its
// data from and how the aggregated figures are shaped for the dashboard.
package report

import (
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/aggregate"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
)

// Program identifies the source workbook of a report.
type Program string

const (
	// ProgramPremier is the Premier Credit monthly loan report workbook.
	ProgramPremier Program = "premier"
	// ProgramSASL is the SASL monthly loan report workbook.
	ProgramSASL Program = "sasl"
)

// Report computes one result from a loaded workbook.
type Report interface {
	Definition() *Meta
	Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error)
}

// Meta is the part of a report definition shared by every report kind.
type Meta struct {
	Name    string
	Title   string
	Program Program
	// Sheet selects the worksheet the report reads.
	Sheet parser.SheetMatcher
	// HeaderRow is the 0-based index of the header row; data rows follow it.
	HeaderRow int
	// Fields are resolved once against the header row before aggregation.
	Fields []parser.FieldSpec
}

// Definition returns m itself so embedding types satisfy Report.
func (m *Meta) Definition() *Meta {
	return m
}

// Field returns the named field definition, or nil.
func (m *Meta) Field(name string) *parser.FieldSpec {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}
	return nil
}

// pass resolves the report's sheet and columns and aggregates its data rows.
func (m *Meta) pass(wb *parser.Workbook, plan aggregate.Plan, log *slog.Logger) (*aggregate.Accumulator, error) {
	res, err := parser.Resolve(wb, m.Sheet, m.HeaderRow, m.Fields)
	if err != nil {
		return nil, err
	}
	plan.Bindings = res.Bindings
	acc := aggregate.Aggregate(res.Sheet.DataRows(m.HeaderRow), plan)

	log.Debug("aggregated sheet",
		"report", m.Name,
		"sheet", res.Sheet.Name,
		"rows", acc.Rows,
		"skipped", acc.Skipped,
		"unbound", res.Unbound,
	)
	return acc, nil
}

// findSheet selects the report's sheet without resolving any columns.
func (m *Meta) findSheet(wb *parser.Workbook) (*parser.Sheet, error) {
	idx, err := parser.FindSheet(wb.SheetNames(), m.Sheet)
	if err != nil {
		return nil, err
	}
	return wb.Sheet(idx), nil
}

// CurrencyPolicy states the unit of a monetary column and an optional
// conversion applied after validation. A zero Rate means no conversion.
type CurrencyPolicy struct {
	From string  `yaml:"from"`
	To   string  `yaml:"to"`
	Rate float64 `yaml:"rate"`
}

// Unit returns the currency code of converted values.
func (p CurrencyPolicy) Unit() string {
	if p.To != "" && p.converts() {
		return p.To
	}
	return p.From
}

func (p CurrencyPolicy) converts() bool {
	return p.Rate > 0 && !math.IsInf(p.Rate, 0) && p.Rate != 1
}

// Convert returns values expressed in Unit.
func (p CurrencyPolicy) Convert(values []float64) []float64 {
	out := make([]float64, len(values))
	if !p.converts() {
		copy(out, values)
		return out
	}
	rate := decimal.NewFromFloat(p.Rate)
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v).Mul(rate).InexactFloat64()
	}
	return out
}
