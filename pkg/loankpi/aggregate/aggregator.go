package aggregate

import (
	"strconv"
	"strings"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
)

// EntityMode selects how a row contributes to the entity count.
type EntityMode int

const (
	// CountRows adds one per non-blank row.
	CountRows EntityMode = iota
	// SumField adds the row's value of a numeric field.
	SumField
	// CountPresent adds one per row where a field's cell is non-empty.
	CountPresent
)

// EntityPolicy configures the entity count of a report.
type EntityPolicy struct {
	Mode  EntityMode
	Field string
}

// Breakdown sums an amount field per label of a key field.
type Breakdown struct {
	Name   string
	Key    string
	Amount string
}

// SeriesSpec collects one point per row where the label, value and volume
// fields all coerce.
type SeriesSpec struct {
	Name   string
	Label  string
	Value  string
	Volume string
}

// Plan describes a single pass over a sheet's data rows.
type Plan struct {
	Bindings []parser.Binding
	Entities EntityPolicy
	// SkipLabels drops rows whose first cell contains any of these
	// substrings (case-insensitive), such as subtotal lines.
	SkipLabels []string
	Breakdowns []Breakdown
	Series     []SeriesSpec
}

// RowRecord holds the coerced values of one data row.
type RowRecord struct {
	Blank   bool
	Numbers map[string]float64
	Labels  map[string]string
	// Present marks fields whose cell was non-empty, whether or not it
	// coerced.
	Present map[string]bool
}

// Extract coerces every bound field of row. Coercion failures leave the
// field out of the record and never affect other fields.
func Extract(row []parser.Cell, bindings []parser.Binding) RowRecord {
	if parser.IsBlankRow(row) {
		return RowRecord{Blank: true}
	}

	rec := RowRecord{
		Numbers: make(map[string]float64, len(bindings)),
		Labels:  make(map[string]string, len(bindings)),
		Present: make(map[string]bool, len(bindings)),
	}
	for _, b := range bindings {
		cell := parser.At(row, b.Column)
		if cell.Empty() {
			continue
		}
		rec.Present[b.Field.Name] = true

		num, label, ok := b.Field.Coerce(cell)
		if !ok {
			continue
		}
		if b.Field.Numeric() {
			rec.Numbers[b.Field.Name] = num
		} else {
			rec.Labels[b.Field.Name] = label
		}
	}
	return rec
}

// Aggregate makes one forward pass over rows. Blank rows and rows matching
// SkipLabels have no effect on any total.
func Aggregate(rows [][]parser.Cell, plan Plan) *Accumulator {
	acc := NewAccumulator()
	for _, b := range plan.Bindings {
		acc.bind(b.Field.Name)
	}

	skip := make([]string, 0, len(plan.SkipLabels))
	for _, s := range plan.SkipLabels {
		skip = append(skip, strings.ToLower(s))
	}

	for _, row := range rows {
		rec := Extract(row, plan.Bindings)
		if rec.Blank {
			continue
		}
		if isSkipped(row, skip) {
			acc.Skipped++
			continue
		}

		acc.Rows++
		acc.Entities += entities(plan.Entities, rec)

		for _, b := range plan.Bindings {
			apply(acc, b.Field, rec)
		}
		for _, bd := range plan.Breakdowns {
			label, okLabel := rec.Labels[bd.Key]
			amount, okAmount := rec.Numbers[bd.Amount]
			if okLabel && okAmount {
				acc.group(bd.Name, label, amount)
			}
		}
		for _, s := range plan.Series {
			label, okLabel := rec.Labels[s.Label]
			value, okValue := rec.Numbers[s.Value]
			volume, okVolume := rec.Numbers[s.Volume]
			if okLabel && okValue && okVolume {
				acc.point(s.Name, Point{Label: label, Value: value, Volume: volume})
			}
		}
	}

	return acc
}

func apply(acc *Accumulator, field parser.FieldSpec, rec RowRecord) {
	if num, ok := rec.Numbers[field.Name]; ok {
		if field.Roles.Has(parser.RoleSum) {
			acc.add(field.Name, num)
		}
		if field.Roles.Has(parser.RoleCollect) {
			acc.collect(field.Name, num)
		}
		if field.Roles.Has(parser.RoleCount) {
			acc.count(field.Name, numberLabel(num))
		}
		return
	}
	if label, ok := rec.Labels[field.Name]; ok {
		if field.Roles.Has(parser.RoleCount) {
			acc.count(field.Name, label)
		}
		if field.Roles.Has(parser.RoleDistinct) {
			acc.see(field.Name, label)
		}
	}
}

func entities(p EntityPolicy, rec RowRecord) float64 {
	switch p.Mode {
	case SumField:
		return rec.Numbers[p.Field]
	case CountPresent:
		if rec.Present[p.Field] {
			return 1
		}
		return 0
	default:
		return 1
	}
}

func isSkipped(row []parser.Cell, skip []string) bool {
	if len(skip) == 0 {
		return false
	}
	first := strings.ToLower(parser.At(row, 0).Label())
	if first == "" {
		return false
	}
	for _, s := range skip {
		if strings.Contains(first, s) {
			return true
		}
	}
	return false
}

// numberLabel formats a counted number as its label, e.g. 3 -> "3".
func numberLabel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
