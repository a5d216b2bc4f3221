// Package aggregate walks the data rows of a sheet once and accumulates
// counts, sums and value collections per field.
package aggregate

import (
	"sort"

	"github.com/samber/lo"
)

// Point is one row of a series.
type Point struct {
	Label  string
	Value  float64
	Volume float64
}

// Accumulator is the running state of one report computation. It is owned
// by a single call to Aggregate and never shared.
type Accumulator struct {
	// Rows counts non-blank, non-skipped data rows.
	Rows int
	// Skipped counts rows dropped as subtotals.
	Skipped int
	// Entities follows the plan's EntityPolicy.
	Entities float64

	counts     map[string]map[string]int
	sums       map[string]float64
	values     map[string][]float64
	distinct   map[string]map[string]struct{}
	breakdowns map[string]map[string]float64
	series     map[string][]Point
	bound      map[string]bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		counts:     make(map[string]map[string]int),
		sums:       make(map[string]float64),
		values:     make(map[string][]float64),
		distinct:   make(map[string]map[string]struct{}),
		breakdowns: make(map[string]map[string]float64),
		series:     make(map[string][]Point),
		bound:      make(map[string]bool),
	}
}

// Bound reports whether field resolved to a column for this report.
func (a *Accumulator) Bound(field string) bool {
	return a.bound[field]
}

// Count returns how many rows coerced field to label.
func (a *Accumulator) Count(field, label string) int {
	return a.counts[field][label]
}

// Counts returns a copy of the per-label counts for field.
func (a *Accumulator) Counts(field string) map[string]int {
	out := make(map[string]int, len(a.counts[field]))
	for k, v := range a.counts[field] {
		out[k] = v
	}
	return out
}

// Sum returns the running total for field.
func (a *Accumulator) Sum(field string) float64 {
	return a.sums[field]
}

// Values returns the collected values for field in row order.
func (a *Accumulator) Values(field string) []float64 {
	return a.values[field]
}

// Distinct returns the number of distinct labels seen for field.
func (a *Accumulator) Distinct(field string) int {
	return len(a.distinct[field])
}

// DistinctLabels returns the distinct labels seen for field, sorted.
func (a *Accumulator) DistinctLabels(field string) []string {
	labels := lo.Keys(a.distinct[field])
	sort.Strings(labels)
	return labels
}

// Breakdown returns the per-label totals of a breakdown.
func (a *Accumulator) Breakdown(name string) map[string]float64 {
	return a.breakdowns[name]
}

// Series returns the points of a series in row order.
func (a *Accumulator) Series(name string) []Point {
	return a.series[name]
}

func (a *Accumulator) bind(field string) {
	a.bound[field] = true
}

func (a *Accumulator) count(field, label string) {
	m, ok := a.counts[field]
	if !ok {
		m = make(map[string]int)
		a.counts[field] = m
	}
	m[label]++
}

func (a *Accumulator) add(field string, v float64) {
	a.sums[field] += v
}

func (a *Accumulator) collect(field string, v float64) {
	a.values[field] = append(a.values[field], v)
}

func (a *Accumulator) see(field, label string) {
	m, ok := a.distinct[field]
	if !ok {
		m = make(map[string]struct{})
		a.distinct[field] = m
	}
	m[label] = struct{}{}
}

func (a *Accumulator) group(name, label string, amount float64) {
	m, ok := a.breakdowns[name]
	if !ok {
		m = make(map[string]float64)
		a.breakdowns[name] = m
	}
	m[label] += amount
}

func (a *Accumulator) point(name string, p Point) {
	a.series[name] = append(a.series[name], p)
}
