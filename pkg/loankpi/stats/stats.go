// Package stats derives presentation-ready figures from aggregated values.
//
// Every figure is rounded to Precision decimal places, half away from zero.
// Empty inputs produce zeros rather than NaN.
package stats

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places kept in derived figures.
const Precision = 2

var hundred = decimal.NewFromInt(100)

// Round rounds v to Precision decimal places. NaN and infinities become 0.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(Precision).InexactFloat64()
}

// Percent returns 100*part/total rounded, or 0 when total is not positive
// or either input is not finite.
func Percent(part, total float64) float64 {
	if !finite(part, total) || total <= 0 {
		return 0
	}
	return decimal.NewFromFloat(part).Mul(hundred).Div(decimal.NewFromFloat(total)).Round(Precision).InexactFloat64()
}

// Split returns the shares of a and b in a+b. The second share is derived
// as 100 minus the first so the two always add up to exactly 100.00. Both
// are 0 when a+b is not positive or not finite.
func Split(a, b float64) (pa, pb float64) {
	total := a + b
	if !finite(a, b, total) || total <= 0 {
		return 0, 0
	}
	da := decimal.NewFromFloat(a).Mul(hundred).Div(decimal.NewFromFloat(total)).Round(Precision)
	return da.InexactFloat64(), hundred.Sub(da).InexactFloat64()
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum returns the rounded total of values.
func Sum(values []float64) float64 {
	return Round(lo.Sum(values))
}

// Average returns the rounded arithmetic mean, or 0 for no values.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Round(lo.Sum(values) / float64(len(values)))
}

// MinMax returns the smallest and largest value, or zeros for no values.
func MinMax(values []float64) (lowest, highest float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return Round(lo.Min(values)), Round(lo.Max(values))
}

// QuartileSet holds nearest-rank cut points. Q4 is the maximum.
type QuartileSet struct {
	Q1 float64
	Q2 float64
	Q3 float64
	Q4 float64
}

// Quartiles sorts a copy of values ascending and picks
// sorted[floor(n*0.25)], sorted[floor(n*0.5)], sorted[floor(n*0.75)] and
// sorted[n-1]. Duplicates are kept. This is nearest-rank selection, not
// interpolation.
func Quartiles(values []float64) QuartileSet {
	n := len(values)
	if n == 0 {
		return QuartileSet{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	at := func(p float64) float64 {
		return Round(sorted[int(math.Floor(float64(n)*p))])
	}
	return QuartileSet{
		Q1: at(0.25),
		Q2: at(0.5),
		Q3: at(0.75),
		Q4: Round(sorted[n-1]),
	}
}

// Distribution summarises a value collection.
type Distribution struct {
	Count     int
	Average   float64
	Lowest    float64
	Maximum   float64
	Quartiles QuartileSet
}

// Describe computes the full distribution of values.
func Describe(values []float64) Distribution {
	lowest, highest := MinMax(values)
	return Distribution{
		Count:     len(values),
		Average:   Average(values),
		Lowest:    lowest,
		Maximum:   highest,
		Quartiles: Quartiles(values),
	}
}
