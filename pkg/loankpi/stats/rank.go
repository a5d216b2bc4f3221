package stats

import "sort"

// Ranked is one labelled amount in a breakdown.
type Ranked struct {
	Label  string
	Amount float64
}

// Rank orders totals by amount descending, breaking ties by label so the
// result is the same on every run. A positive limit keeps the top entries.
func Rank(totals map[string]float64, limit int) []Ranked {
	out := make([]Ranked, 0, len(totals))
	for label, amount := range totals {
		out = append(out, Ranked{Label: label, Amount: Round(amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
