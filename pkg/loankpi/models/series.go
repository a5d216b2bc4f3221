package models

// SeriesPoint is one period of a time-series report.
type SeriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	Volume float64 `json:"volume"`
	// Average is the period's average loan value where the layout has one.
	Average *float64 `json:"average,omitempty"`
}

// CategoryAmount is one entry of a categorical breakdown, sorted
// descending by amount.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CycleCount is the number of loans in one loan cycle.
type CycleCount struct {
	Cycle string `json:"cycle"`
	Loans int    `json:"loans"`
}
