// Package models defines the JSON shapes returned for each report.
package models

// Baseline is the baseline/demographic report of a programme's first loans.
type Baseline struct {
	// TotalSchools is the row count or the sum of the schools column,
	// depending on the programme's layout.
	TotalSchools float64 `json:"totalSchools"`
	// SchoolProprietorGender splits proprietors by gender.
	SchoolProprietorGender *GenderSplit `json:"schoolProprietorGender,omitempty"`
	// DignitasTraining splits schools by training participation. Omitted
	// when the workbook has no such column.
	DignitasTraining *YesNoSplit `json:"dignitasTraining,omitempty"`
	// StudentReach totals enrolled students.
	StudentReach *StudentReach `json:"studentReach,omitempty"`
	// AnnualFees describes the annual fee distribution.
	AnnualFees *FeeDistribution `json:"annualFees,omitempty"`
}

// GenderSplit is a two-way female/male breakdown. Percentages add up to 100
// whenever the counts are not both zero.
type GenderSplit struct {
	Female      float64 `json:"female"`
	Male        float64 `json:"male"`
	FemaleCount int     `json:"femaleCount"`
	MaleCount   int     `json:"maleCount"`
}

// YesNoSplit is a two-way yes/no breakdown.
type YesNoSplit struct {
	Yes      float64 `json:"yes"`
	No       float64 `json:"no"`
	YesCount int     `json:"yesCount"`
	NoCount  int     `json:"noCount"`
}

// StudentReach totals boys and girls. Percentages are relative to Total.
type StudentReach struct {
	Total      float64 `json:"total"`
	Boys       float64 `json:"boys"`
	Girls      float64 `json:"girls"`
	BoysCount  float64 `json:"boysCount"`
	GirlsCount float64 `json:"girlsCount"`
}

// FeeDistribution describes a value collection. Zero means no data.
type FeeDistribution struct {
	// Currency is the unit of every amount below.
	Currency  string  `json:"currency,omitempty"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
	Lowest    float64 `json:"lowest"`
	Maximum   float64 `json:"maximum"`
	Quartile1 float64 `json:"quartile1"`
	Quartile2 float64 `json:"quartile2"`
	Quartile3 float64 `json:"quartile3"`
	Quartile4 float64 `json:"quartile4"`
}
