package models

// Portfolio is the year-to-date loan performance report.
type Portfolio struct {
	TotalPortfolioValue float64 `json:"totalPortfolioValue"`
	TotalLoans          float64 `json:"totalLoans"`
	AverageLoanSize     float64 `json:"averageLoanSize"`
	SchoolsFinanced     int     `json:"schoolsFinanced"`
	ActiveBranches      int     `json:"activeBranches"`
	// OwnerGenderDiversity is omitted for layouts without an owner gender column.
	OwnerGenderDiversity *GenderSplit `json:"ownerGenderDiversity,omitempty"`
	// TotalEnrollment is omitted for layouts without an enrolment column.
	TotalEnrollment *float64 `json:"totalEnrollment,omitempty"`
	// LoanSizes describes the distribution of disbursed amounts.
	LoanSizes *FeeDistribution `json:"loanSizes,omitempty"`
}

// Repayment compares repaid amounts with arrears.
type Repayment struct {
	Repayment        float64 `json:"repayment"`
	Arrears          float64 `json:"arrears"`
	Total            float64 `json:"total"`
	RepaymentPercent float64 `json:"repaymentPercent"`
	ArrearsPercent   float64 `json:"arrearsPercent"`
}
