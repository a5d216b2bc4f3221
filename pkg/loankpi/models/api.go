package models

// ErrorResponse is returned instead of a report when the request failed, so
// that a failure can never be mistaken for an all-zero result.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Report  string `json:"report,omitempty"`
	// AvailableSheets lists the workbook's sheets when the expected sheet
	// was not found.
	AvailableSheets []string `json:"availableSheets,omitempty"`
}

// ReportInfo describes one available report.
type ReportInfo struct {
	Name    string `json:"name"`
	Program string `json:"program"`
	Title   string `json:"title"`
}
