package dto

// MonthCount is one bucket of a 12 month analytics series
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// AnalyticsSeries is the last 12 months, oldest first
type AnalyticsSeries struct {
	Last12Months []MonthCount `json:"last12Months"`
}
