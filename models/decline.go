package models

// Severity bands a yield decline by how badly the recent average fell below
// the baseline. Boundary values belong to the lower band: 20.00 is Moderate,
// 30.00 is High.
type Severity string

const (
	SeverityModerate Severity = "Moderate" // > 10%, <= 20%
	SeverityHigh     Severity = "High"     // > 20%, <= 30%
	SeverityCritical Severity = "Critical" // > 30%
)

// Rank gives severities an explicit order for comparison and sorting.
func (s Severity) Rank() int {
	switch s {
	case SeverityModerate:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	}
	return 0
}

// ClassifySeverity maps a decline percentage to its band. Callers gate on
// pct > 10 before classifying; anything at or below 10 is not an alert.
func ClassifySeverity(pct float64) Severity {
	switch {
	case pct > 30:
		return SeverityCritical
	case pct > 20:
		return SeverityHigh
	default:
		return SeverityModerate
	}
}

// DeclineRecord — one row of the decline report. DeclinePct, EarlyYield and
// RecentYield are rounded to 2 decimals; only DeclinePct > 10 rows exist.
type DeclineRecord struct {
	Crop        string   `json:"crop"`
	Region      string   `json:"region"`
	DeclinePct  float64  `json:"declinePct"`
	EarlyYield  float64  `json:"earlyYield"`
	RecentYield float64  `json:"recentYield"`
	Severity    Severity `json:"severity"`
}

// DeclineSummary — read-only reductions over a report, recomputed per call.
type DeclineSummary struct {
	TotalAlerts   int     `json:"totalAlerts"`
	CriticalCount int     `json:"criticalCount"`
	AvgDecline    float64 `json:"avgDecline"`
}
