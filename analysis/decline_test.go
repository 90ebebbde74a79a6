package analysis

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cropwatch/models"
)

// row builds a record with an explicit year and defined yield.
func row(crop, state string, year int, yield float64) models.ProductionRecord {
	y, v := year, yield
	return models.ProductionRecord{Crop: crop, State: state, Year: &y, Area: 1, Production: yield, Yield: &v}
}

// rowNoYield builds a record whose yield is undefined.
func rowNoYield(crop, state string, year int) models.ProductionRecord {
	y := year
	return models.ProductionRecord{Crop: crop, State: state, Year: &y}
}

func TestDetectDeclinesScenario(t *testing.T) {
	// Rice in Gujarat, 2016–2020, 5-year window: first three years average
	// 2.0, last three average ~1.4667: a 26.67% decline, High.
	table := []models.ProductionRecord{
		row("Rice", "Gujarat", 2016, 2.0),
		row("Rice", "Gujarat", 2017, 2.2),
		row("Rice", "Gujarat", 2018, 1.8),
		row("Rice", "Gujarat", 2019, 1.4),
		row("Rice", "Gujarat", 2020, 1.2),
	}

	got, err := DetectDeclines(table, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.DeclineRecord{{
		Crop:        "Rice",
		Region:      "Gujarat",
		DeclinePct:  26.67,
		EarlyYield:  2.0,
		RecentYield: 1.47,
		Severity:    models.SeverityHigh,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectDeclinesDeterministic(t *testing.T) {
	table := []models.ProductionRecord{
		row("Rice", "Gujarat", 2016, 2.0),
		row("Wheat", "Punjab", 2016, 3.0),
		row("Rice", "Gujarat", 2020, 1.2),
		row("Wheat", "Punjab", 2020, 2.0),
	}
	first, err := DetectDeclines(table, 5)
	if err != nil {
		t.Fatal(err)
	}
	second, err := DetectDeclines(table, 5)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two runs differ (-first +second):\n%s", diff)
	}
}

func TestDetectDeclinesThresholds(t *testing.T) {
	cases := []struct {
		name     string
		recent   float64
		want     models.Severity
		excluded bool
	}{
		{name: "exactly 10 percent", recent: 90.00, excluded: true},
		{name: "just above 10", recent: 89.99, want: models.SeverityModerate},
		{name: "exactly 20", recent: 80.00, want: models.SeverityModerate},
		{name: "just above 20", recent: 79.99, want: models.SeverityHigh},
		{name: "exactly 30", recent: 70.00, want: models.SeverityHigh},
		{name: "just above 30", recent: 69.99, want: models.SeverityCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := []models.ProductionRecord{
				row("Rice", "Gujarat", 2016, 100),
				row("Rice", "Gujarat", 2020, tc.recent),
			}
			got, err := DetectDeclines(table, 5)
			if err != nil {
				t.Fatal(err)
			}
			if tc.excluded {
				if len(got) != 0 {
					t.Fatalf("want exclusion, got %+v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("want 1 alert, got %d", len(got))
			}
			if got[0].Severity != tc.want {
				t.Errorf("severity = %s, want %s (pct %.2f)", got[0].Severity, tc.want, got[0].DeclinePct)
			}
		})
	}
}

func TestDetectDeclinesSkipsThinAndDegeneratePairs(t *testing.T) {
	table := []models.ProductionRecord{
		// Single observation: no trend, regardless of values.
		row("Maize", "Bihar", 2020, 0.01),
		// Zero baseline.
		row("Jute", "Assam", 2016, 0),
		row("Jute", "Assam", 2020, 0),
		// Undefined baseline: no defined yield in the head years.
		rowNoYield("Cotton", "Gujarat", 2016),
		row("Cotton", "Gujarat", 2020, 1.0),
		// Improvement: negative percentage, excluded.
		row("Wheat", "Punjab", 2016, 1.5),
		row("Wheat", "Punjab", 2020, 2.0),
	}
	got, err := DetectDeclines(table, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("want empty report, got %+v", got)
	}
}

func TestDetectDeclinesEmptyTable(t *testing.T) {
	got, err := DetectDeclines(nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("want empty report, got %+v", got)
	}

	// A table where no row has a parseable year behaves the same.
	undated := []models.ProductionRecord{{Crop: "Rice", State: "Gujarat", Area: 1, Production: 2}}
	got, err = DetectDeclines(undated, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("want empty report for undated table, got %+v", got)
	}
}

func TestDetectDeclinesInvalidWindow(t *testing.T) {
	for _, window := range []int{0, -1, -5} {
		if _, err := DetectDeclines(nil, window); !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("window %d: want ErrInvalidWindow, got %v", window, err)
		}
	}
}

func TestDetectDeclinesSortOrder(t *testing.T) {
	table := []models.ProductionRecord{
		row("Rice", "Gujarat", 2016, 100), row("Rice", "Gujarat", 2020, 85), // 15%
		row("Wheat", "Punjab", 2016, 100), row("Wheat", "Punjab", 2020, 50), // 50%
		row("Maize", "Bihar", 2016, 100), row("Maize", "Bihar", 2020, 75),   // 25%
	}
	got, err := DetectDeclines(table, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 alerts, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].DeclinePct < got[i].DeclinePct {
			t.Errorf("report not sorted descending at %d: %.2f < %.2f", i, got[i-1].DeclinePct, got[i].DeclinePct)
		}
	}
	if got[0].Crop != "Wheat" || got[0].Severity != models.SeverityCritical {
		t.Errorf("worst alert = %+v, want Wheat/Critical", got[0])
	}
}

func TestDetectDeclinesIgnoresRowsOutsideWindow(t *testing.T) {
	// The 1990 collapse is ancient history for a 5-year window ending 2020.
	table := []models.ProductionRecord{
		row("Rice", "Gujarat", 1990, 100),
		row("Rice", "Gujarat", 2019, 2.0),
		row("Rice", "Gujarat", 2020, 2.0),
	}
	got, err := DetectDeclines(table, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("want empty report, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	report := []models.DeclineRecord{
		{DeclinePct: 50, Severity: models.SeverityCritical},
		{DeclinePct: 25, Severity: models.SeverityHigh},
		{DeclinePct: 15, Severity: models.SeverityModerate},
	}
	got := Summarize(report)
	want := models.DeclineSummary{TotalAlerts: 3, CriticalCount: 1, AvgDecline: 30}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	empty := Summarize(nil)
	if empty.TotalAlerts != 0 || empty.CriticalCount != 0 || empty.AvgDecline != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}
