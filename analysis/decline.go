package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"cropwatch/models"
)

// ErrInvalidWindow signals caller misuse: the lookback horizon must cover
// at least one year. Dirty data never produces this error.
var ErrInvalidWindow = errors.New("window must be a positive number of years")

// headTailSpan is the fixed averaging width at each end of the window. The
// lookback horizon varies per call; the 3-year head/tail smoothing does
// not, so a single drought or flood year cannot dominate either mean.
const headTailSpan = 3

// DetectDeclines scans the table for (crop, state) pairs whose mean yield
// over the last 3 years of the trailing window fell more than 10% below the
// mean over the first 3 years, and returns them ranked worst-first.
//
// The window covers the windowYears calendar years ending at the table's
// maximum year. Pairs are silently skipped when they have fewer than two
// observations in the window, when either mean is undefined, or when the
// baseline is not positive. A skipped pair looks exactly like "no decline
// found"; partial data is expected here. An empty table (or one with no
// parseable years) yields an empty report, not an error.
//
// The report is recomputed from scratch on every call and the input is
// never mutated, so concurrent calls on shared snapshots need no locking.
func DetectDeclines(records []models.ProductionRecord, windowYears int) ([]models.DeclineRecord, error) {
	if windowYears < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, windowYears)
	}

	_, maxYear := yearBounds(records)
	if maxYear == nil {
		return []models.DeclineRecord{}, nil
	}
	currentYear := *maxYear
	startYear := currentYear - windowYears + 1

	// One pass to bucket the window rows by (crop, state). Iterating the
	// groups afterwards keeps the whole scan linear in table size.
	type pairKey struct {
		crop, state string
	}
	order := make([]pairKey, 0)
	groups := make(map[pairKey][]models.ProductionRecord)
	for _, r := range records {
		if r.Year == nil || *r.Year < startYear || *r.Year > currentYear {
			continue
		}
		k := pairKey{crop: r.Crop, state: r.State}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	report := make([]models.DeclineRecord, 0)
	for _, k := range order {
		rows := groups[k]
		if len(rows) < 2 {
			continue
		}
		early := meanYieldUpTo(rows, startYear+headTailSpan-1)
		recent := meanYieldFrom(rows, currentYear-headTailSpan+1)
		if early == nil || recent == nil || *early <= 0 {
			continue
		}
		pct := (*early - *recent) / *early * 100
		if pct <= 10 {
			continue
		}
		report = append(report, models.DeclineRecord{
			Crop:        k.crop,
			Region:      k.state,
			DeclinePct:  round2(pct),
			EarlyYield:  round2(*early),
			RecentYield: round2(*recent),
			Severity:    models.ClassifySeverity(pct),
		})
	}

	sort.SliceStable(report, func(i, j int) bool { return report[i].DeclinePct > report[j].DeclinePct })
	return report, nil
}

// Summarize reduces a report to the headline counters the dashboard shows.
func Summarize(report []models.DeclineRecord) models.DeclineSummary {
	s := models.DeclineSummary{TotalAlerts: len(report)}
	if len(report) == 0 {
		return s
	}
	var total float64
	for _, d := range report {
		total += d.DeclinePct
		if d.Severity == models.SeverityCritical {
			s.CriticalCount++
		}
	}
	s.AvgDecline = total / float64(len(report))
	return s
}

// meanYieldUpTo averages the defined yields of rows in years at or below
// the bound. Nil when no row qualifies, undefined rather than zero.
func meanYieldUpTo(rows []models.ProductionRecord, bound int) *float64 {
	return meanYield(rows, func(year int) bool { return year <= bound })
}

// meanYieldFrom averages the defined yields of rows in years at or above
// the bound.
func meanYieldFrom(rows []models.ProductionRecord, bound int) *float64 {
	return meanYield(rows, func(year int) bool { return year >= bound })
}

func meanYield(rows []models.ProductionRecord, include func(int) bool) *float64 {
	var sample []float64
	for _, r := range rows {
		if r.Year == nil || r.Yield == nil || !include(*r.Year) {
			continue
		}
		sample = append(sample, *r.Yield)
	}
	m, err := stats.Mean(sample)
	if err != nil {
		return nil
	}
	return &m
}

// yearBounds finds the min and max parseable year in the table.
func yearBounds(records []models.ProductionRecord) (min, max *int) {
	for _, r := range records {
		if r.Year == nil {
			continue
		}
		y := *r.Year
		if min == nil || y < *min {
			v := y
			min = &v
		}
		if max == nil || y > *max {
			v := y
			max = &v
		}
	}
	return min, max
}
