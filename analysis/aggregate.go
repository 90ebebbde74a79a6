// Package analysis holds the pure computation core: group-by reducers over
// the canonical production table and the yield-decline detection engine.
// Everything here is a function from an input table (treated as a read-only
// snapshot) to fresh output; nothing is cached, mutated, or shared.
package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"cropwatch/models"
)

// YearPoint — one year of the time series: total area, total production,
// mean yield. Yield is nil when no row in that year has a defined yield.
type YearPoint struct {
	Year       int      `json:"year"`
	Area       float64  `json:"area"`
	Production float64  `json:"production"`
	Yield      *float64 `json:"yield,omitempty"`
}

// RegionSummary — state-level aggregate.
type RegionSummary struct {
	State      string   `json:"state"`
	Production float64  `json:"production"`
	Area       float64  `json:"area"`
	Yield      *float64 `json:"yield,omitempty"`
}

// DistrictSummary — district-level aggregate.
type DistrictSummary struct {
	District   string   `json:"district"`
	Production float64  `json:"production"`
	Area       float64  `json:"area"`
	Yield      *float64 `json:"yield,omitempty"`
}

// CropYearPoint — production summed by (year, crop) for the crop-wise
// trend view.
type CropYearPoint struct {
	Year       int     `json:"year"`
	Crop       string  `json:"crop"`
	Production float64 `json:"production"`
}

// accum collects sums and the defined-yield sample for one group. Undefined
// yields never enter the sample: they are excluded, not counted as zero.
type accum struct {
	area       float64
	production float64
	yields     []float64
}

func (a *accum) add(r models.ProductionRecord) {
	a.area += r.Area
	a.production += r.Production
	if r.Yield != nil {
		a.yields = append(a.yields, *r.Yield)
	}
}

func (a *accum) meanYield() *float64 {
	m, err := stats.Mean(a.yields)
	if err != nil {
		return nil
	}
	return &m
}

// groupBy buckets a table by an arbitrary string key in one pass, keeping
// first-appearance order so output is deterministic for a given input.
func groupBy(records []models.ProductionRecord, key func(models.ProductionRecord) string) ([]string, map[string]*accum) {
	order := make([]string, 0)
	groups := make(map[string]*accum)
	for _, r := range records {
		k := key(r)
		g, ok := groups[k]
		if !ok {
			g = &accum{}
			groups[k] = g
			order = append(order, k)
		}
		g.add(r)
	}
	return order, groups
}

// YearSeries aggregates the table per year (sum area, sum production, mean
// yield), sorted by year ascending. Rows without a parseable year are left
// out.
func YearSeries(records []models.ProductionRecord) []YearPoint {
	type yearAccum struct {
		year int
		acc  accum
	}
	order := make([]int, 0)
	groups := make(map[int]*yearAccum)
	for _, r := range records {
		if r.Year == nil {
			continue
		}
		y := *r.Year
		g, ok := groups[y]
		if !ok {
			g = &yearAccum{year: y}
			groups[y] = g
			order = append(order, y)
		}
		g.acc.add(r)
	}
	sort.Ints(order)

	out := make([]YearPoint, 0, len(order))
	for _, y := range order {
		g := groups[y]
		out = append(out, YearPoint{
			Year:       g.year,
			Area:       g.acc.area,
			Production: g.acc.production,
			Yield:      g.acc.meanYield(),
		})
	}
	return out
}

// RegionSummaries aggregates per state in first-appearance order.
func RegionSummaries(records []models.ProductionRecord) []RegionSummary {
	order, groups := groupBy(records, func(r models.ProductionRecord) string { return r.State })
	out := make([]RegionSummary, 0, len(order))
	for _, state := range order {
		g := groups[state]
		out = append(out, RegionSummary{
			State:      state,
			Production: g.production,
			Area:       g.area,
			Yield:      g.meanYield(),
		})
	}
	return out
}

// DistrictSummaries aggregates per district, sorted by total production
// descending (stable, so equal districts keep first-appearance order).
func DistrictSummaries(records []models.ProductionRecord) []DistrictSummary {
	order, groups := groupBy(records, func(r models.ProductionRecord) string { return r.District })
	out := make([]DistrictSummary, 0, len(order))
	for _, d := range order {
		g := groups[d]
		out = append(out, DistrictSummary{
			District:   d,
			Production: g.production,
			Area:       g.area,
			Yield:      g.meanYield(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Production > out[j].Production })
	return out
}

// TopDistricts returns the n biggest producers.
func TopDistricts(records []models.ProductionRecord, n int) []DistrictSummary {
	all := DistrictSummaries(records)
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// StateYields computes the mean yield per state for one crop and year.
// States whose rows all have undefined yield are absent from the result.
func StateYields(records []models.ProductionRecord, crop string, year int) map[string]float64 {
	subset := make([]models.ProductionRecord, 0)
	for _, r := range records {
		if r.Crop == crop && r.Year != nil && *r.Year == year {
			subset = append(subset, r)
		}
	}
	order, groups := groupBy(subset, func(r models.ProductionRecord) string { return r.State })
	out := make(map[string]float64, len(order))
	for _, state := range order {
		if m := groups[state].meanYield(); m != nil {
			out[state] = *m
		}
	}
	return out
}

// CropSeries sums production by (year, crop), ordered by year then by crop
// first appearance within the year.
func CropSeries(records []models.ProductionRecord) []CropYearPoint {
	type key struct {
		year int
		crop string
	}
	order := make([]key, 0)
	totals := make(map[key]float64)
	for _, r := range records {
		if r.Year == nil {
			continue
		}
		k := key{year: *r.Year, crop: r.Crop}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += r.Production
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].year < order[j].year })

	out := make([]CropYearPoint, 0, len(order))
	for _, k := range order {
		out = append(out, CropYearPoint{Year: k.year, Crop: k.crop, Production: totals[k]})
	}
	return out
}

// round2 rounds to 2 decimal places, the report-wide presentation precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
