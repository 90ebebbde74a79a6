package dataset

import (
	"sort"
	"strings"

	"cropwatch/models"
)

// Filter narrows a table the way the dashboard sidebar does: an empty field
// means no restriction, values within a field are OR-combined, fields are
// AND-combined. Matching is case-insensitive on text fields.
type Filter struct {
	States    []string
	Districts []string
	Crops     []string
	Seasons   []string
	Years     []int
}

// IsEmpty reports whether the filter restricts nothing.
func (f Filter) IsEmpty() bool {
	return len(f.States) == 0 && len(f.Districts) == 0 && len(f.Crops) == 0 &&
		len(f.Seasons) == 0 && len(f.Years) == 0
}

// Apply returns the matching subset as a new slice. The input is never
// mutated; an empty filter returns the input unchanged.
func (f Filter) Apply(records []models.ProductionRecord) []models.ProductionRecord {
	if f.IsEmpty() {
		return records
	}
	states := toLowerSet(f.States)
	districts := toLowerSet(f.Districts)
	crops := toLowerSet(f.Crops)
	seasons := toLowerSet(f.Seasons)
	years := make(map[int]bool, len(f.Years))
	for _, y := range f.Years {
		years[y] = true
	}

	out := make([]models.ProductionRecord, 0, len(records))
	for _, r := range records {
		if len(states) > 0 && !states[strings.ToLower(r.State)] {
			continue
		}
		if len(districts) > 0 && !districts[strings.ToLower(r.District)] {
			continue
		}
		if len(crops) > 0 && !crops[strings.ToLower(r.Crop)] {
			continue
		}
		if len(seasons) > 0 && !seasons[strings.ToLower(r.Season)] {
			continue
		}
		if len(years) > 0 && (r.Year == nil || !years[*r.Year]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toLowerSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = true
	}
	return set
}

// FilterOptions lists the distinct values filter widgets can offer for a
// table, sorted, plus the span of parseable years.
type FilterOptions struct {
	States    []string `json:"states"`
	Districts []string `json:"districts"`
	Crops     []string `json:"crops"`
	Seasons   []string `json:"seasons"`
	MinYear   *int     `json:"minYear,omitempty"`
	MaxYear   *int     `json:"maxYear,omitempty"`
}

// Options computes widget values over a table. Pass a state-filtered table
// to get the cascading district list the dashboard shows.
func Options(records []models.ProductionRecord) FilterOptions {
	var opts FilterOptions
	opts.States = distinct(records, func(r models.ProductionRecord) string { return r.State })
	opts.Districts = distinct(records, func(r models.ProductionRecord) string { return r.District })
	opts.Crops = distinct(records, func(r models.ProductionRecord) string { return r.Crop })
	opts.Seasons = distinct(records, func(r models.ProductionRecord) string { return r.Season })
	opts.MinYear, opts.MaxYear = YearRange(records)
	return opts
}

// YearRange returns the min and max parseable year, nil when no row has one.
func YearRange(records []models.ProductionRecord) (min, max *int) {
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

func distinct(records []models.ProductionRecord, key func(models.ProductionRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		v := key(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
