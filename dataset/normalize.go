// Package dataset turns raw crop-production rows into the canonical typed
// table the analysis package works on, and owns the filtered-view and
// snapshot-cache plumbing around it.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"cropwatch/models"
)

// RawRow is one pre-normalization row as read from CSV or XLSX. All fields
// are kept as text; Normalize decides what is usable.
type RawRow struct {
	State      string
	District   string
	Crop       string
	Season     string
	Year       string
	Area       string
	Production string
}

// Normalize builds the canonical table from raw rows.
//
// Rules: text fields are trimmed (Season empty-defaulted); rows with an
// empty Crop or non-numeric Area/Production are dropped; a year like
// "2017-18" parses to 2017, an unparseable year leaves Year nil but keeps
// the row; Yield = Production/Area, undefined (nil) when Area == 0 or the
// division is not finite. Negative area or production passes through
// untouched; sanitizing beyond these rules is not this layer's job.
func Normalize(rows []RawRow) []models.ProductionRecord {
	out := make([]models.ProductionRecord, 0, len(rows))
	for _, r := range rows {
		crop := strings.TrimSpace(r.Crop)
		if crop == "" {
			continue
		}
		area, err := strconv.ParseFloat(strings.TrimSpace(r.Area), 64)
		if err != nil {
			continue
		}
		production, err := strconv.ParseFloat(strings.TrimSpace(r.Production), 64)
		if err != nil {
			continue
		}

		rec := models.ProductionRecord{
			State:      strings.TrimSpace(r.State),
			District:   strings.TrimSpace(r.District),
			Crop:       crop,
			Season:     strings.TrimSpace(r.Season),
			Year:       parseYear(r.Year),
			Area:       area,
			Production: production,
			Yield:      deriveYield(production, area),
		}
		out = append(out, rec)
	}
	return out
}

// parseYear takes the leading integer of a possibly composite year string
// ("2017-18", "2017/18", "2017") and returns nil when none parses.
func parseYear(s string) *int {
	s = strings.TrimSpace(s)
	end := len(s)
	for i, c := range s {
		if c < '0' || c > '9' {
			end = i
			break
		}
	}
	y, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &y
}

// deriveYield computes production/area, mapping zero-area division and any
// non-finite result to the undefined sentinel instead of ±Inf.
func deriveYield(production, area float64) *float64 {
	if area == 0 {
		return nil
	}
	y := production / area
	if math.IsInf(y, 0) || math.IsNaN(y) {
		return nil
	}
	return &y
}
