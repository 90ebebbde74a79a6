package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cropwatch/analysis"
	"cropwatch/dataset"
	"cropwatch/models"
)

// Lookback horizon when the caller does not pass ?window=.
const defaultWindowYears = 5

// handleDeclines runs the yield-decline engine over the (filtered) dataset
// and returns the ranked alerts with summary counters.
func (a *App) handleDeclines(w http.ResponseWriter, r *http.Request) {
	records, ok := a.filteredTable(w, r)
	if !ok {
		return
	}

	window := defaultWindowYears
	if s := r.URL.Query().Get("window"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "window must be an integer", http.StatusBadRequest)
			return
		}
		window = v
	}

	alerts, err := analysis.DetectDeclines(records, window)
	if err != nil {
		if errors.Is(err, analysis.ErrInvalidWindow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "analysis error", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(declineResp{
		Window:  window,
		Alerts:  alerts,
		Summary: analysis.Summarize(alerts),
	})
}

// handleCorrelation returns the area/production/yield Pearson matrix.
func (a *App) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	records, ok := a.filteredTable(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(analysis.Correlation(records))
}

// handleTimeSeries returns per-year totals and mean yield.
func (a *App) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	records, ok := a.filteredTable(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(timeSeriesResp{Points: analysis.YearSeries(records)})
}

// handleRegions returns state-level aggregates (the map view's data).
func (a *App) handleRegions(w http.ResponseWriter, r *http.Request) {
	records, ok := a.filteredTable(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(regionsResp{Regions: analysis.RegionSummaries(records)})
}

// handleDistricts returns district aggregates, optionally narrowed to one
// state and truncated to the top-N producers (?state=, ?top=).
func (a *App) handleDistricts(w http.ResponseWriter, r *http.Request) {
	records, ok := a.filteredTable(w, r)
	if !ok {
		return
	}

	state := strings.TrimSpace(r.URL.Query().Get("state"))
	if state != "" {
		records = dataset.Filter{States: []string{state}}.Apply(records)
	}

	top := 0
	if s := r.URL.Query().Get("top"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			top = v
		}
	}

	_ = json.NewEncoder(w).Encode(districtsResp{
		State:     state,
		Districts: analysis.TopDistricts(records, top),
	})
}

// handleCropSeries returns production summed by (year, crop).
func (a *App) handleCropSeries(w http.ResponseWriter, r *http.Request) {
	records, ok := a.filteredTable(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(cropSeriesResp{Points: analysis.CropSeries(records)})
}

// handleOptions returns the values the filter widgets can offer. Passing
// ?states= narrows the district list the way the sidebar cascades.
func (a *App) handleOptions(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ds, err := a.findDataset(ctx, r, uid)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	records, err := a.loadSnapshot(ctx, ds)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	opts := dataset.Options(records)
	if states := splitParam(r.URL.Query().Get("states")); len(states) > 0 {
		narrowed := dataset.Filter{States: states}.Apply(records)
		opts.Districts = dataset.Options(narrowed).Districts
	}
	_ = json.NewEncoder(w).Encode(opts)
}

// ---- helpers ----

// filteredTable loads the dataset snapshot and applies the query-string
// filters. On failure it writes the error response and returns ok=false.
func (a *App) filteredTable(w http.ResponseWriter, r *http.Request) ([]models.ProductionRecord, bool) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ds, err := a.findDataset(ctx, r, uid)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return nil, false
	}
	records, err := a.loadSnapshot(ctx, ds)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return nil, false
	}
	return filterFromQuery(r).Apply(records), true
}

// filterFromQuery builds a dataset.Filter from comma-separated query
// params: states, districts, crops, seasons, years.
func filterFromQuery(r *http.Request) dataset.Filter {
	q := r.URL.Query()
	f := dataset.Filter{
		States:    splitParam(q.Get("states")),
		Districts: splitParam(q.Get("districts")),
		Crops:     splitParam(q.Get("crops")),
		Seasons:   splitParam(q.Get("seasons")),
	}
	for _, s := range splitParam(q.Get("years")) {
		if y, err := strconv.Atoi(s); err == nil {
			f.Years = append(f.Years, y)
		}
	}
	return f
}

func splitParam(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
