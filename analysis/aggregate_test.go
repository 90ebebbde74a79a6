package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cropwatch/models"
)

func pr(state, district, crop string, year int, area, production float64) models.ProductionRecord {
	y := year
	rec := models.ProductionRecord{
		State: state, District: district, Crop: crop,
		Year: &y, Area: area, Production: production,
	}
	if area != 0 {
		v := production / area
		rec.Yield = &v
	}
	return rec
}

func TestYearSeries(t *testing.T) {
	table := []models.ProductionRecord{
		pr("Gujarat", "Rajkot", "Rice", 2019, 10, 25),
		pr("Gujarat", "Rajkot", "Rice", 2018, 10, 20),
		pr("Gujarat", "Surat", "Rice", 2018, 10, 30),
		pr("Gujarat", "Surat", "Rice", 2019, 0, 5), // undefined yield
	}
	got := YearSeries(table)

	if len(got) != 2 {
		t.Fatalf("want 2 points, got %d", len(got))
	}
	if got[0].Year != 2018 || got[1].Year != 2019 {
		t.Fatalf("years not ascending: %+v", got)
	}
	if got[0].Area != 20 || got[0].Production != 50 {
		t.Errorf("2018 sums = %+v", got[0])
	}
	if got[0].Yield == nil || *got[0].Yield != 2.5 {
		t.Errorf("2018 mean yield = %v, want 2.5", got[0].Yield)
	}
	// 2019: the zero-area row contributes to sums but not to the mean.
	if got[1].Area != 10 || got[1].Production != 30 {
		t.Errorf("2019 sums = %+v", got[1])
	}
	if got[1].Yield == nil || *got[1].Yield != 2.5 {
		t.Errorf("2019 mean yield = %v, want 2.5 (undefined yield excluded, not zeroed)", got[1].Yield)
	}
}

func TestYearSeriesSkipsUndatedRows(t *testing.T) {
	table := []models.ProductionRecord{
		{Crop: "Rice", Area: 10, Production: 20},
		pr("Gujarat", "Rajkot", "Rice", 2020, 10, 25),
	}
	got := YearSeries(table)
	if len(got) != 1 || got[0].Year != 2020 {
		t.Fatalf("want only 2020, got %+v", got)
	}
}

func TestRegionSummariesOrderAndTotals(t *testing.T) {
	table := []models.ProductionRecord{
		pr("Punjab", "Amritsar", "Wheat", 2020, 10, 40),
		pr("Gujarat", "Rajkot", "Rice", 2020, 10, 20),
		pr("Punjab", "Ludhiana", "Wheat", 2020, 10, 20),
	}
	got := RegionSummaries(table)
	want := []RegionSummary{
		{State: "Punjab", Production: 60, Area: 20, Yield: floatPtr(3)},
		{State: "Gujarat", Production: 20, Area: 10, Yield: floatPtr(2)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestDistrictSummariesSortedByProduction(t *testing.T) {
	table := []models.ProductionRecord{
		pr("Gujarat", "Rajkot", "Rice", 2020, 10, 20),
		pr("Gujarat", "Surat", "Rice", 2020, 10, 80),
		pr("Gujarat", "Bharuch", "Rice", 2020, 10, 50),
	}
	got := DistrictSummaries(table)
	if len(got) != 3 {
		t.Fatalf("want 3 districts, got %d", len(got))
	}
	for i, name := range []string{"Surat", "Bharuch", "Rajkot"} {
		if got[i].District != name {
			t.Errorf("rank %d = %s, want %s", i, got[i].District, name)
		}
	}

	top := TopDistricts(table, 2)
	if len(top) != 2 || top[0].District != "Surat" {
		t.Errorf("top 2 = %+v", top)
	}
}

func TestStateYields(t *testing.T) {
	table := []models.ProductionRecord{
		pr("Gujarat", "Rajkot", "Rice", 2020, 10, 20),
		pr("Gujarat", "Surat", "Rice", 2020, 10, 30),
		pr("Punjab", "Amritsar", "Rice", 2020, 10, 40),
		pr("Punjab", "Amritsar", "Rice", 2019, 10, 10),  // other year
		pr("Punjab", "Amritsar", "Wheat", 2020, 10, 10), // other crop
	}
	got := StateYields(table, "Rice", 2020)
	want := map[string]float64{"Gujarat": 2.5, "Punjab": 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state yields mismatch (-want +got):\n%s", diff)
	}
}

func TestCropSeries(t *testing.T) {
	table := []models.ProductionRecord{
		pr("Gujarat", "Rajkot", "Rice", 2019, 10, 20),
		pr("Gujarat", "Rajkot", "Wheat", 2019, 10, 10),
		pr("Gujarat", "Rajkot", "Rice", 2020, 10, 30),
		pr("Gujarat", "Surat", "Rice", 2019, 10, 5),
	}
	got := CropSeries(table)
	want := []CropYearPoint{
		{Year: 2019, Crop: "Rice", Production: 25},
		{Year: 2019, Crop: "Wheat", Production: 10},
		{Year: 2020, Crop: "Rice", Production: 30},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("crop series mismatch (-want +got):\n%s", diff)
	}
}

func floatPtr(v float64) *float64 { return &v }
