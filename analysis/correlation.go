package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"cropwatch/models"
)

// CorrelationMatrix — pairwise Pearson correlation among the numeric
// columns. Cells are nil when a pair has fewer than two observations or a
// column is constant; undefined yields are dropped pairwise, so the
// (area, production) cell can use more rows than the yield cells.
type CorrelationMatrix struct {
	Fields []string     `json:"fields"`
	Values [][]*float64 `json:"values"`
}

// Correlation computes the matrix over area, production and yield.
func Correlation(records []models.ProductionRecord) CorrelationMatrix {
	fields := []string{"area", "production", "yield"}
	get := []func(models.ProductionRecord) *float64{
		func(r models.ProductionRecord) *float64 { v := r.Area; return &v },
		func(r models.ProductionRecord) *float64 { v := r.Production; return &v },
		func(r models.ProductionRecord) *float64 { return r.Yield },
	}

	values := make([][]*float64, len(fields))
	for i := range fields {
		values[i] = make([]*float64, len(fields))
		for j := range fields {
			values[i][j] = pearson(records, get[i], get[j])
		}
	}
	return CorrelationMatrix{Fields: fields, Values: values}
}

// pearson correlates two columns over the rows where both are defined.
func pearson(records []models.ProductionRecord, x, y func(models.ProductionRecord) *float64) *float64 {
	var xs, ys []float64
	for _, r := range records {
		xv, yv := x(r), y(r)
		if xv == nil || yv == nil {
			continue
		}
		xs = append(xs, *xv)
		ys = append(ys, *yv)
	}
	// A constant column has no correlation to speak of; the stats package
	// reports 0 there, which would read as "uncorrelated" rather than
	// "undefined".
	if len(xs) < 2 || allEqual(xs) || allEqual(ys) {
		return nil
	}
	c, err := stats.Pearson(xs, ys)
	if err != nil || math.IsNaN(c) {
		return nil
	}
	return &c
}

func allEqual(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}
