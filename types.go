package main

import (
	"cropwatch/analysis"
	"cropwatch/models"
)

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// declineResp pairs the ranked alerts with the headline counters the
// dashboard renders above them.
type declineResp struct {
	Window  int                    `json:"window"`
	Alerts  []models.DeclineRecord `json:"alerts"`
	Summary models.DeclineSummary  `json:"summary"`
}

type timeSeriesResp struct {
	Points []analysis.YearPoint `json:"points"`
}

type regionsResp struct {
	Regions []analysis.RegionSummary `json:"regions"`
}

type districtsResp struct {
	State     string                     `json:"state,omitempty"`
	Districts []analysis.DistrictSummary `json:"districts"`
}

type cropSeriesResp struct {
	Points []analysis.CropYearPoint `json:"points"`
}
