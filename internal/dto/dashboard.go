package dto

import "github.com/noah-isme/contractguard-api/internal/models"

// RiskSlice is one slice of the risk-distribution pie chart.
type RiskSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ContractBar pairs the risk and compliance scores for one contract in the
// performance bar chart. Name is the file name truncated for display.
type ContractBar struct {
	Name       string `json:"name"`
	Risk       int    `json:"risk"`
	Compliance int    `json:"comp"`
}

// ChartData groups the dashboard chart projections.
type ChartData struct {
	RiskDistribution []RiskSlice   `json:"risk_distribution"`
	Performance      []ContractBar `json:"performance"`
}

// DashboardResponse is the composed per-user dashboard payload.
type DashboardResponse struct {
	Stats     models.ContractStats `json:"stats"`
	Charts    ChartData            `json:"charts"`
	Contracts []models.Contract    `json:"contracts"`
	Alerts    []models.Alert       `json:"alerts"`
}
