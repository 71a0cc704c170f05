package service

import (
	"math"

	"github.com/noah-isme/contractguard-api/internal/dto"
	"github.com/noah-isme/contractguard-api/internal/models"
)

const barNameMaxLen = 12

// CalculateStats aggregates a contract register into header-card numbers.
// Averages are rounded to the nearest integer; an empty register yields
// all zeros rather than NaN.
func CalculateStats(contracts []models.Contract) models.ContractStats {
	stats := models.ContractStats{Total: len(contracts)}
	if len(contracts) == 0 {
		return stats
	}

	var riskSum, compSum int
	for _, c := range contracts {
		switch c.RiskLevel {
		case models.RiskHigh:
			stats.High++
		case models.RiskMedium:
			stats.Medium++
		case models.RiskLow:
			stats.Low++
		}
		riskSum += c.RiskScore
		compSum += c.ComplianceScore
	}

	stats.AvgRisk = int(math.Round(float64(riskSum) / float64(len(contracts))))
	stats.AvgCompliance = int(math.Round(float64(compSum) / float64(len(contracts))))
	return stats
}

// BuildChartData projects the register into the dashboard charts. The pie
// always carries all three bands, even at zero, so the legend stays stable.
func BuildChartData(contracts []models.Contract) dto.ChartData {
	stats := CalculateStats(contracts)

	pie := []dto.RiskSlice{
		{Name: "High", Value: stats.High, Color: "#ef4444"},
		{Name: "Medium", Value: stats.Medium, Color: "#f59e0b"},
		{Name: "Low", Value: stats.Low, Color: "#10b981"},
	}

	bars := make([]dto.ContractBar, 0, len(contracts))
	for _, c := range contracts {
		// Truncate by rune, not byte, so multibyte file names stay valid UTF-8.
		name := c.FileName
		if runes := []rune(name); len(runes) > barNameMaxLen {
			name = string(runes[:barNameMaxLen])
		}
		bars = append(bars, dto.ContractBar{
			Name:       name,
			Risk:       c.RiskScore,
			Compliance: c.ComplianceScore,
		})
	}

	return dto.ChartData{RiskDistribution: pie, Performance: bars}
}
