package service

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/contractguard-api/internal/models"
)

func analyzedContract(name string, level models.RiskLevel, risk, comp int) models.Contract {
	return models.Contract{
		FileName: name,
		ContractAnalysis: models.ContractAnalysis{
			RiskLevel:       level,
			RiskScore:       risk,
			ComplianceScore: comp,
		},
	}
}

func TestCalculateStatsEmptyRegister(t *testing.T) {
	stats := CalculateStats(nil)

	assert.Equal(t, models.ContractStats{}, stats)
}

func TestCalculateStatsAggregates(t *testing.T) {
	contracts := []models.Contract{
		analyzedContract("a.pdf", models.RiskHigh, 90, 40),
		analyzedContract("b.pdf", models.RiskMedium, 50, 75),
		analyzedContract("c.pdf", models.RiskLow, 11, 90),
	}

	stats := CalculateStats(contracts)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.High)
	assert.Equal(t, 1, stats.Medium)
	assert.Equal(t, 1, stats.Low)
	// (90+50+11)/3 = 50.33 -> 50, (40+75+90)/3 = 68.33 -> 68
	assert.Equal(t, 50, stats.AvgRisk)
	assert.Equal(t, 68, stats.AvgCompliance)
}

func TestCalculateStatsRoundsHalfUp(t *testing.T) {
	contracts := []models.Contract{
		analyzedContract("a.pdf", models.RiskLow, 1, 1),
		analyzedContract("b.pdf", models.RiskLow, 2, 2),
	}

	stats := CalculateStats(contracts)

	// 1.5 rounds to 2
	assert.Equal(t, 2, stats.AvgRisk)
	assert.Equal(t, 2, stats.AvgCompliance)
}

func TestBuildChartDataPieAlwaysThreeSlices(t *testing.T) {
	charts := BuildChartData(nil)

	require.Len(t, charts.RiskDistribution, 3)
	assert.Equal(t, "High", charts.RiskDistribution[0].Name)
	assert.Equal(t, "#ef4444", charts.RiskDistribution[0].Color)
	assert.Equal(t, "Medium", charts.RiskDistribution[1].Name)
	assert.Equal(t, "#f59e0b", charts.RiskDistribution[1].Color)
	assert.Equal(t, "Low", charts.RiskDistribution[2].Name)
	assert.Equal(t, "#10b981", charts.RiskDistribution[2].Color)
	for _, slice := range charts.RiskDistribution {
		assert.Zero(t, slice.Value)
	}
	assert.Empty(t, charts.Performance)
}

func TestBuildChartDataBarsTruncateNames(t *testing.T) {
	contracts := []models.Contract{
		analyzedContract("short.pdf", models.RiskHigh, 80, 55),
		analyzedContract("very_long_contract_name.pdf", models.RiskLow, 20, 95),
	}

	charts := BuildChartData(contracts)

	require.Len(t, charts.Performance, 2)
	assert.Equal(t, "short.pdf", charts.Performance[0].Name)
	assert.Equal(t, "very_long_co", charts.Performance[1].Name)
	assert.Equal(t, 80, charts.Performance[0].Risk)
	assert.Equal(t, 95, charts.Performance[1].Compliance)
	assert.Equal(t, 1, charts.RiskDistribution[0].Value)
}

func TestBuildChartDataBarsTruncateMultibyteNames(t *testing.T) {
	contracts := []models.Contract{
		analyzedContract("vertragsänderung_2026.pdf", models.RiskLow, 10, 90),
		analyzedContract("業務委託契約書_最終版_署名済み.pdf", models.RiskLow, 10, 90),
	}

	charts := BuildChartData(contracts)

	require.Len(t, charts.Performance, 2)
	assert.Equal(t, "vertragsände", charts.Performance[0].Name)
	assert.Equal(t, "業務委託契約書_最終版_", charts.Performance[1].Name)
	for _, bar := range charts.Performance {
		assert.True(t, utf8.ValidString(bar.Name))
		assert.LessOrEqual(t, len([]rune(bar.Name)), barNameMaxLen)
	}
}
