package analytics

import (
	"math"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

const (
	// Minimum non-missing values required for a trend verdict
	MinTrendPoints = 5

	// Share of the series averaged at each end
	TrendBatchFraction = 0.3

	// Raw-scale change of batch averages needed to leave "stable"
	TrendThreshold = 0.5
)

// TrendMetrics are the metrics reported by ComputeMetricTrends
var TrendMetrics = []models.Metric{
	models.MetricMood,
	models.MetricEnergy,
	models.MetricFocus,
	models.MetricSleepQuality,
	models.MetricSleepHours,
	models.MetricCravingIntensity,
	models.MetricCravingResistRate,
}

// Trend compares the average of the earliest and latest 30% of a
// chronologically ordered series. Missing values are dropped first. Fewer
// than MinTrendPoints values yield a stable trend with no change.
func Trend(series []*float64) models.TrendResult {
	values := make([]float64, 0, len(series))
	for _, v := range series {
		if v != nil {
			values = append(values, *v)
		}
	}

	result := models.TrendResult{Direction: models.TrendStable, DataPoints: len(values)}
	n := len(values)
	if n < MinTrendPoints {
		return result
	}

	size := max(1, int(math.Floor(float64(n)*TrendBatchFraction)))
	first := mean(values[:size])
	last := mean(values[n-size:])

	result.Delta = last - first
	if first != 0 {
		result.PercentChange = result.Delta / first * 100
	}

	switch {
	case result.Delta > TrendThreshold:
		result.Direction = models.TrendImproving
	case result.Delta < -TrendThreshold:
		result.Direction = models.TrendDeclining
	}

	return result
}

// ComputeMetricTrends returns one trend per TrendMetrics entry
func ComputeMetricTrends(days []models.DailyMetric) []models.MetricTrend {
	trends := make([]models.MetricTrend, 0, len(TrendMetrics))
	for _, m := range TrendMetrics {
		trends = append(trends, models.MetricTrend{Metric: m, TrendResult: Trend(Series(days, m))})
	}
	return trends
}

func mean(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
