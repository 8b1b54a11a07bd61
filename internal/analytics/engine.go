// Package analytics is the wellness analysis engine: it folds raw mood, energy,
// focus, sleep and craving logs into daily metrics, correlates those metrics,
// forecasts craving risk by hour of day and measures per-metric trends.
//
// Every function in this package is pure. Nothing is cached, nothing is read
// from the clock, and identical inputs always produce identical outputs, so
// callers can recompute from scratch whenever the window or the logs change.
package analytics

import (
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

// Window is an inclusive range of calendar dates. Only the date part of
// Start and End (in the analysis location) is used.
type Window struct {
	Start time.Time
	End   time.Time
}

// Options controls how timestamps are mapped to local dates and hours
type Options struct {
	// Location used for date and hour-of-day bucketing. Defaults to UTC.
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// ComputeDailyMetrics returns one DailyMetric per date of the window.
func ComputeDailyMetrics(logs models.WellnessLogs, window Window, opts Options) []models.DailyMetric {
	days, _ := Aggregate(logs, window, opts)
	return days
}

// ComputeCravingPredictions returns the top craving-risk hours.
func ComputeCravingPredictions(cravings []models.CravingLog, opts Options) []models.CravingPrediction {
	return PredictCravingRisk(cravings, opts)
}

// ComputeTrend returns the trend of a single date-ordered series.
func ComputeTrend(series []*float64) models.TrendResult {
	return Trend(series)
}

// Analyze runs a full pass over one snapshot of logs. ComputedAt, Generation
// and UserID are left for the caller to fill in.
func Analyze(logs models.WellnessLogs, window Window, opts Options) models.AnalysisResult {
	loc := opts.location()

	days, diag := Aggregate(logs, window, opts)
	predictions, unrecognized := predictCravingRisk(logs.Craving, loc)
	diag.UnrecognizedTriggers = unrecognized

	result := models.AnalysisResult{
		WindowStart:        civilDate(window.Start, loc).Format(models.DateLayout),
		WindowEnd:          civilDate(window.End, loc).Format(models.DateLayout),
		Timezone:           loc.String(),
		DailyMetrics:       days,
		Correlations:       ComputeCorrelations(days),
		CravingPredictions: predictions,
		CravingPattern:     ComputeCravingPattern(logs.Craving, opts),
		Trends:             ComputeMetricTrends(days),
		Streak:             ComputeStreak(days),
		WeeklySummary:      ComputeWeeklySummary(days),
		Diagnostics:        diag,
		TotalDays:          len(days),
	}

	for _, d := range days {
		if d.HasData() {
			result.DaysWithData++
		}
	}

	result.DataSufficient = len(result.Correlations) > 0 || len(result.CravingPredictions) > 0
	if !result.DataSufficient {
		for _, t := range result.Trends {
			if t.DataPoints >= MinTrendPoints {
				result.DataSufficient = true
				break
			}
		}
	}

	return result
}
