package analytics

import (
	"math"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

// Percent change needed for a weekly summary to report "up" or "down"
const WeeklyChangeThreshold = 5.0

// SummaryMetrics are the metrics compared week over week
var SummaryMetrics = []models.Metric{
	models.MetricMood,
	models.MetricEnergy,
	models.MetricFocus,
	models.MetricSleepQuality,
	models.MetricSleepHours,
	models.MetricCravingIntensity,
	models.MetricCravingCount,
	models.MetricCravingResistRate,
}

// ComputeStreak finds the current and longest runs of consecutive days that
// have at least one log and no lost craving. The current run is the one that
// reaches the last day of the series.
func ComputeStreak(days []models.DailyMetric) models.ResistanceStreak {
	var streak models.ResistanceStreak

	runStart, runLength := 0, 0
	for i, d := range days {
		if !holdsStreak(d) {
			runLength = 0
			continue
		}
		if runLength == 0 {
			runStart = i
		}
		runLength++

		if runLength > streak.Longest {
			streak.Longest = runLength
			start, end := days[runStart].Date, d.Date
			streak.LongestStart = &start
			streak.LongestEnd = &end
		}
	}

	if runLength > 0 {
		start := days[runStart].Date
		streak.Current = runLength
		streak.CurrentStart = &start
	}

	return streak
}

func holdsStreak(d models.DailyMetric) bool {
	if !d.HasData() {
		return false
	}
	return d.CravingResistSuccessRate == nil || *d.CravingResistSuccessRate >= 100
}

// ComputeWeeklySummary compares the average of each SummaryMetrics entry over
// the last 7 days with the 7 days before. A metric is reported only when both
// weeks have data; craving_count is reported unless both weeks are zero.
func ComputeWeeklySummary(days []models.DailyMetric) []models.WeeklySummary {
	summaries := make([]models.WeeklySummary, 0, len(SummaryMetrics))

	n := len(days)
	if n == 0 {
		return summaries
	}
	thisWeek := days[max(0, n-7):]
	lastWeek := days[max(0, n-14):max(0, n-7)]

	for _, m := range SummaryMetrics {
		this := averageOf(thisWeek, m)
		last := averageOf(lastWeek, m)
		if this == nil || last == nil {
			continue
		}
		// Skip if no activity in either week
		if m == models.MetricCravingCount && *this == 0 && *last == 0 {
			continue
		}

		var changePercent float64
		var direction string

		if *last == 0 {
			if *this != 0 {
				changePercent = 100
				direction = "up"
			} else {
				changePercent = 0
				direction = "same"
			}
		} else {
			changePercent = (*this - *last) / math.Abs(*last) * 100
			if changePercent > WeeklyChangeThreshold {
				direction = "up"
			} else if changePercent < -WeeklyChangeThreshold {
				direction = "down"
			} else {
				direction = "same"
			}
		}

		summaries = append(summaries, models.WeeklySummary{
			Metric:          m,
			ThisWeekAverage: this,
			LastWeekAverage: last,
			ChangePercent:   changePercent,
			Direction:       direction,
		})
	}

	return summaries
}

// averageOf averages the non-missing values of m, nil when there are none
func averageOf(days []models.DailyMetric, m models.Metric) *float64 {
	var acc meanAcc
	for _, d := range days {
		if v := d.Value(m); v != nil {
			acc.add(*v)
		}
	}
	return acc.mean()
}
