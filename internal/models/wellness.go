package models

import "time"

// DateLayout is the calendar-date key format used for daily metrics
const DateLayout = "2006-01-02"

// Metric identifies one daily health dimension
type Metric string

const (
	MetricMood              Metric = "mood"
	MetricEnergy            Metric = "energy"
	MetricFocus             Metric = "focus"
	MetricSleepQuality      Metric = "sleep_quality"
	MetricSleepHours        Metric = "sleep_hours"
	MetricCravingIntensity  Metric = "craving_intensity"
	MetricCravingCount      Metric = "craving_count"
	MetricCravingResistRate Metric = "craving_resist_rate"
)

var metricLabels = map[Metric]string{
	MetricMood:              "mood",
	MetricEnergy:            "energy",
	MetricFocus:             "focus",
	MetricSleepQuality:      "sleep quality",
	MetricSleepHours:        "sleep duration",
	MetricCravingIntensity:  "craving intensity",
	MetricCravingCount:      "craving count",
	MetricCravingResistRate: "craving resistance",
}

// Label returns the lower-case human-readable name of the metric
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

// Strength classifies the magnitude of a correlation coefficient
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
	StrengthNone     Strength = "none"
)

// Direction represents the direction of a correlation
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// TrendDirection is the directional verdict of a trend analysis
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// DailyMetric is one calendar day's averaged values. Nil fields mean no
// events of that kind were logged that day.
type DailyMetric struct {
	Date                     string   `json:"date"`
	Mood                     *float64 `json:"mood"`
	Energy                   *float64 `json:"energy"`
	Focus                    *float64 `json:"focus"`
	SleepQuality             *float64 `json:"sleep_quality"`
	SleepHours               *float64 `json:"sleep_hours"`
	CravingIntensity         *float64 `json:"craving_intensity"`
	CravingCount             int      `json:"craving_count"`
	CravingResistSuccessRate *float64 `json:"craving_resist_success_rate"`
}

// Value returns the day's value for m. CravingCount is always present.
func (d DailyMetric) Value(m Metric) *float64 {
	switch m {
	case MetricMood:
		return d.Mood
	case MetricEnergy:
		return d.Energy
	case MetricFocus:
		return d.Focus
	case MetricSleepQuality:
		return d.SleepQuality
	case MetricSleepHours:
		return d.SleepHours
	case MetricCravingIntensity:
		return d.CravingIntensity
	case MetricCravingCount:
		v := float64(d.CravingCount)
		return &v
	case MetricCravingResistRate:
		return d.CravingResistSuccessRate
	default:
		return nil
	}
}

// HasData reports whether any event was logged that day
func (d DailyMetric) HasData() bool {
	return d.Mood != nil || d.Energy != nil || d.Focus != nil || d.SleepQuality != nil ||
		d.SleepHours != nil || d.CravingCount > 0
}

// CorrelationResult holds the relationship between two daily metrics
type CorrelationResult struct {
	Factor1        Metric    `json:"factor1"`
	Factor2        Metric    `json:"factor2"`
	Coefficient    float64   `json:"coefficient"` // Pearson r value (-1 to 1)
	Strength       Strength  `json:"strength"`
	Direction      Direction `json:"direction"`
	Interpretation string    `json:"interpretation"`
	SampleSize     int       `json:"sample_size"` // Number of complete-case days
	PValue         float64   `json:"p_value"`
}

// CravingPrediction is the craving risk forecast for one hour of the day
type CravingPrediction struct {
	Hour              int      `json:"hour"`        // 0-23, local time
	TimeOfDay         string   `json:"time_of_day"` // "3PM"
	RiskLevel         int      `json:"risk_level"`  // 0-100
	PrimaryTrigger    Trigger  `json:"primary_trigger"`
	SecondaryTrigger  *Trigger `json:"secondary_trigger"`
	RecommendedAction string   `json:"recommended_action"`
	EventCount        int      `json:"event_count"`
	AverageIntensity  float64  `json:"average_intensity"`
}

// TrendResult is the early-vs-recent comparison of one metric series
type TrendResult struct {
	Direction     TrendDirection `json:"direction"`
	PercentChange float64        `json:"percent_change"`
	Delta         float64        `json:"delta"` // Raw-scale difference of batch averages
	DataPoints    int            `json:"data_points"`
}

// MetricTrend pairs a trend with the metric it was computed for
type MetricTrend struct {
	Metric Metric `json:"metric"`
	TrendResult
}

// TimePattern represents time-based pattern analysis
type TimePattern struct {
	PatternType  string    `json:"pattern_type"` // "hour_of_day", "day_of_week"
	Distribution []float64 `json:"distribution"` // Percentages for each bucket
	PeakValue    int       `json:"peak_value"`   // Index of peak (hour 0-23 or day 0-6)
	PeakLabel    string    `json:"peak_label"`   // "Tuesday", "8AM"
	PeakPercent  float64   `json:"peak_percent"`
	Consistency  float64   `json:"consistency"` // 0-1 score (1 = very consistent)
}

// CravingPattern summarises when cravings happen
type CravingPattern struct {
	HourOfDay TimePattern `json:"hour_of_day"`
	DayOfWeek TimePattern `json:"day_of_week"`
}

// ResistanceStreak counts consecutive days without a lost craving
type ResistanceStreak struct {
	Current      int     `json:"current"`
	CurrentStart *string `json:"current_start,omitempty"`
	Longest      int     `json:"longest"`
	LongestStart *string `json:"longest_start,omitempty"`
	LongestEnd   *string `json:"longest_end,omitempty"`
}

// WeeklySummary compares the last 7 days of a metric with the 7 days before
type WeeklySummary struct {
	Metric          Metric   `json:"metric"`
	ThisWeekAverage *float64 `json:"this_week_average"`
	LastWeekAverage *float64 `json:"last_week_average"`
	ChangePercent   float64  `json:"change_percent"`
	Direction       string   `json:"direction"` // "up", "down", "same"
}

// Diagnostics reports data-quality issues found during one analysis pass
type Diagnostics struct {
	SkippedLogs          int `json:"skipped_logs"`          // unparseable timestamps
	OutOfRangeValues     int `json:"out_of_range_values"`   // kept as-is, not clamped
	UnrecognizedTriggers int `json:"unrecognized_triggers"` // mapped to Other
}

// AnalysisResult is the combined output of one analysis pass
type AnalysisResult struct {
	Generation         uint64              `json:"generation"`
	UserID             string              `json:"user_id,omitempty"`
	WindowStart        string              `json:"window_start"`
	WindowEnd          string              `json:"window_end"`
	Timezone           string              `json:"timezone"`
	DailyMetrics       []DailyMetric       `json:"daily_metrics"`
	Correlations       []CorrelationResult `json:"correlations"`
	CravingPredictions []CravingPrediction `json:"craving_predictions"`
	CravingPattern     *CravingPattern     `json:"craving_pattern,omitempty"`
	Trends             []MetricTrend       `json:"trends"`
	Streak             ResistanceStreak    `json:"streak"`
	WeeklySummary      []WeeklySummary     `json:"weekly_summary"`
	Diagnostics        Diagnostics         `json:"diagnostics"`
	DataSufficient     bool                `json:"data_sufficient"`
	TotalDays          int                 `json:"total_days"`
	DaysWithData       int                 `json:"days_with_data"`
	ComputedAt         time.Time           `json:"computed_at"`
}
