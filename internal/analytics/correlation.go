package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

const (
	// Minimum complete-case days required for a correlation
	MinCorrelationPairs = 5

	// Strength band lower bounds on |r|
	StrengthThresholdStrong   = 0.7
	StrengthThresholdModerate = 0.4
	StrengthThresholdWeak     = 0.2
)

// CorrelatedMetrics are the daily metrics compared pairwise, in output order
// for equal coefficients.
var CorrelatedMetrics = []models.Metric{
	models.MetricMood,
	models.MetricEnergy,
	models.MetricFocus,
	models.MetricSleepQuality,
	models.MetricSleepHours,
	models.MetricCravingIntensity,
	models.MetricCravingResistRate,
}

// =============================================================================
// Statistical Algorithms
// =============================================================================

// Correlate computes the Pearson correlation coefficient of a and b. Series of
// different lengths are compared over their common prefix. Fewer than two
// points or a constant series yield 0; the result is clamped to [-1, 1].
func Correlate(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n < 2 {
		return 0
	}
	x, y := a[:n], b[:n]
	if isConstant(x) || isConstant(y) {
		return 0
	}

	dx, dy := deviations(x), deviations(y)

	var numerator, denomX, denomY float64
	for i := 0; i < n; i++ {
		numerator += dx[i] * dy[i]
		denomX += dx[i] * dx[i]
		denomY += dy[i] * dy[i]
	}

	denom := math.Sqrt(denomX * denomY)
	if denom == 0 || math.IsNaN(denom) {
		return 0
	}

	return math.Max(-1, math.Min(1, numerator/denom))
}

// deviations returns v minus its mean, scaled by the largest absolute
// deviation so squaring neither overflows nor underflows. Pearson r is
// invariant under that scaling.
func deviations(v []float64) []float64 {
	var mean float64
	for i, x := range v {
		mean += (x - mean) / float64(i+1)
	}

	out := make([]float64, len(v))
	var scale float64
	for i, x := range v {
		out[i] = x - mean
		scale = math.Max(scale, math.Abs(out[i]))
	}
	if scale == 0 || math.IsInf(scale, 0) {
		return out
	}
	for i := range out {
		out[i] /= scale
	}
	return out
}

func isConstant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// correlationPValue is a two-tailed p-value using the normal approximation
// of the t statistic
func correlationPValue(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	if math.Abs(r) >= 1.0 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	return 2 * (1 - normalCDF(math.Abs(t)))
}

// normalCDF calculates the cumulative distribution function for standard normal
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt(2)))
}

// ClassifyStrength maps a coefficient to its strength band
func ClassifyStrength(r float64) models.Strength {
	abs := math.Abs(r)
	switch {
	case abs >= StrengthThresholdStrong:
		return models.StrengthStrong
	case abs >= StrengthThresholdModerate:
		return models.StrengthModerate
	case abs >= StrengthThresholdWeak:
		return models.StrengthWeak
	default:
		return models.StrengthNone
	}
}

func directionOf(r float64) models.Direction {
	switch {
	case r > 0:
		return models.DirectionPositive
	case r < 0:
		return models.DirectionNegative
	default:
		return models.DirectionNeutral
	}
}

// completePairs keeps only the indices where both series have a value
func completePairs(a, b []*float64) (xs, ys []float64) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] == nil || b[i] == nil {
			continue
		}
		xs = append(xs, *a[i])
		ys = append(ys, *b[i])
	}
	return xs, ys
}

// BuildCorrelationResult correlates two date-aligned series using only the
// days where both have a value. It returns nil when fewer than
// MinCorrelationPairs such days exist.
func BuildCorrelationResult(f1, f2 models.Metric, a, b []*float64) *models.CorrelationResult {
	xs, ys := completePairs(a, b)
	if len(xs) < MinCorrelationPairs {
		return nil
	}

	r := Correlate(xs, ys)
	strength := ClassifyStrength(r)
	direction := directionOf(r)

	return &models.CorrelationResult{
		Factor1:        f1,
		Factor2:        f2,
		Coefficient:    r,
		Strength:       strength,
		Direction:      direction,
		Interpretation: interpret(f1, f2, strength, direction),
		SampleSize:     len(xs),
		PValue:         correlationPValue(r, len(xs)),
	}
}

// ComputeCorrelations correlates every pair of CorrelatedMetrics over the
// days and returns the results ordered by |coefficient|, strongest first.
// Pairs with too few complete-case days are omitted.
func ComputeCorrelations(days []models.DailyMetric) []models.CorrelationResult {
	series := make(map[models.Metric][]*float64, len(CorrelatedMetrics))
	for _, m := range CorrelatedMetrics {
		series[m] = Series(days, m)
	}

	results := make([]models.CorrelationResult, 0)
	for i := 0; i < len(CorrelatedMetrics); i++ {
		for j := i + 1; j < len(CorrelatedMetrics); j++ {
			f1, f2 := CorrelatedMetrics[i], CorrelatedMetrics[j]
			if res := BuildCorrelationResult(f1, f2, series[f1], series[f2]); res != nil {
				results = append(results, *res)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Coefficient) > math.Abs(results[j].Coefficient)
	})

	return results
}

// =============================================================================
// Interpretations
// =============================================================================

type metricPair struct {
	x, y models.Metric
}

type pairTemplate struct {
	positive string
	negative string
}

// Placeholders: {X} capitalised first label, {x}/{y} labels, {strength} band
var pairTemplates = map[metricPair]pairTemplate{
	{models.MetricMood, models.MetricEnergy}: {
		positive: "Mood and energy have a {strength} positive relationship: on higher-energy days your mood tends to be better.",
		negative: "Mood and energy have a {strength} inverse relationship: on higher-energy days your mood tends to be lower.",
	},
	{models.MetricFocus, models.MetricSleepQuality}: {
		positive: "Focus and sleep quality have a {strength} positive relationship: after better sleep your focus tends to improve.",
		negative: "Focus and sleep quality have a {strength} inverse relationship: better nights tend to come with weaker focus.",
	},
	{models.MetricEnergy, models.MetricSleepQuality}: {
		positive: "Energy and sleep quality have a {strength} positive relationship: better sleep tends to come with more energy.",
		negative: "Energy and sleep quality have a {strength} inverse relationship: better sleep tends to come with less energy.",
	},
	{models.MetricMood, models.MetricCravingIntensity}: {
		positive: "Mood and craving intensity have a {strength} positive relationship: cravings tend to be stronger on better-mood days.",
		negative: "Mood and craving intensity have a {strength} inverse relationship: cravings tend to be stronger when your mood is low.",
	},
	{models.MetricEnergy, models.MetricCravingIntensity}: {
		positive: "Energy and craving intensity have a {strength} positive relationship: cravings tend to hit harder on high-energy days.",
		negative: "Energy and craving intensity have a {strength} inverse relationship: cravings tend to hit harder when your energy is low.",
	},
	{models.MetricSleepHours, models.MetricCravingIntensity}: {
		positive: "Sleep duration and craving intensity have a {strength} positive relationship: cravings tend to be stronger after longer nights.",
		negative: "Sleep duration and craving intensity have a {strength} inverse relationship: cravings tend to be stronger after short nights.",
	},
	{models.MetricMood, models.MetricCravingResistRate}: {
		positive: "Mood and craving resistance have a {strength} positive relationship: you resist more cravings on better-mood days.",
		negative: "Mood and craving resistance have a {strength} inverse relationship: you resist fewer cravings on better-mood days.",
	},
}

var genericTemplate = pairTemplate{
	positive: "{X} and {y} have a {strength} positive relationship: as {x} increases, {y} tends to increase too.",
	negative: "{X} and {y} have a {strength} inverse relationship: as {x} increases, {y} tends to decrease.",
}

const independentTemplate = "{X} and {y} vary largely independently ({strength} correlation)."

func interpret(f1, f2 models.Metric, strength models.Strength, direction models.Direction) string {
	x, y := f1, f2
	tmpl, ok := pairTemplates[metricPair{f1, f2}]
	if !ok {
		if tmpl, ok = pairTemplates[metricPair{f2, f1}]; ok {
			x, y = f2, f1
		} else {
			tmpl = genericTemplate
		}
	}

	var text string
	switch {
	case strength == models.StrengthWeak || strength == models.StrengthNone:
		text = independentTemplate
	case direction == models.DirectionNegative:
		text = tmpl.negative
	default:
		text = tmpl.positive
	}

	band := string(strength)
	if strength == models.StrengthNone {
		band = "no meaningful"
	}

	return strings.NewReplacer(
		"{X}", capitalize(x.Label()),
		"{x}", x.Label(),
		"{y}", y.Label(),
		"{strength}", band,
	).Replace(text)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
