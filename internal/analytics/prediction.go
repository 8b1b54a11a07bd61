package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

const (
	// Number of hour predictions returned
	MaxCravingPredictions = 3

	// Minimum craving events required for a pattern
	MinEventsForPattern = 7
)

var recommendedActions = map[models.Trigger]string{
	models.TriggerStress:    "Try a 2-minute meditation",
	models.TriggerBoredom:   "Engage in a quick activity",
	models.TriggerSocial:    "Have a sugar-free mint ready",
	models.TriggerAfterMeal: "Take a short walk",
	models.TriggerOther:     "Practice deep breathing",
}

// RecommendedAction returns the coping suggestion for a trigger
func RecommendedAction(t models.Trigger) string {
	if a, ok := recommendedActions[t]; ok {
		return a
	}
	return recommendedActions[models.TriggerOther]
}

type cravingEvent struct {
	at        time.Time
	intensity float64
	trigger   models.Trigger
}

// resolveCravings converts logs to local-time events sorted by timestamp.
// Events with invalid timestamps are dropped.
func resolveCravings(logs []models.CravingLog, loc *time.Location) (events []cravingEvent, unrecognized int) {
	events = make([]cravingEvent, 0, len(logs))
	for _, l := range logs {
		at, ok := l.Timestamp.In(loc)
		if !ok {
			continue
		}
		trigger, known := models.ParseTrigger(l.Trigger)
		if !known {
			unrecognized++
		}
		events = append(events, cravingEvent{at: at, intensity: l.Intensity, trigger: trigger})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].at.Before(events[j].at)
	})
	return events, unrecognized
}

type hourBucket struct {
	hour         int
	count        int
	intensitySum float64
	triggers     map[models.Trigger]int
	triggerOrder []models.Trigger // first-seen order
}

func (b *hourBucket) average() float64 {
	return b.intensitySum / float64(b.count)
}

func (b *hourBucket) score() float64 {
	return float64(b.count) * (1 + b.average()/10)
}

// rankedTriggers orders triggers by frequency, ties by first appearance
func (b *hourBucket) rankedTriggers() []models.Trigger {
	ranked := append([]models.Trigger(nil), b.triggerOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return b.triggers[ranked[i]] > b.triggers[ranked[j]]
	})
	return ranked
}

// PredictCravingRisk groups craving events by local hour of day and returns
// up to three hours with the highest risk score, count × (1 + avg/10).
// Equal scores favour the earlier hour.
func PredictCravingRisk(logs []models.CravingLog, opts Options) []models.CravingPrediction {
	predictions, _ := predictCravingRisk(logs, opts.location())
	return predictions
}

func predictCravingRisk(logs []models.CravingLog, loc *time.Location) ([]models.CravingPrediction, int) {
	events, unrecognized := resolveCravings(logs, loc)

	var hours [24]*hourBucket
	for _, e := range events {
		h := e.at.Hour()
		b := hours[h]
		if b == nil {
			b = &hourBucket{hour: h, triggers: make(map[models.Trigger]int)}
			hours[h] = b
		}
		b.count++
		b.intensitySum += e.intensity
		if b.triggers[e.trigger] == 0 {
			b.triggerOrder = append(b.triggerOrder, e.trigger)
		}
		b.triggers[e.trigger]++
	}

	buckets := make([]*hourBucket, 0, len(hours))
	for _, b := range hours {
		if b != nil {
			buckets = append(buckets, b)
		}
	}
	// buckets are already in hour order, so a stable sort keeps earlier hours first on ties
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].score() > buckets[j].score()
	})
	if len(buckets) > MaxCravingPredictions {
		buckets = buckets[:MaxCravingPredictions]
	}

	predictions := make([]models.CravingPrediction, 0, len(buckets))
	for _, b := range buckets {
		avg := b.average()
		ranked := b.rankedTriggers()

		p := models.CravingPrediction{
			Hour:              b.hour,
			TimeOfDay:         formatHour(b.hour),
			RiskLevel:         int(math.Round(math.Max(0, math.Min(100, avg*10)))),
			PrimaryTrigger:    ranked[0],
			RecommendedAction: RecommendedAction(ranked[0]),
			EventCount:        b.count,
			AverageIntensity:  avg,
		}
		if len(ranked) > 1 {
			secondary := ranked[1]
			p.SecondaryTrigger = &secondary
		}
		predictions = append(predictions, p)
	}

	return predictions, unrecognized
}

// formatHour formats an hour (0-23) as a compact 12-hour label, "3PM"
func formatHour(hour int) string {
	if hour == 0 {
		return "12AM"
	} else if hour < 12 {
		return fmt.Sprintf("%dAM", hour)
	} else if hour == 12 {
		return "12PM"
	} else {
		return fmt.Sprintf("%dPM", hour-12)
	}
}

// =============================================================================
// Time Patterns
// =============================================================================

// ComputeCravingPattern describes when cravings happen by hour of day and day
// of week. It returns nil below MinEventsForPattern events.
func ComputeCravingPattern(logs []models.CravingLog, opts Options) *models.CravingPattern {
	events, _ := resolveCravings(logs, opts.location())
	if len(events) < MinEventsForPattern {
		return nil
	}

	return &models.CravingPattern{
		HourOfDay: calculateHourPattern(events),
		DayOfWeek: calculateDayOfWeekPattern(events),
	}
}

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// calculateDayOfWeekPattern analyzes day-of-week distribution
func calculateDayOfWeekPattern(events []cravingEvent) models.TimePattern {
	dayCounts := make([]float64, 7)
	for _, e := range events {
		dayCounts[int(e.at.Weekday())]++
	}

	peak, distribution := distribute(dayCounts, len(events))
	return models.TimePattern{
		PatternType:  "day_of_week",
		Distribution: distribution,
		PeakValue:    peak,
		PeakLabel:    dayNames[peak],
		PeakPercent:  distribution[peak],
		Consistency:  calculateConsistency(dayCounts),
	}
}

// calculateHourPattern analyzes hour-of-day distribution
func calculateHourPattern(events []cravingEvent) models.TimePattern {
	hourCounts := make([]float64, 24)
	for _, e := range events {
		hourCounts[e.at.Hour()]++
	}

	peak, distribution := distribute(hourCounts, len(events))
	return models.TimePattern{
		PatternType:  "hour_of_day",
		Distribution: distribution,
		PeakValue:    peak,
		PeakLabel:    formatHour(peak),
		PeakPercent:  distribution[peak],
		Consistency:  calculateConsistency(hourCounts),
	}
}

// distribute returns the peak index and the percentage of each bucket
func distribute(counts []float64, total int) (peak int, distribution []float64) {
	distribution = make([]float64, len(counts))
	for i, c := range counts {
		if c > counts[peak] {
			peak = i
		}
		if total > 0 {
			distribution[i] = c / float64(total) * 100
		}
	}
	return peak, distribution
}

// calculateConsistency computes normalized entropy (1 = very consistent, 0 = random)
func calculateConsistency(distribution []float64) float64 {
	n := len(distribution)
	if n == 0 {
		return 0
	}

	var total float64
	for _, v := range distribution {
		total += v
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, v := range distribution {
		if v > 0 {
			prob := v / total
			entropy -= prob * math.Log2(prob)
		}
	}

	maxEntropy := math.Log2(float64(n))
	if maxEntropy == 0 {
		return 1
	}

	return 1 - (entropy / maxEntropy)
}
