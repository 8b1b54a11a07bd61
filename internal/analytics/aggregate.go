package analytics

import (
	"math"
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

// Documented payload ranges. Values outside them are counted, never clamped.
const (
	MoodMin, MoodMax             = 1, 5
	LevelMin, LevelMax           = 1, 10
	SleepHoursMin, SleepHoursMax = 0, 24
)

// meanAcc accumulates an arithmetic mean
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) {
	a.sum += v
	a.n++
}

func (a meanAcc) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	m := a.sum / float64(a.n)
	return &m
}

type dayBucket struct {
	mood         meanAcc
	energy       meanAcc
	focus        meanAcc
	sleepQuality meanAcc
	sleepHours   meanAcc
	craving      meanAcc
	resisted     int
}

func (b *dayBucket) metric(date string) models.DailyMetric {
	m := models.DailyMetric{
		Date:             date,
		Mood:             b.mood.mean(),
		Energy:           b.energy.mean(),
		Focus:            b.focus.mean(),
		SleepQuality:     b.sleepQuality.mean(),
		SleepHours:       b.sleepHours.mean(),
		CravingIntensity: b.craving.mean(),
		CravingCount:     b.craving.n,
	}
	if b.craving.n > 0 {
		rate := math.Round(float64(b.resisted) / float64(b.craving.n) * 100)
		m.CravingResistSuccessRate = &rate
	}
	return m
}

// civilDate returns midnight UTC of t's calendar date in loc. Iterating over
// civil dates in UTC avoids DST-length days.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// windowDates lists every date key of the window, ascending
func windowDates(window Window, loc *time.Location) []string {
	start := civilDate(window.Start, loc)
	end := civilDate(window.End, loc)
	if start.After(end) {
		return nil
	}

	dates := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(models.DateLayout))
	}
	return dates
}

// Aggregate folds raw logs into one DailyMetric per date of the window.
// Logs with unparseable timestamps are skipped and counted; logs outside the
// window are ignored. An inverted window yields an empty slice.
func Aggregate(logs models.WellnessLogs, window Window, opts Options) ([]models.DailyMetric, models.Diagnostics) {
	var diag models.Diagnostics
	loc := opts.location()

	dates := windowDates(window, loc)
	if len(dates) == 0 {
		return []models.DailyMetric{}, diag
	}

	buckets := make(map[string]*dayBucket, len(dates))
	for _, d := range dates {
		buckets[d] = &dayBucket{}
	}

	bucketFor := func(ts models.LogTime) *dayBucket {
		t, ok := ts.In(loc)
		if !ok {
			diag.SkippedLogs++
			return nil
		}
		return buckets[t.Format(models.DateLayout)]
	}
	checkRange := func(v, lo, hi float64) {
		if v < lo || v > hi {
			diag.OutOfRangeValues++
		}
	}

	for _, l := range logs.Mood {
		if b := bucketFor(l.Timestamp); b != nil {
			checkRange(l.MoodScore, MoodMin, MoodMax)
			b.mood.add(l.MoodScore)
		}
	}
	for _, l := range logs.Energy {
		if b := bucketFor(l.Timestamp); b != nil {
			checkRange(l.EnergyLevel, LevelMin, LevelMax)
			b.energy.add(l.EnergyLevel)
		}
	}
	for _, l := range logs.Focus {
		if b := bucketFor(l.Timestamp); b != nil {
			checkRange(l.FocusLevel, LevelMin, LevelMax)
			b.focus.add(l.FocusLevel)
		}
	}
	for _, l := range logs.Sleep {
		if b := bucketFor(l.Timestamp); b != nil {
			checkRange(l.SleepQuality, LevelMin, LevelMax)
			checkRange(l.Duration, SleepHoursMin, SleepHoursMax)
			b.sleepQuality.add(l.SleepQuality)
			b.sleepHours.add(l.Duration)
		}
	}
	for _, l := range logs.Craving {
		if b := bucketFor(l.Timestamp); b != nil {
			checkRange(l.Intensity, LevelMin, LevelMax)
			b.craving.add(l.Intensity)
			if l.Succeeded {
				b.resisted++
			}
		}
	}

	days := make([]models.DailyMetric, len(dates))
	for i, d := range dates {
		days[i] = buckets[d].metric(d)
	}
	return days, diag
}

// Series extracts one metric from date-ordered days
func Series(days []models.DailyMetric, m models.Metric) []*float64 {
	out := make([]*float64, len(days))
	for i, d := range days {
		out[i] = d.Value(m)
	}
	return out
}
