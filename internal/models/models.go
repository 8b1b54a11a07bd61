package models

// MoodLog represents a single mood check-in (mood_score 1-5)
type MoodLog struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Timestamp LogTime `json:"timestamp"`
	MoodScore float64 `json:"mood_score"`
	Notes     *string `json:"notes,omitempty"`
}

// EnergyLog represents a single energy check-in (energy_level 1-10)
type EnergyLog struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Timestamp   LogTime `json:"timestamp"`
	EnergyLevel float64 `json:"energy_level"`
}

// FocusLog represents a single focus session rating (focus_level 1-10)
type FocusLog struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Timestamp  LogTime `json:"timestamp"`
	FocusLevel float64 `json:"focus_level"`
}

// SleepLog represents one night of sleep (quality 1-10, duration in hours)
type SleepLog struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Timestamp    LogTime `json:"timestamp"`
	SleepQuality float64 `json:"sleep_quality"`
	Duration     float64 `json:"duration"`
}

// CravingLog represents a single craving episode
type CravingLog struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Timestamp LogTime `json:"timestamp"`
	Intensity float64 `json:"intensity"`
	Succeeded bool    `json:"succeeded"` // true when the craving was resisted
	Trigger   string  `json:"trigger,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// WellnessLogs is a snapshot of every log kind for one user and window
type WellnessLogs struct {
	Mood    []MoodLog    `json:"mood_logs"`
	Energy  []EnergyLog  `json:"energy_logs"`
	Focus   []FocusLog   `json:"focus_logs"`
	Sleep   []SleepLog   `json:"sleep_logs"`
	Craving []CravingLog `json:"craving_logs"`
}

// Total returns the number of records across all kinds
func (l WellnessLogs) Total() int {
	return len(l.Mood) + len(l.Energy) + len(l.Focus) + len(l.Sleep) + len(l.Craving)
}

// AnalyzeLogsRequest is the body of the stateless analyze endpoint
type AnalyzeLogsRequest struct {
	WellnessLogs
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	TZOffset  string `json:"tz_offset"`
}
