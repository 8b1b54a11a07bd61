package models

import "strings"

// Trigger is the closed set of craving trigger categories
type Trigger string

const (
	TriggerStress    Trigger = "Stress"
	TriggerBoredom   Trigger = "Boredom"
	TriggerSocial    Trigger = "Social"
	TriggerAfterMeal Trigger = "After Meal"
	TriggerOther     Trigger = "Other"
)

// Triggers lists every trigger category in display order
var Triggers = []Trigger{TriggerStress, TriggerBoredom, TriggerSocial, TriggerAfterMeal, TriggerOther}

var triggerAliases = map[string]Trigger{
	"stress":    TriggerStress,
	"stressed":  TriggerStress,
	"boredom":   TriggerBoredom,
	"bored":     TriggerBoredom,
	"social":    TriggerSocial,
	"aftermeal": TriggerAfterMeal,
	"meal":      TriggerAfterMeal,
	"other":     TriggerOther,
}

// ParseTrigger maps a free-form label to a Trigger. Empty labels become
// TriggerOther and count as recognised. Unknown labels also become TriggerOther
// but return ok=false so callers can surface the data-quality problem.
func ParseTrigger(label string) (t Trigger, ok bool) {
	key := strings.ToLower(label)
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	if key == "" {
		return TriggerOther, true
	}
	if t, found := triggerAliases[key]; found {
		return t, true
	}
	return TriggerOther, false
}
