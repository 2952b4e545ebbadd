package fermentation

import (
	"math"
	"sort"
	"time"
)

// EventType classifies a recorded fermentation event.
type EventType string

const (
	EventNutrient     EventType = "nutrient"
	EventDeviation    EventType = "deviation"
	EventIntervention EventType = "intervention"
	EventOxygen       EventType = "oxygen"
)

// Valid returns true when the event type is known.
func (t EventType) Valid() bool {
	switch t {
	case EventNutrient, EventDeviation, EventIntervention, EventOxygen:
		return true
	default:
		return false
	}
}

// State is the snapshot of a fermentation the advisor evaluates.
// Nil readings mean "not yet measured".
type State struct {
	DaysFermenting int        `json:"days_fermenting" yaml:"days_fermenting"`
	CurrentBrix    *float64   `json:"current_brix" yaml:"current_brix"`
	InitialBrix    *float64   `json:"initial_brix" yaml:"initial_brix"`
	CurrentTempF   *float64   `json:"current_temp_f" yaml:"current_temp_f"`
	Profile        ProfileKey `json:"profile,omitempty" yaml:"profile"`
	// AsOf is the evaluation instant supplied by the caller.
	AsOf time.Time `json:"as_of" yaml:"as_of"`
}

// LogEntry is one fermentation log row.
type LogEntry struct {
	LogDate       time.Time `json:"log_date" yaml:"log_date"`
	Brix          *float64  `json:"brix" yaml:"brix"`
	TempF         *float64  `json:"temp_f" yaml:"temp_f"`
	Notes         *string   `json:"notes" yaml:"notes"`
	WorkPerformed *string   `json:"work_performed,omitempty" yaml:"work_performed"`
}

// Event is a recorded intervention or observation.
type Event struct {
	Type     EventType `json:"event_type" yaml:"event_type"`
	Date     time.Time `json:"event_date" yaml:"event_date"`
	Resolved bool      `json:"resolved" yaml:"resolved"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Measured returns v unless it is nil or non-finite, in which case the
// reading counts as not yet measured.
func Measured(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

// SortLogsNewestFirst orders logs by log date, newest first.
func SortLogsNewestFirst(logs []LogEntry) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].LogDate.After(logs[j].LogDate)
	})
}

// SortEventsNewestFirst orders events by event date, newest first.
func SortEventsNewestFirst(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
}

// DaysFermenting returns whole days elapsed since start, falling back to the
// harvest date. Unknown or future dates yield 0.
func DaysFermenting(start, harvest *time.Time, asOf time.Time) int {
	from := start
	if from == nil || from.IsZero() {
		from = harvest
	}
	if from == nil || from.IsZero() || asOf.IsZero() {
		return 0
	}
	elapsed := asOf.Sub(*from)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Floor(elapsed.Hours() / 24))
}
