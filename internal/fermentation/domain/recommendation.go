package fermentation

import "sort"

// Kind is the visual category of a recommendation.
type Kind string

const (
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
)

// Priority orders recommendations; high sorts first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of the priority.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Action names the follow-up a caller may offer for a recommendation.
type Action string

const (
	ActionNone         Action = ""
	ActionLog          Action = "log"
	ActionNutrient     Action = "nutrient"
	ActionDeviation    Action = "deviation"
	ActionIntervention Action = "intervention"
)

// Recommendation is one advisory message.
type Recommendation struct {
	Kind            Kind     `json:"kind" yaml:"kind"`
	Priority        Priority `json:"priority" yaml:"priority"`
	Title           string   `json:"title" yaml:"title"`
	Message         string   `json:"message" yaml:"message"`
	Suggestions     []string `json:"suggestions" yaml:"suggestions"`
	SuggestedAction Action   `json:"suggested_action,omitempty" yaml:"suggested_action,omitempty"`
}

// SortByPriority stable-sorts recommendations by priority rank.
func SortByPriority(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
}

// HasHighPriorityWarning reports whether any recommendation is a high-priority warning.
func HasHighPriorityWarning(recs []Recommendation) bool {
	for _, rec := range recs {
		if rec.Kind == KindWarning && rec.Priority == PriorityHigh {
			return true
		}
	}
	return false
}
