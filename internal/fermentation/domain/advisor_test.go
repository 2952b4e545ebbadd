package fermentation

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var asOf = time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)

func titles(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Title)
	}
	return out
}

func hasTitle(recs []Recommendation, title string) bool {
	for _, rec := range recs {
		if rec.Title == title {
			return true
		}
	}
	return false
}

func freshLogs(brix ...float64) []LogEntry {
	logs := make([]LogEntry, 0, len(brix))
	for i, b := range brix {
		logs = append(logs, LogEntry{
			LogDate: asOf.Add(-time.Duration(i) * 12 * time.Hour),
			Brix:    Float(b),
		})
	}
	return logs
}

func TestGenerateRecommendations_EmptyState(t *testing.T) {
	recs := GenerateRecommendations(State{}, nil, nil)
	if recs == nil {
		t.Fatalf("expected non-nil slice")
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_StuckScenario(t *testing.T) {
	state := State{DaysFermenting: 20, CurrentBrix: Float(10), InitialBrix: Float(24), AsOf: asOf}
	recs := GenerateRecommendations(state, nil, nil)
	if !hasTitle(recs, "Stuck Fermentation") {
		t.Fatalf("expected stuck fermentation, got %v", titles(recs))
	}
	if hasTitle(recs, "Critical: Fermentation Not Starting") {
		t.Fatalf("drop of 14 must not trigger not-starting, got %v", titles(recs))
	}
	if !hasTitle(recs, "No Logs Recorded") {
		t.Fatalf("expected no logs reminder, got %v", titles(recs))
	}

	state.InitialBrix = Float(12)
	recs = GenerateRecommendations(state, nil, nil)
	want := []string{"Stuck Fermentation", "Critical: Fermentation Not Starting", "No Logs Recorded"}
	if diff := cmp.Diff(want, titles(recs)); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateRecommendations_NotStartingNeedsInitialBrix(t *testing.T) {
	state := State{DaysFermenting: 9, CurrentBrix: Float(22), AsOf: asOf}
	recs := GenerateRecommendations(state, freshLogs(22, 22.1), nil)
	if hasTitle(recs, "Critical: Fermentation Not Starting") {
		t.Fatalf("rule requires initial brix, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_Slowing(t *testing.T) {
	state := State{DaysFermenting: 6, CurrentBrix: Float(12), InitialBrix: Float(24), AsOf: asOf}
	recs := GenerateRecommendations(state, freshLogs(12, 12.3), nil)
	if !hasTitle(recs, "Fermentation Slowing") {
		t.Fatalf("expected slowing, got %v", titles(recs))
	}

	recs = GenerateRecommendations(state, freshLogs(12, 13), nil)
	if hasTitle(recs, "Fermentation Slowing") {
		t.Fatalf("drop of 1.0 must not be slowing, got %v", titles(recs))
	}

	state.DaysFermenting = 15
	recs = GenerateRecommendations(state, freshLogs(12, 12.3), nil)
	if hasTitle(recs, "Fermentation Slowing") {
		t.Fatalf("slowing must defer to stuck after day 14, got %v", titles(recs))
	}
	if !hasTitle(recs, "Stuck Fermentation") {
		t.Fatalf("expected stuck fermentation, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_SlowingSkipsNullLogBrix(t *testing.T) {
	state := State{DaysFermenting: 6, CurrentBrix: Float(12), AsOf: asOf}
	logs := freshLogs(12, 12.2)
	logs[1].Brix = nil
	recs := GenerateRecommendations(state, logs, nil)
	if hasTitle(recs, "Fermentation Slowing") {
		t.Fatalf("null previous brix must skip rule, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_TemperatureWithProfile(t *testing.T) {
	cases := []struct {
		name     string
		temp     float64
		title    string
		priority Priority
	}{
		{name: "too high", temp: 95, title: "Temperature Too High", priority: PriorityHigh},
		{name: "too low", temp: 45, title: "Temperature Too Low", priority: PriorityMedium},
		{name: "in range", temp: 55, title: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := State{CurrentTempF: Float(tc.temp), Profile: ProfileAromaticWhite, AsOf: asOf}
			recs := GenerateRecommendations(state, nil, nil)
			if tc.title == "" {
				if len(recs) != 0 {
					t.Fatalf("expected nothing, got %v", titles(recs))
				}
				return
			}
			if len(recs) != 1 || recs[0].Title != tc.title {
				t.Fatalf("expected %q, got %v", tc.title, titles(recs))
			}
			if recs[0].Priority != tc.priority {
				t.Fatalf("expected priority %s, got %s", tc.priority, recs[0].Priority)
			}
			if recs[0].SuggestedAction != ActionDeviation {
				t.Fatalf("expected deviation action, got %q", recs[0].SuggestedAction)
			}
		})
	}
}

func TestGenerateRecommendations_TemperatureWithoutProfile(t *testing.T) {
	recs := GenerateRecommendations(State{CurrentTempF: Float(91), AsOf: asOf}, nil, nil)
	if len(recs) != 1 || recs[0].Title != "High Temperature Alert" {
		t.Fatalf("expected generic high temp alert, got %v", titles(recs))
	}
	recs = GenerateRecommendations(State{CurrentTempF: Float(90), AsOf: asOf}, nil, nil)
	if len(recs) != 0 {
		t.Fatalf("90°F must not alert, got %v", titles(recs))
	}
	recs = GenerateRecommendations(State{CurrentTempF: Float(30), AsOf: asOf}, nil, nil)
	if len(recs) != 0 {
		t.Fatalf("no generic low-temperature rule expected, got %v", titles(recs))
	}
	recs = GenerateRecommendations(State{CurrentTempF: Float(95), Profile: "unknown", AsOf: asOf}, nil, nil)
	if len(recs) != 1 || recs[0].Title != "High Temperature Alert" {
		t.Fatalf("unknown profile falls back to generic threshold, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_NutrientTiming(t *testing.T) {
	nutrient := Event{Type: EventNutrient, Date: asOf.Add(-72 * time.Hour)}
	cases := []struct {
		name    string
		initial float64
		current float64
		events  []Event
		title   string
	}{
		{name: "first window", current: 16, title: "Nutrient Addition Recommended"},
		{name: "first window lower edge", current: 18, title: "Nutrient Addition Recommended"},
		{name: "above first window", current: 14, title: ""},
		{name: "first already added", current: 16, events: []Event{nutrient}, title: ""},
		{name: "second window", current: 9, events: []Event{nutrient}, title: "Second Nutrient Addition"},
		{name: "second without first", current: 9, title: ""},
		{name: "second after two additions", current: 9, events: []Event{nutrient, nutrient}, title: ""},
		{name: "between windows", current: 12, title: ""},
		{name: "first window upper edge excluded", initial: 20, current: 12, title: ""},
		{name: "second window lower edge", initial: 20, current: 9, events: []Event{nutrient}, title: "Second Nutrient Addition"},
		{name: "second window upper edge excluded", initial: 20, current: 6, events: []Event{nutrient}, title: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			initial := tc.initial
			if initial == 0 {
				initial = 24
			}
			state := State{CurrentBrix: Float(tc.current), InitialBrix: Float(initial), AsOf: asOf}
			recs := GenerateRecommendations(state, freshLogs(tc.current), tc.events)
			got := ""
			for _, rec := range recs {
				if rec.SuggestedAction == ActionNutrient {
					got = rec.Title
				}
			}
			if got != tc.title {
				t.Fatalf("expected %q, got %v", tc.title, titles(recs))
			}
		})
	}
}

func TestGenerateRecommendations_SecondNutrientMentionsLastAddition(t *testing.T) {
	state := State{CurrentBrix: Float(9), InitialBrix: Float(24), AsOf: asOf}
	events := []Event{
		{Type: EventDeviation, Date: asOf.Add(-24 * time.Hour)},
		{Type: EventNutrient, Date: asOf.Add(-72 * time.Hour)},
	}
	recs := GenerateRecommendations(state, freshLogs(9), events)
	for _, rec := range recs {
		if rec.Title != "Second Nutrient Addition" {
			continue
		}
		if want := "Last addition was 3 days ago."; !strings.Contains(rec.Message, want) {
			t.Fatalf("expected %q in message, got %q", want, rec.Message)
		}
		return
	}
	t.Fatalf("expected second nutrient addition, got %v", titles(recs))
}

func TestGenerateRecommendations_LogStaleness(t *testing.T) {
	state := State{DaysFermenting: 5, AsOf: asOf}
	stale := []LogEntry{{LogDate: asOf.Add(-48 * time.Hour)}}
	recs := GenerateRecommendations(state, stale, nil)
	if !hasTitle(recs, "Log Reminder") {
		t.Fatalf("expected log reminder at 48h, got %v", titles(recs))
	}

	recent := []LogEntry{{LogDate: asOf.Add(-47 * time.Hour)}}
	recs = GenerateRecommendations(state, recent, nil)
	if len(recs) != 0 {
		t.Fatalf("expected nothing for a 47h old log, got %v", titles(recs))
	}

	recs = GenerateRecommendations(State{DaysFermenting: 0, AsOf: asOf}, nil, nil)
	if len(recs) != 0 {
		t.Fatalf("day zero without logs must not remind, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_PressReadinessBoundaries(t *testing.T) {
	cases := []struct {
		brix  float64
		fires bool
	}{
		{brix: 2, fires: true},
		{brix: 2.01, fires: false},
		{brix: -2, fires: false},
		{brix: -1.99, fires: true},
		{brix: 0, fires: true},
	}
	for _, tc := range cases {
		recs := GenerateRecommendations(State{CurrentBrix: Float(tc.brix), AsOf: asOf}, nil, nil)
		if got := hasTitle(recs, "Approaching Press Readiness"); got != tc.fires {
			t.Fatalf("brix %.2f: expected fires=%v, got %v", tc.brix, tc.fires, titles(recs))
		}
	}
}

func TestGenerateRecommendations_PressReadinessMessage(t *testing.T) {
	dry := GenerateRecommendations(State{CurrentBrix: Float(-0.5)}, nil, nil)
	if len(dry) != 1 || !strings.Contains(dry[0].Message, "complete (dry)") {
		t.Fatalf("expected dry message, got %+v", dry)
	}
	nearly := GenerateRecommendations(State{CurrentBrix: Float(1.5)}, nil, nil)
	if len(nearly) != 1 || !strings.Contains(nearly[0].Message, "nearly complete") {
		t.Fatalf("expected nearly complete message, got %+v", nearly)
	}
	if nearly[0].Kind != KindSuccess || nearly[0].SuggestedAction != ActionNone {
		t.Fatalf("unexpected kind/action: %+v", nearly[0])
	}
}

func TestGenerateRecommendations_H2SCaseInsensitive(t *testing.T) {
	notes := []string{"Rotten Egg smell noted", "ROTTEN EGG", "slight h2s", "Sulfur aroma on the cap"}
	for _, note := range notes {
		logs := []LogEntry{{LogDate: asOf, Notes: String(note)}}
		recs := GenerateRecommendations(State{AsOf: asOf}, logs, nil)
		if !hasTitle(recs, "H₂S Detected in Recent Notes") {
			t.Fatalf("note %q: expected H2S warning, got %v", note, titles(recs))
		}
	}

	logs := []LogEntry{{LogDate: asOf, Notes: String("fruity, clean cap")}}
	recs := GenerateRecommendations(State{AsOf: asOf}, logs, nil)
	if len(recs) != 0 {
		t.Fatalf("expected nothing, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_H2SOnlyScansThreeNewest(t *testing.T) {
	logs := []LogEntry{
		{LogDate: asOf, Notes: String("clean")},
		{LogDate: asOf.Add(-time.Hour)},
		{LogDate: asOf.Add(-2 * time.Hour), Notes: String("clean")},
		{LogDate: asOf.Add(-3 * time.Hour), Notes: String("rotten egg")},
	}
	recs := GenerateRecommendations(State{AsOf: asOf}, logs, nil)
	if hasTitle(recs, "H₂S Detected in Recent Notes") {
		t.Fatalf("fourth log must be ignored, got %v", titles(recs))
	}
}

func TestGenerateRecommendations_PriorityOrder(t *testing.T) {
	state := State{
		DaysFermenting: 20,
		CurrentBrix:    Float(10),
		InitialBrix:    Float(12),
		CurrentTempF:   Float(50),
		Profile:        ProfileBoldRed,
		AsOf:           asOf,
	}
	logs := []LogEntry{{LogDate: asOf.Add(-96 * time.Hour), Brix: Float(10), Notes: String("sulfur")}}
	recs := GenerateRecommendations(state, logs, nil)
	want := []string{
		"Stuck Fermentation",
		"Critical: Fermentation Not Starting",
		"H₂S Detected in Recent Notes",
		"Temperature Too Low",
		"Log Reminder",
	}
	if diff := cmp.Diff(want, titles(recs)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateRecommendations_SuggestionCounts(t *testing.T) {
	state := State{DaysFermenting: 20, CurrentBrix: Float(10), InitialBrix: Float(12), CurrentTempF: Float(95), AsOf: asOf}
	logs := []LogEntry{{LogDate: asOf.Add(-96 * time.Hour), Notes: String("h2s")}}
	for _, rec := range GenerateRecommendations(state, logs, nil) {
		if n := len(rec.Suggestions); n < 3 || n > 6 {
			t.Fatalf("%s: expected 3-6 suggestions, got %d", rec.Title, n)
		}
	}
}

func TestGenerateRecommendations_NonFiniteReadingsAreUnmeasured(t *testing.T) {
	cases := []struct {
		name  string
		state State
		logs  []LogEntry
	}{
		{
			name:  "NaN current brix",
			state: State{DaysFermenting: 20, CurrentBrix: Float(math.NaN()), InitialBrix: Float(24), AsOf: asOf},
			logs:  freshLogs(12, 12.2),
		},
		{
			name:  "infinite initial brix",
			state: State{DaysFermenting: 10, CurrentBrix: Float(16), InitialBrix: Float(math.Inf(1)), AsOf: asOf},
			logs:  freshLogs(16, 18),
		},
		{
			name:  "NaN log brix",
			state: State{DaysFermenting: 6, CurrentBrix: Float(12), AsOf: asOf},
			logs:  []LogEntry{{LogDate: asOf, Brix: Float(math.NaN())}, {LogDate: asOf.Add(-24 * time.Hour), Brix: Float(12.1)}},
		},
		{
			name:  "NaN temperature",
			state: State{CurrentTempF: Float(math.NaN()), Profile: ProfileBoldRed, AsOf: asOf},
			logs:  freshLogs(22),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs := GenerateRecommendations(tc.state, tc.logs, nil)
			for _, rec := range recs {
				if strings.Contains(rec.Message, "NaN") || strings.Contains(rec.Message, "Inf") {
					t.Fatalf("non-finite reading leaked into %q: %s", rec.Title, rec.Message)
				}
				if rec.Title == "Log Reminder" {
					continue
				}
				t.Fatalf("expected no reading-based recommendation, got %v", titles(recs))
			}
		})
	}
}
