package anticheat

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventsOf(types ...string) []Event {
	events := make([]Event, len(types))
	now := time.Now()
	for i, t := range types {
		events[i] = Event{Type: t, CreatedAt: now.Add(time.Duration(i) * time.Second)}
	}
	return events
}

func repeatEvents(eventType string, n int) []Event {
	types := make([]string, n)
	for i := range types {
		types[i] = eventType
	}
	return eventsOf(types...)
}

func TestScore_EmptyInput(t *testing.T) {
	result := Score(nil)

	assert.Equal(t, 0, result.SuspicionScore)
	assert.Equal(t, RiskLow, result.RiskLevel)
	assert.Empty(t, result.Breakdown)
	assert.Empty(t, result.CountsByType)

	result = Score([]Event{})
	assert.Equal(t, 0, result.SuspicionScore)
	assert.Equal(t, RiskLow, result.RiskLevel)
}

func TestScore_SingleRuleContribution(t *testing.T) {
	tests := []struct {
		name       string
		eventType  string
		count      int
		wantPoints int
		wantRisk   RiskLevel
	}{
		{"one fullscreen exit", TypeFullscreenExit, 1, 20, RiskMedium},
		{"fullscreen exits hit own cap", TypeFullscreenExit, 5, 40, RiskMedium},
		{"one tab switch", TypeTabSwitch, 1, 12, RiskLow},
		{"tab switches hit own cap", TypeTabSwitch, 10, 60, RiskHigh},
		{"one window blur", TypeWindowBlur, 1, 5, RiskLow},
		{"window blurs hit own cap", TypeWindowBlur, 100, 20, RiskMedium},
		{"one clipboard attempt", TypeClipboard, 1, 8, RiskLow},
		{"clipboard attempts hit own cap", TypeClipboard, 3, 24, RiskMedium},
		{"one blocked shortcut", TypeShortcut, 1, 6, RiskLow},
		{"blocked shortcuts hit own cap", TypeShortcut, 3, 18, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(repeatEvents(tt.eventType, tt.count))

			assert.Equal(t, tt.wantPoints, result.SuspicionScore)
			assert.Equal(t, tt.wantRisk, result.RiskLevel)
			assert.Equal(t, tt.count, result.CountsByType[tt.eventType])

			require.Len(t, result.Breakdown, 1)
			item := result.Breakdown[0]
			assert.Equal(t, tt.count, item.Count)
			assert.Equal(t, tt.wantPoints, item.Points)
			assert.LessOrEqual(t, item.Points, item.MaxPoints)
		})
	}
}

func TestScore_RiskThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		events    []Event
		wantScore int
		wantRisk  RiskLevel
	}{
		{
			// 5 + 6 + 8 = 19, one point below medium
			name:      "score 19 is low",
			events:    eventsOf(TypeWindowBlur, TypeShortcut, TypeClipboard),
			wantScore: 19,
			wantRisk:  RiskLow,
		},
		{
			// a single fullscreen exit lands exactly on the medium threshold
			name:      "score 20 is medium",
			events:    eventsOf(TypeFullscreenExit),
			wantScore: 20,
			wantRisk:  RiskMedium,
		},
		{
			// 3*12 + 8 + 5 = 49, one point below high
			name: "score 49 is medium",
			events: eventsOf(TypeTabSwitch, TypeTabSwitch, TypeTabSwitch,
				TypeClipboard, TypeWindowBlur),
			wantScore: 49,
			wantRisk:  RiskMedium,
		},
		{
			// 2*20 + 2*5 = 50, exactly on the high threshold
			name: "score 50 is high",
			events: eventsOf(TypeFullscreenExit, TypeFullscreenExit,
				TypeWindowBlur, TypeWindowBlur),
			wantScore: 50,
			wantRisk:  RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.events)
			assert.Equal(t, tt.wantScore, result.SuspicionScore)
			assert.Equal(t, tt.wantRisk, result.RiskLevel)
		})
	}
}

func TestScore_GlobalClampSaturation(t *testing.T) {
	// Raw: 10 tab switches = 120 (capped 60), 10 fullscreen exits = 200
	// (capped 40), 10 clipboard = 80 (capped 24). Capped sum is 124 and the
	// final score must clamp to exactly 100.
	var events []Event
	events = append(events, repeatEvents(TypeTabSwitch, 10)...)
	events = append(events, repeatEvents(TypeFullscreenExit, 10)...)
	events = append(events, repeatEvents(TypeClipboard, 10)...)

	result := Score(events)

	assert.Equal(t, 100, result.SuspicionScore)
	assert.Equal(t, RiskHigh, result.RiskLevel)

	for _, item := range result.Breakdown {
		assert.LessOrEqual(t, item.Points, item.MaxPoints,
			"rule %s exceeded its cap", item.RuleID)
	}
}

func TestScore_Boundedness(t *testing.T) {
	types := []string{
		TypeFullscreenExit, TypeTabSwitch, TypeWindowBlur, TypeClipboard,
		TypeShortcut, "FOO_BAR", "", "  ", "TAB_SWITCH_DETECTED",
	}
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(500)
		events := make([]Event, n)
		for i := range events {
			events[i] = Event{Type: types[rng.Intn(len(types))]}
		}

		result := Score(events)
		assert.GreaterOrEqual(t, result.SuspicionScore, 0)
		assert.LessOrEqual(t, result.SuspicionScore, 100)
	}
}

func TestScore_MonotonicInScoredEvents(t *testing.T) {
	var events []Event
	prev := 0
	for i := 0; i < 30; i++ {
		events = append(events, Event{Type: TypeTabSwitch})
		score := Score(events).SuspicionScore
		assert.GreaterOrEqual(t, score, prev, "score decreased after adding event %d", i+1)
		prev = score
	}
}

func TestScore_OrderIndependence(t *testing.T) {
	events := eventsOf(
		TypeTabSwitch, TypeFullscreenExit, TypeClipboard, TypeWindowBlur,
		TypeShortcut, "FOO_BAR", TypeTabSwitch, "TAB_SWITCH_DETECTED",
	)
	want := Score(events)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]Event, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Score(shuffled)
		assert.Equal(t, want.SuspicionScore, got.SuspicionScore)
		assert.Equal(t, want.RiskLevel, got.RiskLevel)
		assert.Equal(t, want.CountsByType, got.CountsByType)
		assert.ElementsMatch(t, want.Breakdown, got.Breakdown)
	}
}

func TestScore_UnknownTypesAreCountedButUnscored(t *testing.T) {
	result := Score(eventsOf("FOO_BAR", "FOO_BAR", "DEVTOOLS_OPEN"))

	assert.Equal(t, 0, result.SuspicionScore)
	assert.Equal(t, RiskLow, result.RiskLevel)
	assert.Empty(t, result.Breakdown)
	assert.Equal(t, 2, result.CountsByType["FOO_BAR"])
	assert.Equal(t, 1, result.CountsByType["DEVTOOLS_OPEN"])
}

func TestScore_EmptyAndWhitespaceTypesAreSkipped(t *testing.T) {
	result := Score(eventsOf("", "   ", "\t", TypeWindowBlur))

	assert.Equal(t, 5, result.SuspicionScore)
	assert.Equal(t, map[string]int{TypeWindowBlur: 1}, result.CountsByType)
}

func TestScore_LegacyAliasEquivalence(t *testing.T) {
	legacy := Score(eventsOf("TAB_SWITCH_DETECTED"))
	canonical := Score(eventsOf(TypeTabSwitch))

	assert.Equal(t, canonical, legacy)
	assert.Equal(t, 1, legacy.CountsByType[TypeTabSwitch])
	assert.NotContains(t, legacy.CountsByType, "TAB_SWITCH_DETECTED")

	legacy = Score(eventsOf("COPY_PASTE_ATTEMPT"))
	canonical = Score(eventsOf(TypeClipboard))
	assert.Equal(t, canonical, legacy)
}

func TestScore_BreakdownExcludesUntriggeredRules(t *testing.T) {
	result := Score(eventsOf(TypeClipboard))

	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, "clipboard", result.Breakdown[0].RuleID)
}

func TestScore_HugeInputDoesNotOverflow(t *testing.T) {
	events := repeatEvents(TypeTabSwitch, 50000)
	result := Score(events)

	assert.Equal(t, 60, result.SuspicionScore)
	require.Len(t, result.Breakdown, 1)
	// count is defensively capped even though the raw list was larger
	assert.Equal(t, 9999, result.Breakdown[0].Count)
}

func TestScore_Deterministic(t *testing.T) {
	events := eventsOf(TypeTabSwitch, TypeFullscreenExit, "FOO_BAR")

	first := Score(events)
	second := Score(events)
	assert.Equal(t, first, second)
}

func TestScorer_ExtraAliases(t *testing.T) {
	scorer := NewScorer(map[string]string{
		"VISIBILITY_HIDDEN": TypeTabSwitch,
		"  ":                TypeClipboard, // blank keys are discarded
		"BROKEN":            "",            // blank targets are discarded
	})

	result := scorer.Score(eventsOf("VISIBILITY_HIDDEN", TypeTabSwitch))
	assert.Equal(t, 24, result.SuspicionScore)
	assert.Equal(t, 2, result.CountsByType[TypeTabSwitch])

	// built-in aliases survive extension
	assert.Equal(t, TypeClipboard, scorer.Normalize("COPY_PASTE_ATTEMPT"))
}

func TestRules_ReturnsCopy(t *testing.T) {
	ruleSet := Rules()
	require.Len(t, ruleSet, 5)

	ruleSet[0].MaxPoints = 0
	assert.Equal(t, 40, Rules()[0].MaxPoints)
}
