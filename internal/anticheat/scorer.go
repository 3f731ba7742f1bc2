package anticheat

import (
	"encoding/json"
	"strings"
	"time"
)

// Event is one proctoring signal observed during a quiz attempt. The scorer
// treats the whole record as untrusted client telemetry: any Type value is
// accepted and Metadata is never inspected.
type Event struct {
	Type      string          `json:"event_type"`
	CreatedAt time.Time       `json:"created_at"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// RuleBreakdown reports one rule's evaluation against an event list
type RuleBreakdown struct {
	RuleID    string `json:"rule_id"`
	Title     string `json:"title"`
	Count     int    `json:"count"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"max_points"`
	Details   string `json:"details"`
}

// Result is the scorer's output. Breakdown contains only rules the student
// actually triggered; CountsByType is unfiltered and may contain canonical
// types with no matching rule.
type Result struct {
	SuspicionScore int             `json:"suspicion_score"`
	RiskLevel      RiskLevel       `json:"risk_level"`
	Breakdown      []RuleBreakdown `json:"breakdown"`
	CountsByType   map[string]int  `json:"counts_by_type"`
}

// Per-type counts are clamped to this ceiling before any point arithmetic
const maxCountPerType = 9999

// Scorer evaluates proctoring events against the fixed rule set. The alias
// table is the only configurable part; the zero alias set is the built-in
// legacy mapping. A Scorer is immutable after construction and safe for
// concurrent use.
type Scorer struct {
	aliases map[string]string
}

var defaultScorer = NewScorer(nil)

// NewScorer builds a scorer whose alias table is the built-in legacy mapping
// extended with extraAliases. Extra entries may override built-in ones.
func NewScorer(extraAliases map[string]string) *Scorer {
	aliases := make(map[string]string, len(defaultAliases)+len(extraAliases))
	for raw, canonical := range defaultAliases {
		aliases[raw] = canonical
	}
	for raw, canonical := range extraAliases {
		raw = strings.TrimSpace(raw)
		canonical = strings.TrimSpace(canonical)
		if raw == "" || canonical == "" {
			continue
		}
		aliases[raw] = canonical
	}
	return &Scorer{aliases: aliases}
}

// Score aggregates events using the built-in alias table only
func Score(events []Event) Result {
	return defaultScorer.Score(events)
}

// Score computes the suspicion score, risk level and per-rule breakdown for
// one attempt's events. It is a pure function of the event multiset: order
// and timestamps do not matter, no input can make it error or panic, and an
// empty list yields score 0 / low risk.
func (s *Scorer) Score(events []Event) Result {
	countsByType := make(map[string]int, len(rules))
	for _, event := range events {
		eventType := s.Normalize(event.Type)
		if eventType == "" {
			continue
		}
		countsByType[eventType]++
	}

	breakdown := make([]RuleBreakdown, 0, len(rules))
	total := 0
	for _, rule := range rules {
		count := clampInt(countsByType[rule.EventType], 0, maxCountPerType)
		points := clampInt(min(count*rule.PointsPerHit, rule.MaxPoints), 0, 100)
		total += points

		breakdown = append(breakdown, RuleBreakdown{
			RuleID:    rule.ID,
			Title:     rule.Title,
			Count:     count,
			Points:    points,
			MaxPoints: rule.MaxPoints,
			Details:   rule.Details,
		})
	}

	score := clampInt(total, 0, 100)

	return Result{
		SuspicionScore: score,
		RiskLevel:      classifyRisk(score),
		Breakdown:      filterTriggered(breakdown),
		CountsByType:   countsByType,
	}
}

// filterTriggered drops rules the student never triggered from the visible
// breakdown. All rules are still evaluated internally.
func filterTriggered(breakdown []RuleBreakdown) []RuleBreakdown {
	triggered := make([]RuleBreakdown, 0, len(breakdown))
	for _, item := range breakdown {
		if item.Count > 0 || item.Points > 0 {
			triggered = append(triggered, item)
		}
	}
	return triggered
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
