package anticheat

// RiskLevel classifies a suspicion score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk thresholds, evaluated high to low
const (
	highRiskThreshold   = 50
	mediumRiskThreshold = 20
)

// Canonical event types the rule table scores. Events of any other type are
// counted but never contribute points.
const (
	TypeFullscreenExit = "FULLSCREEN_EXIT"
	TypeTabSwitch      = "TAB_SWITCH"
	TypeWindowBlur     = "WINDOW_BLUR"
	TypeClipboard      = "CLIPBOARD"
	TypeShortcut       = "SHORTCUT"
)

// Rule maps one canonical event type onto a capped point contribution
type Rule struct {
	ID           string `json:"rule_id"`
	Title        string `json:"title"`
	EventType    string `json:"event_type"`
	PointsPerHit int    `json:"points_per_hit"`
	MaxPoints    int    `json:"max_points"`
	Details      string `json:"details"`
}

// The fixed rule set. Each rule's contribution is capped at its own MaxPoints
// before summation; the sum of caps (162) exceeds the global score ceiling
// of 100.
var rules = []Rule{
	{
		ID:           "fullscreen_exit",
		Title:        "Fullscreen exits",
		EventType:    TypeFullscreenExit,
		PointsPerHit: 20,
		MaxPoints:    40,
		Details:      "Student left fullscreen mode during the attempt",
	},
	{
		ID:           "tab_switch",
		Title:        "Tab switches",
		EventType:    TypeTabSwitch,
		PointsPerHit: 12,
		MaxPoints:    60,
		Details:      "Student switched to another browser tab",
	},
	{
		ID:           "window_blur",
		Title:        "Window focus lost",
		EventType:    TypeWindowBlur,
		PointsPerHit: 5,
		MaxPoints:    20,
		Details:      "Exam window lost operating system focus",
	},
	{
		ID:           "clipboard",
		Title:        "Clipboard attempts",
		EventType:    TypeClipboard,
		PointsPerHit: 8,
		MaxPoints:    24,
		Details:      "Blocked copy, cut, paste or context menu attempts",
	},
	{
		ID:           "shortcut",
		Title:        "Blocked shortcuts",
		EventType:    TypeShortcut,
		PointsPerHit: 6,
		MaxPoints:    18,
		Details:      "Blocked keyboard shortcuts (ctrl/cmd combinations)",
	},
}

// Rules returns a copy of the fixed rule set for display purposes
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// classifyRisk maps a clamped score onto a risk level
func classifyRisk(score int) RiskLevel {
	switch {
	case score >= highRiskThreshold:
		return RiskHigh
	case score >= mediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
