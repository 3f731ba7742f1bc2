package anticheat

import "strings"

// defaultAliases maps legacy event type spellings emitted by older client
// instrumentation onto the canonical vocabulary. Matching is exact and
// case-sensitive. Unknown spellings pass through unchanged so future rules
// can reference them without an ingestion change.
var defaultAliases = map[string]string{
	"TAB_SWITCH_DETECTED": TypeTabSwitch,
	"COPY_PASTE_ATTEMPT":  TypeClipboard,
}

// Normalize canonicalizes a raw event type using the default alias table.
// Empty or whitespace-only input normalizes to the empty string and is
// skipped by aggregation.
func Normalize(raw string) string {
	return defaultScorer.Normalize(raw)
}

// Normalize canonicalizes a raw event type using the scorer's alias table
func (s *Scorer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := s.aliases[trimmed]; ok {
		return canonical
	}
	return trimmed
}
