package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{
			name: "empty input",
			raw:  "",
			want: map[string]string{},
		},
		{
			name: "single pair",
			raw:  "SCREEN_LEAVE=WINDOW_BLUR",
			want: map[string]string{"SCREEN_LEAVE": "WINDOW_BLUR"},
		},
		{
			name: "multiple pairs with whitespace",
			raw:  "SCREEN_LEAVE = WINDOW_BLUR , PASTE=CLIPBOARD",
			want: map[string]string{"SCREEN_LEAVE": "WINDOW_BLUR", "PASTE": "CLIPBOARD"},
		},
		{
			name: "malformed entries are dropped",
			raw:  "NOEQUALS,=WINDOW_BLUR,PASTE=,OK=CLIPBOARD",
			want: map[string]string{"OK": "CLIPBOARD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAliases(tt.raw))
		})
	}
}
