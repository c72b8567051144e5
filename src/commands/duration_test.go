package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCooldown(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"90s", 90 * time.Second},
		{"15m", 15 * time.Minute},
		{"1h", time.Hour},
		{"2h 30m", 2*time.Hour + 30*time.Minute},
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"1.5h", 90 * time.Minute},
		{"30sec", 30 * time.Second},
		{"5mins", 5 * time.Minute},
		{"1hour", time.Hour},
		{"0s", 0},
		{"1d 12h", 36 * time.Hour},
	}

	for _, tc := range cases {
		got, err := ParseCooldown(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParseCooldownInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "fast", "10", "h", "10x", "-5m", "7 days"} {
		_, err := ParseCooldown(input)
		assert.Error(t, err, "input %q", input)
	}
}
