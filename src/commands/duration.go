package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseCooldown parses a human cooldown such as "90s", "15m", "2h 30m"
// or "7d". Day and week units are handled here since time.ParseDuration
// stops at hours.
func ParseCooldown(input string) (time.Duration, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty duration")
	}

	var total time.Duration
	for _, token := range fields {
		d, err := parseToken(token)
		if err != nil {
			return 0, err
		}
		total += d
	}
	if total < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return total, nil
}

func parseToken(token string) (time.Duration, error) {
	i := 0
	for i < len(token) && (unicode.IsDigit(rune(token[i])) || token[i] == '.') {
		i++
	}
	number, unit := token[:i], token[i:]
	if number == "" {
		return 0, fmt.Errorf("invalid duration %q", token)
	}

	switch unit {
	case "d", "day", "days":
		f, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", token)
		}
		return time.Duration(f * 24 * float64(time.Hour)), nil
	case "w", "week", "weeks":
		f, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", token)
		}
		return time.Duration(f * 7 * 24 * float64(time.Hour)), nil
	case "sec", "secs", "second", "seconds":
		unit = "s"
	case "min", "mins", "minute", "minutes":
		unit = "m"
	case "hr", "hrs", "hour", "hours":
		unit = "h"
	case "":
		return 0, fmt.Errorf("missing unit in duration %q", token)
	}

	d, err := time.ParseDuration(number + unit)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", token)
	}
	return d, nil
}
