package moderator

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`(?i)^(-?(?:\d+)?\.?\d+) *(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)?$`)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365*day + 6*time.Hour
)

// ParseDuration parses human durations such as "10s", "10m", "1h", "2 days", "1w" or "1y".
// A bare number is read as milliseconds.
func ParseDuration(spec string) (time.Duration, error) {
	s := strings.TrimSpace(spec)
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &Error{Kind: KindInvalidDuration, Param: spec}
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, &Error{Kind: KindInvalidDuration, Param: spec}
	}

	var unit time.Duration
	switch strings.ToLower(m[2]) {
	case "years", "year", "yrs", "yr", "y":
		unit = year
	case "weeks", "week", "w":
		unit = week
	case "days", "day", "d":
		unit = day
	case "hours", "hour", "hrs", "hr", "h":
		unit = time.Hour
	case "minutes", "minute", "mins", "min", "m":
		unit = time.Minute
	case "seconds", "second", "secs", "sec", "s":
		unit = time.Second
	default:
		unit = time.Millisecond
	}

	return time.Duration(n * float64(unit)), nil
}

// parsePositiveDuration is ParseDuration restricted to durations of at least one millisecond
func parsePositiveDuration(spec string) (time.Duration, error) {
	d, err := ParseDuration(spec)
	if err != nil {
		return 0, err
	}
	if d < time.Millisecond {
		return 0, &Error{Kind: KindInvalidDuration, Param: spec}
	}
	return d, nil
}
