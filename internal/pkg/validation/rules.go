package validation

import (
	"regexp"
	"sort"
	"time"
)

// Validation rule patterns
var (
	// ClockPattern matches a 24h wall-clock time such as "09:30"
	ClockPattern = `^([01]\d|2[0-3]):[0-5]\d$`
)

// ClockLayout is the time.Parse layout for schedule times
const ClockLayout = "15:04"

// Weekdays lists the accepted schedule tokens in calendar order
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

var weekdayIndex = func() map[string]int {
	idx := make(map[string]int, len(Weekdays))
	for i, d := range Weekdays {
		idx[d] = i
	}
	return idx
}()

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Clock *regexp.Regexp
}{
	Clock: regexp.MustCompile(ClockPattern),
}

// IsWeekday reports whether token is one of Mon..Fri
func IsWeekday(token string) bool {
	_, ok := weekdayIndex[token]
	return ok
}

// IsClock reports whether value is a valid "HH:MM" time
func IsClock(value string) bool {
	return CompiledPatterns.Clock.MatchString(value)
}

// ClockBefore reports whether start is strictly earlier than end.
// Both values must already satisfy IsClock.
func ClockBefore(start, end string) bool {
	s, err := time.Parse(ClockLayout, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(ClockLayout, end)
	if err != nil {
		return false
	}
	return s.Before(e)
}

// NormalizeDays removes duplicates and orders the tokens Mon..Fri.
// Unknown tokens are kept at the end in their original order.
func NormalizeDays(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := weekdayIndex[out[i]]
		b, bok := weekdayIndex[out[j]]
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true
		default:
			return false
		}
	})
	return out
}
