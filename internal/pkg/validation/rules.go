package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern - configurable
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Clock time pattern - zero-padded 24h "HH:MM"
	ClockTimePattern = `^([01]\d|2[0-3]):[0-5]\d$`

	// Class capacity bounds
	ClassCapacityMin = 1
	ClassCapacityMax = 100
)

// Days of the week accepted on schedule requests.
var ValidDays = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	ClockTime *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	ClockTime: regexp.MustCompile(ClockTimePattern),
}

// IsValidEmail reports whether the value matches the email pattern.
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// IsValidClockTime reports whether the value is a zero-padded "HH:MM" string.
// Zero-padded clock times compare correctly as plain strings, which the
// conflict arithmetic relies on.
func IsValidClockTime(value string) bool {
	return CompiledPatterns.ClockTime.MatchString(value)
}

// IsValidDay reports whether the value is an accepted day-of-week token.
func IsValidDay(value string) bool {
	return ValidDays[value]
}
