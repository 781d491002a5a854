package schema

import (
	"strings"
	"time"
	"unicode"
)

// MonthLayout is the period label used by every monthly series.
const MonthLayout = "2006-01"

// SkillKey lower-cases and collapses whitespace so that "  Machine   Learning" and
// "machine learning" compare equal.
func SkillKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ParseWorkType maps free-form work arrangement text onto a WorkType.
// Anything unrecognized is UnknownWork.
func ParseWorkType(raw string) WorkType {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
	switch {
	case strings.Contains(s, "remote"):
		return RemoteWork
	case strings.Contains(s, "hybrid"):
		return HybridWork
	case strings.Contains(s, "onsite"), strings.Contains(s, "fulltime"), strings.Contains(s, "office"):
		return OnsiteWork
	default:
		return UnknownWork
	}
}

// ParsePayPeriod maps pay period text onto a PayPeriod, defaulting to yearly.
func ParsePayPeriod(raw string) PayPeriod {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "HOURLY", "HOUR":
		return HourlyPay
	case "WEEKLY", "WEEK":
		return WeeklyPay
	case "MONTHLY", "MONTH":
		return MonthlyPay
	default:
		return YearlyPay
	}
}

// AnnualFactor returns the multiplier that turns a value quoted per period into a yearly value.
func (p PayPeriod) AnnualFactor() float64 {
	switch p {
	case HourlyPay:
		return 2080
	case WeeklyPay:
		return 52
	case MonthlyPay:
		return 12
	default:
		return 1
	}
}

// SplitLocation splits "City, ST" into its city and state parts.
// A location without a comma is treated as a bare city.
func SplitLocation(location string) (city, state string) {
	parts := strings.Split(location, ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}

// MonthKey formats the calendar month of t in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// MonthStart truncates t to the first instant of its UTC calendar month.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MatchesLocation reports whether a case-insensitive location query hits any location field.
func MatchesLocation(query, location, city, state string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{location, city, state} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
