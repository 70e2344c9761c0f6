// Package valueobject contains domain value objects for the Store Ledger system.
package valueobject

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateNotation identifies the date format family a source schema uses.
// The notation is declared per schema, never auto-detected: the same literal
// string (e.g. "03/04/2025") is ambiguous between month-first and day-first.
type DateNotation string

const (
	// NotationMonthFirst parses MM/DD/YYYY or MM-DD-YYYY (POS exports).
	NotationMonthFirst DateNotation = "month-first"
	// NotationDayFirst parses DD/MM/YYYY or DD-MM-YYYY (expense/payroll ledgers).
	NotationDayFirst DateNotation = "day-first"
	// NotationSpanishLong parses the long localized form written by the expense
	// ledger ("martes, 7 de enero de 2025", weekday optional), falling back to
	// day-first numeric when the long form does not match.
	NotationSpanishLong DateNotation = "spanish-long"
)

// spanishLongPattern matches "7 de enero de 2025" with an optional leading
// weekday ("martes, ..."). Only the day, month name and year are captured.
var spanishLongPattern = regexp.MustCompile(`(\d{1,2}) de ([\p{L}]+) de (\d{4})`)

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// ParseDate normalizes a raw date field into a day-granularity UTC time.
// Patterns are tried in a fixed precedence order per notation; the first
// structural match wins and anything else is an error. Two-digit years are
// rejected rather than guessed.
func ParseDate(raw string, notation DateNotation) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	switch notation {
	case NotationMonthFirst:
		return parseNumericDate(trimmed, false)
	case NotationDayFirst:
		return parseNumericDate(trimmed, true)
	case NotationSpanishLong:
		if m := spanishLongPattern.FindStringSubmatch(trimmed); m != nil {
			return parseSpanishLong(m)
		}
		return parseNumericDate(trimmed, true)
	default:
		return time.Time{}, fmt.Errorf("unknown date notation %q", notation)
	}
}

// DayKey formats a date as its canonical ISO yyyy-mm-dd bucketing key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TruncateToDay discards the time-of-day portion, keeping the UTC calendar day.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseNumericDate(raw string, dayFirst bool) (time.Time, error) {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '-'
	})
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q does not have three fields", raw)
	}
	if len(parts[2]) != 4 {
		return time.Time{}, fmt.Errorf("date %q has a non four-digit year", raw)
	}

	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, err)
	}
	second, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, err)
	}

	month, day := first, second
	if dayFirst {
		month, day = second, first
	}

	return makeDay(year, month, day, raw)
}

func parseSpanishLong(match []string) (time.Time, error) {
	day, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", match[0], err)
	}
	month, ok := spanishMonths[strings.ToLower(match[2])]
	if !ok {
		return time.Time{}, fmt.Errorf("date %q: unknown month name %q", match[0], match[2])
	}
	year, err := strconv.Atoi(match[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", match[0], err)
	}

	return makeDay(year, int(month), day, match[0])
}

// makeDay builds the day-granularity date and rejects out-of-range components
// instead of letting time.Date normalize them (13/45/2025 must not become a
// valid date in the following year).
func makeDay(year, month, day int, raw string) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("date %q: month out of range", raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("date %q: day out of range", raw)
	}
	return t, nil
}
