package report

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	domainerror "github.com/storeledger/backend/internal/domain/error"
	"github.com/storeledger/backend/internal/domain/valueobject"
)

// DateRange is an inclusive [Start, End] day span.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ComparisonMode names the calendar-arithmetic shift that derives the
// reference range from the current one.
type ComparisonMode string

const (
	// ModeWeekOverWeek shifts both ends back seven days.
	ModeWeekOverWeek ComparisonMode = "week-over-week"
	// ModeMonthOverMonth shifts both ends back one calendar month keeping
	// the day of month (AddDate(0,-1,0)): Feb 1..Feb 28 compares against
	// Jan 1..Jan 28, a month shift rather than a fixed 30-day one.
	// Day-of-month overflow follows Go's AddDate normalization.
	ModeMonthOverMonth ComparisonMode = "month-over-month"
	// ModeYearOverYear shifts both ends back one calendar year.
	ModeYearOverYear ComparisonMode = "year-over-year"
	// ModePreviousPeriod shifts both ends back by the inclusive day count
	// of the current range (the generic "N days back" fallback).
	ModePreviousPeriod ComparisonMode = "previous-period"
)

var lastNDaysPattern = regexp.MustCompile(`^last-(\d+)-days$`)

// ResolvePeriod maps a symbolic period name onto a concrete inclusive date
// range. The reference day is an explicit parameter, never the system
// clock, which keeps resolution deterministic and testable.
func ResolvePeriod(name string, today time.Time) (DateRange, error) {
	today = valueobject.TruncateToDay(today)

	switch name {
	case "today":
		return DateRange{Start: today, End: today}, nil
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}, nil
	case "this-week":
		return DateRange{Start: weekStart(today), End: today}, nil
	case "this-month":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: today}, nil
	case "this-quarter":
		quarter := (int(today.Month()) - 1) / 3
		start := time.Date(today.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: today}, nil
	case "this-year":
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: today}, nil
	}

	if m := lastNDaysPattern.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return DateRange{}, domainerror.NewReportError(
				domainerror.ErrCodeUnknownPeriod,
				fmt.Sprintf("invalid day count in period %q", name),
				domainerror.ErrUnknownPeriod,
			)
		}
		return DateRange{Start: today.AddDate(0, 0, -(n - 1)), End: today}, nil
	}

	return DateRange{}, domainerror.NewReportError(
		domainerror.ErrCodeUnknownPeriod,
		fmt.Sprintf("unknown period %q", name),
		domainerror.ErrUnknownPeriod,
	)
}

// ShiftRange derives the reference range for a comparison mode. Both ends
// move by the same calendar shift, so the reference span always mirrors the
// current one.
func ShiftRange(r DateRange, mode ComparisonMode) (DateRange, error) {
	switch mode {
	case ModeWeekOverWeek:
		return DateRange{Start: r.Start.AddDate(0, 0, -7), End: r.End.AddDate(0, 0, -7)}, nil
	case ModeMonthOverMonth:
		return DateRange{Start: r.Start.AddDate(0, -1, 0), End: r.End.AddDate(0, -1, 0)}, nil
	case ModeYearOverYear:
		return DateRange{Start: r.Start.AddDate(-1, 0, 0), End: r.End.AddDate(-1, 0, 0)}, nil
	case ModePreviousPeriod:
		days := RangeDays(r.Start, r.End)
		return DateRange{Start: r.Start.AddDate(0, 0, -days), End: r.End.AddDate(0, 0, -days)}, nil
	default:
		return DateRange{}, domainerror.NewReportError(
			domainerror.ErrCodeUnknownComparisonMode,
			fmt.Sprintf("unknown comparison mode %q", mode),
			domainerror.ErrUnknownComparisonMode,
		)
	}
}

// weekStart returns the Monday of the week containing the given date.
func weekStart(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is 7
	}
	return date.AddDate(0, 0, -(weekday - 1))
}
