package report

import (
	"time"

	"github.com/storeledger/backend/internal/domain/valueobject"
)

// CalendarDay is one entry of the dense day-by-day index the aggregation
// buckets are keyed on. Immutable once built.
type CalendarDay struct {
	Date        time.Time    `json:"date"`
	DateKey     string       `json:"date_key"` // ISO yyyy-mm-dd
	Year        int          `json:"year"`
	Month       time.Month   `json:"month"`
	Day         int          `json:"day"`
	Weekday     time.Weekday `json:"weekday"`
	WeekOfMonth int          `json:"week_of_month"`
}

// BuildCalendar produces one entry per calendar day in [start, end],
// inclusive on both ends, in ascending order. A start after end yields an
// empty slice, not an error. Pure; restartable.
func BuildCalendar(start, end time.Time) []CalendarDay {
	start = valueobject.TruncateToDay(start)
	end = valueobject.TruncateToDay(end)

	var days []CalendarDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, CalendarDay{
			Date:        d,
			DateKey:     valueobject.DayKey(d),
			Year:        d.Year(),
			Month:       d.Month(),
			Day:         d.Day(),
			Weekday:     d.Weekday(),
			WeekOfMonth: (d.Day()-1)/7 + 1,
		})
	}
	return days
}

// RangeDays returns the inclusive day count of [start, end], zero when the
// range is inverted.
func RangeDays(start, end time.Time) int {
	start = valueobject.TruncateToDay(start)
	end = valueobject.TruncateToDay(end)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
