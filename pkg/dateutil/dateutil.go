// Package dateutil holds the calendar math shared by the progress
// aggregation and the reminder job: ISO week boundaries, month boundaries
// and day enumeration. All functions work on calendar days; times are
// truncated to midnight in the input's location.
package dateutil

import "time"

const DayFormat = "2006-01-02"

func ParseDay(value string) (time.Time, error) {
	return time.Parse(DayFormat, value)
}

func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfISOWeek returns the Monday of the week containing t.
func StartOfISOWeek(t time.Time) time.Time {
	day := TruncateDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// EndOfISOWeek returns the Sunday of the week containing t.
func EndOfISOWeek(t time.Time) time.Time {
	return StartOfISOWeek(t).AddDate(0, 0, 6)
}

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// DaysBetween enumerates the calendar days from start through end
// inclusive. An end before start yields an empty slice.
func DaysBetween(start, end time.Time) []time.Time {
	from := TruncateDay(start)
	to := TruncateDay(end)

	days := make([]time.Time, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func MinDay(a, b time.Time) time.Time {
	if TruncateDay(a).Before(TruncateDay(b)) {
		return TruncateDay(a)
	}
	return TruncateDay(b)
}
