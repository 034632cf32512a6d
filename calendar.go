package quartzcron

import "time"

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// quartzWeekday returns the Quartz weekday (1=Sunday .. 7=Saturday) of a
// date. Days outside the month are normalized first.
func quartzWeekday(year int, month time.Month, day int) int {
	return int(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()) + 1
}

// NearestWeekdayOfMonth returns the weekday (Monday to Friday) closest to day
// without leaving the month: a Saturday moves to the Friday before, or to
// Monday the 3rd when the 1st is a Saturday; a Sunday moves to the Monday
// after, or to Friday when it is the last day of the month.
func NearestWeekdayOfMonth(year int, month time.Month, day int) int {
	switch time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday() {
	case time.Saturday:
		if day == 1 {
			return 3
		}
		return day - 1
	case time.Sunday:
		if day == LastDayOfMonth(year, month) {
			return day - 2
		}
		return day + 1
	}
	return day
}

// NthWeekdayOfMonth returns the day of the nth occurrence of weekday (Quartz
// numbering, 1=Sunday) in the month. It returns false when the month has no
// such occurrence, e.g. a fifth Friday in most months.
func NthWeekdayOfMonth(year int, month time.Month, nth, weekday int) (int, bool) {
	first := quartzWeekday(year, month, 1)
	day := 1 + (weekday-first+7)%7 + (nth-1)*7
	if day > LastDayOfMonth(year, month) {
		return 0, false
	}
	return day, true
}

// LastWeekdayOfMonth returns the day of the last occurrence of weekday
// (Quartz numbering) in the month, or -1 for a weekday outside 1-7.
func LastWeekdayOfMonth(year int, month time.Month, weekday int) int {
	for d := LastDayOfMonth(year, month); d >= 1; d-- {
		if quartzWeekday(year, month, d) == weekday {
			return d
		}
	}
	return -1
}
