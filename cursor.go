package quartzcron

import "time"

// unit is a calendar unit of the search cursor. Units are ordered from the
// most to the least significant.
type unit int

const (
	unitYear unit = iota
	unitMonth
	unitDay
	unitHour
	unitMinute
	unitSecond
)

// fieldUnits maps each field to the calendar unit it drives. Both day fields
// drive the day of month.
var fieldUnits = [...]unit{
	Seconds:    unitSecond,
	Minutes:    unitMinute,
	Hours:      unitHour,
	DayOfMonth: unitDay,
	Month:      unitMonth,
	DayOfWeek:  unitDay,
	Year:       unitYear,
}

// unitMins holds the smallest value of each unit.
var unitMins = [...]int{
	unitYear:   0,
	unitMonth:  1,
	unitDay:    1,
	unitHour:   0,
	unitMinute: 0,
	unitSecond: 0,
}

// cursor is the wall-clock instant under evaluation. Setting a unit to a
// value outside its range normalizes like the calendar does: day 31 of
// February becomes early March, day 0 becomes the last day of the previous
// month.
type cursor struct {
	t time.Time
}

func newCursor(t time.Time) *cursor {
	return &cursor{t: t}
}

func (c *cursor) get(u unit) int {
	switch u {
	case unitYear:
		return c.t.Year()
	case unitMonth:
		return int(c.t.Month())
	case unitDay:
		return c.t.Day()
	case unitHour:
		return c.t.Hour()
	case unitMinute:
		return c.t.Minute()
	case unitSecond:
		return c.t.Second()
	}
	return 0
}

func (c *cursor) set(u unit, v int) {
	year, month, day := c.t.Date()
	hour, minute, sec := c.t.Clock()
	switch u {
	case unitYear:
		year = v
	case unitMonth:
		month = time.Month(v)
	case unitDay:
		day = v
	case unitHour:
		hour = v
	case unitMinute:
		minute = v
	case unitSecond:
		sec = v
	}
	c.t = time.Date(year, month, day, hour, minute, sec, 0, c.t.Location())
}

func (c *cursor) add(u unit, delta int) {
	c.set(u, c.get(u)+delta)
}

// value returns the cursor's value in the numbering of field f. Only the day
// of week differs from the calendar unit: Quartz counts 1=Sunday.
func (c *cursor) value(f Field) int {
	if f == DayOfWeek {
		return int(c.t.Weekday()) + 1
	}
	return c.get(fieldUnits[f])
}

func (c *cursor) lastDay() int {
	return LastDayOfMonth(c.t.Year(), c.t.Month())
}
