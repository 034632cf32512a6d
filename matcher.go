package quartzcron

import "slices"

// matcher evaluates one field of a model against the search cursor.
type matcher struct {
	field Field
	model FieldModel
}

func (mt matcher) unit() unit { return fieldUnits[mt.field] }

// match reports whether the cursor satisfies the field.
func (mt matcher) match(c *cursor) bool {
	if commonMatch(c.value(mt.field), mt.model) {
		return true
	}

	year, month, day := c.t.Date()
	switch mt.model.Mode {
	case ModeLastDay:
		return day == LastDayOfMonth(year, month)
	case ModeLastDayOffset:
		return day == LastDayOfMonth(year, month)-mt.model.Offset
	case ModeNearestWeekday:
		return day == NearestWeekdayOfMonth(year, month, mt.model.Day)
	case ModeNthWeekOfMonth:
		d, ok := NthWeekdayOfMonth(year, month, mt.model.WeekNth, mt.model.Weekday)
		return ok && day == d
	case ModeLastWeekdayOfMonth:
		return day == LastWeekdayOfMonth(year, month, mt.model.Weekday)
	}
	return false
}

// next returns the next matching value of the field's unit within the
// enclosing period (the current month for both day fields). It returns
// false when the period has no further match.
func (mt matcher) next(c *cursor) (int, bool) {
	fm := mt.model
	year, month, day := c.t.Date()

	switch mt.field {
	case DayOfMonth:
		last := c.lastDay()
		if v, ok := commonNext(day, fm, last); ok {
			return v, true
		}
		var d int
		switch fm.Mode {
		case ModeLastDay:
			d = last
		case ModeLastDayOffset:
			d = last - fm.Offset
		case ModeNearestWeekday:
			d = NearestWeekdayOfMonth(year, month, fm.Day)
		default:
			return 0, false
		}
		return d, d > day

	case DayOfWeek:
		switch fm.Mode {
		case ModeEvery, ModeRange, ModeStep, ModeList:
			b := DayOfWeek.Bounds()
			cur := c.value(DayOfWeek)
			nextWeekday, ok := commonNextWrap(cur, fm, b.Max, b.Min)
			if !ok {
				return 0, false
			}
			days := nextWeekday - cur
			if days <= 0 {
				days += 7
			}
			d := day + days
			if d > c.lastDay() || d <= day {
				return 0, false
			}
			return d, true
		case ModeNthWeekOfMonth:
			d, ok := NthWeekdayOfMonth(year, month, fm.WeekNth, fm.Weekday)
			return d, ok && d > day
		case ModeLastWeekdayOfMonth:
			d := LastWeekdayOfMonth(year, month, fm.Weekday)
			return d, d > day
		}
		return 0, false
	}

	return commonNext(c.value(mt.field), fm, mt.field.Bounds().Max)
}

// resetSelf moves the field's unit to its minimum.
func (mt matcher) resetSelf(c *cursor) {
	c.set(mt.unit(), mt.field.Bounds().Min)
}

// resetBelow moves every less significant unit to its minimum.
func (mt matcher) resetBelow(c *cursor) {
	for u := mt.unit() + 1; u <= unitSecond; u++ {
		c.set(u, unitMins[u])
	}
}

// advanceHigher adds one to the next more significant unit. It relies on
// the cursor's normalization for carries (month 13, day 32, ...).
func (mt matcher) advanceHigher(c *cursor) {
	if u := mt.unit(); u > unitYear {
		c.add(u-1, 1)
	}
}

// setToNextValid writes v into the field's unit, or the first valid value of
// the current period when ok is false. Nothing is written when the period
// has no valid value at all.
func (mt matcher) setToNextValid(c *cursor, v int, ok bool) {
	if !ok {
		v, ok = mt.firstValidValue(c)
	}
	if ok {
		c.set(mt.unit(), v)
	}
}

// firstValidValue is the smallest value the field accepts in the cursor's
// current period, assuming the more significant units are fixed. For the
// regular day of week modes that is the first day of the month falling on an
// accepted weekday.
func (mt matcher) firstValidValue(c *cursor) (int, bool) {
	fm := mt.model
	b := mt.field.Bounds()
	year, month, _ := c.t.Date()

	if mt.field == DayOfWeek && fm.Mode.common() {
		for d := 1; d <= LastDayOfMonth(year, month); d++ {
			if commonMatch(quartzWeekday(year, month, d), fm) {
				return d, true
			}
		}
		return 0, false
	}

	var v int
	switch fm.Mode {
	case ModeEvery:
		v = b.Min
	case ModeRange:
		v = fm.Start
	case ModeStep:
		v = fm.From
		if v < b.Min && fm.Step > 0 {
			v += (b.Min - v + fm.Step - 1) / fm.Step * fm.Step
		}
	case ModeList:
		if len(fm.Values) == 0 {
			return 0, false
		}
		v = slices.Min(fm.Values)
	case ModeLastDay:
		v = LastDayOfMonth(year, month)
	case ModeLastDayOffset:
		v = LastDayOfMonth(year, month) - fm.Offset
	case ModeNearestWeekday:
		v = NearestWeekdayOfMonth(year, month, fm.Day)
	case ModeNthWeekOfMonth:
		d, ok := NthWeekdayOfMonth(year, month, fm.WeekNth, fm.Weekday)
		if !ok {
			return 0, false
		}
		v = d
	case ModeLastWeekdayOfMonth:
		v = LastWeekdayOfMonth(year, month, fm.Weekday)
	default:
		return 0, false
	}
	if v < b.Min {
		return 0, false
	}
	return v, true
}

// commonMatch evaluates the every, range, step and list modes.
func commonMatch(v int, fm FieldModel) bool {
	switch fm.Mode {
	case ModeEvery:
		return true
	case ModeRange:
		return v >= fm.Start && v <= fm.End
	case ModeStep:
		if fm.Step <= 0 {
			return v == fm.From
		}
		return v >= fm.From && (v-fm.From)%fm.Step == 0
	case ModeList:
		return slices.Contains(fm.Values, v)
	}
	return false
}

// commonNext returns the smallest value greater than cur that the every,
// range, step or list mode accepts, not exceeding max. Ranges and lists may
// return a value past max; the cursor normalizes it into the next period.
func commonNext(cur int, fm FieldModel, max int) (int, bool) {
	switch fm.Mode {
	case ModeEvery:
		if cur+1 <= max {
			return cur + 1, true
		}
	case ModeRange:
		if cur < fm.Start {
			return fm.Start, true
		}
		if cur < fm.End {
			return cur + 1, true
		}
	case ModeStep:
		if cur >= max || fm.Step <= 0 {
			return 0, false
		}
		next := fm.From
		if cur >= fm.From {
			next = fm.From + ((cur-fm.From)/fm.Step+1)*fm.Step
		}
		if next <= max {
			return next, true
		}
	case ModeList:
		for _, v := range sortedValues(fm.Values) {
			if v > cur {
				return v, true
			}
		}
	}
	return 0, false
}

// commonNextWrap is commonNext for cyclic fields: when the period is
// exhausted it wraps to the first value of the next cycle.
func commonNextWrap(cur int, fm FieldModel, max, min int) (int, bool) {
	if v, ok := commonNext(cur, fm, max); ok {
		return v, true
	}
	switch fm.Mode {
	case ModeEvery:
		return min, true
	case ModeRange:
		return fm.Start, true
	case ModeStep:
		return fm.From, true
	case ModeList:
		if len(fm.Values) > 0 {
			return slices.Min(fm.Values), true
		}
	}
	return 0, false
}
