package quartzcron

import "time"

// searchOrder is the order in which fields are checked: most significant
// first, with the two day fields side by side.
var searchOrder = [...]Field{Year, Month, DayOfMonth, DayOfWeek, Hours, Minutes, Seconds}

// matchers returns the active matchers of m in search order. Unspecified day
// fields do not constrain the search and are left out. An unspecified year
// matches every year.
func matchers(m Model) []matcher {
	out := make([]matcher, 0, len(searchOrder))
	for _, f := range searchOrder {
		fm := m.Get(f)
		if fm.Mode == ModeUnspecified {
			if f != Year {
				continue
			}
			fm = Every()
		}
		out = append(out, matcher{field: f, model: fm})
	}
	return out
}

// maxPrealloc bounds the capacity reserved for caller-sized result slices.
const maxPrealloc = 64

// NextN returns up to n instants strictly after after that satisfy m, in
// ascending order and in after's location. Sub-second precision is dropped.
// Fewer than n instants are returned when the year field runs out of values
// or the search passes 2099.
//
// The search moves a cursor forward: the first field that does not match
// jumps to its next valid value, clearing the less significant units, or
// carries into the more significant unit when its period is exhausted. The
// scan then restarts from the year.
func NextN(after time.Time, m Model, n int) []time.Time {
	if n <= 0 {
		return nil
	}

	c := newCursor(after.Truncate(time.Second).Add(time.Second))
	ms := matchers(m)
	results := make([]time.Time, 0, min(n, maxPrealloc))
	maxYear := Year.Bounds().Max

	for len(results) < n && c.t.Year() <= maxYear {
		mt, ok := firstMismatch(ms, c)
		if !ok {
			results = append(results, c.t)
			c.t = c.t.Add(time.Second)
			continue
		}

		before := c.t
		v, found := mt.next(c)
		if !found && mt.field == Year {
			break
		}
		mt.resetBelow(c)
		if !found {
			mt.resetSelf(c)
			mt.advanceHigher(c)
		}
		mt.setToNextValid(c, v, found)

		// Inside a repeated wall-clock hour, writing a unit can resolve to
		// the earlier of the two instants. Step over it one second at a time.
		if !c.t.After(before) {
			c.t = before.Add(time.Second)
		}
	}
	return results
}

func firstMismatch(ms []matcher, c *cursor) (matcher, bool) {
	for _, mt := range ms {
		if !mt.match(c) {
			return mt, true
		}
	}
	return matcher{}, false
}

// Match reports whether t, truncated to the second, satisfies every field of m.
func Match(t time.Time, m Model) bool {
	_, mismatch := firstMismatch(matchers(m), newCursor(t.Truncate(time.Second)))
	return !mismatch
}

// Next returns the first instant after after that satisfies m. It returns
// false when no such instant exists.
func (m Model) Next(after time.Time) (time.Time, bool) {
	next := NextN(after, m, 1)
	if len(next) == 0 {
		return time.Time{}, false
	}
	return next[0], true
}

// NextN is shorthand for NextN(after, m, n).
func (m Model) NextN(after time.Time, n int) []time.Time {
	return NextN(after, m, n)
}

// Matches is shorthand for Match(t, m).
func (m Model) Matches(t time.Time) bool {
	return Match(t, m)
}
