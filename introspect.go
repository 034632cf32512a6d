package quartzcron

import "time"

// Between returns the activations of trigger in (start, end), at most limit
// of them. A limit of 0 or less means no limit. Returns nil if trigger is
// nil or the range is empty.
//
// For frequent schedules over long ranges prefer a limit:
//
//	s, _ := quartzcron.ParseSchedule("0 * * * * ?")
//	runs := quartzcron.Between(s, start, start.AddDate(0, 1, 0), 1000)
func Between(trigger Trigger, start, end time.Time, limit int) []time.Time {
	if trigger == nil || !start.Before(end) {
		return nil
	}

	var times []time.Time
	if limit > 0 {
		times = make([]time.Time, 0, min(limit, maxPrealloc))
	}
	walk(trigger, start, end, func(t time.Time) bool {
		times = append(times, t)
		return limit <= 0 || len(times) < limit
	})
	return times
}

// Count returns the number of activations of trigger in (start, end), up to
// limit when limit is positive.
func Count(trigger Trigger, start, end time.Time, limit int) int {
	if trigger == nil || !start.Before(end) {
		return 0
	}

	count := 0
	walk(trigger, start, end, func(time.Time) bool {
		count++
		return limit <= 0 || count < limit
	})
	return count
}

// walk calls fn for each activation before end until fn returns false. It
// stops on an exhausted trigger or one that fails to move forward.
func walk(trigger Trigger, start, end time.Time, fn func(time.Time) bool) {
	current := start
	for {
		next := trigger.Next(current)
		if next.IsZero() || !next.Before(end) || !next.After(current) {
			return
		}
		if !fn(next) {
			return
		}
		current = next
	}
}
