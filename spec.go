package quartzcron

import "time"

// Schedule is a parsed Quartz expression bound to an optional location. It
// implements Trigger.
type Schedule struct {
	Model Model

	// Location overrides the location the expression is evaluated in. When
	// nil, the location of the time passed to Next is used.
	Location *time.Location
}

// NewSchedule binds m to loc. A nil loc evaluates in the caller's location.
func NewSchedule(m Model, loc *time.Location) *Schedule {
	return &Schedule{Model: m, Location: loc}
}

// prepare converts t into the schedule's location and returns the location
// results must be converted back to.
func (s *Schedule) prepare(t time.Time) (prepared time.Time, origLocation *time.Location) {
	origLocation = t.Location()
	if s.Location != nil {
		t = t.In(s.Location)
	}
	return t, origLocation
}

// Next returns the next activation strictly after t, in t's location. If the
// expression has no further activation it returns the zero time.
func (s *Schedule) Next(t time.Time) time.Time {
	t, orig := s.prepare(t)
	next, ok := s.Model.Next(t)
	if !ok {
		return time.Time{}
	}
	return next.In(orig)
}

// NextN returns up to n activations after t, in t's location.
func (s *Schedule) NextN(t time.Time, n int) []time.Time {
	t, orig := s.prepare(t)
	times := s.Model.NextN(t, n)
	for i := range times {
		times[i] = times[i].In(orig)
	}
	return times
}

// Matches reports whether t falls on an activation of the schedule.
func (s *Schedule) Matches(t time.Time) bool {
	t, _ = s.prepare(t)
	return s.Model.Matches(t)
}

// String returns the canonical expression, prefixed with TZ= when the
// schedule carries its own location.
func (s *Schedule) String() string {
	if s.Location != nil {
		return "TZ=" + s.Location.String() + " " + s.Model.String()
	}
	return s.Model.String()
}
