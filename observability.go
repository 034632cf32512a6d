package quartzcron

import "time"

// ObservabilityHooks are callbacks for monitoring the runner. Every callback
// is optional. They are called synchronously, from the run loop
// (OnSchedule) or from the job's goroutine (OnJobStart, OnJobComplete), so
// they should be cheap.
type ObservabilityHooks struct {
	// OnJobStart is called right before a job runs.
	OnJobStart func(entryID EntryID, name string, scheduledTime time.Time)

	// OnJobComplete is called when a job returns or panics. recovered is
	// the panic value, or nil.
	OnJobComplete func(entryID EntryID, name string, duration time.Duration, recovered any)

	// OnSchedule is called whenever an entry's next activation is computed.
	// nextRun is zero when the entry's schedule is exhausted.
	OnSchedule func(entryID EntryID, name string, nextRun time.Time)
}

func (h *ObservabilityHooks) callOnJobStart(id EntryID, name string, scheduled time.Time) {
	if h != nil && h.OnJobStart != nil {
		h.OnJobStart(id, name, scheduled)
	}
}

func (h *ObservabilityHooks) callOnJobComplete(id EntryID, name string, d time.Duration, recovered any) {
	if h != nil && h.OnJobComplete != nil {
		h.OnJobComplete(id, name, d, recovered)
	}
}

func (h *ObservabilityHooks) callOnSchedule(id EntryID, name string, next time.Time) {
	if h != nil && h.OnSchedule != nil {
		h.OnSchedule(id, name, next)
	}
}
