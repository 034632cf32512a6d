package quartzcron

import (
	"container/heap"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// ErrDuplicateName is returned when adding an entry with a name that already exists.
var ErrDuplicateName = errors.New("quartzcron: duplicate entry name")

// maxIdleDuration is how long the run loop sleeps when nothing is scheduled.
// The loop still wakes up for add, remove and stop requests.
const maxIdleDuration = 100000 * time.Hour

// Trigger describes when a job fires.
type Trigger interface {
	// Next returns the next activation strictly after the given time, or the
	// zero time if there is none.
	Next(time.Time) time.Time
}

// Job is a unit of work run by Cron.
type Job interface {
	Run()
}

// JobWithContext is implemented by jobs that want the runner's context. It
// is canceled when Stop is called.
type JobWithContext interface {
	Job
	RunWithContext(ctx context.Context)
}

// FuncJob turns a func() into a Job.
type FuncJob func()

// Run calls f.
func (f FuncJob) Run() { f() }

// FuncJobWithContext turns a func(context.Context) into a JobWithContext.
type FuncJobWithContext func(ctx context.Context)

// Run calls f with a background context.
func (f FuncJobWithContext) Run() { f(context.Background()) }

// RunWithContext calls f.
func (f FuncJobWithContext) RunWithContext(ctx context.Context) { f(ctx) }

// EntryID identifies an entry within a Cron instance.
type EntryID uint64

// Entry is a job together with its trigger.
type Entry struct {
	ID EntryID

	// Name is optional and unique within a Cron. See WithName.
	Name string

	Trigger Trigger

	// Next is the next activation, or the zero time if the runner has not
	// started or the trigger is exhausted.
	Next time.Time

	// Prev is the last activation, or the zero time if the job never ran.
	Prev time.Time

	// WrappedJob is Job decorated with the runner's Chain.
	WrappedJob Job
	Job        Job

	heapIndex int
}

// Valid returns true if this is not the zero entry.
func (e Entry) Valid() bool { return e.ID != 0 }

// JobOption configures an Entry when it is added.
type JobOption func(*Entry)

// WithName sets a unique name for the entry.
func WithName(name string) JobOption {
	return func(e *Entry) {
		e.Name = name
	}
}

type entryLookupRequest struct {
	id    EntryID
	reply chan Entry
}

// Cron runs jobs on Quartz schedules. Entries are kept in a min-heap ordered
// by their next activation.
//
// While running, the heap is owned by the run loop and the public methods
// talk to it over channels. Before Start and after Stop they work on it
// directly under runningMu. nameIndex has its own lock since the run loop
// updates it while a caller may hold runningMu.
type Cron struct {
	entries     entryHeap
	entryIndex  map[EntryID]*Entry
	nameIndex   map[string]*Entry
	chain       Chain
	stop        chan struct{}
	add         chan *Entry
	remove      chan EntryID
	snapshot    chan chan []Entry
	entryLookup chan entryLookupRequest
	running     bool
	runningMu   sync.Mutex
	nameMu      sync.Mutex
	logger      Logger
	location    *time.Location
	nextID      EntryID
	jobWaiter   sync.WaitGroup
	clock       clock.Clock
	hooks       *ObservabilityHooks
	baseCtx     context.Context
	cancelCtx   context.CancelFunc
}

// New returns a Cron configured by opts. By default schedules are evaluated
// in time.Local, the real clock is used and panics in jobs are not
// recovered. See the With* options.
func New(opts ...Option) *Cron {
	c := &Cron{
		entryIndex:  make(map[EntryID]*Entry),
		nameIndex:   make(map[string]*Entry),
		chain:       NewChain(),
		add:         make(chan *Entry),
		stop:        make(chan struct{}),
		snapshot:    make(chan chan []Entry),
		entryLookup: make(chan entryLookupRequest),
		remove:      make(chan EntryID),
		logger:      DefaultLogger,
		location:    time.Local,
		clock:       clock.RealClock{},
		baseCtx:     context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseCtx, c.cancelCtx = context.WithCancel(c.baseCtx)
	return c
}

// AddFunc adds fn to run on the Quartz expression spec. The spec may carry
// a TZ= prefix; otherwise it is evaluated in the runner's location.
func (c *Cron) AddFunc(spec string, fn func(), opts ...JobOption) (EntryID, error) {
	return c.AddJob(spec, FuncJob(fn), opts...)
}

// AddJob adds job to run on the Quartz expression spec.
func (c *Cron) AddJob(spec string, job Job, opts ...JobOption) (EntryID, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return 0, err
	}
	return c.ScheduleJob(schedule, job, opts...)
}

// ScheduleJob adds job to run on trigger. The job is wrapped with the
// runner's Chain. It returns ErrDuplicateName if the name is taken.
func (c *Cron) ScheduleJob(trigger Trigger, job Job, opts ...JobOption) (EntryID, error) {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()

	entry := &Entry{
		ID:         c.nextID + 1,
		Trigger:    trigger,
		WrappedJob: c.chain.Then(job),
		Job:        job,
		heapIndex:  -1,
	}
	for _, opt := range opts {
		opt(entry)
	}

	if entry.Name != "" {
		c.nameMu.Lock()
		if _, exists := c.nameIndex[entry.Name]; exists {
			c.nameMu.Unlock()
			return 0, ErrDuplicateName
		}
		c.nameIndex[entry.Name] = entry
		c.nameMu.Unlock()
	}
	c.nextID = entry.ID

	if !c.running {
		heap.Push(&c.entries, entry)
		c.entryIndex[entry.ID] = entry
	} else {
		c.add <- entry
	}
	return entry.ID, nil
}

// Entries returns a snapshot of the entries, ordered by next activation.
func (c *Cron) Entries() []Entry {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()
	if c.running {
		reply := make(chan []Entry, 1)
		c.snapshot <- reply
		return <-reply
	}
	return c.entrySnapshot()
}

// Entry returns a snapshot of the given entry, or the zero Entry if it
// couldn't be found.
func (c *Cron) Entry(id EntryID) Entry {
	c.runningMu.Lock()
	if c.running {
		c.runningMu.Unlock()
		reply := make(chan Entry, 1)
		c.entryLookup <- entryLookupRequest{id: id, reply: reply}
		return <-reply
	}
	defer c.runningMu.Unlock()
	if entry, ok := c.entryIndex[id]; ok {
		return *entry
	}
	return Entry{}
}

// EntryByName returns a snapshot of the entry with the given name, or the
// zero Entry.
func (c *Cron) EntryByName(name string) Entry {
	c.nameMu.Lock()
	entry, ok := c.nameIndex[name]
	c.nameMu.Unlock()
	if !ok {
		return Entry{}
	}
	return c.Entry(entry.ID)
}

// Remove stops the entry from being run in the future.
func (c *Cron) Remove(id EntryID) {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()
	if c.running {
		c.remove <- id
	} else {
		c.removeEntry(id)
	}
}

// Location returns the location schedules without a TZ prefix are
// evaluated in.
func (c *Cron) Location() *time.Location {
	return c.location
}

// Start runs the scheduler in its own goroutine, or does nothing if it is
// already running.
func (c *Cron) Start() {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()
	if c.running {
		return
	}
	c.running = true
	go c.run()
}

// Run runs the scheduler in the calling goroutine, or does nothing if it is
// already running.
func (c *Cron) Run() {
	c.runningMu.Lock()
	if c.running {
		c.runningMu.Unlock()
		return
	}
	c.running = true
	c.runningMu.Unlock()
	c.run()
}

func (c *Cron) run() {
	c.logger.Info("start")

	now := c.now()
	for _, entry := range c.entries {
		c.reschedule(entry, now)
		c.logger.Info("schedule", "now", now, "entry", entry.ID, "next", entry.Next)
	}
	heap.Init(&c.entries)

	for {
		var timer clock.Timer
		if next := c.entries.Peek(); next == nil || next.Next.IsZero() {
			timer = c.clock.NewTimer(maxIdleDuration)
		} else {
			timer = c.clock.NewTimer(next.Next.Sub(now))
		}

		for {
			select {
			case now = <-timer.C():
				now = now.In(c.location)
				c.logger.Info("wake", "now", now)
				c.processDueEntries(now)

			case entry := <-c.add:
				timer.Stop()
				now = c.now()
				c.reschedule(entry, now)
				heap.Push(&c.entries, entry)
				c.entryIndex[entry.ID] = entry
				c.logger.Info("added", "now", now, "entry", entry.ID, "next", entry.Next)

			case reply := <-c.snapshot:
				reply <- c.entrySnapshot()
				continue

			case req := <-c.entryLookup:
				if entry, ok := c.entryIndex[req.id]; ok {
					req.reply <- *entry
				} else {
					req.reply <- Entry{}
				}
				continue

			case <-c.stop:
				timer.Stop()
				c.logger.Info("stop")
				return

			case id := <-c.remove:
				timer.Stop()
				now = c.now()
				c.removeEntry(id)
				c.logger.Info("removed", "entry", id)
			}

			break
		}
	}
}

// reschedule computes the entry's next activation after now.
func (c *Cron) reschedule(e *Entry, now time.Time) {
	e.Next = e.Trigger.Next(now)
	if e.Next.IsZero() {
		c.logger.Info("exhausted", "entry", e.ID, "name", e.Name)
	}
	c.hooks.callOnSchedule(e.ID, e.Name, e.Next)
}

// processDueEntries starts every entry whose activation is not after now.
func (c *Cron) processDueEntries(now time.Time) {
	for {
		e := c.entries.Peek()
		if e == nil || e.Next.IsZero() || e.Next.After(now) {
			return
		}
		c.startJob(e, e.Next)
		e.Prev = e.Next
		c.reschedule(e, now)
		c.entries.Update(e)
		c.logger.Info("run", "now", now, "entry", e.ID, "next", e.Next)
	}
}

// startJob runs the entry's wrapped job in a new goroutine. A panic that
// escapes the chain is reported to the hooks and then re-raised.
func (c *Cron) startJob(e *Entry, scheduled time.Time) {
	id, name, job := e.ID, e.Name, e.WrappedJob
	c.jobWaiter.Add(1)
	go func() {
		defer c.jobWaiter.Done()

		c.hooks.callOnJobStart(id, name, scheduled)

		start := c.clock.Now()
		var recovered any
		func() {
			defer func() { recovered = recover() }()
			if jc, ok := job.(JobWithContext); ok {
				jc.RunWithContext(c.baseCtx)
			} else {
				job.Run()
			}
		}()
		c.hooks.callOnJobComplete(id, name, c.clock.Since(start), recovered)

		if recovered != nil {
			panic(recovered)
		}
	}()
}

func (c *Cron) now() time.Time {
	return c.clock.Now().In(c.location)
}

// Stop stops the scheduler if it is running and cancels the context passed
// to JobWithContext jobs. Running jobs are not interrupted; the returned
// context is done once they have all returned.
func (c *Cron) Stop() context.Context {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()
	if c.running {
		c.stop <- struct{}{}
		c.running = false
	}
	c.cancelCtx()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		c.jobWaiter.Wait()
		cancel()
	}()
	return ctx
}

// StopAndWait stops the scheduler and blocks until running jobs complete.
func (c *Cron) StopAndWait() {
	<-c.Stop().Done()
}

func (c *Cron) entrySnapshot() []Entry {
	entries := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		entries[i] = *e
	}
	sort.Slice(entries, func(i, j int) bool {
		return nextBefore(entries[i].Next, entries[j].Next)
	})
	return entries
}

// removeEntry drops the entry from the heap and both indexes. Unknown IDs
// are ignored.
func (c *Cron) removeEntry(id EntryID) {
	entry, ok := c.entryIndex[id]
	if !ok {
		return
	}
	c.entries.RemoveAt(entry)
	delete(c.entryIndex, id)
	if entry.Name == "" {
		return
	}
	c.nameMu.Lock()
	delete(c.nameIndex, entry.Name)
	c.nameMu.Unlock()
}
