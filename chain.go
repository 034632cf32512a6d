package quartzcron

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// JobWrapper decorates the given Job with some behavior.
type JobWrapper func(Job) Job

// Chain is a sequence of JobWrappers that decorates submitted jobs with
// cross-cutting behaviors like logging or synchronization.
type Chain struct {
	wrappers []JobWrapper
}

// NewChain returns a Chain consisting of the given JobWrappers.
func NewChain(c ...JobWrapper) Chain {
	return Chain{c}
}

// Then decorates the given job with all JobWrappers in the chain.
//
// This:
//
//	NewChain(m1, m2, m3).Then(job)
//
// is equivalent to:
//
//	m1(m2(m3(job)))
func (c Chain) Then(j Job) Job {
	for i := range c.wrappers {
		j = c.wrappers[len(c.wrappers)-i-1](j)
	}
	return j
}

// runJob executes a job, passing ctx if it implements JobWithContext.
func runJob(ctx context.Context, j Job) {
	if jc, ok := j.(JobWithContext); ok {
		jc.RunWithContext(ctx)
	} else {
		j.Run()
	}
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}

type recoverJob struct {
	inner  Job
	logger Logger
}

func (r *recoverJob) Run() { r.RunWithContext(context.Background()) }

func (r *recoverJob) RunWithContext(ctx context.Context) {
	defer func() {
		if rv := recover(); rv != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			r.logger.Error(panicError(rv), "panic",
				"panic_type", fmt.Sprintf("%T", rv), "stack", "...\n"+string(buf))
		}
	}()
	runJob(ctx, r.inner)
}

// Recover recovers panics in wrapped jobs and logs them at Error level.
func Recover(logger Logger) JobWrapper {
	return func(j Job) Job {
		return &recoverJob{inner: j, logger: logger}
	}
}

type delayJob struct {
	inner        Job
	logger       Logger
	mu           *sync.Mutex
	logThreshold time.Duration
}

func (d *delayJob) Run() { d.RunWithContext(context.Background()) }

func (d *delayJob) RunWithContext(ctx context.Context) {
	start := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if dur := time.Since(start); dur > d.logThreshold {
		d.logger.Info("delay", "duration", dur)
	}
	runJob(ctx, d.inner)
}

// DelayIfStillRunning serializes jobs, delaying subsequent runs until the
// previous one is complete. Delays longer than a minute are logged at Info.
func DelayIfStillRunning(logger Logger) JobWrapper {
	return func(j Job) Job {
		return &delayJob{inner: j, logger: logger, mu: &sync.Mutex{}, logThreshold: time.Minute}
	}
}

type skipJob struct {
	inner  Job
	logger Logger
	ch     chan struct{}
}

func (s *skipJob) Run() { s.RunWithContext(context.Background()) }

func (s *skipJob) RunWithContext(ctx context.Context) {
	select {
	case v := <-s.ch:
		defer func() { s.ch <- v }()
		runJob(ctx, s.inner)
	default:
		s.logger.Info("skip")
	}
}

// SkipIfStillRunning skips an invocation of the Job if a previous invocation is
// still running. Skips are logged at Info.
func SkipIfStillRunning(logger Logger) JobWrapper {
	return func(j Job) Job {
		ch := make(chan struct{}, 1)
		ch <- struct{}{}
		return &skipJob{inner: j, logger: logger, ch: ch}
	}
}
