// Package scheduler runs cron-scheduled callbacks on the UI thread.
//
// Cron fires on its own goroutine; every tick only enqueues the job's
// callback through an appshell Handle, so the callback itself always runs
// on the UI thread with access to the installed handler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GoCodeAlone/appshell"
)

var (
	ErrJobExists    = errors.New("job already scheduled")
	ErrJobNotFound  = errors.New("job not found")
	ErrInvalidSpec  = errors.New("invalid cron spec")
	ErrNilCallback  = errors.New("callback is nil")
	ErrStopTimedOut = errors.New("scheduler shutdown timed out")
)

// Runner schedules work on the UI thread. appshell.Handle implements it.
type Runner interface {
	RunOnMain(fn appshell.MainThreadFunc)
}

// Job describes a scheduled callback.
type Job struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

type entry struct {
	id   cron.EntryID
	spec string
	fn   appshell.MainThreadFunc
}

// Scheduler owns a cron instance whose jobs enqueue onto the UI thread.
type Scheduler struct {
	runner  Runner
	cron    *cron.Cron
	logger  appshell.Logger
	mu      sync.RWMutex
	entries map[string]entry
	started bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger
func WithLogger(logger appshell.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = appshell.NewComponentLoggerDecorator(logger, "scheduler")
		}
	}
}

// WithLocation evaluates cron specs in loc instead of time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.cron = cron.New(cron.WithParser(specParser), cron.WithLocation(loc))
		}
	}
}

// specParser accepts an optional leading seconds field and descriptors
// such as "@every 5s".
var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a scheduler that hands every tick to runner.
func New(runner Runner, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:  runner,
		cron:    cron.New(cron.WithParser(specParser)),
		logger:  appshell.NewComponentLoggerDecorator(nil, "scheduler"),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddFunc schedules fn under name using a cron spec. Each tick enqueues fn
// on the UI thread; a tick never waits for the previous one to run.
func (s *Scheduler) AddFunc(name, spec string, fn appshell.MainThreadFunc) error {
	if fn == nil {
		return ErrNilCallback
	}
	schedule, err := specParser.Parse(spec)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSpec, spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}

	id := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.logger.Debug("Scheduling job on main thread", "job", name)
		s.runner.RunOnMain(fn)
	}))
	s.entries[name] = entry{id: id, spec: spec, fn: fn}
	s.logger.Debug("Job scheduled", "job", name, "spec", spec)
	return nil
}

// Remove unschedules the named job.
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	s.cron.Remove(e.id)
	delete(s.entries, name)
	return nil
}

// Trigger enqueues the named job's callback immediately, outside its schedule.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	e, exists := s.entries[name]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	s.runner.RunOnMain(e.fn)
	return nil
}

// Jobs returns the scheduled jobs sorted by name.
func (s *Scheduler) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.entries))
	for name, e := range s.entries {
		ce := s.cron.Entry(e.id)
		jobs = append(jobs, Job{Name: name, Spec: e.spec, Next: ce.Next, Prev: ce.Prev})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs
}

// Start begins firing jobs. Starting twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.logger.Info("Starting scheduler", "jobs", len(s.entries))
	s.cron.Start()
	s.started = true
}

// Stop halts the cron goroutine. Callbacks already enqueued still run on
// the UI thread. It waits for an in-progress tick until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler shutdown timed out")
		return fmt.Errorf("%w: %w", ErrStopTimedOut, ctx.Err())
	}
}
