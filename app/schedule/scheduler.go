package schedule

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron engine with named daily jobs. Handlers are
// registered up front; the recurrence for each job is installed and replaced
// at runtime through ScheduleDaily and Clear.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	handlers map[string]func(now time.Time)
	entries  map[string]cron.EntryID
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		handlers: make(map[string]func(now time.Time)),
		entries:  make(map[string]cron.EntryID),
	}
}

// Register binds a handler to a job name. Must happen before the job can be
// scheduled.
func (s *Scheduler) Register(name string, handler func(now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers[name] = handler
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Debug("Scheduler started")
}

// Stop halts the cron engine and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Debug("Scheduler stopped")
}

// ScheduleDaily installs a daily recurrence for the named job, firing at the
// wall-clock time of first each day. An existing recurrence is replaced.
func (s *Scheduler) ScheduleDaily(name string, first time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	handler, ok := s.handlers[name]
	if !ok {
		return fmt.Errorf("no handler registered for job %q", name)
	}

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}

	spec := fmt.Sprintf("%d %d * * *", first.Minute(), first.Hour())
	id, err := s.cron.AddFunc(spec, func() {
		handler(time.Now())
	})
	if err != nil {
		return fmt.Errorf("failed to add job %q: %w", name, err)
	}

	s.entries[name] = id
	slog.Debug("Job scheduled", "name", name, "spec", spec)

	return nil
}

// Clear removes the named job's recurrence, if any. The handler stays
// registered.
func (s *Scheduler) Clear(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
		slog.Debug("Job cleared", "name", name)
	}
}

// NextFire reports the next fire time of the named job and whether a
// recurrence is installed. Before Start the engine has not computed fire
// times yet, so the zero time with true means "scheduled, not yet running".
func (s *Scheduler) NextFire(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}

	return s.cron.Entry(id).Next, true
}
