// Package schedule runs named tasks at fixed intervals for a long-lived
// process.
//
//	s := schedule.New()
//	s.Every(5*time.Minute, "cart.refresh", refresh).WithoutOverlapping()
//	s.Start(ctx)
//
// Tasks receive the scheduler's context and run on their own goroutine. The
// first run happens one interval after Start.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

type Task func(ctx context.Context)

type entry struct {
	id        string
	interval  time.Duration
	task      Task
	noOverlap bool

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// Entry is the handle returned by Every for chaining options.
type Entry struct{ e *entry }

// WithoutOverlapping skips a tick while the previous run is still going.
func (h Entry) WithoutOverlapping() Entry {
	h.e.noOverlap = true
	return h
}

type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	tick    time.Duration
	wg      sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{tick: time.Second} }

// Every registers task under id. Non-positive intervals are ignored.
func (s *Scheduler) Every(interval time.Duration, id string, task Task) Entry {
	e := &entry{id: id, interval: interval, task: task}
	if interval <= 0 {
		return Entry{e}
	}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	if interval < s.tick {
		s.tick = interval
	}
	s.mu.Unlock()
	return Entry{e}
}

// Start runs the dispatch loop until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	started := time.Now()
	s.mu.Lock()
	for _, e := range s.entries {
		e.lastRun = started
	}
	tick := s.tick
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		logger.Info("schedule: started", "tasks", len(s.List()))
		for {
			select {
			case <-ctx.Done():
				logger.Info("schedule: stopped")
				return
			case now := <-ticker.C:
				for _, e := range s.snapshot() {
					if e.due(now) {
						s.dispatch(ctx, e, now)
					}
				}
			}
		}
	}()
}

// Wait blocks until every dispatched run has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) snapshot() []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", fmt.Sprint(r))
			}
		}()
		logger.Debug("schedule: running", "id", e.id)
		e.task(ctx)
	}()
}

// List describes the registered entries as "id [interval]", sorted by id.
func (s *Scheduler) List() []string {
	entries := s.snapshot()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, e.interval))
	}
	sort.Strings(out)
	return out
}
