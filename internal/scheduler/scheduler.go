// Package scheduler drives periodic model refreshes in the background.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/cartograph-io/cartograph/internal/collector"
)

// Scheduler rebuilds the cluster model on an interval so the optimizer
// never works from arbitrarily old data between audits.
type Scheduler struct {
	builder      *collector.Builder
	interval     time.Duration
	buildTimeout time.Duration
	onlyStale    bool
	ticker       *time.Ticker
	stop         chan bool
	running      bool
}

// New creates a scheduler. A non-positive interval disables it; Start
// becomes a no-op.
func New(builder *collector.Builder, interval, buildTimeout time.Duration, onlyStale bool) *Scheduler {
	return &Scheduler{
		builder:      builder,
		interval:     interval,
		buildTimeout: buildTimeout,
		onlyStale:    onlyStale,
		stop:         make(chan bool),
	}
}

// Start begins the refresh loop.
func (s *Scheduler) Start() {
	if s.running {
		log.Println("Scheduler already running")
		return
	}
	if s.interval <= 0 {
		log.Println("Periodic model refresh disabled")
		return
	}

	s.running = true
	s.ticker = time.NewTicker(s.interval)

	log.Printf("Scheduler started - refreshing model every %s", s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.refresh()
			case <-s.stop:
				s.ticker.Stop()
				s.running = false
				log.Println("Scheduler stopped")
				return
			}
		}
	}()
}

// Stop halts the scheduler
func (s *Scheduler) Stop() {
	if s.running {
		s.stop <- true
	}
}

// refresh runs one refresh cycle. A failed refresh keeps the previous
// model; the next tick tries again.
func (s *Scheduler) refresh() {
	if s.onlyStale && !s.builder.Stale() {
		return
	}

	ctx := context.Background()
	if s.buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.buildTimeout)
		defer cancel()
	}

	if err := s.builder.Refresh(ctx); err != nil {
		log.Printf("Scheduled model refresh failed: %v", err)
	}
}
