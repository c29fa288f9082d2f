// Package scheduler runs daily database housekeeping.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"ai-assistant/internal/store"
)

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	st     *store.Store
}

func New(st *store.Store) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		st:     st,
	}
}

// Start schedules housekeeping daily at 03:00 UTC: log the 24h active-user
// count and truncate the WAL.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		s.housekeep()
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Println("📅 Scheduler started - daily housekeeping at 03:00 UTC")
	return nil
}

func (s *Scheduler) housekeep() {
	active, err := s.st.CountActiveSince(s.ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		log.Printf("housekeeping: failed to count active users: %v", err)
	} else {
		log.Printf("housekeeping: %d users active in the last 24h", active)
	}
	if err := s.st.Checkpoint(s.ctx); err != nil {
		log.Printf("housekeeping: wal checkpoint failed: %v", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
