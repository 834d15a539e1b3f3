// Package scheduler wires the periodic ledger jobs onto a cron runner: the
// monthly accrual run and the daily promotion of due rows to available.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/develper21/grow-sub000/internal/service"
)

// Scheduler owns the cron runner for the ledger's background jobs.
type Scheduler struct {
	cron    *cron.Cron
	accrual *service.AccrualService
}

// New registers the accrual and promotion jobs on the given cron expressions.
// The jobs source their timestamp once at the invocation boundary and pass it
// down, so the business logic itself never reads the clock.
func New(accrualService *service.AccrualService, accrualSpec, promotionSpec string) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(accrualSpec, func() {
		result, err := accrualService.Run(time.Now().UTC())
		if err != nil {
			log.Printf("scheduler: accrual run failed: %v", err)
			return
		}
		log.Printf("scheduler: accrual run created %d records", result.RecordsCreated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register accrual schedule %q: %w", accrualSpec, err)
	}

	_, err = c.AddFunc(promotionSpec, func() {
		if _, err := accrualService.PromoteDue(time.Now().UTC()); err != nil {
			log.Printf("scheduler: promotion run failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register promotion schedule %q: %w", promotionSpec, err)
	}

	return &Scheduler{cron: c, accrual: accrualService}, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron runner and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
