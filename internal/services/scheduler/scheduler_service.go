package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/services/ingest"
)

// Service runs scheduled ingestion sweeps over the staging directory.
// An empty schedule disables it entirely; overlapping runs are skipped so
// a slow ingestion never stacks up behind the cron ticker.
type Service struct {
	ingest   *ingest.Orchestrator
	schedule string
	cron     *cron.Cron
	logger   arbor.ILogger
	mu       sync.Mutex
	running  bool
	busy     bool
}

// NewService creates a scheduler for the given cron schedule
func NewService(orchestrator *ingest.Orchestrator, schedule string, logger arbor.ILogger) *Service {
	return &Service{
		ingest:   orchestrator,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the ingestion job and starts the cron runner. A service
// with no schedule starts as a no-op.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if s.schedule == "" {
		s.logger.Debug().Msg("No ingest schedule configured, scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runIngest); err != nil {
		return fmt.Errorf("invalid ingest schedule '%s': %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Msg("Scheduled ingestion enabled")

	return nil
}

// Stop halts the cron runner and waits for an in-flight run to finish
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) runIngest() {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous ingestion run still in progress, skipping scheduled run")
		return
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	result, err := s.ingest.IngestFolder(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled ingestion run failed")
		return
	}

	s.logger.Info().
		Int("documents_processed", result.DocumentsProcessed).
		Int("qa_pairs_persisted", result.QAPairsPersisted).
		Msg("Scheduled ingestion run finished")
}
