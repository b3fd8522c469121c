package studentsync

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"student-sync-backend/internal/services/reconciliation"
)

// Service starts runs in the background and exposes their progress.
type Service struct {
	orchestrator *Orchestrator
	runs         RunStore
	logger       *log.Logger
}

func NewService(orchestrator *Orchestrator, runs RunStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Service{orchestrator: orchestrator, runs: runs, logger: logger}
}

// Start records a new run and processes it in its own goroutine. Once
// started a run cannot be cancelled.
func (s *Service) Start(ctx context.Context, files []File, opts Options) (*Run, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	run := &Run{
		ID:        uuid.New(),
		DryRun:    opts.DryRun,
		Files:     names,
		Status:    RunStatusProcessing,
		StartedAt: time.Now(),
	}
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	started := *run
	go s.process(run, files, opts)
	return &started, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	return s.runs.Get(ctx, id)
}

func (s *Service) process(run *Run, files []File, opts Options) {
	ctx := context.Background()
	lastWhole := -1

	report, err := s.orchestrator.Run(ctx, files, opts, func(p float64, op *reconciliation.SyncOperation) {
		if op != nil {
			run.LastOperation = op
		}
		if whole := int(p); whole != lastWhole {
			lastWhole = whole
			run.Progress = p
			s.save(ctx, run)
		}
	})

	completed := time.Now()
	run.CompletedAt = &completed
	if err != nil {
		s.logger.Printf("Run %s failed: %v", run.ID, err)
		run.Status = RunStatusFailed
		run.Error = err.Error()
	} else {
		s.logger.Printf("Run %s completed with %d errors", run.ID, len(report.Errors))
		run.Status = RunStatusCompleted
		run.Progress = 100
		run.Result = report
	}
	s.save(ctx, run)
}

func (s *Service) save(ctx context.Context, run *Run) {
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Printf("Could not save progress of run %s: %v", run.ID, err)
	}
}
