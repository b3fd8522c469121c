package studentsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"student-sync-backend/internal/services/reconciliation"
)

const (
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

var ErrRunNotFound = errors.New("sync run not found")

// Run is the pollable state of one sync.
type Run struct {
	ID            uuid.UUID                     `json:"id"`
	DryRun        bool                          `json:"dry_run"`
	Files         []string                      `json:"files"`
	Status        string                        `json:"status"`
	Progress      float64                       `json:"progress"`
	LastOperation *reconciliation.SyncOperation `json:"last_operation,omitempty"`
	Result        *Report                       `json:"result,omitempty"`
	Error         string                        `json:"error,omitempty"`
	StartedAt     time.Time                     `json:"started_at"`
	CompletedAt   *time.Time                    `json:"completed_at,omitempty"`
}

type RunStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
}

// MemoryRunStore keeps runs for the lifetime of the process.
type MemoryRunStore struct {
	runs sync.Map // uuid.UUID -> Run
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{}
}

func (m *MemoryRunStore) Save(_ context.Context, run *Run) error {
	m.runs.Store(run.ID, *run)
	return nil
}

func (m *MemoryRunStore) Get(_ context.Context, id uuid.UUID) (*Run, error) {
	val, ok := m.runs.Load(id)
	if !ok {
		return nil, ErrRunNotFound
	}
	run := val.(Run)
	return &run, nil
}
