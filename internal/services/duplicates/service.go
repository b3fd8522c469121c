package duplicates

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"student-sync-backend/internal/apperr"
	"student-sync-backend/internal/models"
)

const (
	ReasonAutoResolve  = "duplicate auto-resolve"
	ReasonManualDelete = "manual duplicate delete"
)

var ErrNoStudentsSelected = apperr.NewValidationError("no students selected for deletion")

type Store interface {
	ListActiveStudents(ctx context.Context) ([]models.Student, error)
	DeleteStudents(ctx context.Context, ids []uuid.UUID, reason string) (int64, error)
}

// GroupReport is a group together with the member auto-resolve would keep.
type GroupReport struct {
	DuplicateGroup
	Keep models.Student `json:"keep"`
}

type Resolution struct {
	Groups     int         `json:"groups"`
	Deleted    int64       `json:"deleted"`
	DeletedIDs []uuid.UUID `json:"deleted_ids"`
}

type Service struct {
	store    Store
	detector *Detector
	logger   *log.Logger
}

func NewService(store Store, detector *Detector, logger *log.Logger) *Service {
	if detector == nil {
		detector = NewDetector()
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[duplicates] ", log.LstdFlags)
	}
	return &Service{store: store, detector: detector, logger: logger}
}

// Analyze scans the active students.
func (s *Service) Analyze(ctx context.Context) ([]GroupReport, error) {
	groups, err := s.detect(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]GroupReport, 0, len(groups))
	for _, g := range groups {
		reports = append(reports, GroupReport{DuplicateGroup: g, Keep: KeepCandidate(g)})
	}
	return reports, nil
}

// ResolveAutomatically deletes every duplicate except the oldest record of
// each group.
func (s *Service) ResolveAutomatically(ctx context.Context) (*Resolution, error) {
	groups, err := s.detect(ctx)
	if err != nil {
		return nil, err
	}
	res := &Resolution{Groups: len(groups), DeletedIDs: AutoResolve(groups)}
	if len(res.DeletedIDs) == 0 {
		return res, nil
	}

	res.Deleted, err = s.store.DeleteStudents(ctx, res.DeletedIDs, ReasonAutoResolve)
	if err != nil {
		return nil, fmt.Errorf("failed to delete duplicate students: %w", err)
	}
	s.logger.Printf("Auto-resolved %d duplicate groups, deleted %d students", res.Groups, res.Deleted)
	return res, nil
}

// DeleteStudents removes a manual selection.
func (s *Service) DeleteStudents(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoStudentsSelected
	}
	n, err := s.store.DeleteStudents(ctx, ids, ReasonManualDelete)
	if err != nil {
		return 0, fmt.Errorf("failed to delete students: %w", err)
	}
	s.logger.Printf("Deleted %d of %d selected students", n, len(ids))
	return n, nil
}

func (s *Service) detect(ctx context.Context) ([]DuplicateGroup, error) {
	students, err := s.store.ListActiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	return s.detector.Detect(students), nil
}
