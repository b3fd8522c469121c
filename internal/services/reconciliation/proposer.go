package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"student-sync-backend/internal/models"
	"student-sync-backend/internal/services/parser"
)

// Proposer carries out the engine's decisions. The previewer only counts;
// the applier writes to the store and then counts.
type Proposer interface {
	ProposeClass(ctx context.Context, batch parser.ParsedClassBatch) (TargetClass, error)
	ProposeCreate(ctx context.Context, entry parser.ParsedStudentEntry, class TargetClass) error
	ProposeReassign(ctx context.Context, student models.Student, entry parser.ParsedStudentEntry, class TargetClass) error
}

type previewer struct {
	result *SyncResult
}

func newPreviewer(result *SyncResult) *previewer {
	return &previewer{result: result}
}

func (p *previewer) ProposeClass(_ context.Context, batch parser.ParsedClassBatch) (TargetClass, error) {
	p.result.ClassesToCreate++
	return TargetClass{Name: batch.ClassName, Pending: true}, nil
}

func (p *previewer) ProposeCreate(context.Context, parser.ParsedStudentEntry, TargetClass) error {
	p.result.StudentsToCreate++
	return nil
}

func (p *previewer) ProposeReassign(context.Context, models.Student, parser.ParsedStudentEntry, TargetClass) error {
	p.result.StudentsToReassign++
	return nil
}

type applier struct {
	store  Store
	cfg    Config
	now    func() time.Time
	result *SyncResult
}

func newApplier(store Store, cfg Config, now func() time.Time, result *SyncResult) *applier {
	return &applier{store: store, cfg: cfg, now: now, result: result}
}

func (a *applier) ProposeClass(ctx context.Context, batch parser.ParsedClassBatch) (TargetClass, error) {
	class := &models.Class{
		ID:           uuid.New(),
		Name:         batch.ClassName,
		GradeLevel:   batch.GradeLevel,
		Capacity:     a.cfg.DefaultCapacity,
		AcademicYear: a.cfg.AcademicYear,
		CreatedAt:    a.now(),
	}
	if err := a.store.CreateClass(ctx, class); err != nil {
		return TargetClass{}, fmt.Errorf("failed to create class %s: %w", batch.ClassName, err)
	}
	a.result.ClassesCreated++
	return TargetClass{ID: class.ID, Name: class.Name}, nil
}

func (a *applier) ProposeCreate(ctx context.Context, entry parser.ParsedStudentEntry, class TargetClass) error {
	dob := a.cfg.PlaceholderDOB
	classID := class.ID
	now := a.now()
	student := &models.Student{
		ID:          uuid.New(),
		FirstName:   entry.FirstName,
		FatherName:  entry.FamilyName,
		DateOfBirth: &dob,
		GradeLevel:  entry.GradeLevel,
		ClassID:     &classID,
		Status:      models.StudentStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.CreateStudent(ctx, student); err != nil {
		return fmt.Errorf("failed to create student %s: %w", entry.FullName, err)
	}
	a.result.StudentsCreated++
	return nil
}

func (a *applier) ProposeReassign(ctx context.Context, student models.Student, entry parser.ParsedStudentEntry, class TargetClass) error {
	if err := a.store.UpdateStudentClass(ctx, student.ID, class.ID, entry.GradeLevel); err != nil {
		return fmt.Errorf("failed to reassign student %s: %w", entry.FullName, err)
	}
	a.result.StudentsReassigned++
	return nil
}
