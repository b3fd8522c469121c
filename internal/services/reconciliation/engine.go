// Package reconciliation compares parsed class rosters with the persisted
// student directory and decides, per student, whether to create, reassign or
// leave the record alone.
package reconciliation

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"student-sync-backend/internal/models"
	"student-sync-backend/internal/services/matching"
	"student-sync-backend/internal/services/parser"
)

// Store is the write side of the persisted directory.
type Store interface {
	CreateClass(ctx context.Context, class *models.Class) error
	CreateStudent(ctx context.Context, student *models.Student) error
	UpdateStudentClass(ctx context.Context, studentID, classID uuid.UUID, gradeLevel string) error
}

// Config holds the defaults used for records the engine creates.
type Config struct {
	DefaultCapacity int
	AcademicYear    string
	PlaceholderDOB  time.Time
}

type Engine struct {
	store  Store
	cfg    Config
	logger *log.Logger
	now    func() time.Time
}

func NewEngine(store Store, cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stderr, "[reconciliation] ", log.LstdFlags)
	}
	return &Engine{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// directory is the snapshot the decisions are made against. Writes done
// during the run never change student lookups, so a dry run and an applied
// run classify every entry the same way.
type directory struct {
	classes    map[string]TargetClass
	classNames map[uuid.UUID]string
	students   map[string][]models.Student
	claimed    map[uuid.UUID]bool
}

func newDirectory(classes []models.Class, students []models.Student) *directory {
	d := &directory{
		classes:    make(map[string]TargetClass, len(classes)),
		classNames: make(map[uuid.UUID]string, len(classes)),
		students:   make(map[string][]models.Student, len(students)),
		claimed:    make(map[uuid.UUID]bool),
	}
	for _, c := range classes {
		d.classes[c.Name] = TargetClass{ID: c.ID, Name: c.Name}
		d.classNames[c.ID] = c.Name
	}
	for _, s := range students {
		key := matching.StudentNameKey(s)
		d.students[key] = append(d.students[key], s)
	}
	return d
}

// slot addresses one entry of one batch.
type slot struct{ batch, entry int }

// reserve matches every entry whose namesake already sits in the class the
// roster names, before anything else is claimed, so file order cannot hand
// that student to another roster.
func (d *directory) reserve(batches []parser.ParsedClassBatch) map[slot]models.Student {
	reserved := make(map[slot]models.Student)
	for b, batch := range batches {
		class, ok := d.classes[batch.ClassName]
		if !ok {
			continue
		}
		for i, entry := range batch.Students {
			for _, c := range d.students[matching.NameKey(entry.FirstName, entry.FamilyName)] {
				if !d.claimed[c.ID] && c.ClassID != nil && *c.ClassID == class.ID {
					d.claimed[c.ID] = true
					reserved[slot{b, i}] = c
					break
				}
			}
		}
	}
	return reserved
}

// claim picks the first snapshot student with the entry's name not matched
// yet in this run.
func (d *directory) claim(entry parser.ParsedStudentEntry) (models.Student, bool) {
	for _, c := range d.students[matching.NameKey(entry.FirstName, entry.FamilyName)] {
		if !d.claimed[c.ID] {
			d.claimed[c.ID] = true
			return c, true
		}
	}
	return models.Student{}, false
}

func (d *directory) className(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return d.classNames[*id]
}

// Reconcile classifies every parsed student against the snapshots. With
// dryRun set nothing is written.
func (e *Engine) Reconcile(
	ctx context.Context,
	batches []parser.ParsedClassBatch,
	classes []models.Class,
	students []models.Student,
	dryRun bool,
	progress ProgressFunc,
) *SyncResult {
	result := newSyncResult(dryRun)

	var proposer Proposer
	if dryRun {
		proposer = newPreviewer(result)
	} else {
		proposer = newApplier(e.store, e.cfg, e.now, result)
	}

	dir := newDirectory(classes, students)
	reserved := dir.reserve(batches)
	total := len(batches)

	for b, batch := range batches {
		target, ok := dir.classes[batch.ClassName]
		if !ok {
			resolved, err := proposer.ProposeClass(ctx, batch)
			if err != nil {
				e.logger.Printf("Skipping %d students of %s: %v", len(batch.Students), batch.ClassName, err)
				result.Errors = append(result.Errors, err.Error())
				report(progress, batchPercent(b+1, 0, 1, total), nil)
				continue
			}
			target = resolved
			dir.classes[batch.ClassName] = target
		}

		n := len(batch.Students)
		for i, entry := range batch.Students {
			existing, found := reserved[slot{b, i}]
			if !found {
				existing, found = dir.claim(entry)
			}
			op := e.resolveStudent(ctx, proposer, dir, entry, existing, found, target, result)
			report(progress, batchPercent(b, i+1, n, total), op)
		}
		if n == 0 {
			report(progress, batchPercent(b+1, 0, 1, total), nil)
		}
	}

	e.logger.Printf(
		"Reconciled %d batches (dry_run=%t): create=%d reassign=%d unchanged=%d errors=%d",
		total, dryRun,
		result.StudentsToCreate+result.StudentsCreated,
		result.StudentsToReassign+result.StudentsReassigned,
		result.StudentsUnchanged,
		len(result.Errors),
	)
	return result
}

func (e *Engine) resolveStudent(
	ctx context.Context,
	proposer Proposer,
	dir *directory,
	entry parser.ParsedStudentEntry,
	existing models.Student,
	found bool,
	target TargetClass,
	result *SyncResult,
) *SyncOperation {
	var op SyncOperation
	switch {
	case !found:
		if err := proposer.ProposeCreate(ctx, entry, target); err != nil {
			result.Errors = append(result.Errors, err.Error())
			return nil
		}
		op = e.newOperation(OpCreate, entry, target, "")

	case target.Pending || existing.ClassID == nil || *existing.ClassID != target.ID:
		if err := proposer.ProposeReassign(ctx, existing, entry, target); err != nil {
			result.Errors = append(result.Errors, err.Error())
			return nil
		}
		op = e.newOperation(OpReassign, entry, target, dir.className(existing.ClassID))

	default:
		result.StudentsUnchanged++
		return nil
	}

	result.Operations = append(result.Operations, op)
	return &op
}

func (e *Engine) newOperation(typ OperationType, entry parser.ParsedStudentEntry, target TargetClass, source string) SyncOperation {
	return SyncOperation{
		Type:            typ,
		StudentName:     entry.FullName,
		TargetClassName: target.Name,
		SourceClassName: source,
		Timestamp:       e.now(),
	}
}

// batchPercent spreads 0-100 evenly over the batches, and each batch's share
// evenly over its students.
func batchPercent(batch, done, size, total int) float64 {
	if total == 0 {
		return 100
	}
	return 100 * (float64(batch) + float64(done)/float64(size)) / float64(total)
}

func report(progress ProgressFunc, percent float64, op *SyncOperation) {
	if progress != nil {
		progress(percent, op)
	}
}
