// Package studentsync drives a multi-file student synchronization: parse
// every uploaded roster, reconcile the batches against the directory and,
// after an applied run, optionally refresh early-years fee records.
package studentsync

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"student-sync-backend/internal/apperr"
	"student-sync-backend/internal/models"
	"student-sync-backend/internal/services/parser"
	"student-sync-backend/internal/services/payments"
	"student-sync-backend/internal/services/reconciliation"
)

var ErrNoFiles = apperr.NewValidationError("no files selected")

// File is one uploaded roster.
type File struct {
	Name    string
	Content io.Reader
}

type Store interface {
	reconciliation.Store
	ListClasses(ctx context.Context) ([]models.Class, error)
	ListStudentsByGrades(ctx context.Context, grades []string) ([]models.Student, error)
}

type PaymentUpdater interface {
	Update(ctx context.Context) (*payments.Result, error)
}

type Options struct {
	DryRun         bool
	UpdatePayments bool
}

// Report is the SyncResult of a run plus the payment update outcome.
type Report struct {
	reconciliation.SyncResult
	PaymentUpdate *payments.Result `json:"payment_update,omitempty"`
}

type Orchestrator struct {
	store    Store
	engine   *reconciliation.Engine
	payments PaymentUpdater
	logger   *log.Logger
}

// NewOrchestrator wires the collaborators. payments may be nil.
func NewOrchestrator(store Store, engine *reconciliation.Engine, payments PaymentUpdater, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Orchestrator{store: store, engine: engine, payments: payments, logger: logger}
}

// Run parses files in order (progress 0-50) and reconciles the parsed
// batches (progress 50-100). Per-file and per-record failures end up in the
// report's Errors; only a failure to load the directory is returned.
func (o *Orchestrator) Run(ctx context.Context, files []File, opts Options, progress reconciliation.ProgressFunc) (*Report, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	var batches []parser.ParsedClassBatch
	errs := []string{}
	for i, f := range files {
		batch, err := parser.ParseFile(f.Name, f.Content)
		if err != nil {
			o.logger.Printf("Skipping file: %v", err)
			errs = append(errs, err.Error())
		} else {
			o.logger.Printf("Parsed %s: class %s, %d students", f.Name, batch.ClassName, len(batch.Students))
			batches = append(batches, *batch)
		}
		notify(progress, 50*float64(i+1)/float64(len(files)), nil)
	}

	var result *reconciliation.SyncResult
	if len(batches) == 0 {
		result = o.engine.Reconcile(ctx, nil, nil, nil, opts.DryRun, nil)
		notify(progress, 100, nil)
	} else {
		classes, err := o.store.ListClasses(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load classes: %w", err)
		}
		students, err := o.store.ListStudentsByGrades(ctx, relevantGrades(batches))
		if err != nil {
			return nil, fmt.Errorf("failed to load students: %w", err)
		}

		result = o.engine.Reconcile(ctx, batches, classes, students, opts.DryRun,
			func(p float64, op *reconciliation.SyncOperation) {
				notify(progress, 50+p/2, op)
			})
	}

	result.FilesProcessed = len(batches)
	result.Errors = append(errs, result.Errors...)
	report := &Report{SyncResult: *result}

	if !opts.DryRun && opts.UpdatePayments && o.payments != nil {
		o.updatePayments(ctx, report)
	}
	return report, nil
}

// updatePayments never undoes the sync; failures are only reported.
func (o *Orchestrator) updatePayments(ctx context.Context, report *Report) {
	res, err := o.payments.Update(ctx)
	if err != nil {
		o.logger.Printf("Payment update failed: %v", err)
		report.Errors = append(report.Errors, "payment update: "+err.Error())
		return
	}
	for _, e := range res.Errors {
		report.Errors = append(report.Errors, "payment update: "+e)
	}
	report.PaymentUpdate = res
}

// relevantGrades is every grade in the batches plus the grade directly
// below each, so students promoted since the last sync are matched rather
// than created again.
func relevantGrades(batches []parser.ParsedClassBatch) []string {
	seen := make(map[string]bool)
	var grades []string
	add := func(g string) {
		if !seen[g] {
			seen[g] = true
			grades = append(grades, g)
		}
	}
	for _, b := range batches {
		add(b.GradeLevel)
		var n int
		if _, err := fmt.Sscanf(b.GradeLevel, "Grade %d", &n); err == nil && n > 1 {
			add(fmt.Sprintf("Grade %d", n-1))
		}
	}
	return grades
}

func notify(progress reconciliation.ProgressFunc, percent float64, op *reconciliation.SyncOperation) {
	if progress != nil {
		progress(percent, op)
	}
}
