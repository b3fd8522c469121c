package studentsync

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-sync-backend/internal/apperr"
	"student-sync-backend/internal/models"
	"student-sync-backend/internal/repository/inmem"
	"student-sync-backend/internal/services/parser"
	"student-sync-backend/internal/services/payments"
	"student-sync-backend/internal/services/reconciliation"
	"student-sync-backend/internal/testutil"
)

var discard = log.New(io.Discard, "", 0)

func newTestOrchestrator(store *inmem.Store, updater PaymentUpdater) *Orchestrator {
	engine := reconciliation.NewEngine(store, reconciliation.Config{
		DefaultCapacity: 40,
		AcademicYear:    "2026",
		PlaceholderDOB:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}, discard)
	return NewOrchestrator(store, engine, updater, discard)
}

func rosterFile(t *testing.T, name, class string, students ...string) File {
	t.Helper()
	rows := [][]string{{class}}
	for _, s := range students {
		rows = append(rows, []string{s})
	}
	return File{Name: name, Content: bytes.NewReader(testutil.Workbook(t, rows...))}
}

func TestRun_NoFiles(t *testing.T) {
	_, err := newTestOrchestrator(inmem.NewStore(), nil).Run(context.Background(), nil, Options{DryRun: true}, nil)
	require.ErrorIs(t, err, ErrNoFiles)
	assert.True(t, apperr.IsValidation(err))
}

func TestRun_PartialFileFailure(t *testing.T) {
	tests := []struct {
		name   string
		broken func(t *testing.T) File
	}{
		{"class not found", func(t *testing.T) File {
			return rosterFile(t, "roster.xlsx", "Student list", "Ghost Student")
		}},
		{"not a workbook", func(t *testing.T) File {
			return File{Name: "roster.xlsx", Content: strings.NewReader("not a workbook")}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := inmem.NewStore()
			files := []File{
				rosterFile(t, "a.xlsx", "GRADE 5 - A", "John Smith"),
				tt.broken(t),
				rosterFile(t, "b.xlsx", "GRADE 6 - B", "Jane Doe", "Abel Tesfaye"),
			}

			report, err := newTestOrchestrator(store, nil).Run(context.Background(), files, Options{DryRun: false}, nil)
			require.NoError(t, err)

			assert.Equal(t, 2, report.FilesProcessed)
			assert.Equal(t, 3, report.StudentsCreated)
			assert.Equal(t, 2, report.ClassesCreated)
			require.Len(t, report.Errors, 1)
			assert.Contains(t, report.Errors[0], "roster.xlsx")

			var got []string
			for _, op := range report.Operations {
				got = append(got, op.TargetClassName+"/"+op.StudentName)
			}
			assert.Equal(t, []string{"GRADE 5 - A/John Smith", "GRADE 6 - B/Jane Doe", "GRADE 6 - B/Abel Tesfaye"}, got)
			assert.Len(t, store.Students(), 3)
		})
	}
}

func TestRun_ProgressPhases(t *testing.T) {
	files := []File{
		rosterFile(t, "a.xlsx", "GRADE 5 - A", "John Smith", "Jane Doe"),
		rosterFile(t, "b.xlsx", "GRADE 6 - B", "Abel Tesfaye"),
	}

	var percents []float64
	var ops int
	_, err := newTestOrchestrator(inmem.NewStore(), nil).Run(context.Background(), files, Options{DryRun: true},
		func(p float64, op *reconciliation.SyncOperation) {
			percents = append(percents, p)
			if op != nil {
				ops++
			}
		})
	require.NoError(t, err)

	require.NotEmpty(t, percents)
	assert.Equal(t, []float64{25, 50}, percents[:2], "parsing covers 0-50")
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	for _, p := range percents[2:] {
		assert.Greater(t, p, 50.0)
	}
	assert.Equal(t, 100.0, percents[len(percents)-1])
	assert.Equal(t, 3, ops)
}

func TestRun_AllFilesFail(t *testing.T) {
	var last float64
	report, err := newTestOrchestrator(inmem.NewStore(), nil).Run(context.Background(),
		[]File{{Name: "x.xlsx", Content: strings.NewReader("nope")}},
		Options{DryRun: true},
		func(p float64, _ *reconciliation.SyncOperation) { last = p })
	require.NoError(t, err)

	assert.Equal(t, 0, report.FilesProcessed)
	assert.Len(t, report.Errors, 1)
	assert.Empty(t, report.Operations)
	assert.Equal(t, 100.0, last)
}

func TestRun_SnapshotFailureIsFatal(t *testing.T) {
	store := inmem.NewStore()
	store.FailListStudents = errors.New("connection refused")

	_, err := newTestOrchestrator(store, nil).Run(context.Background(),
		[]File{rosterFile(t, "a.xlsx", "GRADE 5 - A", "John Smith")}, Options{DryRun: true}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRun_PromotedStudentIsReassigned(t *testing.T) {
	store := inmem.NewStore()
	old := store.AddClass(models.Class{Name: "GRADE 4 - A", GradeLevel: "Grade 4"})
	store.AddStudent(models.Student{FirstName: "John", FatherName: "Smith", GradeLevel: "Grade 4", ClassID: &old.ID})

	report, err := newTestOrchestrator(store, nil).Run(context.Background(),
		[]File{rosterFile(t, "a.xlsx", "GRADE 5 - A", "John Smith")}, Options{DryRun: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.StudentsToCreate)
	assert.Equal(t, 1, report.StudentsToReassign)
	require.Len(t, report.Operations, 1)
	assert.Equal(t, "GRADE 4 - A", report.Operations[0].SourceClassName)
}

type stubUpdater struct {
	calls  int
	result *payments.Result
	err    error
}

func (s *stubUpdater) Update(context.Context) (*payments.Result, error) {
	s.calls++
	return s.result, s.err
}

func TestRun_PaymentUpdate(t *testing.T) {
	file := func() []File { return []File{rosterFile(t, "kg.xlsx", "GRADE 1 - A", "Sara Alemu")} }

	t.Run("skipped on dry run", func(t *testing.T) {
		stub := &stubUpdater{result: &payments.Result{Errors: []string{}}}
		report, err := newTestOrchestrator(inmem.NewStore(), stub).Run(context.Background(), file(),
			Options{DryRun: true, UpdatePayments: true}, nil)
		require.NoError(t, err)
		assert.Zero(t, stub.calls)
		assert.Nil(t, report.PaymentUpdate)
	})

	t.Run("runs after apply", func(t *testing.T) {
		stub := &stubUpdater{result: &payments.Result{Created: 1, Errors: []string{"no tuition fee configured for Pre-KG"}}}
		report, err := newTestOrchestrator(inmem.NewStore(), stub).Run(context.Background(), file(),
			Options{UpdatePayments: true}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, stub.calls)
		require.NotNil(t, report.PaymentUpdate)
		assert.Equal(t, 1, report.PaymentUpdate.Created)
		assert.Equal(t, []string{"payment update: no tuition fee configured for Pre-KG"}, report.Errors)
	})

	t.Run("failure keeps the sync", func(t *testing.T) {
		store := inmem.NewStore()
		stub := &stubUpdater{err: errors.New("db down")}
		report, err := newTestOrchestrator(store, stub).Run(context.Background(), file(),
			Options{UpdatePayments: true}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, report.StudentsCreated)
		assert.Len(t, store.Students(), 1)
		assert.Equal(t, []string{"payment update: db down"}, report.Errors)
	})
}

func TestRelevantGrades(t *testing.T) {
	batches := []parser.ParsedClassBatch{
		{ClassName: "GRADE 5 - A", GradeLevel: "Grade 5"},
		{ClassName: "GRADE 5 - B", GradeLevel: "Grade 5"},
		{ClassName: "GRADE 1 - A", GradeLevel: "Grade 1"},
	}
	assert.Equal(t, []string{"Grade 5", "Grade 4", "Grade 1"}, relevantGrades(batches))
}
