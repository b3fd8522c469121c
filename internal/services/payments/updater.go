// Package payments keeps early-years fee records in line with the current
// tuition table.
package payments

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"student-sync-backend/internal/models"
)

type Store interface {
	ListActiveStudents(ctx context.Context) ([]models.Student, error)
	TuitionFees(ctx context.Context, grades []string) ([]models.TuitionFee, error)
	FeeRecordsForYear(ctx context.Context, academicYear string) ([]models.FeeRecord, error)
	CreateFeeRecord(ctx context.Context, record *models.FeeRecord) error
	UpdateFeeRecord(ctx context.Context, record *models.FeeRecord) error
}

type Config struct {
	Grades       []string
	AcademicYear string
	Display      DisplaySettings
}

type Result struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Errors    []string `json:"errors"`
	Summary   string   `json:"summary"`
}

type Updater struct {
	store  Store
	cfg    Config
	logger *log.Logger
	now    func() time.Time
}

func NewUpdater(store Store, cfg Config, logger *log.Logger) *Updater {
	if logger == nil {
		logger = log.New(os.Stderr, "[payments] ", log.LstdFlags)
	}
	return &Updater{store: store, cfg: cfg, logger: logger, now: time.Now}
}

// Update makes sure every active early-years student has a fee record for
// the academic year at the grade's tuition. Paid records are never changed.
// A failure on one record is reported in Errors; a failure loading data is
// returned.
func (u *Updater) Update(ctx context.Context) (*Result, error) {
	res := &Result{Errors: []string{}}

	fees, err := u.store.TuitionFees(ctx, u.cfg.Grades)
	if err != nil {
		return nil, fmt.Errorf("failed to load tuition fees: %w", err)
	}
	tuition := make(map[string]float64, len(fees))
	for _, f := range fees {
		tuition[f.GradeLevel] = f.Amount
	}
	for _, g := range u.cfg.Grades {
		if _, ok := tuition[g]; !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("no tuition fee configured for %s", g))
		}
	}

	records, err := u.store.FeeRecordsForYear(ctx, u.cfg.AcademicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee records: %w", err)
	}
	byStudent := make(map[uuid.UUID]models.FeeRecord, len(records))
	for _, r := range records {
		byStudent[r.StudentID] = r
	}

	students, err := u.store.ListActiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	var billed float64
	for _, s := range students {
		amount, ok := tuition[s.GradeLevel]
		if !ok {
			continue
		}

		rec, exists := byStudent[s.ID]
		switch {
		case !exists:
			now := u.now()
			rec = models.FeeRecord{
				ID:           uuid.New(),
				StudentID:    s.ID,
				AcademicYear: u.cfg.AcademicYear,
				GradeLevel:   s.GradeLevel,
				Amount:       amount,
				Status:       models.FeeStatusPending,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := u.store.CreateFeeRecord(ctx, &rec); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("failed to create fee record for %s: %v", s.FullName(), err))
				continue
			}
			res.Created++
			billed += amount

		case rec.Status != models.FeeStatusPaid && (rec.Amount != amount || rec.GradeLevel != s.GradeLevel):
			rec.Amount = amount
			rec.GradeLevel = s.GradeLevel
			if err := u.store.UpdateFeeRecord(ctx, &rec); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("failed to update fee record for %s: %v", s.FullName(), err))
				continue
			}
			res.Updated++
			billed += amount

		default:
			res.Unchanged++
		}
	}

	res.Summary = fmt.Sprintf("%d fee records created, %d updated, %s billed",
		res.Created, res.Updated, FormatAmount(u.cfg.Display, billed))
	u.logger.Println(res.Summary)
	return res, nil
}
