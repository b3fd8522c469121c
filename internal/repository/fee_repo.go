package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"student-sync-backend/internal/models"
)

// TuitionWriter maintains the tuition table.
type TuitionWriter interface {
	UpsertTuitionFee(ctx context.Context, gradeLevel string, amount float64) error
}

type FeeRepository struct {
	db *gorm.DB
}

func NewFeeRepository(db *gorm.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

func (r *FeeRepository) TuitionFees(ctx context.Context, grades []string) ([]models.TuitionFee, error) {
	var fees []models.TuitionFee
	err := r.db.WithContext(ctx).Where("grade_level IN ?", grades).Find(&fees).Error
	return fees, err
}

// UpsertTuitionFee sets the amount for a grade, creating the row if needed.
func (r *FeeRepository) UpsertTuitionFee(ctx context.Context, gradeLevel string, amount float64) error {
	fee := &models.TuitionFee{
		ID:         uuid.New(),
		GradeLevel: gradeLevel,
		Amount:     amount,
		UpdatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "grade_level"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(fee).Error
}

func (r *FeeRepository) FeeRecordsForYear(ctx context.Context, academicYear string) ([]models.FeeRecord, error) {
	var records []models.FeeRecord
	err := r.db.WithContext(ctx).Where("academic_year = ?", academicYear).Find(&records).Error
	return records, err
}

func (r *FeeRepository) CreateFeeRecord(ctx context.Context, record *models.FeeRecord) error {
	// A concurrent update may have inserted the same student/year already.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

func (r *FeeRepository) UpdateFeeRecord(ctx context.Context, record *models.FeeRecord) error {
	result := r.db.WithContext(ctx).Model(&models.FeeRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"grade_level": record.GradeLevel,
			"amount":      record.Amount,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFeeRecordNotFound
	}
	return nil
}
