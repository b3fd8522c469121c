package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeeStatusPending = "pending"
	FeeStatusPaid    = "paid"
)

// TuitionFee is the yearly tuition amount for a grade level.
type TuitionFee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GradeLevel string    `gorm:"uniqueIndex" json:"grade_level"`
	Amount     float64   `json:"amount"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FeeRecord is what a student owes for one academic year.
type FeeRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_fee_student_year" json:"student_id"`
	AcademicYear string    `gorm:"uniqueIndex:idx_fee_student_year" json:"academic_year"`
	GradeLevel   string    `gorm:"index" json:"grade_level"`
	Amount       float64   `json:"amount"`
	Status       string    `gorm:"index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
