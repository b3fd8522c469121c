package models

import (
	"time"

	"github.com/google/uuid"
)

type Class struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"uniqueIndex" json:"name"`
	GradeLevel        string    `gorm:"index" json:"grade_level"`
	Capacity          int       `json:"capacity"`
	AcademicYear      string    `json:"academic_year"`
	CurrentEnrollment int       `json:"current_enrollment"`
	CreatedAt         time.Time `json:"created_at"`
}
