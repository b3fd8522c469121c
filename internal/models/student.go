package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StudentStatusActive      = "active"
	StudentStatusGraduated   = "graduated"
	StudentStatusTransferred = "transferred"
	StudentStatusInactive    = "inactive"
)

// Student is the persisted student record. FatherName doubles as the
// family-name field filled from spreadsheet imports.
type Student struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentCode     string     `gorm:"index" json:"student_code"`
	FirstName       string     `gorm:"index" json:"first_name"`
	FatherName      string     `gorm:"index" json:"father_name"`
	GrandfatherName string     `json:"grandfather_name"`
	MotherName      string     `json:"mother_name"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	GradeLevel      string     `gorm:"index" json:"grade_level"`
	ClassID         *uuid.UUID `gorm:"type:uuid;index" json:"class_id"`
	Status          string     `gorm:"index" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FullName joins the given and family names for display.
func (s Student) FullName() string {
	if s.FatherName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.FatherName
}
