package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"student-sync-backend/internal/models"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListStudentsByGrades returns students in any of the grade levels, oldest first.
func (r *StudentRepository) ListStudentsByGrades(ctx context.Context, grades []string) ([]models.Student, error) {
	var students []models.Student
	if len(grades) == 0 {
		return students, nil
	}
	err := r.db.WithContext(ctx).
		Where("grade_level IN ?", grades).
		Order("created_at ASC").
		Find(&students).Error
	return students, err
}

// ListActiveStudents returns all active students, oldest first.
func (r *StudentRepository) ListActiveStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StudentStatusActive).
		Order("created_at ASC").
		Find(&students).Error
	return students, err
}

func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// UpdateStudentClass moves a student to another class and grade level.
func (r *StudentRepository) UpdateStudentClass(ctx context.Context, studentID, classID uuid.UUID, gradeLevel string) error {
	result := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", studentID).
		Updates(map[string]interface{}{
			"class_id":    classID,
			"grade_level": gradeLevel,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// DeleteStudents removes the students and writes one deletion log row per
// removed student, in a single transaction. Unknown ids are ignored.
func (r *StudentRepository) DeleteStudents(ctx context.Context, ids []uuid.UUID, reason string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var students []models.Student
		if err := tx.Where("id IN ?", ids).Find(&students).Error; err != nil {
			return err
		}
		if len(students) == 0 {
			return nil
		}

		logs := make([]models.StudentDeletionLog, 0, len(students))
		now := time.Now()
		for _, s := range students {
			entry, err := models.NewStudentDeletionLog(s, reason, now)
			if err != nil {
				return err
			}
			logs = append(logs, entry)
		}
		if err := tx.Create(&logs).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&models.Student{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
