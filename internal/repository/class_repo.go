package repository

import (
	"context"

	"gorm.io/gorm"

	"student-sync-backend/internal/models"
)

type ClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListClasses returns every class ordered by name.
func (r *ClassRepository) ListClasses(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).Order("name ASC").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) CreateClass(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}
