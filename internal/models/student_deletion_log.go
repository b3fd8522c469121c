package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudentDeletionLog keeps a copy of every student removed through a
// batch delete.
type StudentDeletionLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID uuid.UUID `gorm:"type:uuid;index"`
	Reason    string
	Snapshot  datatypes.JSON
	CreatedAt time.Time
}

// NewStudentDeletionLog snapshots s as JSON for the audit row.
func NewStudentDeletionLog(s Student, reason string, at time.Time) (StudentDeletionLog, error) {
	snapshot, err := json.Marshal(s)
	if err != nil {
		return StudentDeletionLog{}, fmt.Errorf("failed to snapshot student %s: %w", s.ID, err)
	}
	return StudentDeletionLog{
		ID:        uuid.New(),
		StudentID: s.ID,
		Reason:    reason,
		Snapshot:  datatypes.JSON(snapshot),
		CreatedAt: at,
	}, nil
}
