package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

type OperationType string

const (
	OpCreate   OperationType = "create"
	OpReassign OperationType = "reassign"
	OpNoChange OperationType = "no_change"
)

// SyncOperation is one actionable change in a run's operation log.
type SyncOperation struct {
	Type            OperationType `json:"type"`
	StudentName     string        `json:"student_name"`
	TargetClassName string        `json:"target_class_name"`
	SourceClassName string        `json:"source_class_name,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
}

// SyncResult aggregates one run. The "To" counters are filled by dry runs,
// the others by applied runs.
type SyncResult struct {
	DryRun             bool            `json:"dry_run"`
	FilesProcessed     int             `json:"files_processed"`
	StudentsToCreate   int             `json:"students_to_create"`
	StudentsCreated    int             `json:"students_created"`
	StudentsToReassign int             `json:"students_to_reassign"`
	StudentsReassigned int             `json:"students_reassigned"`
	StudentsUnchanged  int             `json:"students_unchanged"`
	ClassesToCreate    int             `json:"classes_to_create"`
	ClassesCreated     int             `json:"classes_created"`
	Errors             []string        `json:"errors"`
	Operations         []SyncOperation `json:"operations"`
}

func newSyncResult(dryRun bool) *SyncResult {
	return &SyncResult{
		DryRun:     dryRun,
		Errors:     []string{},
		Operations: []SyncOperation{},
	}
}

// TargetClass is the class a batch's students are placed in. Pending is set
// in dry runs for a class that would be created, so it has no ID yet.
type TargetClass struct {
	ID      uuid.UUID
	Name    string
	Pending bool
}

// ProgressFunc receives the percent complete and, for actionable students,
// the operation just decided.
type ProgressFunc func(percent float64, op *SyncOperation)
