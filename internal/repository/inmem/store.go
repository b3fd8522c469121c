// Package inmem is a mutex-guarded in-memory Store used by tests and local
// runs without a database.
package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"student-sync-backend/internal/models"
	"student-sync-backend/internal/repository"
)

type Store struct {
	mutex sync.RWMutex

	classes  []models.Class
	students []models.Student
	tuition  map[string]models.TuitionFee
	fees     []models.FeeRecord
	deleted  []models.StudentDeletionLog

	// Fail hooks let tests inject write failures.
	FailCreateClass   func(models.Class) error
	FailCreateStudent func(models.Student) error
	FailUpdateStudent func(uuid.UUID) error
	FailListStudents  error
	FailCreateFee     func(models.FeeRecord) error
}

func NewStore() *Store {
	return &Store{tuition: make(map[string]models.TuitionFee)}
}

// AddClass seeds a class, generating an ID when missing.
func (s *Store) AddClass(c models.Class) models.Class {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.classes = append(s.classes, c)
	return c
}

// AddStudent seeds a student, generating an ID and status when missing.
func (s *Store) AddStudent(st models.Student) models.Student {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.Status == "" {
		st.Status = models.StudentStatusActive
	}
	s.students = append(s.students, st)
	return st
}

func (s *Store) SetTuition(gradeLevel string, amount float64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tuition[gradeLevel] = models.TuitionFee{ID: uuid.New(), GradeLevel: gradeLevel, Amount: amount}
}

func (s *Store) UpsertTuitionFee(_ context.Context, gradeLevel string, amount float64) error {
	s.SetTuition(gradeLevel, amount)
	return nil
}

func (s *Store) Classes() []models.Class {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]models.Class(nil), s.classes...)
}

func (s *Store) Students() []models.Student {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]models.Student(nil), s.students...)
}

func (s *Store) FeeRecords() []models.FeeRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]models.FeeRecord(nil), s.fees...)
}

func (s *Store) DeletionLogs() []models.StudentDeletionLog {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]models.StudentDeletionLog(nil), s.deleted...)
}

func (s *Store) ListClasses(context.Context) ([]models.Class, error) {
	return s.Classes(), nil
}

func (s *Store) CreateClass(_ context.Context, class *models.Class) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.FailCreateClass != nil {
		if err := s.FailCreateClass(*class); err != nil {
			return err
		}
	}
	for _, c := range s.classes {
		if c.Name == class.Name {
			return fmt.Errorf("class %q already exists", class.Name)
		}
	}
	s.classes = append(s.classes, *class)
	return nil
}

func (s *Store) ListStudentsByGrades(_ context.Context, grades []string) ([]models.Student, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.FailListStudents != nil {
		return nil, s.FailListStudents
	}
	wanted := make(map[string]bool, len(grades))
	for _, g := range grades {
		wanted[g] = true
	}
	var out []models.Student
	for _, st := range s.students {
		if wanted[st.GradeLevel] {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Store) ListActiveStudents(context.Context) ([]models.Student, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.FailListStudents != nil {
		return nil, s.FailListStudents
	}
	var out []models.Student
	for _, st := range s.students {
		if st.Status == models.StudentStatusActive {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Store) CreateStudent(_ context.Context, student *models.Student) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.FailCreateStudent != nil {
		if err := s.FailCreateStudent(*student); err != nil {
			return err
		}
	}
	s.students = append(s.students, *student)
	return nil
}

func (s *Store) UpdateStudentClass(_ context.Context, studentID, classID uuid.UUID, gradeLevel string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.FailUpdateStudent != nil {
		if err := s.FailUpdateStudent(studentID); err != nil {
			return err
		}
	}
	for i := range s.students {
		if s.students[i].ID == studentID {
			id := classID
			s.students[i].ClassID = &id
			s.students[i].GradeLevel = gradeLevel
			return nil
		}
	}
	return repository.ErrStudentNotFound
}

func (s *Store) DeleteStudents(_ context.Context, ids []uuid.UUID, reason string) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	remove := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	now := time.Now()
	kept := s.students[:0:0]
	var logs []models.StudentDeletionLog
	for _, st := range s.students {
		if !remove[st.ID] {
			kept = append(kept, st)
			continue
		}
		entry, err := models.NewStudentDeletionLog(st, reason, now)
		if err != nil {
			return 0, err
		}
		logs = append(logs, entry)
	}
	s.students = kept
	s.deleted = append(s.deleted, logs...)
	return int64(len(logs)), nil
}

func (s *Store) TuitionFees(_ context.Context, grades []string) ([]models.TuitionFee, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var out []models.TuitionFee
	for _, g := range grades {
		if fee, ok := s.tuition[g]; ok {
			out = append(out, fee)
		}
	}
	return out, nil
}

func (s *Store) FeeRecordsForYear(_ context.Context, academicYear string) ([]models.FeeRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var out []models.FeeRecord
	for _, r := range s.fees {
		if r.AcademicYear == academicYear {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) CreateFeeRecord(_ context.Context, record *models.FeeRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.FailCreateFee != nil {
		if err := s.FailCreateFee(*record); err != nil {
			return err
		}
	}
	s.fees = append(s.fees, *record)
	return nil
}

func (s *Store) UpdateFeeRecord(_ context.Context, record *models.FeeRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.fees {
		if s.fees[i].ID == record.ID {
			s.fees[i].GradeLevel = record.GradeLevel
			s.fees[i].Amount = record.Amount
			return nil
		}
	}
	return repository.ErrFeeRecordNotFound
}
