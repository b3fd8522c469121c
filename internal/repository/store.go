package repository

import "gorm.io/gorm"

// Store bundles the repositories into the single collaborator the sync,
// duplicate and payment services talk to.
type Store struct {
	*ClassRepository
	*StudentRepository
	*FeeRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		ClassRepository:   NewClassRepository(db),
		StudentRepository: NewStudentRepository(db),
		FeeRepository:     NewFeeRepository(db),
	}
}
