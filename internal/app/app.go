// Package app builds the services shared by the HTTP server and the CLI.
package app

import (
	"log"
	"os"

	"student-sync-backend/internal/config"
	"student-sync-backend/internal/services/duplicates"
	"student-sync-backend/internal/services/payments"
	"student-sync-backend/internal/services/reconciliation"
	"student-sync-backend/internal/services/studentsync"
)

// Store is everything the services need from persistence. Both
// repository.Store and inmem.Store satisfy it.
type Store interface {
	studentsync.Store
	duplicates.Store
	payments.Store
}

type Services struct {
	Orchestrator *studentsync.Orchestrator
	Sync         *studentsync.Service
	Duplicates   *duplicates.Service
	Payments     *payments.Updater
}

func newLogger(component string) *log.Logger {
	return log.New(os.Stderr, "["+component+"] ", log.LstdFlags)
}

func NewServices(store Store, runs studentsync.RunStore, cfg *config.Config) *Services {
	engine := reconciliation.NewEngine(store, reconciliation.Config{
		DefaultCapacity: cfg.DefaultCapacity,
		AcademicYear:    cfg.AcademicYear,
		PlaceholderDOB:  cfg.PlaceholderDOB,
	}, newLogger("reconciliation"))

	updater := payments.NewUpdater(store, payments.Config{
		Grades:       cfg.FeeGrades,
		AcademicYear: cfg.AcademicYear,
		Display: payments.DisplaySettings{
			CurrencyCode: cfg.CurrencyCode,
			Symbol:       cfg.CurrencySymbol,
			Decimals:     cfg.CurrencyDecimals,
		},
	}, newLogger("payments"))

	orchestrator := studentsync.NewOrchestrator(store, engine, updater, newLogger("sync"))

	return &Services{
		Orchestrator: orchestrator,
		Sync:         studentsync.NewService(orchestrator, runs, newLogger("sync")),
		Duplicates:   duplicates.NewService(store, duplicates.NewDetector(), newLogger("duplicates")),
		Payments:     updater,
	}
}
