package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"student-sync-backend/internal/app"
	"student-sync-backend/internal/config"
	"student-sync-backend/internal/repository"
	"student-sync-backend/internal/services/studentsync"
)

// cliStore adds the tuition table writes only the CLI performs.
type cliStore interface {
	app.Store
	repository.TuitionWriter
}

var (
	cfg      *config.Config
	store    cliStore
	services *app.Services

	// connect is replaced in tests.
	connect = func() error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		db := config.InitDB(c)
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		cfg = c
		store = repository.NewStore(db)
		services = app.NewServices(store, studentsync.NewMemoryRunStore(), cfg)
		return nil
	}
)

var rootCmd = &cobra.Command{
	Use:          "studentsync",
	Short:        "Synchronize class roster spreadsheets into the student directory",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return connect()
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
