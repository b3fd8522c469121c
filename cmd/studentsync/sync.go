package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"student-sync-backend/internal/services/reconciliation"
	"student-sync-backend/internal/services/studentsync"
)

var syncCmd = &cobra.Command{
	Use:   "sync [files...]",
	Short: "Reconcile roster spreadsheets against the student directory",
	Long: `Reconcile one or more class roster spreadsheets against the student directory.

Without --apply the run is a preview: nothing is written and the report
shows what would be created or reassigned.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Bool("apply", false, "Write the changes instead of previewing them")
	syncCmd.Flags().Bool("update-payments", false, "Refresh early-years fee records after an applied sync")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	apply, _ := cmd.Flags().GetBool("apply")
	updatePayments, _ := cmd.Flags().GetBool("update-payments")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var files []studentsync.File
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("cannot open %s: %w", path, err)
		}
		defer f.Close()
		files = append(files, studentsync.File{Name: filepath.Base(path), Content: f})
	}

	stderr := cmd.ErrOrStderr()
	report, err := services.Orchestrator.Run(cmd.Context(), files, studentsync.Options{
		DryRun:         !apply,
		UpdatePayments: updatePayments,
	}, func(p float64, op *reconciliation.SyncOperation) {
		if op != nil && !jsonOutput {
			fmt.Fprintf(stderr, "[%3.0f%%] %-8s %s -> %s\n", p, op.Type, op.StudentName, op.TargetClassName)
		}
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), report)
	}
	printSyncReport(cmd.OutOrStdout(), report)
	return nil
}

func printSyncReport(w io.Writer, r *studentsync.Report) {
	if r.DryRun {
		fmt.Fprintln(w, "Preview (nothing written):")
		fmt.Fprintf(w, "  files processed:    %d\n", r.FilesProcessed)
		fmt.Fprintf(w, "  classes to create:  %d\n", r.ClassesToCreate)
		fmt.Fprintf(w, "  students to create: %d\n", r.StudentsToCreate)
		fmt.Fprintf(w, "  students to move:   %d\n", r.StudentsToReassign)
	} else {
		fmt.Fprintln(w, "Sync applied:")
		fmt.Fprintf(w, "  files processed:    %d\n", r.FilesProcessed)
		fmt.Fprintf(w, "  classes created:    %d\n", r.ClassesCreated)
		fmt.Fprintf(w, "  students created:   %d\n", r.StudentsCreated)
		fmt.Fprintf(w, "  students moved:     %d\n", r.StudentsReassigned)
	}
	fmt.Fprintf(w, "  unchanged:          %d\n", r.StudentsUnchanged)
	if r.PaymentUpdate != nil {
		fmt.Fprintf(w, "  payments:           %s\n", r.PaymentUpdate.Summary)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "Errors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}
