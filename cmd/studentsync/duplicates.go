package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List duplicate student records, optionally deleting all but the oldest",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolve, _ := cmd.Flags().GetBool("resolve")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		if resolve {
			res, err := services.Duplicates.ResolveAutomatically(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out, res)
			}
			fmt.Fprintf(out, "Resolved %d groups, deleted %d students\n", res.Groups, res.Deleted)
			return nil
		}

		groups, err := services.Duplicates.Analyze(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out, groups)
		}
		if len(groups) == 0 {
			fmt.Fprintln(out, "No duplicates found")
			return nil
		}
		for _, g := range groups {
			fmt.Fprintf(out, "%s (%d students)\n", g.Reason, len(g.Students))
			for _, s := range g.Students {
				mark := " "
				if s.ID == g.Keep.ID {
					mark = "*"
				}
				fmt.Fprintf(out, "  %s %s  %s  %s\n", mark, s.ID, s.FullName(), s.CreatedAt.Format("2006-01-02"))
			}
		}
		fmt.Fprintln(out, "* kept by --resolve")
		return nil
	},
}

func init() {
	duplicatesCmd.Flags().Bool("resolve", false, "Delete every duplicate except the oldest record of each group")
	rootCmd.AddCommand(duplicatesCmd)
}
