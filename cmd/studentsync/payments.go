package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"student-sync-backend/internal/services/payments"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Bring early-years fee records in line with the tuition table",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		res, err := services.Payments.Update(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
		for _, e := range res.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", e)
		}
		return nil
	},
}

var tuitionCmd = &cobra.Command{
	Use:   "tuition <grade> <amount>",
	Short: "Set the tuition fee of a grade",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil || amount < 0 {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		if err := store.UpsertTuitionFee(cmd.Context(), args[0], amount); err != nil {
			return err
		}
		display := payments.DisplaySettings{
			CurrencyCode: cfg.CurrencyCode,
			Symbol:       cfg.CurrencySymbol,
			Decimals:     cfg.CurrencyDecimals,
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tuition for %s set to %s\n", args[0], payments.FormatAmount(display, amount))
		return nil
	},
}

func init() {
	paymentsCmd.AddCommand(tuitionCmd)
	rootCmd.AddCommand(paymentsCmd)
}
