package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"boardcheck/internal/records"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Review past verification runs",
	}
	recordsCmd.AddCommand(newRecordsListCommand(ctx))
	recordsCmd.AddCommand(newRecordsShowCommand(ctx))
	return recordsCmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent verification runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := records.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No verification runs recorded")
				return nil
			}

			headers := []string{"Run", "Manifest", "Started", "Total", "Verified", "Flagged", "Failed"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.ManifestPath,
					run.StartedAt.Local().Format(time.RFC3339),
					fmt.Sprintf("%d", run.Total),
					fmt.Sprintf("%d", run.Verified),
					fmt.Sprintf("%d", run.Flagged),
					fmt.Sprintf("%d", run.Failed),
				})
			}
			printRows(cmd, headers, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight})
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to list")
	return cmd
}

func newRecordsShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show the passenger outcomes of a run (latest when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := records.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var runID string
			if len(args) == 1 {
				runID = args[0]
			} else {
				latest, err := store.LatestRun(cmd.Context())
				if err != nil {
					return err
				}
				if latest == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No verification runs recorded")
					return nil
				}
				runID = latest.ID
			}

			saved, err := store.RecordsByRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(saved) == 0 {
				fmt.Fprintf(out, "No passenger records for run %s\n", runID)
				return nil
			}

			headers := []string{"Passenger", "Flight", "Pass", "Name", "DoB", "Person", "Luggage", "Confidence", "Error"}
			rows := make([][]string, 0, len(saved))
			for _, record := range saved {
				rows = append(rows, []string{
					strings.TrimSpace(record.FirstName + " " + record.LastName),
					record.FlightNo,
					yesNo(record.BoardingPassValid),
					yesNo(record.NameValid),
					yesNo(record.DOBValid),
					yesNo(record.PersonValid),
					yesNo(record.LuggageValid),
					fmt.Sprintf("%.2f", record.Confidence),
					record.ErrorMessage,
				})
			}
			fmt.Fprintf(out, "Run %s\n", runID)
			printRows(cmd, headers, rows, []columnAlignment{
				alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft,
			})
			return nil
		},
	}
	return cmd
}

func printRows(cmd *cobra.Command, headers []string, rows [][]string, aligns []columnAlignment) {
	out := cmd.OutOrStdout()
	if isTerminal(out) {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
		return
	}
	fmt.Fprintln(out, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
}
