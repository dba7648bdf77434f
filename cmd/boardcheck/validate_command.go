package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"boardcheck/internal/records"
	"boardcheck/internal/verification"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var documentsPath string
	var threshold float64
	var groupPrefix string

	cmd := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Verify every passenger in a manifest against their documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threshold") {
				if threshold < 0 || threshold > 1 {
					return fmt.Errorf("threshold must be between 0 and 1, got %v", threshold)
				}
				cfg.Verification.MatchThreshold = threshold
			}
			if prefix := strings.TrimSpace(groupPrefix); prefix != "" {
				cfg.Verification.PersonGroupID = prefix
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			// Only one verification run may touch the thumbnail staging
			// area and records database at a time.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "boardcheck.lock"))
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !ok {
				return errors.New("another verification run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			store, err := records.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			orch, err := verification.NewFromConfig(cfg, store, logger)
			if err != nil {
				return err
			}

			summary, err := orch.Run(cmd.Context(), args[0], documentsPath)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&documentsPath, "documents", "d", "", "Passenger documents file (TOML)")
	_ = cmd.MarkFlagRequired("documents")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Override the match-confidence threshold")
	cmd.Flags().StringVar(&groupPrefix, "group-prefix", "", "Prefix for generated person-group ids")
	return cmd
}

func printSummary(cmd *cobra.Command, summary *verification.Summary) {
	out := cmd.OutOrStdout()

	headers := []string{"Passenger", "Flight", "Pass", "Name", "DoB", "Person", "Luggage", "Confidence", "Status"}
	rows := make([][]string, 0, len(summary.Records))
	for _, record := range summary.Records {
		rows = append(rows, []string{
			record.Manifest.FullName(),
			record.Manifest.FlightNo,
			yesNo(record.BoardingPassValidation),
			yesNo(record.NameValidation),
			yesNo(record.DoBValidation),
			yesNo(record.PersonValidation),
			yesNo(record.LuggageValidation),
			fmt.Sprintf("%.2f", record.Confidence),
			statusLabel(record),
		})
	}

	printRows(cmd, headers, rows, []columnAlignment{
		alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft,
	})

	fmt.Fprintf(out, "Run %s: %d verified, %d flagged, %d failed of %d in %s\n",
		summary.RunID, summary.Verified, summary.Flagged, summary.Failed, summary.Total,
		summary.Duration.Round(summaryDurationPrecision))
	fmt.Fprintf(out, "Validated manifest: %s\n", summary.ValidatedPath)
}

func statusLabel(record *verification.Record) string {
	switch {
	case record.Failed():
		return "failed"
	case record.Cleared():
		return "verified"
	default:
		return "flagged"
	}
}
