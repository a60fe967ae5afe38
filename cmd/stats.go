// =============================================================================
// CSV to Inventory Converter - Stats Command
// =============================================================================
//
// This file defines the 'stats' command, which looks up every validator
// address of a server list on the public search API and writes one CSV row
// per address.
//
// COMMAND USAGE:
//   csv2inventory stats [--input validators.csv] [--output stats.csv]
//
// Lookups are sequential with a pause in between (stats.request_delay).
// Ctrl-C stops the run; rows collected so far are still written.
//
// =============================================================================

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-to-inventory/internal/converter"
	"github.com/ginjaninja78/csv-to-inventory/internal/validatorstats"
	"github.com/ginjaninja78/csv-to-inventory/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	statsInput  string
	statsOutput string
)

// =============================================================================
// STATS COMMAND DEFINITION
// =============================================================================

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Collect validator statistics for every address in a server list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runStats(ctx)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsInput, "input", "", "Address list (default from config: stats.input_file)")
	statsCmd.Flags().StringVar(&statsOutput, "output", "", "Report destination (default from config: stats.output_file)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runStats(ctx context.Context) error {
	settings := mainConfig.Stats
	if statsInput != "" {
		settings.InputFile = statsInput
	}
	if statsOutput != "" {
		settings.OutputFile = statsOutput
	}

	src, err := converter.OpenSource(settings.InputFile, mainConfig.CSVSettings)
	if err != nil {
		return err
	}
	addresses, err := validatorstats.ReadAddresses(src)
	src.Close()
	if err != nil {
		return fmt.Errorf("read addresses: %w", err)
	}
	if len(addresses) == 0 {
		return fmt.Errorf("no validator addresses found in %s", settings.InputFile)
	}

	console.Info("Loaded %d validator addresses from %s", len(addresses), settings.InputFile)

	client := validatorstats.NewClient(
		settings.APIBaseURL,
		settings.UserAgent,
		validatorstats.WithTimeout(settings.RequestTimeout),
	)
	collector := validatorstats.NewCollector(client, settings.RequestDelay, nil)

	rows, collectErr := collector.Collect(ctx, addresses)
	if collectErr != nil && !errors.Is(collectErr, context.Canceled) {
		return collectErr
	}
	if collectErr != nil {
		console.Warn("Interrupted after %d of %d addresses", len(rows), len(addresses))
	}

	if err := writeStatsReport(settings.OutputFile, rows); err != nil {
		return err
	}

	var found, missing, failed int
	for _, r := range rows {
		switch r.Status {
		case "NOT_FOUND":
			missing++
		case "ERROR":
			failed++
		default:
			found++
		}
	}

	console.Success("Statistics saved to %s", settings.OutputFile)
	console.Info("Found: %d, not found: %d, errors: %d", found, missing, failed)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func writeStatsReport(path string, rows []validatorstats.Stats) error {
	var buf bytes.Buffer
	if err := validatorstats.WriteCSV(&buf, rows); err != nil {
		return err
	}
	if err := utils.EnsureParentDirs(path); err != nil {
		return fmt.Errorf("write failure: %w", err)
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write failure: %w", err)
	}
	return nil
}
