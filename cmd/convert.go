// =============================================================================
// CSV to Inventory Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which runs the conversion
// pipeline for one input file.
//
// COMMAND USAGE:
//   csv2inventory convert <servers.csv|servers.xlsx> [flags]
//
// FLAGS:
//   --inventory   : Inventory destination (default from config: inventory/hosts)
//   --vars        : Vars file destination (default from config: vars/server_vars.yml)
//   --dry-run     : Render and preview the inventory without writing anything
//
// PROCESSING PIPELINE:
//   1. Open the source and check its header
//   2. Normalize every row (rows without an IP are skipped and reported)
//   3. Render the inventory and the vars file
//   4. Write both atomically
//   5. Print a summary and the first inventory lines
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-to-inventory/internal/converter"
	"github.com/ginjaninja78/csv-to-inventory/internal/validation"
	"github.com/ginjaninja78/csv-to-inventory/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inventoryPath overrides the configured inventory destination.
var inventoryPath string

// varsPath overrides the configured vars destination.
var varsPath string

// dryRun renders without writing output files.
var dryRun bool

// previewLines is the number of inventory lines shown after a run
// (the group header plus three hosts).
const previewLines = 4

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert <servers.csv>",
	Short: "Convert a server list into an Ansible inventory and vars file",
	Long: `The convert command reads a server list and writes:

  inventory/hosts          one line per server under [aztec_nodes]
  vars/server_vars.yml     shared SSH and L1 endpoint settings

Wallet addresses and private keys are base64-encoded in the inventory.
Both files are replaced on every run. At least one row must have an IP,
otherwise nothing is written and the command fails.

Spreadsheets (.xlsx) are read from their first visible sheet.`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(args[0])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(
		&inventoryPath,
		"inventory",
		"",
		"Inventory destination (default from config)",
	)

	convertCmd.Flags().StringVar(
		&varsPath,
		"vars",
		"",
		"Vars file destination (default from config)",
	)

	convertCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Render and preview the inventory without writing files",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert runs the pipeline and reports the outcome on the console.
func runConvert(inputPath string) error {
	cfg := *mainConfig
	if inventoryPath != "" {
		cfg.InventoryPath = inventoryPath
	}
	if varsPath != "" {
		cfg.VarsPath = varsPath
	}

	console.Info("Processing CSV file: %s", inputPath)

	result, err := converter.New(inputPath, &cfg, converter.WithDryRun(dryRun)).Run()
	if result != nil {
		if len(result.Headers) > 0 {
			console.Info("Found columns: %s", strings.Join(result.Headers, ", "))
		}
		for _, f := range result.Findings {
			if f.Severity == validation.SeverityError {
				console.Error("%s", f.Message)
			} else {
				console.Warn("%s", f.Message)
			}
		}
	}
	if err != nil {
		return describeFailure(err)
	}

	stats := result.Stats
	console.Info("Processed %d rows from CSV", stats.RowsProcessed)
	for _, rej := range result.Rejections {
		console.Warn("Skipping row %d: %s", rej.Row, rej.Reason)
	}
	console.Info("Found %d valid servers", stats.Accepted)

	console.Plain("")
	if result.Written {
		console.Success("=== Conversion completed successfully! ===")
		console.Info("Inventory file: %s", result.InventoryPath)
		console.Info("Variables file: %s", result.VarsPath)
	} else {
		console.Success("=== Dry run completed, nothing written ===")
	}
	console.Info("Total servers: %d", stats.Accepted)

	lines, err := preview(result)
	if err != nil {
		console.Warn("Cannot show inventory sample: %v", err)
		return nil
	}
	console.Plain("\nSample inventory entries:")
	for _, line := range lines {
		console.Plain("  %s", line)
	}

	if result.Written {
		console.Plain("\nYou can now run the Ansible playbook!")
	}
	return nil
}

// preview returns the first inventory lines, read back from disk when the
// inventory was written.
func preview(result *converter.Result) ([]string, error) {
	if result.Written {
		return utils.HeadLines(result.InventoryPath, previewLines)
	}
	lines := strings.Split(strings.TrimSuffix(string(result.Inventory), "\n"), "\n")
	if len(lines) > previewLines {
		lines = lines[:previewLines]
	}
	return lines, nil
}

// describeFailure prefixes the error with its failure class so that each
// class reads differently on a single line.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, converter.ErrInputMissing):
		return fmt.Errorf("no input: %w", err)
	case errors.Is(err, converter.ErrInputInvalid):
		return fmt.Errorf("bad input: %w", err)
	case errors.Is(err, converter.ErrNoValidServers):
		return fmt.Errorf("no valid servers: %w", err)
	case errors.Is(err, converter.ErrWriteFailed):
		return fmt.Errorf("write failure: %w", err)
	default:
		return err
	}
}
