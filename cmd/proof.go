// =============================================================================
// CSV to Inventory Converter - Parse-Proof Command
// =============================================================================
//
// This file defines the 'parse-proof' command, which turns the free-form
// output of the proof script into a JSON object.
//
// COMMAND USAGE:
//   csv2inventory parse-proof "$(./GetProof.sh)"
//   ./GetProof.sh | csv2inventory parse-proof -
//
// OUTPUT:
//   {"block_number":"123","proof":"0x...","status":"SUCCESS","error":""}
//
// Wrong usage prints a FAILED object and exits with status 1.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-to-inventory/internal/proof"
)

// =============================================================================
// PARSE-PROOF COMMAND DEFINITION
// =============================================================================

const proofUsage = "csv2inventory parse-proof <output_text>"

// proofCmd extracts block number and proof from GetProof.sh output.
var proofCmd = &cobra.Command{
	Use:   "parse-proof <output_text|->",
	Short: "Extract block number and proof from proof script output as JSON",
	Long: `parse-proof scans the text printed by the proof script and prints a JSON
object with block_number, proof, status and error.

Pass "-" to read the text from standard input.`,

	// Argument count is checked in RunE so that wrong usage still prints JSON.
	Args: cobra.ArbitraryArgs,

	// Output is always JSON, so a broken config file must not get in the way.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) != 1 {
			if err := printJSON(out, proof.UsageFailure(proofUsage)); err != nil {
				return err
			}
			return errSilentExit
		}

		text := args[0]
		if text == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}

		return printJSON(out, proof.Parse(text))
	},
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(proofCmd)
}
