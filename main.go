// =============================================================================
// CSV to Inventory Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   csv2inventory convert <servers.csv>     - Write inventory/hosts and vars/server_vars.yml
//   csv2inventory parse-proof <output_text> - Extract block number and proof as JSON
//   csv2inventory stats                     - Collect validator statistics
//   csv2inventory version                   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (normalizer, inventory emitter, converter)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv-to-inventory/cmd"
)

func main() {
	cmd.Execute()
}
