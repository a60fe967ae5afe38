// =============================================================================
// CSV to Inventory Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it from its own file's init().
//
// COBRA CLI STRUCTURE:
//   rootCmd (csv2inventory)
//   ├── convertCmd    (csv2inventory convert <servers.csv>)
//   ├── proofCmd      (csv2inventory parse-proof <text|->)
//   ├── statsCmd      (csv2inventory stats)
//   └── versionCmd    (csv2inventory version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-format, --no-color)
//   2. Loading the configuration before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-to-inventory/internal/config"
	"github.com/ginjaninja78/csv-to-inventory/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logFormat overrides the configured slog handler ("text" or "json").
var logFormat string

// noColor disables ANSI colors on console lines.
var noColor bool

// mainConfig is loaded in PersistentPreRunE and shared by all subcommands.
var mainConfig *config.MainConfig

// console prints the operator-facing [INFO]/[ERROR]/[SUCCESS] lines.
var console = logging.NewConsole(true)

// errSilentExit makes Execute exit 1 without printing anything further.
// Used by commands that already reported the failure themselves.
var errSilentExit = errors.New("silent exit")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "csv2inventory",
	Short: "CSV to Inventory Converter - Turn a server list into an Ansible inventory",
	Long: `CSV to Inventory Converter reads a list of servers (IP, wallet address,
validator private key) from a CSV file and writes the two files the node
provisioning playbooks need: an inventory of hosts and a shared vars file.

Column names are matched loosely:
  ip           IP, IP_ADDRESS, SERVER_IP, HOST
  address      ADDRESS, ETH_ADDRESS, ETHEREUM_ADDRESS, WALLET_ADDRESS
  private key  PRIVATE_KEY, PRIV_KEY, KEY

Rows without an IP are skipped and reported.

Example Usage:
  csv2inventory convert servers.csv              # Write inventory/hosts and vars/server_vars.yml
  csv2inventory convert servers.xlsx --dry-run   # Preview without writing
  csv2inventory parse-proof "$(./GetProof.sh)"   # Extract block number and proof as JSON
  csv2inventory stats --input validators.csv     # Collect validator statistics`,

	SilenceErrors: true,
	SilenceUsage:  true,

	// PersistentPreRunE loads the configuration and sets up logging for
	// every subcommand.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		console.Color = !noColor

		// An explicitly given config file must exist; the default one may not.
		required := cmd.Flags().Changed("config")
		cfg, err := config.LoadMainConfig(cfgFile, required)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		format := cfg.LogFormat
		if logFormat != "" {
			format = logFormat
		}
		logging.Setup(level, format)

		mainConfig = cfg
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Any error is printed as a single line and
// the process exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilentExit) {
			console.Error("%v", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the main configuration file (optional unless given)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Structured log format: text or json (overrides log_format)",
	)

	rootCmd.PersistentFlags().BoolVar(
		&noColor,
		"no-color",
		false,
		"Disable colored console output",
	)
}
