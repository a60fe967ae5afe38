// =============================================================================
// CSV to Inventory Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION FILE:
//   config.yaml (optional): output paths, inventory group, SSH user, the
//   values written to the shared vars file, and settings for the stats
//   collector. Every key has a default, so the tool runs without a file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// InventoryPath is where the host inventory is written.
	// Default: "inventory/hosts"
	InventoryPath string `yaml:"inventory_path"`

	// VarsPath is where the shared variables file is written.
	// Default: "vars/server_vars.yml"
	VarsPath string `yaml:"vars_path"`

	// GroupName is the inventory group header (without brackets).
	// Default: "aztec_nodes"
	GroupName string `yaml:"group_name"`

	// SSHUser is written as ansible_ssh_user on every host line.
	// Default: "ubuntu"
	SSHUser string `yaml:"ssh_user"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// CSVSettings contains settings for reading the source CSV.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// =========================================================================
	// VARS FILE
	// =========================================================================

	// Vars holds the values written verbatim to the vars file.
	Vars VarsSettings `yaml:"vars"`

	// =========================================================================
	// STATS COLLECTOR
	// =========================================================================

	// Stats configures the validator statistics collector.
	Stats StatsSettings `yaml:"stats"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the slog handler: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`
}

// CSVSettings contains settings for reading source files.
type CSVSettings struct {
	// Encoding is the character encoding of the CSV file.
	// Supported: "UTF-8", "ISO-8859-1", "Windows-1252"
	// A UTF-8 byte order mark is always tolerated.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// VarsSettings are the constants written to the vars file.
type VarsSettings struct {
	SSHUser           string `yaml:"ansible_ssh_user"`
	PythonInterpreter string `yaml:"ansible_python_interpreter"`
	SSHCommonArgs     string `yaml:"ansible_ssh_common_args"`
	L1RPCURL          string `yaml:"l1_rpc_url"`
	L1ConsensusURL    string `yaml:"l1_consensus_url"`
	AnsibleTimeout    int    `yaml:"ansible_timeout"`
	InstallTimeout    int    `yaml:"install_timeout"`
}

// StatsSettings configures the validator statistics collector.
type StatsSettings struct {
	// APIBaseURL is the search endpoint. The address is passed as ?q=.
	APIBaseURL string `yaml:"api_base_url"`

	// InputFile lists validator addresses (any address alias column).
	InputFile string `yaml:"input_file"`

	// OutputFile receives the statistics CSV.
	OutputFile string `yaml:"output_file"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent"`

	// RequestDelay is the pause between two requests.
	RequestDelay time.Duration `yaml:"request_delay"`

	// RequestTimeout bounds a single request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: When false, a missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, required bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InventoryPath == "" {
		config.InventoryPath = "inventory/hosts"
	}
	if config.VarsPath == "" {
		config.VarsPath = "vars/server_vars.yml"
	}
	if config.GroupName == "" {
		config.GroupName = "aztec_nodes"
	}
	if config.SSHUser == "" {
		config.SSHUser = "ubuntu"
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}

	// Vars file defaults.
	v := &config.Vars
	if v.SSHUser == "" {
		v.SSHUser = config.SSHUser
	}
	if v.PythonInterpreter == "" {
		v.PythonInterpreter = "/usr/bin/python3"
	}
	if v.SSHCommonArgs == "" {
		v.SSHCommonArgs = "-o StrictHostKeyChecking=no"
	}
	if v.L1RPCURL == "" {
		v.L1RPCURL = "http://65.109.116.87:8545"
	}
	if v.L1ConsensusURL == "" {
		v.L1ConsensusURL = "http://65.109.116.87:5052"
	}
	if v.AnsibleTimeout == 0 {
		v.AnsibleTimeout = 300
	}
	if v.InstallTimeout == 0 {
		v.InstallTimeout = 1800
	}

	// Stats collector defaults.
	s := &config.Stats
	if s.APIBaseURL == "" {
		s.APIBaseURL = "https://dashtec.xyz/api/search"
	}
	if s.InputFile == "" {
		s.InputFile = "stepa_validator.csv"
	}
	if s.OutputFile == "" {
		s.OutputFile = "validator_statistics.csv"
	}
	if s.UserAgent == "" {
		s.UserAgent = "Aztec Validator Stats Collector"
	}
	if s.RequestDelay == 0 {
		s.RequestDelay = 500 * time.Millisecond
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 30 * time.Second
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if strings.ContainsAny(config.GroupName, "[] \t") {
		return fmt.Errorf("group_name %q must not contain brackets or whitespace", config.GroupName)
	}
	if strings.ContainsAny(config.SSHUser, " \t") {
		return fmt.Errorf("ssh_user %q must not contain whitespace", config.SSHUser)
	}

	switch strings.ToUpper(config.CSVSettings.Encoding) {
	case "UTF-8", "UTF8", "ISO-8859-1", "LATIN1", "WINDOWS-1252", "CP1252":
	default:
		return fmt.Errorf("unsupported csv encoding %q", config.CSVSettings.Encoding)
	}

	if config.Vars.AnsibleTimeout < 0 || config.Vars.InstallTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if config.Stats.RequestDelay < 0 || config.Stats.RequestTimeout < 0 {
		return fmt.Errorf("stats delays must not be negative")
	}

	return nil
}
