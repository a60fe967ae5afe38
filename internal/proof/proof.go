// =============================================================================
// CSV to Inventory Converter - Proof Parser
// =============================================================================
//
// This module extracts the block number and proof string from the text a
// node's proof script prints.
//
// RECOGNISED LABELS:
//   Номер блока: 123456        (or "Block number: 123456")
//   Proof: 0x1f2e...           (may wrap over several lines)
//
// Everything after "Proof:" up to the end of the text is the proof; all
// whitespace inside it is removed.
//
// =============================================================================

package proof

import (
	"regexp"
	"strings"
)

// =============================================================================
// RESULT
// =============================================================================

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
	StatusFailed  = "FAILED"

	notAvailable = "N/A"
)

var (
	blockPattern = regexp.MustCompile(`(?:Номер блока|Block number):\s*(\d+)`)
	proofPattern = regexp.MustCompile(`(?s)Proof:\s*(.+)`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Result is the structured outcome, serialised as JSON by the CLI.
type Result struct {
	BlockNumber string `json:"block_number"`
	Proof       string `json:"proof"`
	Status      string `json:"status"`
	Error       string `json:"error"`
}

// =============================================================================
// PARSING
// =============================================================================

// Parse scans output for the two labelled values. Status is SUCCESS only
// when both were found.
func Parse(output string) Result {
	result := Result{
		BlockNumber: notAvailable,
		Proof:       notAvailable,
		Status:      StatusError,
	}

	if strings.TrimSpace(output) == "" {
		result.Error = "empty output from proof script"
		return result
	}

	if m := blockPattern.FindStringSubmatch(output); m != nil {
		result.BlockNumber = m[1]
	}
	if m := proofPattern.FindStringSubmatch(output); m != nil {
		if p := whitespace.ReplaceAllString(m[1], ""); p != "" {
			result.Proof = p
		}
	}

	if result.BlockNumber != notAvailable && result.Proof != notAvailable {
		result.Status = StatusSuccess
		return result
	}

	proofState := "Missing"
	if result.Proof != notAvailable {
		proofState = "Found"
	}
	result.Error = "Missing data - Block: " + result.BlockNumber + ", Proof: " + proofState
	return result
}

// UsageFailure is the result printed when the command is invoked wrongly.
func UsageFailure(usage string) Result {
	return Result{
		BlockNumber: StatusError,
		Proof:       StatusError,
		Status:      StatusFailed,
		Error:       "Usage: " + usage,
	}
}
