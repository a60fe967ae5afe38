// =============================================================================
// CSV to Inventory Converter - Validator Stats Collector
// =============================================================================
//
// This module collects per-validator statistics from the public search API
// and writes them to a CSV report.
//
// FLOW:
//   1. Read addresses from any server list the converter accepts, using the
//      same address alias chain
//   2. Look them up one at a time with a fixed pause in between
//   3. Write one report row per address
//
// A failed lookup becomes an ERROR row instead of aborting the run.
//
// =============================================================================

package validatorstats

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/csv-to-inventory/internal/normalizer"
	"github.com/ginjaninja78/csv-to-inventory/internal/types"
)

// =============================================================================
// REPORT ROWS
// =============================================================================

// Header is the report's column order.
var Header = []string{
	"address",
	"index",
	"status",
	"balance_wei",
	"balance_eth",
	"attestation_success_rate",
	"proposal_success_rate",
	"last_proposed",
	"performance_score",
	"total_attestations_succeeded",
	"total_attestations_missed",
	"total_blocks_proposed",
	"total_blocks_mined",
	"total_blocks_missed",
	"rank",
	"error",
}

// Stats is one report row.
type Stats struct {
	Address                    string
	Index                      string
	Status                     string
	Balance                    string
	BalanceETH                 string
	AttestationSuccess         string
	ProposalSuccess            string
	LastProposed               string
	PerformanceScore           string
	TotalAttestationsSucceeded string
	TotalAttestationsMissed    string
	TotalBlocksProposed        string
	TotalBlocksMined           string
	TotalBlocksMissed          string
	Rank                       string
	Error                      string
}

// Record returns the row in Header order.
func (s Stats) Record() []string {
	return []string{
		s.Address, s.Index, s.Status, s.Balance, s.BalanceETH,
		s.AttestationSuccess, s.ProposalSuccess, s.LastProposed, s.PerformanceScore,
		s.TotalAttestationsSucceeded, s.TotalAttestationsMissed,
		s.TotalBlocksProposed, s.TotalBlocksMined, s.TotalBlocksMissed,
		s.Rank, s.Error,
	}
}

// placeholder builds a row for an address without API data.
func placeholder(address, marker, msg string) Stats {
	return Stats{
		Address:                    address,
		Index:                      marker,
		Status:                     marker,
		Balance:                    "0",
		BalanceETH:                 "0",
		AttestationSuccess:         "N/A",
		ProposalSuccess:            "N/A",
		LastProposed:               "N/A",
		PerformanceScore:           "0",
		TotalAttestationsSucceeded: "0",
		TotalAttestationsMissed:    "0",
		TotalBlocksProposed:        "0",
		TotalBlocksMined:           "0",
		TotalBlocksMissed:          "0",
		Rank:                       "N/A",
		Error:                      msg,
	}
}

// NotFound is the row for an address the API does not know.
func NotFound(address string) Stats {
	return placeholder(address, "NOT_FOUND", "Validator not found in API")
}

// Failed is the row for an address whose lookup failed.
func Failed(address string, err error) Stats {
	return placeholder(address, "ERROR", err.Error())
}

// FromValidator maps one API validator object onto a report row.
func FromValidator(address string, v map[string]any) Stats {
	return Stats{
		Address:                    address,
		Index:                      value(v["index"], "N/A"),
		Status:                     value(v["status"], "N/A"),
		Balance:                    value(v["balance"], "0"),
		BalanceETH:                 FormatBalanceETH(v["balance"]),
		AttestationSuccess:         value(v["attestationSuccess"], "N/A"),
		ProposalSuccess:            value(v["proposalSuccess"], "N/A"),
		LastProposed:               value(v["lastProposed"], "N/A"),
		PerformanceScore:           value(v["performanceScore"], "0"),
		TotalAttestationsSucceeded: value(v["totalAttestationsSucceeded"], "0"),
		TotalAttestationsMissed:    value(v["totalAttestationsMissed"], "0"),
		TotalBlocksProposed:        value(v["totalBlocksProposed"], "0"),
		TotalBlocksMined:           value(v["totalBlocksMined"], "0"),
		TotalBlocksMissed:          value(v["totalBlocksMissed"], "0"),
		Rank:                       value(v["rank"], "N/A"),
	}
}

// value renders a loosely typed JSON value, or def when it is null/absent.
func value(v any, def string) string {
	switch x := v.(type) {
	case nil:
		return def
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return def
		}
		return string(data)
	}
}

// weiPerEth is 10^18.
var weiPerEth = new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// FormatBalanceETH converts a wei amount to ETH rounded to 4 decimals.
// Anything that is not a decimal number yields "0".
func FormatBalanceETH(wei any) string {
	var s string
	switch x := wei.(type) {
	case string:
		s = x
	case json.Number:
		s = x.String()
	default:
		return "0"
	}

	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return "0"
	}
	r.Quo(r, weiPerEth)

	out := strings.TrimRight(r.FloatString(4), "0")
	if strings.HasSuffix(out, ".") {
		out += "0"
	}
	return out
}

// =============================================================================
// INPUT
// =============================================================================

// RowSource is the subset of a row stream needed to read addresses.
type RowSource interface {
	Next() bool
	Row() types.RawRow
	Err() error
}

// ReadAddresses returns the non-empty addresses of a source, in order.
func ReadAddresses(src RowSource) ([]string, error) {
	var addresses []string
	for src.Next() {
		if addr := normalizer.Resolve(src.Row(), normalizer.FieldAddress); addr != "" {
			addresses = append(addresses, addr)
		}
	}
	return addresses, src.Err()
}

// =============================================================================
// COLLECTION
// =============================================================================

// Collector looks up addresses one at a time.
type Collector struct {
	client *Client
	delay  time.Duration
	logger *slog.Logger
}

// NewCollector creates a collector pausing delay between lookups.
func NewCollector(client *Client, delay time.Duration, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{client: client, delay: delay, logger: logger}
}

// Lookup fetches statistics for one address. Errors become an ERROR row.
func (c *Collector) Lookup(ctx context.Context, address string) Stats {
	resp, err := c.client.Search(ctx, address)
	if err != nil {
		return Failed(address, err)
	}
	if len(resp.Validators) == 0 {
		return NotFound(address)
	}
	// The first hit is the exact match.
	return FromValidator(address, resp.Validators[0])
}

// Collect looks up every address in order. It only returns an error when
// ctx is cancelled; the rows collected so far are returned with it.
func (c *Collector) Collect(ctx context.Context, addresses []string) ([]Stats, error) {
	results := make([]Stats, 0, len(addresses))

	for i, address := range addresses {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		c.logger.Info("processing validator", "n", i+1, "total", len(addresses), "address", address)
		stats := c.Lookup(ctx, address)
		if stats.Error != "" {
			c.logger.Warn("lookup failed", "address", address, "error", stats.Error)
		}
		results = append(results, stats)

		if i == len(addresses)-1 || c.delay <= 0 {
			continue
		}
		t := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return results, ctx.Err()
		case <-t.C:
		}
	}

	return results, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// WriteCSV writes the report with a header row.
func WriteCSV(w io.Writer, rows []Stats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("write row %s: %w", row.Address, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
