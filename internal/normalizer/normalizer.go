// =============================================================================
// CSV to Inventory Converter - Row Normalizer
// =============================================================================
//
// This module maps loosely-named source columns onto the fixed server schema
// (IP, blockchain address, private key).
//
// ALIAS CHAINS:
//   Every canonical field has an ordered list of acceptable column names.
//   The first alias present with a non-empty value wins. A column that is
//   present but empty is treated exactly like a missing column.
//
//   | Field       | Aliases (priority order)                                   |
//   |-------------|------------------------------------------------------------|
//   | ip          | IP, IP_ADDRESS, SERVER_IP, HOST                            |
//   | address     | ADDRESS, ETH_ADDRESS, ETHEREUM_ADDRESS, WALLET_ADDRESS     |
//   | private_key | PRIVATE_KEY, PRIV_KEY, KEY                                 |
//
// CUSTOMIZATION:
//   New aliases are added to the aliasTable below. Control flow does not
//   change.
//
// =============================================================================

package normalizer

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/csv-to-inventory/internal/types"
)

// =============================================================================
// CANONICAL FIELDS
// =============================================================================

// Field identifies one canonical server field.
type Field int

const (
	FieldIP Field = iota
	FieldAddress
	FieldPrivateKey
)

// String returns the canonical field name.
func (f Field) String() string {
	switch f {
	case FieldIP:
		return "ip"
	case FieldAddress:
		return "address"
	case FieldPrivateKey:
		return "private_key"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Fields lists the canonical fields in schema order.
var Fields = []Field{FieldIP, FieldAddress, FieldPrivateKey}

// aliasTable holds the alias chains. Names are already normalized
// (upper case, no surrounding whitespace).
var aliasTable = map[Field][]string{
	FieldIP:         {"IP", "IP_ADDRESS", "SERVER_IP", "HOST"},
	FieldAddress:    {"ADDRESS", "ETH_ADDRESS", "ETHEREUM_ADDRESS", "WALLET_ADDRESS"},
	FieldPrivateKey: {"PRIVATE_KEY", "PRIV_KEY", "KEY"},
}

// Aliases returns a copy of the alias chain for a field.
func Aliases(field Field) []string {
	chain := aliasTable[field]
	out := make([]string, len(chain))
	copy(out, chain)
	return out
}

// =============================================================================
// REJECTION
// =============================================================================

// RejectionError reports a row that could not become a server record.
// It is the only error type Normalize returns.
type RejectionError struct {
	// Row is the source row number (header is row 1).
	Row int

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	return e.Reason
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// NormalizeName upper-cases and trims a column name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// normalizeRow builds the case- and whitespace-insensitive working map.
// Duplicate normalized names: last one wins.
func normalizeRow(row types.RawRow) map[string]string {
	working := make(map[string]string, len(row))
	for _, f := range row {
		working[NormalizeName(f.Name)] = strings.TrimSpace(f.Value)
	}
	return working
}

// resolve walks an alias chain and returns the first non-empty value.
func resolve(working map[string]string, field Field) string {
	for _, alias := range aliasTable[field] {
		if v := working[alias]; v != "" {
			return v
		}
	}
	return ""
}

// Resolve returns the value of a single canonical field for a row,
// or the empty string when no alias yields a value.
func Resolve(row types.RawRow, field Field) string {
	return resolve(normalizeRow(row), field)
}

// Normalize turns one raw source row into a server record.
//
// PARAMETERS:
//   - row: The raw row in header order.
//   - rowNumber: The row number in the source file, used in the rejection reason.
//
// RETURNS:
//   - The server record, or a *RejectionError when no IP alias has a value.
//
// Normalize has no side effects; reporting rejections is the caller's job.
func Normalize(row types.RawRow, rowNumber int) (types.ServerRecord, error) {
	working := normalizeRow(row)

	ip := resolve(working, FieldIP)
	if ip == "" {
		return types.ServerRecord{}, &RejectionError{
			Row:    rowNumber,
			Reason: fmt.Sprintf("IP address missing at row %d", rowNumber),
		}
	}

	return types.ServerRecord{
		IP:         ip,
		Address:    resolve(working, FieldAddress),
		PrivateKey: resolve(working, FieldPrivateKey),
		SourceRow:  rowNumber,
	}, nil
}
