// =============================================================================
// CSV to Inventory Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (produce RawRow)
//   - normalizer (RawRow -> ServerRecord)
//   - inventory (renders ServerRecord)
//   - converter (drives the pipeline)
//
// =============================================================================

package types

// =============================================================================
// SOURCE ROW TYPES
// =============================================================================

// Field is a single (column name, value) pair read from a source row.
type Field struct {
	// Name is the column header exactly as it appears in the source file.
	Name string

	// Value is the cell value. Missing cells are the empty string.
	Value string
}

// RawRow is one data line from the source file, in header order.
// Keeping the header order (rather than a map) makes duplicate column
// handling deterministic: the last occurrence wins.
type RawRow []Field

// =============================================================================
// CANONICAL RECORD
// =============================================================================

// ServerRecord is the normalized server entry used to render the inventory.
// IP is never empty for a record produced by the normalizer; Address and
// PrivateKey may be empty when the source has no such column.
type ServerRecord struct {
	IP         string
	Address    string
	PrivateKey string

	// SourceRow is the row number in the source file (header is row 1).
	// It is kept for reporting only and never rendered.
	SourceRow int
}
