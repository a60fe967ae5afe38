// =============================================================================
// CSV to Inventory Converter - CSV Parser Module
// =============================================================================
//
// This module streams server rows out of a comma-delimited CSV file with a
// single header row.
//
// FEATURES:
//   - UTF-8 byte order mark is stripped transparently
//   - Invalid UTF-8 is a read error, never silently replaced
//   - Optional legacy 8-bit encodings (ISO-8859-1, Windows-1252)
//   - Rows with fewer cells than headers get empty values
//   - Row numbers follow the spreadsheet convention: header is row 1
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/csv-to-inventory/internal/config"
	"github.com/ginjaninja78/csv-to-inventory/internal/types"
)

// ErrNoHeader is returned when the file is empty or has no header row.
var ErrNoHeader = errors.New("CSV file appears to be empty or invalid")

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads a CSV file one row at a time.
//
// USAGE:
//   parser, err := NewStreamingParser(filePath, settings)
//   if err != nil {
//       return err
//   }
//   defer parser.Close()
//
//   for parser.Next() {
//       row := parser.Row()
//       // Process the row...
//   }
//
//   if err := parser.Err(); err != nil {
//       return err
//   }
type StreamingParser struct {
	file       *os.File
	reader     *csv.Reader
	headers    []string
	currentRow types.RawRow
	rowNumber  int
	err        error

	// checkUTF8 is set when the input is read as UTF-8 without a decoder.
	checkUTF8 bool
}

// NewStreamingParser opens a CSV file and reads its header row.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV settings from the main configuration.
//
// RETURNS:
//   - A pointer to the StreamingParser.
//   - ErrNoHeader (wrapped) if the file has no header row, or an open/read error.
func NewStreamingParser(filePath string, settings config.CSVSettings) (*StreamingParser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	decoder, checkUTF8, err := newDecoder(settings.Encoding)
	if err != nil {
		file.Close()
		return nil, err
	}

	var input io.Reader = skipBOM(bufio.NewReader(file))
	if decoder != nil {
		input = transform.NewReader(bufio.NewReader(file), decoder)
	}

	parser := &StreamingParser{
		file:      file,
		reader:    newReader(input),
		checkUTF8: checkUTF8,
	}

	if err := parser.readHeaders(); err != nil {
		file.Close()
		return nil, err
	}

	return parser, nil
}

// newReader configures the CSV reader. The delimiter is always a comma.
func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = ','

	// Rows may be shorter or longer than the header.
	reader.FieldsPerRecord = -1

	// Allow quotes that don't follow strict CSV rules.
	reader.LazyQuotes = true

	return reader
}

// newDecoder returns a transformer that strips a UTF-8 BOM and decodes the
// configured encoding to UTF-8.
//
// UTF-8 needs no transformer (nil) and is validated per record instead:
// the x/text UTF-8 decoder replaces bad bytes with U+FFFD, which would
// corrupt secrets. The boolean result reports that validation is needed.
func newDecoder(encoding string) (transform.Transformer, bool, error) {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "", "UTF-8", "UTF8":
		return nil, true, nil
	case "ISO-8859-1", "LATIN1":
		return unicode.BOMOverride(charmap.ISO8859_1.NewDecoder()), false, nil
	case "WINDOWS-1252", "CP1252":
		return unicode.BOMOverride(charmap.Windows1252.NewDecoder()), false, nil
	default:
		return nil, false, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// utf8BOM is the UTF-8 byte order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM discards a leading UTF-8 byte order mark.
func skipBOM(r *bufio.Reader) *bufio.Reader {
	if head, err := r.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		r.Discard(len(utf8BOM))
	}
	return r
}

// ErrInvalidUTF8 is returned when a UTF-8 file contains invalid byte sequences.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// validRecord reports whether every cell is valid UTF-8.
func validRecord(record []string) bool {
	for _, cell := range record {
		if !utf8.ValidString(cell) {
			return false
		}
	}
	return true
}

// readHeaders reads the header row.
func (p *StreamingParser) readHeaders() error {
	row, err := p.reader.Read()
	if err == io.EOF {
		return ErrNoHeader
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoHeader, err)
	}
	if p.checkUTF8 && !validRecord(row) {
		return fmt.Errorf("%w in header row", ErrInvalidUTF8)
	}

	p.headers = cleanHeaders(row)
	if len(p.headers) == 0 {
		return ErrNoHeader
	}

	p.rowNumber = 1
	return nil
}

// cleanHeaders trims header names. An empty header gets a positional name
// so that it can never collide with a real alias.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// Next advances to the next row. Returns false when there are no more rows
// or a parse error occurred (see Err).
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	row, err := p.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
		return false
	}
	if p.checkUTF8 && !validRecord(row) {
		p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, ErrInvalidUTF8)
		return false
	}

	p.rowNumber++

	p.currentRow = make(types.RawRow, len(p.headers))
	for i, header := range p.headers {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		p.currentRow[i] = types.Field{Name: header, Value: value}
	}

	return true
}

// Row returns the current row.
func (p *StreamingParser) Row() types.RawRow {
	return p.currentRow
}

// Headers returns the parsed headers.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// RowNumber returns the current row number (header is row 1).
func (p *StreamingParser) RowNumber() int {
	return p.rowNumber
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close closes the underlying file.
func (p *StreamingParser) Close() error {
	return p.file.Close()
}
