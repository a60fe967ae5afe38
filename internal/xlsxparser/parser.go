// =============================================================================
// CSV to Inventory Converter - XLSX Server Sheet Parser
// =============================================================================
//
// Server lists are often kept in a spreadsheet and exported to CSV by hand.
// This module reads the first visible sheet of an .xlsx workbook directly,
// using the same conventions as the CSV parser:
//
//   | Row 1 | ip       | wallet_address | priv_key  |   <- header
//   | Row 2 | 10.0.0.5 | 0xABC          | secret123 |   <- first data row
//
// Completely blank rows are skipped (as blank CSV lines are). Row numbers
// are the sheet's own row numbers, so rejections point at the cell a user
// can find in the spreadsheet.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-to-inventory/internal/csvparser"
	"github.com/ginjaninja78/csv-to-inventory/internal/types"
)

// SheetParser iterates over the rows of one worksheet.
// The API mirrors csvparser.StreamingParser.
type SheetParser struct {
	file       *excelize.File
	sheetName  string
	headers    []string
	rows       [][]string
	next       int
	currentRow types.RawRow
	rowNumber  int
}

// Open opens a workbook and loads the first sheet whose name does not
// start with "_" (such sheets are treated as scratch/hidden).
//
// RETURNS:
//   - A pointer to the SheetParser.
//   - csvparser.ErrNoHeader (wrapped) when the sheet has no header row.
func Open(workbookPath string) (*SheetParser, error) {
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheetName := ""
	for _, name := range f.GetSheetList() {
		if !strings.HasPrefix(name, "_") {
			sheetName = name
			break
		}
	}
	if sheetName == "" {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", csvparser.ErrNoHeader)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	// Skip leading blank rows to find the header.
	start := 0
	for start < len(rows) && isRowEmpty(rows[start]) {
		start++
	}
	if start == len(rows) {
		f.Close()
		return nil, fmt.Errorf("%w: sheet %q is empty", csvparser.ErrNoHeader, sheetName)
	}

	headers := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}

	return &SheetParser{
		file:      f,
		sheetName: sheetName,
		headers:   headers,
		rows:      rows,
		next:      start + 1,
		rowNumber: start + 1,
	}, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Next advances to the next non-blank row.
func (p *SheetParser) Next() bool {
	for p.next < len(p.rows) {
		row := p.rows[p.next]
		p.next++

		if isRowEmpty(row) {
			continue
		}

		// excelize rows are 0-indexed; sheet rows start at 1.
		p.rowNumber = p.next

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
	return false
}

// Row returns the current row.
func (p *SheetParser) Row() types.RawRow {
	return p.currentRow
}

// Headers returns the header row.
func (p *SheetParser) Headers() []string {
	return p.headers
}

// RowNumber returns the sheet row number of the current row.
func (p *SheetParser) RowNumber() int {
	return p.rowNumber
}

// SheetName returns the name of the sheet being read.
func (p *SheetParser) SheetName() string {
	return p.sheetName
}

// Err always returns nil; the whole sheet is loaded by Open.
func (p *SheetParser) Err() error {
	return nil
}

// Close closes the workbook.
func (p *SheetParser) Close() error {
	return p.file.Close()
}
