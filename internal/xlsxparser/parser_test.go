package xlsxparser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-to-inventory/internal/csvparser"
)

func writeWorkbook(t *testing.T, rows map[string][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for cell, values := range rows {
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("SetSheetRow %s: %v", cell, err)
		}
	}

	path := filepath.Join(t.TempDir(), "servers.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestOpen_ReadsRows(t *testing.T) {
	path := writeWorkbook(t, map[string][]interface{}{
		"A1": {"IP", "Wallet_Address", "Priv_Key"},
		"A2": {"10.0.0.5", "0xABC", "secret123"},
		"A4": {"10.0.0.6", "0xDEF", ""},
	})

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	if p.SheetName() != "Sheet1" {
		t.Errorf("sheet = %q", p.SheetName())
	}
	if got := p.Headers(); len(got) != 3 || got[1] != "Wallet_Address" {
		t.Errorf("headers = %v", got)
	}

	var ips []string
	var numbers []int
	for p.Next() {
		ips = append(ips, p.Row()[0].Value)
		numbers = append(numbers, p.RowNumber())
	}
	if err := p.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	if len(ips) != 2 || ips[0] != "10.0.0.5" || ips[1] != "10.0.0.6" {
		t.Errorf("ips = %v", ips)
	}
	// Blank sheet row 3 is skipped; numbering follows the sheet.
	if numbers[0] != 2 || numbers[1] != 4 {
		t.Errorf("row numbers = %v, want [2 4]", numbers)
	}
}

func TestOpen_EmptySheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	_, err := Open(path)
	if !errors.Is(err, csvparser.ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestOpen_NotAWorkbook(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Fatal("expected error for missing workbook")
	}
}
