package validatorstats

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/csv-to-inventory/internal/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "0xfound":
			io.WriteString(w, `{"validators":[{
				"index": 17,
				"status": "active",
				"balance": "32123450000000000000",
				"attestationSuccess": "99.5%",
				"proposalSuccess": null,
				"performanceScore": 87.25,
				"totalAttestationsSucceeded": 120,
				"totalBlocksProposed": 3,
				"rank": 4
			}]}`)
		case "0xnone":
			io.WriteString(w, `{"validators":[]}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "upstream down")
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCollect(t *testing.T) {
	srv := newTestServer(t)
	c := NewCollector(NewClient(srv.URL, "test-agent", WithTimeout(5*time.Second)), 0, quietLogger())

	rows, err := c.Collect(context.Background(), []string{"0xfound", "0xnone", "0xbroken"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}

	found := rows[0]
	if found.Index != "17" || found.Status != "active" || found.Rank != "4" {
		t.Errorf("found row = %+v", found)
	}
	if found.BalanceETH != "32.1235" {
		t.Errorf("BalanceETH = %q, want 32.1235", found.BalanceETH)
	}
	if found.ProposalSuccess != "N/A" || found.LastProposed != "N/A" {
		t.Errorf("null fields should default to N/A: %+v", found)
	}
	if found.PerformanceScore != "87.25" || found.TotalBlocksMissed != "0" {
		t.Errorf("numeric fields = %q, %q", found.PerformanceScore, found.TotalBlocksMissed)
	}
	if found.Error != "" {
		t.Errorf("unexpected error %q", found.Error)
	}

	if rows[1].Status != "NOT_FOUND" || rows[1].Error != "Validator not found in API" {
		t.Errorf("not found row = %+v", rows[1])
	}

	if rows[2].Status != "ERROR" || !strings.Contains(rows[2].Error, "HTTP 502") {
		t.Errorf("error row = %+v", rows[2])
	}
}

func TestCollect_Cancelled(t *testing.T) {
	srv := newTestServer(t)
	c := NewCollector(NewClient(srv.URL, "test-agent"), time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	rows, err := c.Collect(ctx, []string{"0xfound", "0xnone"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows before cancel, want 1", len(rows))
	}
}

func TestFormatBalanceETH(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"1000000000000000000", "1.0"},
		{"0", "0.0"},
		{"123456789", "0.0"},
		{"1500050000000000000", "1.5001"},
		{"not a number", "0"},
		{nil, "0"},
		{42.0, "0"},
	}

	for _, tt := range tests {
		if got := FormatBalanceETH(tt.in); got != tt.want {
			t.Errorf("FormatBalanceETH(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type sliceSource struct {
	rows []types.RawRow
	i    int
}

func (s *sliceSource) Next() bool {
	if s.i >= len(s.rows) {
		return false
	}
	s.i++
	return true
}

func (s *sliceSource) Row() types.RawRow { return s.rows[s.i-1] }
func (s *sliceSource) Err() error        { return nil }

func TestReadAddresses(t *testing.T) {
	src := &sliceSource{rows: []types.RawRow{
		{{Name: "ip", Value: "1.1.1.1"}, {Name: "wallet_address", Value: "0xa"}},
		{{Name: "ip", Value: "2.2.2.2"}, {Name: "wallet_address", Value: ""}},
		{{Name: "ip", Value: "3.3.3.3"}, {Name: "ETH_ADDRESS", Value: " 0xc "}},
	}}

	got, err := ReadAddresses(src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "0xa,0xc" {
		t.Errorf("addresses = %v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []Stats{NotFound("0xa")}); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if len(records[0]) != 16 || records[0][0] != "address" || records[0][15] != "error" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "0xa" || records[1][2] != "NOT_FOUND" {
		t.Errorf("row = %v", records[1])
	}
}
