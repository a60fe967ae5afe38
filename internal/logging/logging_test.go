package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		got := ParseLevel(tt.input)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.Info("rows processed", "accepted", 3)

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v\noutput: %s", err, buf.String())
	}
	if m["msg"] != "rows processed" {
		t.Errorf("msg = %v", m["msg"])
	}
	if m["accepted"] != float64(3) {
		t.Errorf("accepted = %v", m["accepted"])
	}
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown", "row", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "row=4") {
		t.Errorf("expected row=4 in %s", out)
	}
}

func TestConsole(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Console{Out: &out, Err: &errOut}

	c.Info("Processing %s", "servers.csv")
	c.Success("done")
	c.Error("CSV file does not exist: %s", "x.csv")
	c.Warn("row %d skipped", 3)

	if out.String() != "[INFO] Processing servers.csv\n[SUCCESS] done\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if errOut.String() != "[ERROR] CSV file does not exist: x.csv\n[WARN] row 3 skipped\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestConsoleColor(t *testing.T) {
	var out bytes.Buffer
	c := &Console{Out: &out, Err: &out, Color: true}

	c.Success("ok")

	if out.String() != "\033[0;32m[SUCCESS]\033[0m ok\n" {
		t.Errorf("colored output = %q", out.String())
	}
}
