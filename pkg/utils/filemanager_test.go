package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureParentDirs(t *testing.T) {
	dir := t.TempDir()
	inv := filepath.Join(dir, "inventory", "hosts")
	vars := filepath.Join(dir, "vars", "nested", "server_vars.yml")

	if err := EnsureParentDirs(inv, vars); err != nil {
		t.Fatalf("EnsureParentDirs: %v", err)
	}
	for _, d := range []string{filepath.Dir(inv), filepath.Dir(vars)} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s not created", d)
		}
	}
}

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")

	if err := WriteFileAtomic(path, []byte("first\n"), 0644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second\n"), 0644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "second\n" {
		t.Errorf("content = %q", data)
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0644 {
		t.Errorf("perm = %v", info.Mode().Perm())
	}
}

func TestWriteFileAtomic_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFileAtomic(filepath.Join(dir, "hosts"), []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected files: %v", names)
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "hosts")
	if err := WriteFileAtomic(path, []byte("x"), 0644); err == nil {
		t.Fatal("expected error when directory does not exist")
	}
}

func TestHeadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")
	content := strings.Join([]string{"[g]", "node1 a", "node2 b", "node3 c", "node4 d"}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := HeadLines(path, 4)
	if err != nil {
		t.Fatalf("HeadLines: %v", err)
	}
	if len(lines) != 4 || lines[0] != "[g]" || lines[3] != "node3 c" {
		t.Errorf("lines = %v", lines)
	}

	lines, _ = HeadLines(path, 100)
	if len(lines) != 5 {
		t.Errorf("got %d lines, want 5", len(lines))
	}
}
