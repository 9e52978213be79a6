package release

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteChecksums(t *testing.T) {
	dir := t.TempDir()

	// Written out of name order to check manifest sorting.
	zipPath := filepath.Join(dir, "ukmm-v1.2.3-windows.zip")
	tarPath := filepath.Join(dir, "ukmm-v1.2.3-linux.tar")
	if err := os.WriteFile(zipPath, []byte("zip-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tarPath, []byte("tar-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := WriteChecksums(dir, "ukmm-v1.2.3-checksums.txt", []string{zipPath, tarPath})
	if err != nil {
		t.Fatalf("write checksums: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), data)
	}

	// Sorted by base name: linux before windows.
	if !strings.HasSuffix(lines[0], "  ukmm-v1.2.3-linux.tar") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "  ukmm-v1.2.3-windows.zip") {
		t.Errorf("line 1 = %q", lines[1])
	}

	for _, line := range lines {
		sum, _, ok := strings.Cut(line, "  ")
		if !ok || len(sum) != 64 {
			t.Errorf("malformed manifest line %q", line)
		}
	}
}

func TestWriteChecksumsMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteChecksums(dir, "sums.txt", []string{filepath.Join(dir, "absent")}); err == nil {
		t.Fatal("expected error for missing input")
	}
}
