package archive

import (
	stdtar "archive/tar"
	stdzip "archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeBinary(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ukmm")
	if err := os.WriteFile(path, []byte("\x7fELF fake binary"), 0o755); err != nil {
		t.Fatalf("writing binary: %v", err)
	}
	return path
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"tar", "zip"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q): %v", valid, err)
		}
	}
	if _, err := ParseFormat("7z"); err == nil {
		t.Error("ParseFormat accepted unknown format")
	}
}

func TestCreateTar(t *testing.T) {
	tmp := t.TempDir()
	bin := writeBinary(t, tmp)
	w := &Writer{Dir: filepath.Join(tmp, "dist")}

	path, err := w.Create(context.Background(), Tar, "ukmm-v1.2.3-linux.tar", bin)
	if err != nil {
		t.Fatalf("create tar: %v", err)
	}
	if filepath.Base(path) != "ukmm-v1.2.3-linux.tar" {
		t.Errorf("archive path = %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer f.Close()

	tr := stdtar.NewReader(f)
	hdr, err := tr.Next()
	if err != nil {
		t.Fatalf("reading tar: %v", err)
	}
	if filepath.Base(hdr.Name) != "ukmm" {
		t.Errorf("tar entry = %q, want ukmm", hdr.Name)
	}
	data, err := io.ReadAll(tr)
	if err != nil {
		t.Fatalf("reading entry: %v", err)
	}
	if string(data) != "\x7fELF fake binary" {
		t.Errorf("entry content mismatch: %q", data)
	}
}

func TestCreateZip(t *testing.T) {
	tmp := t.TempDir()
	bin := writeBinary(t, tmp)
	w := &Writer{Dir: filepath.Join(tmp, "dist")}

	path, err := w.Create(context.Background(), Zip, "ukmm-v1.2.3-macos.zip", bin)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}

	zr, err := stdzip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening zip: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 1 {
		t.Fatalf("zip has %d entries, want 1", len(zr.File))
	}
	if name := filepath.Base(zr.File[0].Name); name != "ukmm" {
		t.Errorf("zip entry = %q, want ukmm", name)
	}
}

func TestCreateMissingInput(t *testing.T) {
	w := &Writer{Dir: t.TempDir()}
	if _, err := w.Create(context.Background(), Tar, "x.tar", "does/not/exist"); err == nil {
		t.Fatal("expected error for missing input file")
	}
}
