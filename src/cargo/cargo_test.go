package cargo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReleaseEnvPins(t *testing.T) {
	env := ReleaseEnv("steamdeck")

	want := []string{
		"CARGO_PROFILE_RELEASE_CODEGEN_UNITS=1",
		"CARGO_PROFILE_RELEASE_LTO=true",
		"CARGO_PROFILE_RELEASE_STRIP=symbols",
		"OPENSSL_STATIC=1",
		"PLATFORM=steamdeck",
	}

	if len(env) != len(want) {
		t.Fatalf("got %d env pins, want %d: %v", len(env), len(want), env)
	}
	for i, w := range want {
		if env[i] != w {
			t.Errorf("env[%d] = %q, want %q", i, env[i], w)
		}
	}
}

func TestBinaryPath(t *testing.T) {
	c := New("/work", "nightly", false)

	got := c.BinaryPath("ukmm", ".exe")
	want := filepath.Join("/work", "target", "release", "ukmm.exe")
	if got != want {
		t.Errorf("binary path = %q, want %q", got, want)
	}

	if got := c.BinaryPath("ukmm", ""); !strings.HasSuffix(got, "ukmm") {
		t.Errorf("extension-free binary path = %q", got)
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	content := `
[package]
name = "ukmm"
version = "0.11.1"
edition = "2021"

[dependencies]
anyhow = "1.0"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if m.Name != "ukmm" {
		t.Errorf("name = %q, want ukmm", m.Name)
	}
	if m.Version != "0.11.1" {
		t.Errorf("version = %q, want 0.11.1", m.Version)
	}
}

func TestReadManifestNoPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	if err := os.WriteFile(path, []byte("[workspace]\nmembers = []\n"), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	if _, err := ReadManifest(path); err == nil {
		t.Fatal("expected error for manifest without [package]")
	}
}
