package cargo

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Cargo invokes cargo builds against a workspace.
type Cargo struct {
	RootDir   string
	Toolchain string // rustup channel, e.g. "nightly"
	Verbose   bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// New creates a Cargo runner with default output writers.
func New(rootDir, toolchain string, verbose bool) *Cargo {
	return &Cargo{
		RootDir:   rootDir,
		Toolchain: toolchain,
		Verbose:   verbose,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// ReleaseEnv returns the env pins applied to every release build:
// one codegen unit, fat LTO, stripped symbols, statically linked
// OpenSSL, and the target platform name passed through to build.rs.
func ReleaseEnv(platform string) []string {
	return []string{
		"CARGO_PROFILE_RELEASE_CODEGEN_UNITS=1",
		"CARGO_PROFILE_RELEASE_LTO=true",
		"CARGO_PROFILE_RELEASE_STRIP=symbols",
		"OPENSSL_STATIC=1",
		"PLATFORM=" + platform,
	}
}

// BuildRelease runs `cargo +<toolchain> build --release` with the
// release env pins for the given platform.
func (c *Cargo) BuildRelease(ctx context.Context, platform string) error {
	args := []string{"build", "--release"}
	if c.Toolchain != "" {
		args = append([]string{"+" + c.Toolchain}, args...)
	}

	if c.Verbose {
		fmt.Fprintf(c.Stderr, "exec: cargo %s (PLATFORM=%s)\n", strings.Join(args, " "), platform)
	}

	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = c.RootDir
	cmd.Env = append(os.Environ(), ReleaseEnv(platform)...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cargo build failed: %w", err)
	}
	return nil
}

// BinaryPath returns where cargo places the release binary.
func (c *Cargo) BinaryPath(name, ext string) string {
	return filepath.Join(c.RootDir, "target", "release", name+ext)
}
