package buildenv

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Rustup manages Rust toolchain installation.
type Rustup struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRustup creates a Rustup runner with default output writers.
func NewRustup(verbose bool) *Rustup {
	return &Rustup{Verbose: verbose, Stdout: os.Stdout, Stderr: os.Stderr}
}

// EnsureToolchain installs the given channel with a minimal profile.
// Install is idempotent; an already-present toolchain is a no-op.
func (r *Rustup) EnsureToolchain(ctx context.Context, channel string) error {
	if r.Verbose {
		fmt.Fprintf(r.Stderr, "exec: rustup toolchain install %s\n", channel)
	}

	cmd := exec.CommandContext(ctx, "rustup", "toolchain", "install", channel, "--profile", "minimal")
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("rustup toolchain install %s failed: %w", channel, err)
	}
	return nil
}
