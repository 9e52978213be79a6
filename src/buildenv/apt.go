// Package buildenv prepares the build host: system packages and the
// Rust toolchain. Both wrap external processes the way the build
// pipeline treats all tools — opaque, blocking, pass/fail.
package buildenv

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Apt installs build prerequisites via the system package manager.
type Apt struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewApt creates an Apt runner with default output writers.
func NewApt(verbose bool) *Apt {
	return &Apt{Verbose: verbose, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Install installs the given packages, non-interactively.
// Prefixes with sudo when not running as root (CI runners vary).
func (a *Apt) Install(ctx context.Context, pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}

	args := append([]string{"apt-get", "install", "-y", "--no-install-recommends"}, pkgs...)
	if os.Geteuid() != 0 {
		args = append([]string{"sudo"}, args...)
	}

	if a.Verbose {
		fmt.Fprintf(a.Stderr, "exec: %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	cmd.Stdout = a.Stdout
	cmd.Stderr = a.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("apt-get install %s failed: %w", strings.Join(pkgs, " "), err)
	}
	return nil
}
