// Package compress shrinks release binaries with UPX before archiving.
package compress

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// UPX wraps the upx binary compressor.
type UPX struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewUPX creates a UPX runner with default output writers.
func NewUPX(verbose bool) *UPX {
	return &UPX{Verbose: verbose, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Compress runs upx in-place on the given binary with the highest
// ratio settings. The binary must not be running.
func (u *UPX) Compress(ctx context.Context, path string) error {
	if u.Verbose {
		fmt.Fprintf(u.Stderr, "exec: upx --best --lzma %s\n", path)
	}

	cmd := exec.CommandContext(ctx, "upx", "--best", "--lzma", path)
	cmd.Stdout = u.Stdout
	cmd.Stderr = u.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("upx failed on %s: %w", path, err)
	}
	return nil
}
