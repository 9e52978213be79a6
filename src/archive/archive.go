// Package archive packages built binaries into release archives.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
)

// Format is a supported archive container format.
type Format string

const (
	Tar Format = "tar"
	Zip Format = "zip"
)

// ParseFormat validates an archive format string from config.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Tar:
		return Tar, nil
	case Zip:
		return Zip, nil
	default:
		return "", fmt.Errorf("unknown archive format %q (supported: tar, zip)", s)
	}
}

// Ext returns the filename extension for the format, without a leading dot.
func (f Format) Ext() string { return string(f) }

func (f Format) archival() archives.Archival {
	if f == Zip {
		return archives.Zip{}
	}
	// Plain tar, no gzip layer — the binary inside is already
	// UPX-compressed on the platforms that use tar.
	return archives.Tar{}
}

// Writer creates archives in a destination directory.
type Writer struct {
	Dir string // destination directory, created on demand
}

// Create archives the given files under their base names into Dir/name.
// Returns the path of the written archive.
func (w *Writer) Create(ctx context.Context, format Format, name string, paths ...string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating dist dir: %w", err)
	}

	nameMap := make(map[string]string, len(paths))
	for _, p := range paths {
		nameMap[p] = filepath.Base(p)
	}

	files, err := archives.FilesFromDisk(ctx, nil, nameMap)
	if err != nil {
		return "", fmt.Errorf("collecting archive inputs: %w", err)
	}

	dst := filepath.Join(w.Dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if err := format.archival().Archive(ctx, out, files); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing %s archive: %w", format, err)
	}

	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}
