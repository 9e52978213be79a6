// Package release produces the cross-platform release manifest:
// a SHA-256 checksum file over all uploaded archives, optionally with
// an armored detached PGP signature.
package release

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WriteChecksums writes a sha256sum-compatible manifest of the given
// files into dir/name and returns its path. Entries are sorted by file
// base name so the manifest is stable across profile completion order.
func WriteChecksums(dir, name string, files []string) (string, error) {
	sorted := append([]string(nil), files...)
	sort.Slice(sorted, func(i, j int) bool {
		return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
	})

	var b strings.Builder
	for _, path := range sorted {
		sum, err := fileSHA256(path)
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", path, err)
		}
		fmt.Fprintf(&b, "%s  %s\n", sum, filepath.Base(path))
	}

	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
