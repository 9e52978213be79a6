// Package preflight runs pre-publish workspace checks. A release that
// ships a leaked credential inside a prebuilt archive cannot be
// unpublished cleanly, so the scan runs before any build starts.
package preflight

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// maxScanSize skips large files — release binaries and archives are not
// meaningfully scannable for secrets.
const maxScanSize = 1 << 20

// Finding is a detected secret.
type Finding struct {
	File        string
	Line        int
	RuleID      string
	Description string
}

// SecretScanner detects leaked credentials using the default gitleaks ruleset.
type SecretScanner struct {
	detector *detect.Detector
	skipDirs map[string]bool
}

// NewSecretScanner creates a scanner with the default gitleaks config.
func NewSecretScanner() (*SecretScanner, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, err
	}
	return &SecretScanner{
		detector: d,
		skipDirs: map[string]bool{
			".git":         true,
			"target":       true,
			"dist":         true,
			"node_modules": true,
		},
	}, nil
}

// ScanDir walks root and scans every regular file under the size cap.
func (s *SecretScanner) ScanDir(ctx context.Context, root string) ([]Finding, error) {
	var findings []Finding

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if s.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxScanSize {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		for _, hit := range s.detector.DetectBytes(data) {
			findings = append(findings, Finding{
				File:        rel,
				Line:        hit.StartLine + 1, // gitleaks is 0-indexed
				RuleID:      hit.RuleID,
				Description: hit.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findings, nil
}
