// Package pipeline orchestrates the per-platform release runs: prepare,
// build, compress, archive, upload. Profiles are independent; one
// profile's failure never touches a sibling.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/NiceneNerd/ukmm-release/src/archive"
	"github.com/NiceneNerd/ukmm-release/src/config"
)

// Profile is one resolved platform build profile. Immutable for the
// duration of its run.
type Profile struct {
	Platform  string // linux, macos, windows, steamdeck
	Runner    string // host OS class (CI runner label)
	BinaryExt string // "" or ".exe"
	Format    archive.Format

	// Capability flags, derived once from the runner OS class.
	NeedsGUIToolkit     bool // install GTK dev package before building
	SupportsCompression bool // UPX the binary before archiving
}

// ResolveProfiles converts config entries into resolved profiles.
// Disabled entries are dropped; capability flags are derived from the
// runner class rather than branching inline through the pipeline.
func ResolveProfiles(cfgs []config.ProfileConfig) ([]Profile, error) {
	profiles := make([]Profile, 0, len(cfgs))
	for _, c := range cfgs {
		if c.Disabled {
			continue
		}

		format, err := archive.ParseFormat(c.ArchiveFormat)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", c.Platform, err)
		}

		linux := isLinuxClass(c.Runner)
		profiles = append(profiles, Profile{
			Platform:            c.Platform,
			Runner:              c.Runner,
			BinaryExt:           c.BinaryExt,
			Format:              format,
			NeedsGUIToolkit:     linux,
			SupportsCompression: linux,
		})
	}
	return profiles, nil
}

// Select filters profiles by platform name. Empty selection keeps all.
func Select(profiles []Profile, platforms []string) ([]Profile, error) {
	if len(platforms) == 0 {
		return profiles, nil
	}

	byName := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		byName[p.Platform] = p
	}

	selected := make([]Profile, 0, len(platforms))
	for _, name := range platforms {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown platform %q", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

// isLinuxClass reports whether the runner label is a Linux-variant host.
// Both "linux" and "steamdeck" build on ubuntu runners.
func isLinuxClass(runner string) bool {
	r := strings.ToLower(runner)
	return strings.HasPrefix(r, "ubuntu") || strings.Contains(r, "linux")
}

// BinaryName returns the raw binary filename for this profile.
func (p Profile) BinaryName(app string) string {
	return app + p.BinaryExt
}

// ArchiveName returns the composite artifact name, unique within a
// release by construction: {app}-{tag}-{platform}.{format}.
func (p Profile) ArchiveName(app, tag string) string {
	return fmt.Sprintf("%s-%s-%s.%s", app, tag, p.Platform, p.Format.Ext())
}
