package config

// ProfileConfig is one platform build profile as written in YAML.
// The four defaults cover every platform the application ships for;
// config entries override or disable them by platform name.
type ProfileConfig struct {
	// Platform is the human-readable target name: linux, macos,
	// windows, steamdeck. Unique across profiles.
	Platform string `yaml:"platform"`

	// Runner is the host OS class the profile builds on
	// (CI runner label, e.g. "ubuntu-latest").
	Runner string `yaml:"runner"`

	// BinaryExt is appended to the produced binary name ("" or ".exe").
	BinaryExt string `yaml:"binary_ext"`

	// ArchiveFormat is "tar" or "zip".
	ArchiveFormat string `yaml:"archive_format"`

	// Disabled skips this profile entirely.
	Disabled bool `yaml:"disabled"`
}

// DefaultProfiles returns the fixed platform set.
// Linux-class hosts archive as plain tar because the binary is
// UPX-compressed first; macOS and Windows ship zip.
func DefaultProfiles() []ProfileConfig {
	return []ProfileConfig{
		{Platform: "linux", Runner: "ubuntu-latest", ArchiveFormat: "tar"},
		{Platform: "macos", Runner: "macos-latest", ArchiveFormat: "zip"},
		{Platform: "windows", Runner: "windows-latest", BinaryExt: ".exe", ArchiveFormat: "zip"},
		{Platform: "steamdeck", Runner: "ubuntu-latest", ArchiveFormat: "tar"},
	}
}
