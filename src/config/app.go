package config

// AppConfig identifies the application being released.
type AppConfig struct {
	// Name is the binary/artifact base name. Empty = read from the
	// package manifest.
	Name string `yaml:"name"`

	// Manifest is the path to the application's Cargo.toml, used to
	// resolve the name and to sanity-check the release tag against the
	// crate version.
	Manifest string `yaml:"manifest"`

	// DistDir is where archives and checksum files are written.
	DistDir string `yaml:"dist_dir"`
}

// DefaultAppConfig returns defaults for the repo-root layout.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Manifest: "Cargo.toml",
		DistDir:  "dist",
	}
}

// BuildConfig pins the compiler toolchain and host preparation.
type BuildConfig struct {
	// Toolchain is the rustup channel installed before building.
	// The application needs nightly-only features, so this is not "stable".
	Toolchain string `yaml:"toolchain"`

	// GTKPackage is the GUI toolkit dev package installed on Linux-class
	// hosts before building.
	GTKPackage string `yaml:"gtk_package"`
}

// DefaultBuildConfig returns the pinned build environment.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Toolchain:  "nightly",
		GTKPackage: "libgtk-3-dev",
	}
}

// PreflightConfig controls pre-publish workspace checks.
type PreflightConfig struct {
	// Secrets scans the workspace for leaked credentials before any
	// build starts and refuses to publish on findings (default: true).
	Secrets bool `yaml:"secrets"`
}

// DefaultPreflightConfig enables all preflight checks.
func DefaultPreflightConfig() PreflightConfig {
	return PreflightConfig{Secrets: true}
}

// SigningConfig controls checksum manifest signing.
// Empty KeyFile disables signing.
type SigningConfig struct {
	// KeyFile is the path to an armored PGP private key.
	KeyFile string `yaml:"key_file"`

	// PassphraseEnv names the env var holding the key passphrase.
	PassphraseEnv string `yaml:"passphrase_env"`
}
