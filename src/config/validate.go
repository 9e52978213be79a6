package config

import (
	"fmt"
	"strings"
)

// Validate checks structural invariants of a loaded Config.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Build.Toolchain == "" {
		errs = append(errs, "build.toolchain: must not be empty")
	}

	seen := make(map[string]bool)
	for i, p := range cfg.Profiles {
		ppath := fmt.Sprintf("profiles[%d]", i)

		if p.Platform == "" {
			errs = append(errs, fmt.Sprintf("%s: platform is required", ppath))
		} else if seen[p.Platform] {
			errs = append(errs, fmt.Sprintf("%s: duplicate platform %q", ppath, p.Platform))
		} else {
			seen[p.Platform] = true
		}

		if p.Runner == "" {
			errs = append(errs, fmt.Sprintf("%s: runner is required", ppath))
		}

		switch p.ArchiveFormat {
		case "tar", "zip":
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown archive format %q (supported: tar, zip)", ppath, p.ArchiveFormat))
		}

		if p.BinaryExt != "" && !strings.HasPrefix(p.BinaryExt, ".") {
			errs = append(errs, fmt.Sprintf("%s: binary_ext %q must start with a dot", ppath, p.BinaryExt))
		}
	}

	if cfg.Signing.KeyFile == "" && cfg.Signing.PassphraseEnv != "" {
		errs = append(errs, "signing.passphrase_env: set without signing.key_file")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
