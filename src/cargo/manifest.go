// Package cargo wraps the Rust toolchain: manifest inspection and
// release-mode build invocation.
package cargo

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Manifest holds the package identity read from Cargo.toml.
type Manifest struct {
	Name    string
	Version string
}

// ReadManifest parses the [package] table of a Cargo.toml.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var doc struct {
		Package struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if doc.Package.Name == "" {
		return nil, fmt.Errorf("%s: no [package] name", path)
	}

	return &Manifest{
		Name:    doc.Package.Name,
		Version: doc.Package.Version,
	}, nil
}
