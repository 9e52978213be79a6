package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NiceneNerd/ukmm-release/src/archive"
	"github.com/NiceneNerd/ukmm-release/src/buildenv"
	"github.com/NiceneNerd/ukmm-release/src/cargo"
	"github.com/NiceneNerd/ukmm-release/src/compress"
	"github.com/NiceneNerd/ukmm-release/src/forge"
)

// Executor performs the external-tool steps of a profile run. Each call
// blocks until the underlying process or service returns; the runner
// never retries a failed step.
type Executor interface {
	// PrepareHost installs host prerequisites (GUI toolkit dev package).
	// Called only for profiles with NeedsGUIToolkit.
	PrepareHost(ctx context.Context, p Profile) error

	// InstallToolchain installs the pinned compiler channel.
	InstallToolchain(ctx context.Context, p Profile) error

	// Build compiles the release binary and returns its path.
	Build(ctx context.Context, p Profile) (string, error)

	// Compress shrinks the binary in place. Called only for profiles
	// with SupportsCompression.
	Compress(ctx context.Context, p Profile, binPath string) error

	// Archive packages the binary and returns the archive path.
	Archive(ctx context.Context, p Profile, tag, binPath string) (string, error)

	// Upload attaches the archive to the release.
	Upload(ctx context.Context, p Profile, archivePath string) error
}

// Tools is the production Executor, delegating each step to its
// external tool wrapper.
type Tools struct {
	App        string // binary/artifact base name
	Toolchain  string // rustup channel
	GTKPackage string

	Apt    *buildenv.Apt
	Rustup *buildenv.Rustup
	Cargo  *cargo.Cargo
	UPX    *compress.UPX
	Dist   *archive.Writer

	Forge     forge.Forge // nil when uploads are skipped
	ReleaseID string      // forge release the assets attach to
}

func (t *Tools) PrepareHost(ctx context.Context, p Profile) error {
	return t.Apt.Install(ctx, t.GTKPackage)
}

func (t *Tools) InstallToolchain(ctx context.Context, p Profile) error {
	return t.Rustup.EnsureToolchain(ctx, t.Toolchain)
}

func (t *Tools) Build(ctx context.Context, p Profile) (string, error) {
	if err := t.Cargo.BuildRelease(ctx, p.Platform); err != nil {
		return "", err
	}

	bin := t.Cargo.BinaryPath(t.App, p.BinaryExt)
	if _, err := os.Stat(bin); err != nil {
		return "", fmt.Errorf("build succeeded but binary missing at %s: %w", bin, err)
	}
	return bin, nil
}

func (t *Tools) Compress(ctx context.Context, p Profile, binPath string) error {
	return t.UPX.Compress(ctx, binPath)
}

func (t *Tools) Archive(ctx context.Context, p Profile, tag, binPath string) (string, error) {
	return t.Dist.Create(ctx, p.Format, p.ArchiveName(t.App, tag), binPath)
}

func (t *Tools) Upload(ctx context.Context, p Profile, archivePath string) error {
	if t.Forge == nil {
		return fmt.Errorf("no forge client configured")
	}
	return t.Forge.UploadAsset(ctx, t.ReleaseID, forge.Asset{
		Name:     filepath.Base(archivePath),
		FilePath: archivePath,
	})
}
