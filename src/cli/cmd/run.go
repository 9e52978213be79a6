package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NiceneNerd/ukmm-release/src/archive"
	"github.com/NiceneNerd/ukmm-release/src/buildenv"
	"github.com/NiceneNerd/ukmm-release/src/cargo"
	"github.com/NiceneNerd/ukmm-release/src/compress"
	"github.com/NiceneNerd/ukmm-release/src/forge"
	"github.com/NiceneNerd/ukmm-release/src/gitver"
	"github.com/NiceneNerd/ukmm-release/src/output"
	"github.com/NiceneNerd/ukmm-release/src/pipeline"
	"github.com/NiceneNerd/ukmm-release/src/preflight"
	"github.com/NiceneNerd/ukmm-release/src/release"
)

var (
	runTag        string
	runPlatforms  []string
	runSkipUpload bool
	runDraft      bool
	runPrerelease bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and publish release archives for each platform profile",
	Long: `Run the release pipeline: for every platform profile, prepare the
build host, install the pinned toolchain, build the release binary,
compress it where the platform supports it, archive it, and upload
the archive to the release's asset list.

Profiles run in parallel and are fully isolated: a failure in one
never blocks the others. In a CI matrix, pass --platform so each job
runs exactly one profile.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTag, "tag", "", "release tag (default: RELEASE_TAG/GITHUB_REF_NAME/CI_COMMIT_TAG env, then exact git tag at HEAD)")
	runCmd.Flags().StringSliceVar(&runPlatforms, "platform", nil, "run only these platforms (repeatable)")
	runCmd.Flags().BoolVar(&runSkipUpload, "skip-upload", false, "stop after archiving; leave artifacts in the dist dir")
	runCmd.Flags().BoolVar(&runDraft, "draft", false, "create the release as draft if it doesn't exist")
	runCmd.Flags().BoolVar(&runPrerelease, "prerelease", false, "mark the release as prerelease if it doesn't exist")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout
	start := time.Now()

	appName, manifestVer, err := resolveApp(rootDir)
	if err != nil {
		return err
	}

	tag, gv, err := resolveTag(rootDir, runTag)
	if err != nil {
		return err
	}

	// The tag is authoritative for naming; a stale Cargo.toml version is
	// worth a note but not worth failing four builds over.
	if manifestVer != "" && manifestVer != strings.TrimPrefix(tag, "v") {
		fmt.Fprintf(os.Stderr, "note: tag %s does not match Cargo.toml version %s\n", tag, manifestVer)
	}

	profiles, err := pipeline.ResolveProfiles(cfg.Profiles)
	if err != nil {
		return err
	}
	profiles, err = pipeline.Select(profiles, runPlatforms)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no enabled profiles")
	}

	kv := []output.KV{
		{Key: "tag", Value: tag},
		{Key: "app", Value: appName},
		{Key: "profiles", Value: fmt.Sprintf("%d", len(profiles))},
	}
	if gv != nil {
		kv = append(kv, output.KV{Key: "commit", Value: gv.SHA})
	}

	// Refuse to publish a workspace with leaked credentials.
	if cfg.Preflight.Secrets {
		output.SectionStart(w, "preflight", "Preflight")
		if err := runSecretScan(ctx, rootDir, color); err != nil {
			return err
		}
		output.SectionEnd(w, "preflight")
	}

	tools := &pipeline.Tools{
		App:        appName,
		Toolchain:  cfg.Build.Toolchain,
		GTKPackage: cfg.Build.GTKPackage,
		Apt:        buildenv.NewApt(verbose),
		Rustup:     buildenv.NewRustup(verbose),
		Cargo:      cargo.New(rootDir, cfg.Build.Toolchain, verbose),
		UPX:        compress.NewUPX(verbose),
		Dist:       &archive.Writer{Dir: cfg.App.DistDir},
	}

	var forgeClient forge.Forge
	var rel *forge.Release
	if !runSkipUpload {
		forgeClient, rel, err = ensureRelease(ctx, gv, tag)
		if err != nil {
			return err
		}
		tools.Forge = forgeClient
		tools.ReleaseID = rel.ID
		kv = append(kv,
			output.KV{Key: "forge", Value: string(forgeClient.Provider())},
			output.KV{Key: "release", Value: rel.URL},
		)
	}

	output.ContextBlock(w, kv)

	runner := &pipeline.Runner{Exec: tools, SkipUpload: runSkipUpload}
	results := runner.Run(ctx, tag, profiles)

	pipeline.Report(w, results, time.Since(start), color)

	// The checksum manifest spans every platform archive, so it is only
	// produced when a single invocation ran the full profile set.
	if len(runPlatforms) == 0 && !runSkipUpload && !pipeline.Failed(results) {
		if err := publishChecksums(ctx, w, forgeClient, rel, appName, tag, pipeline.Archives(results), color); err != nil {
			return err
		}
	}

	if pipeline.Failed(results) {
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", res.Err)
			}
		}
		return fmt.Errorf("release pipeline failed")
	}
	return nil
}

// resolveApp returns the artifact base name (config override first,
// then the Cargo manifest) and the manifest version when readable.
func resolveApp(rootDir string) (string, string, error) {
	manifestPath := cfg.App.Manifest
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(rootDir, manifestPath)
	}
	m, err := cargo.ReadManifest(manifestPath)

	if cfg.App.Name != "" {
		ver := ""
		if err == nil {
			ver = m.Version
		}
		return cfg.App.Name, ver, nil
	}
	if err != nil {
		return "", "", fmt.Errorf("resolving app name (set app.name to override): %w", err)
	}
	return m.Name, m.Version, nil
}

// resolveTag resolves the release tag: flag, then the CI event env,
// then the exact git tag at HEAD. Git metadata is returned when
// available for forge detection, but is not required when the flag or
// env supply both tag and repository identity.
func resolveTag(rootDir, flagTag string) (string, *gitver.Info, error) {
	gv, gvErr := gitver.Detect(rootDir)

	tag := flagTag
	if tag == "" {
		for _, env := range []string{"RELEASE_TAG", "GITHUB_REF_NAME", "CI_COMMIT_TAG"} {
			if v := os.Getenv(env); v != "" {
				tag = v
				break
			}
		}
	}
	if tag == "" {
		if gvErr != nil {
			return "", nil, fmt.Errorf("no --tag given and git detection failed: %w", gvErr)
		}
		if gv.Tag == "" {
			return "", nil, fmt.Errorf("no --tag given and HEAD is not tagged")
		}
		tag = gv.Tag
	}

	if gvErr != nil {
		return tag, nil, nil
	}
	return tag, gv, nil
}

// ensureRelease detects the forge from the git remote and returns the
// release for the tag, creating it when the publish event hasn't.
func ensureRelease(ctx context.Context, gv *gitver.Info, tag string) (forge.Forge, *forge.Release, error) {
	if gv == nil || gv.RemoteURL == "" {
		return nil, nil, fmt.Errorf("no git remote URL found; cannot detect forge (use --skip-upload to build without publishing)")
	}

	provider := forge.DetectProvider(gv.RemoteURL)
	client, err := forge.New(provider, gv.RemoteURL)
	if err != nil {
		return nil, nil, err
	}

	rel, err := client.EnsureRelease(ctx, forge.ReleaseOptions{
		TagName:    tag,
		Draft:      runDraft,
		Prerelease: runPrerelease || gitver.IsPrerelease(tag),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolving release for %s: %w", tag, err)
	}
	return client, rel, nil
}

// runSecretScan aborts the pipeline when the workspace leaks credentials.
func runSecretScan(ctx context.Context, rootDir string, color bool) error {
	scanner, err := preflight.NewSecretScanner()
	if err != nil {
		return fmt.Errorf("initializing secret scanner: %w", err)
	}

	findings, err := scanner.ScanDir(ctx, rootDir)
	if err != nil {
		return fmt.Errorf("secret scan: %w", err)
	}
	if len(findings) == 0 {
		return nil
	}

	sec := output.NewSection(os.Stdout, "secrets", 0, color)
	for _, f := range findings {
		sec.Row("%s:%d  %s", f.File, f.Line, f.Description)
	}
	sec.Close()
	return fmt.Errorf("refusing to publish: %d potential secret(s) in workspace", len(findings))
}

// publishChecksums writes the cross-platform checksum manifest, signs
// it when a key is configured, and uploads both as release assets.
func publishChecksums(ctx context.Context, w *os.File, client forge.Forge, rel *forge.Release, appName, tag string, archives []string, color bool) error {
	if len(archives) == 0 {
		return nil
	}

	name := fmt.Sprintf("%s-%s-checksums.txt", appName, tag)
	sumPath, err := release.WriteChecksums(cfg.App.DistDir, name, archives)
	if err != nil {
		return fmt.Errorf("writing checksums: %w", err)
	}

	assets := []string{sumPath}
	if cfg.Signing.KeyFile != "" {
		passphrase := ""
		if cfg.Signing.PassphraseEnv != "" {
			passphrase = os.Getenv(cfg.Signing.PassphraseEnv)
		}
		sigPath, err := release.SignDetached(sumPath, cfg.Signing.KeyFile, passphrase)
		if err != nil {
			return fmt.Errorf("signing checksums: %w", err)
		}
		assets = append(assets, sigPath)
	}

	sec := output.NewSection(w, "checksums", 0, color)
	for _, path := range assets {
		if err := client.UploadAsset(ctx, rel.ID, forge.Asset{
			Name:     filepath.Base(path),
			FilePath: path,
		}); err != nil {
			return fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
		}
		sec.Row("%-40s%s", filepath.Base(path), output.StatusIcon("success", color))
	}
	sec.Close()
	return nil
}
