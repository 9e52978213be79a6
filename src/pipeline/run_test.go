package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
)

// fakeExec records which steps ran for which platforms and can be told
// to fail one step for one platform.
type fakeExec struct {
	mu    sync.Mutex
	calls map[string][]string // step name -> platforms, in call order

	failStep     string
	failPlatform string
}

func newFakeExec() *fakeExec {
	return &fakeExec{calls: make(map[string][]string)}
}

func (f *fakeExec) record(step, platform string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[step] = append(f.calls[step], platform)
	if f.failStep == step && f.failPlatform == platform {
		return errors.New("injected failure")
	}
	return nil
}

func (f *fakeExec) platforms(step string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls[step]...)
	sort.Strings(out)
	return out
}

func (f *fakeExec) PrepareHost(ctx context.Context, p Profile) error {
	return f.record("prepare", p.Platform)
}

func (f *fakeExec) InstallToolchain(ctx context.Context, p Profile) error {
	return f.record("toolchain", p.Platform)
}

func (f *fakeExec) Build(ctx context.Context, p Profile) (string, error) {
	if err := f.record("build", p.Platform); err != nil {
		return "", err
	}
	return filepath.Join("target", "release", p.BinaryName("ukmm")), nil
}

func (f *fakeExec) Compress(ctx context.Context, p Profile, binPath string) error {
	return f.record("compress", p.Platform)
}

func (f *fakeExec) Archive(ctx context.Context, p Profile, tag, binPath string) (string, error) {
	if err := f.record("archive", p.Platform); err != nil {
		return "", err
	}
	return filepath.Join("dist", p.ArchiveName("ukmm", tag)), nil
}

func (f *fakeExec) Upload(ctx context.Context, p Profile, archivePath string) error {
	return f.record("upload", p.Platform)
}

func resultFor(t *testing.T, results []ProfileResult, platform string) ProfileResult {
	t.Helper()
	for _, r := range results {
		if r.Profile.Platform == platform {
			return r
		}
	}
	t.Fatalf("no result for platform %q", platform)
	return ProfileResult{}
}

func TestRunConditionalSteps(t *testing.T) {
	exec := newFakeExec()
	runner := &Runner{Exec: exec}

	results := runner.Run(context.Background(), "v1.2.3", defaultProfiles(t))

	if Failed(results) {
		t.Fatalf("unexpected failure: %+v", results)
	}

	linuxOnly := []string{"linux", "steamdeck"}
	all := []string{"linux", "macos", "steamdeck", "windows"}

	if got := exec.platforms("prepare"); !equalStrings(got, linuxOnly) {
		t.Errorf("prepare ran for %v, want %v", got, linuxOnly)
	}
	if got := exec.platforms("compress"); !equalStrings(got, linuxOnly) {
		t.Errorf("compress ran for %v, want %v", got, linuxOnly)
	}
	for _, step := range []string{"toolchain", "build", "archive", "upload"} {
		if got := exec.platforms(step); !equalStrings(got, all) {
			t.Errorf("%s ran for %v, want %v", step, got, all)
		}
	}
}

func TestRunAssetNames(t *testing.T) {
	exec := newFakeExec()
	runner := &Runner{Exec: exec}

	results := runner.Run(context.Background(), "v1.2.3", defaultProfiles(t))

	var names []string
	for _, r := range results {
		names = append(names, r.AssetName)
	}
	sort.Strings(names)

	want := []string{
		"ukmm-v1.2.3-linux.tar",
		"ukmm-v1.2.3-macos.zip",
		"ukmm-v1.2.3-steamdeck.tar",
		"ukmm-v1.2.3-windows.zip",
	}
	if !equalStrings(names, want) {
		t.Errorf("asset names = %v, want %v", names, want)
	}
}

func TestFailureIsolation(t *testing.T) {
	exec := newFakeExec()
	exec.failStep = "build"
	exec.failPlatform = "macos"
	runner := &Runner{Exec: exec}

	results := runner.Run(context.Background(), "v1.2.3", defaultProfiles(t))

	failed := resultFor(t, results, "macos")
	if failed.Status != "failed" {
		t.Fatalf("macos status = %q, want failed", failed.Status)
	}
	if failed.FailedStage != StageBuilding {
		t.Errorf("macos failed stage = %q, want %q", failed.FailedStage, StageBuilding)
	}
	if failed.Err == nil {
		t.Error("macos result has no error")
	}

	// The failing profile must not reach later stages.
	for _, p := range exec.platforms("archive") {
		if p == "macos" {
			t.Error("macos reached archiving after a build failure")
		}
	}
	for _, p := range exec.platforms("upload") {
		if p == "macos" {
			t.Error("macos reached uploading after a build failure")
		}
	}

	// Siblings complete independently.
	for _, platform := range []string{"linux", "windows", "steamdeck"} {
		r := resultFor(t, results, platform)
		if r.Status != "success" {
			t.Errorf("%s status = %q, want success despite macos failure", platform, r.Status)
		}
		if r.AssetName == "" {
			t.Errorf("%s produced no asset", platform)
		}
	}
}

func TestFailureAtPrepareHaltsProfile(t *testing.T) {
	exec := newFakeExec()
	exec.failStep = "prepare"
	exec.failPlatform = "linux"
	runner := &Runner{Exec: exec}

	results := runner.Run(context.Background(), "v1.2.3", defaultProfiles(t))

	failed := resultFor(t, results, "linux")
	if failed.FailedStage != StagePreparing {
		t.Errorf("failed stage = %q, want %q", failed.FailedStage, StagePreparing)
	}

	for _, step := range []string{"toolchain", "build", "compress", "archive", "upload"} {
		for _, p := range exec.platforms(step) {
			if p == "linux" {
				t.Errorf("linux reached %s after prepare failure", step)
			}
		}
	}
}

func TestSkipUpload(t *testing.T) {
	exec := newFakeExec()
	runner := &Runner{Exec: exec, SkipUpload: true}

	results := runner.Run(context.Background(), "v1.2.3", defaultProfiles(t))

	if Failed(results) {
		t.Fatalf("unexpected failure: %+v", results)
	}
	if got := exec.platforms("upload"); len(got) != 0 {
		t.Errorf("upload ran for %v with SkipUpload set", got)
	}

	for _, r := range results {
		last := r.Steps[len(r.Steps)-1]
		if last.Stage != StageUploading || last.Status != "skipped" {
			t.Errorf("%s: last step = %+v, want skipped upload", r.Profile.Platform, last)
		}
	}
}

func TestArchivesCollectsSuccessesOnly(t *testing.T) {
	exec := newFakeExec()
	exec.failStep = "archive"
	exec.failPlatform = "windows"
	runner := &Runner{Exec: exec}

	results := runner.Run(context.Background(), "v1.2.3", defaultProfiles(t))

	paths := Archives(results)
	if len(paths) != 3 {
		t.Fatalf("got %d archives, want 3: %v", len(paths), paths)
	}
	for _, p := range paths {
		if filepath.Base(p) == "ukmm-v1.2.3-windows.zip" {
			t.Error("failed profile's archive listed")
		}
	}
}

func equalStrings(a, b []string) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}
