package pipeline

import (
	"testing"

	"github.com/NiceneNerd/ukmm-release/src/archive"
	"github.com/NiceneNerd/ukmm-release/src/config"
)

func defaultProfiles(t *testing.T) []Profile {
	t.Helper()

	profiles, err := ResolveProfiles(config.DefaultProfiles())
	if err != nil {
		t.Fatalf("resolving default profiles: %v", err)
	}
	return profiles
}

func TestResolveDefaultProfiles(t *testing.T) {
	profiles := defaultProfiles(t)

	if len(profiles) != 4 {
		t.Fatalf("expected 4 profiles, got %d", len(profiles))
	}

	want := map[string]struct {
		format    archive.Format
		ext       string
		linuxOnly bool
	}{
		"linux":     {archive.Tar, "", true},
		"macos":     {archive.Zip, "", false},
		"windows":   {archive.Zip, ".exe", false},
		"steamdeck": {archive.Tar, "", true},
	}

	for _, p := range profiles {
		w, ok := want[p.Platform]
		if !ok {
			t.Errorf("unexpected platform %q", p.Platform)
			continue
		}
		if p.Format != w.format {
			t.Errorf("%s: format = %q, want %q", p.Platform, p.Format, w.format)
		}
		if p.BinaryExt != w.ext {
			t.Errorf("%s: binary ext = %q, want %q", p.Platform, p.BinaryExt, w.ext)
		}
		if p.NeedsGUIToolkit != w.linuxOnly {
			t.Errorf("%s: NeedsGUIToolkit = %v, want %v", p.Platform, p.NeedsGUIToolkit, w.linuxOnly)
		}
		if p.SupportsCompression != w.linuxOnly {
			t.Errorf("%s: SupportsCompression = %v, want %v", p.Platform, p.SupportsCompression, w.linuxOnly)
		}
	}
}

func TestArchiveNames(t *testing.T) {
	want := map[string]string{
		"linux":     "ukmm-v1.2.3-linux.tar",
		"macos":     "ukmm-v1.2.3-macos.zip",
		"windows":   "ukmm-v1.2.3-windows.zip",
		"steamdeck": "ukmm-v1.2.3-steamdeck.tar",
	}

	for _, p := range defaultProfiles(t) {
		if got := p.ArchiveName("ukmm", "v1.2.3"); got != want[p.Platform] {
			t.Errorf("%s: archive name = %q, want %q", p.Platform, got, want[p.Platform])
		}
	}
}

func TestBinaryName(t *testing.T) {
	for _, p := range defaultProfiles(t) {
		got := p.BinaryName("ukmm")
		if p.Platform == "windows" {
			if got != "ukmm.exe" {
				t.Errorf("windows binary = %q, want ukmm.exe", got)
			}
		} else if got != "ukmm" {
			t.Errorf("%s binary = %q, want ukmm", p.Platform, got)
		}
	}
}

func TestResolveSkipsDisabled(t *testing.T) {
	cfgs := config.DefaultProfiles()
	cfgs[3].Disabled = true

	profiles, err := ResolveProfiles(cfgs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	for _, p := range profiles {
		if p.Platform == "steamdeck" {
			t.Error("disabled profile was resolved")
		}
	}
}

func TestResolveRejectsUnknownFormat(t *testing.T) {
	cfgs := []config.ProfileConfig{
		{Platform: "linux", Runner: "ubuntu-latest", ArchiveFormat: "rar"},
	}
	if _, err := ResolveProfiles(cfgs); err == nil {
		t.Fatal("expected error for unknown archive format")
	}
}

func TestSelect(t *testing.T) {
	profiles := defaultProfiles(t)

	selected, err := Select(profiles, []string{"windows"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != 1 || selected[0].Platform != "windows" {
		t.Fatalf("selected = %+v, want windows only", selected)
	}

	if _, err := Select(profiles, []string{"freebsd"}); err == nil {
		t.Fatal("expected error for unknown platform")
	}

	all, err := Select(profiles, nil)
	if err != nil || len(all) != 4 {
		t.Fatalf("empty selection should keep all profiles, got %d (%v)", len(all), err)
	}
}
