package forge

import "testing"

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		remote string
		want   Provider
	}{
		{"https://github.com/NiceneNerd/ukmm.git", GitHub},
		{"git@github.com:NiceneNerd/ukmm.git", GitHub},
		{"https://gitlab.com/group/project.git", GitLab},
		{"https://gitlab.example.org/group/project.git", GitLab},
		{"https://codeberg.org/owner/repo.git", Gitea},
		{"git@gitea.example.com:owner/repo.git", Gitea},
		{"https://forgejo.example.com/owner/repo.git", Gitea},
		{"https://git.internal.example/owner/repo.git", Unknown},
	}

	for _, tt := range tests {
		if got := DetectProvider(tt.remote); got != tt.want {
			t.Errorf("DetectProvider(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"https://github.com/NiceneNerd/ukmm.git", "https://github.com"},
		{"http://git.example.com/owner/repo", "http://git.example.com"},
		{"git@github.com:NiceneNerd/ukmm.git", "https://github.com"},
		{"https://codeberg.org", "https://codeberg.org"},
	}

	for _, tt := range tests {
		if got := BaseURL(tt.remote); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Unknown, "ssh://somewhere/repo"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
