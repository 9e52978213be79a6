package gitver

import "testing"

func TestParseTag(t *testing.T) {
	v, err := ParseTag("v1.2.3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.Major() != 1 || v.Minor() != 2 || v.Patch() != 3 {
		t.Errorf("parsed %s, want 1.2.3", v)
	}

	if _, err := ParseTag("1.2.3"); err != nil {
		t.Errorf("bare version rejected: %v", err)
	}
	if _, err := ParseTag("release-candidate"); err == nil {
		t.Error("non-semver tag accepted")
	}
}

func TestIsPrerelease(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"v1.2.3", false},
		{"v1.2.3-beta.1", true},
		{"v0.11.0-rc2", true},
		{"not-a-version", false},
	}

	for _, tt := range tests {
		if got := IsPrerelease(tt.tag); got != tt.want {
			t.Errorf("IsPrerelease(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestShortSHA(t *testing.T) {
	if got := shortSHA("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortSHA = %q", got)
	}
	if got := shortSHA("abc"); got != "abc" {
		t.Errorf("shortSHA of short input = %q", got)
	}
}
