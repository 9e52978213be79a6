// Package forge provides a platform-agnostic abstraction over git forges
// (GitHub, GitLab, Gitea/Forgejo). The pipeline publishes release assets
// through this interface so it works identically regardless of where the
// repo is hosted.
package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Provider identifies a git forge platform.
type Provider string

const (
	GitLab  Provider = "gitlab"
	GitHub  Provider = "github"
	Gitea   Provider = "gitea"
	Unknown Provider = "unknown"
)

// Forge is the interface every platform implements.
type Forge interface {
	// Provider returns which platform this forge represents.
	Provider() Provider

	// EnsureRelease returns the release for the tag, creating it if the
	// forge has none. The pipeline normally runs against a release that
	// the publish event already created.
	EnsureRelease(ctx context.Context, opts ReleaseOptions) (*Release, error)

	// UploadAsset attaches a file to an existing release. Behavior when
	// an asset with the same name exists is the forge's, not ours.
	UploadAsset(ctx context.Context, releaseID string, asset Asset) error
}

// ReleaseOptions configures release lookup/creation.
type ReleaseOptions struct {
	TagName    string
	Name       string // display name, defaults to tag
	Notes      string // markdown body when creating
	Draft      bool
	Prerelease bool
}

// Release is a release on a forge.
type Release struct {
	ID  string // platform-specific ID (numeric for GitHub/Gitea, tag for GitLab)
	URL string // web URL to the release page
}

// Asset is a file to attach to a release.
type Asset struct {
	Name     string // asset name on the release
	FilePath string // local file to upload
	MIMEType string // defaults from the file extension
}

// apiError is a non-2xx forge API response.
type apiError struct {
	provider Provider
	method   string
	url      string
	status   int
	body     string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s API %s %s: %d %s", e.provider, e.method, e.url, e.status, e.body)
}

// isNotFound reports whether err is a 404 API response.
func isNotFound(err error) bool {
	var ae *apiError
	return errors.As(err, &ae) && ae.status == http.StatusNotFound
}
