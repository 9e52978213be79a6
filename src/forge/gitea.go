package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// GiteaForge implements the Forge interface for Gitea and Forgejo instances.
type GiteaForge struct {
	BaseURL string // e.g., "https://codeberg.org"
	Token   string
	Owner   string
	Repo    string
}

// NewGitea creates a Gitea/Forgejo forge client.
// Token is resolved from env: GITEA_TOKEN, FORGEJO_TOKEN.
// Owner/Repo is resolved from env: CI_REPO (Woodpecker CI) or
// GITHUB_REPOSITORY (Gitea Actions, which uses GitHub-compatible vars).
func NewGitea(baseURL string) *GiteaForge {
	token := os.Getenv("GITEA_TOKEN")
	if token == "" {
		token = os.Getenv("FORGEJO_TOKEN")
	}

	var owner, repo string

	// Woodpecker CI
	if ciRepo := os.Getenv("CI_REPO"); ciRepo != "" {
		if idx := strings.Index(ciRepo, "/"); idx >= 0 {
			owner = ciRepo[:idx]
			repo = ciRepo[idx+1:]
		}
	}

	// Gitea Actions (GitHub-compatible env vars)
	if owner == "" {
		if ghRepo := os.Getenv("GITHUB_REPOSITORY"); ghRepo != "" {
			if idx := strings.Index(ghRepo, "/"); idx >= 0 {
				owner = ghRepo[:idx]
				repo = ghRepo[idx+1:]
			}
		}
	}

	return &GiteaForge{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Owner:   owner,
		Repo:    repo,
	}
}

func (g *GiteaForge) Provider() Provider { return Gitea }

func (g *GiteaForge) apiURL(path string) string {
	return fmt.Sprintf("%s/api/v1/repos/%s/%s%s", g.BaseURL, g.Owner, g.Repo, path)
}

func (g *GiteaForge) doJSON(ctx context.Context, method, reqURL string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+g.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		return &apiError{Gitea, method, reqURL, resp.StatusCode, string(respBody)}
	}

	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

type giteaRelease struct {
	ID      int    `json:"id"`
	HTMLURL string `json:"html_url"`
}

func (r giteaRelease) toRelease() *Release {
	return &Release{ID: fmt.Sprintf("%d", r.ID), URL: r.HTMLURL}
}

func (g *GiteaForge) EnsureRelease(ctx context.Context, opts ReleaseOptions) (*Release, error) {
	var existing giteaRelease
	err := g.doJSON(ctx, "GET", g.apiURL("/releases/tags/"+url.PathEscape(opts.TagName)), nil, &existing)
	if err == nil {
		return existing.toRelease(), nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = opts.TagName
	}
	payload := map[string]interface{}{
		"tag_name":   opts.TagName,
		"name":       name,
		"body":       opts.Notes,
		"draft":      opts.Draft,
		"prerelease": opts.Prerelease,
	}

	var created giteaRelease
	if err := g.doJSON(ctx, "POST", g.apiURL("/releases"), payload, &created); err != nil {
		return nil, err
	}
	return created.toRelease(), nil
}

// UploadAsset attaches a file to a release as a Gitea attachment.
func (g *GiteaForge) UploadAsset(ctx context.Context, releaseID string, asset Asset) error {
	f, err := os.Open(asset.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("attachment", asset.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	uploadURL := fmt.Sprintf("%s?name=%s", g.apiURL("/releases/"+releaseID+"/assets"), url.QueryEscape(asset.Name))

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+g.Token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &apiError{Gitea, "POST", uploadURL, resp.StatusCode, string(body)}
	}
	return nil
}
