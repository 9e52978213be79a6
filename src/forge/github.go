package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// GitHubForge implements the Forge interface for GitHub and GitHub Enterprise.
type GitHubForge struct {
	BaseURL string // "https://api.github.com" or "https://ghes.example.com/api/v3"
	Token   string
	Owner   string
	Repo    string
}

// NewGitHub creates a GitHub forge client.
// Token is resolved from env: GITHUB_TOKEN, GH_TOKEN.
// Owner/Repo is resolved from env: GITHUB_REPOSITORY (owner/repo).
func NewGitHub(baseURL string) *GitHubForge {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}

	var owner, repo string
	if ghRepo := os.Getenv("GITHUB_REPOSITORY"); ghRepo != "" {
		if idx := strings.Index(ghRepo, "/"); idx >= 0 {
			owner = ghRepo[:idx]
			repo = ghRepo[idx+1:]
		}
	}

	apiBase := "https://api.github.com"
	if baseURL != "" && !strings.Contains(baseURL, "github.com") {
		// GitHub Enterprise Server
		apiBase = strings.TrimRight(baseURL, "/") + "/api/v3"
	}

	return &GitHubForge{
		BaseURL: apiBase,
		Token:   token,
		Owner:   owner,
		Repo:    repo,
	}
}

func (g *GitHubForge) Provider() Provider { return GitHub }

func (g *GitHubForge) apiURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", g.BaseURL, g.Owner, g.Repo, path)
}

// uploadBaseURL returns the upload API base for asset uploads.
// github.com uses uploads.github.com; GHES uses {host}/api/uploads.
func (g *GitHubForge) uploadBaseURL() string {
	if strings.Contains(g.BaseURL, "api.github.com") {
		return "https://uploads.github.com"
	}
	return strings.Replace(g.BaseURL, "/api/v3", "/api/uploads", 1)
}

func (g *GitHubForge) doJSON(ctx context.Context, method, reqURL string, body interface{}, result interface{}) error {
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
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
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
		return &apiError{GitHub, method, reqURL, resp.StatusCode, string(respBody)}
	}

	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

type githubRelease struct {
	ID      int    `json:"id"`
	HTMLURL string `json:"html_url"`
}

func (r githubRelease) toRelease() *Release {
	return &Release{ID: fmt.Sprintf("%d", r.ID), URL: r.HTMLURL}
}

// EnsureRelease finds the release for the tag, creating it when the
// publish event hasn't made one (e.g. manual reruns against a bare tag).
func (g *GitHubForge) EnsureRelease(ctx context.Context, opts ReleaseOptions) (*Release, error) {
	var existing githubRelease
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

	var created githubRelease
	if err := g.doJSON(ctx, "POST", g.apiURL("/releases"), payload, &created); err != nil {
		return nil, err
	}
	return created.toRelease(), nil
}

func (g *GitHubForge) UploadAsset(ctx context.Context, releaseID string, asset Asset) error {
	f, err := os.Open(asset.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	uploadURL := fmt.Sprintf("%s/repos/%s/%s/releases/%s/assets?name=%s",
		g.uploadBaseURL(), g.Owner, g.Repo, releaseID, url.QueryEscape(asset.Name))

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, f)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.ContentLength = stat.Size()
	req.Header.Set("Content-Type", assetMIME(asset))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &apiError{GitHub, "POST", uploadURL, resp.StatusCode, string(body)}
	}
	return nil
}

// assetMIME resolves the Content-Type for an asset upload.
func assetMIME(asset Asset) string {
	if asset.MIMEType != "" {
		return asset.MIMEType
	}
	if t := mime.TypeByExtension(filepath.Ext(asset.FilePath)); t != "" {
		return t
	}
	return "application/octet-stream"
}
