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
	"path/filepath"
)

// GitLabForge implements the Forge interface for GitLab instances.
type GitLabForge struct {
	BaseURL   string // e.g., "https://gitlab.com"
	Token     string // private token or job token
	ProjectID string // numeric ID or "group/project" path
}

// NewGitLab creates a GitLab forge client.
// Token is resolved from env: GITLAB_TOKEN, CI_JOB_TOKEN.
// ProjectID is resolved from env: CI_PROJECT_ID, CI_PROJECT_PATH.
func NewGitLab(baseURL string) *GitLabForge {
	token := os.Getenv("GITLAB_TOKEN")
	if token == "" {
		token = os.Getenv("CI_JOB_TOKEN")
	}

	projectID := os.Getenv("CI_PROJECT_ID")
	if projectID == "" {
		projectID = os.Getenv("CI_PROJECT_PATH")
	}

	return &GitLabForge{
		BaseURL:   baseURL,
		Token:     token,
		ProjectID: projectID,
	}
}

func (g *GitLabForge) Provider() Provider { return GitLab }

func (g *GitLabForge) apiURL(path string) string {
	return fmt.Sprintf("%s/api/v4/projects/%s%s", g.BaseURL, url.PathEscape(g.ProjectID), path)
}

func (g *GitLabForge) projectWebURL() string {
	if u := os.Getenv("CI_PROJECT_URL"); u != "" {
		return u
	}
	return g.BaseURL + "/" + g.ProjectID
}

func (g *GitLabForge) doJSON(ctx context.Context, method, reqURL string, body interface{}, result interface{}) error {
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
	req.Header.Set("PRIVATE-TOKEN", g.Token)
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
		return &apiError{GitLab, method, reqURL, resp.StatusCode, string(respBody)}
	}

	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

// EnsureRelease finds or creates a release. GitLab addresses releases
// by tag name, so the tag doubles as the release ID.
func (g *GitLabForge) EnsureRelease(ctx context.Context, opts ReleaseOptions) (*Release, error) {
	rel := &Release{
		ID:  opts.TagName,
		URL: fmt.Sprintf("%s/-/releases/%s", g.projectWebURL(), opts.TagName),
	}

	err := g.doJSON(ctx, "GET", g.apiURL("/releases/"+url.PathEscape(opts.TagName)), nil, nil)
	if err == nil {
		return rel, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = opts.TagName
	}
	payload := map[string]interface{}{
		"tag_name":    opts.TagName,
		"name":        name,
		"description": opts.Notes,
	}
	if err := g.doJSON(ctx, "POST", g.apiURL("/releases"), payload, nil); err != nil {
		return nil, err
	}
	return rel, nil
}

// UploadAsset uploads the file to the project, then links it to the
// release — GitLab has no direct release asset upload.
func (g *GitLabForge) UploadAsset(ctx context.Context, releaseID string, asset Asset) error {
	uploadURL := g.apiURL("/uploads")

	f, err := os.Open(asset.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(asset.FilePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("PRIVATE-TOKEN", g.Token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return &apiError{GitLab, "POST", uploadURL, resp.StatusCode, string(respBody)}
	}

	var upload struct {
		URL      string `json:"url"`       // project-relative: /uploads/<hash>/<file>
		FullPath string `json:"full_path"` // includes project path
	}
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return fmt.Errorf("parsing upload response: %w", err)
	}

	linkURL := g.BaseURL + upload.FullPath
	if upload.FullPath == "" {
		linkURL = g.projectWebURL() + upload.URL
	}

	linkPayload := map[string]interface{}{
		"name":      asset.Name,
		"url":       linkURL,
		"link_type": "package",
	}
	linkAPI := g.apiURL("/releases/" + url.PathEscape(releaseID) + "/assets/links")
	return g.doJSON(ctx, "POST", linkAPI, linkPayload, nil)
}
