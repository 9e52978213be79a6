package forge

import "strings"

// DetectProvider determines the forge platform from a git remote URL.
func DetectProvider(remoteURL string) Provider {
	lower := strings.ToLower(remoteURL)

	switch {
	case strings.Contains(lower, "github.com"):
		return GitHub
	case strings.Contains(lower, "gitlab"):
		return GitLab
	case strings.Contains(lower, "gitea") || strings.Contains(lower, "forgejo") || strings.Contains(lower, "codeberg"):
		return Gitea
	default:
		// Self-hosted instances without obvious domain hints.
		return Unknown
	}
}

// BaseURL extracts the forge base URL from a git remote URL.
// Handles SSH (git@host:path) and HTTPS (https://host/path) formats.
func BaseURL(remoteURL string) string {
	url := remoteURL

	// SSH format: git@host:org/repo.git
	if strings.HasPrefix(url, "git@") || strings.Contains(url, "@") && strings.Contains(url, ":") {
		parts := strings.SplitN(url, "@", 2)
		if len(parts) == 2 {
			hostPath := parts[1]
			colonIdx := strings.Index(hostPath, ":")
			if colonIdx >= 0 {
				host := hostPath[:colonIdx]
				return "https://" + host
			}
		}
	}

	// HTTPS format: https://host/org/repo.git
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		scheme := "https://"
		withoutScheme := strings.TrimPrefix(url, "https://")
		if strings.HasPrefix(url, "http://") {
			scheme = "http://"
			withoutScheme = strings.TrimPrefix(url, "http://")
		}
		slashIdx := strings.Index(withoutScheme, "/")
		if slashIdx >= 0 {
			return scheme + withoutScheme[:slashIdx]
		}
		return scheme + withoutScheme
	}

	return url
}

// New creates a forge client for the detected provider.
func New(provider Provider, remoteURL string) (Forge, error) {
	baseURL := BaseURL(remoteURL)

	switch provider {
	case GitHub:
		return NewGitHub(baseURL), nil
	case GitLab:
		return NewGitLab(baseURL), nil
	case Gitea:
		return NewGitea(baseURL), nil
	default:
		return nil, &unknownProviderError{remoteURL}
	}
}

type unknownProviderError struct{ remote string }

func (e *unknownProviderError) Error() string {
	return "could not detect forge provider from remote URL: " + e.remote
}
