// Package gitver resolves release metadata from the git repository:
// HEAD SHA, branch, the tag pointing at HEAD, and the origin remote URL
// used for forge detection.
package gitver

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info holds resolved repository metadata.
type Info struct {
	SHA       string // short HEAD SHA
	Branch    string // current branch, "" in detached state
	Tag       string // tag pointing exactly at HEAD, "" if none
	RemoteURL string // origin remote URL, "" if no remote
}

// Detect inspects the repository at rootDir.
func Detect(rootDir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(rootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repo at %s: %w", rootDir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	info := &Info{SHA: shortSHA(head.Hash().String())}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	tags, err := repo.Tags()
	if err == nil {
		_ = tags.ForEach(func(ref *plumbing.Reference) error {
			hash := ref.Hash()
			// Annotated tags point at a tag object, not the commit.
			if tagObj, err := repo.TagObject(hash); err == nil {
				hash = tagObj.Target
			}
			if hash == head.Hash() && info.Tag == "" {
				info.Tag = ref.Name().Short()
			}
			return nil
		})
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.RemoteURL = urls[0]
		}
	}

	return info, nil
}

// ParseTag parses a release tag as a semantic version. A leading "v"
// is accepted and ignored.
func ParseTag(tag string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, fmt.Errorf("tag %q is not a semantic version: %w", tag, err)
	}
	return v, nil
}

// IsPrerelease reports whether the tag carries a prerelease suffix
// (e.g. v1.2.3-beta.1). Non-semver tags are treated as stable.
func IsPrerelease(tag string) bool {
	v, err := ParseTag(tag)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
