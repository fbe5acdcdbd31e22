// Package git reads the checked-out ref of a local repository for runs
// outside a CI system.
package git

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	giturl "github.com/kubescape/go-git-url"

	"github.com/cloudposse/artifactor/pkg/perf"
)

// errStop ends a reference iteration early.
var errStop = errors.New("stop")

// Head describes the checked-out commit.
type Head struct {
	// Ref is "refs/heads/<branch>", "refs/tags/<tag>" for a detached tagged
	// commit, or empty for any other detached commit.
	Ref string
	SHA string
}

// OpenRepo opens the repository containing path, including linked worktrees.
func OpenRepo(path string) (*git.Repository, error) {
	defer perf.Track(nil, "git.OpenRepo")()

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: false,
	})
	if err == nil {
		return repo, nil
	}

	// A .git file marks a linked worktree whose config lives in the common dir.
	if info, statErr := os.Stat(filepath.Join(path, ".git")); statErr == nil && !info.IsDir() {
		if repo, wtErr := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
			DetectDotGit:          true,
			EnableDotGitCommonDir: true,
		}); wtErr == nil {
			return repo, nil
		}
	}

	return nil, err
}

// ResolveHead returns the ref and commit checked out in repo.
func ResolveHead(repo *git.Repository) (Head, error) {
	defer perf.Track(nil, "git.ResolveHead")()

	head, err := repo.Head()
	if err != nil {
		return Head{}, err
	}

	result := Head{SHA: head.Hash().String()}
	if head.Name().IsBranch() {
		result.Ref = head.Name().String()
		return result, nil
	}

	tag, err := tagAt(repo, head.Hash())
	if err != nil {
		return Head{}, err
	}
	result.Ref = tag
	return result, nil
}

// tagAt returns the full name of the first tag, lightweight or annotated,
// pointing at hash.
func tagAt(repo *git.Repository, hash plumbing.Hash) (string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return "", err
	}

	var found string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if annotated, err := repo.TagObject(ref.Hash()); err == nil {
			target = annotated.Target
		}
		if target == hash {
			found = ref.Name().String()
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return "", err
	}

	return found, nil
}

// RepoSlug returns "owner/name" parsed from the URL of the origin remote,
// falling back to the first remote. It returns "" when there is no remote.
func RepoSlug(repo *git.Repository) (string, error) {
	defer perf.Track(nil, "git.RepoSlug")()

	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		remotes, listErr := repo.Remotes()
		if listErr != nil {
			return "", listErr
		}
		if len(remotes) == 0 {
			return "", nil
		}
		remote = remotes[0]
	}

	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", nil
	}

	parsed, err := giturl.NewGitURL(urls[0])
	if err != nil {
		return "", err
	}
	return parsed.GetOwnerName() + "/" + parsed.GetRepoName(), nil
}
