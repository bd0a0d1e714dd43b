package git

import (
	stderrors "errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when the project is not inside a git checkout.
var ErrNotRepository = stderrors.New("not a git repository")

// Revision identifies the checked-out commit of a project.
type Revision struct {
	Hash   string
	Branch string // empty when HEAD is detached
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Hash) > 12 {
		return r.Hash[:12]
	}
	return r.Hash
}

// String formats the revision for logs.
func (r Revision) String() string {
	if r.Branch == "" {
		return r.Short()
	}
	return r.Branch + "@" + r.Short()
}

// HeadRevision returns the HEAD revision of the repository containing path.
// Parent directories are searched for the .git directory.
func HeadRevision(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, ErrNotRepository
		}
		return Revision{}, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, fmt.Errorf("repository has no commits: %w", err)
		}
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Hash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
