package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// DefaultRevision is used when NewFromGit gets an empty revision.
const DefaultRevision = "HEAD"

// FromGit reads a script as it exists at a revision of a git repository.
// Local repositories are opened in place. Remote repositories are cloned
// into memory on first use and the clone is reused afterwards.
type FromGit struct {
	repo      string
	revision  string
	file      string
	remote    bool
	sourceURL *url.URL

	mu     sync.Mutex
	cloned *git.Repository
}

// NewFromGit creates a loader for file at revision in repo. repo is either
// an absolute path inside a working tree or an http, https, ssh, git or
// file URL. revision accepts anything git rev-parse accepts for a commit:
// branch and tag names, hashes, HEAD~2.
func NewFromGit(repo, revision, file string) (*FromGit, error) {
	repo = strings.TrimSpace(repo)
	file = strings.Trim(filepath.ToSlash(strings.TrimSpace(file)), "/")
	if repo == "" || file == "" {
		return nil, fmt.Errorf("%w: repository and file are required", ErrInputEmpty)
	}
	if revision == "" {
		revision = DefaultRevision
	}

	l := &FromGit{repo: repo, revision: revision, file: path.Clean(file)}

	if u, err := url.Parse(repo); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "http", "https", "ssh", "git", "file":
		default:
			return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, repo)
		}
		l.remote = true
		l.sourceURL = u
	} else {
		if !filepath.IsAbs(repo) {
			return nil, fmt.Errorf("%w: relative repository paths are not supported", ErrScriptNotAvailable)
		}
		l.repo = filepath.Clean(repo)
		l.sourceURL = &url.URL{Scheme: "file", Path: filepath.ToSlash(l.repo)}
	}

	withFragment := *l.sourceURL
	withFragment.Fragment = l.revision + ":" + l.file
	l.sourceURL = &withFragment
	return l, nil
}

func (l *FromGit) String() string {
	return fmt.Sprintf("loader.FromGit{Repo: %s, Revision: %s, File: %s}", l.repo, l.revision, l.file)
}

// GetSourceURL returns the repository URL with "<revision>:<file>" as the
// fragment.
func (l *FromGit) GetSourceURL() *url.URL {
	return l.sourceURL
}

// GetReader resolves the revision and returns the file's blob contents.
func (l *FromGit) GetReader() (io.ReadCloser, error) {
	return l.GetReaderWithContext(context.Background())
}

// GetReaderWithContext is GetReader with a context for the remote clone.
func (l *FromGit) GetReaderWithContext(ctx context.Context) (io.ReadCloser, error) {
	repo, err := l.open(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(l.revision))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRevisionNotFound, l.revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: commit %s: %w", ErrRevisionNotFound, hash, err)
	}
	f, err := commit.File(l.file)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s not found at %s", ErrScriptNotAvailable, l.file, l.revision)
		}
		return nil, fmt.Errorf("%w: %w", ErrScriptNotAvailable, err)
	}
	return f.Reader()
}

func (l *FromGit) open(ctx context.Context) (*git.Repository, error) {
	if !l.remote {
		repo, err := git.PlainOpenWithOptions(l.repo, &git.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrScriptNotAvailable, l.repo, err)
		}
		return repo, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cloned != nil {
		return l.cloned, nil
	}
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL: l.repo,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: git clone %s: %w", ErrScriptNotAvailable, l.repo, err)
	}
	l.cloned = repo
	return repo, nil
}
