package project

import (
	"io"
	"os"
	"sync"

	"github.com/Masterminds/vcs"

	"github.com/sensmetry/sysand/internal/model"
)

// GitDownloaded shallow-clones a git URL into a temp directory on first
// access, then serves it by LocalSrc semantics, the way golang-dep's
// gitSource wraps a Masterminds/vcs repository and exports a checkout
// via r.Get()/r.UpdateVersion().
type GitDownloaded struct {
	URL string
	Ref string // branch, tag, or empty for the default branch

	once     sync.Once
	initErr  error
	localDir string
	delegate *LocalSrc
}

func NewGitDownloaded(url, ref string) *GitDownloaded {
	return &GitDownloaded{URL: url, Ref: ref}
}

func (g *GitDownloaded) ensure() error {
	g.once.Do(func() {
		dir, err := os.MkdirTemp("", "sysand-git-*")
		if err != nil {
			g.initErr = model.NewIOError("mkdtemp", "", err)
			return
		}
		repo, err := vcs.NewGitRepo(g.URL, dir)
		if err != nil {
			g.initErr = model.NewIOError("git-init", g.URL, err)
			return
		}
		if err := repo.Get(); err != nil {
			g.initErr = model.NewIOError("git-clone", g.URL, err)
			return
		}
		if g.Ref != "" {
			if err := repo.UpdateVersion(g.Ref); err != nil {
				g.initErr = model.NewIOError("git-checkout", g.Ref, err)
				return
			}
		}
		g.localDir = dir
		g.delegate = NewLocalSrc(dir, false)
	})
	return g.initErr
}

func (g *GitDownloaded) GetProject() (*model.Info, *model.Meta, error) {
	if err := g.ensure(); err != nil {
		return nil, nil, err
	}
	return g.delegate.GetProject()
}

func (g *GitDownloaded) ReadSource(path string) (io.ReadCloser, error) {
	if err := g.ensure(); err != nil {
		return nil, err
	}
	return g.delegate.ReadSource(path)
}

func (g *GitDownloaded) Sources() ([]model.Source, error) {
	return []model.Source{{Kind: model.SourceRemoteGit, URL: g.URL}}, nil
}

func (g *GitDownloaded) IsDefinitelyInvalid() bool {
	if err := g.ensure(); err != nil {
		return true
	}
	return g.delegate.IsDefinitelyInvalid()
}

func (g *GitDownloaded) Close() error {
	if g.localDir != "" {
		return os.RemoveAll(g.localDir)
	}
	return nil
}

var _ ProjectRead = (*GitDownloaded)(nil)
