// Package sysand ties together the environment store, resolver family,
// solver and lockfile machinery behind the single Ctx the cmd/sysand
// commands share, mirroring golang-dep's own root-package Ctx.
package sysand

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sensmetry/sysand/internal/config"
	"github.com/sensmetry/sysand/internal/env"
	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
)

// EnvDirName is the default environment store directory name sitting
// alongside a project's manifests.
const EnvDirName = "sysand_env"

// Ctx carries the supporting context every command runs against: where
// the project lives, where its environment store lives, and where to
// send log output.
type Ctx struct {
	WorkingDir string
	Out, Err   *log.Logger
	Verbose    bool

	// EnvOverride, when set, names an environment store directory to use
	// instead of the default WorkingDir/sysand_env.
	EnvOverride string
}

// NewCtx builds a Ctx rooted at the process's working directory.
func NewCtx(stdout, stderr io.Writer) (*Ctx, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	return &Ctx{
		WorkingDir: wd,
		Out:        log.New(stdout, "", 0),
		Err:        log.New(stderr, "", 0),
	}, nil
}

// ProjectRoot returns the directory this Ctx treats as the current
// project: WorkingDir, unconditionally — sysand projects are not
// discovered by walking up the tree the way golang-dep's GOPATH-rooted
// import paths are, since an interchange project has no notion of
// nested import roots.
func (c *Ctx) ProjectRoot() string {
	return c.WorkingDir
}

// LoadProject opens the current directory as a LocalSrc project.
func (c *Ctx) LoadProject() *project.LocalSrc {
	return project.NewLocalSrc(c.ProjectRoot(), false)
}

// EnvDir resolves the effective environment store directory.
func (c *Ctx) EnvDir() string {
	if c.EnvOverride != "" {
		return c.EnvOverride
	}
	return filepath.Join(c.ProjectRoot(), EnvDirName)
}

// OpenEnvironment opens (creating if necessary) the project's local
// environment store.
func (c *Ctx) OpenEnvironment() (*env.LocalDirectory, error) {
	return env.NewLocalDirectory(c.EnvDir())
}

// LoadConfig reads the optional sysand.toml sitting next to the
// project's manifests.
func (c *Ctx) LoadConfig() (config.Config, error) {
	return config.Load(filepath.Join(c.ProjectRoot(), config.FileName))
}

// LockPath is the path to the project's lockfile.
func (c *Ctx) LockPath() string {
	return filepath.Join(c.ProjectRoot(), model.LockName)
}

// ReadLockfile reads and decodes the project's lockfile, if present.
// Absence is reported via os.IsNotExist on the returned error, mirroring
// the way golang-dep's LoadProject treats a missing Gopkg.lock as fine.
func (c *Ctx) ReadLockfile() (model.Lockfile, error) {
	data, err := os.ReadFile(c.LockPath())
	if err != nil {
		return model.Lockfile{}, err
	}
	return model.DecodeLockfile(data)
}

// WriteLockfile serializes and writes the project's lockfile.
func (c *Ctx) WriteLockfile(lock model.Lockfile) error {
	data, err := model.EncodeLockfile(lock)
	if err != nil {
		return err
	}
	return os.WriteFile(c.LockPath(), data, 0o644)
}

func (c *Ctx) logf(format string, args ...interface{}) {
	if c.Verbose {
		c.Out.Printf(format, args...)
	}
}
