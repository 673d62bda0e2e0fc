// Package env implements the content-addressed, versioned, crash-safe
// local project store (spec §4.D): entries.txt at the root, one
// directory per IRI hash holding versions.txt and one project directory
// per installed version.
package env

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/theckman/go-flock"

	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
)

const (
	entriesFile  = "entries.txt"
	versionsFile = "versions.txt"
	lockFile     = ".sysand-env.lock"
)

// ReadEnvironment is the read-side contract over the environment store.
type ReadEnvironment interface {
	URIs() ([]string, error)
	Versions(iri string) ([]string, error)
	GetProject(iri, version string) (project.ProjectRead, error)
	Has(iri string) (bool, error)
	HasVersion(iri, version string) (bool, error)
	CandidateProjects(iri string) ([]project.ProjectRead, error)
}

// WriteEnvironment is the write-side contract: install/remove projects
// under the serialized per-environment mutex.
type WriteEnvironment interface {
	PutProject(iri, version string, populate func(root string) error) error
	DelProjectVersion(iri, version string) error
	DelURI(iri string) error
}

// LocalDirectory is the on-disk environment store rooted at Root.
type LocalDirectory struct {
	Root string
	lock *flock.Flock
}

// NewLocalDirectory opens (creating if necessary) an environment store
// rooted at root.
func NewLocalDirectory(root string) (*LocalDirectory, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, model.NewIOError("mkdir", root, err)
	}
	return &LocalDirectory{
		Root: root,
		lock: flock.NewFlock(filepath.Join(root, lockFile)),
	}, nil
}

func hashDir(root, iri string) string {
	return filepath.Join(root, model.ChecksumHex([]byte(iri)))
}

// newScratchDir creates a fresh staging directory under root, named with
// a random UUID rather than os.MkdirTemp's counter suffix so concurrent
// stores sharing a root never collide even across process restarts.
func newScratchDir(root string) (string, error) {
	path := filepath.Join(root, "stage-"+uuid.NewString())
	if err := os.Mkdir(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewIOError("open", path, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, model.NewIOError("read", path, err)
	}
	return out, nil
}

// writeLinesSorted writes a sorted, de-duplicated, newline-terminated
// line file into a fresh temp path under scratchDir, returning that path
// for use as an AtomicInstall source. Mirrors the original
// `singleton_line_temp` / `add_line_temp` helpers: the invariant that
// entries.txt / versions.txt stay sorted-unique survives any sequence of
// installs and removals.
func writeLinesSorted(scratchDir, name string, lines []string) (string, error) {
	uniq := make(map[string]struct{}, len(lines))
	var out []string
	for _, l := range lines {
		if _, ok := uniq[l]; !ok {
			uniq[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Strings(out)

	path := filepath.Join(scratchDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", model.NewIOError("create", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, l := range out {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return "", model.NewIOError("write", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", model.NewIOError("flush", path, err)
	}
	return path, nil
}

func removeLine(lines []string, target string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if l != target {
			out = append(out, l)
		}
	}
	return out
}

func (e *LocalDirectory) withLock(f func() error) error {
	if err := e.lock.Lock(); err != nil {
		return model.NewIOError("lock", e.lock.Path(), err)
	}
	defer e.lock.Unlock()
	return f()
}

func (e *LocalDirectory) URIs() ([]string, error) {
	return readLines(filepath.Join(e.Root, entriesFile))
}

func (e *LocalDirectory) Versions(iri string) ([]string, error) {
	return readLines(filepath.Join(hashDir(e.Root, iri), versionsFile))
}

func (e *LocalDirectory) Has(iri string) (bool, error) {
	versions, err := e.Versions(iri)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

func (e *LocalDirectory) HasVersion(iri, version string) (bool, error) {
	versions, err := e.Versions(iri)
	if err != nil {
		return false, err
	}
	for _, v := range versions {
		if v == version {
			return true, nil
		}
	}
	return false, nil
}

func (e *LocalDirectory) projectDir(iri, version string) string {
	return filepath.Join(hashDir(e.Root, iri), version+".kpar")
}

func (e *LocalDirectory) GetProject(iri, version string) (project.ProjectRead, error) {
	has, err := e.HasVersion(iri, version)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, model.NewIOError("get-project", e.projectDir(iri, version), os.ErrNotExist)
	}
	return project.NewLocalSrc(e.projectDir(iri, version), false), nil
}

func (e *LocalDirectory) CandidateProjects(iri string) ([]project.ProjectRead, error) {
	versions, err := e.Versions(iri)
	if err != nil {
		return nil, err
	}
	out := make([]project.ProjectRead, 0, len(versions))
	for _, v := range versions {
		out = append(out, project.NewLocalSrc(e.projectDir(iri, v), false))
	}
	return out, nil
}

// PutProject prepares a fresh staging LocalSrc, lets populate fill it in,
// then atomically installs it alongside updated versions.txt and
// entries.txt under the store's mutex.
func (e *LocalDirectory) PutProject(iri, version string, populate func(root string) error) error {
	return e.withLock(func() error {
		scratch, err := newScratchDir(e.Root)
		if err != nil {
			return model.NewIOError("mkdtemp", e.Root, err)
		}
		defer os.RemoveAll(scratch)

		stagedProject := filepath.Join(scratch, "project")
		if err := os.MkdirAll(stagedProject, 0o755); err != nil {
			return model.NewIOError("mkdir", stagedProject, err)
		}
		if err := populate(stagedProject); err != nil {
			return err
		}

		dir := hashDir(e.Root, iri)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.NewIOError("mkdir", dir, err)
		}

		existingVersions, err := e.Versions(iri)
		if err != nil {
			return err
		}
		newVersions, err := writeLinesSorted(scratch, versionsFile, append(existingVersions, version))
		if err != nil {
			return err
		}

		existingEntries, err := e.URIs()
		if err != nil {
			return err
		}
		newEntries, err := writeLinesSorted(scratch, entriesFile, append(existingEntries, iri))
		if err != nil {
			return err
		}

		ops := []Move{
			{Src: stagedProject, Target: e.projectDir(iri, version)},
			{Src: newVersions, Target: filepath.Join(dir, versionsFile)},
			{Src: newEntries, Target: filepath.Join(e.Root, entriesFile)},
		}
		return AtomicInstall(scratch, ops)
	})
}

// DelProjectVersion removes one installed version: its project directory
// is removed recursively, then versions.txt is updated (and entries.txt if this was the last
// version). A mid-delete I/O failure censors the version from
// versions.txt, preserving the "every listed version is installed"
// invariant even though some files may remain on disk.
func (e *LocalDirectory) DelProjectVersion(iri, version string) error {
	return e.withLock(func() error {
		dir := hashDir(e.Root, iri)
		projDir := e.projectDir(iri, version)

		if err := os.RemoveAll(projDir); err != nil {
			// Censor the version from versions.txt even on partial failure.
			e.censorVersion(dir, version)
			return model.NewIOError("remove", projDir, err)
		}

		versions, err := e.Versions(iri)
		if err != nil {
			return err
		}
		remaining := removeLine(versions, version)

		scratch, err := newScratchDir(e.Root)
		if err != nil {
			return model.NewIOError("mkdtemp", e.Root, err)
		}
		defer os.RemoveAll(scratch)

		if len(remaining) == 0 {
			entries, err := e.URIs()
			if err != nil {
				return err
			}
			newEntries, err := writeLinesSorted(scratch, entriesFile, removeLine(entries, iri))
			if err != nil {
				return err
			}
			if err := AtomicInstall(scratch, []Move{{Src: newEntries, Target: filepath.Join(e.Root, entriesFile)}}); err != nil {
				return err
			}
			return os.RemoveAll(dir)
		}

		newVersions, err := writeLinesSorted(scratch, versionsFile, remaining)
		if err != nil {
			return err
		}
		return AtomicInstall(scratch, []Move{{Src: newVersions, Target: filepath.Join(dir, versionsFile)}})
	})
}

func (e *LocalDirectory) censorVersion(dir, version string) {
	versions, err := readLines(filepath.Join(dir, versionsFile))
	if err != nil {
		return
	}
	remaining := removeLine(versions, version)
	scratch, err := newScratchDir(e.Root)
	if err != nil {
		return
	}
	defer os.RemoveAll(scratch)
	newVersions, err := writeLinesSorted(scratch, versionsFile, remaining)
	if err != nil {
		return
	}
	_ = AtomicInstall(scratch, []Move{{Src: newVersions, Target: filepath.Join(dir, versionsFile)}})
}

// DelURI removes every installed version of iri.
func (e *LocalDirectory) DelURI(iri string) error {
	versions, err := e.Versions(iri)
	if err != nil {
		return err
	}
	for _, v := range versions {
		if err := e.DelProjectVersion(iri, v); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ ReadEnvironment  = (*LocalDirectory)(nil)
	_ WriteEnvironment = (*LocalDirectory)(nil)
)
