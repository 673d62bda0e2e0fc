package project

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"

	"github.com/sensmetry/sysand/internal/fsutil"
	"github.com/sensmetry/sysand/internal/model"
)

// LocalSrc is a project expanded on disk under Root, the way golang-dep
// reads a vendored import path directly off the filesystem. Lenient
// controls whether a leading "/" in a declared source path is stripped
// (true) or rejected outright (false) before joining onto Root.
type LocalSrc struct {
	Root    string
	Lenient bool
}

func NewLocalSrc(root string, lenient bool) *LocalSrc {
	return &LocalSrc{Root: root, Lenient: lenient}
}

func (l *LocalSrc) infoPath() string { return filepath.Join(l.Root, model.InfoName) }
func (l *LocalSrc) metaPath() string { return filepath.Join(l.Root, model.MetaName) }

func (l *LocalSrc) GetProject() (*model.Info, *model.Meta, error) {
	var info *model.Info
	var meta *model.Meta

	if data, err := os.ReadFile(l.infoPath()); err == nil {
		raw, err := model.DecodeInfo(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		v, err := raw.Validate()
		if err != nil {
			return nil, nil, err
		}
		info = &v
	} else if !os.IsNotExist(err) {
		return nil, nil, model.NewIOError("read", l.infoPath(), err)
	}

	if data, err := os.ReadFile(l.metaPath()); err == nil {
		raw, err := model.DecodeMeta(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		v, err := raw.Validate()
		if err != nil {
			return nil, nil, err
		}
		meta = &v
	} else if !os.IsNotExist(err) {
		return nil, nil, model.NewIOError("read", l.metaPath(), err)
	}

	return info, meta, nil
}

func (l *LocalSrc) ReadSource(path string) (io.ReadCloser, error) {
	full, err := fsutil.JoinUnderRoot(l.Root, path, l.Lenient)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, model.NewIOError("open", full, err)
	}
	return f, nil
}

func (l *LocalSrc) WriteSource(path string, r io.Reader, overwrite bool) error {
	full, err := fsutil.JoinUnderRoot(l.Root, path, l.Lenient)
	if err != nil {
		return err
	}
	if !overwrite {
		if exists, _ := fsutil.IsRegular(full); exists {
			return model.NewIOError("write", full, os.ErrExist)
		}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return model.NewIOError("mkdir", filepath.Dir(full), err)
	}
	f, err := os.Create(full)
	if err != nil {
		return model.NewIOError("create", full, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return model.NewIOError("write", full, err)
	}
	return nil
}

func (l *LocalSrc) PutInfo(info model.InfoRaw, overwrite bool) error {
	if !overwrite {
		if exists, _ := fsutil.IsRegular(l.infoPath()); exists {
			return model.NewIOError("put-info", l.infoPath(), os.ErrExist)
		}
	}
	data, err := model.EncodeInfo(info)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return model.NewIOError("mkdir", l.Root, err)
	}
	if err := os.WriteFile(l.infoPath(), data, 0o644); err != nil {
		return model.NewIOError("write", l.infoPath(), err)
	}
	return nil
}

func (l *LocalSrc) PutMeta(meta model.MetaRaw, overwrite bool) error {
	if !overwrite {
		if exists, _ := fsutil.IsRegular(l.metaPath()); exists {
			return model.NewIOError("put-meta", l.metaPath(), os.ErrExist)
		}
	}
	data, err := model.EncodeMeta(meta)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return model.NewIOError("mkdir", l.Root, err)
	}
	if err := os.WriteFile(l.metaPath(), data, 0o644); err != nil {
		return model.NewIOError("write", l.metaPath(), err)
	}
	return nil
}

func (l *LocalSrc) Sources() ([]model.Source, error) {
	return []model.Source{{Kind: model.SourceLocalSrc, Path: l.Root}}, nil
}

func (l *LocalSrc) IsDefinitelyInvalid() bool {
	infoExists, _ := fsutil.IsRegular(l.infoPath())
	return !infoExists
}

// DiscoverUntracked walks Root with godirwalk (the fast-path directory
// walker golang-dep vendors for its own package-tree traversal) and
// returns every regular file's root-relative, slash-separated path that
// is not already a member of tracked, skipping .project.json, .meta.json
// and any sysand_env/sysand-lock.toml/sysand.toml control files. It backs
// the "add" command's untracked-file suggestions; sysand itself never
// infers checksum/index membership from a walk.
func (l *LocalSrc) DiscoverUntracked(tracked map[string]bool) ([]string, error) {
	var out []string
	err := godirwalk.Walk(l.Root, &godirwalk.Options{
		Unsorted: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if osPathname != l.Root && filepath.Base(osPathname) == "sysand_env" {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(l.Root, osPathname)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			switch rel {
			case model.InfoName, model.MetaName, "sysand-lock.toml", "sysand.toml":
				return nil
			}
			if tracked[rel] {
				return nil
			}
			out = append(out, rel)
			return nil
		},
	})
	if err != nil {
		return nil, model.NewIOError("walk", l.Root, err)
	}
	return out, nil
}

var (
	_ ProjectRead = (*LocalSrc)(nil)
	_ ProjectMut  = (*LocalSrc)(nil)
)
