package project

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/sensmetry/sysand/internal/model"
)

// LocalKpar reads a project packed as a ZIP archive ("kpar"). The root
// inside the archive is either supplied explicitly or guessed by
// locating the unique .project.json entry. Extracted sources are not
// cached: each ReadSource call looks the entry up in the open archive
// and decompresses it again.
type LocalKpar struct {
	ArchivePath string
	Root        string // "" triggers auto-detection

	once     sync.Once
	initErr  error
	reader   *zip.ReadCloser
	detected string
}

func NewLocalKpar(archivePath, root string) *LocalKpar {
	return &LocalKpar{ArchivePath: archivePath, Root: root}
}

func (k *LocalKpar) ensure() error {
	k.once.Do(func() {
		r, err := zip.OpenReader(k.ArchivePath)
		if err != nil {
			k.initErr = model.NewIOError("open-zip", k.ArchivePath, err)
			return
		}
		k.reader = r
		if k.Root != "" {
			k.detected = k.Root
			return
		}
		for _, f := range r.File {
			if path.Base(f.Name) == model.InfoName {
				k.detected = path.Dir(f.Name)
				if k.detected == "." {
					k.detected = ""
				}
				return
			}
		}
		k.initErr = model.NewIOError("locate-root", k.ArchivePath, os.ErrNotExist)
	})
	return k.initErr
}

func (k *LocalKpar) entryName(relSlash string) string {
	if k.detected == "" {
		return relSlash
	}
	return k.detected + "/" + relSlash
}

func (k *LocalKpar) readEntry(name string) ([]byte, bool, error) {
	for _, f := range k.reader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, true, model.NewIOError("read-zip-entry", name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, true, model.NewIOError("read-zip-entry", name, err)
			}
			return data, true, nil
		}
	}
	return nil, false, nil
}

func (k *LocalKpar) GetProject() (*model.Info, *model.Meta, error) {
	if err := k.ensure(); err != nil {
		return nil, nil, err
	}
	var info *model.Info
	var meta *model.Meta

	if data, ok, err := k.readEntry(k.entryName(model.InfoName)); err != nil {
		return nil, nil, err
	} else if ok {
		raw, err := model.DecodeInfo(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		v, err := raw.Validate()
		if err != nil {
			return nil, nil, err
		}
		info = &v
	}

	if data, ok, err := k.readEntry(k.entryName(model.MetaName)); err != nil {
		return nil, nil, err
	} else if ok {
		raw, err := model.DecodeMeta(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		v, err := raw.Validate()
		if err != nil {
			return nil, nil, err
		}
		meta = &v
	}

	return info, meta, nil
}

func (k *LocalKpar) ReadSource(relSlash string) (io.ReadCloser, error) {
	if err := k.ensure(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(relSlash, "/") || strings.Contains(relSlash, "..") {
		return nil, model.NewIOError("read", relSlash, os.ErrInvalid)
	}
	data, ok, err := k.readEntry(k.entryName(relSlash))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewIOError("read", relSlash, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (k *LocalKpar) Sources() ([]model.Source, error) {
	return []model.Source{{Kind: model.SourceLocalKpar, Path: k.ArchivePath}}, nil
}

func (k *LocalKpar) IsDefinitelyInvalid() bool {
	if err := k.ensure(); err != nil {
		return true
	}
	_, ok, err := k.readEntry(k.entryName(model.InfoName))
	return err != nil || !ok
}

func (k *LocalKpar) Close() error {
	if k.reader != nil {
		return k.reader.Close()
	}
	return nil
}

var _ ProjectRead = (*LocalKpar)(nil)
