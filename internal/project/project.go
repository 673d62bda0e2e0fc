// Package project defines the capability-based ProjectRead/ProjectMut
// interfaces (spec §4.B) and their concrete storage backends.
package project

import (
	"io"

	"github.com/sensmetry/sysand/internal/model"
)

// ProjectRead is the read-side capability implemented by every backend.
type ProjectRead interface {
	// GetProject returns the parsed Info and Meta, either of which may be
	// nil if the corresponding manifest is absent; a manifest that is
	// present but fails to parse or validate is reported as an error.
	GetProject() (*model.Info, *model.Meta, error)
	// ReadSource opens a declared source file for reading.
	ReadSource(path string) (io.ReadCloser, error)
	// Sources reports this backend's own best-known provenance for the
	// lockfile.
	Sources() ([]model.Source, error)
	// IsDefinitelyInvalid is a fast negative hint; resolvers and the
	// solver use it to skip a candidate without attempting get_project.
	IsDefinitelyInvalid() bool
}

// ProjectMut extends ProjectRead with mutation operations.
type ProjectMut interface {
	ProjectRead

	PutInfo(info model.InfoRaw, overwrite bool) error
	PutMeta(meta model.MetaRaw, overwrite bool) error
	WriteSource(path string, r io.Reader, overwrite bool) error
}

// Name/Version/Usage are convenience accessors whose defaults
// derive from GetProject, mirroring the original trait's default-method
// pattern.

func Name(p ProjectRead) (string, error) {
	info, _, err := p.GetProject()
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", nil
	}
	return info.Name, nil
}

func Version(p ProjectRead) (*model.Version, error) {
	info, _, err := p.GetProject()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	return &info.Version, nil
}

func Usage(p ProjectRead) ([]model.Usage, error) {
	info, _, err := p.GetProject()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	return info.Usage, nil
}
