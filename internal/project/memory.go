package project

import (
	"bytes"
	"io"
	"sync"

	"github.com/sensmetry/sysand/internal/model"
)

// InMemory is an in-process project backend, used by tests and to carry
// the embedded standard-library bundle (§9: "a process-wide read-only
// map; initialize at first use and never mutate").
type InMemory struct {
	mu      sync.RWMutex
	info    *model.Info
	meta    *model.Meta
	sources map[string][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{sources: make(map[string][]byte)}
}

// NewInMemoryFrom seeds an InMemory project from raw manifests and a
// source-path -> content map, the shape used to bundle the standard
// library (internal/stdlib).
func NewInMemoryFrom(infoRaw model.InfoRaw, metaRaw model.MetaRaw, sources map[string][]byte) (*InMemory, error) {
	info, err := infoRaw.Validate()
	if err != nil {
		return nil, err
	}
	meta, err := metaRaw.Validate()
	if err != nil {
		return nil, err
	}
	m := NewInMemory()
	m.info = &info
	m.meta = &meta
	for k, v := range sources {
		m.sources[k] = v
	}
	return m, nil
}

func (m *InMemory) GetProject() (*model.Info, *model.Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info, m.meta, nil
}

func (m *InMemory) ReadSource(path string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.sources[path]
	if !ok {
		return nil, model.NewIOError("read", path, errSourceNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *InMemory) WriteSource(path string, r io.Reader, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !overwrite {
		if _, ok := m.sources[path]; ok {
			return model.NewIOError("write", path, errSourceExists)
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.sources[path] = data
	return nil
}

func (m *InMemory) PutInfo(info model.InfoRaw, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.info != nil && !overwrite {
		return model.NewIOError("put-info", "", errSourceExists)
	}
	v, err := info.Validate()
	if err != nil {
		return err
	}
	m.info = &v
	return nil
}

func (m *InMemory) PutMeta(meta model.MetaRaw, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta != nil && !overwrite {
		return model.NewIOError("put-meta", "", errSourceExists)
	}
	v, err := meta.Validate()
	if err != nil {
		return err
	}
	m.meta = &v
	return nil
}

func (m *InMemory) Sources() ([]model.Source, error) {
	return nil, nil
}

func (m *InMemory) IsDefinitelyInvalid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info == nil
}

type memErr string

func (e memErr) Error() string { return string(e) }

const (
	errSourceNotFound = memErr("source not found")
	errSourceExists   = memErr("already present")
)

var (
	_ ProjectRead = (*InMemory)(nil)
	_ ProjectMut  = (*InMemory)(nil)
)
