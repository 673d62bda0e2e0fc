package model

import "fmt"

// LockName is the well-known lockfile filename, mirroring golang-dep's
// LockName constant and §6's sysand-lock.toml.
const LockName = "sysand-lock.toml"

// CurrentLockVersion is written into every freshly generated lockfile.
// A string, not a number, per `lock.rs`'s CURRENT_LOCK_VERSION.
const CurrentLockVersion = "0.1"

// SourceKind discriminates the Source sum type (spec.md §3/§6).
type SourceKind string

const (
	SourceEditable   SourceKind = "editable"
	SourceLocalSrc   SourceKind = "local-src"
	SourceLocalKpar  SourceKind = "local-kpar"
	SourceRemoteSrc  SourceKind = "remote-src"
	SourceRemoteKpar SourceKind = "remote-kpar"
	SourceRemoteGit  SourceKind = "remote-git"
	SourceRegistry   SourceKind = "registry"
	SourceRemoteApi  SourceKind = "remote-api"
)

// Source is a sum type over the eight provenance variants a locked
// project may be re-installed from. Exactly one of the fields below is
// meaningful, selected by Kind. On the wire this is the untagged serde
// enum `Source` in `lock.rs`: each `[[project.source]]` table names
// exactly one variant key (`editable`, `src_path`, `kpar_path`,
// `registry`, `remote_src`, `remote_kpar` + optional `remote_kpar_size`,
// `remote_git`, `remote_api`) with no discriminator field.
type Source struct {
	Kind SourceKind

	Path string // Editable, LocalSrc, LocalKpar
	URL  string // RemoteSrc, RemoteKpar, RemoteGit, RemoteApi
	Size *int64 // RemoteKpar only

	Name string // Registry
}

// toTOML renders one source as the single-key map its TOML table uses.
// A plain map (rather than a discriminated struct) is what lets
// pelletier/go-toml emit the untagged, variant-named table `lock.rs`
// expects instead of a `type = "..."` tagged one.
func (s Source) toTOML() (map[string]interface{}, error) {
	switch s.Kind {
	case SourceEditable:
		return map[string]interface{}{"editable": s.Path}, nil
	case SourceLocalSrc:
		return map[string]interface{}{"src_path": s.Path}, nil
	case SourceLocalKpar:
		return map[string]interface{}{"kpar_path": s.Path}, nil
	case SourceRegistry:
		return map[string]interface{}{"registry": s.Name}, nil
	case SourceRemoteKpar:
		m := map[string]interface{}{"remote_kpar": s.URL}
		if s.Size != nil {
			m["remote_kpar_size"] = *s.Size
		}
		return m, nil
	case SourceRemoteSrc:
		return map[string]interface{}{"remote_src": s.URL}, nil
	case SourceRemoteGit:
		return map[string]interface{}{"remote_git": s.URL}, nil
	case SourceRemoteApi:
		return map[string]interface{}{"remote_api": s.URL}, nil
	default:
		return nil, fmt.Errorf("model: source has unknown kind %q", s.Kind)
	}
}

// sourceFromTOML recovers a Source from the single variant key present
// in a decoded `[[project.source]]` table.
func sourceFromTOML(m map[string]interface{}) (Source, error) {
	if v, ok := m["editable"]; ok {
		return Source{Kind: SourceEditable, Path: asString(v)}, nil
	}
	if v, ok := m["src_path"]; ok {
		return Source{Kind: SourceLocalSrc, Path: asString(v)}, nil
	}
	if v, ok := m["kpar_path"]; ok {
		return Source{Kind: SourceLocalKpar, Path: asString(v)}, nil
	}
	if v, ok := m["registry"]; ok {
		return Source{Kind: SourceRegistry, Name: asString(v)}, nil
	}
	if v, ok := m["remote_kpar"]; ok {
		s := Source{Kind: SourceRemoteKpar, URL: asString(v)}
		if sz, ok := asInt64(m["remote_kpar_size"]); ok {
			s.Size = &sz
		}
		return s, nil
	}
	if v, ok := m["remote_src"]; ok {
		return Source{Kind: SourceRemoteSrc, URL: asString(v)}, nil
	}
	if v, ok := m["remote_git"]; ok {
		return Source{Kind: SourceRemoteGit, URL: asString(v)}, nil
	}
	if v, ok := m["remote_api"]; ok {
		return Source{Kind: SourceRemoteApi, URL: asString(v)}, nil
	}
	return Source{}, fmt.Errorf("model: source table names no known variant")
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// LockedProject is one pinned entry of a Lockfile, the Go form of
// `lock.rs`'s Project struct.
type LockedProject struct {
	Identifiers          []string
	Checksum             string
	Info                 *InfoRaw
	Meta                 *MetaRaw
	Sources              []Source
	SpecificationVersion string
}

// Lockfile is the deserialized form of sysand-lock.toml.
type Lockfile struct {
	LockVersion string
	Project     []LockedProject
}

// lockfileTOML / lockedProjectTOML mirror golang-dep's rawLock / lockedDep
// pattern: a thin struct whose sole purpose is go-toml (de)serialization,
// kept separate from the domain type so the domain type stays free of toml
// struct tags and of the `omitempty` quirks TOML encoding requires. Field
// names follow §6 / `lock.rs` exactly: `lock_version`, `iris`, `source`,
// `specification`.
type lockfileTOML struct {
	LockVersion string              `toml:"lock_version"`
	Project     []lockedProjectTOML `toml:"project"`
}

type lockedProjectTOML struct {
	Info          *InfoRaw                 `toml:"info,omitempty"`
	Meta          *MetaRaw                 `toml:"meta,omitempty"`
	Identifiers   []string                 `toml:"iris,omitempty"`
	Checksum      string                   `toml:"checksum"`
	Specification string                   `toml:"specification,omitempty"`
	Sources       []map[string]interface{} `toml:"source,omitempty"`
}

func (l Lockfile) toTOML() (lockfileTOML, error) {
	out := lockfileTOML{LockVersion: l.LockVersion}
	for _, p := range l.Project {
		lp := lockedProjectTOML{
			Identifiers:   p.Identifiers,
			Checksum:      p.Checksum,
			Info:          p.Info,
			Meta:          p.Meta,
			Specification: p.SpecificationVersion,
			Sources:       make([]map[string]interface{}, 0, len(p.Sources)),
		}
		for _, s := range p.Sources {
			m, err := s.toTOML()
			if err != nil {
				return lockfileTOML{}, err
			}
			lp.Sources = append(lp.Sources, m)
		}
		out.Project = append(out.Project, lp)
	}
	return out, nil
}

func lockfileFromTOML(t lockfileTOML) (Lockfile, error) {
	out := Lockfile{LockVersion: t.LockVersion}
	for _, lp := range t.Project {
		p := LockedProject{
			Identifiers:          lp.Identifiers,
			Checksum:             lp.Checksum,
			Info:                 lp.Info,
			Meta:                 lp.Meta,
			SpecificationVersion: lp.Specification,
		}
		for _, m := range lp.Sources {
			s, err := sourceFromTOML(m)
			if err != nil {
				return Lockfile{}, err
			}
			p.Sources = append(p.Sources, s)
		}
		out.Project = append(out.Project, p)
	}
	return out, nil
}
