package resolve

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/sensmetry/sysand/internal/project"
)

// FileResolver resolves file: scheme and host-relative-path IRIs to
// local filesystem candidates, emitting both a LocalSrc and LocalKpar
// view of the same location. AllowRoots, when non-empty, sandboxes the
// resolved path to a descendant of one of the listed roots.
type FileResolver struct {
	Root       string
	AllowRoots []string
}

func (f FileResolver) Resolve(iri string) (Outcome, error) {
	path, ok := f.toPath(iri)
	if !ok {
		return UnsupportedOutcome("not a file iri"), nil
	}
	if f.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(f.Root, path)
	}
	if len(f.AllowRoots) > 0 && !f.withinAllowed(path) {
		return UnresolvableOutcome("path escapes sandbox"), nil
	}

	candidates := []project.ProjectRead{
		project.NewLocalSrc(path, false),
		project.NewLocalKpar(path, ""),
	}
	return ResolvedOutcome(candidates), nil
}

func (f FileResolver) toPath(iri string) (string, bool) {
	if strings.HasPrefix(iri, "file://") {
		u, err := url.Parse(iri)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(iri, "://") {
		return "", false
	}
	return iri, true
}

func (f FileResolver) withinAllowed(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, root := range f.AllowRoots {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(rootAbs, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

var _ Resolver = FileResolver{}
