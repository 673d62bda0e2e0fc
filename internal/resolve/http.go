package resolve

import (
	"net/http"
	"strings"

	"github.com/sensmetry/sysand/internal/auth"
	"github.com/sensmetry/sysand/internal/project"
)

// HTTPResolver resolves http(s): IRIs, emitting a RemoteSrc candidate
// when the path looks like a source-tree base and a RemoteKpar candidate
// otherwise (or both, when Lax relaxes the path-shape requirement).
type HTTPResolver struct {
	Client      *http.Client
	Auth        auth.HttpAuthentication
	Lax         bool
	PreferRanged bool
}

func (h HTTPResolver) Resolve(iri string) (Outcome, error) {
	if !strings.HasPrefix(iri, "http://") && !strings.HasPrefix(iri, "https://") {
		return UnsupportedOutcome("not an http(s) iri"), nil
	}

	// A literal .../.project.json reference names a source tree's
	// manifest directly; only a lax caller infers the base URL from it.
	if strings.HasSuffix(iri, "/"+"project.json") || strings.HasSuffix(iri, "/.project.json") {
		if !h.Lax {
			return UnsupportedOutcome("bare .project.json iri requires lax mode"), nil
		}
		base := strings.TrimSuffix(iri, ".project.json")
		return ResolvedOutcome([]project.ProjectRead{project.NewRemoteSrc(base, h.Client, h.Auth)}), nil
	}

	looksLikeTree := strings.HasSuffix(iri, "/") || iri == ""
	var candidates []project.ProjectRead

	if looksLikeTree {
		candidates = append(candidates, project.NewRemoteSrc(iri, h.Client, h.Auth))
	}
	if !looksLikeTree || h.Lax {
		base := iri
		if looksLikeTree {
			base = strings.TrimSuffix(iri, "/")
		}
		if h.PreferRanged {
			if _, ok := project.SupportsRanged(base, h.Client, h.Auth); ok {
				candidates = append(candidates, project.NewRemoteKparRanged(base, h.Client, h.Auth))
			}
		}
		candidates = append(candidates, project.NewRemoteKparDownloaded(base, h.Client, h.Auth))
	}

	return ResolvedOutcome(candidates), nil
}

var _ Resolver = HTTPResolver{}
