package resolve

import (
	"strings"

	"github.com/sensmetry/sysand/internal/project"
)

// GitResolver emits a GitDownloaded candidate for URLs recognizable as
// git repositories (the .git suffix, or an explicit git+ prefix),
// grounded on golang-dep's deduceFromHTTP / repository-root sniffing in
// spirit though simplified to the forms §6 names.
type GitResolver struct {
	Ref string
}

func (g GitResolver) Resolve(iri string) (Outcome, error) {
	url := iri
	switch {
	case strings.HasPrefix(iri, "git+"):
		url = strings.TrimPrefix(iri, "git+")
	case strings.HasSuffix(iri, ".git"):
		// already a recognizable git URL
	case strings.HasPrefix(iri, "git://"):
	default:
		return UnsupportedOutcome("not a recognizable git iri"), nil
	}
	return ResolvedOutcome([]project.ProjectRead{project.NewGitDownloaded(url, g.Ref)}), nil
}

var _ Resolver = GitResolver{}
