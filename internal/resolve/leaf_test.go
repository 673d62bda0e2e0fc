package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPResolverUnsupportedForNonHTTP(t *testing.T) {
	out, err := HTTPResolver{}.Resolve("urn:kpar:thing")
	require.NoError(t, err)
	assert.Equal(t, UnsupportedIriType, out.Kind)
}

func TestHTTPResolverBareManifestRequiresLax(t *testing.T) {
	out, err := HTTPResolver{}.Resolve("https://example.org/lib/.project.json")
	require.NoError(t, err)
	assert.Equal(t, UnsupportedIriType, out.Kind)

	out, err = HTTPResolver{Lax: true}.Resolve("https://example.org/lib/.project.json")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	assert.Len(t, out.Candidates, 1)
}

func TestHTTPResolverTreeIriEmitsRemoteSrc(t *testing.T) {
	out, err := HTTPResolver{}.Resolve("https://example.org/lib/")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	assert.Len(t, out.Candidates, 1)
}

func TestHTTPResolverNonTreeIriEmitsKparCandidate(t *testing.T) {
	out, err := HTTPResolver{}.Resolve("https://example.org/lib.kpar")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	require.Len(t, out.Candidates, 1)
}

func TestGitResolverRecognizesGitPrefixAndSuffix(t *testing.T) {
	out, err := GitResolver{}.Resolve("git+https://example.org/repo.git")
	require.NoError(t, err)
	assert.Equal(t, Resolved, out.Kind)

	out, err = GitResolver{}.Resolve("https://example.org/repo.git")
	require.NoError(t, err)
	assert.Equal(t, Resolved, out.Kind)
}

func TestGitResolverUnsupportedForUnrecognizedIri(t *testing.T) {
	out, err := GitResolver{}.Resolve("https://example.org/repo")
	require.NoError(t, err)
	assert.Equal(t, UnsupportedIriType, out.Kind)
}

func TestFileResolverResolvesRelativePath(t *testing.T) {
	f := FileResolver{Root: "/base"}
	out, err := f.Resolve("project-a")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	assert.Len(t, out.Candidates, 2)
}
