package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func populateMinimal(name string) func(root string) error {
	return func(root string) error {
		return os.WriteFile(filepath.Join(root, ".project.json"), []byte(`{"name":"`+name+`","version":"1.0.0","usage":[]}`), 0o644)
	}
}

func TestPutProjectThenHasAndVersions(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))

	has, err := store.Has("urn:kpar:a")
	require.NoError(t, err)
	assert.True(t, has)

	hasVersion, err := store.HasVersion("urn:kpar:a", "1.0.0")
	require.NoError(t, err)
	assert.True(t, hasVersion)

	hasOther, err := store.HasVersion("urn:kpar:a", "2.0.0")
	require.NoError(t, err)
	assert.False(t, hasOther)

	uris, err := store.URIs()
	require.NoError(t, err)
	assert.Equal(t, []string{"urn:kpar:a"}, uris)

	versions, err := store.Versions("urn:kpar:a")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, versions)
}

func TestPutProjectTwoVersionsSortedDeduped(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutProject("urn:kpar:a", "2.0.0", populateMinimal("a")))
	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))
	// Re-installing the same version must not duplicate the versions.txt entry.
	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))

	versions, err := store.Versions("urn:kpar:a")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0", "2.0.0"}, versions)
}

func TestCandidateProjectsReturnsOneBackendPerVersion(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))
	require.NoError(t, store.PutProject("urn:kpar:a", "2.0.0", populateMinimal("a")))

	candidates, err := store.CandidateProjects("urn:kpar:a")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestGetProjectMissingVersionErrors(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	_, err = store.GetProject("urn:kpar:missing", "1.0.0")
	assert.Error(t, err)
}

func TestDelProjectVersionRemovesOnlyThatVersion(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))
	require.NoError(t, store.PutProject("urn:kpar:a", "2.0.0", populateMinimal("a")))

	require.NoError(t, store.DelProjectVersion("urn:kpar:a", "1.0.0"))

	hasV1, err := store.HasVersion("urn:kpar:a", "1.0.0")
	require.NoError(t, err)
	assert.False(t, hasV1)

	hasV2, err := store.HasVersion("urn:kpar:a", "2.0.0")
	require.NoError(t, err)
	assert.True(t, hasV2)

	uris, err := store.URIs()
	require.NoError(t, err)
	assert.Equal(t, []string{"urn:kpar:a"}, uris)
}

func TestDelProjectVersionLastOneRemovesFromEntries(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))
	require.NoError(t, store.DelProjectVersion("urn:kpar:a", "1.0.0"))

	has, err := store.Has("urn:kpar:a")
	require.NoError(t, err)
	assert.False(t, has)

	uris, err := store.URIs()
	require.NoError(t, err)
	assert.Empty(t, uris)
}

func TestDelURIRemovesEveryVersion(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))
	require.NoError(t, store.PutProject("urn:kpar:a", "2.0.0", populateMinimal("a")))

	require.NoError(t, store.DelURI("urn:kpar:a"))

	has, err := store.Has("urn:kpar:a")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMultipleIrisIndependentlyTracked(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.PutProject("urn:kpar:a", "1.0.0", populateMinimal("a")))
	require.NoError(t, store.PutProject("urn:kpar:b", "1.0.0", populateMinimal("b")))

	uris, err := store.URIs()
	require.NoError(t, err)
	assert.Equal(t, []string{"urn:kpar:a", "urn:kpar:b"}, uris)
}

func TestPutProjectPopulateFailureLeavesStoreEmpty(t *testing.T) {
	store, err := NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	boom := assert.AnError
	err = store.PutProject("urn:kpar:a", "1.0.0", func(root string) error { return boom })
	assert.ErrorIs(t, err, boom)

	has, err := store.Has("urn:kpar:a")
	require.NoError(t, err)
	assert.False(t, has)
}
