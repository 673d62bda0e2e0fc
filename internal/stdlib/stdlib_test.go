package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectsKeyedByShortAndLongIRI(t *testing.T) {
	projects, err := Projects()
	require.NoError(t, err)

	short, ok := projects["urn:kpar:quantities-and-units-library"]
	require.True(t, ok)

	long, ok := projects["https://www.omg.org/spec/SysML/20250201/Quantities-and-Units-Library.kpar"]
	require.True(t, ok)

	assert.Same(t, short, long)

	info, _, err := short.GetProject()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Quantities and Units Library", info.Name)
}

func TestProjectsIncludesAllBundledLibraries(t *testing.T) {
	projects, err := Projects()
	require.NoError(t, err)
	for _, lib := range libraries {
		_, ok := projects["urn:kpar:"+lib.name]
		assert.True(t, ok, "missing bundled library %s", lib.name)
	}
}

func TestNewResolverResolvesShortIRI(t *testing.T) {
	r, err := NewResolver()
	require.NoError(t, err)
	outcome, err := r.Resolve("urn:kpar:function-library")
	require.NoError(t, err)
	assert.Equal(t, 1, len(outcome.Candidates))
}
