package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
)

var fixedTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func fixtureProject(t *testing.T, name, version string) project.ProjectRead {
	t.Helper()
	p, err := project.NewInMemoryFrom(
		model.MinimalInfoRaw(name, version),
		model.GenerateBlankMetaRaw(model.NewDateTime(fixedTime)),
		nil,
	)
	require.NoError(t, err)
	return p
}

func TestNullResolverAlwaysUnsupported(t *testing.T) {
	out, err := NullResolver{}.Resolve("anything")
	require.NoError(t, err)
	assert.Equal(t, UnsupportedIriType, out.Kind)
}

func TestPriorityPrefersHigher(t *testing.T) {
	higher := MemoryResolver{Projects: map[string]project.ProjectRead{"a": fixtureProject(t, "a", "1.0.0")}}
	lower := MemoryResolver{Projects: map[string]project.ProjectRead{"a": fixtureProject(t, "a-lower", "1.0.0")}}

	p := Priority{Higher: higher, Lower: lower}
	out, err := p.Resolve("a")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	require.Len(t, out.Candidates, 1)
	name, err := project.Name(out.Candidates[0])
	require.NoError(t, err)
	assert.Equal(t, "a", name)
}

func TestPriorityFallsBackToLower(t *testing.T) {
	higher := NullResolver{}
	lower := MemoryResolver{Projects: map[string]project.ProjectRead{"a": fixtureProject(t, "a", "1.0.0")}}

	p := Priority{Higher: higher, Lower: lower}
	out, err := p.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, Resolved, out.Kind)
}

func TestMemoryResolverUnresolvableWhenNoMatch(t *testing.T) {
	m := MemoryResolver{Projects: map[string]project.ProjectRead{"a": fixtureProject(t, "a", "1.0.0")}}
	out, err := m.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, Unresolvable, out.Kind)
}

func TestCombinedFileWinsOutright(t *testing.T) {
	fileR := MemoryResolver{Projects: map[string]project.ProjectRead{"x": fixtureProject(t, "from-file", "1.0.0")}}
	c := Combined{
		File:   fileR,
		Local:  NullResolver{},
		Remote: NullResolver{},
		Index:  NullResolver{},
	}
	out, err := c.Resolve("x")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	require.Len(t, out.Candidates, 1)
}

func TestCombinedUnsupportedWhenNoResolverKnowsIri(t *testing.T) {
	c := Combined{File: NullResolver{}, Local: NullResolver{}, Remote: NullResolver{}, Index: NullResolver{}}
	out, err := c.Resolve("unknown:thing")
	require.NoError(t, err)
	assert.Equal(t, UnsupportedIriType, out.Kind)
}

func TestCombinedFallsThroughToIndexWhenRemoteEmpty(t *testing.T) {
	idx := MemoryResolver{Projects: map[string]project.ProjectRead{"x": fixtureProject(t, "from-index", "1.0.0")}}
	c := Combined{
		File:   NullResolver{},
		Local:  NullResolver{},
		Remote: NullResolver{},
		Index:  idx,
	}
	out, err := c.Resolve("x")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	require.Len(t, out.Candidates, 1)
}
