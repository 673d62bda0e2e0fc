package solve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
	"github.com/sensmetry/sysand/internal/resolve"
)

var fixedTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func pkg(t *testing.T, name, version string, usage []model.UsageRaw) project.ProjectRead {
	t.Helper()
	raw := model.InfoRaw{Name: name, Version: version, Usage: usage}
	p, err := project.NewInMemoryFrom(raw, model.GenerateBlankMetaRaw(model.NewDateTime(fixedTime)), nil)
	require.NoError(t, err)
	return p
}

func usage(t *testing.T, resource, constraint string) model.Usage {
	t.Helper()
	u, err := model.UsageRaw{Resource: resource, VersionConstraint: constraint}.Validate()
	require.NoError(t, err)
	return u
}

func TestSolverPicksMatchingVersion(t *testing.T) {
	resolver := resolve.MemoryResolver{
		Projects: map[string]project.ProjectRead{
			"urn:kpar:a": pkg(t, "a", "1.0.0", nil),
		},
		Match: func(key, iri string) bool { return key == iri },
	}

	s := NewSolver(resolver)
	selections, err := s.Solve([]model.Usage{usage(t, "urn:kpar:a", "1.0.0")})
	require.NoError(t, err)
	require.Contains(t, selections, "urn:kpar:a")
	assert.Equal(t, "a", selections["urn:kpar:a"].Info.Name)
}

func TestSolverFailsWhenNoVersionMatches(t *testing.T) {
	resolver := resolve.MemoryResolver{
		Projects: map[string]project.ProjectRead{
			"urn:kpar:a": pkg(t, "a", "1.0.0", nil),
		},
	}

	s := NewSolver(resolver)
	_, err := s.Solve([]model.Usage{usage(t, "urn:kpar:a", "2.0.0")})
	assert.Error(t, err)
}

func TestSolverResolvesTransitiveUsage(t *testing.T) {
	b := pkg(t, "b", "1.0.0", nil)
	a := pkg(t, "a", "1.0.0", []model.UsageRaw{{Resource: "urn:kpar:b"}})

	resolver := resolve.MemoryResolver{
		Projects: map[string]project.ProjectRead{
			"urn:kpar:a": a,
			"urn:kpar:b": b,
		},
	}

	s := NewSolver(resolver)
	selections, err := s.Solve([]model.Usage{usage(t, "urn:kpar:a", "")})
	require.NoError(t, err)
	assert.Contains(t, selections, "urn:kpar:a")
	assert.Contains(t, selections, "urn:kpar:b")
}
