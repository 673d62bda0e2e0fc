package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/internal/project"
)

type stubReadEnv struct {
	has        bool
	candidates []project.ProjectRead
}

func (s stubReadEnv) URIs() ([]string, error)             { return nil, nil }
func (s stubReadEnv) Versions(iri string) ([]string, error) { return nil, nil }
func (s stubReadEnv) GetProject(iri, version string) (project.ProjectRead, error) {
	return nil, nil
}
func (s stubReadEnv) Has(iri string) (bool, error)          { return s.has, nil }
func (s stubReadEnv) HasVersion(iri, v string) (bool, error) { return s.has, nil }
func (s stubReadEnv) CandidateProjects(iri string) ([]project.ProjectRead, error) {
	return s.candidates, nil
}

func TestEnvironmentResolverUnresolvableWhenAbsent(t *testing.T) {
	r := EnvironmentResolver{Env: stubReadEnv{has: false}}
	out, err := r.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, Unresolvable, out.Kind)
}

func TestEnvironmentResolverResolvedWhenPresent(t *testing.T) {
	cand := fixtureProject(t, "cached", "1.0.0")
	r := EnvironmentResolver{Env: stubReadEnv{has: true, candidates: []project.ProjectRead{cand}}}
	out, err := r.Resolve("x")
	require.NoError(t, err)
	require.Equal(t, Resolved, out.Kind)
	assert.Len(t, out.Candidates, 1)
}
