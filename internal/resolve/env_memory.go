package resolve

import (
	"github.com/sensmetry/sysand/internal/env"
	"github.com/sensmetry/sysand/internal/project"
)

// EnvironmentResolver emits all versions of a matching IRI from a local
// environment store.
type EnvironmentResolver struct {
	Env env.ReadEnvironment
}

func (e EnvironmentResolver) Resolve(iri string) (Outcome, error) {
	has, err := e.Env.Has(iri)
	if err != nil {
		return Outcome{}, err
	}
	if !has {
		return UnresolvableOutcome("no cached versions for iri"), nil
	}
	candidates, err := e.Env.CandidateProjects(iri)
	if err != nil {
		return Outcome{}, err
	}
	return ResolvedOutcome(candidates), nil
}

var _ Resolver = EnvironmentResolver{}

// MemoryResolver emits all in-process projects whose key IRI matches iri
// under Match, the predicate supplied by the caller (exact-match by
// default).
type MemoryResolver struct {
	Projects map[string]project.ProjectRead
	Match    func(key, iri string) bool
}

func (m MemoryResolver) Resolve(iri string) (Outcome, error) {
	match := m.Match
	if match == nil {
		match = func(key, iri string) bool { return key == iri }
	}
	var candidates []project.ProjectRead
	for key, p := range m.Projects {
		if match(key, iri) {
			candidates = append(candidates, p)
		}
	}
	if candidates == nil {
		return UnresolvableOutcome("no in-memory project matches iri"), nil
	}
	return ResolvedOutcome(candidates), nil
}

var _ Resolver = MemoryResolver{}
