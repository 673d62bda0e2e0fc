package solve

import (
	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
	"github.com/sensmetry/sysand/internal/resolve"
)

// DependencyIdentifierKind discriminates the solver's two package
// families: the synthetic root (the caller's top-level usage list) and
// real IRI-addressed dependencies.
type DependencyIdentifierKind int

const (
	Requested DependencyIdentifierKind = iota
	Remote
)

// DependencyIdentifier names one "package" in the solver's search space.
type DependencyIdentifier struct {
	Kind DependencyIdentifierKind
	IRI  string
}

// Selection is one entry of a completed solve: the chosen candidate's
// manifests and the backend it came from.
type Selection struct {
	Info    *model.Info
	Meta    *model.Meta
	Backend project.ProjectRead
}

// Solver resolves each required IRI at most once via Resolver, caching
// the resulting candidate list in insertion order and searching it by
// backtracking, the way golang-dep's solver.go walks createVersionQueue
// / selectAtom / backtrack / unselectLast over a single SourceManager.
type Solver struct {
	Resolver resolve.Resolver

	cache map[string][]project.ProjectRead
}

func NewSolver(resolver resolve.Resolver) *Solver {
	return &Solver{Resolver: resolver, cache: map[string][]project.ProjectRead{}}
}

func (s *Solver) candidatesFor(iri string) ([]project.ProjectRead, error) {
	if cached, ok := s.cache[iri]; ok {
		return cached, nil
	}
	outcome, err := s.Resolver.Resolve(iri)
	if err != nil {
		return nil, err
	}
	var candidates []project.ProjectRead
	if outcome.Kind == resolve.Resolved {
		candidates = outcome.Candidates
	}
	s.cache[iri] = candidates
	return candidates, nil
}

// Solve takes the root's top-level usage list and returns a mapping from
// each satisfied IRI to its selected candidate. Deterministic: the same
// (usages, resolver state) always yields the same assignment, because
// ties are broken by ascending candidate index — first insertion order.
func (s *Solver) Solve(usages []model.Usage) (map[string]Selection, error) {
	assignment := map[string]int{}
	ok, err := s.solveUsages(usages, assignment)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewSolveError(s.derivation(usages))
	}

	out := make(map[string]Selection, len(assignment))
	for iri, idx := range assignment {
		candidates, _ := s.candidatesFor(iri)
		info, meta, err := candidates[idx].GetProject()
		if err != nil {
			return nil, err
		}
		out[iri] = Selection{Info: info, Meta: meta, Backend: candidates[idx]}
	}
	return out, nil
}

func (s *Solver) solveUsages(usages []model.Usage, assignment map[string]int) (bool, error) {
	for i, u := range usages {
		iri := u.Resource.String()

		if idx, already := assignment[iri]; already {
			candidates, err := s.candidatesFor(iri)
			if err != nil {
				return false, err
			}
			info, _, err := candidates[idx].GetProject()
			if err != nil || info == nil {
				return false, nil
			}
			if u.VersionConstraint != nil && !u.VersionConstraint.Matches(info.Version) {
				return false, nil
			}
			continue
		}

		candidates, err := s.candidatesFor(iri)
		if err != nil {
			return false, err
		}

		allowedIndices := make([]int, 0, len(candidates))
		for i, c := range candidates {
			if c.IsDefinitelyInvalid() {
				continue
			}
			info, _, err := c.GetProject()
			if err != nil || info == nil {
				continue
			}
			if u.VersionConstraint == nil || u.VersionConstraint.Matches(info.Version) {
				allowedIndices = append(allowedIndices, i)
			}
		}
		allowed := Finite(allowedIndices...)
		ordered := allowed.SortedMembers()

		for _, idx := range ordered {
			assignment[iri] = idx
			info, _, err := candidates[idx].GetProject()
			if err != nil {
				delete(assignment, iri)
				return false, err
			}
			rest := append(append([]model.Usage{}, info.Usage...), usages[i+1:]...)
			ok, err := s.solveUsages(rest, assignment)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		delete(assignment, iri)
		return false, nil
	}
	return true, nil
}

func (s *Solver) derivation(usages []model.Usage) string {
	if len(usages) == 0 {
		return "no usages requested"
	}
	msg := "no candidate satisfies: "
	for i, u := range usages {
		if i > 0 {
			msg += ", "
		}
		msg += u.Resource.String()
		if u.VersionConstraint != nil {
			msg += " " + u.VersionConstraint.String()
		}
	}
	return msg
}
