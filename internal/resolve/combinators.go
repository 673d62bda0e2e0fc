package resolve

import "github.com/sensmetry/sysand/internal/project"

// Priority yields Higher's stream when Higher resolves; otherwise it
// yields Lower's outcome verbatim (S8).
type Priority struct {
	Higher Resolver
	Lower  Resolver
}

func (p Priority) Resolve(iri string) (Outcome, error) {
	out, err := p.Higher.Resolve(iri)
	if err != nil {
		return Outcome{}, err
	}
	if out.Kind == Resolved {
		return out, nil
	}
	return p.Lower.Resolve(iri)
}

var _ Resolver = Priority{}

// Replace is semantically identical to Priority, documented as "primary
// overrides secondary entirely".
type Replace struct {
	Primary   Resolver
	Secondary Resolver
}

func (r Replace) Resolve(iri string) (Outcome, error) {
	return Priority{Higher: r.Primary, Lower: r.Secondary}.Resolve(iri)
}

var _ Resolver = Replace{}

// Remote concatenates HTTP's and Git's candidate streams in the declared
// preference order; if neither resolves, the stronger of the two
// negative outcomes (Unresolvable beats UnsupportedIriType) is reported.
type Remote struct {
	HTTP       Resolver
	Git        Resolver
	HTTPFirst  bool
}

func (r Remote) Resolve(iri string) (Outcome, error) {
	first, second := r.HTTP, r.Git
	if !r.HTTPFirst {
		first, second = r.Git, r.HTTP
	}

	firstOut, err := first.Resolve(iri)
	if err != nil {
		return Outcome{}, err
	}
	secondOut, err := second.Resolve(iri)
	if err != nil {
		return Outcome{}, err
	}

	if firstOut.Kind != Resolved && secondOut.Kind != Resolved {
		return combineNegative(firstOut, secondOut), nil
	}

	var candidates []project.ProjectRead
	if firstOut.Kind == Resolved {
		candidates = append(candidates, firstOut.Candidates...)
	}
	if secondOut.Kind == Resolved {
		candidates = append(candidates, secondOut.Candidates...)
	}
	return ResolvedOutcome(candidates), nil
}

func combineNegative(a, b Outcome) Outcome {
	if a.Kind == Unresolvable || b.Kind == Unresolvable {
		return UnresolvableOutcome("no remote resolver could resolve iri")
	}
	return UnsupportedOutcome("neither remote resolver supports iri")
}

var _ Resolver = Remote{}
