// Package resolve implements the §4.E resolver family: leaf resolvers
// over file/HTTP/git/environment/memory sources, combined by
// priority/fallback/replacement operators into the standard policy.
package resolve

import "github.com/sensmetry/sysand/internal/project"

// OutcomeKind is the tri-state result of a single resolver invocation.
type OutcomeKind int

const (
	Resolved OutcomeKind = iota
	UnsupportedIriType
	Unresolvable
)

// Outcome is a resolver's answer for one IRI: either an ordered,
// possibly-empty candidate stream, or one of the two negative outcomes.
type Outcome struct {
	Kind       OutcomeKind
	Candidates []project.ProjectRead
	Reason     string
}

func ResolvedOutcome(candidates []project.ProjectRead) Outcome {
	return Outcome{Kind: Resolved, Candidates: candidates}
}

func UnsupportedOutcome(reason string) Outcome {
	return Outcome{Kind: UnsupportedIriType, Reason: reason}
}

func UnresolvableOutcome(reason string) Outcome {
	return Outcome{Kind: Unresolvable, Reason: reason}
}

// Resolver maps an IRI to an ordered candidate stream. Implementations
// must never recurse indefinitely: every call either returns a
// (possibly empty) Resolved stream or a negative outcome.
type Resolver interface {
	Resolve(iri string) (Outcome, error)
}

// NullResolver always answers UnsupportedIriType — a typed "no", used as
// the base case of combinators and in tests.
type NullResolver struct{ Reason string }

func (n NullResolver) Resolve(iri string) (Outcome, error) {
	reason := n.Reason
	if reason == "" {
		reason = "null resolver supports nothing"
	}
	return UnsupportedOutcome(reason), nil
}

var _ Resolver = NullResolver{}
