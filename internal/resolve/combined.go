package resolve

import (
	"github.com/sensmetry/sysand/internal/project"
)

// Combined implements the §4.E "standard policy", grounded on
// original_source/core/src/resolve/combined.rs's CombinedResolver /
// CombinedIterator: file resolver wins outright if it resolves;
// otherwise locally cached candidates are matched against remote (or
// index) candidates by project hash and annotated as cached-remote,
// remaining locals are emitted last as dangling-local.
type Combined struct {
	File   Resolver
	Local  Resolver
	Remote Resolver
	Index  Resolver
}

// Annotation records how a Combined candidate was produced, useful for
// diagnostics and for the S9 testable property.
type Annotation int

const (
	AnnotationNone Annotation = iota
	AnnotationCachedRemote
	AnnotationDanglingLocal
)

// AnnotatedCandidate pairs a resolver candidate with its provenance
// annotation.
type AnnotatedCandidate struct {
	Candidate  project.ProjectRead
	Annotation Annotation
}

func (c Combined) Resolve(iri string) (Outcome, error) {
	annotated, err := c.resolveAnnotated(iri)
	if err != nil {
		return Outcome{}, err
	}
	if annotated == nil {
		// No resolver considered the iri its own: distinguish
		// unsupported from unresolvable by re-probing each leaf.
		return c.classifyNegative(iri)
	}
	candidates := make([]project.ProjectRead, len(annotated))
	for i, a := range annotated {
		candidates[i] = a.Candidate
	}
	return ResolvedOutcome(candidates), nil
}

func (c Combined) resolveAnnotated(iri string) ([]AnnotatedCandidate, error) {
	fileOut, err := c.File.Resolve(iri)
	if err != nil {
		return nil, err
	}
	if fileOut.Kind == Resolved {
		out := make([]AnnotatedCandidate, len(fileOut.Candidates))
		for i, cand := range fileOut.Candidates {
			out[i] = AnnotatedCandidate{Candidate: cand}
		}
		return out, nil
	}

	localOut, err := c.Local.Resolve(iri)
	if err != nil {
		return nil, err
	}
	cachedByHash := map[string]project.ProjectRead{}
	var cachedOrder []string
	if localOut.Kind == Resolved {
		for _, cand := range localOut.Candidates {
			hash, err := project.ChecksumCanonicalHex(cand)
			if err != nil || hash == "" {
				continue
			}
			if _, exists := cachedByHash[hash]; !exists {
				cachedOrder = append(cachedOrder, hash)
			}
			cachedByHash[hash] = cand
		}
	}

	var out []AnnotatedCandidate
	anyRemoteValid := false

	remoteOut, err := c.Remote.Resolve(iri)
	if err != nil {
		return nil, err
	}
	if remoteOut.Kind == Resolved {
		for _, cand := range remoteOut.Candidates {
			if cand.IsDefinitelyInvalid() {
				continue
			}
			info, meta, err := cand.GetProject()
			if err != nil || info == nil || meta == nil {
				continue
			}
			anyRemoteValid = true
			hash, _ := project.ChecksumCanonicalHex(cand)
			if hash != "" {
				if _, ok := cachedByHash[hash]; ok {
					out = append(out,
						AnnotatedCandidate{Candidate: cachedByHash[hash], Annotation: AnnotationCachedRemote},
						AnnotatedCandidate{Candidate: cand, Annotation: AnnotationCachedRemote},
					)
					delete(cachedByHash, hash)
					cachedOrder = removeHash(cachedOrder, hash)
					continue
				}
			}
			out = append(out, AnnotatedCandidate{Candidate: cand})
		}
	}

	if !anyRemoteValid {
		indexOut, err := c.Index.Resolve(iri)
		if err != nil {
			return nil, err
		}
		if indexOut.Kind == Resolved {
			for _, cand := range indexOut.Candidates {
				hash, _ := project.ChecksumCanonicalHex(cand)
				if hash != "" {
					if _, ok := cachedByHash[hash]; ok {
						out = append(out,
							AnnotatedCandidate{Candidate: cachedByHash[hash], Annotation: AnnotationCachedRemote},
							AnnotatedCandidate{Candidate: cand, Annotation: AnnotationCachedRemote},
						)
						delete(cachedByHash, hash)
						cachedOrder = removeHash(cachedOrder, hash)
						continue
					}
				}
				out = append(out, AnnotatedCandidate{Candidate: cand})
			}
		}
	}

	for _, hash := range cachedOrder {
		out = append(out, AnnotatedCandidate{Candidate: cachedByHash[hash], Annotation: AnnotationDanglingLocal})
	}

	if out == nil && localOut.Kind != Resolved {
		return nil, nil
	}
	return out, nil
}

func (c Combined) classifyNegative(iri string) (Outcome, error) {
	any := false
	for _, r := range []Resolver{c.File, c.Local, c.Remote, c.Index} {
		out, err := r.Resolve(iri)
		if err != nil {
			return Outcome{}, err
		}
		if out.Kind != UnsupportedIriType {
			any = true
		}
	}
	if !any {
		return UnsupportedOutcome("no resolver in the standard policy supports this iri"), nil
	}
	return UnresolvableOutcome("standard policy found no candidates"), nil
}

func removeHash(order []string, hash string) []string {
	out := order[:0:0]
	for _, h := range order {
		if h != hash {
			out = append(out, h)
		}
	}
	return out
}

var _ Resolver = Combined{}
