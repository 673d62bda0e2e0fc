// Package solve implements the §4.F dependency solver: a backtracking
// search over a DiscreteHashSet version-index domain per IRI, grounded
// on golang-dep's solver.go (selectAtom/backtrack/unselectLast) since no
// Go pubgrub library exists anywhere in the example corpus (see
// DESIGN.md — the original Rust implementation uses the `pubgrub`
// crate, which has no Go counterpart in the retrieved pack).
package solve

// DiscreteHashSet represents either a finite set of non-negative
// candidate indices or its complement (CoFinite) against the implicit
// universe of "all valid indices for this IRI's candidate list".
type DiscreteHashSet struct {
	finite   bool
	indices  map[int]struct{}
}

// Finite constructs a DiscreteHashSet containing exactly the given
// indices.
func Finite(indices ...int) DiscreteHashSet {
	m := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		m[i] = struct{}{}
	}
	return DiscreteHashSet{finite: true, indices: m}
}

// CoFinite constructs the complement of the given excluded indices:
// CoFinite() with no arguments is "everything".
func CoFinite(excluded ...int) DiscreteHashSet {
	m := make(map[int]struct{}, len(excluded))
	for _, i := range excluded {
		m[i] = struct{}{}
	}
	return DiscreteHashSet{finite: false, indices: m}
}

// Contains reports whether idx is a member. A CoFinite set contains
// every index it does not list as excluded.
func (s DiscreteHashSet) Contains(idx int) bool {
	_, listed := s.indices[idx]
	if s.finite {
		return listed // indices holds members when finite
	}
	return !listed
}

// Intersect returns the set containing indices present in both s and o,
// given the candidate-list size n needed to enumerate a CoFinite domain.
func (s DiscreteHashSet) Intersect(o DiscreteHashSet, n int) DiscreteHashSet {
	if s.finite && o.finite {
		out := map[int]struct{}{}
		for idx := range s.indices {
			if _, ok := o.indices[idx]; ok {
				out[idx] = struct{}{}
			}
		}
		return DiscreteHashSet{finite: true, indices: out}
	}
	if !s.finite && !o.finite {
		out := map[int]struct{}{}
		for idx := range s.indices {
			out[idx] = struct{}{}
		}
		for idx := range o.indices {
			out[idx] = struct{}{}
		}
		return DiscreteHashSet{finite: false, indices: out}
	}
	// One finite, one cofinite: result is finite (finite minus cofinite's exclusions' complement).
	finiteSet, cofiniteSet := s, o
	if o.finite {
		finiteSet, cofiniteSet = o, s
	}
	out := map[int]struct{}{}
	for idx := range finiteSet.indices {
		if cofiniteSet.Contains(idx) {
			out[idx] = struct{}{}
		}
	}
	return DiscreteHashSet{finite: true, indices: out}
}

// Cardinality returns the number of members when finite, or -1 when
// CoFinite (used to implement "priority prefers smaller finite sets").
func (s DiscreteHashSet) Cardinality() int {
	if !s.finite {
		return -1
	}
	return len(s.indices)
}

// SortedMembers returns the finite set's members in ascending order; it
// is a programmer error to call this on a CoFinite set without first
// intersecting it down to a finite candidate domain.
func (s DiscreteHashSet) SortedMembers() []int {
	out := make([]int, 0, len(s.indices))
	for idx := range s.indices {
		out = append(out, idx)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
