// Package model holds the raw and validated forms of an interchange
// project's manifests (Info, Meta), the lockfile shape, and the
// checksum/project-hash primitives shared by every backend.
package model

import (
	"net/url"
	"time"

	"github.com/Masterminds/semver/v3"
)

// IRI is a validated Internationalized Resource Identifier. Go's net/url
// is used as the parser of record, the way golang-dep's own deducers.go
// leans on net/url for repository-root detection; validity here only
// means "net/url could parse it as an absolute-or-relative reference
// with a non-empty string form", matching the raw-vs-validated split of
// spec.md §4.A without pulling in a dedicated IRI library absent from
// the example pack.
type IRI struct {
	raw    string
	parsed *url.URL
}

func (i IRI) String() string { return i.raw }

// ValidateIRI parses a raw IRI literal, returning a *ValidateError on
// failure via the §7 error taxonomy.
func ValidateIRI(raw string) (IRI, error) {
	if raw == "" {
		return IRI{}, NewValidateError("iri", raw, errEmptyIRI)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return IRI{}, NewValidateError("iri", raw, err)
	}
	return IRI{raw: raw, parsed: u}, nil
}

var errEmptyIRI = &emptyIRIError{}

type emptyIRIError struct{}

func (*emptyIRIError) Error() string { return "IRI must not be empty" }

// Version is a validated semantic version.
type Version struct {
	raw    string
	parsed *semver.Version
}

func (v Version) String() string        { return v.raw }
func (v Version) Semver() *semver.Version { return v.parsed }

func ValidateVersion(raw string) (Version, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return Version{}, NewValidateError("semver", raw, err)
	}
	return Version{raw: raw, parsed: v}, nil
}

// VersionRequirement is a validated semver constraint expression, e.g.
// ">=1.0.0, <2.0.0".
type VersionRequirement struct {
	raw        string
	constraint *semver.Constraints
}

func (r VersionRequirement) String() string { return r.raw }

func (r VersionRequirement) Matches(v Version) bool {
	if r.constraint == nil || v.parsed == nil {
		return false
	}
	return r.constraint.Check(v.parsed)
}

func ValidateVersionRequirement(raw string) (VersionRequirement, error) {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return VersionRequirement{}, NewValidateError("semver-requirement", raw, err)
	}
	return VersionRequirement{raw: raw, constraint: c}, nil
}

// DateTime is a validated RFC3339 UTC timestamp.
type DateTime struct {
	raw    string
	parsed time.Time
}

func (d DateTime) String() string  { return d.raw }
func (d DateTime) Time() time.Time { return d.parsed }

func ValidateDateTime(raw string) (DateTime, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return DateTime{}, NewValidateError("datetime", raw, err)
	}
	return DateTime{raw: raw, parsed: t.UTC()}, nil
}

// NewDateTime produces a DateTime from t (converted to UTC), formatted the
// way `created` is written when a project is initialized.
func NewDateTime(t time.Time) DateTime {
	raw := t.UTC().Format(time.RFC3339)
	return DateTime{raw: raw, parsed: t.UTC()}
}
