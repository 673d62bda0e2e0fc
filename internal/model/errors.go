package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// DeserializeError wraps a manifest that failed to parse as JSON, naming
// which manifest it was.
type DeserializeError struct {
	Context string // e.g. "failed to deserialize .project.json"
	Err     error
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Context, e.Err)
}

func (e *DeserializeError) Unwrap() error { return e.Err }

func WrapDeserialize(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &DeserializeError{Context: context, Err: errors.WithStack(cause)}
}

// ValidateError is returned when syntactically well-formed JSON fails to
// become a semantically valid value: a bad IRI, a bad semver version or
// requirement, or a bad RFC3339 datetime.
type ValidateError struct {
	Kind    string // "iri", "semver", "semver-requirement", "datetime"
	Literal string
	Err     error
}

func (e *ValidateError) Error() string {
	return fmt.Sprintf("failed to parse %q as %s: %s", e.Literal, e.Kind, e.Err)
}

func (e *ValidateError) Unwrap() error { return e.Err }

func NewValidateError(kind, literal string, cause error) error {
	return &ValidateError{Kind: kind, Literal: literal, Err: errors.WithStack(cause)}
}

// IOError carries the operation name and the affected path for a
// filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func NewIOError(op, path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: errors.WithStack(cause)}
}

// CatastrophicIOError means a rollback itself failed: the filesystem is
// left in a state that needs manual inspection. Never retry automatically
// on this error.
type CatastrophicIOError struct {
	Original error
	Rollback error
}

func (e *CatastrophicIOError) Error() string {
	return fmt.Sprintf("catastrophic failure: rollback after %q also failed: %q", e.Original, e.Rollback)
}

func NewCatastrophicIOError(original, rollback error) error {
	return &CatastrophicIOError{Original: original, Rollback: rollback}
}

// NetworkError carries the URL and status for an HTTP failure.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s returned unexpected status %d", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func NewNetworkError(url string, status int, cause error) error {
	return &NetworkError{URL: url, Status: status, Err: cause}
}

// SyncErrorKind enumerates the §7 Sync failure modes.
type SyncErrorKind int

const (
	SyncBadChecksum SyncErrorKind = iota
	SyncMissingSource
	SyncMissingIri
	SyncUnsupportedSources
	SyncInstallFailure
)

func (k SyncErrorKind) String() string {
	switch k {
	case SyncBadChecksum:
		return "bad checksum"
	case SyncMissingSource:
		return "missing source"
	case SyncMissingIri:
		return "missing iri"
	case SyncUnsupportedSources:
		return "unsupported sources"
	case SyncInstallFailure:
		return "install failure"
	default:
		return "unknown sync error"
	}
}

// SyncError reports the first unrecoverable error for one lockfile entry,
// identified by its IRI.
type SyncError struct {
	Kind SyncErrorKind
	IRI  string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync %s (%s): %s", e.IRI, e.Kind, e.Err)
	}
	return fmt.Sprintf("sync %s: %s", e.IRI, e.Kind)
}

func (e *SyncError) Unwrap() error { return e.Err }

func NewSyncError(kind SyncErrorKind, iri string, cause error) error {
	return &SyncError{Kind: kind, IRI: iri, Err: cause}
}

// SolveError carries a human-readable derivation extracted from the
// solver when no assignment satisfies all constraints.
type SolveError struct {
	Derivation string
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("no solution satisfies all constraints: %s", e.Derivation)
}

func NewSolveError(derivation string) error {
	return &SolveError{Derivation: derivation}
}
