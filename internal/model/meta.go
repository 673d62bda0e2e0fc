package model

import (
	"bytes"
	"encoding/json"
	"io"
)

// MetaName is the well-known metadata manifest filename.
const MetaName = ".meta.json"

// Algorithm is the controlled vocabulary for checksum algorithms.
// "none" is the sentinel for an unchecked inclusion (spec.md §3).
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmNone   Algorithm = "none"
)

// ChecksumEntry is one entry of a Meta's checksum table.
type ChecksumEntry struct {
	Algorithm Algorithm `json:"algorithm"`
	Value     string    `json:"value"`
}

// MetaRaw is the raw, JSON-deserialized form of a `.meta.json` manifest.
type MetaRaw struct {
	Index            *OrderedStringMap[string]        `json:"index"`
	Created          string                            `json:"created"`
	Metamodel        string                            `json:"metamodel,omitempty"`
	IncludesDerived  *bool                              `json:"includesDerived,omitempty"`
	IncludesImplied  *bool                              `json:"includesImplied,omitempty"`
	Checksum         *OrderedStringMap[ChecksumEntry]  `json:"checksum,omitempty"`
}

// Meta is the validated form of MetaRaw.
type Meta struct {
	Index           *OrderedStringMap[string]
	Created         DateTime
	Metamodel       *IRI
	IncludesDerived *bool
	IncludesImplied *bool
	Checksum        *OrderedStringMap[ChecksumEntry]
}

// GenerateBlankMetaRaw produces an empty Meta stamped with the given
// created time, mirroring `InterchangeProjectMetadataRaw::generate_blank`.
func GenerateBlankMetaRaw(created DateTime) MetaRaw {
	return MetaRaw{
		Index:   NewOrderedStringMap[string](),
		Created: created.String(),
	}
}

func (r MetaRaw) Validate() (Meta, error) {
	created, err := ValidateDateTime(r.Created)
	if err != nil {
		return Meta{}, err
	}
	var metamodel *IRI
	if r.Metamodel != "" {
		m, err := ValidateIRI(r.Metamodel)
		if err != nil {
			return Meta{}, err
		}
		metamodel = &m
	}
	index := r.Index
	if index == nil {
		index = NewOrderedStringMap[string]()
	}
	return Meta{
		Index:           index,
		Created:         created,
		Metamodel:       metamodel,
		IncludesDerived: r.IncludesDerived,
		IncludesImplied: r.IncludesImplied,
		Checksum:        r.Checksum,
	}, nil
}

func (m Meta) Raw() MetaRaw {
	raw := MetaRaw{
		Index:           m.Index,
		Created:         m.Created.String(),
		IncludesDerived: m.IncludesDerived,
		IncludesImplied: m.IncludesImplied,
		Checksum:        m.Checksum,
	}
	if m.Metamodel != nil {
		raw.Metamodel = m.Metamodel.String()
	}
	return raw
}

// DecodeMeta reads a `.meta.json` document.
func DecodeMeta(r io.Reader) (MetaRaw, error) {
	var raw MetaRaw
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return MetaRaw{}, WrapDeserialize("failed to deserialize "+MetaName, err)
	}
	if raw.Index == nil {
		raw.Index = NewOrderedStringMap[string]()
	}
	return raw, nil
}

// EncodeMeta writes a `.meta.json` document.
func EncodeMeta(raw MetaRaw) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AddChecksum inserts or updates a checksum entry, preserving insertion
// order. Returns the previous entry, if any. Mirrors
// `InterchangeProjectMetadataRaw::add_checksum`.
func (r *MetaRaw) AddChecksum(path string, algorithm Algorithm, value string, overwrite bool) (ChecksumEntry, bool) {
	if r.Checksum == nil {
		r.Checksum = NewOrderedStringMap[ChecksumEntry]()
	}
	if existing, ok := r.Checksum.Get(path); ok && !overwrite {
		return existing, true
	}
	old, existed := r.Checksum.Set(path, ChecksumEntry{Algorithm: algorithm, Value: value})
	return old, existed
}

// RemoveChecksum deletes a checksum entry, returning the removed value
// if it was present.
func (r *MetaRaw) RemoveChecksum(path string) (ChecksumEntry, bool) {
	if r.Checksum == nil {
		return ChecksumEntry{}, false
	}
	return r.Checksum.Delete(path)
}

// RemoveIndex deletes every index entry whose value equals path,
// returning the removed symbol names.
func (r *MetaRaw) RemoveIndex(path string) []string {
	if r.Index == nil {
		return nil
	}
	var removed []string
	for _, key := range r.Index.Keys() {
		v, _ := r.Index.Get(key)
		if v == path {
			r.Index.Delete(key)
			removed = append(removed, key)
		}
	}
	return removed
}

// SourcePaths returns the union of checksum keys and (optionally) index
// values: the set of source-file paths this manifest references.
func (r MetaRaw) SourcePaths(includeIndex bool) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	if r.Checksum != nil {
		for _, k := range r.Checksum.Keys() {
			add(k)
		}
	}
	if includeIndex && r.Index != nil {
		for _, k := range r.Index.Keys() {
			v, _ := r.Index.Get(k)
			add(v)
		}
	}
	return out
}

// MergeOutcome reports which symbols were newly inserted into the index
// vs. which already existed (merge_index's return value).
type MergeOutcome struct {
	New      []string
	Existing []ExistingIndexEntry
}

type ExistingIndexEntry struct {
	Symbol string
	Path   string
}

// MergeIndex adds (symbol -> path) pairs to the index, optionally
// overwriting existing entries, reporting which were new vs. pre-existing.
func (r *MetaRaw) MergeIndex(pairs []IndexPair, overwrite bool) MergeOutcome {
	if r.Index == nil {
		r.Index = NewOrderedStringMap[string]()
	}
	var out MergeOutcome
	for _, pair := range pairs {
		if existing, ok := r.Index.Get(pair.Symbol); ok {
			current := existing
			if overwrite {
				r.Index.Set(pair.Symbol, pair.Path)
				current = pair.Path
			}
			out.Existing = append(out.Existing, ExistingIndexEntry{Symbol: pair.Symbol, Path: current})
		} else {
			r.Index.Set(pair.Symbol, pair.Path)
			out.New = append(out.New, pair.Symbol)
		}
	}
	return out
}

// IndexPair is a (symbol, relative source path) pair as produced by the
// external symbol extractor (§4.C).
type IndexPair struct {
	Symbol string
	Path   string
}
