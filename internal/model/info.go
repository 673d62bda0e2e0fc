package model

import (
	"bytes"
	"encoding/json"
	"io"
)

// InfoName is the well-known manifest filename inside a LocalSrc project
// root, mirroring golang-dep's ManifestName constant.
const InfoName = ".project.json"

// UsageRaw is the on-the-wire (string-typed) form of a dependency usage
// declaration.
type UsageRaw struct {
	Resource          string `json:"resource"`
	VersionConstraint string `json:"versionConstraint,omitempty"`
}

// Usage is the validated form: a parsed IRI and an optional parsed
// semver requirement.
type Usage struct {
	Resource          IRI
	VersionConstraint *VersionRequirement
}

func (u UsageRaw) Validate() (Usage, error) {
	iri, err := ValidateIRI(u.Resource)
	if err != nil {
		return Usage{}, err
	}
	var vr *VersionRequirement
	if u.VersionConstraint != "" {
		v, err := ValidateVersionRequirement(u.VersionConstraint)
		if err != nil {
			return Usage{}, err
		}
		vr = &v
	}
	return Usage{Resource: iri, VersionConstraint: vr}, nil
}

func (u Usage) Raw() UsageRaw {
	raw := UsageRaw{Resource: u.Resource.String()}
	if u.VersionConstraint != nil {
		raw.VersionConstraint = u.VersionConstraint.String()
	}
	return raw
}

// InfoRaw is the raw, JSON-deserialized form of a `.project.json`
// manifest. Field names are camelCase on the wire, matching the
// teacher's JSON manifests (manifest.go) and the original Rust model's
// `#[serde(rename_all = "camelCase")]`.
type InfoRaw struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Version     string     `json:"version"`
	License     string     `json:"license,omitempty"`
	Maintainer  []string   `json:"maintainer,omitempty"`
	Website     string     `json:"website,omitempty"`
	Topic       []string   `json:"topic,omitempty"`
	Usage       []UsageRaw `json:"usage"`
}

// Info is the validated form of InfoRaw.
type Info struct {
	Name        string
	Description string
	Version     Version
	License     string
	Maintainer  []string
	Website     *IRI
	Topic       []string
	Usage       []Usage
}

// MinimalInfoRaw constructs an InfoRaw with only name and version set, mirroring
// the original `InterchangeProjectInfoG::minimal`.
func MinimalInfoRaw(name, version string) InfoRaw {
	return InfoRaw{Name: name, Version: version, Usage: []UsageRaw{}}
}

func (r InfoRaw) Validate() (Info, error) {
	v, err := ValidateVersion(r.Version)
	if err != nil {
		return Info{}, err
	}
	usage := make([]Usage, 0, len(r.Usage))
	for _, u := range r.Usage {
		vu, err := u.Validate()
		if err != nil {
			return Info{}, err
		}
		usage = append(usage, vu)
	}
	var website *IRI
	if r.Website != "" {
		w, err := ValidateIRI(r.Website)
		if err != nil {
			return Info{}, err
		}
		website = &w
	}
	return Info{
		Name:        r.Name,
		Description: r.Description,
		Version:     v,
		License:     r.License,
		Maintainer:  r.Maintainer,
		Website:     website,
		Topic:       r.Topic,
		Usage:       usage,
	}, nil
}

func (i Info) Raw() InfoRaw {
	raw := InfoRaw{
		Name:        i.Name,
		Description: i.Description,
		Version:     i.Version.String(),
		License:     i.License,
		Maintainer:  i.Maintainer,
		Topic:       i.Topic,
		Usage:       make([]UsageRaw, 0, len(i.Usage)),
	}
	if i.Website != nil {
		raw.Website = i.Website.String()
	}
	for _, u := range i.Usage {
		raw.Usage = append(raw.Usage, u.Raw())
	}
	return raw
}

// DecodeInfo reads a `.project.json` document.
func DecodeInfo(r io.Reader) (InfoRaw, error) {
	var raw InfoRaw
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return InfoRaw{}, WrapDeserialize("failed to deserialize "+InfoName, err)
	}
	return raw, nil
}

// EncodeInfo writes a `.project.json` document with stable, readable
// indentation, the way golang-dep's Manifest.MarshalJSON sets up its
// encoder (2-space vs. 4-space indent is a style choice; sysand follows
// the original implementation's 2-space JSON).
func EncodeInfo(raw InfoRaw) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AddUsage appends a usage declaration unless resource+constraint already
// match an existing entry.
func (r *InfoRaw) AddUsage(resource, versionConstraint string) {
	for _, u := range r.Usage {
		if u.Resource == resource && u.VersionConstraint == versionConstraint {
			return
		}
	}
	r.Usage = append(r.Usage, UsageRaw{Resource: resource, VersionConstraint: versionConstraint})
}

// RemoveUsage removes every usage entry whose resource matches, returning
// the removed entries.
func (r *InfoRaw) RemoveUsage(resource string) []UsageRaw {
	kept := r.Usage[:0:0]
	var removed []UsageRaw
	for _, u := range r.Usage {
		if u.Resource == resource {
			removed = append(removed, u)
		} else {
			kept = append(kept, u)
		}
	}
	r.Usage = kept
	return removed
}
