// Package lockfile implements the §4.G lock/sync pipeline: deterministic
// lockfile generation from a solved dependency set, and idempotent
// installation of locked projects into an environment.
package lockfile

import (
	"sort"

	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
	"github.com/sensmetry/sysand/internal/solve"
)

// Generate materializes a solver result into a Lockfile, sorted by
// (first IRI, version) so the byte stream is stable regardless of
// solver traversal order.
func Generate(selections map[string]solve.Selection) (model.Lockfile, error) {
	entries := make([]model.LockedProject, 0, len(selections))
	for iri, sel := range selections {
		canonHex, err := project.ChecksumCanonicalHex(sel.Backend)
		if err != nil {
			return model.Lockfile{}, err
		}
		sources, err := sel.Backend.Sources()
		if err != nil {
			return model.Lockfile{}, err
		}

		var infoRaw *model.InfoRaw
		var metaRaw *model.MetaRaw
		if sel.Info != nil {
			r := sel.Info.Raw()
			infoRaw = &r
		}
		if sel.Meta != nil {
			r := sel.Meta.Raw()
			metaRaw = &r
		}

		entries = append(entries, model.LockedProject{
			Identifiers: []string{iri},
			Checksum:    canonHex,
			Info:        infoRaw,
			Meta:        metaRaw,
			Sources:     sources,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Identifiers[0] != entries[j].Identifiers[0] {
			return entries[i].Identifiers[0] < entries[j].Identifiers[0]
		}
		vi, vj := "", ""
		if entries[i].Info != nil {
			vi = entries[i].Info.Version
		}
		if entries[j].Info != nil {
			vj = entries[j].Info.Version
		}
		return vi < vj
	})

	return model.Lockfile{LockVersion: model.CurrentLockVersion, Project: entries}, nil
}
