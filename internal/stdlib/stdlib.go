// Package stdlib bundles the OMG SysML v2 / KerML standard library
// packages that ship with every sysand install, mirroring the original
// implementation's known_std_libs() (core/src/stdlib.rs): a
// process-wide, read-only table of InMemoryProject values, keyed by
// every IRI form an interchange project might use to request one of
// them — both the short urn:kpar: form and the long-form
// https://www.omg.org/spec/... URL.
//
// Bundled manifests live under assets/<snapshot>/<library>.project.json
// and .meta.json, embedded at build time so the binary needs no
// external data directory to resolve a standard-library usage.
package stdlib

import (
	"embed"
	"fmt"
	"sync"

	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
	"github.com/sensmetry/sysand/internal/resolve"
)

//go:embed assets
var assets embed.FS

// Snapshot is one dated release of the bundled standard library.
const Snapshot = "20250201"

// libraries lists the bundled library basenames and the long-form
// omg.org URLs that also resolve to them, for the current Snapshot.
// Each entry mirrors one std_lib! registration in the original
// known_std_libs().
var libraries = []struct {
	name string
	urls []string
}{
	{
		name: "quantities-and-units-library",
		urls: []string{
			"https://www.omg.org/spec/SysML/20250201/Quantities-and-Units-Library.kpar",
		},
	},
	{
		name: "function-library",
		urls: []string{
			"https://www.omg.org/spec/SysML/20250201/Function-Library.kpar",
		},
	},
	{
		name: "systems-library",
		urls: []string{
			"https://www.omg.org/spec/SysML/20250201/Systems-Library.kpar",
		},
	},
}

var (
	once     sync.Once
	projects map[string]project.ProjectRead
	loadErr  error
)

// load parses every embedded manifest pair and populates projects,
// keyed by both its urn:kpar: short name and any long-form URLs.
func load() {
	projects = make(map[string]project.ProjectRead)
	for _, lib := range libraries {
		base := "assets/" + Snapshot + "/" + lib.name
		infoRaw, metaRaw, err := readManifests(base)
		if err != nil {
			loadErr = fmt.Errorf("stdlib: %s: %w", lib.name, err)
			return
		}
		p, err := project.NewInMemoryFrom(infoRaw, metaRaw, nil)
		if err != nil {
			loadErr = fmt.Errorf("stdlib: %s: %w", lib.name, err)
			return
		}
		projects["urn:kpar:"+lib.name] = p
		for _, u := range lib.urls {
			projects[u] = p
		}
	}
}

func readManifests(base string) (model.InfoRaw, model.MetaRaw, error) {
	infoBytes, err := assets.Open(base + ".project.json")
	if err != nil {
		return model.InfoRaw{}, model.MetaRaw{}, err
	}
	defer infoBytes.Close()
	infoRaw, err := model.DecodeInfo(infoBytes)
	if err != nil {
		return model.InfoRaw{}, model.MetaRaw{}, err
	}

	metaBytes, err := assets.Open(base + ".meta.json")
	if err != nil {
		return model.InfoRaw{}, model.MetaRaw{}, err
	}
	defer metaBytes.Close()
	metaRaw, err := model.DecodeMeta(metaBytes)
	if err != nil {
		return model.InfoRaw{}, model.MetaRaw{}, err
	}

	return infoRaw, metaRaw, nil
}

// Projects returns the process-wide standard-library table, parsing the
// embedded manifests on first use. The returned map must not be
// mutated; callers needing a private copy should build their own
// resolve.MemoryResolver from it.
func Projects() (map[string]project.ProjectRead, error) {
	once.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	return projects, nil
}

// NewResolver builds a resolve.Resolver over the bundled standard
// library, for registration alongside the file/local/remote resolvers
// in the standard Combined policy.
func NewResolver() (resolve.Resolver, error) {
	p, err := Projects()
	if err != nil {
		return nil, err
	}
	return resolve.MemoryResolver{Projects: p}, nil
}
