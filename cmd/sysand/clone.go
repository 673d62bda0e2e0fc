package main

import (
	"flag"
	"fmt"

	"github.com/sensmetry/sysand"
	"github.com/sensmetry/sysand/internal/lockfile"
)

const cloneShortHelp = `Materialize one locked package as plain source files`
const cloneLongHelp = `
sysand clone <iri> <destDir>

Find <iri> among sysand-lock.toml's locked projects and write its
manifests and sources into destDir as a LocalSrc tree, independent of
the environment store.
`

type cloneCommand struct{}

func (cmd *cloneCommand) Name() string      { return "clone" }
func (cmd *cloneCommand) Args() string      { return "<iri> <destDir>" }
func (cmd *cloneCommand) ShortHelp() string { return cloneShortHelp }
func (cmd *cloneCommand) LongHelp() string  { return cloneLongHelp }
func (cmd *cloneCommand) Register(fs *flag.FlagSet) {}

func (cmd *cloneCommand) Run(ctx *sysand.Ctx, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: sysand clone <iri> <destDir>")
	}
	iri, destDir := args[0], args[1]

	lock, err := ctx.ReadLockfile()
	if err != nil {
		return err
	}

	for _, entry := range lock.Project {
		for _, id := range entry.Identifiers {
			if id == iri {
				return lockfile.Clone(entry, destDir)
			}
		}
	}
	return fmt.Errorf("clone: %s not found in lockfile", iri)
}
