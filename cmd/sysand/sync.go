package main

import (
	"flag"
	"strings"

	"github.com/sensmetry/sysand"
	"github.com/sensmetry/sysand/internal/diag"
	"github.com/sensmetry/sysand/internal/lockfile"
	"github.com/sensmetry/sysand/internal/model"
)

const syncShortHelp = `Install every locked package into the environment`
const syncLongHelp = `
Read sysand-lock.toml and install each locked package into the local
environment store, skipping packages already present with a matching
checksum.
`

type syncCommand struct {
	excludeFlag string
}

func (cmd *syncCommand) Name() string      { return "sync" }
func (cmd *syncCommand) Args() string      { return "" }
func (cmd *syncCommand) ShortHelp() string { return syncShortHelp }
func (cmd *syncCommand) LongHelp() string  { return syncLongHelp }
func (cmd *syncCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.excludeFlag, "exclude", "", "comma-separated iris to skip")
}

func (cmd *syncCommand) Run(ctx *sysand.Ctx, args []string) error {
	lock, err := ctx.ReadLockfile()
	if err != nil {
		return err
	}

	excluded := make(map[string]bool)
	if cmd.excludeFlag != "" {
		for _, iri := range strings.Split(cmd.excludeFlag, ",") {
			excluded[strings.TrimSpace(iri)] = true
		}
	}

	store, err := ctx.OpenEnvironment()
	if err != nil {
		return err
	}

	logger := diag.New(ctx.Out.Writer())
	bar := diag.NewProgress(ctx.Out.Writer(), len(lock.Project), "syncing")

	// Sync one entry at a time so the progress bar tracks real installs
	// rather than completing before any work happens.
	for _, entry := range lock.Project {
		single := model.Lockfile{LockVersion: lock.LockVersion, Project: []model.LockedProject{entry}}
		if err := lockfile.Sync(single, store, store, excluded); err != nil {
			logger.Errorf("sync failed: %v", err)
			return err
		}
		bar.Add(1)
	}
	logger.Successf("synced %d package(s)", len(lock.Project))
	return nil
}
