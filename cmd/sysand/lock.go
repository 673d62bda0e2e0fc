package main

import (
	"flag"
	"net/http"

	"github.com/sensmetry/sysand"
	"github.com/sensmetry/sysand/internal/lockfile"
	"github.com/sensmetry/sysand/internal/resolve"
	"github.com/sensmetry/sysand/internal/solve"
	"github.com/sensmetry/sysand/internal/stdlib"
)

const lockShortHelp = `Resolve dependencies and write the lockfile`
const lockLongHelp = `
Resolve every usage declared in .project.json against the file, local
environment, remote and bundled-standard-library resolvers, and write
the result as sysand-lock.toml.
`

type lockCommand struct{}

func (cmd *lockCommand) Name() string      { return "lock" }
func (cmd *lockCommand) Args() string      { return "" }
func (cmd *lockCommand) ShortHelp() string { return lockShortHelp }
func (cmd *lockCommand) LongHelp() string  { return lockLongHelp }
func (cmd *lockCommand) Register(fs *flag.FlagSet) {}

// buildResolver assembles the §4.E standard policy: file beats
// everything, then the local environment cache, then remote (HTTP/git)
// resolution, with the bundled standard library filling in as the
// lowest-priority "index".
func buildResolver(ctx *sysand.Ctx) (resolve.Resolver, error) {
	cfg, err := ctx.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateGlobHosts(); err != nil {
		return nil, err
	}

	store, err := ctx.OpenEnvironment()
	if err != nil {
		return nil, err
	}

	stdlibResolver, err := stdlib.NewResolver()
	if err != nil {
		return nil, err
	}

	return resolve.Combined{
		File:  resolve.FileResolver{Root: ctx.ProjectRoot()},
		Local: resolve.EnvironmentResolver{Env: store},
		Remote: resolve.Remote{
			HTTP: resolve.HTTPResolver{
				Client: http.DefaultClient,
				Auth:   cfg.BuildAuthPolicy(),
				Lax:    true,
			},
			Git:       resolve.GitResolver{},
			HTTPFirst: true,
		},
		Index: stdlibResolver,
	}, nil
}

func (cmd *lockCommand) Run(ctx *sysand.Ctx, args []string) error {
	p := ctx.LoadProject()
	info, _, err := p.GetProject()
	if err != nil {
		return err
	}
	if info == nil {
		return errNoProjectInfo
	}

	resolver, err := buildResolver(ctx)
	if err != nil {
		return err
	}

	solver := solve.NewSolver(resolver)
	selections, err := solver.Solve(info.Usage)
	if err != nil {
		return err
	}

	lock, err := lockfile.Generate(selections)
	if err != nil {
		return err
	}

	if err := ctx.WriteLockfile(lock); err != nil {
		return err
	}
	ctx.Out.Printf("resolved %d package(s) into %s\n", len(selections), "sysand-lock.toml")
	return nil
}

type staticError string

func (e staticError) Error() string { return string(e) }

const errNoProjectInfo = staticError("no .project.json in current directory")
