package main

import (
	"flag"
	"fmt"

	"github.com/sensmetry/sysand"
)

const envShortHelp = `Inspect or prune the local environment store`
const envLongHelp = `
  sysand env list                 list every cached iri and its versions
  sysand env versions <iri>       list cached versions of one iri
  sysand env rm <iri> [version]   remove one version, or every version
`

type envCommand struct{}

func (cmd *envCommand) Name() string      { return "env" }
func (cmd *envCommand) Args() string      { return "[list|versions|rm] ..." }
func (cmd *envCommand) ShortHelp() string { return envShortHelp }
func (cmd *envCommand) LongHelp() string  { return envLongHelp }
func (cmd *envCommand) Register(fs *flag.FlagSet) {}

func (cmd *envCommand) Run(ctx *sysand.Ctx, args []string) error {
	store, err := ctx.OpenEnvironment()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		uris, err := store.URIs()
		if err != nil {
			return err
		}
		for _, iri := range uris {
			versions, err := store.Versions(iri)
			if err != nil {
				return err
			}
			ctx.Out.Printf("%s\t%v\n", iri, versions)
		}
		return nil

	case "versions":
		if len(args) != 2 {
			return fmt.Errorf("usage: sysand env versions <iri>")
		}
		versions, err := store.Versions(args[1])
		if err != nil {
			return err
		}
		for _, v := range versions {
			ctx.Out.Println(v)
		}
		return nil

	case "rm":
		switch len(args) {
		case 2:
			return store.DelURI(args[1])
		case 3:
			return store.DelProjectVersion(args[1], args[2])
		default:
			return fmt.Errorf("usage: sysand env rm <iri> [version]")
		}

	default:
		return fmt.Errorf("env: unknown subcommand %q", args[0])
	}
}
