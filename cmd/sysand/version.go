package main

import (
	"flag"
	"fmt"

	"github.com/sensmetry/sysand"
)

const versionShortHelp = `Display version`
const versionLongHelp = `
Display the version of this sysand build.
`

const Version = "0.1.0"

type versionCommand struct{}

func (cmd *versionCommand) Name() string      { return "version" }
func (cmd *versionCommand) Args() string      { return "" }
func (cmd *versionCommand) ShortHelp() string { return versionShortHelp }
func (cmd *versionCommand) LongHelp() string  { return versionLongHelp }
func (cmd *versionCommand) Register(fs *flag.FlagSet) {}

func (cmd *versionCommand) Run(ctx *sysand.Ctx, args []string) error {
	fmt.Println(Version)
	return nil
}
