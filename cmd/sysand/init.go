package main

import (
	"flag"
	"path/filepath"
	"time"

	"github.com/sensmetry/sysand"
	"github.com/sensmetry/sysand/internal/model"
)

const initShortHelp = `Set up a new project`
const initLongHelp = `
Write a minimal .project.json and .meta.json into the current
directory, the way "dep init" writes a minimal Gopkg.toml.
`

type initCommand struct {
	name    string
	version string
}

func (cmd *initCommand) Name() string      { return "init" }
func (cmd *initCommand) Args() string      { return "" }
func (cmd *initCommand) ShortHelp() string { return initShortHelp }
func (cmd *initCommand) LongHelp() string  { return initLongHelp }

func (cmd *initCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.name, "name", "", "project name (default: current directory name)")
	fs.StringVar(&cmd.version, "version", "0.1.0", "initial project version")
}

func (cmd *initCommand) Run(ctx *sysand.Ctx, args []string) error {
	name := cmd.name
	if name == "" {
		name = filepath.Base(ctx.ProjectRoot())
	}

	p := ctx.LoadProject()

	infoRaw := model.MinimalInfoRaw(name, cmd.version)
	if err := p.PutInfo(infoRaw, false); err != nil {
		return err
	}

	metaRaw := model.GenerateBlankMetaRaw(model.NewDateTime(time.Now()))
	if err := p.PutMeta(metaRaw, false); err != nil {
		return err
	}

	ctx.Out.Printf("wrote %s and %s\n", model.InfoName, model.MetaName)
	return nil
}
