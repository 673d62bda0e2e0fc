package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/sensmetry/sysand"
	"github.com/sensmetry/sysand/internal/model"
)

const addShortHelp = `Track untracked source files in .meta.json`
const addLongHelp = `
Walk the project root for files not yet referenced by .meta.json's
checksum table or index and add each one, computing its sha256 digest. With -n,
only list what would be added.
`

type addCommand struct {
	dryRun bool
}

func (cmd *addCommand) Name() string      { return "add" }
func (cmd *addCommand) Args() string      { return "" }
func (cmd *addCommand) ShortHelp() string { return addShortHelp }
func (cmd *addCommand) LongHelp() string  { return addLongHelp }

func (cmd *addCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.dryRun, "n", false, "only list untracked files, don't modify .meta.json")
}

func (cmd *addCommand) Run(ctx *sysand.Ctx, args []string) error {
	p := ctx.LoadProject()

	metaPath := filepath.Join(ctx.ProjectRoot(), model.MetaName)
	f, err := os.Open(metaPath)
	if err != nil {
		return err
	}
	metaRaw, err := model.DecodeMeta(f)
	f.Close()
	if err != nil {
		return err
	}

	tracked := make(map[string]bool)
	for _, path := range metaRaw.SourcePaths(true) {
		tracked[path] = true
	}

	untracked, err := p.DiscoverUntracked(tracked)
	if err != nil {
		return err
	}

	if cmd.dryRun {
		for _, path := range untracked {
			ctx.Out.Println(path)
		}
		return nil
	}

	for _, path := range untracked {
		data, err := os.ReadFile(filepath.Join(ctx.ProjectRoot(), path))
		if err != nil {
			return err
		}
		digest := model.ChecksumHex(data)
		metaRaw.AddChecksum(path, model.AlgorithmSHA256, digest, true)
		ctx.Out.Printf("added %s (sha256:%s)\n", path, digest)
	}

	data, err := model.EncodeMeta(metaRaw)
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath, data, 0o644)
}
