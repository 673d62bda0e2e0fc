package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sensmetry/sysand"
	"github.com/sensmetry/sysand/internal/model"
)

const infoShortHelp = `Inspect or edit .project.json`
const infoLongHelp = `
With no arguments, print the current project's .project.json.

  sysand info get <field>              print one field's value
  sysand info set <field> <value>      set one scalar field
  sysand info add-maintainer <name>    append a maintainer
  sysand info add-usage <iri> [constraint]   add a dependency usage
  sysand info remove-usage <iri>       remove a dependency usage

Valid scalar fields for get/set: name, description, version, license,
website.
`

type infoCommand struct{}

func (cmd *infoCommand) Name() string      { return "info" }
func (cmd *infoCommand) Args() string      { return "[get|set|add-maintainer|add-usage|remove-usage] ..." }
func (cmd *infoCommand) ShortHelp() string { return infoShortHelp }
func (cmd *infoCommand) LongHelp() string  { return infoLongHelp }
func (cmd *infoCommand) Register(fs *flag.FlagSet) {}

func infoPath(ctx *sysand.Ctx) string {
	return filepath.Join(ctx.ProjectRoot(), model.InfoName)
}

func readInfoRaw(ctx *sysand.Ctx) (model.InfoRaw, error) {
	f, err := os.Open(infoPath(ctx))
	if err != nil {
		return model.InfoRaw{}, err
	}
	defer f.Close()
	return model.DecodeInfo(f)
}

func writeInfoRaw(ctx *sysand.Ctx, raw model.InfoRaw) error {
	data, err := model.EncodeInfo(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(infoPath(ctx), data, 0o644)
}

func (cmd *infoCommand) Run(ctx *sysand.Ctx, args []string) error {
	if len(args) == 0 {
		raw, err := readInfoRaw(ctx)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			return err
		}
		ctx.Out.Println(string(data))
		return nil
	}

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: sysand info get <field>")
		}
		raw, err := readInfoRaw(ctx)
		if err != nil {
			return err
		}
		value, err := scalarField(&raw, args[1])
		if err != nil {
			return err
		}
		ctx.Out.Println(value)
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: sysand info set <field> <value>")
		}
		raw, err := readInfoRaw(ctx)
		if err != nil {
			return err
		}
		if err := setScalarField(&raw, args[1], args[2]); err != nil {
			return err
		}
		return writeInfoRaw(ctx, raw)

	case "add-maintainer":
		if len(args) != 2 {
			return fmt.Errorf("usage: sysand info add-maintainer <name>")
		}
		raw, err := readInfoRaw(ctx)
		if err != nil {
			return err
		}
		raw.Maintainer = append(raw.Maintainer, args[1])
		return writeInfoRaw(ctx, raw)

	case "add-usage":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: sysand info add-usage <iri> [constraint]")
		}
		raw, err := readInfoRaw(ctx)
		if err != nil {
			return err
		}
		constraint := ""
		if len(args) == 3 {
			constraint = args[2]
		}
		raw.AddUsage(args[1], constraint)
		return writeInfoRaw(ctx, raw)

	case "remove-usage":
		if len(args) != 2 {
			return fmt.Errorf("usage: sysand info remove-usage <iri>")
		}
		raw, err := readInfoRaw(ctx)
		if err != nil {
			return err
		}
		removed := raw.RemoveUsage(args[1])
		if err := writeInfoRaw(ctx, raw); err != nil {
			return err
		}
		ctx.Out.Printf("removed %d usage entries\n", len(removed))
		return nil

	default:
		return fmt.Errorf("info: unknown subcommand %q", args[0])
	}
}

func scalarField(raw *model.InfoRaw, field string) (string, error) {
	switch strings.ToLower(field) {
	case "name":
		return raw.Name, nil
	case "description":
		return raw.Description, nil
	case "version":
		return raw.Version, nil
	case "license":
		return raw.License, nil
	case "website":
		return raw.Website, nil
	default:
		return "", fmt.Errorf("info: unknown field %q", field)
	}
}

func setScalarField(raw *model.InfoRaw, field, value string) error {
	switch strings.ToLower(field) {
	case "name":
		raw.Name = value
	case "description":
		raw.Description = value
	case "version":
		raw.Version = value
	case "license":
		raw.License = value
	case "website":
		raw.Website = value
	default:
		return fmt.Errorf("info: unknown field %q", field)
	}
	return nil
}
