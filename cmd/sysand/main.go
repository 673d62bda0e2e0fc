// Command sysand manages SysML v2 / KerML interchange projects: their
// manifests, their dependency environment, and the archives ("kpar"
// files) they're packaged into.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sensmetry/sysand"
)

type command interface {
	Name() string
	Args() string
	ShortHelp() string
	LongHelp() string
	Register(*flag.FlagSet)
	Run(*sysand.Ctx, []string) error
}

func main() {
	c := &Config{
		Args:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(c.Run())
}

// Config specifies a full configuration for a sysand execution.
type Config struct {
	Args           []string
	Stdout, Stderr io.Writer
}

func (c *Config) Run() (exitCode int) {
	commands := []command{
		&initCommand{},
		&infoCommand{},
		&addCommand{},
		&envCommand{},
		&lockCommand{},
		&syncCommand{},
		&cloneCommand{},
		&versionCommand{},
	}

	outLogger := log.New(c.Stdout, "", 0)
	errLogger := log.New(c.Stderr, "", 0)

	usage := func() {
		errLogger.Println("sysand manages SysML v2 / KerML interchange projects")
		errLogger.Println()
		errLogger.Println("Usage: sysand <command> [arguments]")
		errLogger.Println()
		errLogger.Println("Commands:")
		errLogger.Println()
		w := tabwriter.NewWriter(c.Stderr, 0, 4, 2, ' ', 0)
		for _, cmd := range commands {
			fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
		}
		w.Flush()
	}

	if len(c.Args) < 2 {
		usage()
		return 1
	}
	cmdName := c.Args[1]
	if cmdName == "-h" || cmdName == "--help" || strings.Contains(strings.ToLower(cmdName), "help") {
		usage()
		return 1
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}

		fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		fs.SetOutput(c.Stderr)
		verbose := fs.Bool("v", false, "enable verbose logging")
		envDir := fs.String("env", "", "override the environment store directory")
		cmd.Register(fs)
		resetUsage(errLogger, fs, cmdName, cmd.Args(), cmd.LongHelp())

		if err := fs.Parse(c.Args[2:]); err != nil {
			return 1
		}

		ctx, err := sysand.NewCtx(c.Stdout, c.Stderr)
		if err != nil {
			errLogger.Printf("%v\n", err)
			return 1
		}
		ctx.Verbose = *verbose
		ctx.EnvOverride = *envDir
		if *verbose {
			ctx.Out = outLogger
		}

		if err := cmd.Run(ctx, fs.Args()); err != nil {
			errLogger.Printf("sysand %s: %v\n", cmdName, err)
			return 1
		}
		return 0
	}

	errLogger.Printf("sysand: %s: no such command\n", cmdName)
	usage()
	return 1
}

func resetUsage(logger *log.Logger, fs *flag.FlagSet, name, args, longHelp string) {
	var (
		hasFlags  bool
		flagBlock bytes.Buffer
		fw        = tabwriter.NewWriter(&flagBlock, 0, 4, 2, ' ', 0)
	)
	fs.VisitAll(func(f *flag.Flag) {
		hasFlags = true
		def := f.DefValue
		if def == "" {
			def = "<none>"
		}
		fmt.Fprintf(fw, "\t-%s\t%s (default: %s)\n", f.Name, f.Usage, def)
	})
	fw.Flush()
	fs.Usage = func() {
		logger.Printf("Usage: sysand %s %s\n", name, args)
		logger.Println()
		logger.Println(strings.TrimSpace(longHelp))
		logger.Println()
		if hasFlags {
			logger.Println("Flags:")
			logger.Println()
			logger.Println(flagBlock.String())
		}
	}
}
