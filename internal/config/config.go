// Package config loads sysand.toml (spec.md §6), the optional
// per-project configuration file sitting alongside .project.json. It
// mirrors the teacher's single-TOML-library policy: the same
// github.com/pelletier/go-toml used for the lockfile decodes this file
// too.
package config

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/sensmetry/sysand/internal/auth"
	"github.com/sensmetry/sysand/internal/model"
)

const FileName = "sysand.toml"

// HostCredential is one [[auth]] table entry: a glob matched against
// request URLs, with plaintext basic-auth credentials or a netrc
// fallback marker.
type HostCredential struct {
	Glob     string `toml:"glob"`
	User     string `toml:"user,omitempty"`
	Pass     string `toml:"pass,omitempty"`
	UseNetrc bool   `toml:"use_netrc,omitempty"`
}

// Config is the decoded shape of sysand.toml.
type Config struct {
	// ResolverOrder lists resolver family names ("file", "local",
	// "remote", "index"). It is decoded but not consulted when the
	// resolver is assembled: the lock command always uses the standard
	// file > local > remote > index order.
	ResolverOrder []string `toml:"resolver_order,omitempty"`

	// Auth is consulted in table order to build a Restrict policy; the
	// first entries are highest priority.
	Auth []HostCredential `toml:"auth,omitempty"`

	// NetrcPath overrides the default ~/.netrc lookup location for any
	// HostCredential with UseNetrc set.
	NetrcPath string `toml:"netrc_path,omitempty"`
}

// Decode parses a sysand.toml document from r.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, model.NewIOError("read", FileName, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, model.WrapDeserialize(FileName, err)
	}
	return cfg, nil
}

// Load reads sysand.toml from path, or returns a zero Config if the
// file does not exist — the file is always optional per spec.md §6.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, model.NewIOError("open", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// BuildAuthPolicy composes the configured [[auth]] entries into a single
// auth.Restrict. A request that matches no glob falls back to
// auth.NetrcFallback over NetrcPath when NetrcPath is set, and to
// auth.Unauthenticated otherwise.
func (c Config) BuildAuthPolicy() auth.HttpAuthentication {
	var netrcDefault auth.HttpAuthentication = auth.Unauthenticated{}
	if c.NetrcPath != "" {
		netrcDefault = auth.NetrcFallback{Path: c.NetrcPath, Default: auth.Unauthenticated{}}
	}

	netrcPath := c.NetrcPath
	if netrcPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			netrcPath = filepath.Join(home, ".netrc")
		}
	}

	policies := make([]auth.GlobPolicy, 0, len(c.Auth))
	for _, cred := range c.Auth {
		var p auth.HttpAuthentication
		switch {
		case cred.UseNetrc:
			p = auth.NetrcFallback{Path: netrcPath, Default: auth.Unauthenticated{}}
		case cred.User != "" || cred.Pass != "":
			p = auth.ForceBasic{User: cred.User, Pass: cred.Pass}
		default:
			p = auth.Unauthenticated{}
		}
		policies = append(policies, auth.GlobPolicy{Glob: cred.Glob, Policy: p})
	}

	return auth.Restrict{Restricted: policies, Default: netrcDefault}
}

// ValidateGlobHosts reports a DeserializeError if any configured glob is
// not even a well-formed URL-shaped pattern (best-effort — globs may
// still use wildcard segments path.Match accepts).
func (c Config) ValidateGlobHosts() error {
	for _, cred := range c.Auth {
		if cred.Glob == "" {
			return model.WrapDeserialize(FileName, errEmptyGlob)
		}
		if _, err := url.Parse(cred.Glob); err != nil {
			return model.WrapDeserialize(FileName, err)
		}
	}
	return nil
}

var errEmptyGlob = emptyGlobError{}

type emptyGlobError struct{}

func (emptyGlobError) Error() string { return "auth entry has an empty glob" }
