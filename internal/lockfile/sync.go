package lockfile

import (
	"github.com/sensmetry/sysand/internal/auth"
	"github.com/sensmetry/sysand/internal/env"
	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
)

// openSource opens the first Source variant this implementation knows
// how to read as a ProjectRead, returning a closer for backends that
// hold temp resources.
func openSource(s model.Source) (project.ProjectRead, func() error, error) {
	noop := func() error { return nil }
	switch s.Kind {
	case model.SourceEditable, model.SourceLocalSrc:
		return project.NewLocalSrc(s.Path, false), noop, nil
	case model.SourceLocalKpar:
		k := project.NewLocalKpar(s.Path, "")
		return k, k.Close, nil
	case model.SourceRemoteSrc:
		return project.NewRemoteSrc(s.URL, nil, auth.Unauthenticated{}), noop, nil
	case model.SourceRemoteKpar:
		k := project.NewRemoteKparDownloaded(s.URL, nil, auth.Unauthenticated{})
		return k, k.Close, nil
	case model.SourceRemoteGit:
		g := project.NewGitDownloaded(s.URL, "")
		return g, g.Close, nil
	default:
		return nil, noop, model.NewSyncError(model.SyncUnsupportedSources, "", nil)
	}
}

// openFirstSupportedSource tries each of entry's sources in order,
// returning the first one this implementation can open at all.
func openFirstSupportedSource(entry model.LockedProject) (project.ProjectRead, func() error, error) {
	for _, s := range entry.Sources {
		p, closer, err := openSource(s)
		if err == nil {
			return p, closer, nil
		}
	}
	return nil, nil, model.NewSyncError(model.SyncMissingSource, firstIRI(entry), nil)
}

func firstIRI(entry model.LockedProject) string {
	if len(entry.Identifiers) == 0 {
		return ""
	}
	return entry.Identifiers[0]
}

// cloneProject copies info, meta, and every source path declared by the
// union of checksum and index keys from src into dst, the
// "clone-project" callback both Sync and the supplemented Clone
// operation install through.
func cloneProject(src project.ProjectRead, dst project.ProjectMut) error {
	info, meta, err := src.GetProject()
	if err != nil {
		return err
	}
	if info == nil {
		return model.NewSyncError(model.SyncMissingIri, "", nil)
	}
	if err := dst.PutInfo(info.Raw(), true); err != nil {
		return err
	}
	if meta == nil {
		return nil
	}
	metaRaw := meta.Raw()
	if err := dst.PutMeta(metaRaw, true); err != nil {
		return err
	}
	for _, path := range metaRaw.SourcePaths(true) {
		rc, err := src.ReadSource(path)
		if err != nil {
			return err
		}
		err = dst.WriteSource(path, rc, true)
		closeErr := rc.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}

// Sync installs every lockfile entry not named in excluded into env,
// skipping entries whose canonical hash is already present. Idempotent:
// a second call with the same lockfile performs no further I/O.
func Sync(lock model.Lockfile, environment env.WriteEnvironment, reader env.ReadEnvironment, excluded map[string]bool) error {
	for _, entry := range lock.Project {
		iri := firstIRI(entry)
		if excluded[iri] {
			continue
		}

		if alreadyInstalled(reader, iri, entry.Checksum) {
			continue
		}

		src, closer, err := openFirstSupportedSource(entry)
		if err != nil {
			return err
		}
		func() {
			defer closer()

			hash, herr := project.ChecksumCanonicalHex(src)
			if herr != nil {
				err = herr
				return
			}
			if hash != entry.Checksum {
				err = model.NewSyncError(model.SyncBadChecksum, iri, nil)
				return
			}

			version := ""
			if entry.Info != nil {
				version = entry.Info.Version
			} else if info, _, gerr := src.GetProject(); gerr == nil && info != nil {
				version = info.Version.String()
			}
			installErr := environment.PutProject(iri, version, func(root string) error {
				dst := project.NewLocalSrc(root, false)
				return cloneProject(src, dst)
			})
			if installErr != nil {
				err = model.NewSyncError(model.SyncInstallFailure, iri, installErr)
			}
		}()
		if err != nil {
			return err
		}
	}
	return nil
}

func alreadyInstalled(reader env.ReadEnvironment, iri, checksum string) bool {
	if reader == nil {
		return false
	}
	candidates, err := reader.CandidateProjects(iri)
	if err != nil {
		return false
	}
	for _, c := range candidates {
		hash, err := project.ChecksumCanonicalHex(c)
		if err == nil && hash == checksum {
			return true
		}
	}
	return false
}

// Clone materializes one lockfile entry's sources onto a plain local
// directory outside any environment, reusing the same clone-project
// callback Sync uses for put_project. Supplements §4.G per
// original_source's `sysand/src/commands/clone.rs`.
func Clone(entry model.LockedProject, destDir string) error {
	src, closer, err := openFirstSupportedSource(entry)
	if err != nil {
		return err
	}
	defer closer()

	hash, err := project.ChecksumCanonicalHex(src)
	if err != nil {
		return err
	}
	if hash != entry.Checksum {
		return model.NewSyncError(model.SyncBadChecksum, firstIRI(entry), nil)
	}

	dst := project.NewLocalSrc(destDir, false)
	return cloneProject(src, dst)
}
