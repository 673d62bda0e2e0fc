// Package kpar implements the §4.I package builder: serialising any
// ProjectRead into a ZIP archive ("kpar") containing .project.json,
// .meta.json, and every path named by the project's checksum and index.
package kpar

import (
	"archive/zip"
	"io"

	"github.com/sensmetry/sysand/internal/model"
	"github.com/sensmetry/sysand/internal/project"
)

// BuildErrorKind distinguishes the three ways archive construction can fail.
type BuildErrorKind int

const (
	MissingInfo BuildErrorKind = iota
	MissingMeta
	IncompleteSource
)

func (k BuildErrorKind) String() string {
	switch k {
	case MissingInfo:
		return "missing .project.json"
	case MissingMeta:
		return "missing .meta.json"
	case IncompleteSource:
		return "referenced source path could not be read"
	default:
		return "unknown build error"
	}
}

type BuildError struct {
	Kind  BuildErrorKind
	Path  string
	cause error
}

func (e *BuildError) Error() string {
	if e.Path != "" {
		return e.Kind.String() + ": " + e.Path
	}
	return e.Kind.String()
}

func (e *BuildError) Unwrap() error { return e.cause }

// BuildArchive produces a kpar ZIP archive for src, writing the result
// to w. Entries are stored uncompressed so the archive's byte stream is
// reproducible and directly comparable to the source tree's content.
func BuildArchive(src project.ProjectRead, w io.Writer) error {
	info, meta, err := src.GetProject()
	if err != nil {
		return &BuildError{Kind: MissingInfo, cause: err}
	}
	if info == nil {
		return &BuildError{Kind: MissingInfo}
	}
	if meta == nil {
		return &BuildError{Kind: MissingMeta}
	}

	zw := zip.NewWriter(w)

	infoBytes, err := model.EncodeInfo(info.Raw())
	if err != nil {
		zw.Close()
		return &BuildError{Kind: MissingInfo, cause: err}
	}
	if err := writeStored(zw, model.InfoName, infoBytes); err != nil {
		zw.Close()
		return err
	}

	metaRaw := meta.Raw()
	metaBytes, err := model.EncodeMeta(metaRaw)
	if err != nil {
		zw.Close()
		return &BuildError{Kind: MissingMeta, cause: err}
	}
	if err := writeStored(zw, model.MetaName, metaBytes); err != nil {
		zw.Close()
		return err
	}

	for _, path := range metaRaw.SourcePaths(true) {
		rc, err := src.ReadSource(path)
		if err != nil {
			zw.Close()
			return &BuildError{Kind: IncompleteSource, Path: path, cause: err}
		}
		werr := writeStoredFrom(zw, path, rc)
		closeErr := rc.Close()
		if werr != nil {
			zw.Close()
			return &BuildError{Kind: IncompleteSource, Path: path, cause: werr}
		}
		if closeErr != nil {
			zw.Close()
			return &BuildError{Kind: IncompleteSource, Path: path, cause: closeErr}
		}
	}

	return zw.Close()
}

func writeStored(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}

func writeStoredFrom(zw *zip.Writer, name string, r io.Reader) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, r)
	return err
}
