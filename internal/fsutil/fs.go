// Package fsutil provides host-filesystem helpers shared by the local
// project backend and the environment store: existence probes, a
// cross-device-safe rename, and recursive copy.
package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	shutil "github.com/termie/go-shutil"
)

// IsRegular reports whether name exists and is a regular file.
func IsRegular(name string) (bool, error) {
	fi, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !fi.IsDir(), nil
}

// IsDir reports whether name exists and is a directory.
func IsDir(name string) (bool, error) {
	fi, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

// IsEmptyDirOrNotExist reports whether name is a directory with no
// entries, or does not exist at all.
func IsEmptyDirOrNotExist(name string) (bool, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}

// RenameWithFallback attempts an atomic rename, falling back to a
// copy-then-remove when src and dest live on different devices
// (syscall.EXDEV), the way golang-dep's renameWithFallback does it, using
// go-shutil for the recursive copy.
func RenameWithFallback(src, dest string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return err
	}

	if runtime.GOOS == "windows" && fi.IsDir() {
		if err := CopyDir(src, dest); err != nil {
			return err
		}
		return os.RemoveAll(src)
	}

	err = os.Rename(src, dest)
	if err == nil {
		return nil
	}

	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return err
	}

	crossDevice := false
	if errno, ok := linkErr.Err.(syscall.Errno); ok && errno == syscall.EXDEV {
		crossDevice = true
	}
	if !crossDevice {
		return err
	}

	if fi.IsDir() {
		if cerr := CopyDir(src, dest); cerr != nil {
			return cerr
		}
	} else if cerr := CopyFile(src, dest); cerr != nil {
		return cerr
	}
	return os.RemoveAll(src)
}

// CopyDir recursively copies a directory tree, using go-shutil the way the
// teacher's vendored copy does (CopyTree), the same dependency sysand
// keeps for its staged-move fallback path.
func CopyDir(src, dest string) error {
	return shutil.CopyTree(src, dest, nil)
}

// CopyFile copies a single regular file, preserving permissions.
func CopyFile(src, dest string) error {
	_, err := shutil.Copy(src, dest, false)
	return err
}

// JoinUnderRoot joins a forward-slash-separated relative path onto root,
// rejecting absolute paths and traversal that would escape root (spec
// invariant: "Path confinement"). When lenient is true, any leading
// slashes are stripped rather than rejected.
func JoinUnderRoot(root, relSlash string, lenient bool) (string, error) {
	p := relSlash
	if lenient {
		for len(p) > 0 && p[0] == '/' {
			p = p[1:]
		}
	}
	if filepath.IsAbs(p) || (len(p) > 0 && p[0] == '/') {
		return "", &PathEscapeError{Root: root, Path: relSlash}
	}
	native := filepath.FromSlash(p)
	joined := filepath.Join(root, native)
	rootClean := filepath.Clean(root)
	rel, err := filepath.Rel(rootClean, joined)
	if err != nil {
		return "", &PathEscapeError{Root: root, Path: relSlash}
	}
	if rel == ".." || len(rel) >= 2 && rel[:2] == ".." + string(filepath.Separator) {
		return "", &PathEscapeError{Root: root, Path: relSlash}
	}
	return joined, nil
}

// PathEscapeError reports a source path that would resolve outside its
// project root.
type PathEscapeError struct {
	Root string
	Path string
}

func (e *PathEscapeError) Error() string {
	return "path " + e.Path + " escapes project root " + e.Root
}
