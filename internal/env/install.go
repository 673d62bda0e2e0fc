package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sensmetry/sysand/internal/fsutil"
	"github.com/sensmetry/sysand/internal/model"
)

// Move is one (prepared-source, final-target) pair to be installed
// atomically, grounded on `try_move_files` in the original implementation's
// `env/local_directory/utils.rs`: a project directory move plus the
// versions.txt and entries.txt moves that must land together or not at
// all.
type Move struct {
	Src    string // already-populated staging path
	Target string // final on-disk location
}

// AtomicInstall performs the three-phase staged-rename install: stash
// existing targets and pending sources into scratchDir, then commit each
// source onto its target, rolling back on any failure. A failure during
// rollback escalates to model.CatastrophicIOError — a state that needs
// manual inspection, never retried automatically.
func AtomicInstall(scratchDir string, ops []Move) error {
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return model.NewIOError("mkdir", scratchDir, err)
	}

	stashedSrc := make([]string, len(ops))
	stashedTrg := make([]string, len(ops))
	hadTarget := make([]bool, len(ops))

	// Phase 1: stash sources into scratch slots.
	for i, op := range ops {
		slot := filepath.Join(scratchDir, fmt.Sprintf("src_%d", i))
		if err := fsutil.RenameWithFallback(op.Src, slot); err != nil {
			rollbackErr := restoreSources(ops, stashedSrc, i)
			if rollbackErr != nil {
				return model.NewCatastrophicIOError(model.NewIOError("stash-source", op.Src, err), rollbackErr)
			}
			return model.NewIOError("stash-source", op.Src, err)
		}
		stashedSrc[i] = slot
	}

	// Phase 2: stash any pre-existing targets.
	for i, op := range ops {
		exists, err := pathExists(op.Target)
		if err != nil {
			rollbackErr := unwindAfterStashTargetsFailure(ops, stashedSrc, stashedTrg, hadTarget, i)
			if rollbackErr != nil {
				return model.NewCatastrophicIOError(model.NewIOError("stat-target", op.Target, err), rollbackErr)
			}
			return model.NewIOError("stat-target", op.Target, err)
		}
		if !exists {
			continue
		}
		slot := filepath.Join(scratchDir, fmt.Sprintf("trg_%d", i))
		if err := fsutil.RenameWithFallback(op.Target, slot); err != nil {
			rollbackErr := unwindAfterStashTargetsFailure(ops, stashedSrc, stashedTrg, hadTarget, i)
			if rollbackErr != nil {
				return model.NewCatastrophicIOError(model.NewIOError("stash-target", op.Target, err), rollbackErr)
			}
			return model.NewIOError("stash-target", op.Target, err)
		}
		stashedTrg[i] = slot
		hadTarget[i] = true
	}

	// Phase 3: commit each stashed source onto its target.
	for i, op := range ops {
		if err := fsutil.RenameWithFallback(stashedSrc[i], op.Target); err != nil {
			rollbackErr := unwindCommitFailure(ops, stashedSrc, stashedTrg, hadTarget, i)
			if rollbackErr != nil {
				return model.NewCatastrophicIOError(model.NewIOError("commit", op.Target, err), rollbackErr)
			}
			return model.NewIOError("commit", op.Target, err)
		}
	}

	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// restoreSources reverses phase 1 for indices [0, upTo), moving each
// stashed source back to its original location.
func restoreSources(ops []Move, stashedSrc []string, upTo int) error {
	for i := upTo - 1; i >= 0; i-- {
		if stashedSrc[i] == "" {
			continue
		}
		if err := fsutil.RenameWithFallback(stashedSrc[i], ops[i].Src); err != nil {
			return err
		}
	}
	return nil
}

// unwindAfterStashTargetsFailure rolls back a phase-2 failure at index
// failAt: first restore any targets stashed so far, then restore all
// phase-1 stashed sources.
func unwindAfterStashTargetsFailure(ops []Move, stashedSrc, stashedTrg []string, hadTarget []bool, failAt int) error {
	for i := failAt - 1; i >= 0; i-- {
		if !hadTarget[i] {
			continue
		}
		if err := fsutil.RenameWithFallback(stashedTrg[i], ops[i].Target); err != nil {
			return err
		}
	}
	return restoreSources(ops, stashedSrc, len(ops))
}

// unwindCommitFailure rolls back a phase-3 failure at index failAt:
// reverse completed commits (move target back into the source slot),
// then restore stashed targets, then restore stashed sources.
func unwindCommitFailure(ops []Move, stashedSrc, stashedTrg []string, hadTarget []bool, failAt int) error {
	for i := failAt - 1; i >= 0; i-- {
		if err := fsutil.RenameWithFallback(ops[i].Target, stashedSrc[i]); err != nil {
			return err
		}
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if !hadTarget[i] {
			continue
		}
		if err := fsutil.RenameWithFallback(stashedTrg[i], ops[i].Target); err != nil {
			return err
		}
	}
	return restoreSources(ops, stashedSrc, len(ops))
}
