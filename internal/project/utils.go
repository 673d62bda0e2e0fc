package project

import (
	"io"

	"github.com/sensmetry/sysand/internal/model"
)

// IncludeSource adds a checksum entry for path: SHA-256 of the current
// content when computeChecksum is true, else the sentinel "none" entry
// with an empty value denoting an unchecked inclusion.
func IncludeSource(p ProjectMut, path string, computeChecksum, overwrite bool) error {
	_, meta, err := p.GetProject()
	if err != nil {
		return err
	}
	var raw model.MetaRaw
	if meta != nil {
		raw = meta.Raw()
	} else {
		raw = model.GenerateBlankMetaRaw(model.NewDateTime(nowFunc()))
	}

	algorithm := model.AlgorithmNone
	value := ""
	if computeChecksum {
		rc, err := p.ReadSource(path)
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		algorithm = model.AlgorithmSHA256
		value = model.ChecksumHex(data)
	}
	raw.AddChecksum(path, algorithm, value, overwrite)
	return p.PutMeta(raw, true)
}

// ExcludeResult reports what IncludeSource's inverse removed.
type ExcludeResult struct {
	RemovedChecksum model.ChecksumEntry
	HadChecksum     bool
	RemovedSymbols  []string
}

// ExcludeSource removes path's checksum entry and every index entry that
// pointed to it.
func ExcludeSource(p ProjectMut, path string) (ExcludeResult, error) {
	_, meta, err := p.GetProject()
	if err != nil {
		return ExcludeResult{}, err
	}
	if meta == nil {
		return ExcludeResult{}, nil
	}
	raw := meta.Raw()
	checksum, hadChecksum := raw.RemoveChecksum(path)
	symbols := raw.RemoveIndex(path)
	if err := p.PutMeta(raw, true); err != nil {
		return ExcludeResult{}, err
	}
	return ExcludeResult{RemovedChecksum: checksum, HadChecksum: hadChecksum, RemovedSymbols: symbols}, nil
}

// MergeIndex merges (symbol, path) pairs produced by the symbol
// extractor into the project's meta index.
func MergeIndex(p ProjectMut, pairs []model.IndexPair, overwrite bool) (model.MergeOutcome, error) {
	_, meta, err := p.GetProject()
	if err != nil {
		return model.MergeOutcome{}, err
	}
	var raw model.MetaRaw
	if meta != nil {
		raw = meta.Raw()
	} else {
		raw = model.GenerateBlankMetaRaw(model.NewDateTime(nowFunc()))
	}
	outcome := raw.MergeIndex(pairs, overwrite)
	if err := p.PutMeta(raw, true); err != nil {
		return model.MergeOutcome{}, err
	}
	return outcome, nil
}
