package project

import (
	"io"

	"github.com/sensmetry/sysand/internal/model"
)

// CanonicalMeta rewrites every non-SHA-256 checksum entry by rehashing
// the corresponding source under SHA-256, lowercasing every value, and
// preserving insertion order. Returns nil if the project has no meta.
func CanonicalMeta(p ProjectRead) (*model.Meta, error) {
	_, meta, err := p.GetProject()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}
	if meta.Checksum == nil {
		return meta, nil
	}

	canon := model.NewOrderedStringMap[model.ChecksumEntry]()
	for _, path := range meta.Checksum.Keys() {
		entry, _ := meta.Checksum.Get(path)
		if entry.Algorithm == model.AlgorithmSHA256 {
			canon.Set(path, model.ChecksumEntry{Algorithm: model.AlgorithmSHA256, Value: lower(entry.Value)})
			continue
		}
		rc, err := p.ReadSource(path)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		canon.Set(path, model.ChecksumEntry{Algorithm: model.AlgorithmSHA256, Value: model.ChecksumHex(data)})
	}

	out := *meta
	out.Checksum = canon
	return &out, nil
}

func lower(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c - 'A' + 'a'
		}
	}
	return string(out)
}

// ChecksumNoncanonicalHex returns the hex project hash over the
// project's info and meta exactly as stored.
func ChecksumNoncanonicalHex(p ProjectRead) (string, error) {
	info, meta, err := p.GetProject()
	if err != nil {
		return "", err
	}
	if info == nil || meta == nil {
		return "", nil
	}
	infoBytes, err := model.EncodeInfo(info.Raw())
	if err != nil {
		return "", err
	}
	metaBytes, err := model.EncodeMeta(meta.Raw())
	if err != nil {
		return "", err
	}
	return model.ProjectHashHex(infoBytes, metaBytes), nil
}

// ChecksumCanonicalHex returns the hex project hash over the project's
// info and its canonicalized meta.
func ChecksumCanonicalHex(p ProjectRead) (string, error) {
	info, _, err := p.GetProject()
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", nil
	}
	canon, err := CanonicalMeta(p)
	if err != nil {
		return "", err
	}
	if canon == nil {
		return "", nil
	}
	infoBytes, err := model.EncodeInfo(info.Raw())
	if err != nil {
		return "", err
	}
	metaBytes, err := model.EncodeMeta(canon.Raw())
	if err != nil {
		return "", err
	}
	return model.ProjectHashHex(infoBytes, metaBytes), nil
}
