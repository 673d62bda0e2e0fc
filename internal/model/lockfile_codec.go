package model

import (
	"github.com/pelletier/go-toml"
)

// DecodeLockfile parses a sysand-lock.toml document, grounded on
// golang-dep's toml.go tree-mapping approach but simplified to a direct
// struct unmarshal since go-toml supports it directly (toml.go predates
// that support in the vendored version).
func DecodeLockfile(data []byte) (Lockfile, error) {
	var raw lockfileTOML
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Lockfile{}, WrapDeserialize("failed to deserialize "+LockName, err)
	}
	return lockfileFromTOML(raw)
}

// EncodeLockfile serializes a Lockfile as TOML, the way txn_writer.go
// renders Manifest/Lock through go-toml.Marshal before a SafeWriter
// commits it to disk.
func EncodeLockfile(l Lockfile) ([]byte, error) {
	raw, err := l.toTOML()
	if err != nil {
		return nil, err
	}
	return toml.Marshal(raw)
}
