package model

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestInfoRoundTrip(t *testing.T) {
	raw := MinimalInfoRaw("example.pkg", "1.2.3")
	raw.AddUsage("https://example.org/dep.kpar", ">=1.0.0, <2.0.0")

	info, err := raw.Validate()
	require.NoError(t, err)
	assert.Equal(t, "example.pkg", info.Name)
	assert.Equal(t, "1.2.3", info.Version.String())
	require.Len(t, info.Usage, 1)
	assert.True(t, info.Usage[0].VersionConstraint.Matches(info.Version))

	back := info.Raw()
	assert.Equal(t, raw.Name, back.Name)
	assert.Equal(t, raw.Version, back.Version)
	assert.Equal(t, raw.Usage, back.Usage)
}

func TestInfoEncodeDecode(t *testing.T) {
	raw := MinimalInfoRaw("example.pkg", "0.1.0")
	encoded, err := EncodeInfo(raw)
	require.NoError(t, err)

	decoded, err := DecodeInfo(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, raw.Name, decoded.Name)
	assert.Equal(t, raw.Version, decoded.Version)
}

func TestInfoRemoveUsage(t *testing.T) {
	raw := MinimalInfoRaw("x", "1.0.0")
	raw.AddUsage("a", "")
	raw.AddUsage("b", "")
	raw.AddUsage("a", ">=2.0.0")

	removed := raw.RemoveUsage("a")
	assert.Len(t, removed, 2)
	require.Len(t, raw.Usage, 1)
	assert.Equal(t, "b", raw.Usage[0].Resource)
}

func TestMetaChecksumOrdering(t *testing.T) {
	meta := GenerateBlankMetaRaw(NewDateTime(fixedTime()))
	meta.AddChecksum("c.kerml", AlgorithmSHA256, "aaa", false)
	meta.AddChecksum("a.kerml", AlgorithmSHA256, "bbb", false)
	meta.AddChecksum("b.kerml", AlgorithmNone, "", false)

	assert.Equal(t, []string{"c.kerml", "a.kerml", "b.kerml"}, meta.Checksum.Keys())

	prev, existed := meta.AddChecksum("a.kerml", AlgorithmSHA256, "ccc", true)
	assert.True(t, existed)
	assert.Equal(t, "bbb", prev.Value)

	removed, existed := meta.RemoveChecksum("b.kerml")
	assert.True(t, existed)
	assert.Equal(t, AlgorithmNone, removed.Algorithm)
	assert.Equal(t, []string{"c.kerml", "a.kerml"}, meta.Checksum.Keys())
}

func TestMetaSourcePaths(t *testing.T) {
	meta := GenerateBlankMetaRaw(NewDateTime(fixedTime()))
	meta.AddChecksum("a.kerml", AlgorithmSHA256, "x", false)
	meta.MergeIndex([]IndexPair{{Symbol: "Foo", Path: "a.kerml"}, {Symbol: "Bar", Path: "b.kerml"}}, false)

	withoutIndex := meta.SourcePaths(false)
	assert.Equal(t, []string{"a.kerml"}, withoutIndex)

	withIndex := meta.SourcePaths(true)
	assert.Equal(t, []string{"a.kerml", "b.kerml"}, withIndex)
}

func TestMetaRemoveIndex(t *testing.T) {
	meta := GenerateBlankMetaRaw(NewDateTime(fixedTime()))
	meta.MergeIndex([]IndexPair{
		{Symbol: "Foo", Path: "a.kerml"},
		{Symbol: "Bar", Path: "a.kerml"},
		{Symbol: "Baz", Path: "b.kerml"},
	}, false)

	removed := meta.RemoveIndex("a.kerml")
	assert.ElementsMatch(t, []string{"Foo", "Bar"}, removed)
	assert.Equal(t, 1, meta.Index.Len())
}

func TestMetaMergeIndexExisting(t *testing.T) {
	meta := GenerateBlankMetaRaw(NewDateTime(fixedTime()))
	out := meta.MergeIndex([]IndexPair{{Symbol: "Foo", Path: "a.kerml"}}, false)
	assert.Equal(t, []string{"Foo"}, out.New)

	out2 := meta.MergeIndex([]IndexPair{{Symbol: "Foo", Path: "b.kerml"}}, false)
	assert.Empty(t, out2.New)
	require.Len(t, out2.Existing, 1)
	assert.Equal(t, "a.kerml", out2.Existing[0].Path)

	out3 := meta.MergeIndex([]IndexPair{{Symbol: "Foo", Path: "b.kerml"}}, true)
	require.Len(t, out3.Existing, 1)
	assert.Equal(t, "b.kerml", out3.Existing[0].Path)
	v, _ := meta.Index.Get("Foo")
	assert.Equal(t, "b.kerml", v)
}

func TestOrderedStringMapJSONRoundTrip(t *testing.T) {
	m := NewOrderedStringMap[string]()
	m.Set("z", "1")
	m.Set("a", "2")
	m.Set("m", "3")

	encoded, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"2","m":"3"}`, string(encoded))

	var decoded OrderedStringMap[string]
	require.NoError(t, decoded.UnmarshalJSON(encoded))
	assert.Equal(t, []string{"z", "a", "m"}, decoded.Keys())
}

func TestProjectHashDeterministic(t *testing.T) {
	info := []byte(`{"name":"x"}`)
	meta := []byte(`{"created":"2020-01-01T00:00:00Z"}`)

	h1 := ProjectHashHex(info, meta)
	h2 := ProjectHashHex(info, meta)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	h3 := ProjectHashHex(info, []byte(`{"created":"2021-01-01T00:00:00Z"}`))
	assert.NotEqual(t, h1, h3)
}

func TestLockfileRoundTrip(t *testing.T) {
	size := int64(1024)
	lf := Lockfile{
		LockVersion: CurrentLockVersion,
		Project: []LockedProject{
			{
				Identifiers: []string{"https://example.org/pkg"},
				Checksum:    "deadbeef",
				Sources: []Source{
					{Kind: SourceRemoteKpar, URL: "https://example.org/pkg.kpar", Size: &size},
				},
			},
		},
	}

	encoded, err := EncodeLockfile(lf)
	require.NoError(t, err)

	decoded, err := DecodeLockfile(encoded)
	require.NoError(t, err)
	require.Len(t, decoded.Project, 1)
	assert.Equal(t, "deadbeef", decoded.Project[0].Checksum)
	require.Len(t, decoded.Project[0].Sources, 1)
	assert.Equal(t, SourceRemoteKpar, decoded.Project[0].Sources[0].Kind)
	assert.Equal(t, int64(1024), *decoded.Project[0].Sources[0].Size)
}
