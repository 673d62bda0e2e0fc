package project

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKpar(t *testing.T, path string, root string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, contents := range files {
		entryName := name
		if root != "" {
			entryName = root + "/" + name
		}
		wr, err := w.Create(entryName)
		require.NoError(t, err)
		_, err = wr.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestLocalKparAutoDetectsRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.kpar")
	writeKpar(t, path, "widget", map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
		".meta.json":    `{"index":{},"created":"2025-01-01T00:00:00Z","metamodel":"urn:test","includesDerived":false,"includesImplied":false}`,
		"model.kerml":   "package widget;",
	})

	k := NewLocalKpar(path, "")
	defer k.Close()

	info, _, err := k.GetProject()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "widget", info.Name)

	rc, err := k.ReadSource("model.kerml")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "package widget;", string(data))
}

func TestLocalKparExplicitRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.kpar")
	writeKpar(t, path, "nested/widget", map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
	})

	k := NewLocalKpar(path, "nested/widget")
	defer k.Close()

	info, _, err := k.GetProject()
	require.NoError(t, err)
	require.NotNil(t, info)
}

func TestLocalKparReadSourceRejectsPathEscape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.kpar")
	writeKpar(t, path, "", map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
	})

	k := NewLocalKpar(path, "")
	defer k.Close()

	_, err := k.ReadSource("../escape.txt")
	assert.Error(t, err)
}

func TestLocalKparIsDefinitelyInvalidWhenNoManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.kpar")
	writeKpar(t, path, "", map[string]string{
		"readme.txt": "nothing to see here",
	})

	k := NewLocalKpar(path, "")
	defer k.Close()

	assert.True(t, k.IsDefinitelyInvalid())
}

func TestLocalKparSourcesReportsArchivePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.kpar")
	writeKpar(t, path, "", map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
	})

	k := NewLocalKpar(path, "")
	defer k.Close()

	sources, err := k.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, path, sources[0].Path)
}
