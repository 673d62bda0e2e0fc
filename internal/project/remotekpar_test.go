package project

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildKparBytes(t *testing.T, root string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
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
	return buf.Bytes()
}

// rangeCapableServer serves a single fixed byte payload via
// http.ServeContent, which honors Range requests and Accept-Ranges
// automatically, matching a real static-file host.
func rangeCapableServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "archive.kpar", time.Time{}, bytes.NewReader(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteKparDownloadedFetchesWholeArchive(t *testing.T) {
	payload := buildKparBytes(t, "", map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
		"model.kerml":   "package widget;",
	})
	srv := rangeCapableServer(t, payload)

	r := NewRemoteKparDownloaded(srv.URL, nil, nil)
	defer r.Close()

	info, _, err := r.GetProject()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "widget", info.Name)

	rc, err := r.ReadSource("model.kerml")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "package widget;", string(data))
}

func TestSupportsRangedDetectsRangeCapableServer(t *testing.T) {
	srv := rangeCapableServer(t, []byte("hello world"))
	size, ok := SupportsRanged(srv.URL, nil, nil)
	assert.True(t, ok)
	assert.EqualValues(t, len("hello world"), size)
}

func TestSupportsRangedFalseWithoutAcceptRanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("no ranges here"))
	}))
	t.Cleanup(srv.Close)

	_, ok := SupportsRanged(srv.URL, nil, nil)
	assert.False(t, ok)
}

func TestRemoteKparRangedReadsEntriesViaRangeRequests(t *testing.T) {
	payload := buildKparBytes(t, "nested", map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
		"model.kerml":   "package widget;",
	})
	srv := rangeCapableServer(t, payload)

	r := NewRemoteKparRanged(srv.URL, nil, nil)
	info, _, err := r.GetProject()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "widget", info.Name)

	rc, err := r.ReadSource("model.kerml")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "package widget;", string(data))
}

func TestRemoteKparRangedRespectsCustomLimiter(t *testing.T) {
	payload := buildKparBytes(t, "", map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
	})
	srv := rangeCapableServer(t, payload)

	r := NewRemoteKparRanged(srv.URL, nil, nil)
	r.Limiter = rate.NewLimiter(rate.Inf, 1)

	info, _, err := r.GetProject()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "widget", info.Name)
}

func TestRemoteKparSourcesReportsURL(t *testing.T) {
	r := NewRemoteKparDownloaded("https://example.org/widget.kpar", nil, nil)
	sources, err := r.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "https://example.org/widget.kpar", sources[0].URL)
}
