package project

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSrcServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteSrcGetProjectFetchesBothManifests(t *testing.T) {
	srv := newSrcServer(t, map[string]string{
		".project.json": `{"name":"widget","version":"1.0.0","usage":[]}`,
		".meta.json":    `{"index":{},"created":"2025-01-01T00:00:00Z","includesDerived":false,"includesImplied":false}`,
	})

	r := NewRemoteSrc(srv.URL+"/", nil, nil)
	info, meta, err := r.GetProject()
	require.NoError(t, err)
	require.NotNil(t, info)
	require.NotNil(t, meta)
	assert.Equal(t, "widget", info.Name)
}

func TestRemoteSrcReadSourceJoinsAndEscapesPath(t *testing.T) {
	srv := newSrcServer(t, map[string]string{
		"sub dir/model.kerml": "package widget;",
	})

	r := NewRemoteSrc(srv.URL+"/", nil, nil)
	rc, err := r.ReadSource("sub dir/model.kerml")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "package widget;", string(data))
}

func TestRemoteSrcIsDefinitelyInvalidOn404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	r := NewRemoteSrc(srv.URL+"/", nil, nil)
	assert.True(t, r.IsDefinitelyInvalid())
}

func TestRemoteSrcSourcesReportsBaseURL(t *testing.T) {
	r := NewRemoteSrc("https://example.org/widget/", nil, nil)
	sources, err := r.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "https://example.org/widget/", sources[0].URL)
}
