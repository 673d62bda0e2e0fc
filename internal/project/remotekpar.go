package project

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"golang.org/x/time/rate"

	"github.com/sensmetry/sysand/internal/auth"
	"github.com/sensmetry/sysand/internal/model"
)

// defaultRangeLimiter is one process-wide limiter shared by every
// RemoteKparRanged whose Limiter is nil; it caps outbound range requests so a large archive's central directory scan (one request per
// entry in the worst case) doesn't hammer a remote host.
var defaultRangeLimiter = rate.NewLimiter(rate.Limit(20), 5)

// RemoteKparDownloaded fetches a single ZIP archive lazily into a temp
// file on first access, then serves it by LocalKpar semantics.
type RemoteKparDownloaded struct {
	URL    string
	Client *http.Client
	Auth   auth.HttpAuthentication

	once     sync.Once
	initErr  error
	tmpPath  string
	delegate *LocalKpar
}

func NewRemoteKparDownloaded(url string, client *http.Client, policy auth.HttpAuthentication) *RemoteKparDownloaded {
	if client == nil {
		client = http.DefaultClient
	}
	if policy == nil {
		policy = auth.Unauthenticated{}
	}
	return &RemoteKparDownloaded{URL: url, Client: client, Auth: policy}
}

func (r *RemoteKparDownloaded) ensure() error {
	r.once.Do(func() {
		resp, err := r.Auth.Do(r.Client, func() (*http.Request, error) {
			return http.NewRequest(http.MethodGet, r.URL, nil)
		})
		if err != nil {
			r.initErr = model.NewNetworkError(r.URL, 0, err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			r.initErr = model.NewNetworkError(r.URL, resp.StatusCode, nil)
			return
		}

		f, err := os.CreateTemp("", "sysand-kpar-*.zip")
		if err != nil {
			r.initErr = model.NewIOError("create-temp", "", err)
			return
		}
		defer f.Close()
		if _, err := io.Copy(f, resp.Body); err != nil {
			r.initErr = model.NewIOError("write-temp", f.Name(), err)
			return
		}
		r.tmpPath = f.Name()
		r.delegate = NewLocalKpar(r.tmpPath, "")
	})
	return r.initErr
}

func (r *RemoteKparDownloaded) GetProject() (*model.Info, *model.Meta, error) {
	if err := r.ensure(); err != nil {
		return nil, nil, err
	}
	return r.delegate.GetProject()
}

func (r *RemoteKparDownloaded) ReadSource(path string) (io.ReadCloser, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	return r.delegate.ReadSource(path)
}

func (r *RemoteKparDownloaded) Sources() ([]model.Source, error) {
	return []model.Source{{Kind: model.SourceRemoteKpar, URL: r.URL}}, nil
}

func (r *RemoteKparDownloaded) IsDefinitelyInvalid() bool {
	if err := r.ensure(); err != nil {
		return true
	}
	return r.delegate.IsDefinitelyInvalid()
}

func (r *RemoteKparDownloaded) Close() error {
	if r.delegate != nil {
		r.delegate.Close()
	}
	if r.tmpPath != "" {
		return os.Remove(r.tmpPath)
	}
	return nil
}

// httpRangeReaderAt is an io.ReaderAt backed by HTTP range requests
// against a single URL, letting archive/zip read only the central
// directory and the specific entries it needs instead of the whole
// archive body.
type httpRangeReaderAt struct {
	url     string
	size    int64
	client  *http.Client
	policy  auth.HttpAuthentication
	limiter *rate.Limiter
}

func (h *httpRangeReaderAt) ReadAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p)) - 1
	if end >= h.size {
		end = h.size - 1
	}
	if h.limiter != nil {
		if err := h.limiter.Wait(context.Background()); err != nil {
			return 0, model.NewNetworkError(h.url, 0, err)
		}
	}
	resp, err := h.policy.Do(h.client, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, h.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, end))
		return req, nil
	})
	if err != nil {
		return 0, model.NewNetworkError(h.url, 0, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return 0, model.NewNetworkError(h.url, resp.StatusCode, nil)
	}
	n, err := io.ReadFull(resp.Body, p[:end-off+1])
	if err != nil && err != io.ErrUnexpectedEOF {
		return n, err
	}
	return n, nil
}

// RemoteKparRanged reads a remote ZIP archive's central directory and
// individual entries via HTTP range requests, avoiding a full download.
// Used only when the server advertises Accept-Ranges: bytes and reports
// Content-Length on a HEAD probe.
type RemoteKparRanged struct {
	URL     string
	Client  *http.Client
	Auth    auth.HttpAuthentication
	Limiter *rate.Limiter // nil uses defaultRangeLimiter

	once    sync.Once
	initErr error
	reader  *zip.Reader
}

func NewRemoteKparRanged(url string, client *http.Client, policy auth.HttpAuthentication) *RemoteKparRanged {
	if client == nil {
		client = http.DefaultClient
	}
	if policy == nil {
		policy = auth.Unauthenticated{}
	}
	return &RemoteKparRanged{URL: url, Client: client, Auth: policy}
}

func (r *RemoteKparRanged) limiter() *rate.Limiter {
	if r.Limiter != nil {
		return r.Limiter
	}
	return defaultRangeLimiter
}

// SupportsRanged performs the HEAD probe described in §6: the server
// must advertise Accept-Ranges: bytes and a Content-Length.
func SupportsRanged(url string, client *http.Client, policy auth.HttpAuthentication) (int64, bool) {
	if client == nil {
		client = http.DefaultClient
	}
	if policy == nil {
		policy = auth.Unauthenticated{}
	}
	resp, err := policy.Do(client, func() (*http.Request, error) {
		return http.NewRequest(http.MethodHead, url, nil)
	})
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.Header.Get("Accept-Ranges") != "bytes" || resp.ContentLength <= 0 {
		return 0, false
	}
	return resp.ContentLength, true
}

func (r *RemoteKparRanged) ensure() error {
	r.once.Do(func() {
		size, ok := SupportsRanged(r.URL, r.Client, r.Auth)
		if !ok {
			r.initErr = model.NewNetworkError(r.URL, 0, errNoRangeSupport)
			return
		}
		ra := &httpRangeReaderAt{url: r.URL, size: size, client: r.Client, policy: r.Auth, limiter: r.limiter()}
		zr, err := zip.NewReader(ra, size)
		if err != nil {
			r.initErr = model.NewIOError("open-zip", r.URL, err)
			return
		}
		r.reader = zr
	})
	return r.initErr
}

type rangeErr string

func (e rangeErr) Error() string { return string(e) }

const errNoRangeSupport = rangeErr("server does not advertise range support")

func (r *RemoteKparRanged) detectRoot() string {
	for _, f := range r.reader.File {
		if f.Name == model.InfoName {
			return ""
		}
	}
	for _, f := range r.reader.File {
		if len(f.Name) > len(model.InfoName) && f.Name[len(f.Name)-len(model.InfoName):] == model.InfoName {
			return f.Name[:len(f.Name)-len(model.InfoName)-1]
		}
	}
	return ""
}

func (r *RemoteKparRanged) entry(name string) ([]byte, bool, error) {
	for _, f := range r.reader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, true, model.NewIOError("read-zip-entry", name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			return data, true, err
		}
	}
	return nil, false, nil
}

func (r *RemoteKparRanged) qualify(root, relSlash string) string {
	if root == "" {
		return relSlash
	}
	return root + "/" + relSlash
}

func (r *RemoteKparRanged) GetProject() (*model.Info, *model.Meta, error) {
	if err := r.ensure(); err != nil {
		return nil, nil, err
	}
	root := r.detectRoot()
	var info *model.Info
	var meta *model.Meta

	if data, ok, err := r.entry(r.qualify(root, model.InfoName)); err != nil {
		return nil, nil, err
	} else if ok {
		raw, derr := model.DecodeInfo(bytes.NewReader(data))
		if derr != nil {
			return nil, nil, derr
		}
		v, verr := raw.Validate()
		if verr != nil {
			return nil, nil, verr
		}
		info = &v
	}
	if data, ok, err := r.entry(r.qualify(root, model.MetaName)); err != nil {
		return nil, nil, err
	} else if ok {
		raw, derr := model.DecodeMeta(bytes.NewReader(data))
		if derr != nil {
			return nil, nil, derr
		}
		v, verr := raw.Validate()
		if verr != nil {
			return nil, nil, verr
		}
		meta = &v
	}
	return info, meta, nil
}

func (r *RemoteKparRanged) ReadSource(relSlash string) (io.ReadCloser, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	root := r.detectRoot()
	data, ok, err := r.entry(r.qualify(root, relSlash))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewIOError("read", relSlash, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (r *RemoteKparRanged) Sources() ([]model.Source, error) {
	return []model.Source{{Kind: model.SourceRemoteKpar, URL: r.URL}}, nil
}

func (r *RemoteKparRanged) IsDefinitelyInvalid() bool {
	return r.ensure() != nil
}

var (
	_ ProjectRead = (*RemoteKparDownloaded)(nil)
	_ ProjectRead = (*RemoteKparRanged)(nil)
)
