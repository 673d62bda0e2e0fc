package project

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sensmetry/sysand/internal/auth"
	"github.com/sensmetry/sysand/internal/model"
)

// RemoteSrc serves a project tree over HTTP at BaseURL, which must end
// in "/". .project.json and .meta.json are GET-ed directly; sources are
// GET-joined onto the base URL with path segments percent-encoded.
type RemoteSrc struct {
	BaseURL string
	Client  *http.Client
	Auth    auth.HttpAuthentication
}

func NewRemoteSrc(baseURL string, client *http.Client, policy auth.HttpAuthentication) *RemoteSrc {
	if client == nil {
		client = http.DefaultClient
	}
	if policy == nil {
		policy = auth.Unauthenticated{}
	}
	return &RemoteSrc{BaseURL: baseURL, Client: client, Auth: policy}
}

func (r *RemoteSrc) get(urlStr string) ([]byte, int, error) {
	resp, err := r.Auth.Do(r.Client, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, urlStr, nil)
	})
	if err != nil {
		return nil, 0, model.NewNetworkError(urlStr, 0, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, model.NewNetworkError(urlStr, resp.StatusCode, nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, model.NewNetworkError(urlStr, resp.StatusCode, err)
	}
	return data, resp.StatusCode, nil
}

func (r *RemoteSrc) join(relSlash string) string {
	segments := strings.Split(relSlash, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(r.BaseURL, "/") + "/" + strings.Join(segments, "/")
}

func (r *RemoteSrc) GetProject() (*model.Info, *model.Meta, error) {
	var info *model.Info
	var meta *model.Meta

	infoBytes, status, err := r.get(strings.TrimRight(r.BaseURL, "/") + "/" + model.InfoName)
	if err == nil {
		raw, derr := model.DecodeInfo(bytes.NewReader(infoBytes))
		if derr != nil {
			return nil, nil, derr
		}
		v, verr := raw.Validate()
		if verr != nil {
			return nil, nil, verr
		}
		info = &v
	} else if status != 0 {
		return nil, nil, nil // non-200: caller treats as definitely-invalid via IsDefinitelyInvalid
	} else {
		return nil, nil, err
	}

	metaBytes, status, err := r.get(strings.TrimRight(r.BaseURL, "/") + "/" + model.MetaName)
	if err == nil {
		raw, derr := model.DecodeMeta(bytes.NewReader(metaBytes))
		if derr != nil {
			return nil, nil, derr
		}
		v, verr := raw.Validate()
		if verr != nil {
			return nil, nil, verr
		}
		meta = &v
	} else if status != 0 {
		return info, nil, nil
	} else {
		return nil, nil, err
	}

	return info, meta, nil
}

func (r *RemoteSrc) ReadSource(relSlash string) (io.ReadCloser, error) {
	data, _, err := r.get(r.join(relSlash))
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (r *RemoteSrc) Sources() ([]model.Source, error) {
	return []model.Source{{Kind: model.SourceRemoteSrc, URL: r.BaseURL}}, nil
}

func (r *RemoteSrc) IsDefinitelyInvalid() bool {
	_, _, err := r.get(strings.TrimRight(r.BaseURL, "/") + "/" + model.InfoName)
	return err != nil
}

var _ ProjectRead = (*RemoteSrc)(nil)
