// Package auth implements the §4.H HTTP authentication policy: composable
// credential attachment with retry-on-4xx and per-host restriction,
// grounded on golang-dep's bitbucketapi.go net/http usage — the teacher
// has no auth-composition layer of its own, so this package follows the
// corpus's plain net/http style rather than any single teacher file.
package auth

import (
	"net/http"
)

// RequestFactory rebuilds a fresh *http.Request on demand, so a retry
// under a different policy never reuses an already-consumed body.
type RequestFactory func() (*http.Request, error)

// HttpAuthentication attaches credentials to an outgoing request and
// performs it, possibly retrying under a fallback policy.
type HttpAuthentication interface {
	Do(client *http.Client, newRequest RequestFactory) (*http.Response, error)
}

// Unauthenticated sends the request exactly as built.
type Unauthenticated struct{}

func (Unauthenticated) Do(client *http.Client, newRequest RequestFactory) (*http.Response, error) {
	req, err := newRequest()
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// ForceBasic always attaches HTTP basic auth.
type ForceBasic struct {
	User string
	Pass string
}

func (f ForceBasic) Do(client *http.Client, newRequest RequestFactory) (*http.Response, error) {
	req, err := newRequest()
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(f.User, f.Pass)
	return client.Do(req)
}

// Sequence runs Higher; if the response status is any 4xx, retries a
// freshly rebuilt request under Lower.
type Sequence struct {
	Higher HttpAuthentication
	Lower  HttpAuthentication
}

func (s Sequence) Do(client *http.Client, newRequest RequestFactory) (*http.Response, error) {
	resp, err := s.Higher.Do(client, newRequest)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 || resp.StatusCode >= 500 {
		return resp, nil
	}
	resp.Body.Close()
	return s.Lower.Do(client, newRequest)
}

// GlobPolicy pairs a glob pattern (literal-separator semantics, matched
// with path.Match against the request URL) with the policy to use when
// it matches.
type GlobPolicy struct {
	Glob   string
	Policy HttpAuthentication
}

// Restrict selects a policy by matching the request URL against an
// ordered list of globs; on ambiguous matches it tries each matching
// policy in order and returns the first non-4xx response, else the
// first response obtained.
type Restrict struct {
	Restricted []GlobPolicy
	Default    HttpAuthentication
}

func (r Restrict) Do(client *http.Client, newRequest RequestFactory) (*http.Response, error) {
	req, err := newRequest()
	if err != nil {
		return nil, err
	}
	url := req.URL.String()

	var matched []HttpAuthentication
	for _, gp := range r.Restricted {
		ok, err := matchGlob(gp.Glob, url)
		if err == nil && ok {
			matched = append(matched, gp.Policy)
		}
	}
	if len(matched) == 0 {
		return r.Default.Do(client, newRequest)
	}

	var first *http.Response
	for _, policy := range matched {
		resp, err := policy.Do(client, newRequest)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 400 || resp.StatusCode >= 500 {
			return resp, nil
		}
		if first == nil {
			first = resp
		} else {
			resp.Body.Close()
		}
	}
	return first, nil
}
