package auth

import (
	"bufio"
	"net/http"
	"os"
	"strings"
)

// NetrcFallback attaches credentials found in a .netrc-style file for
// the request's host, falling back to Default when no matching machine
// entry exists. Supplements §4.H per original_source/core/src/auth.rs,
// which additionally consults the user's netrc before giving up.
type NetrcFallback struct {
	Path    string
	Default HttpAuthentication
}

func (n NetrcFallback) Do(client *http.Client, newRequest RequestFactory) (*http.Response, error) {
	req, err := newRequest()
	if err != nil {
		return nil, err
	}
	if user, pass, ok := lookupNetrc(n.Path, req.URL.Hostname()); ok {
		return ForceBasic{User: user, Pass: pass}.Do(client, newRequest)
	}
	return n.Default.Do(client, newRequest)
}

// lookupNetrc performs a minimal `machine/login/password` scan of a
// netrc file. No netrc-parsing library appears anywhere in the example
// corpus, so this hand-rolled scanner is the justified stdlib fallback
// (see DESIGN.md).
func lookupNetrc(path, host string) (user, pass string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", false
	}
	defer f.Close()

	fields := strings.Fields(readAll(f))
	var machine, login, password string
	matched := false
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "machine":
			if matched && machine == host {
				return login, password, login != "" && password != ""
			}
			if i+1 < len(fields) {
				machine = fields[i+1]
				matched = machine == host
				login, password = "", ""
			}
		case "login":
			if i+1 < len(fields) {
				login = fields[i+1]
			}
		case "password":
			if i+1 < len(fields) {
				password = fields[i+1]
			}
		}
	}
	if matched {
		return login, password, login != "" && password != ""
	}
	return "", "", false
}

func readAll(f *os.File) string {
	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}
