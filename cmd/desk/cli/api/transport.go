package api

import (
	"net/http"

	"getdesk.dev/cli/cmd/desk/cli/auth"
)

// authTransport injects the bearer token from the shared credential
// cell into every request. Reading the cell takes only the read lock,
// so concurrent sync requests do not serialize on each other.
type authTransport struct {
	cell *auth.Cell
	next http.RoundTripper
}

func newAuthTransport(cell *auth.Cell, next http.RoundTripper) *authTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &authTransport{cell: cell, next: next}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone before mutating; RoundTrippers must not modify the
	// caller's request.
	req = req.Clone(req.Context())
	if token := t.cell.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", userAgent)
	return t.next.RoundTrip(req)
}
