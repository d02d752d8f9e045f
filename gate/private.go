package gate

import "net/http"

type (
	// PrivateSet is the fixed collection of paths that require an
	// authenticated session for read access.
	PrivateSet map[string]bool

	// Decision is the outcome of guarding a request.
	Decision int
)

const (
	Allow Decision = iota
	RedirectToLogin
)

// DefaultPrivateSet covers the two gated application views.
func DefaultPrivateSet() PrivateSet {
	return PrivateSet{
		"/home":    true,
		"/history": true,
	}
}

// IsPrivate reports whether fetching path requires a session. Only
// read-only retrievals are gated, mutating verbs carry their own
// checks (the login form itself posts to a public path).
func (p PrivateSet) IsPrivate(method, path string) bool {
	if method != http.MethodGet {
		return false
	}
	return p[path]
}

// Guard decides access for a request given the caller's session.
func (p PrivateSet) Guard(method, path string, session Session) Decision {
	if !p.IsPrivate(method, path) {
		return Allow
	}
	if session.Authenticated() {
		return Allow
	}
	return RedirectToLogin
}
