package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/amontoro/porteria/account"
	"github.com/amontoro/porteria/gate"
	"github.com/amontoro/porteria/internal/logutil"
	"github.com/julienschmidt/httprouter"
)

const (
	loginPath = "/login"
	homePath  = "/home"

	// larger login submissions are cut off rather than buffered
	maxLoginBody = 1_000_000
)

type (
	// Realm wires the gate policy, the account store and the session
	// plumbing into the HTTP surface.
	Realm struct {
		store    *account.Store
		policy   gate.Policy
		sessions gate.SessionStore
		cookies  *CookieSealer
		private  gate.PrivateSet
	}
)

func NewRealm(store *account.Store, policy gate.Policy, sessions gate.SessionStore, cookies *CookieSealer) *Realm {
	return &Realm{
		store:    store,
		policy:   policy,
		sessions: sessions,
		cookies:  cookies,
		private:  gate.DefaultPrivateSet(),
	}
}

// AsHandler exposes the login endpoints and routes everything else
// through the private-page guard into the given page handler.
func (re *Realm) AsHandler(pages http.Handler) http.Handler {
	router := httprouter.New()
	router.HandlerFunc("POST", "/login", re.login)
	router.HandlerFunc("POST", "/logout", re.logout)
	router.HandlerFunc("GET", "/whoami", re.whoami)
	router.HandlerFunc("GET", "/health", re.health)
	router.HandlerFunc("GET", "/", re.index)
	// GET /login must reach the pages handler below, not a 405
	router.HandleMethodNotAllowed = false
	router.NotFound = re.Protect(pages)
	return router
}

// Protect gates read access to the private page set behind an active
// session. Everything else passes through untouched.
func (re *Realm) Protect(pages http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := re.session(r)
		if re.private.Guard(r.Method, r.URL.Path, session) == gate.RedirectToLogin {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		pages.ServeHTTP(w, r)
	})
}

func (re *Realm) login(w http.ResponseWriter, r *http.Request) {
	log := logutil.GetOrDefault(r.Context())
	creds := gate.Resolve(decodePayload(r))
	session, err := gate.Authenticate(r.Context(), creds, re.policy, re.store.FindByIdentifier)
	var rejection *gate.Rejection
	if errors.As(err, &rejection) {
		log.Debug().Str("reason", string(rejection.Reason)).Msg("Login rejected")
		writeJSON(w, rejectionStatus(rejection.Reason), map[string]any{"error": string(rejection.Reason)})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Account store unavailable during login")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "store_unavailable"})
		return
	}
	token := gate.NewToken()
	if err := re.sessions.Save(r.Context(), token, session); err != nil {
		log.Error().Err(err).Msg("Unable to persist session")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "store_unavailable"})
		return
	}
	if err := re.cookies.Set(w, token); err != nil {
		log.Error().Err(err).Msg("Unable to seal session cookie")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "store_unavailable"})
		return
	}
	http.Redirect(w, r, homePath, http.StatusFound)
}

func (re *Realm) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := re.cookies.Token(r); ok {
		if err := re.sessions.Delete(r.Context(), token); err != nil {
			// the cookie is cleared either way, the entry will expire
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unable to delete session entry")
		}
	}
	re.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (re *Realm) whoami(w http.ResponseWriter, r *http.Request) {
	session, ok := re.session(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"accountId":     session.AccountID,
		"identifier":    session.Identifier,
	})
}

func (re *Realm) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}

func (re *Realm) index(w http.ResponseWriter, r *http.Request) {
	if _, ok := re.session(r); ok {
		http.Redirect(w, r, homePath, http.StatusFound)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (re *Realm) session(r *http.Request) (gate.Session, bool) {
	token, ok := re.cookies.Token(r)
	if !ok {
		return gate.Session{}, false
	}
	session, found, err := re.sessions.Lookup(r.Context(), token)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("Unexpected error when checking for session in session store")
		return gate.Session{}, false
	}
	return session, found
}

// decodePayload flattens a login submission into a field map. Both the
// form encoding and JSON are accepted, a body that does not decode is
// treated the same as an empty submission and the resolver turns it
// into missing fields.
func decodePayload(r *http.Request) map[string]string {
	payload := map[string]string{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		json.NewDecoder(io.LimitReader(r.Body, maxLoginBody)).Decode(&payload)
		return payload
	}
	if err := r.ParseForm(); err != nil {
		return payload
	}
	for k, v := range r.PostForm {
		if len(v) > 0 {
			payload[k] = v[0]
		}
	}
	return payload
}

func rejectionStatus(reason gate.Reason) int {
	switch reason {
	case gate.MissingIdentifier, gate.MissingSecret:
		return http.StatusBadRequest
	default:
		return http.StatusUnauthorized
	}
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	buf, _ := json.Marshal(body)
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	w.Header().Add("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}
