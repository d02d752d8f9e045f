package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// SessionKeyEnvVar names the environment variable that holds the
	// base64 encoded 32-byte key used to seal session cookies.
	SessionKeyEnvVar = "PORTERIA_SESSION_KEY"

	// CookieName carries the sealed session token.
	CookieName = "porteria_session"

	nonceLen = 24
)

type (
	Key [32]byte

	// CookieSealer binds the opaque session token to the client in a
	// tamper-proof cookie. The token itself never leaves the server in
	// the clear.
	CookieSealer struct {
		key            Key
		lifetime       time.Duration
		insecureCookie bool
	}
)

func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// KeyFromEnv reads the sealing key from the given environment variable
// and wipes the variable, so the key does not linger in the process
// environment.
func KeyFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) (Key, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	var key Key
	sz, err := base64.StdEncoding.Decode(key[:], []byte(val))
	if err != nil {
		return Key{}, fmt.Errorf("api: cannot decode string to valid key, cause %v", err)
	} else if sz != len(key) {
		return Key{}, fmt.Errorf("api: decoded key too short got %v expecting %v bytes", sz, len(key))
	}
	return key, nil
}

func NewCookieSealer(key Key, lifetime time.Duration, allowHTTPCookie bool) *CookieSealer {
	return &CookieSealer{
		key:            key,
		lifetime:       lifetime,
		insecureCookie: allowHTTPCookie,
	}
}

// Set seals the token and hands it to the client, with the same cookie
// attributes the old system used.
func (c *CookieSealer) Set(w http.ResponseWriter, token string) error {
	sealed, err := c.seal(token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(c.lifetime / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !c.insecureCookie,
	})
	return nil
}

// Clear expires the cookie. Safe to call when no cookie was set.
func (c *CookieSealer) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !c.insecureCookie,
	})
}

// Token extracts the session token from the request. A missing,
// malformed, or forged cookie is simply "no session", never an error.
func (c *CookieSealer) Token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return c.open(cookie.Value)
}

func (c *CookieSealer) seal(token string) (string, error) {
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, (*[32]byte)(&c.key))
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (c *CookieSealer) open(sealed string) (string, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceLen {
		return "", false
	}
	var nonce [nonceLen]byte
	copy(nonce[:], raw[:nonceLen])
	token, ok := secretbox.Open(nil, raw[nonceLen:], &nonce, (*[32]byte)(&c.key))
	if !ok {
		return "", false
	}
	return string(token), true
}
