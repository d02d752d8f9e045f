package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/amontoro/porteria/account"
	"github.com/amontoro/porteria/gate"
	"github.com/amontoro/porteria/internal/testutil"
	"github.com/amontoro/porteria/pages"
	"github.com/steinfletcher/apitest"
	"github.com/steinfletcher/apitest-jsonpath"
)

func testHandler(ctx context.Context, t *testing.T, policy gate.Policy) (*account.Store, http.Handler, func()) {
	t.Helper()
	st, cleanup := testutil.AcquireStore(ctx, t)
	pageHandler, err := pages.AsHandler()
	if err != nil {
		t.Fatal(err)
	}
	realm := NewRealm(st, policy,
		gate.InMemorySessionStore(time.Hour),
		NewCookieSealer(randomKey(t), time.Hour, true))
	return st, realm.AsHandler(pageHandler), cleanup
}

func login(t *testing.T, handler http.Handler, fields map[string]string) string {
	t.Helper()
	req := apitest.New().Handler(handler).Post("/login")
	for k, v := range fields {
		req = req.FormData(k, v)
	}
	result := req.Expect(t).
		Status(http.StatusFound).
		Header("Location", "/home").
		End()
	cookies := result.Response.Cookies()
	if len(cookies) != 1 {
		t.Fatal("login must set exactly one session cookie, got", len(cookies))
	}
	return cookies[0].Value
}

func TestLoginIssuesASession(t *testing.T) {
	ctx := context.Background()
	st, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	if err := st.InsertIfAbsent(ctx, "admin", "s3cret"); err != nil {
		t.Fatal(err)
	}
	sealed := login(t, handler, map[string]string{"username": "admin", "password": "s3cret"})

	apitest.New().
		Handler(handler).
		Get("/whoami").
		Cookies(apitest.NewCookie(CookieName).Value(sealed)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.authenticated", true)).
		Assert(jsonpath.Equal("$.identifier", "admin")).
		Assert(jsonpath.Equal("$.accountId", float64(1))).
		End()
}

func TestLoginAcceptsJSONAndAliases(t *testing.T) {
	ctx := context.Background()
	st, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	if err := st.InsertIfAbsent(ctx, "admin", "s3cret"); err != nil {
		t.Fatal(err)
	}
	apitest.New().
		Handler(handler).
		Post("/login").
		JSON(`{"usuario":"admin","contrasena":"s3cret"}`).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/home").
		End()
}

func TestLoginRejectCodes(t *testing.T) {
	ctx := context.Background()
	st, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	if err := st.InsertIfAbsent(ctx, "admin", "s3cret"); err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(handler).
		Post("/login").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "missing_identifier")).
		End()
	apitest.New().
		Handler(handler).
		Post("/login").
		FormData("username", "admin").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "missing_secret")).
		End()
	apitest.New().
		Handler(handler).
		Post("/login").
		FormData("username", "ghost").
		FormData("password", "s3cret").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "account_not_found")).
		End()
	apitest.New().
		Handler(handler).
		Post("/login").
		FormData("username", "admin").
		FormData("password", "wrong").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "invalid_credentials")).
		End()
}

func TestUsernameOnlyMode(t *testing.T) {
	ctx := context.Background()
	st, handler, cleanup := testHandler(ctx, t, gate.Policy{IdentifierOnly: true})
	defer cleanup()
	if err := st.InsertIfAbsent(ctx, "admin", ""); err != nil {
		t.Fatal(err)
	}
	if err := st.InsertIfAbsent(ctx, "ana", "kept-on-file"); err != nil {
		t.Fatal(err)
	}

	// no secret submitted: the comparison is skipped entirely
	login(t, handler, map[string]string{"username": "admin"})
	login(t, handler, map[string]string{"username": "ana"})

	// a submitted secret disables the bypass and must match
	apitest.New().
		Handler(handler).
		Post("/login").
		FormData("username", "admin").
		FormData("password", "x").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "invalid_credentials")).
		End()
}

func TestPrivatePagesRedirectWithoutSession(t *testing.T) {
	ctx := context.Background()
	st, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	if err := st.InsertIfAbsent(ctx, "admin", "s3cret"); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/home", "/history"} {
		apitest.New().
			Handler(handler).
			Get(path).
			Expect(t).
			Status(http.StatusFound).
			Header("Location", "/login").
			End()
	}
	// the login page itself stays public
	apitest.New().
		Handler(handler).
		Get("/login").
		Expect(t).
		Status(http.StatusOK).
		End()

	sealed := login(t, handler, map[string]string{"username": "admin", "password": "s3cret"})
	for _, path := range []string{"/home", "/history"} {
		apitest.New().
			Handler(handler).
			Get(path).
			Cookies(apitest.NewCookie(CookieName).Value(sealed)).
			Expect(t).
			Status(http.StatusOK).
			End()
	}
}

func TestLogoutDestroysTheSession(t *testing.T) {
	ctx := context.Background()
	st, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	if err := st.InsertIfAbsent(ctx, "admin", "s3cret"); err != nil {
		t.Fatal(err)
	}
	sealed := login(t, handler, map[string]string{"username": "admin", "password": "s3cret"})

	apitest.New().
		Handler(handler).
		Post("/logout").
		Cookies(apitest.NewCookie(CookieName).Value(sealed)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.ok", true)).
		End()
	// the old cookie is dead even if the client kept it
	apitest.New().
		Handler(handler).
		Get("/whoami").
		Cookies(apitest.NewCookie(CookieName).Value(sealed)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.authenticated", false)).
		End()
	// logging out twice is fine
	apitest.New().
		Handler(handler).
		Post("/logout").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.ok", true)).
		End()
}

func TestWhoamiWithGarbageCookie(t *testing.T) {
	ctx := context.Background()
	_, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	apitest.New().
		Handler(handler).
		Get("/whoami").
		Cookies(apitest.NewCookie(CookieName).Value("garbage")).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.authenticated", false)).
		End()
}

func TestRootRedirectsBySessionState(t *testing.T) {
	ctx := context.Background()
	st, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	if err := st.InsertIfAbsent(ctx, "admin", "s3cret"); err != nil {
		t.Fatal(err)
	}
	apitest.New().
		Handler(handler).
		Get("/").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/login").
		End()
	sealed := login(t, handler, map[string]string{"username": "admin", "password": "s3cret"})
	apitest.New().
		Handler(handler).
		Get("/").
		Cookies(apitest.NewCookie(CookieName).Value(sealed)).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/home").
		End()
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	_, handler, cleanup := testHandler(ctx, t, gate.Policy{})
	defer cleanup()
	apitest.New().
		Handler(handler).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		Body("ok").
		End()
}
