package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bndy/centrestage/internal/adapters/mockidp"
	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	mockauth "github.com/bndy/centrestage/internal/mocks/auth"
	"github.com/bndy/centrestage/internal/ports"
	"github.com/bndy/centrestage/internal/service"
)

const testCookieDomain = ".bndy.test"

type sessionFixture struct {
	provider *mockidp.Provider
	router   http.Handler
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	provider, err := mockidp.NewProvider(mockidp.Config{
		Users: []mockidp.SeedUser{
			{
				UID:           "uid-1",
				Email:         "artist@bndy.test",
				EmailVerified: true,
				DisplayName:   "The Artist",
				PhotoURL:      "https://img.bndy.test/u1.png",
				Roles:         []domainauth.Role{domainauth.RoleUser, domainauth.RoleArtist},
			},
		},
	})
	require.NoError(t, err)

	sessions := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
	router := NewRouter(RouterServices{
		Sessions:     sessions,
		CookieDomain: testCookieDomain,
		IsDev:        true,
	})
	return sessionFixture{provider: provider, router: router}
}

func newRouterWithProvider(provider ports.IdentityProvider) http.Handler {
	sessions := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
	return NewRouter(RouterServices{Sessions: sessions, CookieDomain: testCookieDomain})
}

func doJSON(t *testing.T, router http.Handler, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func loginRequest(idToken string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/sessionLogin",
		strings.NewReader(`{"idToken":"`+idToken+`"}`))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func findSessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookieName)
	return nil
}

func TestSessionLoginSetsCookie(t *testing.T) {
	fix := newSessionFixture(t)
	idToken, err := fix.provider.MintIDToken("uid-1")
	require.NoError(t, err)

	resp, body := doJSON(t, fix.router, loginRequest(idToken))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	cookie := findSessionCookie(t, resp)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, "bndy.test", strings.TrimPrefix(cookie.Domain, "."))
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int(service.DefaultSessionDuration.Seconds()), cookie.MaxAge)
}

func TestSessionLoginMissingToken(t *testing.T) {
	fix := newSessionFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessionLogin", strings.NewReader(`{"idToken":""}`))
	resp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing_token", body["code"])
	assert.Equal(t, "ID token is required", body["error"])
}

func TestSessionLoginRejectsUnknownFields(t *testing.T) {
	fix := newSessionFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessionLogin",
		strings.NewReader(`{"idToken":"x","extra":true}`))
	resp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_json", body["code"])
}

func TestSessionLoginStaleAuthTime(t *testing.T) {
	fix := newSessionFixture(t)
	idToken, err := fix.provider.MintIDTokenAt("uid-1", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	resp, body := doJSON(t, fix.router, loginRequest(idToken))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "reauth_required", body["code"])
	assert.Equal(t, "Recent sign-in required. Please sign in again.", body["error"])
}

func TestSessionLoginErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
		wantMsg  string
	}{
		{
			name:     "expired",
			err:      ports.ErrCredentialExpired,
			wantCode: http.StatusUnauthorized,
			wantErr:  "token_expired",
			wantMsg:  "ID token has expired. Please sign in again.",
		},
		{
			name:     "revoked",
			err:      ports.ErrCredentialRevoked,
			wantCode: http.StatusUnauthorized,
			wantErr:  "token_revoked",
			wantMsg:  "Your session has been revoked. Please sign in again.",
		},
		{
			name:     "invalid",
			err:      ports.ErrCredentialInvalid,
			wantCode: http.StatusUnauthorized,
			wantErr:  "token_invalid",
			wantMsg:  "Invalid authentication. Please sign in again.",
		},
		{
			name:     "unknown user",
			err:      ports.ErrUserNotFound,
			wantCode: http.StatusUnauthorized,
			wantErr:  "auth_error",
			wantMsg:  "Authentication failed. Please try again.",
		},
		{
			name:     "provider down",
			err:      errors.New("jwks timeout"),
			wantCode: http.StatusInternalServerError,
			wantErr:  "server_error",
			wantMsg:  "An unexpected error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouterWithProvider(&mockauth.StubIdentityProvider{
				VerifyIDTokenFunc: func(context.Context, string) (domainauth.DecodedClaims, error) {
					return domainauth.DecodedClaims{}, tt.err
				},
			})

			resp, body := doJSON(t, router, loginRequest("whatever"))
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantErr, body["code"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestSessionLoginServerErrorHidesDetail(t *testing.T) {
	// Internal failure detail belongs in the logs, never in the response body.
	router := newRouterWithProvider(&mockauth.StubIdentityProvider{
		VerifyIDTokenFunc: func(context.Context, string) (domainauth.DecodedClaims, error) {
			return domainauth.DecodedClaims{}, errors.New("dial tcp 10.0.0.5:443: connection refused")
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginRequest("whatever"))
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	raw := rec.Body.String()
	assert.NotContains(t, raw, "dial tcp")
	assert.NotContains(t, raw, "connection refused")

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	assert.Equal(t, "server_error", body["code"])
	assert.Equal(t, "An unexpected error occurred. Please try again later.", body["error"])
}

func TestSessionLoginStatusDevEndpoint(t *testing.T) {
	fix := newSessionFixture(t)

	// Unauthenticated
	req := httptest.NewRequest(http.MethodGet, "/api/sessionLogin", nil)
	resp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["authenticated"])

	// Authenticated
	cookie := loginAndGetCookie(t, fix)
	req = httptest.NewRequest(http.MethodGet, "/api/sessionLogin", nil)
	req.AddCookie(cookie)
	resp, body = doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "uid-1", body["uid"])
	assert.Equal(t, "artist@bndy.test", body["email"])
}

func loginAndGetCookie(t *testing.T, fix sessionFixture) *http.Cookie {
	t.Helper()
	idToken, err := fix.provider.MintIDToken("uid-1")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	fix.router.ServeHTTP(rec, loginRequest(idToken))
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return findSessionCookie(t, resp)
}

func TestSessionCheckNoCookie(t *testing.T) {
	fix := newSessionFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessionCheck", nil)
	resp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, "no_cookie", body["reason"])
}

func TestSessionCheckAuthenticated(t *testing.T) {
	fix := newSessionFixture(t)
	cookie := loginAndGetCookie(t, fix)

	req := httptest.NewRequest(http.MethodGet, "/api/sessionCheck", nil)
	req.AddCookie(cookie)
	resp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["authenticated"])
	assert.Empty(t, body["reason"])
	assert.Equal(t, "uid-1", body["uid"])
	assert.Equal(t, "artist@bndy.test", body["email"])
	assert.Equal(t, true, body["emailVerified"])
	assert.Equal(t, "The Artist", body["displayName"])
	assert.Equal(t, "https://img.bndy.test/u1.png", body["photoURL"])

	claims, ok := body["customClaims"].(map[string]any)
	require.True(t, ok, "customClaims must be an object")
	assert.Equal(t, []any{"user", "bndy_artist"}, claims["roles"])
}

func TestSessionCheckUnverifiedEmailIsExplicit(t *testing.T) {
	provider, err := mockidp.NewProvider(mockidp.Config{
		Users: []mockidp.SeedUser{{UID: "uid-2", Email: "new@bndy.test"}},
	})
	require.NoError(t, err)
	sessions := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
	router := NewRouter(RouterServices{Sessions: sessions, CookieDomain: testCookieDomain})

	idToken, err := provider.MintIDToken("uid-2")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginRequest(idToken))
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := findSessionCookie(t, resp)

	req := httptest.NewRequest(http.MethodGet, "/api/sessionCheck", nil)
	req.AddCookie(cookie)
	checkResp, body := doJSON(t, router, req)
	assert.Equal(t, http.StatusOK, checkResp.StatusCode)
	v, ok := body["emailVerified"]
	require.True(t, ok, "emailVerified must be present even when false")
	assert.Equal(t, false, v)
}

func TestSessionEndpointsMaintainProfile(t *testing.T) {
	provider, err := mockidp.NewProvider(mockidp.Config{
		Users: []mockidp.SeedUser{
			{
				UID:           "uid-1",
				Email:         "artist@bndy.test",
				EmailVerified: true,
				DisplayName:   "The Artist",
			},
		},
	})
	require.NoError(t, err)
	sessions := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
	store := mockauth.NewMemoryProfileStore()
	profiles := service.NewProfileService(service.ProfileServiceOptions{
		Profiles: store,
		Marker:   mockauth.NewMemoryLoginMarker(),
		Logger:   slog.New(slog.DiscardHandler),
	})
	router := NewRouter(RouterServices{
		Sessions:     sessions,
		Profiles:     profiles,
		SourceApp:    domainauth.SourceCentrestage,
		CookieDomain: testCookieDomain,
	})

	// Login creates the profile and records the login.
	idToken, err := provider.MintIDToken("uid-1")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginRequest(idToken))
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	profile, err := store.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "artist@bndy.test", profile.Email)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, domainauth.SourceCentrestage, profile.SourceApp)
	assert.Equal(t, domainauth.SourceCentrestage.DefaultRoles(), profile.Roles)
	require.NotNil(t, profile.LastLoginAt)
	firstLogin := *profile.LastLoginAt

	// A session check on the established cookie keeps the profile, it does
	// not recreate it or rewrite the timestamp within the marker window.
	cookie := findSessionCookie(t, resp)
	req := httptest.NewRequest(http.MethodGet, "/api/sessionCheck", nil)
	req.AddCookie(cookie)
	checkResp, body := doJSON(t, router, req)
	assert.Equal(t, http.StatusOK, checkResp.StatusCode)
	assert.Equal(t, true, body["authenticated"])

	profile, err = store.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	require.NotNil(t, profile.LastLoginAt)
	assert.Equal(t, firstLogin, *profile.LastLoginAt)
}

func TestSessionCheckInvalidCredential(t *testing.T) {
	fix := newSessionFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessionCheck", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-session"})
	resp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, "invalid_session", body["reason"])
}

func TestSessionCheckRevoked(t *testing.T) {
	fix := newSessionFixture(t)

	// Establish a session whose auth_time predates the revocation below.
	idToken, err := fix.provider.MintIDTokenAt("uid-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	fix.router.ServeHTTP(rec, loginRequest(idToken))
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := findSessionCookie(t, resp)

	require.NoError(t, fix.provider.RevokeRefreshTokens(context.Background(), "uid-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/sessionCheck", nil)
	req.AddCookie(cookie)
	checkResp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusOK, checkResp.StatusCode)
	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, "session_revoked", body["reason"])
}

func TestSessionCheckServerError(t *testing.T) {
	router := newRouterWithProvider(&mockauth.StubIdentityProvider{
		VerifySessionCredentialFunc: func(context.Context, string, bool) (domainauth.DecodedClaims, error) {
			return domainauth.DecodedClaims{}, errors.New("jwks unreachable")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sessionCheck", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "c"})
	resp, body := doJSON(t, router, req)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, "server_error", body["reason"])
}

func TestSessionLogoutClearsCookie(t *testing.T) {
	fix := newSessionFixture(t)
	cookie := loginAndGetCookie(t, fix)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/sessionLogout", nil)
			req.AddCookie(cookie)
			resp, body := doJSON(t, fix.router, req)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, true, body["success"])

			cleared := findSessionCookie(t, resp)
			assert.Empty(t, cleared.Value)
			assert.Less(t, cleared.MaxAge, 0, "clear must serialize Max-Age=0")
			assert.Equal(t, "/", cleared.Path)
			assert.True(t, cleared.HttpOnly)
			assert.True(t, cleared.Secure)
			assert.Equal(t, http.SameSiteNoneMode, cleared.SameSite)
		})
	}
}

func TestSessionLogoutWithoutCookieIsIdempotent(t *testing.T) {
	fix := newSessionFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessionLogout", nil)
	resp, body := doJSON(t, fix.router, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestSessionLogoutRevokesWhenConfigured(t *testing.T) {
	provider, err := mockidp.NewProvider(mockidp.Config{
		Users: []mockidp.SeedUser{{UID: "uid-1", Email: "a@bndy.test"}},
	})
	require.NoError(t, err)
	sessions := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
	router := NewRouter(RouterServices{
		Sessions:       sessions,
		CookieDomain:   testCookieDomain,
		RevokeOnLogout: true,
	})

	idToken, err := provider.MintIDTokenAt("uid-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	credential, _, err := sessions.Issue(context.Background(), idToken)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/sessionLogout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: credential})
	resp, body := doJSON(t, router, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// The old session's auth_time now predates ValidSince.
	_, err = provider.VerifySessionCredential(context.Background(), credential, true)
	assert.ErrorIs(t, err, ports.ErrCredentialRevoked)
}
