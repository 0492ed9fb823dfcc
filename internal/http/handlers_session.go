package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/ports"
	"github.com/bndy/centrestage/internal/service"
)

// SessionHandlers provides the session bridge endpoints: login exchanges a
// short-lived ID token for the long-lived session cookie, check answers
// "who am I" for any app on the shared cookie domain, logout clears the
// cookie.
type SessionHandlers struct {
	Sessions     *service.SessionService
	CookieDomain string
	// Profiles, when set, keeps the platform profile in step with
	// authentication events: created on first login, last-login and
	// email-verified refreshed after. Bookkeeping failures never gate auth.
	Profiles  *service.ProfileService
	SourceApp domainauth.SourceApp
	// RevokeOnLogout also invalidates the account's refresh tokens when the
	// user logs out, killing sessions on every device.
	RevokeOnLogout bool
	Logger         *slog.Logger
}

type sessionLoginRequest struct {
	IDToken string `json:"idToken"`
}

// Login handles POST /api/sessionLogin.
func (h *SessionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req sessionLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_token",
			Message: "ID token is required",
		})
		return
	}

	credential, claims, err := h.Sessions.Issue(r.Context(), req.IDToken)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	h.noteAuthenticated(r.Context(), claims, nil)

	SetSessionCookie(w, h.CookieDomain, credential, h.Sessions.SessionDuration())
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeLoginError maps Issue failures onto the login status contract. The
// human-readable messages are part of the wire contract with the frontend
// SDKs; unexpected failures get the generic 500 body with the detail logged.
func (h *SessionHandlers) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrReauthRequired):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "reauth_required",
			Message: "Recent sign-in required. Please sign in again.",
		})
	case errors.Is(err, ports.ErrCredentialExpired):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "token_expired",
			Message: "ID token has expired. Please sign in again.",
		})
	case errors.Is(err, ports.ErrCredentialRevoked):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "token_revoked",
			Message: "Your session has been revoked. Please sign in again.",
		})
	case errors.Is(err, ports.ErrCredentialInvalid):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "token_invalid",
			Message: "Invalid authentication. Please sign in again.",
		})
	case errors.Is(err, ports.ErrUserNotFound):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "auth_error",
			Message: "Authentication failed. Please try again.",
		})
	default:
		h.logger().ErrorContext(r.Context(), "session login failed", "err", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "server_error", Err: err})
	}
}

// LoginStatus handles GET /api/sessionLogin, a development convenience that
// reports whether the caller already holds a valid session.
func (h *SessionHandlers) LoginStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.Sessions.Check(r.Context(), SessionCredentialFromRequest(r))
	if err != nil || !result.Authenticated {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"uid":           result.Claims.UID,
		"email":         result.Claims.Email,
	})
}

// sessionCheckResponse mirrors the account fields SSO clients consume. Field
// names are part of the wire contract with the frontend SDKs.
type sessionCheckResponse struct {
	Authenticated bool                `json:"authenticated"`
	Reason        service.CheckReason `json:"reason,omitempty"`
	UID           string              `json:"uid,omitempty"`
	Email         string              `json:"email,omitempty"`
	EmailVerified bool                `json:"emailVerified"`
	DisplayName   string              `json:"displayName,omitempty"`
	PhotoURL      string              `json:"photoURL,omitempty"`
	CustomClaims  map[string]any      `json:"customClaims,omitempty"`
	Providers     []string            `json:"providers,omitempty"`
	CreationTime  *time.Time          `json:"creationTime,omitempty"`
	LastSignIn    *time.Time          `json:"lastSignInTime,omitempty"`
}

// Check handles GET /api/sessionCheck. Expected failure modes answer 200 with
// authenticated=false and a reason so polling clients never treat a signed-out
// state as an error.
func (h *SessionHandlers) Check(w http.ResponseWriter, r *http.Request) {
	result, err := h.Sessions.Check(r.Context(), SessionCredentialFromRequest(r))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "session check failed", "err", err)
		WriteJSON(w, http.StatusInternalServerError, sessionCheckResponse{
			Authenticated: false,
			Reason:        "server_error",
		})
		return
	}
	if !result.Authenticated {
		WriteJSON(w, http.StatusOK, sessionCheckResponse{Authenticated: false, Reason: result.Reason})
		return
	}

	h.noteAuthenticated(r.Context(), result.Claims, result.User)

	resp := sessionCheckResponse{
		Authenticated: true,
		UID:           result.Claims.UID,
		Email:         result.Claims.Email,
		EmailVerified: result.Claims.EmailVerified,
		CustomClaims:  result.Claims.Custom,
	}
	if user := result.User; user != nil {
		resp.DisplayName = user.DisplayName
		resp.PhotoURL = user.PhotoURL
		resp.Providers = user.Providers
		if !user.CreationTime.IsZero() {
			resp.CreationTime = &user.CreationTime
		}
		if !user.LastSignInTime.IsZero() {
			resp.LastSignIn = &user.LastSignInTime
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Logout handles POST|GET /api/sessionLogout. Always succeeds; logging out a
// logged-out user is not an error.
func (h *SessionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	credential := SessionCredentialFromRequest(r)
	if err := h.Sessions.Terminate(r.Context(), credential, h.RevokeOnLogout); err != nil {
		// The cookie still gets cleared; revocation failure only means other
		// devices keep their sessions.
		h.logger().ErrorContext(r.Context(), "logout revocation failed", "err", err)
	}
	ClearSessionCookie(w, h.CookieDomain)
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// noteAuthenticated runs the profile bookkeeping for a verified identity:
// ensure the profile exists, then refresh last-login and email-verified
// (throttled by the login marker). Failures are logged only.
func (h *SessionHandlers) noteAuthenticated(
	ctx context.Context,
	claims domainauth.DecodedClaims,
	user *domainauth.UserRecord,
) {
	if h.Profiles == nil {
		return
	}
	if _, err := h.Profiles.EnsureProfile(ctx, claims, user, h.SourceApp); err != nil {
		h.logger().ErrorContext(ctx, "ensure profile failed", "uid", claims.UID, "err", err)
	}
	if err := h.Profiles.RecordLogin(ctx, claims.UID, claims.EmailVerified); err != nil {
		h.logger().ErrorContext(ctx, "record login failed", "uid", claims.UID, "err", err)
	}
}

func (h *SessionHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
