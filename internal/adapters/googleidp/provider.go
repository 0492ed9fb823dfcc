package googleidp

// Package googleidp binds the IdentityProvider port to Google Identity
// Platform: go-oidc verifiers for bearer and session credentials plus a
// REST admin client for session minting, account lookup, and claims writes.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/ports"
)

const (
	defaultIDTokenJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	defaultSessionJWKSURL = "https://www.googleapis.com/identitytoolkit/v3/relyingparty/publicKeys" //nolint:gosec // public key endpoint, not a credential
	defaultAdminBaseURL   = "https://identitytoolkit.googleapis.com"

	idTokenIssuerPrefix = "https://securetoken.google.com/"
	sessionIssuerPrefix = "https://session.firebase.google.com/"
)

// Provider implements ports.IdentityProvider against Google Identity Platform.
type Provider struct {
	projectID    string
	adminBaseURL string
	adminClient  *http.Client

	// Bearer ID tokens and session credentials are signed by different
	// issuers with different key sets, so each gets its own verifier.
	idTokenVerifier *gooidc.IDTokenVerifier
	sessionVerifier *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the Google identity provider.
type ProviderConfig struct {
	ProjectID      string
	IDTokenJWKSURL string // optional, defaults to the securetoken key endpoint
	SessionJWKSURL string // optional, defaults to the session-cookie key endpoint
	AdminBaseURL   string // optional, defaults to the identitytoolkit API
	TokenSource    oauth2.TokenSource
	HTTPClient     *http.Client // optional, used for JWKS fetches
}

// NewProvider creates a Google Identity Platform provider.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ProjectID == "" {
		return nil, errors.New("project ID is required")
	}
	if config.TokenSource == nil {
		return nil, errors.New("admin token source is required")
	}

	idTokenJWKS := config.IDTokenJWKSURL
	if idTokenJWKS == "" {
		idTokenJWKS = defaultIDTokenJWKSURL
	}
	sessionJWKS := config.SessionJWKSURL
	if sessionJWKS == "" {
		sessionJWKS = defaultSessionJWKSURL
	}
	adminBase := config.AdminBaseURL
	if adminBase == "" {
		adminBase = defaultAdminBaseURL
	}

	keyCtx := ctx
	if config.HTTPClient != nil {
		keyCtx = context.WithValue(ctx, oauth2.HTTPClient, config.HTTPClient)
	}

	verifierCfg := &gooidc.Config{ClientID: config.ProjectID}
	idKeys := gooidc.NewRemoteKeySet(keyCtx, idTokenJWKS)
	sessionKeys := gooidc.NewRemoteKeySet(keyCtx, sessionJWKS)

	return &Provider{
		projectID:       config.ProjectID,
		adminBaseURL:    adminBase,
		adminClient:     oauth2.NewClient(keyCtx, config.TokenSource),
		idTokenVerifier: gooidc.NewVerifier(idTokenIssuerPrefix+config.ProjectID, idKeys, verifierCfg),
		sessionVerifier: gooidc.NewVerifier(sessionIssuerPrefix+config.ProjectID, sessionKeys, verifierCfg),
	}, nil
}

func (p *Provider) VerifyIDToken(ctx context.Context, idToken string) (domainauth.DecodedClaims, error) {
	tok, err := p.idTokenVerifier.Verify(ctx, idToken)
	if err != nil {
		return domainauth.DecodedClaims{}, classifyVerifyError(err)
	}
	return decodeClaims(tok)
}

func (p *Provider) CreateSessionCredential(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	var resp struct {
		SessionCookie string `json:"sessionCookie"`
	}
	req := map[string]any{
		"idToken":       idToken,
		"validDuration": strconv.FormatInt(int64(ttl.Seconds()), 10) + "s",
	}
	path := fmt.Sprintf("/v1/projects/%s:createSessionCookie", p.projectID)
	if err := p.adminPost(ctx, path, req, &resp); err != nil {
		return "", fmt.Errorf("create session cookie: %w", err)
	}
	if resp.SessionCookie == "" {
		return "", errors.New("create session cookie: empty response")
	}
	return resp.SessionCookie, nil
}

func (p *Provider) VerifySessionCredential(
	ctx context.Context,
	credential string,
	checkRevoked bool,
) (domainauth.DecodedClaims, error) {
	tok, err := p.sessionVerifier.Verify(ctx, credential)
	if err != nil {
		return domainauth.DecodedClaims{}, classifyVerifyError(err)
	}
	claims, err := decodeClaims(tok)
	if err != nil {
		return domainauth.DecodedClaims{}, err
	}
	if checkRevoked {
		user, err := p.GetUser(ctx, claims.UID)
		if err != nil {
			return domainauth.DecodedClaims{}, fmt.Errorf("revocation check: %w", err)
		}
		// validSince is second-granular; a credential minted in the same
		// second as the revocation is treated as still valid.
		if !user.ValidSince.IsZero() && claims.AuthTime.Before(user.ValidSince) {
			return domainauth.DecodedClaims{}, ports.ErrCredentialRevoked
		}
	}
	return claims, nil
}

func (p *Provider) GetUser(ctx context.Context, uid string) (domainauth.UserRecord, error) {
	var resp struct {
		Users []accountInfo `json:"users"`
	}
	path := fmt.Sprintf("/v1/projects/%s/accounts:lookup", p.projectID)
	if err := p.adminPost(ctx, path, map[string]any{"localId": []string{uid}}, &resp); err != nil {
		return domainauth.UserRecord{}, fmt.Errorf("lookup account: %w", err)
	}
	if len(resp.Users) == 0 {
		return domainauth.UserRecord{}, ports.ErrUserNotFound
	}
	return resp.Users[0].toUserRecord(), nil
}

func (p *Provider) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	attrs, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("marshal custom claims: %w", err)
	}
	path := fmt.Sprintf("/v1/projects/%s/accounts:update", p.projectID)
	req := map[string]any{"localId": uid, "customAttributes": string(attrs)}
	if err := p.adminPost(ctx, path, req, nil); err != nil {
		return fmt.Errorf("set custom claims: %w", err)
	}
	return nil
}

func (p *Provider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	path := fmt.Sprintf("/v1/projects/%s/accounts:update", p.projectID)
	req := map[string]any{
		"localId":    uid,
		"validSince": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if err := p.adminPost(ctx, path, req, nil); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

// adminPost issues an authenticated JSON POST to the identitytoolkit API and
// decodes the response into out when non-nil.
func (p *Provider) adminPost(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.adminBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.adminClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return classifyAdminError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// tokenClaims is the Google-shaped payload of both ID tokens and session cookies.
type tokenClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	AuthTime      int64  `json:"auth_time"`
	Firebase      struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
}

// standardClaimKeys are stripped before exposing the remainder as custom claims.
var standardClaimKeys = map[string]struct{}{
	"iss": {}, "aud": {}, "sub": {}, "iat": {}, "exp": {}, "auth_time": {},
	"email": {}, "email_verified": {}, "firebase": {}, "user_id": {},
	"name": {}, "picture": {}, "phone_number": {},
}

func decodeClaims(tok *gooidc.IDToken) (domainauth.DecodedClaims, error) {
	var c tokenClaims
	if err := tok.Claims(&c); err != nil {
		return domainauth.DecodedClaims{}, fmt.Errorf("%w: decode claims: %w", ports.ErrCredentialInvalid, err)
	}
	var all map[string]any
	if err := tok.Claims(&all); err != nil {
		return domainauth.DecodedClaims{}, fmt.Errorf("%w: decode claims: %w", ports.ErrCredentialInvalid, err)
	}
	custom := make(map[string]any)
	for k, v := range all {
		if _, std := standardClaimKeys[k]; !std {
			custom[k] = v
		}
	}
	return domainauth.DecodedClaims{
		UID:            tok.Subject,
		Email:          c.Email,
		EmailVerified:  c.EmailVerified,
		AuthTime:       time.Unix(c.AuthTime, 0),
		IssuedAt:       tok.IssuedAt,
		ExpiresAt:      tok.Expiry,
		SignInProvider: c.Firebase.SignInProvider,
		Custom:         custom,
	}, nil
}

// accountInfo is the identitytoolkit accounts:lookup user shape.
type accountInfo struct {
	LocalID          string `json:"localId"`
	Email            string `json:"email"`
	EmailVerified    bool   `json:"emailVerified"`
	DisplayName      string `json:"displayName"`
	PhotoURL         string `json:"photoUrl"`
	Disabled         bool   `json:"disabled"`
	CustomAttributes string `json:"customAttributes"`
	ProviderUserInfo []struct {
		ProviderID string `json:"providerId"`
	} `json:"providerUserInfo"`
	CreatedAt   string `json:"createdAt"`   // epoch millis
	LastLoginAt string `json:"lastLoginAt"` // epoch millis
	ValidSince  string `json:"validSince"`  // epoch seconds
}

func (a accountInfo) toUserRecord() domainauth.UserRecord {
	rec := domainauth.UserRecord{
		UID:            a.LocalID,
		Email:          a.Email,
		EmailVerified:  a.EmailVerified,
		DisplayName:    a.DisplayName,
		PhotoURL:       a.PhotoURL,
		Disabled:       a.Disabled,
		CreationTime:   parseEpochMillis(a.CreatedAt),
		LastSignInTime: parseEpochMillis(a.LastLoginAt),
		ValidSince:     parseEpochSeconds(a.ValidSince),
	}
	if a.CustomAttributes != "" {
		// Best effort: malformed stored attributes yield nil claims rather
		// than failing the whole lookup.
		_ = json.Unmarshal([]byte(a.CustomAttributes), &rec.CustomClaims)
	}
	for _, pi := range a.ProviderUserInfo {
		if pi.ProviderID != "" {
			rec.Providers = append(rec.Providers, pi.ProviderID)
		}
	}
	return rec
}

func parseEpochMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func parseEpochSeconds(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil || sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
