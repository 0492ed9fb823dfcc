package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/mocks"
	mockauth "github.com/bndy/centrestage/internal/mocks/auth"
	"github.com/bndy/centrestage/internal/ports"
	"github.com/bndy/centrestage/internal/service"
)

func TestSessionServiceIssue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		authTime   time.Time
		verifyErr  error
		createErr  error
		wantErr    error
		wantIssued bool
	}{
		{
			name:       "fresh token issues credential",
			authTime:   now.Add(-5 * time.Minute),
			wantIssued: true,
		},
		{
			name:       "token exactly at age bound still accepted",
			authTime:   now.Add(-time.Hour),
			wantIssued: true,
		},
		{
			name:     "token past age bound requires reauth",
			authTime: now.Add(-time.Hour - time.Second),
			wantErr:  service.ErrReauthRequired,
		},
		{
			name:      "expired id token",
			verifyErr: ports.ErrCredentialExpired,
			wantErr:   ports.ErrCredentialExpired,
		},
		{
			name:      "invalid id token",
			verifyErr: ports.ErrCredentialInvalid,
			wantErr:   ports.ErrCredentialInvalid,
		},
		{
			name:      "credential mint failure surfaces",
			authTime:  now.Add(-5 * time.Minute),
			createErr: errors.New("admin api unavailable"),
			wantErr:   nil, // checked by message below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockauth.StubIdentityProvider{
				VerifyIDTokenFunc: func(_ context.Context, idToken string) (domainauth.DecodedClaims, error) {
					assert.Equal(t, "id-token-1", idToken)
					if tt.verifyErr != nil {
						return domainauth.DecodedClaims{}, tt.verifyErr
					}
					return domainauth.DecodedClaims{UID: "uid-1", AuthTime: tt.authTime}, nil
				},
				CreateSessionCredentialFunc: func(_ context.Context, idToken string, ttl time.Duration) (string, error) {
					assert.Equal(t, "id-token-1", idToken)
					assert.Equal(t, service.DefaultSessionDuration, ttl)
					if tt.createErr != nil {
						return "", tt.createErr
					}
					return "session-credential-1", nil
				},
			}

			svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
			service.SetSessionClock(svc, func() time.Time { return now })

			credential, claims, err := svc.Issue(context.Background(), "id-token-1")
			if tt.wantIssued {
				require.NoError(t, err)
				assert.Equal(t, "session-credential-1", credential)
				assert.Equal(t, "uid-1", claims.UID)
				return
			}
			require.Error(t, err)
			assert.Empty(t, credential)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.createErr != nil {
				assert.ErrorIs(t, err, tt.createErr)
				assert.Contains(t, err.Error(), "create session credential")
			}
		})
	}
}

func TestSessionServiceCheckReasons(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		verifyErr  error
		wantReason service.CheckReason
	}{
		{name: "empty credential", credential: "", wantReason: service.ReasonNoCookie},
		{name: "expired", credential: "c", verifyErr: ports.ErrCredentialExpired, wantReason: service.ReasonSessionExpired},
		{name: "revoked", credential: "c", verifyErr: ports.ErrCredentialRevoked, wantReason: service.ReasonSessionRevoked},
		{name: "malformed", credential: "c", verifyErr: ports.ErrCredentialInvalid, wantReason: service.ReasonInvalidSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockauth.StubIdentityProvider{
				VerifySessionCredentialFunc: func(_ context.Context, _ string, checkRevoked bool) (domainauth.DecodedClaims, error) {
					assert.True(t, checkRevoked, "session checks must verify revocation")
					return domainauth.DecodedClaims{}, tt.verifyErr
				},
			}
			svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})

			result, err := svc.Check(context.Background(), tt.credential)
			require.NoError(t, err)
			assert.False(t, result.Authenticated)
			assert.Equal(t, tt.wantReason, result.Reason)
			assert.Nil(t, result.User)
		})
	}
}

func TestSessionServiceCheckAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	claims := domainauth.DecodedClaims{
		UID:   "uid-1",
		Email: "artist@bndy.test",
		Custom: map[string]any{
			"roles": []any{"user", "bndy_artist"},
		},
	}
	user := domainauth.UserRecord{UID: "uid-1", Email: "artist@bndy.test", DisplayName: "The Artist"}

	provider := mocks.NewMockIdentityProvider(ctrl)
	provider.EXPECT().VerifySessionCredential(gomock.Any(), "session-credential-1", true).Return(claims, nil)
	provider.EXPECT().GetUser(gomock.Any(), "uid-1").Return(user, nil)

	svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})

	result, err := svc.Check(context.Background(), "session-credential-1")
	require.NoError(t, err)
	assert.True(t, result.Authenticated)
	assert.Empty(t, result.Reason)
	assert.Equal(t, "uid-1", result.Claims.UID)
	require.NotNil(t, result.User)
	assert.Equal(t, "The Artist", result.User.DisplayName)
}

func TestSessionServiceCheckAccountDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mocks.NewMockIdentityProvider(ctrl)
	provider.EXPECT().
		VerifySessionCredential(gomock.Any(), "orphan", true).
		Return(domainauth.DecodedClaims{UID: "gone"}, nil)
	provider.EXPECT().GetUser(gomock.Any(), "gone").Return(domainauth.UserRecord{}, ports.ErrUserNotFound)

	svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})

	result, err := svc.Check(context.Background(), "orphan")
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
	assert.Equal(t, service.ReasonInvalidSession, result.Reason)
}

func TestSessionServiceCheckUnexpectedError(t *testing.T) {
	provider := &mockauth.StubIdentityProvider{
		VerifySessionCredentialFunc: func(_ context.Context, _ string, _ bool) (domainauth.DecodedClaims, error) {
			return domainauth.DecodedClaims{}, errors.New("jwks fetch timeout")
		},
	}
	svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})

	_, err := svc.Check(context.Background(), "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwks fetch timeout")
}

func TestSessionServiceTerminate(t *testing.T) {
	t.Run("no revoke is a no-op", func(t *testing.T) {
		called := false
		provider := &mockauth.StubIdentityProvider{
			RevokeRefreshTokensFunc: func(context.Context, string) error {
				called = true
				return nil
			},
		}
		svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
		require.NoError(t, svc.Terminate(context.Background(), "c", false))
		assert.False(t, called)
	})

	t.Run("revoke with valid credential", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		provider := mocks.NewMockIdentityProvider(ctrl)
		provider.EXPECT().
			VerifySessionCredential(gomock.Any(), "c", false).
			Return(domainauth.DecodedClaims{UID: "uid-1"}, nil)
		provider.EXPECT().RevokeRefreshTokens(gomock.Any(), "uid-1").Return(nil)

		svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
		require.NoError(t, svc.Terminate(context.Background(), "c", true))
	})

	t.Run("dead credential is already logged out", func(t *testing.T) {
		provider := &mockauth.StubIdentityProvider{
			VerifySessionCredentialFunc: func(context.Context, string, bool) (domainauth.DecodedClaims, error) {
				return domainauth.DecodedClaims{}, ports.ErrCredentialExpired
			},
			RevokeRefreshTokensFunc: func(context.Context, string) error {
				t.Fatal("must not revoke for an unverifiable credential")
				return nil
			},
		}
		svc := service.NewSessionService(service.SessionServiceOptions{Provider: provider})
		require.NoError(t, svc.Terminate(context.Background(), "c", true))
	})

	t.Run("empty credential is a no-op", func(t *testing.T) {
		svc := service.NewSessionService(service.SessionServiceOptions{Provider: &mockauth.StubIdentityProvider{}})
		require.NoError(t, svc.Terminate(context.Background(), "", true))
	})
}

func TestSessionServiceDefaults(t *testing.T) {
	svc := service.NewSessionService(service.SessionServiceOptions{Provider: &mockauth.StubIdentityProvider{}})
	assert.Equal(t, service.DefaultSessionDuration, svc.SessionDuration())

	svc = service.NewSessionService(service.SessionServiceOptions{
		Provider:        &mockauth.StubIdentityProvider{},
		SessionDuration: 2 * time.Hour,
	})
	assert.Equal(t, 2*time.Hour, svc.SessionDuration())
}
