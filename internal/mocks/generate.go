// Package mocks provides mock implementations for testing the centrestage auth system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockProvider := mocks.NewMockIdentityProvider(ctrl)
//	mockProvider.EXPECT().GetUser(gomock.Any(), "uid-1").Return(user, nil)
package mocks

// Generate mock for IdentityProvider interface from internal/ports.
// This creates MockIdentityProvider with methods for all IdentityProvider interface methods:
// VerifyIDToken, CreateSessionCredential, VerifySessionCredential, GetUser, SetCustomClaims, RevokeRefreshTokens
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_provider_mock.go github.com/bndy/centrestage/internal/ports IdentityProvider
