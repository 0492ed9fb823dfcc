package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
	"github.com/bndy/centrestage/internal/domain/model"
	mockauth "github.com/bndy/centrestage/internal/mocks/auth"
	"github.com/bndy/centrestage/internal/service"
)

func newProfileService(store *mockauth.MemoryProfileStore, marker *mockauth.MemoryLoginMarker) *service.ProfileService {
	return service.NewProfileService(service.ProfileServiceOptions{
		Profiles: store,
		Marker:   marker,
		Logger:   slog.New(slog.DiscardHandler),
	})
}

func TestProfileServiceEnsureProfileCreatesWithDefaults(t *testing.T) {
	store := mockauth.NewMemoryProfileStore()
	svc := newProfileService(store, mockauth.NewMemoryLoginMarker())

	claims := domainauth.DecodedClaims{UID: "uid-1", Email: "new@bndy.test"}
	user := &domainauth.UserRecord{UID: "uid-1", DisplayName: "New User", PhotoURL: "https://img.bndy.test/u1.png"}

	profile, err := svc.EnsureProfile(context.Background(), claims, user, domainauth.SourceFrontstage)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", profile.UID)
	assert.Equal(t, "new@bndy.test", profile.Email)
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "New User", *profile.DisplayName)
	require.NotNil(t, profile.PhotoURL)
	assert.Equal(t, "https://img.bndy.test/u1.png", *profile.PhotoURL)
	assert.Equal(t, domainauth.SourceFrontstage.DefaultRoles(), profile.Roles)
}

func TestProfileServiceEnsureProfileReturnsExisting(t *testing.T) {
	store := mockauth.NewMemoryProfileStore()
	existing, err := store.Create(context.Background(), model.CreateUserProfileRequest{
		UID:       "uid-1",
		Email:     "old@bndy.test",
		SourceApp: domainauth.SourceBackstage,
		Roles:     []domainauth.Role{domainauth.RoleAdmin},
	})
	require.NoError(t, err)

	svc := newProfileService(store, mockauth.NewMemoryLoginMarker())

	// A later login from another app must not rewrite the profile.
	claims := domainauth.DecodedClaims{UID: "uid-1", Email: "changed@bndy.test"}
	profile, err := svc.EnsureProfile(context.Background(), claims, nil, domainauth.SourceFrontstage)
	require.NoError(t, err)
	assert.Equal(t, existing.Email, profile.Email)
	assert.Equal(t, existing.SourceApp, profile.SourceApp)
	assert.Equal(t, existing.Roles, profile.Roles)
}

func TestProfileServiceEnsureProfileNilUserRecord(t *testing.T) {
	store := mockauth.NewMemoryProfileStore()
	svc := newProfileService(store, mockauth.NewMemoryLoginMarker())

	profile, err := svc.EnsureProfile(
		context.Background(),
		domainauth.DecodedClaims{UID: "uid-2", Email: "bare@bndy.test"},
		nil,
		domainauth.SourceBackstage,
	)
	require.NoError(t, err)
	assert.Nil(t, profile.DisplayName)
	assert.Nil(t, profile.PhotoURL)
}

func TestProfileServiceRecordLoginOncePerWindow(t *testing.T) {
	store := mockauth.NewMemoryProfileStore()
	_, err := store.Create(context.Background(), model.CreateUserProfileRequest{
		UID:       "uid-1",
		Email:     "u@bndy.test",
		SourceApp: domainauth.SourceBackstage,
	})
	require.NoError(t, err)

	marker := mockauth.NewMemoryLoginMarker()
	svc := newProfileService(store, marker)

	loginAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.SetProfileClock(svc, func() time.Time { return loginAt })

	require.NoError(t, svc.RecordLogin(context.Background(), "uid-1", true))
	profile, err := store.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	require.NotNil(t, profile.LastLoginAt)
	assert.Equal(t, loginAt, *profile.LastLoginAt)
	assert.True(t, profile.EmailVerified)

	// Repeated checks inside the window leave the timestamp alone.
	service.SetProfileClock(svc, func() time.Time { return loginAt.Add(time.Hour) })
	require.NoError(t, svc.RecordLogin(context.Background(), "uid-1", true))
	profile, err = store.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, loginAt, *profile.LastLoginAt)
}

func TestProfileServiceRecordLoginNewWindow(t *testing.T) {
	store := mockauth.NewMemoryProfileStore()
	_, err := store.Create(context.Background(), model.CreateUserProfileRequest{
		UID:       "uid-1",
		Email:     "u@bndy.test",
		SourceApp: domainauth.SourceBackstage,
	})
	require.NoError(t, err)

	marker := mockauth.NewMemoryLoginMarker()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	marker.Now = func() time.Time { return base }

	svc := newProfileService(store, marker)
	service.SetProfileClock(svc, func() time.Time { return base })
	require.NoError(t, svc.RecordLogin(context.Background(), "uid-1", false))

	// After the marker window lapses, the next login touches the timestamp
	// again and picks up the now-verified email.
	later := base.Add(service.DefaultSessionDuration + time.Minute)
	marker.Now = func() time.Time { return later }
	service.SetProfileClock(svc, func() time.Time { return later })
	require.NoError(t, svc.RecordLogin(context.Background(), "uid-1", true))

	profile, err := store.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	require.NotNil(t, profile.LastLoginAt)
	assert.Equal(t, later, *profile.LastLoginAt)
	assert.True(t, profile.EmailVerified)
}
