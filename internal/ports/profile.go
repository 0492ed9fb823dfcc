package ports

import (
	"context"
	"time"

	"github.com/bndy/centrestage/internal/domain/model"
)

// ProfileRepository persists platform-side user profiles.
// Implementations return data.ErrProfileNotFound-style sentinels via
// the data package; services match with errors.Is.
type ProfileRepository interface {
	GetByUID(ctx context.Context, uid string) (*model.UserProfile, error)
	Create(ctx context.Context, req model.CreateUserProfileRequest) (*model.UserProfile, error)
	Update(ctx context.Context, uid string, req model.UpdateUserProfileRequest) (*model.UserProfile, error)
	TouchLastLogin(ctx context.Context, uid string, at time.Time, emailVerified bool) error
}

// LoginMarker records that a last-login write already happened for the
// current logical session. FirstLogin returns true exactly once per uid
// within the ttl window; concurrent callers race safely (at most one wins).
type LoginMarker interface {
	FirstLogin(ctx context.Context, uid string, ttl time.Duration) (bool, error)
}
