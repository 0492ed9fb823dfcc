package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/bndy/centrestage/internal/domain/auth"
)

// AuthState is the client-integration state machine position.
type AuthState string

const (
	StateUninitialized   AuthState = "uninitialized"
	StateChecking        AuthState = "checking"
	StateAuthenticated   AuthState = "authenticated"
	StateUnauthenticated AuthState = "unauthenticated"
)

// AuthSnapshot is an immutable view of the watcher's state, safe to hand to
// subscribers.
type AuthSnapshot struct {
	State  AuthState
	Reason CheckReason // set when unauthenticated
	UID    string
	Email  string
	Roles  []domainauth.Role
}

// AuthWatcherOptions groups dependencies for AuthWatcher.
type AuthWatcherOptions struct {
	Sessions  *SessionService
	Profiles  *ProfileService
	SourceApp domainauth.SourceApp
	Logger    *slog.Logger
}

// AuthWatcher drives the embedding application's auth-integration lifecycle:
// it resolves a session credential into an auth state, ensures a profile
// exists on first authentication, and records the login once per session.
// Profile bookkeeping failures are logged and never gate authentication.
type AuthWatcher struct {
	sessions  *SessionService
	profiles  *ProfileService
	sourceApp domainauth.SourceApp
	logger    *slog.Logger

	mu          sync.Mutex
	snapshot    AuthSnapshot
	ensuredUIDs map[string]bool // ensure-profile ran for this uid in this process
	ensureGroup singleflight.Group
	subscribers []func(AuthSnapshot)
}

// NewAuthWatcher constructs a new AuthWatcher in the uninitialized state.
func NewAuthWatcher(opts AuthWatcherOptions) *AuthWatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthWatcher{
		sessions:    opts.Sessions,
		profiles:    opts.Profiles,
		sourceApp:   opts.SourceApp,
		logger:      logger,
		snapshot:    AuthSnapshot{State: StateUninitialized},
		ensuredUIDs: make(map[string]bool),
	}
}

// Snapshot returns the current state.
func (w *AuthWatcher) Snapshot() AuthSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot
}

// Subscribe registers a callback invoked on every state transition. The
// callback runs synchronously under the watcher's refresh, so it must not
// call back into the watcher.
func (w *AuthWatcher) Subscribe(fn func(AuthSnapshot)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Refresh re-evaluates the given session credential and advances the state
// machine. It returns the resulting snapshot.
func (w *AuthWatcher) Refresh(ctx context.Context, credential string) AuthSnapshot {
	w.transition(AuthSnapshot{State: StateChecking})

	result, err := w.sessions.Check(ctx, credential)
	if err != nil {
		w.logger.ErrorContext(ctx, "session check failed", "err", err)
		return w.transition(AuthSnapshot{State: StateUnauthenticated, Reason: ReasonInvalidSession})
	}
	if !result.Authenticated {
		return w.transition(AuthSnapshot{State: StateUnauthenticated, Reason: result.Reason})
	}

	w.ensureBookkeeping(ctx, result)

	return w.transition(AuthSnapshot{
		State: StateAuthenticated,
		UID:   result.Claims.UID,
		Email: result.Claims.Email,
		Roles: result.Claims.Roles(),
	})
}

// ensureBookkeeping creates the profile on first authentication in this
// process and records the login once per logical session. Failures here are
// logged only; the user is authenticated regardless.
func (w *AuthWatcher) ensureBookkeeping(ctx context.Context, result CheckResult) {
	uid := result.Claims.UID

	w.mu.Lock()
	ensured := w.ensuredUIDs[uid]
	w.mu.Unlock()

	if !ensured {
		// Concurrent refreshes for the same uid coalesce into one ensure call.
		if _, err, _ := w.ensureGroup.Do(uid, func() (any, error) {
			return w.profiles.EnsureProfile(ctx, result.Claims, result.User, w.sourceApp)
		}); err != nil {
			w.logger.ErrorContext(ctx, "ensure profile failed", "uid", uid, "err", err)
		} else {
			w.mu.Lock()
			w.ensuredUIDs[uid] = true
			w.mu.Unlock()
		}
	}

	if err := w.profiles.RecordLogin(ctx, uid, result.Claims.EmailVerified); err != nil {
		w.logger.ErrorContext(ctx, "record login failed", "uid", uid, "err", err)
	}
}

func (w *AuthWatcher) transition(next AuthSnapshot) AuthSnapshot {
	w.mu.Lock()
	w.snapshot = next
	subs := append([]func(AuthSnapshot){}, w.subscribers...)
	w.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}
