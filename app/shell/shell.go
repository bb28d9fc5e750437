package shell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sarpras/alatclient/core/logger"
	"github.com/sarpras/alatclient/core/session"
	"github.com/sarpras/alatclient/integration/alatapi"
	"github.com/sarpras/alatclient/pkg/async"
)

// DefaultProtectionWindow bounds how long auth rejections are distrusted
// after a startup probe. Long enough to ride out a restart burst, short
// enough that a genuinely revoked token is still cleared promptly.
const DefaultProtectionWindow = 10 * time.Second

// Shell drives the session lifecycle at application edges.
type Shell struct {
	sessions         *session.Store
	api              *alatapi.Client
	log              *slog.Logger
	protectionWindow time.Duration
}

// Option configures the shell.
type Option func(*Shell)

// WithProtectionWindow overrides the refresh-protection duration armed by
// the startup probe.
func WithProtectionWindow(d time.Duration) Option {
	return func(s *Shell) {
		if d > 0 {
			s.protectionWindow = d
		}
	}
}

// WithLogger sets the shell's logger. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(s *Shell) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a shell over the session store and backend client.
func New(sessions *session.Store, api *alatapi.Client, opts ...Option) *Shell {
	s := &Shell{
		sessions:         sessions,
		api:              api,
		log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		protectionWindow: DefaultProtectionWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Startup probes authentication at application start. When a session
// exists it is returned immediately for rendering from the cached profile,
// the refresh-protection window is armed, and a background revalidation is
// fired. The returned future completes when revalidation settles; callers
// that only need the boolean answer may ignore it.
func (s *Shell) Startup(ctx context.Context) (session.Session, *async.Future, bool) {
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			s.log.WarnContext(ctx, "startup probe failed", logger.Error(err))
		}
		return session.Session{}, nil, false
	}

	if err := s.sessions.SetRefreshProtection(ctx, s.protectionWindow); err != nil {
		// Protection is advisory; a failed arm only widens the false-logout
		// window back to zero.
		s.log.WarnContext(ctx, "failed to arm refresh protection", logger.Error(err))
	}

	s.log.InfoContext(ctx, "startup probe found session",
		logger.UserID(sess.User.ID), logger.ExpiresAt(sess.ExpiresAt))
	return sess, s.revalidate(ctx), true
}

// OnVisible revalidates the session when the UI regains visibility.
// Returns nil when no session exists.
func (s *Shell) OnVisible(ctx context.Context) *async.Future {
	if _, err := s.sessions.Load(ctx); err != nil {
		return nil
	}
	return s.revalidate(ctx)
}

// Login authenticates against the backend and persists the resulting
// session, fully replacing any prior one.
func (s *Shell) Login(ctx context.Context, username, password string) (session.Session, error) {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, err
	}

	ttl := s.sessions.ResolveTTL(resp.Token, resp.TTLSeconds)
	if err := s.sessions.Save(ctx, resp.Token, resp.User, ttl); err != nil {
		return session.Session{}, err
	}

	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return session.Session{}, err
	}
	s.log.InfoContext(ctx, "login succeeded", logger.UserID(sess.User.ID))
	return sess, nil
}

// Logout invalidates the token server-side (best effort) and
// unconditionally clears local session state.
func (s *Shell) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		s.log.WarnContext(ctx, "server-side logout failed, clearing local state anyway",
			logger.Error(err))
	}
	return s.sessions.Clear(ctx)
}

// revalidate confirms the persisted token with the backend without
// blocking the caller. Outcomes:
//
//   - profile returned: applied via the generation check, refreshing the
//     cached user and, on renewal, the expiry
//   - explicit auth rejection: the store's protection-aware policy has
//     already run inside the API client
//   - anything else: inconclusive, the session is kept as is
func (s *Shell) revalidate(ctx context.Context) *async.Future {
	gen := s.sessions.Generation()

	return async.Exec(ctx, func(ctx context.Context) error {
		prof, err := s.api.Profile(ctx)
		switch {
		case errors.Is(err, session.ErrAuthRejected):
			s.log.InfoContext(ctx, "revalidation rejected by backend")
			return err
		case err != nil:
			s.log.InfoContext(ctx, "revalidation inconclusive, keeping session",
				logger.Error(err))
			return nil
		}

		var ttl time.Duration
		if prof.TTLSeconds > 0 {
			ttl = time.Duration(prof.TTLSeconds) * time.Second
		}

		err = s.sessions.ApplyRevalidation(ctx, gen, prof.User, ttl)
		switch {
		case errors.Is(err, session.ErrStaleRevalidation), errors.Is(err, session.ErrNoSession):
			s.log.DebugContext(ctx, "revalidation result discarded", logger.Error(err))
			return nil
		case err != nil:
			return err
		}
		return nil
	})
}
