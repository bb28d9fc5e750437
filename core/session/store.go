package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sarpras/alatclient/core/kvs"
	"github.com/sarpras/alatclient/core/logger"
	"github.com/sarpras/alatclient/pkg/token"
)

const (
	sessionKey    = "session"
	protectionKey = "refresh_protection"
)

// legacyKeys are state keys written by earlier client builds that kept
// token and profile under separate names. Clear removes them so a partial
// leftover can never be misread as half a session.
var legacyKeys = []string{"token", "user", "auth_token", "auth_user", "login_time"}

// Store is the sole authority over whether the client believes it is
// authenticated, and the sole reader/writer of persisted session state.
// All methods are safe for concurrent use.
type Store struct {
	backend kvs.Store
	cfg     *Config

	// mu serializes read-modify-write cycles against the backend so Load's
	// activity touch and ApplyRevalidation never interleave with Save/Clear.
	mu sync.Mutex

	// gen increments on Save and Clear. In-flight revalidations capture it
	// before their round trip; a mismatch on apply means the result belongs
	// to a session that no longer exists.
	gen atomic.Uint64
}

// New creates a session store over the given persistence backend.
func New(backend kvs.Store, opts ...Option) *Store {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Store{backend: backend, cfg: cfg}
}

// ResolveTTL determines the effective time-to-live for a freshly issued
// token. A positive server-provided ttlSeconds wins; otherwise the token's
// own expiry claim is used when present, and the configured default last.
func (s *Store) ResolveTTL(raw string, ttlSeconds int64) time.Duration {
	if ttlSeconds > 0 {
		return time.Duration(ttlSeconds) * time.Second
	}
	if exp, ok := token.ExpiresAt(raw); ok {
		if ttl := exp.Sub(s.cfg.now()); ttl > 0 {
			return ttl
		}
	}
	return s.cfg.DefaultTTL
}

// Save persists a new session, fully replacing any prior one. The record is
// written in a single backend operation, so a concurrent Load observes
// either the previous session or the new one, never a mix.
func (s *Store) Save(ctx context.Context, tok string, user User, ttl time.Duration) error {
	if tok == "" {
		return errors.Join(ErrInvalidArgument, ErrEmptyToken)
	}
	if ttl <= 0 {
		return errors.Join(ErrInvalidArgument, ErrInvalidTTL)
	}
	if !user.Complete() {
		return errors.Join(ErrInvalidArgument, ErrIncompleteUser)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.now()
	rec := newRecord(tok, user, now, now.Add(ttl))
	data, err := rec.encode()
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	if err := s.backend.Set(ctx, sessionKey, data, storageTTL(ttl)); err != nil {
		s.cfg.logger.ErrorContext(ctx, "failed to persist session", logger.Error(err))
		return errors.Join(ErrStorageUnavailable, err)
	}

	s.gen.Add(1)
	s.cfg.logger.DebugContext(ctx, "session saved",
		logger.ID("record_id", rec.ID),
		logger.UserID(user.ID),
		logger.ExpiresAt(time.UnixMilli(rec.ExpiresAt)),
	)
	return nil
}

// Load returns the current session. It fails closed: expired, corrupt, or
// unreadable state reads as absent (the returned error wraps ErrNoSession
// plus a cause sentinel), and expired or corrupt records are deleted on
// detection so they cannot recur. A successful read refreshes
// LastActivity, throttled by the configured touch interval.
func (s *Store) Load(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load is Load without the lock, for callers already holding mu.
func (s *Store) load(ctx context.Context) (Session, error) {
	data, err := s.backend.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kvs.ErrNotFound) {
			return Session{}, ErrNoSession
		}
		s.cfg.logger.ErrorContext(ctx, "session storage unreadable", logger.Error(err))
		return Session{}, errors.Join(ErrNoSession, ErrStorageUnavailable, err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		s.cfg.logger.WarnContext(ctx, "clearing corrupt session state", logger.Error(err))
		s.deleteQuietly(ctx, sessionKey)
		return Session{}, errors.Join(ErrNoSession, ErrCorruptState)
	}

	now := s.cfg.now()
	sess := rec.session()
	if sess.IsExpired(now) {
		s.deleteQuietly(ctx, sessionKey)
		return Session{}, errors.Join(ErrNoSession, ErrExpired)
	}

	if s.cfg.TouchInterval <= 0 || now.Sub(sess.LastActivity) >= s.cfg.TouchInterval {
		rec.LastActivity = now.UnixMilli()
		sess.LastActivity = now
		if data, err := rec.encode(); err == nil {
			// Best effort: a failed touch write must not fail the read.
			if err := s.backend.Set(ctx, sessionKey, data, storageTTL(sess.ExpiresAt.Sub(now))); err != nil {
				s.cfg.logger.DebugContext(ctx, "failed to record session activity", logger.Error(err))
			}
		}
	}

	return sess, nil
}

// IsValid reports whether a non-expired session exists. It shares Load's
// expiry check and side effects.
func (s *Store) IsValid(ctx context.Context) bool {
	_, err := s.Load(ctx)
	return err == nil
}

// Clear removes all persisted session state, including keys written by
// legacy client builds. Idempotent and safe to call with no session.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range append([]string{sessionKey}, legacyKeys...) {
		if err := s.backend.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	s.gen.Add(1)

	if len(errs) > 0 {
		err := errors.Join(append([]error{ErrStorageUnavailable}, errs...)...)
		s.cfg.logger.ErrorContext(ctx, "failed to clear session state", logger.Error(err))
		return err
	}
	s.cfg.logger.DebugContext(ctx, "session cleared")
	return nil
}

// SetRefreshProtection arms a protection window: until now+d, server auth
// rejections are treated as inconclusive and do not clear the session.
// Arming again replaces the previous deadline.
func (s *Store) SetRefreshProtection(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return errors.Join(ErrInvalidArgument, errors.New("session: protection duration must be positive"))
	}

	deadline := s.cfg.now().Add(d)
	value := []byte(strconv.FormatInt(deadline.UnixMilli(), 10))
	if err := s.backend.Set(ctx, protectionKey, value, storageTTL(d)); err != nil {
		s.cfg.logger.ErrorContext(ctx, "failed to arm refresh protection", logger.Error(err))
		return errors.Join(ErrStorageUnavailable, err)
	}
	s.cfg.logger.DebugContext(ctx, "refresh protection armed", logger.Deadline(deadline))
	return nil
}

// IsRefreshProtected reports whether the protection window is active. A
// deadline observed in the past is removed as a side effect, so protection
// self-expires rather than merely self-reporting.
func (s *Store) IsRefreshProtected(ctx context.Context) bool {
	data, err := s.backend.Get(ctx, protectionKey)
	if err != nil {
		// Absent or unreadable both mean unprotected; protection is
		// advisory and must never fail open into permanence.
		return false
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		s.deleteQuietly(ctx, protectionKey)
		return false
	}

	if s.cfg.now().Before(time.UnixMilli(ms)) {
		return true
	}
	s.deleteQuietly(ctx, protectionKey)
	return false
}

// ClearRefreshProtection disarms the protection window immediately.
func (s *Store) ClearRefreshProtection(ctx context.Context) error {
	if err := s.backend.Delete(ctx, protectionKey); err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

// HandleAuthRejected applies the logout policy for a server auth rejection:
// ignored while the protection window is active, otherwise the session is
// cleared. Returns true when the session was cleared.
func (s *Store) HandleAuthRejected(ctx context.Context) bool {
	if s.IsRefreshProtected(ctx) {
		s.cfg.logger.InfoContext(ctx, "auth rejection ignored inside refresh protection window")
		return false
	}
	if err := s.Clear(ctx); err != nil {
		s.cfg.logger.ErrorContext(ctx, "failed to clear session after auth rejection", logger.Error(err))
	}
	return true
}

// Generation returns the current session generation. Revalidation flows
// capture it before their round trip and pass it to ApplyRevalidation.
func (s *Store) Generation() uint64 {
	return s.gen.Load()
}

// ApplyRevalidation writes a revalidation result back into the store: the
// authoritative user profile, and a renewed expiry when the server reported
// a fresh TTL (ttl <= 0 leaves the expiry untouched). The result is
// discarded with ErrStaleRevalidation when the session generation has
// moved since gen was captured, so a slow response can never resurrect a
// replaced or cleared session.
func (s *Store) ApplyRevalidation(ctx context.Context, gen uint64, user User, ttl time.Duration) error {
	if !user.Complete() {
		return errors.Join(ErrInvalidArgument, ErrIncompleteUser)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen.Load() {
		return ErrStaleRevalidation
	}

	data, err := s.backend.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kvs.ErrNotFound) {
			return ErrNoSession
		}
		return errors.Join(ErrNoSession, ErrStorageUnavailable, err)
	}
	rec, err := decodeRecord(data)
	if err != nil {
		s.deleteQuietly(ctx, sessionKey)
		return errors.Join(ErrNoSession, ErrCorruptState)
	}

	now := s.cfg.now()
	if now.After(time.UnixMilli(rec.ExpiresAt)) {
		s.deleteQuietly(ctx, sessionKey)
		return errors.Join(ErrNoSession, ErrExpired)
	}

	rec.User = user
	if ttl > 0 {
		// A renewal is a re-issuance: both timestamps move so the
		// expiresAt = issuedAt + ttl relationship holds.
		rec.IssuedAt = now.UnixMilli()
		rec.ExpiresAt = now.Add(ttl).UnixMilli()
	}
	rec.LastActivity = now.UnixMilli()

	encoded, err := rec.encode()
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	remaining := time.UnixMilli(rec.ExpiresAt).Sub(now)
	if err := s.backend.Set(ctx, sessionKey, encoded, storageTTL(remaining)); err != nil {
		s.cfg.logger.ErrorContext(ctx, "failed to persist revalidated session", logger.Error(err))
		return errors.Join(ErrStorageUnavailable, err)
	}

	s.cfg.logger.DebugContext(ctx, "session revalidated", logger.UserID(user.ID))
	return nil
}

// storageTTL pads the backend-level expiry. The store's own timestamp
// check is the authority on expiry; the backend TTL only keeps abandoned
// records from lingering forever, so it must never fire first.
func storageTTL(d time.Duration) time.Duration {
	return d + time.Minute
}

func (s *Store) deleteQuietly(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.cfg.logger.DebugContext(ctx, "failed to delete state key",
			logger.Key("key", key), logger.Error(err))
	}
}
