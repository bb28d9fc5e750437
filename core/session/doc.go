// Package session owns the authenticated session's lifecycle for the
// maintenance-tracking client: persisting credentials, validating expiry,
// protecting against false logout around application restarts, and clearing
// state on explicit logout.
//
// # Model
//
// A session is either absent or complete. Token and user profile are
// persisted together in a single versioned record; a record past its
// expiry, or one that fails schema validation, reads as absent and is
// deleted on detection. At most one session exists at a time: Save fully
// replaces any prior session.
//
// # Basic Usage
//
//	backend, _ := kvs.NewFile(statePath)
//	store := session.New(backend)
//
//	// Login flow
//	ttl := store.ResolveTTL(resp.Token, resp.TTLSeconds)
//	if err := store.Save(ctx, resp.Token, resp.User, ttl); err != nil {
//		return err
//	}
//
//	// Startup probe
//	sess, err := store.Load(ctx)
//	if errors.Is(err, session.ErrNoSession) {
//		redirectToLogin()
//	}
//
//	// Logout
//	_ = store.Clear(ctx)
//
// # Refresh Protection
//
// An application restart re-checks authentication from scratch, and an
// in-flight revalidation can observe a 401 caused by a transient condition
// rather than a genuinely invalid token. A bounded protection window
// suppresses exactly that signal:
//
//	_ = store.SetRefreshProtection(ctx, 10*time.Second)
//	// ... on a 401 from the backend:
//	cleared := store.HandleAuthRejected(ctx) // false while protected
//
// The window is advisory and strictly time-bounded; once it elapses, the
// next auth rejection clears the session as usual.
//
// # Stale Revalidations
//
// Revalidation round trips are not cancelable. A result that arrives after
// the session was replaced or cleared must not be written back:
//
//	gen := store.Generation()
//	user, ttl, err := api.Profile(ctx)
//	if err == nil {
//		_ = store.ApplyRevalidation(ctx, gen, user, ttl)
//	}
//
// ApplyRevalidation rejects results whose generation no longer matches.
//
// # Error Handling
//
// Read paths fail closed: storage failures and corrupt state are absorbed
// into ErrNoSession (joined with a cause sentinel for diagnostics) and
// never surface a partial session. Save returns an error wrapping
// ErrInvalidArgument for caller contract violations only.
package session
