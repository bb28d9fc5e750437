package session

import "errors"

var (
	// ErrInvalidArgument is returned for caller contract violations on Save
	// and related mutators. Joined with a more specific sentinel below.
	ErrInvalidArgument = errors.New("session: invalid argument")
	// ErrEmptyToken is returned when Save is called without a token.
	ErrEmptyToken = errors.New("session: token is required")
	// ErrInvalidTTL is returned when Save is called with a non-positive TTL.
	ErrInvalidTTL = errors.New("session: ttl must be positive")
	// ErrIncompleteUser is returned when the user profile is missing required fields.
	ErrIncompleteUser = errors.New("session: incomplete user profile")

	// ErrNoSession is returned by Load when no valid session exists. Always
	// present in the returned error for any absent-equivalent condition.
	ErrNoSession = errors.New("session: no session")
	// ErrExpired marks an absence caused by the session passing its expiry.
	ErrExpired = errors.New("session: session has expired")
	// ErrCorruptState marks an absence caused by malformed persisted state.
	ErrCorruptState = errors.New("session: corrupt persisted state")
	// ErrStorageUnavailable marks a failure of the underlying persistence.
	ErrStorageUnavailable = errors.New("session: storage unavailable")

	// ErrAuthRejected signals the server refused the current credentials.
	ErrAuthRejected = errors.New("session: authentication rejected by server")
	// ErrStaleRevalidation is returned when a revalidation result arrives
	// after the session it belongs to was replaced or cleared.
	ErrStaleRevalidation = errors.New("session: stale revalidation result")
)
