package alatapi

import "errors"

var (
	// ErrInvalidConfig is returned when required client configuration is missing.
	ErrInvalidConfig = errors.New("alatapi: invalid config")
	// ErrUnavailable is returned for transport-level failures where no HTTP
	// response was received. Inconclusive for session validity.
	ErrUnavailable = errors.New("alatapi: backend unavailable")
	// ErrNoCredentials is returned when an authenticated call finds no
	// usable local session. No request is sent and nothing was rejected
	// server-side; the caller should prompt for login.
	ErrNoCredentials = errors.New("alatapi: no stored credentials")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("alatapi: not found")
	// ErrServer is returned for unexpected responses from the backend.
	ErrServer = errors.New("alatapi: server error")
)
