// Package logger provides slog attribute helpers shared across the client.
//
// Helpers follow the empty-Attr pattern: nil or zero inputs produce an
// empty attribute that slog drops silently, so call sites never need nil
// checks:
//
//	log.Error("login failed",
//		logger.Error(err),
//		logger.StatusCode(resp.StatusCode),
//	)
package logger
