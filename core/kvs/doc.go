// Package kvs provides a minimal key-value persistence abstraction with
// optional per-key TTL, used as the storage backend for session state.
//
// Four implementations are provided:
//
//   - Memory: volatile map-based store for tests and short-lived processes
//   - File: a single JSON file on disk, the default for CLI usage
//   - LevelDB: embedded on-disk store for long-lived local deployments
//   - Redis: shared store for kiosk or multi-process deployments
//
// All implementations are safe for concurrent use. Expired keys read as
// absent and are removed lazily on access.
//
// Usage:
//
//	store, err := kvs.NewFile(filepath.Join(cfgDir, "state.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.Set(ctx, "session", payload, 24*time.Hour)
//	data, err := store.Get(ctx, "session")
//	err = store.Delete(ctx, "session")
package kvs
