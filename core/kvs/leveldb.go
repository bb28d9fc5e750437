package kvs

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// LevelDB is an embedded on-disk Store. Each value is prefixed with its
// expiration time so expiry survives process restarts.
type LevelDB struct {
	mu     sync.RWMutex
	db     *leveldb.DB
	closed bool
}

// NewLevelDB opens (or creates) a LevelDB database at path. A corrupted
// database is recovered in place before giving up.
func NewLevelDB(path string) (*LevelDB, error) {
	if path == "" {
		return nil, errors.New("kvs: leveldb path is required")
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		if _, corrupted := err.(*ldberrors.ErrCorrupted); corrupted {
			db, err = leveldb.RecoverFile(path, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("kvs: open leveldb at %s: %w", path, err)
		}
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(ctx context.Context, key string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, ErrClosed
	}

	raw, err := l.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kvs: leveldb get: %w", err)
	}

	value, expired, err := decodeExpiring(raw)
	if err != nil {
		return nil, err
	}
	if expired {
		if err := l.db.Delete([]byte(key), nil); err != nil && !errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("kvs: leveldb delete expired: %w", err)
		}
		return nil, ErrNotFound
	}
	return value, nil
}

func (l *LevelDB) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}
	if err := l.db.Put([]byte(key), encodeExpiring(value, ttl), nil); err != nil {
		return fmt.Errorf("kvs: leveldb set: %w", err)
	}
	return nil
}

func (l *LevelDB) Delete(ctx context.Context, key string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}
	if err := l.db.Delete([]byte(key), nil); err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("kvs: leveldb delete: %w", err)
	}
	return nil
}

func (l *LevelDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.closed = true
	return l.db.Close()
}

// encodeExpiring prepends the expiration time to the value.
// Layout: [8 bytes big-endian unix nanoseconds, 0 = no expiration][value].
func encodeExpiring(value []byte, ttl time.Duration) []byte {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	out := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(out[:8], uint64(expiresAt))
	copy(out[8:], value)
	return out
}

func decodeExpiring(raw []byte) (value []byte, expired bool, err error) {
	if len(raw) < 8 {
		return nil, false, errors.New("kvs: leveldb value too short")
	}
	expiresAt := int64(binary.BigEndian.Uint64(raw[:8]))
	if expiresAt > 0 && time.Now().UnixNano() > expiresAt {
		return nil, true, nil
	}
	return raw[8:], false, nil
}
