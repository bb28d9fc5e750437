package kvs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileRecord struct {
	Value     []byte `json:"value"`
	ExpiresAt int64  `json:"expires_at,omitempty"` // unix milliseconds, 0 means no expiration
}

// File persists records in a single JSON file. Every mutation rewrites the
// file through a temp-file rename, so a crash mid-write never leaves a
// partially written state behind.
type File struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// NewFile creates a file-backed store at path, creating parent directories
// as needed. A missing file is treated as an empty store; an unreadable one
// is an error so the caller can decide whether to start fresh.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("kvs: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("kvs: create state directory: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}

	records, err := f.read()
	if err != nil {
		return nil, err
	}

	rec, ok := records[key]
	if !ok {
		return nil, ErrNotFound
	}
	if rec.ExpiresAt > 0 && time.Now().UnixMilli() > rec.ExpiresAt {
		delete(records, key)
		// Best effort; the record already reads as absent either way.
		_ = f.write(records)
		return nil, ErrNotFound
	}
	return rec.Value, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	records, err := f.read()
	if err != nil {
		return err
	}

	rec := fileRecord{Value: append([]byte(nil), value...)}
	if ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl).UnixMilli()
	}
	records[key] = rec
	return f.write(records)
}

func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	records, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := records[key]; !ok {
		return nil
	}
	delete(records, key)
	return f.write(records)
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	f.closed = true
	return nil
}

func (f *File) read() (map[string]fileRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]fileRecord), nil
		}
		return nil, fmt.Errorf("kvs: read state file: %w", err)
	}

	records := make(map[string]fileRecord)
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("kvs: parse state file: %w", err)
	}
	return records, nil
}

func (f *File) write(records map[string]fileRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("kvs: encode state file: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("kvs: write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("kvs: replace state file: %w", err)
	}
	return nil
}
