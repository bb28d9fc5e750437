package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// schemaVersion guards the persisted record layout. A version mismatch is
// treated as corrupt state so stale layouts from older client builds are
// cleared rather than misread.
const schemaVersion = 1

// record is the wire form of a persisted session. All timestamps are unix
// milliseconds.
type record struct {
	Version      int    `json:"v"`
	ID           string `json:"id"`
	Token        string `json:"token"`
	User         User   `json:"user"`
	IssuedAt     int64  `json:"issued_at"`
	ExpiresAt    int64  `json:"expires_at"`
	LastActivity int64  `json:"last_activity,omitempty"`
}

func newRecord(token string, user User, issuedAt, expiresAt time.Time) record {
	return record{
		Version:      schemaVersion,
		ID:           uuid.New().String(),
		Token:        token,
		User:         user,
		IssuedAt:     issuedAt.UnixMilli(),
		ExpiresAt:    expiresAt.UnixMilli(),
		LastActivity: issuedAt.UnixMilli(),
	}
}

func (r record) validate() error {
	switch {
	case r.Version != schemaVersion:
		return errors.New("unsupported record version")
	case r.Token == "":
		return errors.New("missing token")
	case !r.User.Complete():
		return errors.New("incomplete user profile")
	case r.IssuedAt <= 0 || r.ExpiresAt <= 0:
		return errors.New("missing timestamps")
	}
	return nil
}

func (r record) session() Session {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		// The record ID is diagnostics-only; a missing one is not worth
		// failing an otherwise valid session over.
		id = uuid.Nil
	}
	return Session{
		ID:           id,
		Token:        r.Token,
		User:         r.User,
		IssuedAt:     time.UnixMilli(r.IssuedAt),
		ExpiresAt:    time.UnixMilli(r.ExpiresAt),
		LastActivity: time.UnixMilli(r.LastActivity),
	}
}

func decodeRecord(data []byte) (record, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return record{}, err
	}
	if err := r.validate(); err != nil {
		return record{}, err
	}
	return r, nil
}

func (r record) encode() ([]byte, error) {
	return json.Marshal(r)
}
