package gate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/google/uuid"
)

type (
	// SessionStore keeps the server side of issued sessions, keyed by
	// the opaque token handed to the client.
	SessionStore interface {
		Save(ctx context.Context, token string, session Session) error
		Lookup(ctx context.Context, token string) (Session, bool, error)
		Delete(ctx context.Context, token string) error
	}

	memStore struct {
		cache *bigcache.BigCache
	}
)

// DefaultLifetime bounds how long an issued session stays valid.
const DefaultLifetime = 8 * time.Hour

// NewToken mints an opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// InMemorySessionStore keeps sessions in process memory. A restart
// logs everyone out, which is how the old system behaved as well.
func InMemorySessionStore(lifetime time.Duration) SessionStore {
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(lifetime))
	return &memStore{
		cache: cache,
	}
}

func (m *memStore) Save(ctx context.Context, token string, session Session) error {
	buf, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return m.cache.Set(token, buf)
}

func (m *memStore) Lookup(ctx context.Context, token string) (Session, bool, error) {
	buf, err := m.cache.Get(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var session Session
	if err := json.Unmarshal(buf, &session); err != nil {
		return Session{}, false, err
	}
	return session, session.Authenticated(), nil
}

func (m *memStore) Delete(ctx context.Context, token string) error {
	err := m.cache.Delete(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		// destroying a session that never existed is a no-op
		return nil
	}
	return err
}
