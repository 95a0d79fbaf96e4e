package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/rag-client/internal/entity"
	"github.com/patrickmn/go-cache"
)

// SessionMemory keeps sessions in process memory and expires them after ttl of inactivity.
type SessionMemory struct {
	cache *cache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

func NewSessionMemory(ttl, cleanupInterval time.Duration) *SessionMemory {
	return &SessionMemory{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (r *SessionMemory) Create(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.cache.Add(session.ID, session.Clone(), r.ttl); err != nil {
		return fmt.Errorf("%w: %s", entity.ErrSessionExists, session.ID)
	}
	return nil
}

func (r *SessionMemory) Get(ctx context.Context, id string) (*entity.Session, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	return v.(*entity.Session).Clone(), nil
}

// Update applies fn to the stored session under the store lock and saves the result.
// The ttl restarts on every update.
func (r *SessionMemory) Update(ctx context.Context, id string, fn func(*entity.Session) error) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}

	session := v.(*entity.Session).Clone()
	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.Now()

	r.cache.Set(id, session, r.ttl)
	return session.Clone(), nil
}

func (r *SessionMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(id)
	return nil
}

func (r *SessionMemory) Close() {}
