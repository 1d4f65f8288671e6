package repositories

import (
	"context"
	"sync"
	"time"

	"joingate/internal/models"
)

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[models.OwnerID]*models.Session
	version  int64
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory, for a single
// instance (STORE_BACKEND=memory) and tests. A nil now means time.Now.
func NewMemorySessionRepository(now func() time.Time) SessionRepository {
	if now == nil {
		now = time.Now
	}
	return &memorySessionRepository{
		sessions: make(map[models.OwnerID]*models.Session),
		now:      now,
	}
}

// live returns the stored session unless it has expired. Caller holds mu.
func (r *memorySessionRepository) live(owner models.OwnerID) *models.Session {
	s, ok := r.sessions[owner]
	if !ok {
		return nil
	}
	if s.Expired(r.now()) {
		delete(r.sessions, owner)
		return nil
	}
	return s
}

func (r *memorySessionRepository) Get(_ context.Context, owner models.OwnerID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live(owner).Clone(), nil
}

func (r *memorySessionRepository) CompareAndSwap(_ context.Context, owner models.OwnerID, expected int64, next *models.Session) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current int64
	if s := r.live(owner); s != nil {
		current = s.Version
	}
	if current != expected {
		return false, nil
	}
	if next == nil {
		delete(r.sessions, owner)
		return true, nil
	}

	// версии глобально монотонны, чтобы пересозданная сессия не совпала со старой
	r.version++
	next.Owner = owner
	next.Version = r.version
	r.sessions[owner] = next.Clone()
	return true, nil
}

func (r *memorySessionRepository) PurgeExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var n int64
	for owner, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, owner)
			n++
		}
	}
	return n, nil
}
