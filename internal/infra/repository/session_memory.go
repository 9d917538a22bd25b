package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// SessionMemoryRepository keeps sessions in process memory.
// Sessions are stored encoded so callers never share a *Session between requests.
type SessionMemoryRepository struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

var _ repo.SessionRepository = (*SessionMemoryRepository)(nil)

func NewSessionMemoryRepository(ttl time.Duration) *SessionMemoryRepository {
	return &SessionMemoryRepository{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *SessionMemoryRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	e, ok := r.items[id]
	if ok && !r.now().Before(e.expiresAt) {
		delete(r.items, id)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, repo.ErrNotFound
	}

	var s model.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// 保存のたびに期限を延長
func (r *SessionMemoryRepository) Save(ctx context.Context, s *model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = memoryEntry{data: data, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *SessionMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}
