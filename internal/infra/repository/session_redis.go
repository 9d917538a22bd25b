package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"

	"github.com/redis/go-redis/v9"
)

type SessionRedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repo.SessionRepository = (*SessionRedisRepository)(nil)

func NewSessionRedisRepository(client *redis.Client, ttl time.Duration) *SessionRedisRepository {
	return &SessionRedisRepository{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *SessionRedisRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid session %s: %w", id, err)
	}
	return &s, nil
}

func (r *SessionRedisRepository) Save(ctx context.Context, s *model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRedisRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}
