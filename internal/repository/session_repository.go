package repository

import (
	"bodega/internal/domain/model"
	"context"
)

// セッションの保存・取得を約束（期限切れはErrNotFound）
type SessionRepository interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id string) error
}
