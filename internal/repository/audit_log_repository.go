package repository

import (
	"context"
	"time"

	"bodega/internal/domain/model"
)

type AuditLogFilter struct {
	Action       *model.AuditAction
	ResourceCode *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
