package repository

import (
	"context"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"

	"github.com/rs/zerolog"
)

// auditLogZerologRepository is used with the flat-file backend: entries go to the log
// stream only, so List has nothing to return.
type auditLogZerologRepository struct {
	log zerolog.Logger
}

func NewAuditLogZerologRepository(log zerolog.Logger) repo.AuditLogRepository {
	return &auditLogZerologRepository{log: log.With().Str("component", "audit").Logger()}
}

func (r *auditLogZerologRepository) Create(ctx context.Context, l model.AuditLog) error {
	r.log.Info().
		Str("session_id", l.SessionID).
		Str("action", string(l.Action)).
		Str("code", l.ResourceCode).
		RawJSON("before", jsonOrNull(l.BeforeJSON)).
		RawJSON("after", jsonOrNull(l.AfterJSON)).
		Time("at", l.CreatedAt).
		Msg("audit")
	return nil
}

func (r *auditLogZerologRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	return []model.AuditLog{}, nil
}

func jsonOrNull(s string) []byte {
	if s == "" {
		return []byte("null")
	}
	return []byte(s)
}
