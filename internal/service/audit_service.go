package service

import (
	"context"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"

	"github.com/rs/zerolog/log"
)

// AuditService writes and reads the append-only audit trail.
type AuditService interface {
	// Record appends one entry. It never fails the caller: a write error is
	// logged and dropped.
	Record(ctx context.Context, actor Actor, action, entity, objectID, details string)
	List(ctx context.Context, filter dto.AuditLogFilter) (*dto.AuditLogListResponse, error)
}

type auditService struct {
	repo repository.AuditLogRepository
}

func NewAuditService(repo repository.AuditLogRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, actor Actor, action, entity, objectID, details string) {
	entry := &model.AuditLog{
		UserID:   actor.UserID,
		Action:   action,
		Model:    entity,
		ObjectID: objectID,
		Details:  details,
	}
	// The mutation has already committed; a cancelled request must not drop
	// its audit entry.
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("model", entity).
			Str("object_id", objectID).
			Msg("audit: failed to write entry")
	}
}

func (s *auditService) List(ctx context.Context, filter dto.AuditLogFilter) (*dto.AuditLogListResponse, error) {
	entries, total, err := s.repo.List(ctx, repository.AuditLogFilter{
		Model:  filter.Model,
		Action: filter.Action,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.AuditLogResponse, len(entries))
	for i, e := range entries {
		r := dto.AuditLogResponse{
			ID:        e.ID.String(),
			Action:    e.Action,
			Model:     e.Model,
			ObjectID:  e.ObjectID,
			Details:   e.Details,
			Timestamp: e.Timestamp.Format(time.RFC3339),
		}
		if e.UserID != nil {
			uid := e.UserID.String()
			r.UserID = &uid
		}
		if e.User != nil {
			name := e.User.Username
			r.Username = &name
		}
		data[i] = r
	}
	return &dto.AuditLogListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
