package repository

import (
	"context"

	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"gorm.io/gorm"
)

// AuditLogFilter defines filters for listing audit entries.
type AuditLogFilter struct {
	Model  string
	Action string
	Page   int
	Limit  int
}

// AuditLogRepository is append-only: there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository { return &auditLogRepo{db: db} }

func (r *auditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if filter.Model != "" {
		q = q.Where("model = ?", filter.Model)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(filter.Page, filter.Limit, 100)
	var entries []model.AuditLog
	err := q.Preload("User").Order("timestamp DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}
