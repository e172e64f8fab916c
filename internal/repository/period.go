package repository

import (
	"time"

	"gorm.io/gorm"
)

// Period is a reporting window. From is inclusive, Until is exclusive; either
// bound may be nil for an open end.
type Period struct {
	From  *time.Time
	Until *time.Time
}

func (p Period) apply(q *gorm.DB, column string) *gorm.DB {
	if p.From != nil {
		q = q.Where(column+" >= ?", *p.From)
	}
	if p.Until != nil {
		q = q.Where(column+" < ?", *p.Until)
	}
	return q
}

func paginate(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = defaultLimit
	}
	return limit, (page - 1) * limit
}
