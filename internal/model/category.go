package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a free-standing label list. Products do not reference it.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName pins the table name used by the SQL migrations.
func (Category) TableName() string { return "categories" }
