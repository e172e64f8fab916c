package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionOther  = "other"
)

// Audited model names.
const (
	EntityProduct  = "Product"
	EntitySale     = "Sale"
	EntityExpense  = "Expense"
	EntityCategory = "Category"
	EntityUser     = "User"
)

// AuditLog is an append-only record of who did what to which entity.
// Rows are never updated or deleted.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	Action    string     `gorm:"type:varchar(20);not null"`
	Model     string     `gorm:"type:varchar(50);not null"`
	ObjectID  string     `gorm:"type:varchar(50)"`
	Details   string     `gorm:"type:text"`
	Timestamp time.Time  `gorm:"autoCreateTime;index"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}
