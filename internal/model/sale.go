package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment types accepted on a sale.
const (
	PaymentCash   = "cash"
	PaymentMobile = "mobile"
	PaymentBank   = "bank"
)

// Sale records units of one product leaving stock. Price is captured at sale
// time and does not follow later product price changes. ProductID is cleared
// (not cascaded) when the product is deleted so the sale history survives.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentType string          `gorm:"type:varchar(20);not null"`
	UserID      *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time       `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// LineTotal is price × quantity − discount.
func (s *Sale) LineTotal() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity))).Sub(s.Discount)
}
