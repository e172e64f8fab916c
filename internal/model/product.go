package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked item. StockQty never goes below zero; it is only
// changed through Deduct/Add (and their transactional repository
// counterparts), never overwritten by a sale.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"index;not null"`
	BuyingPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockQty      int             `gorm:"not null;default:0"`
	UnitsPerBox   int             `gorm:"not null;default:1"`
	IsBulkProduct bool            `gorm:"not null;default:false"`
	// ImagePath is relative to the media root; nil when no image is attached.
	ImagePath *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnitBuyingPrice is the cost of a single unit. Bulk products are bought per
// box, so the box price is split across UnitsPerBox.
func (p *Product) UnitBuyingPrice() decimal.Decimal {
	return perUnit(p.BuyingPrice, p.UnitsPerBox)
}

// UnitSellingPrice mirrors UnitBuyingPrice for the selling side.
func (p *Product) UnitSellingPrice() decimal.Decimal {
	return perUnit(p.SellingPrice, p.UnitsPerBox)
}

func perUnit(price decimal.Decimal, unitsPerBox int) decimal.Decimal {
	if unitsPerBox > 1 {
		return price.Div(decimal.NewFromInt(int64(unitsPerBox)))
	}
	return price
}

// TotalBoxes is the number of complete boxes in stock.
func (p *Product) TotalBoxes() int {
	if p.UnitsPerBox > 1 {
		return p.StockQty / p.UnitsPerBox
	}
	return p.StockQty
}

// RemainingUnits is the number of loose units that do not fill a box.
func (p *Product) RemainingUnits() int {
	if p.UnitsPerBox > 1 {
		return p.StockQty % p.UnitsPerBox
	}
	return 0
}

func (p *Product) IsOutOfStock() bool { return p.StockQty <= 0 }

func (p *Product) StockStatus() StockStatus { return ClassifyStock(p.StockQty) }

// CanSell reports whether quantity units can leave stock.
func (p *Product) CanSell(quantity int) bool { return p.StockQty >= quantity }

// Deduct removes quantity units from stock and returns the new level.
// It fails without touching StockQty when the result would be negative.
func (p *Product) Deduct(quantity int) (int, error) {
	if !p.CanSell(quantity) {
		return p.StockQty, &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.StockQty,
			Requested:   quantity,
		}
	}
	p.StockQty -= quantity
	return p.StockQty, nil
}

// Add puts quantity units back into stock and returns the new level.
func (p *Product) Add(quantity int) int {
	p.StockQty += quantity
	return p.StockQty
}

// DisplayName appends the box size for bulk products.
func (p *Product) DisplayName() string {
	if p.IsBulkProduct && p.UnitsPerBox > 1 {
		return fmt.Sprintf("%s (%d units/box)", p.Name, p.UnitsPerBox)
	}
	return p.Name
}

// ProductLabel is the name used in reports. Sales whose product reference
// was cleared fall back to "Product <id>".
func ProductLabel(p *Product, id *uuid.UUID) string {
	if p != nil {
		return p.Name
	}
	if id != nil {
		return fmt.Sprintf("Product %s", id.String())
	}
	return "Product None"
}
