package model

// StockStatus is the alert tier derived from a stock quantity.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockCritical   StockStatus = "critical"
	StockLow        StockStatus = "low"
	StockMedium     StockStatus = "medium"
	StockNormal     StockStatus = "normal"
)

// Upper bounds (inclusive) of each alert tier.
const (
	CriticalStockThreshold = 2
	LowStockThreshold      = 5
	MediumStockThreshold   = 10
)

// StockTiers lists the tiers from most to least urgent.
var StockTiers = []StockStatus{StockOutOfStock, StockCritical, StockLow, StockMedium, StockNormal}

// ClassifyStock maps a quantity to its tier.
func ClassifyStock(qty int) StockStatus {
	switch {
	case qty <= 0:
		return StockOutOfStock
	case qty <= CriticalStockThreshold:
		return StockCritical
	case qty <= LowStockThreshold:
		return StockLow
	case qty <= MediumStockThreshold:
		return StockMedium
	default:
		return StockNormal
	}
}

// StockBuckets groups products by tier. Every tier is present, possibly empty.
type StockBuckets struct {
	Tiers       map[StockStatus][]Product
	TotalAlerts int
}

// BucketByStockStatus splits products into the five tiers and counts every
// product outside the normal tier as an alert. Input order is kept inside
// each tier.
func BucketByStockStatus(products []Product) StockBuckets {
	b := StockBuckets{Tiers: make(map[StockStatus][]Product, len(StockTiers))}
	for _, tier := range StockTiers {
		b.Tiers[tier] = []Product{}
	}
	for _, p := range products {
		tier := ClassifyStock(p.StockQty)
		b.Tiers[tier] = append(b.Tiers[tier], p)
		if tier != StockNormal {
			b.TotalAlerts++
		}
	}
	return b
}
