package repository

import (
	"context"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error

	// Used inside transactions; callers must pass the tx instance

	// FindForUpdateTx reads the product row holding a row lock until the
	// transaction ends.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	// UpdateDetailsTx writes every column except stock_qty.
	UpdateDetailsTx(tx *gorm.DB, p *model.Product) error
	// DeductStockTx decrements stock only when enough is available and
	// reports whether the row was changed.
	DeductStockTx(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error)
	AddStockTx(tx *gorm.DB, id uuid.UUID, quantity int) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	q = stockStatusScope(q, model.StockStatus(filter.StockStatus))

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(filter.Page, filter.Limit, 50)
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&products).Error
	return products, total, err
}

// stockStatusScope translates a stock tier into a stock_qty range.
func stockStatusScope(q *gorm.DB, status model.StockStatus) *gorm.DB {
	switch status {
	case model.StockOutOfStock:
		return q.Where("stock_qty <= 0")
	case model.StockCritical:
		return q.Where("stock_qty BETWEEN 1 AND ?", model.CriticalStockThreshold)
	case model.StockLow:
		return q.Where("stock_qty BETWEEN ? AND ?", model.CriticalStockThreshold+1, model.LowStockThreshold)
	case model.StockMedium:
		return q.Where("stock_qty BETWEEN ? AND ?", model.LowStockThreshold+1, model.MediumStockThreshold)
	case model.StockNormal:
		return q.Where("stock_qty > ?", model.MediumStockThreshold)
	}
	return q
}

func (r *productRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.UpdateDetailsTx(r.db.WithContext(ctx), p)
}

func (r *productRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) UpdateDetailsTx(tx *gorm.DB, p *model.Product) error {
	return tx.Model(p).
		Select("name", "buying_price", "selling_price", "units_per_box", "is_bulk_product", "image_path", "updated_at").
		Updates(p).Error
}

func (r *productRepo) DeductStockTx(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_qty >= ?", id, quantity).
		Update("stock_qty", gorm.Expr("stock_qty - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) AddStockTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock_qty", gorm.Expr("stock_qty + ?", quantity)).Error
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}
