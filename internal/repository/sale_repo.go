package repository

import (
	"context"

	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleFilter narrows GET /v1/sales.
type SaleFilter struct {
	Period      Period
	PaymentType string
	ProductID   *uuid.UUID
	Page        int
	Limit       int
}

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error)
	// ListInPeriod returns every sale in the window, newest first, with its
	// product preloaded.
	ListInPeriod(ctx context.Context, period Period) ([]model.Sale, error)
	// Recent returns at most limit sales in the window, newest first.
	Recent(ctx context.Context, period Period, limit int) ([]model.Sale, error)
	UpdateTx(tx *gorm.DB, s *model.Sale) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// DetachProductTx clears the product reference of every sale of productID.
	DetachProductTx(tx *gorm.DB, productID uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Product").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := filter.Period.apply(r.db.WithContext(ctx).Model(&model.Sale{}), "created_at")
	if filter.PaymentType != "" {
		q = q.Where("payment_type = ?", filter.PaymentType)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(filter.Page, filter.Limit, 50)
	err := q.Preload("Product").Order("created_at DESC").Limit(limit).Offset(offset).Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListInPeriod(ctx context.Context, period Period) ([]model.Sale, error) {
	var sales []model.Sale
	q := period.apply(r.db.WithContext(ctx).Model(&model.Sale{}), "created_at")
	err := q.Preload("Product").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Recent(ctx context.Context, period Period, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	q := period.apply(r.db.WithContext(ctx).Model(&model.Sale{}), "created_at")
	err := q.Preload("Product").Order("created_at DESC").Limit(limit).Find(&sales).Error
	return sales, err
}

func (r *saleRepo) UpdateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Model(s).
		Select("product_id", "quantity", "price", "discount", "payment_type").
		Updates(s).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Sale{}, "id = ?", id).Error
}

func (r *saleRepo) DetachProductTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Model(&model.Sale{}).Where("product_id = ?", productID).
		Update("product_id", nil).Error
}
