package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DefaultRestockQuantity is used when a restock request names no quantity.
const DefaultRestockQuantity = 10

// ImageStore persists product images. Paths are relative to the media root.
type ImageStore interface {
	Save(productID uuid.UUID, filename string, r io.Reader) (string, error)
	Remove(path string) error
}

type ProductService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	Restock(ctx context.Context, actor Actor, id uuid.UUID, req dto.RestockRequest) (*dto.ProductResponse, error)
	SetImage(ctx context.Context, actor Actor, id uuid.UUID, filename string, r io.Reader) (*dto.ProductResponse, error)
	RemoveImage(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	sales     repository.SaleRepository
	inventory InventoryService
	audit     AuditService
	images    ImageStore
	presenter productPresenter
}

func NewProductService(
	repo repository.ProductRepository,
	sales repository.SaleRepository,
	inventory InventoryService,
	audit AuditService,
	images ImageStore,
	mediaBaseURL string,
) ProductService {
	return &productService{
		repo:      repo,
		sales:     sales,
		inventory: inventory,
		audit:     audit,
		images:    images,
		presenter: productPresenter{mediaBaseURL: mediaBaseURL},
	}
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *productService) Create(ctx context.Context, actor Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := nonNegative("buying_price", req.BuyingPrice); err != nil {
		return nil, err
	}
	if err := nonNegative("selling_price", req.SellingPrice); err != nil {
		return nil, err
	}
	if req.StockQty < 0 {
		return nil, invalid("stock_qty", "must be zero or greater")
	}

	unitsPerBox := 1
	if req.UnitsPerBox != nil {
		if *req.UnitsPerBox < 1 {
			return nil, invalid("units_per_box", "must be at least 1")
		}
		unitsPerBox = *req.UnitsPerBox
	}

	p := &model.Product{
		Name:          req.Name,
		BuyingPrice:   req.BuyingPrice,
		SellingPrice:  req.SellingPrice,
		StockQty:      req.StockQty,
		UnitsPerBox:   unitsPerBox,
		IsBulkProduct: req.IsBulkProduct,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionCreate, model.EntityProduct, p.ID.String(), "Created product "+p.Name)
	resp := s.presenter.toResponse(p)
	return &resp, nil
}

// ── Read ──────────────────────────────────────────────────────────────────────

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}
	resp := s.presenter.toResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}
	return &dto.ProductListResponse{
		Data:       s.presenter.toResponses(products),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// Detail columns are written directly. A new stock_qty is never written as
// is: the difference goes through the inventory service as an adjustment so
// the non-negative guard and the movement ledger still apply.

func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var (
		updated  *model.Product
		oldImage *string
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return notFound("product", err)
		}
		if err := applyProductChanges(p, req); err != nil {
			return err
		}
		if req.RemoveImage && p.ImagePath != nil {
			oldImage = p.ImagePath
			p.ImagePath = nil
		}
		p.UpdatedAt = time.Now()
		if err := s.repo.UpdateDetailsTx(tx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		if req.StockQty != nil && *req.StockQty != p.StockQty {
			ch := StockChange{
				ProductID: p.ID,
				Kind:      model.MovementAdjustment,
				Reason:    "Manual stock adjustment",
				UserID:    actor.UserID,
			}
			delta := *req.StockQty - p.StockQty
			if delta > 0 {
				ch.Quantity = delta
				p, err = s.inventory.AddStockTx(ctx, tx, ch)
			} else {
				ch.Quantity = -delta
				p, err = s.inventory.DeductStockTx(ctx, tx, ch)
			}
			if err != nil {
				return err
			}
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if oldImage != nil {
		s.removeImageFile(*oldImage)
	}
	s.audit.Record(ctx, actor, model.ActionUpdate, model.EntityProduct, updated.ID.String(), "Updated product "+updated.Name)
	resp := s.presenter.toResponse(updated)
	return &resp, nil
}

func applyProductChanges(p *model.Product, req dto.UpdateProductRequest) error {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.BuyingPrice != nil {
		if err := nonNegative("buying_price", *req.BuyingPrice); err != nil {
			return err
		}
		p.BuyingPrice = *req.BuyingPrice
	}
	if req.SellingPrice != nil {
		if err := nonNegative("selling_price", *req.SellingPrice); err != nil {
			return err
		}
		p.SellingPrice = *req.SellingPrice
	}
	if req.UnitsPerBox != nil {
		if *req.UnitsPerBox < 1 {
			return invalid("units_per_box", "must be at least 1")
		}
		p.UnitsPerBox = *req.UnitsPerBox
	}
	if req.IsBulkProduct != nil {
		p.IsBulkProduct = *req.IsBulkProduct
	}
	if req.StockQty != nil && *req.StockQty < 0 {
		return invalid("stock_qty", "must be zero or greater")
	}
	return nil
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Sales keep their history: their product reference is cleared in the same
// transaction that removes the product.

func (s *productService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	var deleted *model.Product
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return notFound("product", err)
		}
		if err := s.sales.DetachProductTx(tx, p.ID); err != nil {
			return fmt.Errorf("detach sales: %w", err)
		}
		if err := s.repo.DeleteTx(tx, p.ID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		deleted = p
		return nil
	})
	if err != nil {
		return err
	}

	if deleted.ImagePath != nil {
		s.removeImageFile(*deleted.ImagePath)
	}
	s.audit.Record(ctx, actor, model.ActionDelete, model.EntityProduct, deleted.ID.String(), "Deleted product "+deleted.Name)
	return nil
}

// ── Restock ───────────────────────────────────────────────────────────────────

func (s *productService) Restock(ctx context.Context, actor Actor, id uuid.UUID, req dto.RestockRequest) (*dto.ProductResponse, error) {
	qty := DefaultRestockQuantity
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty <= 0 {
		return nil, invalid("quantity", "must be greater than zero")
	}

	reason := fmt.Sprintf("Restocked %d units", qty)
	var p *model.Product
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		p, err = s.inventory.AddStockTx(ctx, tx, StockChange{
			ProductID: id,
			Quantity:  qty,
			Kind:      model.MovementRestock,
			Reason:    reason,
			UserID:    actor.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, model.ActionUpdate, model.EntityProduct, p.ID.String(), reason)
	resp := s.presenter.toResponse(p)
	return &resp, nil
}

// ── Images ────────────────────────────────────────────────────────────────────

func (s *productService) SetImage(ctx context.Context, actor Actor, id uuid.UUID, filename string, r io.Reader) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}

	path, err := s.images.Save(p.ID, filename, r)
	if err != nil {
		return nil, err
	}
	old := p.ImagePath
	p.ImagePath = &path
	p.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		s.removeImageFile(path)
		return nil, fmt.Errorf("update product image: %w", err)
	}
	if old != nil && *old != path {
		s.removeImageFile(*old)
	}

	s.audit.Record(ctx, actor, model.ActionUpdate, model.EntityProduct, p.ID.String(), "Updated image of product "+p.Name)
	resp := s.presenter.toResponse(p)
	return &resp, nil
}

func (s *productService) RemoveImage(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error) {
	return s.Update(ctx, actor, id, dto.UpdateProductRequest{RemoveImage: true})
}

func (s *productService) removeImageFile(path string) {
	if s.images == nil {
		return
	}
	if err := s.images.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("product: failed to remove image file")
	}
}
