package service

import (
	"context"
	"fmt"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleService runs the sale lifecycle. Each mutation applies its stock
// effect and the sale row change in one transaction, then writes one audit
// entry after commit.
type SaleService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type saleService struct {
	repo      repository.SaleRepository
	inventory InventoryService
	audit     AuditService
}

func NewSaleService(repo repository.SaleRepository, inventory InventoryService, audit AuditService) SaleService {
	return &saleService{repo: repo, inventory: inventory, audit: audit}
}

// ── Create ────────────────────────────────────────────────────────────────────
//   1. Lock the product row, refuse when stock < quantity
//   2. Decrement stock and record the movement
//   3. Insert the sale
//   4. COMMIT, then audit
// Any failure rolls back steps 2-3: no sale row, no audit entry.

func (s *saleService) Create(ctx context.Context, actor Actor, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	productID, err := parseID("product", req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, invalid("quantity", "must be greater than zero")
	}
	if err := nonNegative("discount", req.Discount); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := nonNegative("price", *req.Price); err != nil {
			return nil, err
		}
	}

	sale := model.Sale{
		ID:          uuid.New(),
		ProductID:   &productID,
		Quantity:    req.Quantity,
		Discount:    money(req.Discount),
		PaymentType: req.PaymentType,
		UserID:      actor.UserID,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		saleRef := sale.ID
		product, err := s.inventory.DeductStockTx(ctx, tx, StockChange{
			ProductID:   productID,
			Quantity:    req.Quantity,
			Kind:        model.MovementSale,
			Reason:      "Sale " + sale.ID.String(),
			ReferenceID: &saleRef,
			UserID:      actor.UserID,
		})
		if err != nil {
			return err
		}

		if req.Price != nil {
			sale.Price = money(*req.Price)
		} else {
			sale.Price = money(product.UnitSellingPrice())
		}
		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		sale.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, model.ActionCreate, model.EntitySale, sale.ID.String(),
		fmt.Sprintf("Created sale #%s for %s x %d", sale.ID, sale.Product.Name, sale.Quantity))
	resp := saleToResponse(&sale)
	return &resp, nil
}

// ── Read ──────────────────────────────────────────────────────────────────────

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("sale", err)
	}
	resp := saleToResponse(sale)
	return &resp, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	period, err := parsePeriod(filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	f := repository.SaleFilter{
		Period:      period,
		PaymentType: filter.PaymentType,
		Page:        filter.Page,
		Limit:       filter.Limit,
	}
	if filter.ProductID != "" {
		id, err := parseID("product", filter.ProductID)
		if err != nil {
			return nil, err
		}
		f.ProductID = &id
	}

	sales, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		data[i] = saleToResponse(&sales[i])
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// Stock follows the sale: a larger quantity deducts the difference, a smaller
// one returns it, and moving the sale to another product returns the whole
// quantity to the old product before deducting it from the new one.

func (s *saleService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	var sale *model.Sale
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sale, err = s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return notFound("sale", err)
		}

		newProductID := sale.ProductID
		if req.ProductID != nil {
			pid, err := parseID("product", *req.ProductID)
			if err != nil {
				return err
			}
			newProductID = &pid
		}
		newQty := sale.Quantity
		if req.Quantity != nil {
			if *req.Quantity <= 0 {
				return invalid("quantity", "must be greater than zero")
			}
			newQty = *req.Quantity
		}

		product, err := s.moveStock(ctx, tx, actor, sale, newProductID, newQty)
		if err != nil {
			return err
		}

		if err := applySaleChanges(sale, req); err != nil {
			return err
		}
		sale.ProductID = newProductID
		sale.Quantity = newQty
		sale.Product = product

		if err := s.repo.UpdateTx(tx, sale); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, model.ActionUpdate, model.EntitySale, sale.ID.String(), fmt.Sprintf("Updated sale #%s", sale.ID))
	if reloaded, err := s.repo.FindByID(ctx, sale.ID); err == nil {
		sale = reloaded
	}
	resp := saleToResponse(sale)
	return &resp, nil
}

// moveStock applies the stock effect of changing a sale from
// (sale.ProductID, sale.Quantity) to (newProductID, newQty) and returns the
// product the sale ends up on, if it is known.
func (s *saleService) moveStock(ctx context.Context, tx *gorm.DB, actor Actor, sale *model.Sale, newProductID *uuid.UUID, newQty int) (*model.Product, error) {
	ref := sale.ID
	change := func(productID uuid.UUID, qty int, reason string) StockChange {
		return StockChange{
			ProductID:   productID,
			Quantity:    qty,
			Kind:        model.MovementSaleEdit,
			Reason:      reason,
			ReferenceID: &ref,
			UserID:      actor.UserID,
		}
	}

	sameProduct := sale.ProductID != nil && newProductID != nil && *sale.ProductID == *newProductID
	if !sameProduct {
		if sale.ProductID != nil {
			if _, err := s.inventory.AddStockTx(ctx, tx, change(*sale.ProductID, sale.Quantity, "Sale "+ref.String()+" moved off this product")); err != nil {
				return nil, err
			}
		}
		if newProductID == nil {
			return nil, nil
		}
		return s.inventory.DeductStockTx(ctx, tx, change(*newProductID, newQty, "Sale "+ref.String()+" moved onto this product"))
	}

	delta := newQty - sale.Quantity
	switch {
	case delta > 0:
		return s.inventory.DeductStockTx(ctx, tx, change(*newProductID, delta, "Sale "+ref.String()+" quantity increased"))
	case delta < 0:
		return s.inventory.AddStockTx(ctx, tx, change(*newProductID, -delta, "Sale "+ref.String()+" quantity decreased"))
	}
	return nil, nil
}

func applySaleChanges(sale *model.Sale, req dto.UpdateSaleRequest) error {
	if req.Price != nil {
		if err := nonNegative("price", *req.Price); err != nil {
			return err
		}
		sale.Price = money(*req.Price)
	}
	if req.Discount != nil {
		if err := nonNegative("discount", *req.Discount); err != nil {
			return err
		}
		sale.Discount = money(*req.Discount)
	}
	if req.PaymentType != nil {
		sale.PaymentType = *req.PaymentType
	}
	return nil
}

// ── Delete ────────────────────────────────────────────────────────────────────

func (s *saleService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	var sale *model.Sale
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sale, err = s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return notFound("sale", err)
		}
		// A sale whose product was deleted has nothing to give back.
		if sale.ProductID != nil {
			ref := sale.ID
			if _, err := s.inventory.AddStockTx(ctx, tx, StockChange{
				ProductID:   *sale.ProductID,
				Quantity:    sale.Quantity,
				Kind:        model.MovementSaleReversal,
				Reason:      "Sale " + ref.String() + " deleted",
				ReferenceID: &ref,
				UserID:      actor.UserID,
			}); err != nil {
				return err
			}
		}
		if err := s.repo.DeleteTx(tx, sale.ID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor, model.ActionDelete, model.EntitySale, sale.ID.String(), fmt.Sprintf("Deleted sale #%s", sale.ID))
	return nil
}
