package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockChange describes one movement of units into or out of a product.
type StockChange struct {
	ProductID   uuid.UUID
	Quantity    int
	Kind        string
	Reason      string
	ReferenceID *uuid.UUID
	UserID      *uuid.UUID
}

// InventoryService owns every stock mutation plus the read-side stock views.
// DeductStockTx and AddStockTx are the only code paths that change stock_qty.
type InventoryService interface {
	// DeductStockTx locks the product row, refuses to go below zero, applies
	// the decrement and records a movement. Returns the product after the change.
	DeductStockTx(ctx context.Context, tx *gorm.DB, ch StockChange) (*model.Product, error)
	// AddStockTx locks the product row, applies the increment and records a movement.
	AddStockTx(ctx context.Context, tx *gorm.DB, ch StockChange) (*model.Product, error)

	Alerts(ctx context.Context) (*dto.StockAlertsResponse, error)
	ValidateStock(ctx context.Context, req dto.StockValidationRequest) (*dto.StockValidationResponse, error)
	Movements(ctx context.Context, filter dto.MovementFilter) (*dto.StockMovementListResponse, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	presenter productPresenter
}

func NewInventoryService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	mediaBaseURL string,
) InventoryService {
	return &inventoryService{
		products:  products,
		movements: movements,
		presenter: productPresenter{mediaBaseURL: mediaBaseURL},
	}
}

func (s *inventoryService) DeductStockTx(ctx context.Context, tx *gorm.DB, ch StockChange) (*model.Product, error) {
	if ch.Quantity <= 0 {
		return nil, invalid("quantity", "must be greater than zero")
	}
	p, err := s.products.FindForUpdateTx(tx, ch.ProductID)
	if err != nil {
		return nil, notFound("product", err)
	}

	before := p.StockQty
	if _, err := p.Deduct(ch.Quantity); err != nil {
		return nil, err
	}
	ok, err := s.products.DeductStockTx(tx, p.ID, ch.Quantity)
	if err != nil {
		return nil, fmt.Errorf("deduct stock of %s: %w", p.Name, err)
	}
	if !ok {
		return nil, &model.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   before,
			Requested:   ch.Quantity,
		}
	}

	if err := s.record(tx, p, -ch.Quantity, before, ch); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *inventoryService) AddStockTx(ctx context.Context, tx *gorm.DB, ch StockChange) (*model.Product, error) {
	if ch.Quantity <= 0 {
		return nil, invalid("quantity", "must be greater than zero")
	}
	p, err := s.products.FindForUpdateTx(tx, ch.ProductID)
	if err != nil {
		return nil, notFound("product", err)
	}

	before := p.StockQty
	if err := s.products.AddStockTx(tx, p.ID, ch.Quantity); err != nil {
		return nil, fmt.Errorf("add stock to %s: %w", p.Name, err)
	}
	p.Add(ch.Quantity)

	if err := s.record(tx, p, ch.Quantity, before, ch); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *inventoryService) record(tx *gorm.DB, p *model.Product, delta, before int, ch StockChange) error {
	mov := &model.StockMovement{
		ProductID:   p.ID,
		Kind:        ch.Kind,
		Quantity:    delta,
		StockBefore: before,
		StockAfter:  p.StockQty,
		Reason:      ch.Reason,
		ReferenceID: ch.ReferenceID,
		UserID:      ch.UserID,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return fmt.Errorf("record stock movement: %w", err)
	}
	return nil
}

// ── Read side ────────────────────────────────────────────────────────────────

func (s *inventoryService) Alerts(ctx context.Context) (*dto.StockAlertsResponse, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	b := model.BucketByStockStatus(products)
	return &dto.StockAlertsResponse{
		OutOfStock:  s.presenter.toResponses(b.Tiers[model.StockOutOfStock]),
		Critical:    s.presenter.toResponses(b.Tiers[model.StockCritical]),
		Low:         s.presenter.toResponses(b.Tiers[model.StockLow]),
		Medium:      s.presenter.toResponses(b.Tiers[model.StockMedium]),
		Normal:      s.presenter.toResponses(b.Tiers[model.StockNormal]),
		TotalAlerts: b.TotalAlerts,
	}, nil
}

func (s *inventoryService) ValidateStock(ctx context.Context, req dto.StockValidationRequest) (*dto.StockValidationResponse, error) {
	id, err := parseID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}

	canSell := p.CanSell(req.Quantity)
	msg := "Stock available"
	if !canSell {
		msg = fmt.Sprintf("Insufficient stock. Available: %d", p.StockQty)
	}
	return &dto.StockValidationResponse{
		CanSell:           canSell,
		AvailableStock:    p.StockQty,
		RequestedQuantity: req.Quantity,
		ProductName:       p.Name,
		Message:           msg,
	}, nil
}

func (s *inventoryService) Movements(ctx context.Context, filter dto.MovementFilter) (*dto.StockMovementListResponse, error) {
	f := repository.StockMovementFilter{Kind: filter.Kind, Page: filter.Page, Limit: filter.Limit}
	if filter.ProductID != "" {
		id, err := parseID("product", filter.ProductID)
		if err != nil {
			return nil, err
		}
		f.ProductID = &id
	}

	movements, total, err := s.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}

	data := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		r := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.Product != nil {
			r.ProductName = m.Product.Name
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			r.ReferenceID = &ref
		}
		data[i] = r
	}
	return &dto.StockMovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
