package service

import (
	"strings"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/shopspring/decimal"
)

// productPresenter builds the outward representation of a product. The image
// URL is only set when the product has an image.
type productPresenter struct {
	mediaBaseURL string
}

func (pp productPresenter) imageURL(p *model.Product) *string {
	if p.ImagePath == nil || *p.ImagePath == "" {
		return nil
	}
	url := strings.TrimRight(pp.mediaBaseURL, "/") + "/" + strings.TrimLeft(*p.ImagePath, "/")
	return &url
}

func (pp productPresenter) toResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		BuyingPrice:      p.BuyingPrice,
		SellingPrice:     p.SellingPrice,
		StockQty:         p.StockQty,
		ImageURL:         pp.imageURL(p),
		IsOutOfStock:     p.IsOutOfStock(),
		StockStatus:      string(p.StockStatus()),
		UnitsPerBox:      p.UnitsPerBox,
		IsBulkProduct:    p.IsBulkProduct,
		UnitBuyingPrice:  p.UnitBuyingPrice(),
		UnitSellingPrice: p.UnitSellingPrice(),
		TotalBoxes:       p.TotalBoxes(),
		RemainingUnits:   p.RemainingUnits(),
		DisplayInfo:      displayInfo(p),
	}
}

func (pp productPresenter) toResponses(products []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, len(products))
	for i := range products {
		out[i] = pp.toResponse(&products[i])
	}
	return out
}

func displayInfo(p *model.Product) dto.DisplayInfo {
	info := dto.DisplayInfo{
		Name:       p.DisplayName(),
		UnitPrice:  p.UnitSellingPrice(),
		TotalUnits: p.StockQty,
	}
	if p.IsBulkProduct && p.UnitsPerBox > 1 {
		boxPrice := p.SellingPrice
		boxes := p.TotalBoxes()
		remaining := p.RemainingUnits()
		info.BoxPrice = &boxPrice
		info.TotalBoxes = &boxes
		info.RemainingUnits = &remaining
	}
	return info
}

func saleToResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:          s.ID.String(),
		ProductName: model.ProductLabel(s.Product, s.ProductID),
		Quantity:    s.Quantity,
		Price:       s.Price,
		Discount:    s.Discount,
		Total:       s.LineTotal(),
		PaymentType: s.PaymentType,
		Date:        s.CreatedAt.Format(time.RFC3339),
	}
	if s.ProductID != nil {
		id := s.ProductID.String()
		resp.ProductID = &id
	}
	if s.UserID != nil {
		id := s.UserID.String()
		resp.UserID = &id
	}
	return resp
}

func expenseToResponse(e *model.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID.String(),
		Date:        e.Date.Format(dateLayout),
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
	}
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		IsPrivileged: u.IsPrivileged(),
		Active:       u.Active,
	}
}

// moneyPlaces matches the scale of the DECIMAL(12,2) money columns.
const moneyPlaces = 2

// money rounds d to the stored scale so responses, audits and reports see
// the same value the database keeps.
func money(d decimal.Decimal) decimal.Decimal { return d.Round(moneyPlaces) }

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid(field, "must be zero or greater")
	}
	return nil
}
