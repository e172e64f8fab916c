package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestSaleCreate_DeductsStockAndAudits(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Chain Kit", SellingPrice: decimal.NewFromInt(45), StockQty: 10})
	actor := staffActor()

	resp, err := f.saleSvc.Create(context.Background(), actor, dto.CreateSaleRequest{
		ProductID:   pid.String(),
		Quantity:    3,
		Price:       ptr(decimal.NewFromInt(50)),
		Discount:    decimal.NewFromInt(10),
		PaymentType: model.PaymentCash,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, f.products.stock(pid))
	assert.Equal(t, "140", resp.Total.String())
	assert.Equal(t, "Chain Kit", resp.ProductName)
	require.Len(t, f.movements.movements, 1)
	mv := f.movements.movements[0]
	assert.Equal(t, model.MovementSale, mv.Kind)
	assert.Equal(t, -3, mv.Quantity)
	assert.Equal(t, 10, mv.StockBefore)
	assert.Equal(t, 7, mv.StockAfter)

	require.Len(t, f.audits.entries, 1)
	entry := f.audits.entries[0]
	assert.Equal(t, model.ActionCreate, entry.Action)
	assert.Equal(t, model.EntitySale, entry.Model)
	assert.Equal(t, resp.ID, entry.ObjectID)
	assert.Equal(t, actor.UserID, entry.UserID)
	assert.Contains(t, entry.Details, "Chain Kit x 3")
}

func TestSaleCreate_DefaultsToUnitSellingPrice(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{
		Name: "Bolts", SellingPrice: decimal.NewFromInt(120), StockQty: 48, UnitsPerBox: 12, IsBulkProduct: true,
	})

	resp, err := f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: pid.String(), Quantity: 5, PaymentType: model.PaymentMobile,
	})
	require.NoError(t, err)
	assert.Equal(t, "10", resp.Price.String())
	assert.Equal(t, "50", resp.Total.String())
	assert.Equal(t, 43, f.products.stock(pid))
}

func TestSaleCreate_InsufficientStockLeavesNoTrace(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Mirror", SellingPrice: decimal.NewFromInt(20), StockQty: 2})

	_, err := f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: pid.String(), Quantity: 3, PaymentType: model.PaymentCash,
	})

	var stockErr *model.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, "Mirror", stockErr.ProductName)

	assert.Equal(t, 2, f.products.stock(pid))
	assert.Zero(t, f.sales.count())
	assert.Empty(t, f.movements.movements)
	assert.Empty(t, f.audits.entries)
}

func TestSaleCreate_SellsExactlyRemainingStock(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Fuse", StockQty: 4})

	_, err := f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: pid.String(), Quantity: 4, Price: ptr(decimal.NewFromInt(1)), PaymentType: model.PaymentBank,
	})
	require.NoError(t, err)
	assert.Zero(t, f.products.stock(pid))
}

func TestSaleCreate_Validation(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Fuse", StockQty: 4})

	cases := map[string]dto.CreateSaleRequest{
		"bad product id":    {ProductID: "nope", Quantity: 1, PaymentType: model.PaymentCash},
		"zero quantity":     {ProductID: pid.String(), Quantity: 0, PaymentType: model.PaymentCash},
		"negative discount": {ProductID: pid.String(), Quantity: 1, Discount: decimal.NewFromInt(-1), PaymentType: model.PaymentCash},
		"negative price":    {ProductID: pid.String(), Quantity: 1, Price: ptr(decimal.NewFromInt(-5)), PaymentType: model.PaymentCash},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.saleSvc.Create(context.Background(), staffActor(), req)
			var valErr *ValidationError
			assert.True(t, errors.As(err, &valErr), "got %v", err)
		})
	}
	assert.Equal(t, 4, f.products.stock(pid))
}

func TestSaleCreate_UnknownProduct(t *testing.T) {
	f := newFixture()
	_, err := f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: uuid.NewString(), Quantity: 1, PaymentType: model.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleCreate_AuditFailureDoesNotFailSale(t *testing.T) {
	f := newFixture()
	f.audits.err = errBoom
	pid := f.products.seed(model.Product{Name: "Grip", StockQty: 5})

	resp, err := f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: pid.String(), Quantity: 1, Price: ptr(decimal.NewFromInt(3)), PaymentType: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 4, f.products.stock(pid))
	assert.Equal(t, 1, f.sales.count())
}

func TestSaleUpdate_QuantityChangesAdjustStock(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Cable", StockQty: 10})
	sale, err := f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: pid.String(), Quantity: 4, Price: ptr(decimal.NewFromInt(2)), PaymentType: model.PaymentCash,
	})
	require.NoError(t, err)
	sid := uuid.MustParse(sale.ID)
	require.Equal(t, 6, f.products.stock(pid))

	_, err = f.saleSvc.Update(context.Background(), adminActor(), sid, dto.UpdateSaleRequest{Quantity: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 3, f.products.stock(pid))

	resp, err := f.saleSvc.Update(context.Background(), adminActor(), sid, dto.UpdateSaleRequest{Quantity: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 8, f.products.stock(pid))
	assert.Equal(t, 2, resp.Quantity)
	assert.Equal(t, "Cable", resp.ProductName)

	last := f.movements.movements[len(f.movements.movements)-1]
	assert.Equal(t, model.MovementSaleEdit, last.Kind)
	assert.Equal(t, 5, last.Quantity)
}

func TestSaleUpdate_IncreaseBeyondStockFails(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Cable", StockQty: 5})
	sid := f.sales.seed(model.Sale{ProductID: &pid, Quantity: 2, Price: decimal.NewFromInt(1), PaymentType: model.PaymentCash})

	_, err := f.saleSvc.Update(context.Background(), adminActor(), sid, dto.UpdateSaleRequest{Quantity: ptr(8)})
	var stockErr *model.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, f.products.stock(pid))
	assert.Empty(t, f.audits.entries)
}

func TestSaleUpdate_MoveToAnotherProduct(t *testing.T) {
	f := newFixture()
	oldID := f.products.seed(model.Product{Name: "Old", StockQty: 1})
	newID := f.products.seed(model.Product{Name: "New", StockQty: 9})
	sid := f.sales.seed(model.Sale{ProductID: &oldID, Quantity: 3, Price: decimal.NewFromInt(1), PaymentType: model.PaymentCash})

	resp, err := f.saleSvc.Update(context.Background(), adminActor(), sid, dto.UpdateSaleRequest{
		ProductID: ptr(newID.String()),
		Quantity:  ptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, f.products.stock(oldID), "old product gets the full quantity back")
	assert.Equal(t, 5, f.products.stock(newID))
	assert.Equal(t, "New", resp.ProductName)
}

func TestSaleCreate_PriceRoundedToCents(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{
		Name: "Washers", SellingPrice: decimal.NewFromInt(100), StockQty: 9, UnitsPerBox: 3, IsBulkProduct: true,
	})

	resp, err := f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: pid.String(), Quantity: 3, PaymentType: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.Price.Exponent(), int32(-2))
	assert.Equal(t, "33.33", resp.Price.String())
	assert.Equal(t, "99.99", resp.Total.String())

	id := mustUUID(t, resp.ID)
	stored, err := f.saleSvc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, resp.Price.String(), stored.Price.String())

	resp, err = f.saleSvc.Create(context.Background(), staffActor(), dto.CreateSaleRequest{
		ProductID: pid.String(), Quantity: 1, PaymentType: model.PaymentCash,
		Price: ptr(decimal.RequireFromString("12.345")), Discount: decimal.RequireFromString("0.005"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12.35", resp.Price.String())
	assert.Equal(t, "0.01", resp.Discount.String())
}

func TestSaleUpdate_PriceRoundedToCents(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Grips", StockQty: 5})
	sid := f.sales.seed(model.Sale{ProductID: &pid, Quantity: 1, Price: decimal.NewFromInt(10), PaymentType: model.PaymentCash})

	resp, err := f.saleSvc.Update(context.Background(), adminActor(), sid, dto.UpdateSaleRequest{
		Price:    ptr(decimal.RequireFromString("9.999")),
		Discount: ptr(decimal.RequireFromString("1.234")),
	})
	require.NoError(t, err)
	assert.Equal(t, "10", resp.Price.String())
	assert.Equal(t, "1.23", resp.Discount.String())
	assert.GreaterOrEqual(t, resp.Price.Exponent(), int32(-2))
}

func TestSaleUpdate_PriceOnlyKeepsStock(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Seat", StockQty: 5})
	sid := f.sales.seed(model.Sale{ProductID: &pid, Quantity: 2, Price: decimal.NewFromInt(10), PaymentType: model.PaymentCash})

	resp, err := f.saleSvc.Update(context.Background(), adminActor(), sid, dto.UpdateSaleRequest{
		Price:       ptr(decimal.NewFromInt(12)),
		PaymentType: ptr(model.PaymentBank),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, f.products.stock(pid))
	assert.Empty(t, f.movements.movements)
	assert.Equal(t, "24", resp.Total.String())
	assert.Equal(t, model.PaymentBank, resp.PaymentType)
	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.ActionUpdate, f.audits.entries[0].Action)
}

func TestSaleDelete_RestoresStock(t *testing.T) {
	f := newFixture()
	pid := f.products.seed(model.Product{Name: "Horn", StockQty: 3})
	sid := f.sales.seed(model.Sale{ProductID: &pid, Quantity: 2, Price: decimal.NewFromInt(1), PaymentType: model.PaymentCash})

	require.NoError(t, f.saleSvc.Delete(context.Background(), adminActor(), sid))
	assert.Equal(t, 5, f.products.stock(pid))
	assert.Zero(t, f.sales.count())
	require.Len(t, f.movements.movements, 1)
	assert.Equal(t, model.MovementSaleReversal, f.movements.movements[0].Kind)
	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.ActionDelete, f.audits.entries[0].Action)
}

func TestSaleDelete_OrphanSale(t *testing.T) {
	f := newFixture()
	sid := f.sales.seed(model.Sale{Quantity: 2, Price: decimal.NewFromInt(1), PaymentType: model.PaymentCash})

	require.NoError(t, f.saleSvc.Delete(context.Background(), adminActor(), sid))
	assert.Empty(t, f.movements.movements)
	assert.Zero(t, f.sales.count())
}

func TestSaleDelete_NotFound(t *testing.T) {
	f := newFixture()
	err := f.saleSvc.Delete(context.Background(), adminActor(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleList_Filters(t *testing.T) {
	f := newFixture()
	a := f.products.seed(model.Product{Name: "A", StockQty: 5})
	b := f.products.seed(model.Product{Name: "B", StockQty: 5})
	f.sales.seed(model.Sale{ProductID: &a, Quantity: 1, Price: decimal.NewFromInt(1), PaymentType: model.PaymentCash})
	f.sales.seed(model.Sale{ProductID: &b, Quantity: 1, Price: decimal.NewFromInt(1), PaymentType: model.PaymentMobile})

	resp, err := f.saleSvc.List(context.Background(), dto.SaleFilter{ProductID: a.String(), Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "A", resp.Data[0].ProductName)

	resp, err = f.saleSvc.List(context.Background(), dto.SaleFilter{PaymentType: model.PaymentMobile, Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "B", resp.Data[0].ProductName)

	_, err = f.saleSvc.List(context.Background(), dto.SaleFilter{From: "2026-02-10", To: "2026-02-01"})
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}
