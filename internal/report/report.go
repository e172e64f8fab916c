// Package report derives the reporting views (revenue by month, best sellers,
// payment mix, stock valuation, profit) from already-filtered ledger rows.
// Every function here is pure: callers load the rows, this package only
// aggregates them.
package report

import (
	"sort"

	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/shopspring/decimal"
)

// TopProductsLimit is how many best sellers TopProducts returns.
const TopProductsLimit = 10

// MonthRevenue is the revenue of one calendar month (YYYY-MM).
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductQuantity is the number of units sold of one product label.
type ProductQuantity struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type StockAnalysis struct {
	TotalProducts      int             `json:"total_products"`
	OutOfStock         int             `json:"out_of_stock"`
	LowStock           int             `json:"low_stock"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`
	TotalStockQuantity int             `json:"total_stock_quantity"`
}

type ProfitAnalysis struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
}

type Summary struct {
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AverageSale  decimal.Decimal `json:"average_sale"`
}

// Data is the full payload of GET /v1/reports/data.
type Data struct {
	MonthlyRevenue []MonthRevenue    `json:"monthly_revenue"`
	TopProducts    []ProductQuantity `json:"top_products"`
	PaymentMethods map[string]int    `json:"payment_methods"`
	StockAnalysis  StockAnalysis     `json:"stock_analysis"`
	ProfitAnalysis ProfitAnalysis    `json:"profit_analysis"`
	Summary        Summary           `json:"summary"`
}

// Build runs every aggregation over one consistent set of rows.
func Build(sales []model.Sale, expenses []model.Expense, products []model.Product) Data {
	profit := Profit(sales, expenses)
	return Data{
		MonthlyRevenue: Monthly(sales),
		TopProducts:    TopProducts(sales, TopProductsLimit),
		PaymentMethods: PaymentMethods(sales),
		StockAnalysis:  Stock(products),
		ProfitAnalysis: profit,
		Summary:        Summarize(sales),
	}
}

// Revenue is Σ line totals.
func Revenue(sales []model.Sale) decimal.Decimal {
	total := decimal.Zero
	for i := range sales {
		total = total.Add(sales[i].LineTotal())
	}
	return total
}

// Monthly groups revenue by the calendar month of each sale, ascending.
func Monthly(sales []model.Sale) []MonthRevenue {
	byMonth := make(map[string]decimal.Decimal)
	for i := range sales {
		month := sales[i].CreatedAt.Format("2006-01")
		byMonth[month] = byMonth[month].Add(sales[i].LineTotal())
	}

	out := make([]MonthRevenue, 0, len(byMonth))
	for month, rev := range byMonth {
		out = append(out, MonthRevenue{Month: month, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopProducts sums quantity per product label and returns the n largest.
// Equal quantities keep the order in which the label was first seen.
func TopProducts(sales []model.Sale, n int) []ProductQuantity {
	index := make(map[string]int)
	var out []ProductQuantity
	for i := range sales {
		label := model.ProductLabel(sales[i].Product, sales[i].ProductID)
		pos, ok := index[label]
		if !ok {
			pos = len(out)
			index[label] = pos
			out = append(out, ProductQuantity{Product: label})
		}
		out[pos].Quantity += sales[i].Quantity
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []ProductQuantity{}
	}
	return out
}

// PaymentMethods counts sales per payment type.
func PaymentMethods(sales []model.Sale) map[string]int {
	counts := make(map[string]int)
	for i := range sales {
		counts[sales[i].PaymentType]++
	}
	return counts
}

// Stock values the current inventory at unit buying price.
func Stock(products []model.Product) StockAnalysis {
	a := StockAnalysis{TotalProducts: len(products), TotalStockValue: decimal.Zero}
	for i := range products {
		p := &products[i]
		switch {
		case p.StockQty == 0:
			a.OutOfStock++
		case p.StockQty > 0 && p.StockQty <= model.LowStockThreshold:
			a.LowStock++
		}
		a.TotalStockValue = a.TotalStockValue.Add(p.UnitBuyingPrice().Mul(decimal.NewFromInt(int64(p.StockQty))))
		a.TotalStockQuantity += p.StockQty
	}
	return a
}

// Profit computes revenue against cost of goods sold plus expenses. COGS uses
// each product's current unit buying price; sales whose product is gone add
// no cost. The margin is zero when there is no positive revenue.
func Profit(sales []model.Sale, expenses []model.Expense) ProfitAnalysis {
	revenue := Revenue(sales)

	cogs := decimal.Zero
	for i := range sales {
		if p := sales[i].Product; p != nil {
			cogs = cogs.Add(p.UnitBuyingPrice().Mul(decimal.NewFromInt(int64(sales[i].Quantity))))
		}
	}

	expenseTotal := decimal.Zero
	for i := range expenses {
		expenseTotal = expenseTotal.Add(expenses[i].Amount)
	}

	cost := cogs.Add(expenseTotal)
	profit := revenue.Sub(cost)

	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100))
	}

	return ProfitAnalysis{
		TotalRevenue:  revenue,
		TotalCost:     cost,
		TotalExpenses: expenseTotal,
		TotalProfit:   profit,
		ProfitMargin:  margin,
	}
}

func Summarize(sales []model.Sale) Summary {
	revenue := Revenue(sales)
	avg := decimal.Zero
	if len(sales) > 0 {
		avg = revenue.Div(decimal.NewFromInt(int64(len(sales))))
	}
	return Summary{TotalSales: len(sales), TotalRevenue: revenue, AverageSale: avg}
}
