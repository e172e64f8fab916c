package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"
	"github.com/Joe-Bills/moto-spares-manager/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so runTx calls the callback with a
// nil tx. Every read hands out a copy, the way a real row fetch would.

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

// seed stores p as-is and returns its id.
func (r *stubProductRepo) seed(p model.Product) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.UnitsPerBox == 0 {
		p.UnitsPerBox = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = &p
	return p.ID
}

func (r *stubProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].StockQty
}

func (r *stubProductRepo) get(id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.mu.Lock()
	r.products[p.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return r.get(id)
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, err := r.get(id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	all, _ := r.ListAll(ctx)
	var out []model.Product
	for _, p := range all {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.StockStatus != "" && string(p.StockStatus()) != filter.StockStatus {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	r.mu.Lock()
	r.products[p.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *stubProductRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.get(id)
}

func (r *stubProductRepo) UpdateDetailsTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	cp.StockQty = cur.StockQty
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) DeductStockTx(_ *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.StockQty < quantity {
		return false, nil
	}
	p.StockQty -= quantity
	return true, nil
}

func (r *stubProductRepo) AddStockTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQty += quantity
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo preloads products from the linked product stub.
type stubSaleRepo struct {
	mu       sync.Mutex
	sales    map[uuid.UUID]*model.Sale
	products *stubProductRepo
}

func newStubSaleRepo(products *stubProductRepo) *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale), products: products}
}

func (r *stubSaleRepo) withProduct(s model.Sale) *model.Sale {
	s.Product = nil
	if s.ProductID != nil && r.products != nil {
		if p, err := r.products.get(*s.ProductID); err == nil {
			s.Product = p
		}
	}
	return &s
}

func (r *stubSaleRepo) seed(s model.Sale) uuid.UUID {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.Product = nil
	r.mu.Lock()
	r.sales[s.ID] = &s
	r.mu.Unlock()
	return s.ID
}

func (r *stubSaleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.seed(*s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	s, ok := r.sales[id]
	r.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withProduct(*s), nil
}

func (r *stubSaleRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSaleRepo) all(period repository.Period) []model.Sale {
	r.mu.Lock()
	var out []model.Sale
	for _, s := range r.sales {
		if period.From != nil && s.CreatedAt.Before(*period.From) {
			continue
		}
		if period.Until != nil && !s.CreatedAt.Before(*period.Until) {
			continue
		}
		out = append(out, *s)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for i := range out {
		out[i] = *r.withProduct(out[i])
	}
	return out
}

func (r *stubSaleRepo) List(_ context.Context, f repository.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.all(f.Period) {
		if f.PaymentType != "" && s.PaymentType != f.PaymentType {
			continue
		}
		if f.ProductID != nil && (s.ProductID == nil || *s.ProductID != *f.ProductID) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListInPeriod(_ context.Context, period repository.Period) ([]model.Sale, error) {
	return r.all(period), nil
}

func (r *stubSaleRepo) Recent(_ context.Context, period repository.Period, limit int) ([]model.Sale, error) {
	out := r.all(period)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) UpdateTx(_ *gorm.DB, s *model.Sale) error {
	r.seed(*s)
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) DetachProductTx(_ *gorm.DB, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.ProductID != nil && *s.ProductID == productID {
			s.ProductID = nil
		}
	}
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubAuditRepo records entries; err makes every write fail.
type stubAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
	err     error
}

func (r *stubAuditRepo) Create(_ context.Context, e *model.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New()
	e.Timestamp = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, f repository.AuditLogFilter) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.Model != "" && e.Model != f.Model {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

var _ repository.AuditLogRepository = (*stubAuditRepo)(nil)

type stubExpenseRepo struct {
	expenses map[uuid.UUID]*model.Expense
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{expenses: make(map[uuid.UUID]*model.Expense)}
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	r.expenses[e.ID] = &cp
	return nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubExpenseRepo) List(ctx context.Context, period repository.Period, _, _ int) ([]model.Expense, int64, error) {
	out, _ := r.ListInPeriod(ctx, period)
	return out, int64(len(out)), nil
}

func (r *stubExpenseRepo) ListInPeriod(_ context.Context, period repository.Period) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range r.expenses {
		if period.From != nil && e.Date.Before(*period.From) {
			continue
		}
		if period.Until != nil && !e.Date.Before(*period.Until) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubExpenseRepo) Update(_ context.Context, e *model.Expense) error {
	cp := *e
	r.expenses[e.ID] = &cp
	return nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.expenses, id)
	return nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	c.ID = uuid.New()
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if !u.Active {
			continue
		}
		if u.Username == username || (u.Email != nil && *u.Email == username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubImageStore struct {
	saved   []string
	removed []string
}

func (s *stubImageStore) Save(productID uuid.UUID, filename string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	path := "products/" + productID.String() + "/" + filename
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubImageStore) Remove(path string) error {
	s.removed = append(s.removed, path)
	return nil
}

type stubQueue struct {
	payloads []worker.ReportEmailPayload
	err      error
}

func (q *stubQueue) EnqueueReportEmail(_ context.Context, p worker.ReportEmailPayload) error {
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, p)
	return nil
}

var errBoom = errors.New("boom")

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	products  *stubProductRepo
	sales     *stubSaleRepo
	movements *stubMovementRepo
	audits    *stubAuditRepo
	expenses  *stubExpenseRepo
	images    *stubImageStore

	audit     AuditService
	inventory InventoryService
	saleSvc   SaleService
	prodSvc   ProductService
}

func newFixture() *fixture {
	f := &fixture{
		products:  newStubProductRepo(),
		movements: &stubMovementRepo{},
		audits:    &stubAuditRepo{},
		expenses:  newStubExpenseRepo(),
		images:    &stubImageStore{},
	}
	f.sales = newStubSaleRepo(f.products)
	f.audit = NewAuditService(f.audits)
	f.inventory = NewInventoryService(f.products, f.movements, "/media")
	f.saleSvc = NewSaleService(f.sales, f.inventory, f.audit)
	f.prodSvc = NewProductService(f.products, f.sales, f.inventory, f.audit, f.images, "/media")
	return f
}

func staffActor() Actor {
	id := uuid.New()
	return Actor{UserID: &id, Username: "clerk"}
}

func adminActor() Actor {
	id := uuid.New()
	return Actor{UserID: &id, Username: "owner", Privileged: true}
}
