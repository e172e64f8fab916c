package repository

import (
	"context"

	"github.com/Joe-Bills/moto-spares-manager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, period Period, page, limit int) ([]model.Expense, int64, error)
	ListInPeriod(ctx context.Context, period Period) ([]model.Expense, error)
	Update(ctx context.Context, e *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *expenseRepo) List(ctx context.Context, period Period, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	q := period.apply(r.db.WithContext(ctx).Model(&model.Expense{}), "date")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, limit, 50)
	err := q.Order("date DESC, created_at DESC").Limit(limit).Offset(offset).Find(&expenses).Error
	return expenses, total, err
}

func (r *expenseRepo) ListInPeriod(ctx context.Context, period Period) ([]model.Expense, error) {
	var expenses []model.Expense
	err := period.apply(r.db.WithContext(ctx).Model(&model.Expense{}), "date").
		Order("date ASC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) Update(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, "id = ?", id).Error
}
