package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"

	"github.com/google/uuid"
)

type ExpenseService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error)
	List(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type expenseService struct {
	repo  repository.ExpenseRepository
	audit AuditService
}

func NewExpenseService(repo repository.ExpenseRepository, audit AuditService) ExpenseService {
	return &expenseService{repo: repo, audit: audit}
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func (s *expenseService) Create(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if err := nonNegative("amount", req.Amount); err != nil {
		return nil, err
	}

	e := &model.Expense{
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionCreate, model.EntityExpense, e.ID.String(), "Created expense "+e.Description)
	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) Get(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("expense", err)
	}
	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) List(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error) {
	period, err := parsePeriod(filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	expenses, total, err := s.repo.List(ctx, period, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		data[i] = expenseToResponse(&expenses[i])
	}
	return &dto.ExpenseListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *expenseService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("expense", err)
	}

	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return nil, err
		}
		e.Date = date
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.Amount != nil {
		if err := nonNegative("amount", *req.Amount); err != nil {
			return nil, err
		}
		e.Amount = *req.Amount
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionUpdate, model.EntityExpense, e.ID.String(), "Updated expense "+e.Description)
	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound("expense", err)
	}
	if err := s.repo.Delete(ctx, e.ID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionDelete, model.EntityExpense, e.ID.String(), "Deleted expense "+e.Description)
	return nil
}
