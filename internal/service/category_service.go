package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Joe-Bills/moto-spares-manager/internal/dto"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService defines CRUD operations for categories.
type CategoryService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	audit AuditService
}

func NewCategoryService(repo repository.CategoryRepository, audit AuditService) CategoryService {
	return &categoryService{repo: repo, audit: audit}
}

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// ensureUniqueName fails with ErrConflict when another category already uses name.
func (s *categoryService) ensureUniqueName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing != nil && existing.ID != self {
		return fmt.Errorf("category %q %w", name, ErrConflict)
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if err := s.ensureUniqueName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &model.Category{Name: name, Description: req.Description}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", duplicate("category", c.Name, err))
	}

	s.audit.Record(ctx, actor, model.ActionCreate, model.EntityCategory, c.ID.String(), "Created category "+c.Name)
	resp := toCategoryResponse(c)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, len(list))
	for i := range list {
		resp[i] = toCategoryResponse(&list[i])
	}
	return resp, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("category", err)
	}
	resp := toCategoryResponse(c)
	return &resp, nil
}

func (s *categoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("category", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		if err := s.ensureUniqueName(ctx, name, c.ID); err != nil {
			return nil, err
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = req.Description
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", duplicate("category", c.Name, err))
	}

	s.audit.Record(ctx, actor, model.ActionUpdate, model.EntityCategory, c.ID.String(), "Updated category "+c.Name)
	resp := toCategoryResponse(c)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound("category", err)
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionDelete, model.EntityCategory, c.ID.String(), "Deleted category "+c.Name)
	return nil
}
