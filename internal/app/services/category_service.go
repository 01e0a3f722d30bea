package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Asus75000/sae-prof/internal/pkg/validation"
)

// CategoryService defines the sport category operations
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, id int64) (*dto.CategoryResponse, error)
	Create(ctx context.Context, actor auth.Identity, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, actor auth.Identity, id int64, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	categoryRepo repositories.ICategoryRepository
}

// NewCategoryService creates a new category service instance
func NewCategoryService(categoryRepo repositories.ICategoryRepository) CategoryService {
	return &categoryServiceImpl{categoryRepo: categoryRepo}
}

// List returns every category by label
func (s *categoryServiceImpl) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving categories: %w", err)
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toCategoryResponse(c))
	}
	return resp, nil
}

// Get returns one category
func (s *categoryServiceImpl) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

// Create adds a category; labels are unique
func (s *categoryServiceImpl) Create(ctx context.Context, actor auth.Identity, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := actor.Require(auth.PermManageCategories); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	if err := validation.ValidateCategoryLabel(label).Err(); err != nil {
		return nil, err
	}

	category := &models.SportCategory{Label: label}
	if _, err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	logger.Info().Int64("categoryID", category.ID).Str("label", label).Msg("Category created")
	resp := toCategoryResponse(category)
	return &resp, nil
}

// Update renames a category
func (s *categoryServiceImpl) Update(ctx context.Context, actor auth.Identity, id int64, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := actor.Require(auth.PermManageCategories); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	if err := validation.ValidateCategoryLabel(label).Err(); err != nil {
		return nil, err
	}

	category := &models.SportCategory{ID: id, Label: label}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category that no sport event uses
func (s *categoryServiceImpl) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if err := actor.Require(auth.PermManageCategories); err != nil {
		return err
	}

	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountEvents(ctx, id)
	if err != nil {
		return fmt.Errorf("error counting category events: %w", err)
	}
	if count > 0 {
		return apperrors.ErrCategoryInUse.WithDetails(map[string]interface{}{"eventCount": count})
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("categoryID", id).Msg("Category deleted")
	return nil
}
