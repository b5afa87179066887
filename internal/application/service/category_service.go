package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

func (s *CategoryService) slugFor(ctx context.Context, name string, self uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewFieldError("name", "Name is required")
	}
	slug := utils.Slugify(name)
	if slug == "" {
		return "", apperror.NewFieldError("name", "Name must contain letters or digits")
	}

	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ID != self {
		return "", apperror.NewConflictError("Category with this name already exists")
	}
	return slug, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	slug, err := s.slugFor(ctx, name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	category := &entity.Category{Name: strings.TrimSpace(name), Slug: slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists categories ordered by name
func (s *CategoryService) ListCategories(ctx context.Context, search string) ([]entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []entity.Category{}
	}
	return categories, nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	slug, err := s.slugFor(ctx, name, category.ID)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(name)
	category.Slug = slug

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that no active product uses.
// Inactive products keep their rows with the category cleared.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.productRepo.CountActiveByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Category still has active products")
	}

	return s.categoryRepo.Delete(ctx, id)
}
