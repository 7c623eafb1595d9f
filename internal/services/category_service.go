// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opencatalog/catalog-backend/internal/models"
	"github.com/opencatalog/catalog-backend/internal/utils"
)

type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if verrs := structValidationErrors(utils.ValidateStruct(req)); len(verrs) > 0 {
		return nil, verrs
	}

	category := &models.Category{Name: req.Name}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// FindOrCreateCategory backs the admin form's inline "create option" flow:
// pick an existing category by name (case-insensitive) or create it on the
// spot, then associate it in a separate update call.
func (s *CategoryService) FindOrCreateCategory(name string) (*models.Category, error) {
	if verrs := structValidationErrors(utils.ValidateStruct(&CreateCategoryRequest{Name: name})); len(verrs) > 0 {
		return nil, verrs
	}

	var category models.Category
	err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	category = models.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

func (s *CategoryService) GetCategory(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) ListCategories(params utils.PaginationParams) ([]models.Category, int64, error) {
	query := s.db.Model(&models.Category{})

	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	allowedSortFields := []string{"name", "created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return categories, total, nil
}

// DeleteCategory removes the category and its join rows. Products keep
// existing; a category's lifecycle is independent of the products in it.
func (s *CategoryService) DeleteCategory(id uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&category).Association("Products").Clear(); err != nil {
			return fmt.Errorf("failed to remove product associations: %w", err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}
