// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/opencatalog/catalog-backend/internal/models"
	"github.com/opencatalog/catalog-backend/internal/utils"
)

// Notifier is the sink the catalog service raises alerts through. Delivery is
// best-effort: a failing notifier never fails the product write.
type Notifier interface {
	Notify(title, message string, severity models.NotificationSeverity, productID *uuid.UUID) error
}

type CatalogService struct {
	db                *gorm.DB
	notifier          Notifier
	lowStockThreshold int
}

type CreateProductRequest struct {
	Name        string               `json:"name" validate:"required,max=255"`
	SKU         string               `json:"sku" validate:"required,sku"`
	Description string               `json:"description,omitempty"`
	Price       *decimal.Decimal     `json:"price,omitempty"`
	Stock       *int                 `json:"stock,omitempty"`
	Image       string               `json:"image,omitempty"`
	Status      models.ProductStatus `json:"status,omitempty"`
	CategoryIDs []uuid.UUID          `json:"category_ids,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string               `json:"name,omitempty" validate:"omitempty,max=255"`
	SKU         *string               `json:"sku,omitempty" validate:"omitempty,sku"`
	Description *string               `json:"description,omitempty"`
	Price       *decimal.Decimal      `json:"price,omitempty"`
	Stock       *int                  `json:"stock,omitempty"`
	Image       *string               `json:"image,omitempty"`
	Status      *models.ProductStatus `json:"status,omitempty"`
	CategoryIDs *[]uuid.UUID          `json:"category_ids,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Status   *models.ProductStatus `json:"status,omitempty"`
	LowStock *bool                 `json:"low_stock,omitempty"`
}

func NewCatalogService(db *gorm.DB, notifier Notifier, lowStockThreshold int) *CatalogService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = LowStockThreshold
	}
	return &CatalogService{
		db:                db,
		notifier:          notifier,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Price:       decimal.Zero,
		Image:       req.Image,
		Status:      models.ProductStatusActive,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Status != "" {
		product.Status = req.Status
	}

	// The product row and its join entries are written in one transaction so
	// category associations are never partially persisted.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(tx, req.Name, req.SKU, nil); err != nil {
			return err
		}

		categories, err := s.resolveCategories(tx, req.CategoryIDs)
		if err != nil {
			return err
		}
		product.Categories = categories

		if err := tx.Create(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return s.duplicateKeyConflict(req.Name, req.SKU, nil)
			}
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(product.ID)
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Categories").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := s.validateUpdate(req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var name, sku string
		if req.Name != nil {
			name = *req.Name
		}
		if req.SKU != nil {
			sku = *req.SKU
		}
		// Uniqueness checks exclude the record being updated.
		if err := s.checkUnique(tx, name, sku, &id); err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return s.duplicateKeyConflict(name, sku, &id)
				}
				return fmt.Errorf("failed to update product: %w", err)
			}
		}

		if req.CategoryIDs != nil {
			categories, err := s.resolveCategories(tx, *req.CategoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
				return fmt.Errorf("failed to update categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	// The low-stock rule runs whenever the update touched stock, even if the
	// value is unchanged or was already below the threshold.
	if req.Stock != nil {
		s.raiseStockAlert(updated)
	}

	return updated, nil
}

func (s *CatalogService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Join rows go with the product; the categories themselves stay.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to remove category associations: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

func (s *CatalogService) ListProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Categories")

	// Apply filters
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.LowStock != nil && *params.LowStock {
		query = query.Where("stock < ?", s.lowStockThreshold)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", searchTerm, searchTerm)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"name", "sku", "price", "stock", "created_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// Helper methods

func (s *CatalogService) validateCreate(req *CreateProductRequest) error {
	verrs := structValidationErrors(utils.ValidateStruct(req))

	if req.Price != nil {
		verrs = append(verrs, validatePrice(*req.Price)...)
	}
	if req.Stock != nil && *req.Stock < 0 {
		verrs = append(verrs, FieldError{Field: "stock", Reason: "stock must not be negative"})
	}
	if req.Status != "" && !req.Status.Valid() {
		verrs = append(verrs, FieldError{Field: "status", Reason: "status must be either active or inactive"})
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}

func (s *CatalogService) validateUpdate(req *UpdateProductRequest) error {
	verrs := structValidationErrors(utils.ValidateStruct(req))

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		verrs = append(verrs, FieldError{Field: "name", Reason: "name must not be empty"})
	}
	if req.SKU != nil && *req.SKU == "" {
		verrs = append(verrs, FieldError{Field: "sku", Reason: "sku must not be empty"})
	}
	if req.Price != nil {
		verrs = append(verrs, validatePrice(*req.Price)...)
	}
	if req.Stock != nil && *req.Stock < 0 {
		verrs = append(verrs, FieldError{Field: "stock", Reason: "stock must not be negative"})
	}
	if req.Status != nil && !req.Status.Valid() {
		verrs = append(verrs, FieldError{Field: "status", Reason: "status must be either active or inactive"})
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}

func validatePrice(price decimal.Decimal) ValidationErrors {
	var verrs ValidationErrors
	if price.IsNegative() {
		verrs = append(verrs, FieldError{Field: "price", Reason: "price must not be negative"})
	}
	if price.Exponent() < -2 {
		verrs = append(verrs, FieldError{Field: "price", Reason: "price must have at most two decimal places"})
	}
	return verrs
}

func structValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	var verrs ValidationErrors
	for _, ve := range utils.GetValidationErrors(err) {
		verrs = append(verrs, FieldError{Field: ve.Field, Reason: ve.Message})
	}
	if len(verrs) == 0 {
		verrs = append(verrs, FieldError{Field: "request", Reason: err.Error()})
	}
	return verrs
}

// checkUnique reports a conflict when another non-deleted product already
// holds the given name or sku. Empty values are skipped. This check gives
// field-level errors; the partial unique indexes remain the authority under
// concurrent writes.
func (s *CatalogService) checkUnique(tx *gorm.DB, name, sku string, excludeID *uuid.UUID) error {
	if name != "" {
		query := tx.Model(&models.Product{}).Where("name = ?", name)
		if excludeID != nil {
			query = query.Where("id <> ?", *excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return &ConflictError{Field: "name", Value: name}
		}
	}

	if sku != "" {
		query := tx.Model(&models.Product{}).Where("sku = ?", sku)
		if excludeID != nil {
			query = query.Where("id <> ?", *excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return &ConflictError{Field: "sku", Value: sku}
		}
	}

	return nil
}

// duplicateKeyConflict attributes a unique-index violation raised by a
// concurrent write that slipped past checkUnique. It queries outside the
// failed transaction because the conflicting row was committed elsewhere.
func (s *CatalogService) duplicateKeyConflict(name, sku string, excludeID *uuid.UUID) error {
	if name != "" {
		query := s.db.Model(&models.Product{}).Where("name = ?", name)
		if excludeID != nil {
			query = query.Where("id <> ?", *excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err == nil && count > 0 {
			return &ConflictError{Field: "name", Value: name}
		}
	}
	return &ConflictError{Field: "sku", Value: sku}
}

// resolveCategories loads the referenced categories, deduplicating ids so the
// join table never receives duplicate entries.
func (s *CatalogService) resolveCategories(tx *gorm.DB, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var categories []models.Category
	if err := tx.Where("id IN ?", unique).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	if len(categories) != len(unique) {
		return nil, ValidationErrors{{Field: "categories", Reason: "one or more categories do not exist"}}
	}

	return categories, nil
}

func (s *CatalogService) raiseStockAlert(product *models.Product) {
	alert, ok := EvaluateStockAlert(product.Name, product.Stock, s.lowStockThreshold)
	if !ok || s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(alert.Title, alert.Message, alert.Severity, &product.ID); err != nil {
		// Fire-and-forget: the product write already succeeded.
		logrus.WithError(err).WithField("product_id", product.ID).Error("Failed to deliver low stock alert")
	}
}
