// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/opencatalog/catalog-backend/internal/services"
	"github.com/opencatalog/catalog-backend/internal/utils"
)

// respondServiceError maps service errors onto the API error envelope.
// Validation and conflict errors carry enough detail for the admin UI to
// highlight the offending field.
func respondServiceError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	var conflict *services.ConflictError

	switch {
	case errors.As(err, &verrs):
		utils.ErrorResponse(c, 400, "VALIDATION_ERROR", "Invalid input", verrs)
	case errors.As(err, &conflict):
		utils.ConflictResponse(c, conflict.Error(), conflict)
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "Product")
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.NotFoundResponse(c, "Category")
	case errors.Is(err, services.ErrNotificationNotFound):
		utils.NotFoundResponse(c, "Notification")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
