package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var knownErrors = []errorMapping{
	{domain.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{domain.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{domain.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{domain.ErrSizeNotFound, http.StatusNotFound, "Size not found"},
	{domain.ErrVariantNotFound, http.StatusNotFound, "Color or size not found"},
	{domain.ErrCartLineNotFound, http.StatusNotFound, "Cart item not found"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid order status"},
	{domain.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{domain.ErrVariantUnavailable, http.StatusConflict, "Not enough stock"},
	{domain.ErrVersionConflict, http.StatusConflict, "Product was modified concurrently, please retry"},
	{domain.ErrCategoryExists, http.StatusConflict, "Category already exists"},
	{domain.ErrSizeExists, http.StatusConflict, "Size already exists"},
}

// respondError maps domain errors to HTTP responses. Anything unknown is
// logged and reported as fallback with a 500.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
		return
	}

	for _, m := range knownErrors {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{
				"error":  m.message,
				"detail": err.Error(),
			})
			return
		}
	}

	logger.Error(fallback,
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": fallback,
	})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("Invalid request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request format",
	})
}
