package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/service"
)

// CatalogHandler serves categories, sizes and the store's contact details.
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req domain.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	category, err := h.catalogService.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListSizes(c *gin.Context) {
	sizes, err := h.catalogService.ListSizes(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list sizes")
		return
	}
	c.JSON(http.StatusOK, sizes)
}

func (h *CatalogHandler) CreateSize(c *gin.Context) {
	var req domain.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	size, err := h.catalogService.AddSize(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create size")
		return
	}
	c.JSON(http.StatusCreated, size)
}

func (h *CatalogHandler) DeleteSize(c *gin.Context) {
	if err := h.catalogService.DeleteSize(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete size")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) FormOptions(c *gin.Context) {
	opts, err := h.catalogService.FormOptions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load form options")
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *CatalogHandler) GetContact(c *gin.Context) {
	contact, err := h.catalogService.GetContact(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get contact info")
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *CatalogHandler) SaveContact(c *gin.Context) {
	var req domain.SiteContact
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	contact, err := h.catalogService.SaveContact(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save contact info")
		return
	}
	c.JSON(http.StatusOK, contact)
}
