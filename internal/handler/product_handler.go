package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/service"
)

type ProductHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewProductHandler(catalogService *service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

func summaries(products []domain.Product) []domain.ProductSummary {
	out := make([]domain.ProductSummary, len(products))
	for i := range products {
		out[i] = products[i].Summary()
	}
	return out
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, summaries(products))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetOptions(c *gin.Context) {
	opts, err := h.catalogService.VariantOptions(c.Request.Context(), c.Param("id"), c.Query("color"), c.Query("size"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get product options")
		return
	}

	c.JSON(http.StatusOK, opts)
}

func (h *ProductHandler) GetRelated(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))

	products, err := h.catalogService.RelatedProducts(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get related products")
		return
	}

	c.JSON(http.StatusOK, summaries(products))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete product")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ReconcileStock(c *gin.Context) {
	productID := c.Param("id")

	changed, err := h.catalogService.ReconcileStock(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to reconcile stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      productID,
		"changed": changed,
	})
}

// UploadImage accepts a multipart "image" file and returns its public URL.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}
	defer f.Close()

	url, err := h.catalogService.UploadImage(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
	if err != nil {
		respondError(c, h.logger, err, "Failed to upload image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url": url,
	})
}
