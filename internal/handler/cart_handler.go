package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/service"
)

const CartSessionHeader = "X-Cart-Session"

// cartSession reads the caller's cart session, starting a new one when absent.
// The id is always echoed back.
func cartSession(c *gin.Context) string {
	id := c.GetHeader(CartSessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(CartSessionHeader, id)
	return id
}

type CartHandler struct {
	cartService *service.CartService
	logger      *zap.Logger
}

func NewCartHandler(cartService *service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	summary, err := h.cartService.Summary(c.Request.Context(), cartSession(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get cart")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req domain.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	summary, err := h.cartService.AddLine(c.Request.Context(), cartSession(c), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, summary)
}

type lineOp func(ctx context.Context, sessionID string, key domain.LineKey) (*domain.CartSummary, error)

func (h *CartHandler) withLine(c *gin.Context, bind func(any) error, op lineOp) {
	var key domain.LineKey
	if err := bind(&key); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	summary, err := op(c.Request.Context(), cartSession(c), key)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) IncrementItem(c *gin.Context) {
	h.withLine(c, c.ShouldBindJSON, h.cartService.Increment)
}

func (h *CartHandler) DecrementItem(c *gin.Context) {
	h.withLine(c, c.ShouldBindJSON, h.cartService.Decrement)
}

// RemoveItem takes the line key from the query string: ?id=&selectedColor=&selectedSize=
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.withLine(c, c.ShouldBindQuery, h.cartService.Remove)
}
