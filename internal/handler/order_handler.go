package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// Checkout places an order from the session cart, or from "items" when the
// shopper buys directly.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	req.SessionID = cartSession(c)

	order, err := h.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := domain.OrderFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder restores the order's stock, then removes it.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete order")
		return
	}

	c.Status(http.StatusNoContent)
}
