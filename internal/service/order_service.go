package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/inventory"
)

const DefaultStockRetryLimit = 3

// OrderService runs the order lifecycle: placing an order decrements stock,
// deleting one restores it.
type OrderService struct {
	products   ProductRepository
	orders     OrderRepository
	carts      CartStore
	publisher  EventPublisher
	validate   *validator.Validate
	logger     *zap.Logger
	retryLimit int
	now        func() time.Time
	newID      func() string
}

func NewOrderService(
	products ProductRepository,
	orders OrderRepository,
	carts CartStore,
	publisher EventPublisher,
	logger *zap.Logger,
	retryLimit int,
) *OrderService {
	if retryLimit < 1 {
		retryLimit = DefaultStockRetryLimit
	}
	return &OrderService{
		products:   products,
		orders:     orders,
		carts:      carts,
		publisher:  publisher,
		validate:   newValidator(),
		logger:     logger,
		retryLimit: retryLimit,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// applyStock adds delta to one variant of the line's product and persists
// productColors and totalStock in a single conditional write, re-reading the
// product when another writer got there first.
//
// A variant that no longer exists is skipped: applied is false and err is nil.
func (s *OrderService) applyStock(ctx context.Context, line domain.CartLine, delta int) (*domain.Product, bool, error) {
	for attempt := 1; ; attempt++ {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, false, err
		}

		colors, err := inventory.AdjustStock(product.ProductColors, line.SelectedColor, line.SelectedSize, delta)
		if errors.Is(err, domain.ErrVariantNotFound) {
			s.logger.Warn("Variant not found, stock left unchanged",
				zap.String("product_id", line.ProductID),
				zap.String("color", line.SelectedColor),
				zap.String("size", line.SelectedSize),
				zap.Int("delta", delta))
			return product, false, nil
		}

		total := inventory.TotalStock(colors)
		_, err = s.products.SaveStock(ctx, product.ID, colors, total, product.Version)
		if err == nil {
			product.ProductColors = colors
			product.TotalStock = total
			return product, true, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt >= s.retryLimit {
			return product, false, err
		}

		s.logger.Debug("Stock write conflicted, retrying",
			zap.String("product_id", line.ProductID),
			zap.Int("attempt", attempt))
	}
}

// restore puts back stock taken for lines, newest first. Failures are logged.
func (s *OrderService) restore(ctx context.Context, lines []domain.CartLine) {
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		if _, _, err := s.applyStock(ctx, l, l.Quantity); err != nil {
			s.logger.Error("Failed to restore stock",
				zap.String("product_id", l.ProductID),
				zap.String("color", l.SelectedColor),
				zap.String("size", l.SelectedSize),
				zap.Int("quantity", l.Quantity),
				zap.Error(err))
		}
	}
}

func normalizeCheckout(req *domain.CheckoutRequest) {
	req.ContactInfo.Email = strings.TrimSpace(req.ContactInfo.Email)
	req.ContactInfo.Phone = strings.TrimSpace(req.ContactInfo.Phone)
	d := &req.DeliveryInfo
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.Apartment = strings.TrimSpace(d.Apartment)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
}

// PlaceOrder validates the checkout form, decrements stock for every line,
// persists a Pending order and only then clears the session cart.
//
// When req.Items is set those lines are bought directly and the cart is
// neither read nor cleared. If any line or the order write fails, stock
// already taken for earlier lines is put back.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error) {
	normalizeCheckout(&req)
	if err := validateCheckout(s.validate, &req); err != nil {
		return nil, err
	}

	lines := req.Items
	fromCart := len(lines) == 0
	if fromCart {
		var err error
		lines, err = s.carts.Get(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for i, l := range lines {
		if l.Quantity < 1 {
			return nil, domain.NewValidationError(fmt.Sprintf("cartItems[%d].quantity", i), "Quantity must be at least 1")
		}
	}

	taken := make([]domain.CartLine, 0, len(lines))
	orderLines := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		product, applied, err := s.applyStock(ctx, l, -l.Quantity)
		if err != nil {
			s.logger.Error("Failed to decrement stock",
				zap.String("product_id", l.ProductID),
				zap.Error(err))
			s.restore(ctx, taken)
			return nil, fmt.Errorf("decrement stock for product %s: %w", l.ProductID, err)
		}
		if applied {
			taken = append(taken, l)
		}
		if !fromCart {
			l.Name = product.ProductName
			l.Image = product.FirstImage()
			l.Price = product.UnitPrice()
		}
		orderLines = append(orderLines, l)
	}

	order := &domain.Order{
		ID:           s.newID(),
		ContactInfo:  req.ContactInfo,
		DeliveryInfo: req.DeliveryInfo,
		CartItems:    orderLines,
		TotalAmount:  domain.TotalAmount(orderLines),
		OrderDate:    s.now().UTC(),
		Status:       domain.OrderStatusPending,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.logger.Error("Failed to save order",
			zap.String("order_id", order.ID),
			zap.Error(err))
		s.restore(ctx, taken)
		return nil, err
	}

	if fromCart {
		if err := s.carts.Clear(ctx, req.SessionID); err != nil {
			s.logger.Warn("Failed to clear cart",
				zap.String("session_id", req.SessionID),
				zap.Error(err))
		}
	}

	s.logger.Info("Order placed successfully",
		zap.String("order_id", order.ID),
		zap.Int("items_count", len(order.CartItems)),
		zap.Float64("total_amount", order.TotalAmount))

	s.publish(ctx, domain.EventOrderPlaced, order)
	return order, nil
}

// CancelOrder restores the stock of every line and deletes the order. Lines
// whose product, color or size is gone are skipped. A failed stock write stops
// the cancellation before the order is deleted.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	for _, l := range order.CartItems {
		_, _, err := s.applyStock(ctx, l, l.Quantity)
		if errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Warn("Product not found, restoration skipped",
				zap.String("order_id", orderID),
				zap.String("product_id", l.ProductID))
			continue
		}
		if err != nil {
			s.logger.Error("Failed to restore stock",
				zap.String("order_id", orderID),
				zap.String("product_id", l.ProductID),
				zap.Error(err))
			return fmt.Errorf("restore stock for product %s: %w", l.ProductID, err)
		}
	}

	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_id", orderID),
		zap.Int("items_count", len(order.CartItems)))

	order.Status = domain.OrderStatusCancelled
	s.publish(ctx, domain.EventOrderCancelled, order)
	return nil
}

// UpdateStatus changes the status field only. Any of the four statuses may be
// set from any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(next)))

	s.publish(ctx, domain.EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// ListOrders returns matching orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	all, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (s *OrderService) publish(ctx context.Context, t domain.EventType, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	event := domain.NewOrderEvent(s.newID(), t, order, s.now().UTC())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish order event",
			zap.String("type", string(t)),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
