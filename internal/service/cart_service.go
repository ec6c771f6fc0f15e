package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/inventory"
)

type CartService struct {
	products ProductRepository
	carts    CartStore
	logger   *zap.Logger
}

func NewCartService(products ProductRepository, carts CartStore, logger *zap.Logger) *CartService {
	return &CartService{
		products: products,
		carts:    carts,
		logger:   logger,
	}
}

func summarize(sessionID string, lines []domain.CartLine) *domain.CartSummary {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &domain.CartSummary{
		SessionID: sessionID,
		Items:     lines,
		Total:     domain.TotalAmount(lines),
	}
}

func (s *CartService) Summary(ctx context.Context, sessionID string) (*domain.CartSummary, error) {
	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return summarize(sessionID, lines), nil
}

// AddLine puts a variant in the cart. The quantity must be between 1 and the
// variant's current stock. A line for the same variant is merged.
func (s *CartService) AddLine(ctx context.Context, sessionID string, req domain.AddToCartRequest) (*domain.CartSummary, error) {
	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	color, ok := product.Color(req.SelectedColor)
	if !ok || !color.Sizes.Has(req.SelectedSize) {
		return nil, fmt.Errorf("%w: %s %s/%s", domain.ErrVariantNotFound, req.ProductID, req.SelectedColor, req.SelectedSize)
	}
	if req.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "Quantity must be at least 1")
	}
	if stock := inventory.Available(product, req.SelectedColor, req.SelectedSize); req.Quantity > stock {
		return nil, fmt.Errorf("%w: only %d left", domain.ErrVariantUnavailable, stock)
	}

	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := domain.CartLine{
		ProductID:     product.ID,
		Name:          product.ProductName,
		Image:         product.FirstImage(),
		Price:         product.UnitPrice(),
		Quantity:      req.Quantity,
		SelectedColor: req.SelectedColor,
		SelectedSize:  req.SelectedSize,
	}

	merged := false
	for i := range lines {
		if lines[i].Key() == line.Key() {
			lines[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}

	if err := s.carts.Set(ctx, sessionID, lines); err != nil {
		return nil, err
	}

	s.logger.Debug("Cart line added",
		zap.String("session_id", sessionID),
		zap.String("product_id", product.ID),
		zap.Int("quantity", req.Quantity),
		zap.Bool("merged", merged))

	return summarize(sessionID, lines), nil
}

func (s *CartService) update(ctx context.Context, sessionID string, key domain.LineKey, fn func(lines []domain.CartLine, i int) []domain.CartLine) (*domain.CartSummary, error) {
	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].Key() != key {
			continue
		}
		lines = fn(lines, i)
		if err := s.carts.Set(ctx, sessionID, lines); err != nil {
			return nil, err
		}
		return summarize(sessionID, lines), nil
	}
	return nil, domain.ErrCartLineNotFound
}

func (s *CartService) Increment(ctx context.Context, sessionID string, key domain.LineKey) (*domain.CartSummary, error) {
	return s.update(ctx, sessionID, key, func(lines []domain.CartLine, i int) []domain.CartLine {
		lines[i].Quantity++
		return lines
	})
}

// Decrement lowers a line's quantity but never below 1.
func (s *CartService) Decrement(ctx context.Context, sessionID string, key domain.LineKey) (*domain.CartSummary, error) {
	return s.update(ctx, sessionID, key, func(lines []domain.CartLine, i int) []domain.CartLine {
		if lines[i].Quantity > 1 {
			lines[i].Quantity--
		}
		return lines
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID string, key domain.LineKey) (*domain.CartSummary, error) {
	return s.update(ctx, sessionID, key, func(lines []domain.CartLine, i int) []domain.CartLine {
		return append(lines[:i], lines[i+1:]...)
	})
}
