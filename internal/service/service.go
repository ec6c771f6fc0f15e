// Package service holds the storefront's business operations: the order
// lifecycle with its stock decrement and restoration, catalog management and
// the server-side cart.
package service

import (
	"context"
	"io"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	ReplaceProduct(ctx context.Context, product *domain.Product) error
	SaveStock(ctx context.Context, productID string, colors []domain.ColorVariant, totalStock int, expectedVersion int64) (int64, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID string) error
}

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListSizes(ctx context.Context) ([]domain.Size, error)
	CreateSize(ctx context.Context, s *domain.Size) error
	DeleteSize(ctx context.Context, id string) error
	GetContact(ctx context.Context) (*domain.SiteContact, error)
	SaveContact(ctx context.Context, contact *domain.SiteContact) error
}

// CartStore persists one cart per session. Set overwrites the whole cart.
type CartStore interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Set(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Clear(ctx context.Context, sessionID string) error
}

type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, size int64, body io.Reader) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}
