package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

// MemoryProductRepository backs LOCAL_MODE. It enforces the same version
// checks as the DynamoDB repository.
type MemoryProductRepository struct {
	mu sync.RWMutex
	m  map[string]*domain.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{m: make(map[string]*domain.Product)}
}

func (r *MemoryProductRepository) CreateProduct(_ context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[p.ID] = p.Clone()
	return nil
}

func (r *MemoryProductRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.m[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryProductRepository) ListProducts(_ context.Context, category string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.m))
	for _, p := range r.m {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, *p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryProductRepository) ReplaceProduct(_ context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.m[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if cur.Version != p.Version {
		return domain.ErrVersionConflict
	}
	p.Version++
	p.UpdatedAt = time.Now()
	r.m[p.ID] = p.Clone()
	return nil
}

func (r *MemoryProductRepository) SaveStock(_ context.Context, id string, colors []domain.ColorVariant, totalStock int, expectedVersion int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.m[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if cur.Version != expectedVersion {
		return 0, domain.ErrVersionConflict
	}
	next := cur.Clone()
	next.ProductColors = domain.CloneColors(colors)
	next.TotalStock = totalStock
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now()
	r.m[id] = next
	return next.Version, nil
}

func (r *MemoryProductRepository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.m, id)
	return nil
}

type MemoryOrderRepository struct {
	mu sync.RWMutex
	m  map[string]domain.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{m: make(map[string]domain.Order)}
}

func cloneOrder(o domain.Order) domain.Order {
	o.CartItems = append([]domain.CartLine(nil), o.CartItems...)
	return o
}

func (r *MemoryOrderRepository) CreateOrder(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[o.ID] = cloneOrder(*o)
	return nil
}

func (r *MemoryOrderRepository) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.m[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *MemoryOrderRepository) ListOrders(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Order, 0, len(r.m))
	for _, o := range r.m {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.m[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	r.m[id] = o
	return nil
}

func (r *MemoryOrderRepository) DeleteOrder(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.m, id)
	return nil
}

type MemoryCatalogRepository struct {
	mu         sync.RWMutex
	categories []domain.Category
	sizes      []domain.Size
	contact    domain.SiteContact
}

func NewMemoryCatalogRepository() *MemoryCatalogRepository {
	return &MemoryCatalogRepository{}
}

func (r *MemoryCatalogRepository) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Category{}, r.categories...), nil
}

func (r *MemoryCatalogRepository) CreateCategory(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, *c)
	return nil
}

func (r *MemoryCatalogRepository) DeleteCategory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.categories {
		if c.ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return domain.ErrCategoryNotFound
}

func (r *MemoryCatalogRepository) ListSizes(_ context.Context) ([]domain.Size, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Size{}, r.sizes...), nil
}

func (r *MemoryCatalogRepository) CreateSize(_ context.Context, s *domain.Size) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, *s)
	return nil
}

func (r *MemoryCatalogRepository) DeleteSize(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sizes {
		if s.ID == id {
			r.sizes = append(r.sizes[:i], r.sizes[i+1:]...)
			return nil
		}
	}
	return domain.ErrSizeNotFound
}

func (r *MemoryCatalogRepository) GetContact(_ context.Context) (*domain.SiteContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.contact
	return &c, nil
}

func (r *MemoryCatalogRepository) SaveContact(_ context.Context, c *domain.SiteContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contact = *c
	return nil
}
