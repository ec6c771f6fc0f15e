package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/inventory"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/storage"
)

const DefaultRelatedCount = 4

type CatalogService struct {
	products   ProductRepository
	catalog    CatalogRepository
	images     ImageStore
	validate   *validator.Validate
	logger     *zap.Logger
	group      singleflight.Group
	retryLimit int
	now        func() time.Time
	newID      func() string
	shuffle    func(n int, swap func(i, j int))
}

func NewCatalogService(products ProductRepository, catalog CatalogRepository, images ImageStore, logger *zap.Logger, retryLimit int) *CatalogService {
	if retryLimit < 1 {
		retryLimit = DefaultStockRetryLimit
	}
	return &CatalogService{
		products:   products,
		catalog:    catalog,
		images:     images,
		validate:   newValidator(),
		logger:     logger,
		retryLimit: retryLimit,
		now:        time.Now,
		newID:      uuid.NewString,
		shuffle:    rand.Shuffle,
	}
}

// applyInput copies admin input onto p. A supplied final price wins and the
// discount is derived from it; otherwise the final price is derived from the
// discount. The aggregate stock is always recomputed.
func applyInput(p *domain.Product, in domain.ProductInput) {
	p.ProductName = strings.TrimSpace(in.ProductName)
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price
	p.Images = append([]string(nil), in.Images...)
	p.ProductColors = domain.CloneColors(in.ProductColors)

	if in.FinalPrice != nil {
		p.FinalPrice = *in.FinalPrice
		p.Discount = domain.DiscountFor(in.Price, *in.FinalPrice)
	} else {
		p.Discount = in.Discount
		p.FinalPrice = domain.FinalPriceFor(in.Price, in.Discount)
	}
	p.TotalStock = inventory.TotalStock(p.ProductColors)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	now := s.now().UTC()
	product := &domain.Product{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(product, in)

	if err := s.products.CreateProduct(ctx, product); err != nil {
		s.logger.Error("Failed to save product",
			zap.String("product_id", product.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.Int("total_stock", product.TotalStock))

	return product, nil
}

// UpdateProduct replaces every editable field of the product. When in.Version
// is set it must equal the stored version.
func (s *CatalogService) UpdateProduct(ctx context.Context, productID string, in domain.ProductInput) (*domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if in.Version != nil && *in.Version != product.Version {
		return nil, domain.ErrVersionConflict
	}

	applyInput(product, in)
	if err := s.products.ReplaceProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated",
		zap.String("product_id", productID),
		zap.Int64("version", product.Version),
		zap.Int("total_stock", product.TotalStock))

	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", productID))
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.products.GetProduct(ctx, productID)
}

// listByCategory collapses concurrent scans of the same category into one.
func (s *CatalogService) listByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	v, err, _ := s.group.Do("products:"+category, func() (interface{}, error) {
		return s.products.ListProducts(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	all, err := s.listByCategory(ctx, filter.Category)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// RelatedProducts picks up to n other products at random.
func (s *CatalogService) RelatedProducts(ctx context.Context, productID string, n int) ([]domain.Product, error) {
	if n <= 0 {
		n = DefaultRelatedCount
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	all, err := s.listByCategory(ctx, "")
	if err != nil {
		return nil, err
	}

	others := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.ID != productID {
			others = append(others, p)
		}
	}
	s.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	if len(others) > n {
		others = others[:n]
	}
	return others, nil
}

func (s *CatalogService) VariantOptions(ctx context.Context, productID, color, size string) (inventory.VariantOptions, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return inventory.VariantOptions{}, err
	}
	return inventory.Options(product, color, size), nil
}

// ReconcileStock recomputes totalStock from the variants and writes it back
// only when it drifted. It reports whether a write happened.
func (s *CatalogService) ReconcileStock(ctx context.Context, productID string) (bool, error) {
	for attempt := 1; ; attempt++ {
		product, err := s.products.GetProduct(ctx, productID)
		if err != nil {
			return false, err
		}
		before := product.TotalStock
		if !inventory.Recount(product) {
			return false, nil
		}

		_, err = s.products.SaveStock(ctx, product.ID, product.ProductColors, product.TotalStock, product.Version)
		if err == nil {
			s.logger.Info("Total stock reconciled",
				zap.String("product_id", productID),
				zap.Int("previous_total", before),
				zap.Int("total_stock", product.TotalStock))
			return true, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) || attempt >= s.retryLimit {
			return false, err
		}
	}
}

func (s *CatalogService) UploadImage(ctx context.Context, name, contentType string, size int64, body io.Reader) (string, error) {
	url, err := s.images.Upload(ctx, name, contentType, size, body)
	if errors.Is(err, storage.ErrInvalidName) {
		return "", domain.NewValidationError("image", "Invalid file name")
	}
	if err != nil {
		s.logger.Error("Failed to upload image", zap.String("name", name), zap.Error(err))
		return "", err
	}
	return url, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("name", "Name is required")
	}
	return name, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *CatalogService) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	existing, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, fmt.Errorf("%w: %q", domain.ErrCategoryExists, name)
		}
	}

	category := &domain.Category{ID: s.newID(), Name: name}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.catalog.DeleteCategory(ctx, id)
}

func (s *CatalogService) ListSizes(ctx context.Context) ([]domain.Size, error) {
	return s.catalog.ListSizes(ctx)
}

func (s *CatalogService) AddSize(ctx context.Context, name string) (*domain.Size, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	existing, err := s.catalog.ListSizes(ctx)
	if err != nil {
		return nil, err
	}
	for _, sz := range existing {
		if strings.EqualFold(sz.Name, name) {
			return nil, fmt.Errorf("%w: %q", domain.ErrSizeExists, name)
		}
	}

	size := &domain.Size{ID: s.newID(), Name: name}
	if err := s.catalog.CreateSize(ctx, size); err != nil {
		return nil, err
	}
	return size, nil
}

func (s *CatalogService) DeleteSize(ctx context.Context, id string) error {
	return s.catalog.DeleteSize(ctx, id)
}

// FormOptions loads categories and sizes for the product form concurrently.
func (s *CatalogService) FormOptions(ctx context.Context) (*domain.FormOptions, error) {
	var opts domain.FormOptions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opts.Categories, err = s.catalog.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		opts.Sizes, err = s.catalog.ListSizes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (s *CatalogService) GetContact(ctx context.Context) (*domain.SiteContact, error) {
	return s.catalog.GetContact(ctx)
}

func (s *CatalogService) SaveContact(ctx context.Context, contact domain.SiteContact) (*domain.SiteContact, error) {
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	if err := validateContact(s.validate, &contact); err != nil {
		return nil, err
	}
	if err := s.catalog.SaveContact(ctx, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}
