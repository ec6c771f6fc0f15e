package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/cart"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/events"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/repository"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/service"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/storage"
	"github.com/cloud-wave-best-zizon/boutique-service/pkg/middleware"
)

const adminToken = "test-admin"

type testServer struct {
	router   *gin.Engine
	products *repository.MemoryProductRepository
	orders   *repository.MemoryOrderRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	products := repository.NewMemoryProductRepository()
	orders := repository.NewMemoryOrderRepository()
	carts := cart.NewMemoryStore()

	catalogSvc := service.NewCatalogService(products, repository.NewMemoryCatalogRepository(), storage.NewMemoryImageStore("http://cdn.test"), logger, 3)
	orderSvc := service.NewOrderService(products, orders, carts, events.NewNoopPublisher(logger), logger, 3)
	cartSvc := service.NewCartService(products, carts, logger)

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Product: NewProductHandler(catalogSvc, logger),
		Order:   NewOrderHandler(orderSvc, logger),
		Cart:    NewCartHandler(cartSvc, logger),
		Catalog: NewCatalogHandler(catalogSvc, logger),
	}, middleware.AdminGuard(adminToken))

	require.NoError(t, products.CreateProduct(context.Background(), &domain.Product{
		ID:          "P",
		ProductName: "Red Dress",
		Category:    "Dresses",
		Price:       20,
		FinalPrice:  20,
		Images:      []string{"https://img/p.jpg"},
		ProductColors: []domain.ColorVariant{{
			ColorCode: "#ff0000",
			ColorName: "Red",
			Sizes:     domain.SizeStock{{Label: "S", Count: 5}, {Label: "M", Count: 3}},
		}},
		TotalStock: 8,
	}))

	return &testServer{router: router, products: products, orders: orders}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func admin() map[string]string {
	return map[string]string{middleware.AdminTokenHeader: adminToken}
}

func checkoutBody(email, phone string) gin.H {
	return gin.H{
		"contactInfo": gin.H{"email": email, "phone": phone},
		"deliveryInfo": gin.H{
			"firstName": "Ana",
			"lastName":  "Lopez",
			"address":   "12 Rue Oberkampf",
			"city":      "Paris",
		},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/products/P", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sizes":{"S":5,"M":3}`)

	w = s.do(t, http.MethodGet, "/api/v1/products/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")
}

func TestListProductsAndOptions(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/products?category=Dresses&q=red", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.ProductSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Red Dress", list[0].Title)

	w = s.do(t, http.MethodGet, "/api/v1/products/P/options?color=Red&size=M", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var opts map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, true, opts["canAddToCart"])
	assert.Equal(t, float64(3), opts["maxQuantity"])
}

func TestCartCheckoutAndDeleteOrder(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{CartSessionHeader: "sess-1"}

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"id": "P", "selectedColor": "Red", "selectedSize": "S", "quantity": 2,
	}, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", w.Header().Get(CartSessionHeader))

	w = s.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody("ana@example.com", "0612345678"), session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 40.0, order.TotalAmount)

	p, err := s.products.GetProduct(context.Background(), "P")
	require.NoError(t, err)
	assert.Equal(t, 6, p.TotalStock)

	w = s.do(t, http.MethodGet, "/api/v1/cart", nil, session)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	w = s.do(t, http.MethodDelete, "/api/v1/admin/orders/"+order.ID, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/admin/orders/"+order.ID, nil, admin())
	assert.Equal(t, http.StatusNoContent, w.Code)

	p, err = s.products.GetProduct(context.Background(), "P")
	require.NoError(t, err)
	assert.Equal(t, 8, p.TotalStock)

	w = s.do(t, http.MethodGet, "/api/v1/admin/orders/"+order.ID, nil, admin())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutValidationErrors(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{CartSessionHeader: "sess-2"}
	s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"id": "P", "selectedColor": "Red", "selectedSize": "S", "quantity": 1,
	}, session)

	w := s.do(t, http.MethodPost, "/api/v1/checkout", checkoutBody("bad-email", "12345"), session)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid email address", body.Fields["email"])
	assert.Equal(t, "Invalid phone number. Must be 10 digits.", body.Fields["phone"])

	orders, _ := s.orders.ListOrders(context.Background())
	assert.Empty(t, orders)
}

func TestAddToCartOverStock(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"id": "P", "selectedColor": "Red", "selectedSize": "M", "quantity": 4,
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, w.Header().Get(CartSessionHeader))

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"id": "P"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartLineOps(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{CartSessionHeader: "sess-3"}
	s.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{
		"id": "P", "selectedColor": "Red", "selectedSize": "S", "quantity": 1,
	}, session)
	key := gin.H{"id": "P", "selectedColor": "Red", "selectedSize": "S"}

	w := s.do(t, http.MethodPost, "/api/v1/cart/items/increment", key, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":2`)

	w = s.do(t, http.MethodPost, "/api/v1/cart/items/decrement", key, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":1`)

	w = s.do(t, http.MethodDelete, "/api/v1/cart/items?id=P&selectedColor=Red&selectedSize=S", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	w = s.do(t, http.MethodPost, "/api/v1/cart/items/increment", key, session)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/admin/products", gin.H{
		"productName": "Coat",
		"price":       100,
		"discount":    10,
		"productColors": []gin.H{
			{"colorCode": "#000000", "colorName": "Black", "sizes": gin.H{"M": 2, "L": "3"}},
		},
	}, admin())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 90.0, created.FinalPrice)
	assert.Equal(t, 5, created.TotalStock)

	w = s.do(t, http.MethodPut, "/api/v1/admin/products/"+created.ID, gin.H{
		"productName": "Coat",
		"price":       100,
		"finalPrice":  75,
		"version":     7,
	}, admin())
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/admin/products/"+created.ID, gin.H{
		"productName": "",
		"price":       100,
	}, admin())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "productName")

	w = s.do(t, http.MethodPost, "/api/v1/admin/products/"+created.ID+"/reconcile", nil, admin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changed":false`)

	w = s.do(t, http.MethodDelete, "/api/v1/admin/products/"+created.ID, nil, admin())
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/admin/products/"+created.ID, nil, admin())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminOrderStatus(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.orders.CreateOrder(context.Background(), &domain.Order{ID: "o1", Status: domain.OrderStatusPending}))

	w := s.do(t, http.MethodPatch, "/api/v1/admin/orders/o1/status", gin.H{"status": "Shipped"}, admin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Shipped"`)

	w = s.do(t, http.MethodPatch, "/api/v1/admin/orders/o1/status", gin.H{"status": "Teleported"}, admin())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/orders?status=Shipped", nil, admin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"o1"`)
}

func TestCategoriesSizesContact(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/admin/categories", gin.H{"name": "Dresses"}, admin())
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/admin/categories", gin.H{"name": "dresses"}, admin())
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/admin/sizes", gin.H{"name": "XL"}, admin())
	require.Equal(t, http.StatusCreated, w.Code)
	var size domain.Size
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &size))

	w = s.do(t, http.MethodGet, "/api/v1/admin/form-options", nil, admin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dresses")
	assert.Contains(t, w.Body.String(), "XL")

	w = s.do(t, http.MethodDelete, "/api/v1/admin/sizes/"+size.ID, nil, admin())
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/admin/contact", gin.H{"email": "nope"}, admin())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/admin/contact", gin.H{"email": "hi@boutique.fr", "phone": "0102030405"}, admin())
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/contact", nil, nil)
	assert.Contains(t, w.Body.String(), "hi@boutique.fr")
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "front.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.AdminTokenHeader, adminToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"url":"http://cdn.test/products/front.png"}`, w.Body.String())
}
