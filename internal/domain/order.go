package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus accepts the four known statuses, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusShipped, OrderStatusCancelled} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type ContactInfo struct {
	Email string `dynamodbav:"email" json:"email" validate:"storeemail"`
	Phone string `dynamodbav:"phone" json:"phone" validate:"phone10"`
}

type DeliveryInfo struct {
	FirstName  string `dynamodbav:"firstName"            json:"firstName"            validate:"required"`
	LastName   string `dynamodbav:"lastName"             json:"lastName"             validate:"required"`
	Address    string `dynamodbav:"address"              json:"address"              validate:"required"`
	City       string `dynamodbav:"city"                 json:"city"                 validate:"required"`
	Apartment  string `dynamodbav:"apartment,omitempty"  json:"apartment,omitempty"`
	PostalCode string `dynamodbav:"postalCode,omitempty" json:"postalCode,omitempty"`
}

// CartLine is one selected variant in a cart or an order.
type CartLine struct {
	ProductID     string  `dynamodbav:"id"            json:"id"`
	Name          string  `dynamodbav:"name"          json:"name"`
	Image         string  `dynamodbav:"image"         json:"image"`
	Price         float64 `dynamodbav:"price"         json:"price"`
	Quantity      int     `dynamodbav:"quantity"      json:"quantity"`
	SelectedColor string  `dynamodbav:"selectedColor" json:"selectedColor"`
	SelectedSize  string  `dynamodbav:"selectedSize"  json:"selectedSize"`
}

// LineKey identifies a cart line by its variant.
type LineKey struct {
	ProductID string `json:"id"            form:"id"`
	Color     string `json:"selectedColor" form:"selectedColor"`
	Size      string `json:"selectedSize"  form:"selectedSize"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.SelectedColor, Size: l.SelectedSize}
}

type Order struct {
	ID           string       `dynamodbav:"id"           json:"id"`
	ContactInfo  ContactInfo  `dynamodbav:"contactInfo"  json:"contactInfo"`
	DeliveryInfo DeliveryInfo `dynamodbav:"deliveryInfo" json:"deliveryInfo"`
	CartItems    []CartLine   `dynamodbav:"cartItems"    json:"cartItems"`
	TotalAmount  float64      `dynamodbav:"totalAmount"  json:"totalAmount"`
	OrderDate    time.Time    `dynamodbav:"orderDate"    json:"orderDate"`
	Status       OrderStatus  `dynamodbav:"status"       json:"status"`
}

type OrderFilter struct {
	Query  string
	Status string
}

// Matches applies the back-office search: email or phone substring, and a
// status filter where "All" or empty matches everything.
func (f OrderFilter) Matches(o *Order) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, "All") && !strings.EqualFold(f.Status, string(o.Status)) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.ContactInfo.Email), q) ||
		strings.Contains(strings.ToLower(o.ContactInfo.Phone), q)
}

// CheckoutRequest is what a shopper submits. When Items is set the order is a
// direct purchase and the session cart is left untouched.
type CheckoutRequest struct {
	SessionID    string       `json:"-"`
	ContactInfo  ContactInfo  `json:"contactInfo"`
	DeliveryInfo DeliveryInfo `json:"deliveryInfo"`
	Items        []CartLine   `json:"items,omitempty"`
}

type AddToCartRequest struct {
	ProductID     string `json:"id"            binding:"required"`
	SelectedColor string `json:"selectedColor" binding:"required"`
	SelectedSize  string `json:"selectedSize"  binding:"required"`
	Quantity      int    `json:"quantity"      binding:"required,min=1"`
}

type CartSummary struct {
	SessionID string     `json:"sessionId"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
