package domain

import "time"

type EventType string

const (
	EventOrderPlaced        EventType = "order.placed"
	EventOrderCancelled     EventType = "order.cancelled"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is published after an order change has been persisted.
type OrderEvent struct {
	EventID     string           `json:"event_id"`
	Type        EventType        `json:"type"`
	OrderID     string           `json:"order_id"`
	Status      OrderStatus      `json:"status"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderEventItem `json:"items"`
	Timestamp   time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	ProductID     string `json:"product_id"`
	SelectedColor string `json:"selected_color"`
	SelectedSize  string `json:"selected_size"`
	Quantity      int    `json:"quantity"`
}

func NewOrderEvent(eventID string, t EventType, o *Order, at time.Time) OrderEvent {
	items := make([]OrderEventItem, len(o.CartItems))
	for i, l := range o.CartItems {
		items[i] = OrderEventItem{
			ProductID:     l.ProductID,
			SelectedColor: l.SelectedColor,
			SelectedSize:  l.SelectedSize,
			Quantity:      l.Quantity,
		}
	}
	return OrderEvent{
		EventID:     eventID,
		Type:        t,
		OrderID:     o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		Timestamp:   at,
	}
}
