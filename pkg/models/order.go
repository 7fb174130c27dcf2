package models

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

type LineItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID                string      `json:"id"                           validate:"required"`
	CustomerID        string      `json:"customer_id"`
	CustomerName      string      `json:"customer_name"`
	Status            OrderStatus `json:"status"                       validate:"required,oneof=pending processing shipped delivered cancelled"`
	Items             []LineItem  `json:"items"`
	Total             float64     `json:"total"`
	OrderDate         string      `json:"order_date"`
	EstimatedDelivery string      `json:"estimated_delivery,omitempty"`
}

// ItemsTotal sums quantity times unit price over the line items.
func (o Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.Price
	}

	return total
}
