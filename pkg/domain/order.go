package domain

import "time"

// OrderStatus is the fulfillment state of an order. Transitions are decided
// server-side; the client only displays them or, for admins, requests one.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderPaid           OrderStatus = "paid"
	OrderCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists statuses in the order an admin cycles through them.
var OrderStatuses = []OrderStatus{
	OrderPending, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderPaid, OrderCancelled,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:        "Pending",
	OrderPreparing:      "Preparing",
	OrderOutForDelivery: "Out for Delivery",
	OrderDelivered:      "Delivered",
	OrderPaid:           "Paid",
	OrderCancelled:      "Cancelled",
}

// Label returns the human label, or the raw value for unknown statuses.
func (s OrderStatus) Label() string {
	if l, ok := orderStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// Next returns the status after s in OrderStatuses, wrapping around.
func (s OrderStatus) Next() OrderStatus {
	for i, st := range OrderStatuses {
		if st == s {
			return OrderStatuses[(i+1)%len(OrderStatuses)]
		}
	}
	return OrderStatuses[0]
}

// DeliveryCities are the cities the kitchen delivers to.
var DeliveryCities = []string{"Cairo", "Giza", "Alexandria", "Mansoura", "Tanta", "Zagazig", "Ismailia", "Suez"}

// PaymentCashOnDelivery is the only payment method the storefront offers.
const PaymentCashOnDelivery = "cash_on_delivery"

// DeliveryAddress is the address captured at checkout.
type DeliveryAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip,omitempty"`
	Phone  string `json:"phone"`
}

// Missing returns the names of required fields that are blank.
func (a DeliveryAddress) Missing() []string {
	var out []string
	if a.Street == "" {
		out = append(out, "street")
	}
	if a.City == "" {
		out = append(out, "city")
	}
	if a.Phone == "" {
		out = append(out, "phone")
	}
	return out
}

// CreateOrderRequest is the payload for POST /orders/create.
type CreateOrderRequest struct {
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// UserRef is a populated user reference on admin listings.
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is a placed order.
type Order struct {
	ID              string          `json:"_id"`
	OrderNumber     string          `json:"orderNumber"`
	Status          OrderStatus     `json:"status"`
	Items           []CartItem      `json:"items,omitempty"`
	TotalPrice      float64         `json:"totalPrice"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
