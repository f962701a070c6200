package models

import "time"

// Order statuses. pending -> processing -> shipped -> delivered,
// with cancelled as a terminal branch off pending/processing.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses. pending -> paid | failed; paid -> refunded.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

var orderStatusNext = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

var paymentStatusNext = map[string][]string{
	PaymentPending:  {PaymentPaid, PaymentFailed},
	PaymentPaid:     {PaymentRefunded},
	PaymentFailed:   {},
	PaymentRefunded: {},
}

// ValidOrderStatus reports whether s names a known order status.
func ValidOrderStatus(s string) bool {
	_, ok := orderStatusNext[s]
	return ok
}

// ValidPaymentStatus reports whether s names a known payment status.
func ValidPaymentStatus(s string) bool {
	_, ok := paymentStatusNext[s]
	return ok
}

// CanTransitionOrder reports whether an order may move from -> to.
// Staying on the same status is always allowed (no-op updates).
func CanTransitionOrder(from, to string) bool {
	if from == to {
		return ValidOrderStatus(from)
	}
	for _, next := range orderStatusNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment reports whether payment state may move from -> to.
func CanTransitionPayment(from, to string) bool {
	if from == to {
		return ValidPaymentStatus(from)
	}
	for _, next := range paymentStatusNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is the model for the 'orders' table.
type Order struct {
	ID              int64    `json:"id" db:"id"`
	OrderNumber     string   `json:"orderNumber" db:"order_number"`
	UserID          int64    `json:"userId" db:"user_id"`
	Status          string   `json:"status" db:"status"`
	PaymentStatus   string   `json:"paymentStatus" db:"payment_status"`
	TotalAmount     float64  `json:"totalAmount" db:"total_amount"`
	ShippingAddress Address  `json:"shippingAddress" db:"shipping_address"` // JSON column
	BillingAddress  *Address `json:"billingAddress,omitempty" db:"billing_address"`
	PaymentMethod   *string  `json:"paymentMethod,omitempty" db:"payment_method"`
	TrackingNumber  *string  `json:"trackingNumber,omitempty" db:"tracking_number"`
	Notes           *string  `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joined line items (populated manually)
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is an immutable snapshot of a purchased line. Name, image
// and price are captured at purchase time so later product edits or
// deletion never rewrite order history.
type OrderItem struct {
	ID              int64     `json:"id" db:"id"`
	OrderID         int64     `json:"orderId" db:"order_id"`
	ProductID       *int64    `json:"productId,omitempty" db:"product_id"`
	Quantity        int       `json:"quantity" db:"quantity"`
	Price           float64   `json:"price" db:"price"`
	ProductName     string    `json:"productName" db:"product_name"`
	ProductImageURL *string   `json:"productImageUrl,omitempty" db:"product_image_url"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
