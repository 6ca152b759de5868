package domain

type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Active      bool   `db:"active" json:"active"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

type Product struct {
	ID          int64   `db:"id" json:"id"`
	CategoryID  int64   `db:"category_id" json:"category_id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Unit        string  `db:"unit" json:"unit"` // e.g. "1L", "500g", "dozen"
	Stock       int     `db:"stock" json:"stock"`
	ImageURL    string  `db:"image_url" json:"image_url,omitempty"`
	Active      bool    `db:"active" json:"active"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at,omitempty"`
}

// Order statuses. Delivered is terminal: the row is archived into
// order_history and removed from orders.
const (
	OrderPending        = "Pending"
	OrderProcessing     = "Processing"
	OrderOutForDelivery = "Out for Delivery"
	OrderDelivered      = "Delivered"
	OrderCancelled      = "Cancelled"
	OrderSubscribed     = "Subscribed"
)

const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

const (
	SubscriptionActive    = "Active"
	SubscriptionInactive  = "Inactive"
	SubscriptionCancelled = "Cancelled"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderOutForDelivery, OrderDelivered, OrderCancelled, OrderSubscribed:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type Order struct {
	ID            int64   `db:"id" json:"id"`
	UserID        int64   `db:"user_id" json:"user_id"`
	ProductID     int64   `db:"product_id" json:"product_id"`
	ProductName   string  `db:"product_name" json:"product_name"`
	Quantity      int     `db:"quantity" json:"quantity"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
	Total         float64 `db:"total" json:"total"`
	Status        string  `db:"status" json:"status"`
	PaymentStatus string  `db:"payment_status" json:"payment_status"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
	UpdatedAt     string  `db:"updated_at" json:"updated_at,omitempty"`
}

// ArchivedOrder is a delivered order copied into order_history.
type ArchivedOrder struct {
	ID            int64   `db:"id" json:"id"`
	UserID        int64   `db:"user_id" json:"user_id"`
	ProductID     int64   `db:"product_id" json:"product_id"`
	Quantity      int     `db:"quantity" json:"quantity"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
	Total         float64 `db:"total" json:"total"`
	Status        string  `db:"status" json:"status"`
	PaymentStatus string  `db:"payment_status" json:"payment_status"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
	DeliveredAt   string  `db:"delivered_at" json:"delivered_at"`
}

type Subscription struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	OrderID   int64  `db:"order_id" json:"order_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"` // per delivery cycle
	StartsOn  string `db:"starts_on" json:"starts_on"`
	EndsOn    string `db:"ends_on" json:"ends_on"`
	Status    string `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

// Inventory log change types, written alongside every stock mutation.
const (
	StockAdded    = "Added"
	StockRemoved  = "Removed"
	StockSold     = "Sold"
	StockReturned = "Returned"
)

type InventoryLog struct {
	ID         int64  `db:"id" json:"id"`
	ProductID  int64  `db:"product_id" json:"product_id"`
	ChangeType string `db:"change_type" json:"change_type"`
	Quantity   int    `db:"quantity" json:"quantity"`
	ActorID    int64  `db:"actor_id" json:"actor_id"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}
