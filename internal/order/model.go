package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the immutable record of a completed checkout. There is no
// status field: checkout mock-succeeds and orders are never cancelled.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// Item freezes quantity and unit price at order time. ProductID is a
// reference only; deleting the product later leaves it dangling.
type Item struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
