package order

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gostorefront/storefront/internal/cart"
	"github.com/gostorefront/storefront/internal/product"
)

var ErrEmptyCart = errors.New("cart is empty")

// Service turns a cart snapshot into a persisted order. Payment is
// mocked: placement always succeeds once the write commits, and stock is
// deliberately not decremented.
type Service struct {
	orders   Repository
	products product.Repository
}

func NewService(orders Repository, products product.Repository) *Service {
	return &Service{orders: orders, products: products}
}

// Place resolves the cart against the catalog, freezes each resolvable
// entry's unit price at the product's current price, and commits the
// order with its items atomically. Entries whose product has vanished
// are skipped, matching the cart's lenient pricing policy; if every
// entry is unresolvable the order is still created, with zero items and
// a 0.00 total. An empty cart creates nothing.
func (s *Service) Place(ctx context.Context, userID string, c cart.Cart) (*Order, error) {
	if len(c) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	resolved, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	o := &Order{ID: uuid.NewString(), UserID: userID, Total: decimal.Zero}
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		p, ok := resolved[id]
		if !ok {
			continue
		}
		qty := c[id]
		items = append(items, Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: id,
			Quantity:  qty,
			UnitPrice: p.Price,
		})
		o.Total = o.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}

	if err := s.orders.Create(ctx, o, items); err != nil {
		return nil, err
	}
	return o, nil
}
