// Package cart models the session cart: a product-id -> quantity mapping
// that lives entirely in the visitor's session credential. Operations are
// pure; the web layer owns the session load/store round trip.
package cart

import (
	"context"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gostorefront/storefront/internal/product"
)

// Cart maps product id to a strictly positive quantity.
type Cart map[string]int

// Add merges qty into any existing entry for the product. The caller has
// already validated that the product exists.
func Add(c Cart, productID string, qty int) Cart {
	out := make(Cart, len(c)+1)
	for id, q := range c {
		out[id] = q
	}
	out[productID] += qty
	if out[productID] <= 0 {
		delete(out, productID)
	}
	return out
}

// Replace builds a full replacement cart from raw client input. Values
// that do not parse, or parse negative, coerce to 0; entries at 0 are
// dropped. Applying the same input twice yields the same cart.
func Replace(raw map[string]string) Cart {
	out := Cart{}
	for id, v := range raw {
		qty := coerce(v)
		if qty > 0 {
			out[id] = qty
		}
	}
	return out
}

func coerce(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Line is a priced cart entry.
type Line struct {
	Product   product.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Price resolves every entry against the catalog in one batch and sums
// line totals. Entries whose product no longer exists are silently
// skipped; that is the storefront's lenient missing-reference policy,
// not an error. Lines come back ordered by product id.
func Price(ctx context.Context, products product.Repository, c Cart) ([]Line, decimal.Decimal, error) {
	total := decimal.Zero
	if len(c) == 0 {
		return []Line{}, total, nil
	}

	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	resolved, err := products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]Line, 0, len(ids))
	for _, id := range ids {
		p, ok := resolved[id]
		if !ok {
			continue
		}
		qty := c[id]
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, Line{Product: *p, Quantity: qty, LineTotal: lineTotal})
		total = total.Add(lineTotal)
	}
	return lines, total, nil
}
