package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/item"
	"github.com/noah-isme/backend-bagel/internal/pricing"
)

// Order is an immutable snapshot of a submitted basket and its priced totals.
type Order struct {
	id         uuid.UUID
	basketID   uuid.UUID
	items      []item.Item
	lines      []pricing.Item
	subtotal   decimal.Decimal
	discount   decimal.Decimal
	total      decimal.Decimal
	promotions []pricing.Applied
	createdAt  time.Time
}

func newOrder(id, basketID uuid.UUID, items []item.Item, rules pricing.Rules, at time.Time) *Order {
	lines := pricing.FromItems(items)
	summary := pricing.Compute(lines, rules)
	return &Order{
		id:         id,
		basketID:   basketID,
		items:      items,
		lines:      lines,
		subtotal:   summary.Subtotal,
		discount:   summary.Discount,
		total:      summary.Total,
		promotions: summary.Promotions,
		createdAt:  at,
	}
}

// ID returns the order identifier.
func (o *Order) ID() uuid.UUID { return o.id }

// BasketID returns the identifier of the basket the order was placed from.
func (o *Order) BasketID() uuid.UUID { return o.basketID }

// Items returns a copy of the ordered items in submission order.
func (o *Order) Items() []item.Item {
	out := make([]item.Item, len(o.items))
	copy(out, o.items)
	return out
}

// Lines returns the items grouped by SKU.
func (o *Order) Lines() []pricing.Item {
	out := make([]pricing.Item, len(o.lines))
	copy(out, o.lines)
	return out
}

// TotalPrice is the raw total before discounts.
func (o *Order) TotalPrice() decimal.Decimal { return o.subtotal }

// Discount is the sum of all promotion savings.
func (o *Order) Discount() decimal.Decimal { return o.discount }

// TotalPriceAfterDiscount is the amount due.
func (o *Order) TotalPriceAfterDiscount() decimal.Decimal { return o.total }

// Promotions lists the promotions that produced the discount.
func (o *Order) Promotions() []pricing.Applied {
	out := make([]pricing.Applied, len(o.promotions))
	copy(out, o.promotions)
	return out
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time { return o.createdAt }
