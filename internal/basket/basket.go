package basket

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/item"
)

// DefaultCapacity is used by New when no capacity is configured.
const DefaultCapacity = 50

// ErrInvalidArgument is returned when a capacity change would break the basket invariant.
var ErrInvalidArgument = errors.New("invalid argument")

// Basket is a bounded, ordered collection of items. It is safe for concurrent use.
type Basket struct {
	mu       sync.Mutex
	id       uuid.UUID
	items    []item.Item
	capacity int
}

// New creates an empty basket with DefaultCapacity.
func New() *Basket {
	return &Basket{id: uuid.New(), capacity: DefaultCapacity}
}

// NewWithCapacity creates an empty basket holding at most capacity items.
func NewWithCapacity(capacity int) (*Basket, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrInvalidArgument)
	}
	return &Basket{id: uuid.New(), capacity: capacity}, nil
}

// ID returns the basket identifier.
func (b *Basket) ID() uuid.UUID { return b.id }

// AddItem appends it when there is room. A full basket is left untouched and
// false is returned.
func (b *Basket) AddItem(it item.Item) bool {
	if it == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= b.capacity {
		return false
	}
	b.items = append(b.items, it)
	return true
}

// RemoveItem removes the first item equal to it and reports whether one was found.
func (b *Basket) RemoveItem(it item.Item) bool {
	if it == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.items {
		if existing.Equal(it) {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether an item equal to it is in the basket.
func (b *Basket) Contains(it item.Item) bool {
	if it == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.items {
		if existing.Equal(it) {
			return true
		}
	}
	return false
}

// SetCapacity changes the capacity. It fails without side effects when n is
// negative or smaller than the current number of items.
func (b *Basket) SetCapacity(n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 {
		return fmt.Errorf("capacity %d is negative: %w", n, ErrInvalidArgument)
	}
	if n < len(b.items) {
		return fmt.Errorf("capacity %d is below %d items in basket: %w", n, len(b.items), ErrInvalidArgument)
	}
	b.capacity = n
	return nil
}

// Capacity returns the maximum number of items.
func (b *Basket) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Len returns the number of items in the basket.
func (b *Basket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// IsFull reports whether AddItem would be rejected.
func (b *Basket) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items) >= b.capacity
}

// IsEmpty reports whether the basket holds no items.
func (b *Basket) IsEmpty() bool {
	return b.Len() == 0
}

// Items returns a copy of the basket contents in insertion order.
func (b *Basket) Items() []item.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]item.Item, len(b.items))
	copy(out, b.items)
	return out
}

// TotalPrice sums item prices, filling surcharges included, before discounts.
func (b *Basket) TotalPrice() decimal.Decimal {
	return Total(b.Items())
}

// Total sums the unit prices of items.
func Total(items []item.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price())
	}
	return total
}

// CheckPrice returns the price of a single item, or of a filling on its own.
func CheckPrice(v interface{ Price() decimal.Decimal }) decimal.Decimal {
	return v.Price()
}
