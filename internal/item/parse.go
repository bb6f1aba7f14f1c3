package item

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/catalog"
)

// Parse builds a bagel or coffee from a SKU or variant name. The filling is only
// accepted for bagels.
func Parse(value, filling string) (Item, error) {
	value = strings.TrimSpace(value)
	filling = strings.TrimSpace(filling)
	if _, err := catalog.ParseBagel(value); err == nil {
		b, err := ParseBagel(value, filling)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	c, err := ParseCoffee(value)
	if err != nil {
		return nil, fmt.Errorf("%w: item %q", catalog.ErrUnknownCode, value)
	}
	if filling != "" {
		return nil, fmt.Errorf("%w: coffee %q does not take a filling", catalog.ErrUnknownCode, value)
	}
	return c, nil
}

// Line is the serialisable view of an item.
type Line struct {
	SKU     string          `json:"sku"`
	Kind    catalog.Kind    `json:"kind"`
	Name    string          `json:"name"`
	Filling string          `json:"filling,omitempty"`
	Price   decimal.Decimal `json:"price"`
}

// Describe converts an item into its serialisable view.
func Describe(it Item) Line {
	line := Line{
		SKU:   it.SKU(),
		Kind:  it.Kind(),
		Name:  it.String(),
		Price: it.Price(),
	}
	if b, ok := it.(Bagel); ok {
		if f, ok := b.Filling(); ok {
			line.Filling = f.Code().SKU()
		}
	}
	return line
}
