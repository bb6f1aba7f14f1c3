package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCode is returned when a code or name is not registered in the catalog.
var ErrUnknownCode = errors.New("unknown catalog code")

// Product is a single catalog entry.
type Product struct {
	SKU     string          `json:"sku"`
	Kind    Kind            `json:"name"`
	Variant string          `json:"variant"`
	Price   decimal.Decimal `json:"price"`
}

// Display returns a human readable label such as "Onion Bagel".
func (p Product) Display() string {
	if p.Kind == KindFilling {
		return p.Variant
	}
	return p.Variant + " " + string(p.Kind)
}

var inventory = []Product{
	{SKU: "BGLO", Kind: KindBagel, Variant: "Onion", Price: decimal.RequireFromString("0.49")},
	{SKU: "BGLP", Kind: KindBagel, Variant: "Plain", Price: decimal.RequireFromString("0.39")},
	{SKU: "BGLE", Kind: KindBagel, Variant: "Everything", Price: decimal.RequireFromString("0.49")},
	{SKU: "BGLS", Kind: KindBagel, Variant: "Sesame", Price: decimal.RequireFromString("0.49")},
	{SKU: "COFB", Kind: KindCoffee, Variant: "Black", Price: decimal.RequireFromString("0.99")},
	{SKU: "COFW", Kind: KindCoffee, Variant: "White", Price: decimal.RequireFromString("1.19")},
	{SKU: "COFC", Kind: KindCoffee, Variant: "Cappuccino", Price: decimal.RequireFromString("1.29")},
	{SKU: "COFL", Kind: KindCoffee, Variant: "Latte", Price: decimal.RequireFromString("1.29")},
	{SKU: "FILB", Kind: KindFilling, Variant: "Bacon", Price: decimal.RequireFromString("0.12")},
	{SKU: "FILE", Kind: KindFilling, Variant: "Egg", Price: decimal.RequireFromString("0.12")},
	{SKU: "FILC", Kind: KindFilling, Variant: "Cheese", Price: decimal.RequireFromString("0.12")},
	{SKU: "FILX", Kind: KindFilling, Variant: "Cream Cheese", Price: decimal.RequireFromString("0.12")},
	{SKU: "FILS", Kind: KindFilling, Variant: "Smoked Salmon", Price: decimal.RequireFromString("0.12")},
	{SKU: "FILH", Kind: KindFilling, Variant: "Ham", Price: decimal.RequireFromString("0.12")},
}

// products indexes inventory by SKU. Built once and never mutated.
var products = func() map[string]Product {
	out := make(map[string]Product, len(inventory))
	for _, p := range inventory {
		out[p.SKU] = p
	}
	return out
}()

// Lookup returns the product registered under sku.
func Lookup(sku string) (Product, error) {
	p, ok := products[strings.ToUpper(strings.TrimSpace(sku))]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownCode, sku)
	}
	return p, nil
}

// PriceOf returns the unit price registered for sku.
func PriceOf(sku string) (decimal.Decimal, error) {
	p, err := Lookup(sku)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Price, nil
}

// MustPriceOf is PriceOf for codes that were validated at construction time.
func MustPriceOf(sku string) decimal.Decimal {
	price, err := PriceOf(sku)
	if err != nil {
		panic(err)
	}
	return price
}

// Products lists every catalog entry in inventory order.
func Products() []Product {
	out := make([]Product, len(inventory))
	copy(out, inventory)
	return out
}

// ProductsOf lists the catalog entries of a single kind.
func ProductsOf(kind Kind) []Product {
	out := make([]Product, 0, len(inventory))
	for _, p := range inventory {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Fillings lists the fillings a bagel can be ordered with.
func Fillings() []Product {
	return ProductsOf(KindFilling)
}
