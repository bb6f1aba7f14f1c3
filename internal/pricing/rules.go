package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidRule is returned for malformed promotion definitions.
var ErrInvalidRule = errors.New("invalid promotion rule")

// Bundle sells Size bagels of one variety for Price.
type Bundle struct {
	Size  int
	Price decimal.Decimal
}

// Name is the label printed on receipts.
func (b Bundle) Name() string {
	return fmt.Sprintf("%d for %s", b.Size, b.Price.StringFixed(2))
}

// Rules is the promotion table evaluated by Compute.
type Rules struct {
	BagelBundles []Bundle
	// CoffeeBagelPrice is the price of a coffee paired with a bagel. Zero disables pairing.
	CoffeeBagelPrice decimal.Decimal
}

// DefaultRules returns the shop's standing offers.
func DefaultRules() Rules {
	return Rules{
		BagelBundles: []Bundle{
			{Size: 12, Price: decimal.RequireFromString("3.99")},
			{Size: 6, Price: decimal.RequireFromString("2.49")},
		},
		CoffeeBagelPrice: decimal.RequireFromString("1.25"),
	}
}

// Validate rejects non-positive bundle sizes and negative prices.
func (r Rules) Validate() error {
	for _, b := range r.BagelBundles {
		if b.Size <= 0 {
			return fmt.Errorf("%w: bundle size %d", ErrInvalidRule, b.Size)
		}
		if b.Price.IsNegative() {
			return fmt.Errorf("%w: bundle price %s", ErrInvalidRule, b.Price)
		}
	}
	if r.CoffeeBagelPrice.IsNegative() {
		return fmt.Errorf("%w: coffee and bagel price %s", ErrInvalidRule, r.CoffeeBagelPrice)
	}
	return nil
}

func (r Rules) bundlesBySize() []Bundle {
	out := make([]Bundle, len(r.BagelBundles))
	copy(out, r.BagelBundles)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	return out
}

// ParseBundles reads a list such as "12:3.99,6:2.49".
func ParseBundles(value string) ([]Bundle, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	var out []Bundle
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sizeRaw, priceRaw, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not size:price", ErrInvalidRule, part)
		}
		size, err := strconv.Atoi(strings.TrimSpace(sizeRaw))
		if err != nil {
			return nil, fmt.Errorf("%w: size %q: %v", ErrInvalidRule, sizeRaw, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(priceRaw))
		if err != nil {
			return nil, fmt.Errorf("%w: price %q: %v", ErrInvalidRule, priceRaw, err)
		}
		b := Bundle{Size: size, Price: price}
		if err := (Rules{BagelBundles: []Bundle{b}}).Validate(); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
