package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/catalog"
	"github.com/noah-isme/backend-bagel/internal/item"
)

// Item is a priced line grouped by SKU.
type Item struct {
	SKU       string
	Kind      catalog.Kind
	Qty       int
	UnitPrice decimal.Decimal
	// Surcharge is the summed add-on price of the line (fillings). It is never discounted.
	Surcharge decimal.Decimal
}

// Applied records one promotion and the savings it produced.
type Applied struct {
	Promotion string          `json:"promotion"`
	SKU       string          `json:"sku"`
	Partner   string          `json:"partner,omitempty"`
	Count     int             `json:"count"`
	Savings   decimal.Decimal `json:"savings"`
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	Promotions []Applied
}

// FromItems groups basket items by SKU. Fillings are folded into the bagel line surcharge.
func FromItems(items []item.Item) []Item {
	index := map[string]int{}
	var out []Item
	for _, it := range items {
		unit := it.Price()
		surcharge := decimal.Zero
		if b, ok := it.(item.Bagel); ok {
			unit = b.BasePrice()
			if f, ok := b.Filling(); ok {
				surcharge = f.Price()
			}
		}
		i, ok := index[it.SKU()]
		if !ok {
			index[it.SKU()] = len(out)
			out = append(out, Item{SKU: it.SKU(), Kind: it.Kind(), UnitPrice: unit, Surcharge: decimal.Zero})
			i = len(out) - 1
		}
		out[i].Qty++
		out[i].Surcharge = out[i].Surcharge.Add(surcharge)
	}
	return out
}

// Compute calculates the discounted total of the provided lines. The result only
// depends on quantities per SKU, never on line order.
func Compute(items []Item, rules Rules) Summary {
	lines := merge(items)

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))).Add(l.Surcharge)
	}

	var applied []Applied
	bundles := rules.bundlesBySize()
	leftover := make(map[string]int, len(lines))
	for _, l := range lines {
		leftover[l.SKU] = l.Qty
		if l.Kind != catalog.KindBagel {
			continue
		}
		var taken []Applied
		taken, leftover[l.SKU] = applyBundles(l, bundles)
		applied = append(applied, taken...)
	}
	if rules.CoffeeBagelPrice.IsPositive() {
		applied = append(applied, pairCoffees(lines, leftover, rules.CoffeeBagelPrice)...)
	}

	discount := decimal.Zero
	for _, a := range applied {
		discount = discount.Add(a.Savings)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return Summary{
		Subtotal:   subtotal.Round(2),
		Discount:   discount.Round(2),
		Total:      subtotal.Sub(discount).Round(2),
		Promotions: applied,
	}
}

// merge collapses duplicate SKUs and sorts lines by SKU.
func merge(items []Item) []Item {
	index := map[string]int{}
	var out []Item
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		i, ok := index[it.SKU]
		if !ok {
			index[it.SKU] = len(out)
			out = append(out, it)
			continue
		}
		out[i].Qty += it.Qty
		out[i].Surcharge = out[i].Surcharge.Add(it.Surcharge)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// applyBundles takes bundles greedily from the largest size down and returns what is left.
// A bundle is skipped when it would not be cheaper than buying the bagels singly.
func applyBundles(l Item, bundles []Bundle) ([]Applied, int) {
	remaining := l.Qty
	var applied []Applied
	for _, b := range bundles {
		if b.Size <= 0 || remaining < b.Size {
			continue
		}
		regular := l.UnitPrice.Mul(decimal.NewFromInt(int64(b.Size)))
		if !b.Price.LessThan(regular) {
			continue
		}
		n := remaining / b.Size
		remaining -= n * b.Size
		applied = append(applied, Applied{
			Promotion: b.Name(),
			SKU:       l.SKU,
			Count:     n,
			Savings:   regular.Sub(b.Price).Mul(decimal.NewFromInt(int64(n))),
		})
	}
	return applied, remaining
}

type run struct {
	sku   string
	price decimal.Decimal
	n     int
}

// pairCoffees matches each coffee with a leftover bagel, most expensive first on both sides.
func pairCoffees(lines []Item, leftover map[string]int, price decimal.Decimal) []Applied {
	var bagels, coffees []run
	for _, l := range lines {
		n := leftover[l.SKU]
		if n <= 0 {
			continue
		}
		switch l.Kind {
		case catalog.KindBagel:
			bagels = append(bagels, run{sku: l.SKU, price: l.UnitPrice, n: n})
		case catalog.KindCoffee:
			coffees = append(coffees, run{sku: l.SKU, price: l.UnitPrice, n: n})
		}
	}
	byPriceDesc := func(runs []run) {
		sort.SliceStable(runs, func(i, j int) bool {
			if !runs[i].price.Equal(runs[j].price) {
				return runs[i].price.GreaterThan(runs[j].price)
			}
			return runs[i].sku < runs[j].sku
		})
	}
	byPriceDesc(bagels)
	byPriceDesc(coffees)

	var applied []Applied
	bi, ci := 0, 0
	for bi < len(bagels) && ci < len(coffees) {
		b, c := &bagels[bi], &coffees[ci]
		each := b.price.Add(c.price).Sub(price)
		// Sums only shrink from here on.
		if !each.IsPositive() {
			break
		}
		n := min(b.n, c.n)
		applied = append(applied, Applied{
			Promotion: "Coffee & Bagel for " + price.StringFixed(2),
			SKU:       c.sku,
			Partner:   b.sku,
			Count:     n,
			Savings:   each.Mul(decimal.NewFromInt(int64(n))),
		})
		b.n -= n
		c.n -= n
		if b.n == 0 {
			bi++
		}
		if c.n == 0 {
			ci++
		}
	}
	return applied
}
