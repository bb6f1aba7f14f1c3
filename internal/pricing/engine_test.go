package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bagel/internal/catalog"
	"github.com/noah-isme/backend-bagel/internal/item"
)

func bagels(t *testing.T, code catalog.BagelCode, n int, filling ...catalog.FillingCode) []item.Item {
	t.Helper()
	var fs []item.Filling
	for _, fc := range filling {
		f, err := item.NewFilling(fc)
		require.NoError(t, err)
		fs = append(fs, f)
	}
	out := make([]item.Item, 0, n)
	for i := 0; i < n; i++ {
		b, err := item.NewBagel(code, fs...)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func coffees(t *testing.T, code catalog.CoffeeCode, n int) []item.Item {
	t.Helper()
	out := make([]item.Item, 0, n)
	for i := 0; i < n; i++ {
		c, err := item.NewCoffee(code)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func concat(groups ...[]item.Item) []item.Item {
	var out []item.Item
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func total(items []item.Item, rules Rules) Summary {
	return Compute(FromItems(items), rules)
}

func specialOffersBasket(t *testing.T) []item.Item {
	return concat(
		bagels(t, catalog.BGLO, 2),
		bagels(t, catalog.BGLP, 12),
		bagels(t, catalog.BGLE, 6),
		coffees(t, catalog.COFB, 3),
	)
}

func TestNoDiscountBelowThresholds(t *testing.T) {
	s := total(bagels(t, catalog.BGLO, 2), DefaultRules())
	require.Equal(t, "0.98", s.Subtotal.StringFixed(2))
	require.True(t, s.Discount.IsZero())
	require.Equal(t, "0.98", s.Total.StringFixed(2))
	require.Empty(t, s.Promotions)
}

func TestSpecialOffers(t *testing.T) {
	s := total(specialOffersBasket(t), DefaultRules())
	require.Equal(t, "11.57", s.Subtotal.StringFixed(2))
	require.Equal(t, "1.60", s.Discount.StringFixed(2))
	require.True(t, s.Total.Equal(decimal.RequireFromString("9.97")), "got %s", s.Total)

	require.Len(t, s.Promotions, 3)
	require.Equal(t, Applied{Promotion: "6 for 2.49", SKU: "BGLE", Count: 1, Savings: s.Promotions[0].Savings}, s.Promotions[0])
	require.Equal(t, "0.45", s.Promotions[0].Savings.StringFixed(2))
	require.Equal(t, "BGLP", s.Promotions[1].SKU)
	require.Equal(t, "0.69", s.Promotions[1].Savings.StringFixed(2))
	require.Equal(t, "COFB", s.Promotions[2].SKU)
	require.Equal(t, "BGLO", s.Promotions[2].Partner)
	require.Equal(t, 2, s.Promotions[2].Count)
	require.Equal(t, "0.46", s.Promotions[2].Savings.StringFixed(2))
}

func TestSpecialOffersWithoutCoffeePairing(t *testing.T) {
	rules := DefaultRules()
	rules.CoffeeBagelPrice = decimal.Zero
	s := total(specialOffersBasket(t), rules)
	require.Equal(t, "10.43", s.Total.StringFixed(2))
}

func TestSixteenBagels(t *testing.T) {
	onion := total(bagels(t, catalog.BGLO, 16), DefaultRules())
	require.Equal(t, "5.95", onion.Total.StringFixed(2))

	plain := total(bagels(t, catalog.BGLP, 16), DefaultRules())
	require.Equal(t, "5.55", plain.Total.StringFixed(2))
}

func TestBundlesTakenLargestFirst(t *testing.T) {
	s := total(bagels(t, catalog.BGLO, 18), DefaultRules())
	require.Equal(t, "6.48", s.Total.StringFixed(2))
	require.Len(t, s.Promotions, 2)
	require.Equal(t, "12 for 3.99", s.Promotions[0].Promotion)
	require.Equal(t, "6 for 2.49", s.Promotions[1].Promotion)
}

func TestBundleSkippedWhenNotCheaper(t *testing.T) {
	s := total(bagels(t, catalog.BGLP, 6), DefaultRules())
	require.Equal(t, "2.34", s.Total.StringFixed(2))
	require.Empty(t, s.Promotions)
}

func TestBundlesDoNotMixVarieties(t *testing.T) {
	s := total(concat(bagels(t, catalog.BGLO, 3), bagels(t, catalog.BGLS, 3)), DefaultRules())
	require.True(t, s.Discount.IsZero())
	require.Equal(t, "2.94", s.Total.StringFixed(2))
}

func TestFillingSurchargeNotDiscounted(t *testing.T) {
	s := total(bagels(t, catalog.BGLP, 12, catalog.FILB), DefaultRules())
	require.Equal(t, "6.12", s.Subtotal.StringFixed(2))
	require.Equal(t, "0.69", s.Discount.StringFixed(2))
	require.Equal(t, "5.43", s.Total.StringFixed(2))
}

func TestCoffeePairsWithMostExpensiveLeftovers(t *testing.T) {
	items := concat(
		bagels(t, catalog.BGLP, 1),
		bagels(t, catalog.BGLS, 1),
		coffees(t, catalog.COFL, 1),
	)
	s := total(items, DefaultRules())
	require.Len(t, s.Promotions, 1)
	require.Equal(t, "COFL", s.Promotions[0].SKU)
	require.Equal(t, "BGLS", s.Promotions[0].Partner)
	// 1.29 + 0.49 - 1.25
	require.Equal(t, "0.53", s.Promotions[0].Savings.StringFixed(2))
	require.Equal(t, "1.64", s.Total.StringFixed(2))
}

func TestCoffeeWithoutBagel(t *testing.T) {
	s := total(coffees(t, catalog.COFC, 2), DefaultRules())
	require.True(t, s.Discount.IsZero())
	require.Equal(t, "2.58", s.Total.StringFixed(2))
}

func TestPairSkippedWhenNotCheaper(t *testing.T) {
	rules := DefaultRules()
	rules.CoffeeBagelPrice = decimal.RequireFromString("2.00")
	s := total(concat(bagels(t, catalog.BGLP, 1), coffees(t, catalog.COFB, 1)), rules)
	require.Empty(t, s.Promotions)
}

func TestComputeIsOrderIndependent(t *testing.T) {
	items := concat(
		specialOffersBasket(t),
		bagels(t, catalog.BGLS, 7, catalog.FILH),
		coffees(t, catalog.COFW, 4),
	)
	want := total(items, DefaultRules())

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		shuffled := append([]item.Item(nil), items...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := total(shuffled, DefaultRules())
		require.True(t, want.Total.Equal(got.Total), "permutation %d: %s != %s", i, got.Total, want.Total)
		require.Equal(t, want.Promotions, got.Promotions)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	lines := FromItems(specialOffersBasket(t))
	first := Compute(lines, DefaultRules())
	second := Compute(lines, DefaultRules())
	require.Equal(t, first, second)
}

func TestComputeMergesDuplicateLines(t *testing.T) {
	price := decimal.RequireFromString("0.49")
	lines := []Item{
		{SKU: "BGLO", Kind: catalog.KindBagel, Qty: 10, UnitPrice: price},
		{SKU: "BGLO", Kind: catalog.KindBagel, Qty: 6, UnitPrice: price},
		{SKU: "BGLE", Kind: catalog.KindBagel, Qty: 0, UnitPrice: price},
	}
	s := Compute(lines, DefaultRules())
	require.Equal(t, "5.95", s.Total.StringFixed(2))
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, DefaultRules())
	require.True(t, s.Total.IsZero())
	require.True(t, s.Discount.IsZero())
}
