package receipt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bagel/internal/basket"
	"github.com/noah-isme/backend-bagel/internal/catalog"
	"github.com/noah-isme/backend-bagel/internal/item"
	"github.com/noah-isme/backend-bagel/internal/order"
	"github.com/noah-isme/backend-bagel/internal/pricing"
	"github.com/noah-isme/backend-bagel/internal/receipt"
)

var placedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func placeOrder(t *testing.T, fill func(b *basket.Basket)) *order.Order {
	t.Helper()
	store := order.NewStore(order.StoreConfig{
		Rules:  pricing.DefaultRules(),
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return placedAt },
	})
	b := basket.New()
	fill(b)
	store.AddBasket(b)
	id, err := store.PlaceOrder(context.Background(), b)
	require.NoError(t, err)
	ord, err := store.GetOrder(id)
	require.NoError(t, err)
	return ord
}

func add(t *testing.T, b *basket.Basket, sku string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		it, err := item.Parse(sku, "")
		require.NoError(t, err)
		require.True(t, b.AddItem(it))
	}
}

func TestRenderDiscountedOrder(t *testing.T) {
	ord := placeOrder(t, func(b *basket.Basket) {
		add(t, b, "BGLO", 2)
		add(t, b, "BGLP", 12)
		add(t, b, "BGLE", 6)
		add(t, b, "COFB", 3)
	})
	out := receipt.Render(ord)

	require.Contains(t, out, "Bob's Bagels")
	require.Contains(t, out, "2024-03-01 09:30:00")
	require.Contains(t, out, ord.ID().String())
	require.Contains(t, out, "Plain Bagel")
	require.Contains(t, out, "12 for 3.99")
	require.Contains(t, out, "6 for 2.49")
	require.Contains(t, out, "Coffee & Bagel for 1.25")

	lines := strings.Split(out, "\n")
	require.True(t, hasRow(lines, "Subtotal", "11.57"))
	require.True(t, hasRow(lines, "Discount", "-1.60"))
	require.True(t, hasRow(lines, "Total", "9.97"))
	require.Contains(t, out, "You saved 1.60")
}

func TestRenderWithoutDiscountOmitsDiscountRow(t *testing.T) {
	ord := placeOrder(t, func(b *basket.Basket) {
		add(t, b, "BGLO", 2)
	})
	out := receipt.Render(ord)
	require.True(t, hasRow(strings.Split(out, "\n"), "Total", "0.98"))
	require.NotContains(t, out, "Discount")
	require.NotContains(t, out, "You saved")
}

func TestRenderShowsFillingSurcharge(t *testing.T) {
	ord := placeOrder(t, func(b *basket.Basket) {
		bagel, err := item.ParseBagel("BGLO", "FILB")
		require.NoError(t, err)
		require.True(t, b.AddItem(bagel))
	})
	out := receipt.Render(ord)
	require.True(t, hasRow(strings.Split(out, "\n"), "  + fillings", "0.12"))
	require.True(t, hasRow(strings.Split(out, "\n"), "Total", "0.61"))
}

func TestRenderWithOptions(t *testing.T) {
	ord := placeOrder(t, func(b *basket.Basket) { add(t, b, string(catalog.COFL), 1) })
	out := receipt.RenderWith(ord, receipt.Options{Title: "Night Shift", Width: 60})
	require.Contains(t, out, "Night Shift")
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Total") {
			require.Len(t, line, 60)
		}
	}
}

func TestRenderClampsWidth(t *testing.T) {
	ord := placeOrder(t, func(b *basket.Basket) { add(t, b, "BGLO", 1) })
	out := receipt.RenderWith(ord, receipt.Options{Width: 1 << 30})
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), receipt.MaxWidth)
		if strings.HasPrefix(line, "Total") {
			require.Len(t, line, receipt.MaxWidth)
		}
	}
}

func TestPrint(t *testing.T) {
	ord := placeOrder(t, func(b *basket.Basket) { add(t, b, "BGLS", 1) })
	var buf bytes.Buffer
	require.NoError(t, receipt.Print(&buf, ord))
	require.Equal(t, receipt.Render(ord), buf.String())
	require.NotEqual(t, uuid.Nil, ord.ID())
}

func hasRow(lines []string, left, right string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, left) && strings.HasSuffix(l, " "+right) {
			return true
		}
	}
	return false
}
