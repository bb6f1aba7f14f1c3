// Package receipt renders placed orders as plain text.
package receipt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/catalog"
	"github.com/noah-isme/backend-bagel/internal/pricing"
)

const (
	// DefaultWidth is the column count used when Options.Width is unset.
	DefaultWidth = 40
	// MaxWidth bounds the layout; wider requests are clamped.
	MaxWidth = 120
)

// Order is the read-only view a receipt is rendered from.
type Order interface {
	ID() uuid.UUID
	Lines() []pricing.Item
	Promotions() []pricing.Applied
	TotalPrice() decimal.Decimal
	Discount() decimal.Decimal
	TotalPriceAfterDiscount() decimal.Decimal
	CreatedAt() time.Time
}

// Options tune the layout.
type Options struct {
	Title string
	Width int
}

// Render formats o using default options.
func Render(o Order) string {
	return RenderWith(o, Options{})
}

// RenderWith formats o as a receipt.
func RenderWith(o Order, opts Options) string {
	width := opts.Width
	if width < 24 {
		width = DefaultWidth
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	title := opts.Title
	if title == "" {
		title = "Bob's Bagels"
	}
	rule := strings.Repeat("-", width)

	var b strings.Builder
	b.WriteString(center(title, width))
	b.WriteByte('\n')
	b.WriteString(center(o.CreatedAt().UTC().Format("2006-01-02 15:04:05"), width))
	b.WriteByte('\n')
	b.WriteString("Order: " + o.ID().String())
	b.WriteByte('\n')
	b.WriteString(rule)
	b.WriteByte('\n')

	for _, l := range o.Lines() {
		line := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
		b.WriteString(row(fmt.Sprintf("%-18s %3d", label(l.SKU), l.Qty), line, width))
		if l.Surcharge.IsPositive() {
			b.WriteString(row("  + fillings", l.Surcharge, width))
		}
	}

	if promos := o.Promotions(); len(promos) > 0 {
		b.WriteString(rule)
		b.WriteByte('\n')
		for _, p := range promos {
			name := p.Promotion
			if p.Count > 1 {
				name = fmt.Sprintf("%s x%d", name, p.Count)
			}
			b.WriteString(row(name, p.Savings.Neg(), width))
		}
	}

	b.WriteString(rule)
	b.WriteByte('\n')
	b.WriteString(row("Subtotal", o.TotalPrice(), width))
	if o.Discount().IsPositive() {
		b.WriteString(row("Discount", o.Discount().Neg(), width))
	}
	b.WriteString(row("Total", o.TotalPriceAfterDiscount(), width))
	if o.Discount().IsPositive() {
		b.WriteByte('\n')
		b.WriteString(center(fmt.Sprintf("You saved %s on this shop", o.Discount().StringFixed(2)), width))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(center("Thank you for your order!", width))
	b.WriteByte('\n')
	return b.String()
}

// Print writes the rendered receipt of o to w.
func Print(w io.Writer, o Order) error {
	_, err := io.WriteString(w, Render(o))
	return err
}

func label(sku string) string {
	p, err := catalog.Lookup(sku)
	if err != nil {
		return sku
	}
	return p.Display()
}

func row(left string, amount decimal.Decimal, width int) string {
	right := amount.StringFixed(2)
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right + "\n"
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}
