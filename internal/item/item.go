// Package item models the things a customer can put in a basket.
package item

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/catalog"
)

// Item is a purchasable product. Implementations are immutable values; their zero
// values are not valid items, use the constructors.
type Item interface {
	// SKU is the catalog code of the base product.
	SKU() string
	Kind() catalog.Kind
	// Price is the unit price including any add-ons.
	Price() decimal.Decimal
	Equal(other Item) bool
	String() string
}

// Filling is an add-on for a bagel.
type Filling struct {
	code catalog.FillingCode
}

// NewFilling validates code against the catalog.
func NewFilling(code catalog.FillingCode) (Filling, error) {
	if !code.Valid() {
		return Filling{}, fmt.Errorf("new filling: %w: %q", catalog.ErrUnknownCode, string(code))
	}
	return Filling{code: code}, nil
}

// ParseFilling builds a filling from a SKU or variant name.
func ParseFilling(value string) (Filling, error) {
	code, err := catalog.ParseFilling(value)
	if err != nil {
		return Filling{}, err
	}
	return Filling{code: code}, nil
}

// Code returns the filling code.
func (f Filling) Code() catalog.FillingCode { return f.code }

// Price returns the filling surcharge.
func (f Filling) Price() decimal.Decimal { return catalog.MustPriceOf(f.code.SKU()) }

func (f Filling) String() string {
	p, err := catalog.Lookup(f.code.SKU())
	if err != nil {
		return f.code.SKU()
	}
	return p.Display()
}

// Bagel is a bagel with an optional filling.
type Bagel struct {
	code    catalog.BagelCode
	filling *Filling
}

// NewBagel validates code against the catalog and attaches at most one filling.
func NewBagel(code catalog.BagelCode, filling ...Filling) (Bagel, error) {
	if !code.Valid() {
		return Bagel{}, fmt.Errorf("new bagel: %w: %q", catalog.ErrUnknownCode, string(code))
	}
	if len(filling) > 1 {
		return Bagel{}, fmt.Errorf("new bagel: a bagel takes one filling, got %d", len(filling))
	}
	b := Bagel{code: code}
	if len(filling) == 1 {
		f := filling[0]
		if !f.code.Valid() {
			return Bagel{}, fmt.Errorf("new bagel: %w: %q", catalog.ErrUnknownCode, string(f.code))
		}
		b.filling = &f
	}
	return b, nil
}

// ParseBagel builds a bagel from SKU or variant names. An empty filling means none.
func ParseBagel(value, filling string) (Bagel, error) {
	code, err := catalog.ParseBagel(value)
	if err != nil {
		return Bagel{}, err
	}
	if filling == "" {
		return Bagel{code: code}, nil
	}
	f, err := ParseFilling(filling)
	if err != nil {
		return Bagel{}, err
	}
	return Bagel{code: code, filling: &f}, nil
}

// Code returns the bagel code.
func (b Bagel) Code() catalog.BagelCode { return b.code }

// SKU implements Item.
func (b Bagel) SKU() string { return b.code.SKU() }

// Kind implements Item.
func (Bagel) Kind() catalog.Kind { return catalog.KindBagel }

// Filling returns the attached filling, if any.
func (b Bagel) Filling() (Filling, bool) {
	if b.filling == nil {
		return Filling{}, false
	}
	return *b.filling, true
}

// BasePrice is the bagel price without its filling.
func (b Bagel) BasePrice() decimal.Decimal { return catalog.MustPriceOf(b.code.SKU()) }

// Price implements Item.
func (b Bagel) Price() decimal.Decimal {
	price := b.BasePrice()
	if b.filling != nil {
		price = price.Add(b.filling.Price())
	}
	return price
}

// Equal implements Item. Bagels are equal when code and filling match.
func (b Bagel) Equal(other Item) bool {
	o, ok := other.(Bagel)
	if !ok || o.code != b.code {
		return false
	}
	if b.filling == nil || o.filling == nil {
		return b.filling == nil && o.filling == nil
	}
	return b.filling.code == o.filling.code
}

func (b Bagel) String() string {
	p, err := catalog.Lookup(b.code.SKU())
	if err != nil {
		return b.code.SKU()
	}
	if b.filling == nil {
		return p.Display()
	}
	return p.Display() + " with " + b.filling.String()
}

// Coffee is a cup of coffee.
type Coffee struct {
	code catalog.CoffeeCode
}

// NewCoffee validates code against the catalog.
func NewCoffee(code catalog.CoffeeCode) (Coffee, error) {
	if !code.Valid() {
		return Coffee{}, fmt.Errorf("new coffee: %w: %q", catalog.ErrUnknownCode, string(code))
	}
	return Coffee{code: code}, nil
}

// ParseCoffee builds a coffee from a SKU or variant name.
func ParseCoffee(value string) (Coffee, error) {
	code, err := catalog.ParseCoffee(value)
	if err != nil {
		return Coffee{}, err
	}
	return Coffee{code: code}, nil
}

// Code returns the coffee code.
func (c Coffee) Code() catalog.CoffeeCode { return c.code }

// SKU implements Item.
func (c Coffee) SKU() string { return c.code.SKU() }

// Kind implements Item.
func (Coffee) Kind() catalog.Kind { return catalog.KindCoffee }

// Price implements Item.
func (c Coffee) Price() decimal.Decimal { return catalog.MustPriceOf(c.code.SKU()) }

// Equal implements Item.
func (c Coffee) Equal(other Item) bool {
	o, ok := other.(Coffee)
	return ok && o.code == c.code
}

func (c Coffee) String() string {
	p, err := catalog.Lookup(c.code.SKU())
	if err != nil {
		return c.code.SKU()
	}
	return p.Display()
}
