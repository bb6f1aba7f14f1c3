package catalog

// Kind groups catalog codes by the product family they belong to.
type Kind string

const (
	KindBagel   Kind = "Bagel"
	KindCoffee  Kind = "Coffee"
	KindFilling Kind = "Filling"
)

// BagelCode identifies a bagel variety.
type BagelCode string

// FillingCode identifies a bagel filling.
type FillingCode string

// CoffeeCode identifies a coffee variety.
type CoffeeCode string

const (
	BGLO BagelCode = "BGLO"
	BGLP BagelCode = "BGLP"
	BGLE BagelCode = "BGLE"
	BGLS BagelCode = "BGLS"
)

const (
	COFB CoffeeCode = "COFB"
	COFW CoffeeCode = "COFW"
	COFC CoffeeCode = "COFC"
	COFL CoffeeCode = "COFL"
)

const (
	FILB FillingCode = "FILB"
	FILE FillingCode = "FILE"
	FILC FillingCode = "FILC"
	FILX FillingCode = "FILX"
	FILS FillingCode = "FILS"
	FILH FillingCode = "FILH"
)

// SKU returns the catalog key for the bagel code.
func (c BagelCode) SKU() string { return string(c) }

// SKU returns the catalog key for the filling code.
func (c FillingCode) SKU() string { return string(c) }

// SKU returns the catalog key for the coffee code.
func (c CoffeeCode) SKU() string { return string(c) }

// Valid reports whether the code is registered as a bagel.
func (c BagelCode) Valid() bool { return registered(string(c), KindBagel) }

// Valid reports whether the code is registered as a filling.
func (c FillingCode) Valid() bool { return registered(string(c), KindFilling) }

// Valid reports whether the code is registered as a coffee.
func (c CoffeeCode) Valid() bool { return registered(string(c), KindCoffee) }

func registered(sku string, kind Kind) bool {
	p, ok := products[sku]
	return ok && p.Kind == kind
}
