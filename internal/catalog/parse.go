package catalog

import (
	"fmt"
	"strings"
)

// ParseBagel resolves a SKU ("BGLO") or variant name ("Onion") into a bagel code.
func ParseBagel(value string) (BagelCode, error) {
	p, err := resolve(value, KindBagel)
	if err != nil {
		return "", err
	}
	return BagelCode(p.SKU), nil
}

// ParseFilling resolves a SKU ("FILB") or variant name ("Bacon") into a filling code.
func ParseFilling(value string) (FillingCode, error) {
	p, err := resolve(value, KindFilling)
	if err != nil {
		return "", err
	}
	return FillingCode(p.SKU), nil
}

// ParseCoffee resolves a SKU ("COFB") or variant name ("Black") into a coffee code.
func ParseCoffee(value string) (CoffeeCode, error) {
	p, err := resolve(value, KindCoffee)
	if err != nil {
		return "", err
	}
	return CoffeeCode(p.SKU), nil
}

func resolve(value string, kind Kind) (Product, error) {
	key := normalize(value)
	if key == "" {
		return Product{}, fmt.Errorf("%w: empty %s code", ErrUnknownCode, strings.ToLower(string(kind)))
	}
	for _, p := range inventory {
		if p.Kind != kind {
			continue
		}
		if key == normalize(p.SKU) || key == normalize(p.Variant) || key == normalize(p.Display()) {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s %q", ErrUnknownCode, strings.ToLower(string(kind)), value)
}

func normalize(value string) string {
	value = strings.NewReplacer("_", " ", "-", " ").Replace(value)
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}
