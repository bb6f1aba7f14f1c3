// Command receipt prices a basket from the command line and prints its receipt.
//
//	receipt -items BGLO=2,BGLP=12,BGLE=6,COFB=3
//	receipt -items BGLO+FILB=2,COFL -bundles 6:2.49 -pair-price 0
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/basket"
	"github.com/noah-isme/backend-bagel/internal/item"
	"github.com/noah-isme/backend-bagel/internal/obs"
	"github.com/noah-isme/backend-bagel/internal/order"
	"github.com/noah-isme/backend-bagel/internal/pricing"
	"github.com/noah-isme/backend-bagel/internal/receipt"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("receipt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	items := fs.String("items", "", "comma separated SKU[+FILLING][=QTY] entries")
	capacity := fs.Int("capacity", basket.DefaultCapacity, "basket capacity")
	bundles := fs.String("bundles", "", "bagel bundles as size:price pairs, e.g. 12:3.99,6:2.49")
	pairPrice := fs.String("pair-price", "", "coffee and bagel price, 0 disables the offer")
	width := fs.Int("width", receipt.DefaultWidth, "receipt width in columns")
	asJSON := fs.Bool("json", false, "print the order as JSON instead of a receipt")
	logFormat := fs.String("log-format", "console", "log format (json or console)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	logger := obs.NewLoggerTo(stderr, *logFormat)

	rules, err := buildRules(*bundles, *pairPrice)
	if err != nil {
		logger.Error().Err(err).Msg("invalid promotions")
		return 2
	}
	b, err := basket.NewWithCapacity(*capacity)
	if err != nil {
		logger.Error().Err(err).Msg("create basket")
		return 2
	}
	entries, skipped, err := parseItems(*items, b.Capacity())
	if err != nil {
		logger.Error().Err(err).Msg("invalid items")
		return 2
	}
	for _, it := range entries {
		b.AddItem(it)
	}
	if skipped > 0 {
		logger.Warn().Int("skipped", skipped).Int("capacity", b.Capacity()).Msg("basket full, items skipped")
	}

	store := order.NewStore(order.StoreConfig{Rules: rules, Logger: logger})
	store.AddBasket(b)
	id, err := store.PlaceOrder(context.Background(), b)
	if err != nil {
		logger.Error().Err(err).Msg("place order")
		return 1
	}
	ord, err := store.GetOrder(id)
	if err != nil {
		logger.Error().Err(err).Msg("load order")
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(order.NewView(ord)); err != nil {
			logger.Error().Err(err).Msg("encode order")
			return 1
		}
		return 0
	}
	if _, err := io.WriteString(stdout, receipt.RenderWith(ord, receipt.Options{Width: *width})); err != nil {
		logger.Error().Err(err).Msg("write receipt")
		return 1
	}
	return 0
}

func buildRules(bundles, pairPrice string) (pricing.Rules, error) {
	rules := pricing.DefaultRules()
	if strings.TrimSpace(bundles) != "" {
		parsed, err := pricing.ParseBundles(bundles)
		if err != nil {
			return pricing.Rules{}, err
		}
		rules.BagelBundles = parsed
	}
	if strings.TrimSpace(pairPrice) != "" {
		price, err := decimal.NewFromString(strings.TrimSpace(pairPrice))
		if err != nil {
			return pricing.Rules{}, fmt.Errorf("pair price %q: %w", pairPrice, err)
		}
		rules.CoffeeBagelPrice = price
	}
	return rules, rules.Validate()
}

// parseItems expands entries such as "BGLO+FILB=2" into at most limit items and
// reports how many were left out.
func parseItems(value string, limit int) ([]item.Item, int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, 0, errors.New("no items given")
	}
	skipped := 0
	var out []item.Item
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		product, qtyRaw, hasQty := strings.Cut(entry, "=")
		qty := 1
		if hasQty {
			n, err := strconv.Atoi(strings.TrimSpace(qtyRaw))
			if err != nil || n < 1 {
				return nil, 0, fmt.Errorf("entry %q: quantity must be a positive integer", entry)
			}
			qty = n
		}
		sku, filling, _ := strings.Cut(product, "+")
		it, err := item.Parse(sku, filling)
		if err != nil {
			return nil, 0, fmt.Errorf("entry %q: %w", entry, err)
		}
		room := max(limit-len(out), 0)
		take := min(qty, room)
		for i := 0; i < take; i++ {
			out = append(out, it)
		}
		skipped += qty - take
	}
	return out, skipped, nil
}
