package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/backend-bagel/internal/basket"
	"github.com/noah-isme/backend-bagel/internal/events"
	"github.com/noah-isme/backend-bagel/internal/obs"
	"github.com/noah-isme/backend-bagel/internal/pricing"
)

var (
	// ErrNotFound indicates no order exists for the identifier.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyBasket is returned when placing an order from a basket without items.
	ErrEmptyBasket = errors.New("basket is empty")
	// ErrAlreadyPlaced is returned when a basket has already been turned into an order.
	ErrAlreadyPlaced = errors.New("basket already placed")
)

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID uuid.UUID, payload any) (events.Event, error)
}

// StoreConfig groups Store dependencies.
type StoreConfig struct {
	Rules  pricing.Rules
	Events Emitter
	Logger zerolog.Logger
	Now    func() time.Time
}

// Store holds the active baskets and the placed orders. Both tables share one
// mutex so that placing an order is atomic.
type Store struct {
	mu      sync.Mutex
	baskets map[uuid.UUID]*basket.Basket
	orders  map[uuid.UUID]*Order
	// placed maps submitted basket ids to their order ids.
	placed map[uuid.UUID]uuid.UUID

	rules  pricing.Rules
	events Emitter
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore constructs a Store.
func NewStore(cfg StoreConfig) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		baskets: make(map[uuid.UUID]*basket.Basket),
		orders:  make(map[uuid.UUID]*Order),
		placed:  make(map[uuid.UUID]uuid.UUID),
		rules:   cfg.Rules,
		events:  cfg.Events,
		logger:  cfg.Logger,
		now:     now,
	}
}

// AddBasket registers b as active. Registering the same basket twice is a no-op.
func (s *Store) AddBasket(b *basket.Basket) {
	if b == nil {
		return
	}
	s.mu.Lock()
	_, existed := s.baskets[b.ID()]
	s.baskets[b.ID()] = b
	s.mu.Unlock()
	if !existed {
		s.emit(context.Background(), events.TopicBasketOpened, b.ID(), map[string]any{"capacity": b.Capacity()})
	}
}

// Basket returns the active basket with the given id.
func (s *Store) Basket(id uuid.UUID) (*basket.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baskets[id]
	if !ok {
		return nil, fmt.Errorf("basket %s: %w", id, basket.ErrNotFound)
	}
	return b, nil
}

// PlacedOrder reports the order a basket was turned into, if any.
func (s *Store) PlacedOrder(basketID uuid.UUID) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orderID, ok := s.placed[basketID]
	return orderID, ok
}

// Baskets lists the active baskets.
func (s *Store) Baskets() []*basket.Basket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*basket.Basket, 0, len(s.baskets))
	for _, b := range s.baskets {
		out = append(out, b)
	}
	return out
}

// PlaceOrder prices the basket contents and stores the resulting order. An empty
// basket yields uuid.Nil and ErrEmptyBasket and stays active. A basket can only be
// placed once.
func (s *Store) PlaceOrder(ctx context.Context, b *basket.Basket) (uuid.UUID, error) {
	ctx, span := otel.Tracer("order.store").Start(ctx, "order.place")
	defer span.End()
	if b == nil {
		return uuid.Nil, ErrEmptyBasket
	}
	span.SetAttributes(attribute.String("basket.id", b.ID().String()))

	s.mu.Lock()
	if orderID, done := s.placed[b.ID()]; done {
		s.mu.Unlock()
		countOrder("duplicate")
		span.SetStatus(codes.Error, ErrAlreadyPlaced.Error())
		return uuid.Nil, fmt.Errorf("basket %s as order %s: %w", b.ID(), orderID, ErrAlreadyPlaced)
	}
	items := b.Items()
	if len(items) == 0 {
		s.mu.Unlock()
		countOrder("empty")
		span.SetStatus(codes.Error, ErrEmptyBasket.Error())
		return uuid.Nil, fmt.Errorf("basket %s: %w", b.ID(), ErrEmptyBasket)
	}
	delete(s.baskets, b.ID())
	ord := newOrder(uuid.New(), b.ID(), items, s.rules, s.now().UTC())
	s.orders[ord.ID()] = ord
	s.placed[b.ID()] = ord.ID()
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("order.id", ord.ID().String()),
		attribute.Int("order.items", len(items)),
		attribute.String("order.total", ord.TotalPriceAfterDiscount().StringFixed(2)),
	)
	observeOrder(ord)
	s.logger.Info().
		Str("order_id", ord.ID().String()).
		Str("basket_id", b.ID().String()).
		Int("items", len(items)).
		Str("subtotal", ord.TotalPrice().StringFixed(2)).
		Str("discount", ord.Discount().StringFixed(2)).
		Str("total", ord.TotalPriceAfterDiscount().StringFixed(2)).
		Msg("order placed")
	s.emit(ctx, events.TopicOrderPlaced, ord.ID(), map[string]any{
		"basketId": b.ID().String(),
		"items":    len(items),
		"subtotal": ord.TotalPrice().StringFixed(2),
		"discount": ord.Discount().StringFixed(2),
		"total":    ord.TotalPriceAfterDiscount().StringFixed(2),
	})
	return ord.ID(), nil
}

// GetOrder returns the order with the given id.
func (s *Store) GetOrder(id uuid.UUID) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ord, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return ord, nil
}

// RemoveOrder deletes the order with the given id.
func (s *Store) RemoveOrder(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.orders[id]
	delete(s.orders, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	s.emit(ctx, events.TopicOrderRemoved, id, nil)
	return nil
}

// Orders lists stored orders, oldest first.
func (s *Store) Orders() []*Order {
	s.mu.Lock()
	out := make([]*Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].createdAt.Equal(out[j].createdAt) {
			return out[i].createdAt.Before(out[j].createdAt)
		}
		return out[i].id.String() < out[j].id.String()
	})
	return out
}

func (s *Store) emit(ctx context.Context, topic string, id uuid.UUID, payload any) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Emit(ctx, topic, id, payload); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("emit event")
	}
}

func countOrder(result string) {
	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.WithLabelValues(result).Inc()
	}
}

func observeOrder(ord *Order) {
	countOrder("placed")
	if obs.OrderDiscountTotal != nil {
		obs.OrderDiscountTotal.Add(ord.Discount().InexactFloat64())
	}
	if obs.OrderValue != nil {
		obs.OrderValue.Observe(ord.TotalPriceAfterDiscount().InexactFloat64())
	}
	if obs.PromotionsAppliedTotal != nil {
		for _, p := range ord.Promotions() {
			obs.PromotionsAppliedTotal.WithLabelValues(p.Promotion).Add(float64(p.Count))
		}
	}
}
