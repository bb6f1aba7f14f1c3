package basket

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/catalog"
	"github.com/noah-isme/backend-bagel/internal/common"
	"github.com/noah-isme/backend-bagel/internal/item"
	"github.com/noah-isme/backend-bagel/internal/obs"
)

// ErrNotFound indicates the requested basket is not active.
var ErrNotFound = errors.New("basket not found")

// Registry tracks active baskets.
type Registry interface {
	AddBasket(b *Basket)
	Basket(id uuid.UUID) (*Basket, error)
}

// Handler wires basket operations to HTTP.
type Handler struct {
	Registry        Registry
	DefaultCapacity int
	Logger          zerolog.Logger
}

// View is the JSON representation of a basket.
type View struct {
	ID       string          `json:"id"`
	Capacity int             `json:"capacity"`
	Count    int             `json:"count"`
	Full     bool            `json:"full"`
	Items    []item.Line     `json:"items"`
	Total    decimal.Decimal `json:"total"`
}

// NewView snapshots b for rendering.
func NewView(b *Basket) View {
	items := b.Items()
	lines := make([]item.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, item.Describe(it))
	}
	capacity := b.Capacity()
	return View{
		ID:       b.ID().String(),
		Capacity: capacity,
		Count:    len(items),
		Full:     len(items) >= capacity,
		Items:    lines,
		Total:    Total(items),
	}
}

type createRequest struct {
	Capacity *int `json:"capacity" validate:"omitempty,min=0"`
}

type itemRequest struct {
	SKU     string `json:"sku" validate:"required"`
	Filling string `json:"filling"`
}

type capacityRequest struct {
	Capacity *int `json:"capacity" validate:"required"`
}

// Create handles POST /api/v1/baskets.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "basket registry not configured", nil)
		return
	}
	var payload createRequest
	if err := common.DecodeJSON(r, &payload, true); err != nil {
		h.writeError(w, err)
		return
	}
	capacity := h.DefaultCapacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if payload.Capacity != nil {
		capacity = *payload.Capacity
	}
	b, err := NewWithCapacity(capacity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Registry.AddBasket(b)
	h.Logger.Debug().Str("basket_id", b.ID().String()).Int("capacity", capacity).Msg("basket created")
	common.Data(w, http.StatusCreated, NewView(b))
}

// Get handles GET /api/v1/baskets/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	common.Data(w, http.StatusOK, NewView(b))
}

// AddItem handles POST /api/v1/baskets/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	it, err := h.decodeItem(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !b.AddItem(it) {
		if obs.BasketRejectionsTotal != nil {
			obs.BasketRejectionsTotal.WithLabelValues("full").Inc()
		}
		common.JSONError(w, http.StatusConflict, "BASKET_FULL", "basket is full", map[string]any{"capacity": b.Capacity()})
		return
	}
	common.Data(w, http.StatusOK, NewView(b))
}

// RemoveItem handles DELETE /api/v1/baskets/{id}/items.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	it, err := h.decodeItem(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !b.RemoveItem(it) {
		common.JSONError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "item is not in basket", map[string]any{"sku": it.SKU()})
		return
	}
	common.Data(w, http.StatusOK, NewView(b))
}

// SetCapacity handles PUT /api/v1/baskets/{id}/capacity.
func (h *Handler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	var payload capacityRequest
	if err := common.DecodeJSON(r, &payload, false); err != nil {
		h.writeError(w, err)
		return
	}
	if err := b.SetCapacity(*payload.Capacity); err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, NewView(b))
}

func (h *Handler) decodeItem(r *http.Request) (item.Item, error) {
	var payload itemRequest
	if err := common.DecodeJSON(r, &payload, false); err != nil {
		return nil, err
	}
	return item.Parse(payload.SKU, payload.Filling)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Basket, bool) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "basket registry not configured", nil)
		return nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid basket id", nil)
		return nil, false
	}
	b, err := h.Registry.Basket(id)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return b, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidPayload):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, catalog.ErrUnknownCode):
		common.JSONError(w, http.StatusBadRequest, "UNKNOWN_CODE", err.Error(), nil)
	case errors.Is(err, ErrInvalidArgument):
		common.JSONError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		h.Logger.Error().Err(err).Msg("basket request failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
	}
}
