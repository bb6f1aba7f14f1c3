package order

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/basket"
	"github.com/noah-isme/backend-bagel/internal/common"
	"github.com/noah-isme/backend-bagel/internal/item"
	"github.com/noah-isme/backend-bagel/internal/pricing"
	"github.com/noah-isme/backend-bagel/internal/receipt"
)

// Handler serves order placement, lookup and receipts over HTTP.
type Handler struct {
	Store        *Store
	Logger       zerolog.Logger
	ReceiptTitle string
}

// View is the JSON representation of an order.
type View struct {
	ID         string            `json:"id"`
	BasketID   string            `json:"basketId"`
	Items      []item.Line       `json:"items"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Discount   decimal.Decimal   `json:"discount"`
	Total      decimal.Decimal   `json:"total"`
	Promotions []pricing.Applied `json:"promotions"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewView snapshots ord for rendering.
func NewView(ord *Order) View {
	items := ord.Items()
	lines := make([]item.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, item.Describe(it))
	}
	promos := ord.Promotions()
	if promos == nil {
		promos = []pricing.Applied{}
	}
	return View{
		ID:         ord.ID().String(),
		BasketID:   ord.BasketID().String(),
		Items:      lines,
		Subtotal:   ord.TotalPrice(),
		Discount:   ord.Discount(),
		Total:      ord.TotalPriceAfterDiscount(),
		Promotions: promos,
		CreatedAt:  ord.CreatedAt(),
	}
}

// Place handles POST /api/v1/baskets/{id}/order.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := parseID(w, r, "invalid basket id")
	if !ok {
		return
	}
	b, err := h.Store.Basket(id)
	if err != nil {
		if orderID, placed := h.Store.PlacedOrder(id); placed {
			err = fmt.Errorf("basket %s as order %s: %w", id, orderID, ErrAlreadyPlaced)
		}
		h.writeError(w, err)
		return
	}
	orderID, err := h.Store.PlaceOrder(r.Context(), b)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ord, err := h.Store.GetOrder(orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/orders/"+orderID.String())
	common.Data(w, http.StatusCreated, NewView(ord))
}

// List handles GET /api/v1/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	orders := h.Store.Orders()
	start, end := common.Window(page, perPage, len(orders))
	response := make([]View, 0, end-start)
	for _, ord := range orders[start:end] {
		response = append(response, NewView(ord))
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(orders)))
	common.Page(w, response, common.Pagination{Page: page, PerPage: perPage, TotalItems: len(orders)})
}

// Get handles GET /api/v1/orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ord, ok := h.load(w, r)
	if !ok {
		return
	}
	common.Data(w, http.StatusOK, NewView(ord))
}

// Receipt handles GET /api/v1/orders/{id}/receipt and renders plain text.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	ord, ok := h.load(w, r)
	if !ok {
		return
	}
	width := common.AtoiClamp(r.URL.Query().Get("width"), receipt.DefaultWidth, 0, receipt.MaxWidth)
	common.Text(w, http.StatusOK, receipt.RenderWith(ord, receipt.Options{Title: h.ReceiptTitle, Width: width}))
}

// Delete handles DELETE /api/v1/orders/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := parseID(w, r, "invalid order id")
	if !ok {
		return
	}
	if err := h.Store.RemoveOrder(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Order, bool) {
	if !h.ready(w) {
		return nil, false
	}
	id, ok := parseID(w, r, "invalid order id")
	if !ok {
		return nil, false
	}
	ord, err := h.Store.GetOrder(id)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return ord, true
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", message, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if common.WriteAppError(w, toAppError(err)) {
		return
	}
	h.Logger.Error().Err(err).Msg("order request failed")
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, ErrEmptyBasket):
		return common.NewAppError("EMPTY_BASKET", "cannot place an order from an empty basket", http.StatusUnprocessableEntity, err)
	case errors.Is(err, ErrAlreadyPlaced):
		return common.NewAppError("ALREADY_PLACED", "basket has already been placed", http.StatusConflict, err)
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("NOT_FOUND", "order not found", http.StatusNotFound, err)
	case errors.Is(err, basket.ErrNotFound):
		return common.NewAppError("NOT_FOUND", "basket not found", http.StatusNotFound, err)
	}
	return err
}
