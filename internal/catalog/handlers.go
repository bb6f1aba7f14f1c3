package catalog

import (
	"net/http"
	"strings"

	"github.com/noah-isme/backend-bagel/internal/common"
)

// Handler exposes the public catalog endpoints.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Products handles GET /api/v1/catalog. An optional ?kind=bagel|coffee|filling narrows the listing.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	if kind == "" {
		common.Data(w, http.StatusOK, Products())
		return
	}
	for _, k := range []Kind{KindBagel, KindCoffee, KindFilling} {
		if strings.EqualFold(kind, string(k)) {
			common.Data(w, http.StatusOK, ProductsOf(k))
			return
		}
	}
	common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown product kind", map[string]any{"kind": kind})
}

// Fillings handles GET /api/v1/catalog/fillings.
func (h *Handler) Fillings(w http.ResponseWriter, _ *http.Request) {
	common.Data(w, http.StatusOK, Fillings())
}
