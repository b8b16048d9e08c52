package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/noah-isme/store-terminal/internal/common"
	"github.com/noah-isme/store-terminal/internal/pricing"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc *Service
}

type lineView struct {
	ID       uuid.UUID      `json:"id"`
	Kind     string         `json:"kind"`
	Items    []quantityView `json:"items"`
	Subtotal pricing.Money  `json:"subtotal"`
	Total    pricing.Money  `json:"total"`
	Discount pricing.Money  `json:"discount"`
}

type quantityView struct {
	Code   string        `json:"code"`
	Price  pricing.Money `json:"price"`
	Amount int64         `json:"amount"`
}

// Scan handles POST /api/v1/cart/scan. Each rune of the codes string is
// one scanned product.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		Codes string `json:"codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	payload.Codes = strings.TrimSpace(payload.Codes)
	if payload.Codes == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "codes is required", nil)
		return
	}
	if err := h.Svc.Scan(payload.Codes); err != nil {
		common.WriteError(w, scanError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"scanned": utf8.RuneCountInString(payload.Codes)}})
}

// scanError maps scan failures onto response codes. One rune is one
// scanned unit, so the unknown-code failure names the offending code.
func scanError(err error) error {
	if errors.Is(err, ErrUnknownCode) {
		return common.NewAppError("UNKNOWN_PRODUCT", err.Error(), http.StatusBadRequest, err)
	}
	return err
}

// Get handles GET /api/v1/cart. It optimizes the cart first, so the
// rendered lines always show the cheapest promotion assignment.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if _, err := h.Svc.Optimize(r.Context()); err != nil {
		common.WriteError(w, common.NewAppError("OPTIMIZE_FAILED", err.Error(), http.StatusInternalServerError, err))
		return
	}
	lines := h.Svc.Items()
	views := make([]lineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, viewOf(line))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"lines": views,
			"total": h.Svc.TotalPrice(),
		},
	})
}

// Reset handles POST /api/v1/cart/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	h.Svc.Reset()
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"lines": []lineView{}, "total": 0}})
}

func viewOf(line Line) lineView {
	kind := "product"
	if _, ok := line.(PromotionLine); ok {
		kind = "promotion"
	}
	quantities := line.Quantities()
	items := make([]quantityView, 0, len(quantities))
	for _, q := range quantities {
		items = append(items, quantityView{Code: q.Product.Code, Price: q.Product.Price, Amount: q.Amount})
	}
	return lineView{
		ID:       line.ID(),
		Kind:     kind,
		Items:    items,
		Subtotal: line.Subtotal(),
		Total:    line.Total(),
		Discount: line.Discount(),
	}
}
