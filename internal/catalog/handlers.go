package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/store-terminal/internal/common"
	"github.com/noah-isme/store-terminal/internal/events"
	"github.com/noah-isme/store-terminal/internal/pricing"
)

// Handler exposes catalog read and upsert endpoints.
type Handler struct {
	Store    *Store
	Cache    *Cache
	Validate *validator.Validate
	Bus      *events.Bus
	Log      zerolog.Logger
}

type productPayload struct {
	Code  string `json:"code" validate:"required"`
	Price int64  `json:"price" validate:"gte=0"`
}

type promotionItemPayload struct {
	Code   string `json:"code" validate:"required"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

type promotionPayload struct {
	Code  string                 `json:"code" validate:"required"`
	Price int64                  `json:"price" validate:"gte=0"`
	Items []promotionItemPayload `json:"items" validate:"min=1,dive"`
}

// Products handles GET /api/v1/catalog/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog store not configured", nil)
		return
	}
	var cached []pricing.Product
	if ok, err := h.Cache.GetJSON(r.Context(), productsCacheKey, &cached); err == nil && ok {
		common.JSON(w, http.StatusOK, map[string]any{"data": cached})
		return
	}
	products := h.Store.Products()
	_ = h.Cache.SetJSON(r.Context(), productsCacheKey, products)
	common.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// Promotions handles GET /api/v1/catalog/promotions.
func (h *Handler) Promotions(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog store not configured", nil)
		return
	}
	var cached []pricing.Promotion
	if ok, err := h.Cache.GetJSON(r.Context(), promotionsCacheKey, &cached); err == nil && ok {
		common.JSON(w, http.StatusOK, map[string]any{"data": cached})
		return
	}
	promotions := h.Store.Promotions()
	_ = h.Cache.SetJSON(r.Context(), promotionsCacheKey, promotions)
	common.JSON(w, http.StatusOK, map[string]any{"data": promotions})
}

// CreateProduct handles POST /api/v1/catalog/products. Upserting an
// existing code replaces its price; promotions already constructed keep
// the instance they captured.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog store not configured", nil)
		return
	}
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	h.Store.UpsertProduct(pricing.Product{Code: payload.Code, Price: payload.Price})
	_ = h.Cache.Invalidate(r.Context(), productsCacheKey)
	if _, err := h.Bus.Emit(r.Context(), events.TopicCatalogProduct, map[string]string{"code": payload.Code}); err != nil {
		h.Log.Warn().Err(err).Msg("emit catalog event")
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]string{"code": payload.Code}})
}

// CreatePromotion handles POST /api/v1/catalog/promotions. Requirement
// codes are resolved against the current products; an unknown code is
// rejected.
func (h *Handler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog store not configured", nil)
		return
	}
	var payload promotionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	requirements := make([]pricing.Quantity, 0, len(payload.Items))
	for _, item := range payload.Items {
		q, err := h.Store.QuantityFor(item.Code, item.Amount)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				common.WriteError(w, &common.AppError{
					Code:       "UNKNOWN_PRODUCT",
					Message:    "promotion references unknown product code",
					HTTPStatus: http.StatusBadRequest,
					Err:        err,
					Details:    map[string]string{"code": item.Code},
				})
				return
			}
			common.WriteError(w, err)
			return
		}
		requirements = append(requirements, q)
	}
	h.Store.UpsertPromotion(pricing.NewPromotion(payload.Code, requirements, payload.Price))
	_ = h.Cache.Invalidate(r.Context(), promotionsCacheKey)
	if _, err := h.Bus.Emit(r.Context(), events.TopicCatalogPromotion, map[string]string{"code": payload.Code}); err != nil {
		h.Log.Warn().Err(err).Msg("emit catalog event")
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]string{"code": payload.Code}})
}

func (h *Handler) validate(v any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}
