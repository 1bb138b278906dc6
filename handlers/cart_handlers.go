package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"spicymarket/cart"
	"spicymarket/models"
	"spicymarket/storage"
)

type CartHandler struct {
	Store  *storage.Store
	Carts  *cart.Registry
	Logger *zap.Logger
}

type CartResponse struct {
	Items        []models.CartLine `json:"items"`
	Count        int               `json:"count"`
	Total        decimal.Decimal   `json:"total"`
	TotalDisplay string            `json:"totalDisplay"`
}

func cartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items:        c.Lines(),
		Count:        c.Count(),
		Total:        c.Total(),
		TotalDisplay: models.FormatPrice(c.Total()),
	}
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, status int, fn func(*cart.Cart)) {
	var resp CartResponse
	_ = h.Carts.With(principal(r).Username, func(c *cart.Cart) error {
		fn(c)
		resp = cartResponse(c)
		return nil
	})
	writeJSON(w, status, resp)
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, func(*cart.Cart) {})
}

// AddItem puts one unit of the product in the cart, using the catalog's
// current price.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.ProductID <= 0 {
		badBody(w, r, err)
		return
	}

	p, err := h.Store.Product(r.Context(), req.ProductID)
	if errors.Is(err, storage.ErrProductNotFound) {
		writeError(w, r, http.StatusNotFound, "errors.productNotFound")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}

	h.respond(w, r, http.StatusOK, func(c *cart.Cart) { c.Add(p) })
}

// SetItem sets a line's quantity; zero or less removes it.
func (h *CartHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productID")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.Quantity == nil {
		badBody(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, func(c *cart.Cart) { c.SetQuantity(id, *req.Quantity) })
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "productID")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	h.respond(w, r, http.StatusOK, func(c *cart.Cart) { c.Remove(id) })
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, func(c *cart.Cart) { c.Clear() })
}
