package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"spicymarket/cart"
	"spicymarket/checkout"
	"spicymarket/models"
	"spicymarket/storage"
)

type OrderHandler struct {
	Store    *storage.Store
	Carts    *cart.Registry
	Checkout *checkout.Service
	Logger   *zap.Logger
}

type PlaceOrderResponse struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

// Place checks out the caller's cart.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	err := h.Carts.With(principal(r).Username, func(c *cart.Cart) error {
		var err error
		order, err = h.Checkout.PlaceOrder(r.Context(), principal(r).Username, c)
		return err
	})
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, r, http.StatusBadRequest, "orders.emptyCartAlert")
		return
	case errors.Is(err, checkout.ErrNoIdentity):
		writeError(w, r, http.StatusUnauthorized, "orders.loginRequiredAlert")
		return
	case err != nil:
		internalError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, PlaceOrderResponse{
		Message: translate(r, "orders.orderPlacedAlert", map[string]any{"orderId": order.ID}),
		Order:   order,
	})
}

// Mine lists the caller's orders, newest first.
func (h *OrderHandler) Mine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.UserOrders(r.Context(), principal(r).Username)
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// All lists every order, newest first.
func (h *OrderHandler) All(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.Orders(r.Context())
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type PaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
}

// Pay records payment for one of the caller's orders. Admins may record
// payment for any order.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	var req PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}

	p := principal(r)
	payment := checkout.Payment{
		OrderID:       id,
		Username:      p.Username,
		Method:        req.PaymentMethod,
		TransactionID: req.TransactionID,
	}
	if p.IsAdmin() {
		payment.Username = ""
	}

	order, err := h.Checkout.ConfirmPayment(r.Context(), payment)
	switch {
	case errors.Is(err, checkout.ErrIncompletePayment):
		writeError(w, r, http.StatusBadRequest, "payment.incompleteError")
		return
	case errors.Is(err, checkout.ErrOrderNotFound):
		writeError(w, r, http.StatusNotFound, "errors.orderNotFound")
		return
	case errors.Is(err, checkout.ErrAlreadyPaid):
		writeError(w, r, http.StatusConflict, "payment.alreadyPaidError")
		return
	case err != nil:
		internalError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": translate(r, "payment.confirmedMessage", map[string]any{"orderId": order.ID}),
		"order":   order,
	})
}
