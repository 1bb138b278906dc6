package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"spicymarket/models"
	"spicymarket/storage"
)

type PaymentMethodHandler struct {
	Store  *storage.Store
	Logger *zap.Logger
}

type PaymentMethodRequest struct {
	Name        string `json:"name"`
	QRCodeImage string `json:"qrCodeImage"`
}

func (req PaymentMethodRequest) method(w http.ResponseWriter, r *http.Request) (models.PaymentMethod, bool) {
	name := strings.TrimSpace(req.Name)
	qr := strings.TrimSpace(req.QRCodeImage)
	if name == "" || qr == "" {
		writeError(w, r, http.StatusBadRequest, "adminPayment.provideNameAndQrError")
		return models.PaymentMethod{}, false
	}
	return models.PaymentMethod{Name: name, QRCodeImage: qr}, true
}

func (h *PaymentMethodHandler) List(w http.ResponseWriter, r *http.Request) {
	methods, err := h.Store.PaymentMethods(r.Context())
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, methods)
}

func (h *PaymentMethodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PaymentMethodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	m, ok := req.method(w, r)
	if !ok {
		return
	}
	created, err := h.Store.CreatePaymentMethod(r.Context(), m)
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PaymentMethodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	var req PaymentMethodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	m, ok := req.method(w, r)
	if !ok {
		return
	}

	updated, err := h.Store.UpdatePaymentMethod(r.Context(), id, m)
	if errors.Is(err, storage.ErrPaymentMethodNotFound) {
		writeError(w, r, http.StatusNotFound, "errors.paymentMethodNotFound")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PaymentMethodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	err := h.Store.DeletePaymentMethod(r.Context(), id)
	if errors.Is(err, storage.ErrPaymentMethodNotFound) {
		writeError(w, r, http.StatusNotFound, "errors.paymentMethodNotFound")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
