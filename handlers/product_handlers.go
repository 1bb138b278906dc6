package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"spicymarket/models"
	"spicymarket/storage"
)

type ProductHandler struct {
	Store  *storage.Store
	Logger *zap.Logger
}

// priceInput accepts a JSON number or a string such as "$29.99".
type priceInput string

func (p *priceInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = priceInput(s)
		return nil
	}
	*p = priceInput(bytes.TrimSpace(b))
	return nil
}

type ProductRequest struct {
	Name        string     `json:"name"`
	Price       priceInput `json:"price"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"reviewCount"`
	ImageURL    string     `json:"imageUrl"`
	Category    string     `json:"category"`
}

// product validates req; on failure it has already written the response.
func (req ProductRequest) product(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "adminProducts.nameRequiredError")
		return models.Product{}, false
	}
	price, err := models.ParsePrice(string(req.Price))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "adminProducts.invalidPriceError")
		return models.Product{}, false
	}
	if req.Rating < 0 || req.Rating > 5 {
		writeError(w, r, http.StatusBadRequest, "adminProducts.invalidRatingError")
		return models.Product{}, false
	}
	if req.ReviewCount < 0 {
		writeError(w, r, http.StatusBadRequest, "adminProducts.invalidReviewCountError")
		return models.Product{}, false
	}
	return models.Product{
		Name:        name,
		Price:       price,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Category:    strings.TrimSpace(req.Category),
	}, true
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.Products(r.Context())
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	if c := r.URL.Query().Get("category"); c != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.Category == c {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	p, err := h.Store.Product(r.Context(), id)
	if errors.Is(err, storage.ErrProductNotFound) {
		writeError(w, r, http.StatusNotFound, "errors.productNotFound")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	p, ok := req.product(w, r)
	if !ok {
		return
	}

	created, err := h.Store.CreateProduct(r.Context(), p)
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	p, ok := req.product(w, r)
	if !ok {
		return
	}

	updated, err := h.Store.UpdateProduct(r.Context(), id, p)
	if errors.Is(err, storage.ErrProductNotFound) {
		writeError(w, r, http.StatusNotFound, "errors.productNotFound")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "errors.badRequest")
		return
	}
	err := h.Store.DeleteProduct(r.Context(), id)
	if errors.Is(err, storage.ErrProductNotFound) {
		writeError(w, r, http.StatusNotFound, "errors.productNotFound")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
