package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"spicymarket/i18n"
	"spicymarket/storage"
)

type DashboardHandler struct {
	Store  *storage.Store
	Logger *zap.Logger
}

// Stats reports catalog, account and order counts.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type I18nHandler struct {
	Catalog *i18n.Catalog
}

func (h *I18nHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": h.Catalog.Languages(),
		"default":   h.Catalog.Fallback(),
		"current":   requestLanguage(r),
	})
}

// Bundle serves every message of one language, with fallback text filled in.
func (h *I18nHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !h.Catalog.Supported(lang) {
		writeErrorVars(w, r, http.StatusNotFound, "errors.unsupportedLanguage", map[string]any{"language": lang})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language":  lang,
		"direction": h.Catalog.Direction(lang),
		"messages":  h.Catalog.Bundle(lang),
	})
}

func Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Spicy Market API is running", "version": "1.0"})
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
