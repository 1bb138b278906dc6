package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"spicymarket/i18n"
)

type localeKey struct{}

type locale struct {
	catalog *i18n.Catalog
	lang    string
}

// Localize picks the response language for each request: an explicit
// ?lang= wins, otherwise Accept-Language is negotiated.
func Localize(catalog *i18n.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.URL.Query().Get("lang")
			if !catalog.Supported(lang) {
				lang = catalog.Negotiate(r.Header.Get("Accept-Language"))
			}
			w.Header().Set("Content-Language", lang)
			ctx := context.WithValue(r.Context(), localeKey{}, locale{catalog: catalog, lang: lang})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// translate resolves key in the request language. Without a catalog in the
// context the key itself is returned.
func translate(r *http.Request, key string, vars map[string]any) string {
	loc, ok := r.Context().Value(localeKey{}).(locale)
	if !ok {
		return key
	}
	return loc.catalog.Lookup(loc.lang, key, vars)
}

func requestLanguage(r *http.Request) string {
	if loc, ok := r.Context().Value(localeKey{}).(locale); ok {
		return loc.lang
	}
	return i18n.DefaultLanguage
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, key string) {
	writeErrorVars(w, r, status, key, nil)
}

func writeErrorVars(w http.ResponseWriter, r *http.Request, status int, key string, vars map[string]any) {
	writeJSON(w, status, errorResponse{Error: translate(r, key, vars), Code: key})
}

// internalError logs err and answers with a generic message.
func internalError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "errors.internal")
}

// maxBodyBytes leaves room for data-URL images in product and payment-method forms.
const maxBodyBytes = 4 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// badBody answers a request whose JSON body could not be used.
func badBody(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "errors.bodyTooLarge")
		return
	}
	writeError(w, r, http.StatusBadRequest, "errors.badRequest")
}
