package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"spicymarket/auth"
	"spicymarket/i18n"
	"spicymarket/models"
	"spicymarket/storage"
)

type AuthHandler struct {
	Store    *storage.Store
	Identity auth.IdentityProvider
	Sessions *auth.Sessions
	Catalog  *i18n.Catalog
	Logger   *zap.Logger
}

type SignupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      models.Profile `json:"user"`
	Language  string         `json:"language"`
	Direction string         `json:"direction"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.ConfirmPassword == "" {
		writeError(w, r, http.StatusBadRequest, "signUp.emptyFieldsError")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, r, http.StatusBadRequest, "signUp.passwordMismatchError")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		writeError(w, r, http.StatusBadRequest, "errors.passwordTooLong")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	created, err := h.Store.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		DisplayName:  req.Username,
		Language:     requestLanguage(r),
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, storage.ErrUserExists) {
		writeError(w, r, http.StatusConflict, "signUp.userExistsError")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("user signed up", zap.String("username", created.Username))
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": translate(r, "signUp.successMessage", nil),
		"user":    created.Profile(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "signIn.emptyFieldsError")
		return
	}

	p, err := h.Identity.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, r, http.StatusUnauthorized, "signIn.authError")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}

	u, err := h.Store.FindUser(r.Context(), p.Username)
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}

	token, expires, err := h.Sessions.Issue(r.Context(), p)
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	lang := u.Language
	if !h.Catalog.Supported(lang) {
		lang = requestLanguage(r)
	}
	h.Logger.Info("user logged in", zap.String("username", p.Username), zap.String("role", string(p.Role)))
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expires,
		User:      u.Profile(),
		Language:  lang,
		Direction: h.Catalog.Direction(lang),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Revoke(r.Context(), tokenFromRequest(r)); err != nil {
		internalError(w, r, h.Logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"message": translate(r, "account.disconnected", nil)})
}
