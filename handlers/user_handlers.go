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

type UserHandler struct {
	Store   *storage.Store
	Catalog *i18n.Catalog
	Logger  *zap.Logger
}

type MeResponse struct {
	models.Profile
	Direction string `json:"direction"`
}

// current loads the signed-in user; a session for a vanished account is
// treated as signed out.
func (h *UserHandler) current(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	u, err := h.Store.FindUser(r.Context(), principal(r).Username)
	if errors.Is(err, storage.ErrUserNotFound) {
		writeError(w, r, http.StatusUnauthorized, "errors.unauthorized")
		return models.User{}, false
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return models.User{}, false
	}
	return u, true
}

func (h *UserHandler) me(u models.User, r *http.Request) MeResponse {
	lang := u.Language
	if !h.Catalog.Supported(lang) {
		lang = requestLanguage(r)
	}
	return MeResponse{Profile: u.Profile(), Direction: h.Catalog.Direction(lang)}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := h.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.me(u, r))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req storage.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)

	u, err := h.Store.UpdateProfile(r.Context(), principal(r).Username, req)
	if errors.Is(err, storage.ErrUserNotFound) {
		writeError(w, r, http.StatusUnauthorized, "errors.unauthorized")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": translate(r, "editProfile.successMessage", nil),
		"user":    u.Profile(),
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		writeError(w, r, http.StatusBadRequest, "changePassword.emptyFieldsError")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeError(w, r, http.StatusBadRequest, "changePassword.passwordMismatchError")
		return
	}

	u, ok := h.current(w, r)
	if !ok {
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		writeError(w, r, http.StatusBadRequest, "changePassword.currentPasswordError")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		writeError(w, r, http.StatusBadRequest, "errors.passwordTooLong")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	if err := h.Store.SetPasswordHash(r.Context(), u.Username, hash); err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	h.Logger.Info("password changed", zap.String("username", u.Username))
	writeJSON(w, http.StatusOK, map[string]any{"message": translate(r, "changePassword.passwordUpdatedSuccess", nil)})
}

func (h *UserHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	if !h.Catalog.Supported(req.Language) {
		writeErrorVars(w, r, http.StatusBadRequest, "errors.unsupportedLanguage", map[string]any{"language": req.Language})
		return
	}

	err := h.Store.SetLanguage(r.Context(), principal(r).Username, req.Language)
	if errors.Is(err, storage.ErrUserNotFound) {
		writeError(w, r, http.StatusUnauthorized, "errors.unauthorized")
		return
	}
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language":  req.Language,
		"direction": h.Catalog.Direction(req.Language),
	})
}

// Users lists regular users and admins, newest first.
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.Users(r.Context())
	if err != nil {
		internalError(w, r, h.Logger, err)
		return
	}

	resp := make([]models.Profile, 0, len(users))
	for _, u := range users {
		resp = append(resp, u.Profile())
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateAdmin adds an administrator account.
func (h *UserHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, r, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "adminUsers.provideCredentialsError")
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
		Role:         models.RoleAdmin,
		DisplayName:  req.Username,
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

	h.Logger.Info("admin created",
		zap.String("username", created.Username),
		zap.String("by", principal(r).Username),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": translate(r, "adminUsers.userAddedSuccess", nil),
		"user":    created.Profile(),
	})
}
