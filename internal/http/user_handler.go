package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/entity"
	"libraryapi/internal/httpx"
	"libraryapi/internal/store"
)

// UserRepository is the persistence contract the auth endpoints need.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
}

// TokenBlacklist revokes issued tokens on logout.
type TokenBlacklist interface {
	AddToken(ctx context.Context, jti string, expiresAt time.Time) error
}

const accessTokenTTL = 24 * time.Hour

type UserHandler struct {
	repo      UserRepository
	blacklist TokenBlacklist
	secret    string
}

func NewUserHandler(repo UserRepository, blacklist TokenBlacklist, secret string) *UserHandler {
	return &UserHandler{
		repo:      repo,
		blacklist: blacklist,
		secret:    secret,
	}
}

type registerReq struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=80"`
	Password    string `json:"password" validate:"required,min=6"`
}

// Register handles POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if details := ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	_, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err == nil {
		httpx.JSONError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		writeStoreError(w, err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	newUser := &entity.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    hashedPassword,
		Role:        "USER",
	}
	if err := h.repo.Create(r.Context(), newUser); err != nil {
		writeStoreError(w, err)
		return
	}

	httpx.JSONSuccessCreated(w, map[string]any{
		"id":           newUser.ID,
		"email":        newUser.Email,
		"display_name": newUser.DisplayName,
		"role":         newUser.Role,
	})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if details := ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	user, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.VerifyPassword(user.Password, req.Password) {
		httpx.JSONError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}

	token, _, err := auth.GenerateToken(h.secret, user.ID, user.Role, accessTokenTTL)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, map[string]any{
		"access_token": token,
		"expires_in":   int(accessTokenTTL.Seconds()),
	}, nil)
}

// Logout handles POST /users/logout. The presented token's jti goes on
// the blacklist until the token would have expired anyway.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	claims, err := auth.ParseToken(h.secret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	if err := h.blacklist.AddToken(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, map[string]any{"logged_out": true}, nil)
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	user, err := h.repo.GetByID(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	httpx.JSONSuccess(w, map[string]any{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"role":         user.Role,
	}, nil)
}
