package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-coach/internal/common"
)

type ctxKey string

const adminKey ctxKey = "admin_subject"

// Handler exposes the admin login endpoint.
type Handler struct {
	Svc    Service
	Logger zerolog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		common.JSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	token, expires, err := h.Svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			common.JSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Logger.Error().Err(err).Msg("admin login failed")
		common.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	common.JSONSuccess(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresAt": expires.UTC().Format(time.RFC3339),
	})
}

// RequireAdmin rejects requests without a valid bearer token.
func (h Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			common.JSONError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		subject, err := h.Svc.ParseToken(raw)
		if err != nil {
			common.JSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), adminKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminSubject returns the authenticated admin email, if any.
func AdminSubject(ctx context.Context) string {
	s, _ := ctx.Value(adminKey).(string)
	return s
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
