package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-coach/internal/common"
	"github.com/noah-isme/backend-coach/internal/kashier"
	"github.com/noah-isme/backend-coach/internal/obs"
)

// Handler exposes the checkout, callback and webhook endpoints.
type Handler struct {
	Svc       *Service
	Replay    *redis.Client
	ReplayTTL time.Duration
	Logger    zerolog.Logger
}

// Checkout builds a signed hosted-checkout URL for the client to redirect to.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "payment service unavailable")
		return
	}
	var input CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.Svc.CreateCheckout(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		obs.ObserveCheckout("error")
		return
	}
	obs.ObserveCheckout("ok")
	common.JSONSuccess(w, http.StatusCreated, map[string]any{
		"orderId":     result.OrderID,
		"reference":   result.Reference,
		"redirectUrl": result.RedirectURL,
	})
}

// Callback handles the synchronous redirect confirmation from the gateway.
// Field presence errors (400) are reported separately from hash mismatches
// (403, a tamper signal).
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "payment service unavailable")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "unable to read payload")
		return
	}
	var n kashier.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		common.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := n.MissingFields(); len(missing) > 0 {
		common.JSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.Svc.Gateway.VerifyCallback(n); err != nil {
		if errors.Is(err, kashier.ErrInvalidSignature) {
			h.Logger.Warn().Str("order_id", n.OrderID).Str("remote", common.ClientIP(r)).Msg("callback hash mismatch")
			obs.ObserveSignatureFailure("callback")
			common.JSONError(w, http.StatusForbidden, "Invalid hash signature")
			return
		}
		h.writeError(w, common.Configuration(err))
		return
	}
	status, err := h.Svc.ApplyNotification(r.Context(), n, body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONSuccess(w, http.StatusOK, map[string]any{"status": status})
}

// Webhook handles asynchronous server-to-server notifications. The signature
// travels in the x-kashier-signature header; an absent header is invalid,
// never a verification skip.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "payment service unavailable")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "unable to read payload")
		obs.ObserveWebhook("read_error")
		return
	}
	var n kashier.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		common.JSONError(w, http.StatusBadRequest, "invalid request body")
		obs.ObserveWebhook("parse_error")
		return
	}
	if missing := n.MissingFields(); len(missing) > 0 {
		common.JSONError(w, http.StatusBadRequest, "Missing required fields")
		obs.ObserveWebhook("missing_fields")
		return
	}
	signature := r.Header.Get(kashier.SignatureHeader)
	if err := h.Svc.Gateway.VerifyWebhook(n, signature); err != nil {
		if errors.Is(err, kashier.ErrInvalidSignature) {
			h.Logger.Warn().Str("order_id", n.OrderID).Str("remote", common.ClientIP(r)).Msg("webhook signature mismatch")
			obs.ObserveSignatureFailure("webhook")
			common.JSONError(w, http.StatusBadRequest, "Invalid signature")
			return
		}
		h.writeError(w, common.Configuration(err))
		return
	}
	if h.Replay != nil && h.ReplayTTL > 0 {
		key := fmt.Sprintf("wh:kashier:%s", common.Sha256Hex(string(body)))
		fresh, err := h.Replay.SetNX(r.Context(), key, "1", h.ReplayTTL).Result()
		if err != nil {
			h.writeError(w, common.Unexpected(err))
			return
		}
		if !fresh {
			obs.ObserveWebhook("replay")
			common.JSONError(w, http.StatusConflict, "duplicate webhook")
			return
		}
	}
	if _, err := h.Svc.ApplyNotification(r.Context(), n, body); err != nil {
		h.writeError(w, err)
		obs.ObserveWebhook("apply_error")
		return
	}
	obs.ObserveWebhook("ok")
	common.JSONSuccess(w, http.StatusOK, nil)
}

// Status reports the consolidated payment status for an order (admin only).
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "payment service unavailable")
		return
	}
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if orderID == "" {
		common.JSONError(w, http.StatusBadRequest, "orderId is required")
		return
	}
	p, err := h.Svc.StatusByOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONSuccess(w, http.StatusOK, map[string]any{
		"orderId":   p.OrderID,
		"status":    p.Status,
		"amount":    p.Amount,
		"currency":  p.Currency,
		"reference": p.Reference,
	})
}

// writeError converts service errors to the response envelope. Configuration
// and unexpected failures log the cause server-side and stay generic on the
// wire.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	appErr := common.AsAppError(err)
	switch appErr.Kind {
	case common.KindConfiguration:
		h.Logger.Error().Err(appErr.Unwrap()).Msg("payment gateway misconfigured")
	case common.KindUnexpected:
		h.Logger.Error().Err(appErr.Unwrap()).Msg("payment request failed")
	case common.KindIntegrity:
		h.Logger.Warn().Msg("payment integrity failure")
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	common.JSONError(w, status, appErr.Message)
}
