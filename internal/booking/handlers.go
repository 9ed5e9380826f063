package booking

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-coach/internal/common"
	"github.com/noah-isme/backend-coach/internal/obs"
	"github.com/noah-isme/backend-coach/internal/repo"
)

// Handler exposes the public booking endpoints and the admin listing.
type Handler struct {
	Svc    *Service
	Logger zerolog.Logger
}

type bookingJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Program     string    `json:"program"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	OrderID     string    `json:"orderId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toJSON(b repo.Booking) bookingJSON {
	return bookingJSON{
		ID:          b.ID.String(),
		Name:        b.Name,
		Email:       b.Email,
		Phone:       b.Phone,
		Program:     b.Program,
		ScheduledAt: b.ScheduledAt,
		Notes:       b.Notes,
		Status:      b.Status,
		OrderID:     b.OrderID,
		CreatedAt:   b.CreatedAt,
	}
}

// Create accepts a booking form submission.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "booking service unavailable")
		return
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.Svc.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		obs.ObserveBooking("error")
		return
	}
	obs.ObserveBooking("ok")
	common.JSONSuccess(w, http.StatusCreated, map[string]any{"booking": toJSON(b)})
}

// Get returns a single booking by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "booking service unavailable")
		return
	}
	b, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONSuccess(w, http.StatusOK, map[string]any{"booking": toJSON(b)})
}

// AdminList returns bookings, newest first, for the admin dashboard.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "booking service unavailable")
		return
	}
	limit := queryInt32(r, "limit", 50)
	offset := queryInt32(r, "offset", 0)
	out, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	items := make([]bookingJSON, 0, len(out))
	for _, b := range out {
		items = append(items, toJSON(b))
	}
	common.JSONSuccess(w, http.StatusOK, map[string]any{"bookings": items})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	appErr := common.AsAppError(err)
	if appErr.Kind == common.KindUnexpected {
		h.Logger.Error().Err(appErr.Unwrap()).Msg("booking request failed")
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	common.JSONError(w, status, appErr.Message)
}

func queryInt32(r *http.Request, key string, fallback int32) int32 {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}
