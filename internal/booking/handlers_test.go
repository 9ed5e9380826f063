package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	h := &Handler{Svc: newTestService(store, &fakeEventStore{})}
	r := chi.NewRouter()
	r.Post("/bookings", h.Create)
	r.Get("/bookings/{id}", h.Get)
	r.Get("/admin/bookings", h.AdminList)
	return r, store
}

func postBooking(t *testing.T, r http.Handler) map[string]any {
	t.Helper()
	payload := fmt.Sprintf(`{"name":"Alice Smith","email":"alice@example.com","program":"1:1 coaching","scheduledAt":%q}`,
		time.Now().Add(48*time.Hour).Format(time.RFC3339))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(payload)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestCreateBookingEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	out := postBooking(t, r)

	require.Equal(t, true, out["success"])
	booking := out["booking"].(map[string]any)
	require.NotEmpty(t, booking["id"])
	require.Equal(t, "PENDING", booking["status"])
}

func TestCreateBookingEndpointRejectsBadBody(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString("{")))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetBookingEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	created := postBooking(t, r)["booking"].(map[string]any)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bookings/"+created["id"].(string), nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bookings/00000000-0000-0000-0000-000000000000", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminListEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	postBooking(t, r)
	postBooking(t, r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/bookings?limit=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out["bookings"].([]any), 1)
}
