package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) Service {
	t.Helper()
	hash, err := argon2id.CreateHash("correct horse", argon2id.DefaultParams)
	require.NoError(t, err)
	return Service{
		Secret:       []byte("0123456789abcdef0123456789abcdef"),
		AdminEmail:   "admin@coach.example",
		PasswordHash: hash,
		TokenTTL:     time.Hour,
	}
}

func TestLoginAndParseToken(t *testing.T) {
	svc := testService(t)

	token, expires, err := svc.Login("admin@coach.example", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	subject, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "admin@coach.example", subject)
}

func TestLoginCaseInsensitiveEmail(t *testing.T) {
	svc := testService(t)
	_, _, err := svc.Login("Admin@Coach.Example", "correct horse")
	require.NoError(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := testService(t)
	_, _, err := svc.Login("admin@coach.example", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsWrongEmail(t *testing.T) {
	svc := testService(t)
	_, _, err := svc.Login("intruder@coach.example", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnconfiguredAdmin(t *testing.T) {
	svc := Service{Secret: []byte("s")}
	_, _, err := svc.Login("a@b.c", "pw")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsForgedSignature(t *testing.T) {
	svc := testService(t)
	token, _, err := svc.Login("admin@coach.example", "correct horse")
	require.NoError(t, err)

	other := svc
	other.Secret = []byte("a-completely-different-signing-key")
	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := testService(t)

	expired, err := jwt.NewBuilder().
		Issuer("backend-coach").
		Subject("admin@coach.example").
		IssuedAt(time.Now().Add(-2 * time.Hour)).
		Expiration(time.Now().Add(-time.Hour)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(expired, jwt.WithKey(jwa.HS256, svc.Secret))
	require.NoError(t, err)

	_, err = svc.ParseToken(string(signed))
	require.Error(t, err)
}

func TestRequireAdminMiddleware(t *testing.T) {
	svc := testService(t)
	h := Handler{Svc: svc}

	protected := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "admin@coach.example", AdminSubject(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/bookings", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	token, _, err := svc.Login("admin@coach.example", "correct horse")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
