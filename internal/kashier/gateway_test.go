package kashier

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{MerchantID: "MID1", SecretKey: "testsecret", Mode: "test"}
}

func validNotification() Notification {
	return Notification{
		OrderID:       "ORD1",
		Status:        "SUCCESS",
		Amount:        json.Number("10.00"),
		Currency:      "EGP",
		TransactionID: "TX9",
		Hash:          "ddc355b71fde172e427df8e63f7397341473831191d57cecc640f02a5da74992",
	}
}

func TestVerifyCallbackValidHash(t *testing.T) {
	require.NoError(t, testConfig().VerifyCallback(validNotification()))
}

func TestVerifyCallbackRejectsTamperedAmount(t *testing.T) {
	n := validNotification()
	n.Amount = json.Number("10.01")
	require.ErrorIs(t, testConfig().VerifyCallback(n), ErrInvalidSignature)
}

func TestVerifyCallbackRejectsEmptyHash(t *testing.T) {
	n := validNotification()
	n.Hash = ""
	require.ErrorIs(t, testConfig().VerifyCallback(n), ErrInvalidSignature)
}

func TestVerifyCallbackMissingCredentials(t *testing.T) {
	cfg := Config{}
	require.ErrorIs(t, cfg.VerifyCallback(validNotification()), ErrMissingCredentials)
}

func TestVerifyWebhookHeaderSignature(t *testing.T) {
	cfg := testConfig()
	n := validNotification()
	n.Hash = "ignored-on-webhook"

	sig, err := cfg.ExpectedHash(n)
	require.NoError(t, err)

	require.NoError(t, cfg.VerifyWebhook(n, sig))
	require.ErrorIs(t, cfg.VerifyWebhook(n, "deadbeef"), ErrInvalidSignature)
	require.ErrorIs(t, cfg.VerifyWebhook(n, ""), ErrInvalidSignature)
}

func TestNotificationAmountPreservesWireLiteral(t *testing.T) {
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(`{"orderId":"O","amount":10.50}`), &n))
	require.Equal(t, "10.50", n.Amount.String())
}

func TestMissingFields(t *testing.T) {
	n := validNotification()
	n.OrderID = ""
	n.Hash = " "
	missing := n.MissingFields()
	require.Equal(t, []string{"orderId", "hash"}, missing)

	require.Empty(t, validNotification().MissingFields())
}

func TestCheckoutURL(t *testing.T) {
	cfg := testConfig()
	raw, err := cfg.CheckoutURL(CheckoutRequest{
		OrderID:     "ORD1",
		Amount:      "10.00",
		Currency:    "EGP",
		RedirectURL: "https://coach.example/thanks",
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "checkout.kashier.io", u.Host)

	q := u.Query()
	require.Equal(t, "MID1", q.Get("merchantId"))
	require.Equal(t, "ORD1", q.Get("orderId"))
	require.Equal(t, "10.00", q.Get("amount"))
	require.Equal(t, "EGP", q.Get("currency"))
	require.Equal(t, "test", q.Get("mode"))
	require.Equal(t, "https://coach.example/thanks", q.Get("merchantRedirect"))
	require.Equal(t, "97dadb453314d1709567568a14daea1f544809e3b7880c387d7799d4dd0362e1", q.Get("hash"))
}

func TestCheckoutURLCustomHost(t *testing.T) {
	cfg := testConfig()
	cfg.BaseURL = "https://sandbox.kashier.io/"
	raw, err := cfg.CheckoutURL(CheckoutRequest{OrderID: "O", Amount: "1.00", Currency: "EGP", RedirectURL: "https://x.example"})
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "sandbox.kashier.io", u.Host)
}

func TestCheckoutURLMissingCredentials(t *testing.T) {
	_, err := Config{}.CheckoutURL(CheckoutRequest{OrderID: "O", Amount: "1.00", Currency: "EGP"})
	require.ErrorIs(t, err, ErrMissingCredentials)
}
