package kashier

import (
	"crypto/hmac"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

// SignatureHeader carries the webhook signature on asynchronous notifications.
const SignatureHeader = "x-kashier-signature"

var (
	// ErrMissingCredentials indicates missing merchant id or secret key at call time.
	ErrMissingCredentials = errors.New("kashier: merchant id or secret key not configured")
	// ErrInvalidSignature indicates a signature/hash that does not match the recomputed value.
	ErrInvalidSignature = errors.New("kashier: invalid signature")
)

// Config holds the merchant credentials injected at startup. The secret key
// is the HMAC key shared with the gateway and must never be logged.
type Config struct {
	MerchantID string
	SecretKey  string
	BaseURL    string
	Mode       string
}

func (c Config) credentials() error {
	if strings.TrimSpace(c.MerchantID) == "" || strings.TrimSpace(c.SecretKey) == "" {
		return ErrMissingCredentials
	}
	return nil
}

func (c Config) checkoutHost() string {
	host := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if host == "" {
		host = "https://checkout.kashier.io"
	}
	return host
}

// Notification is the payload carried by both synchronous callbacks and
// asynchronous webhooks. Amount is kept as json.Number so the literal wire
// text feeds the hash computation unchanged.
type Notification struct {
	OrderID       string      `json:"orderId"`
	Status        string      `json:"status"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	TransactionID string      `json:"transactionId"`
	Hash          string      `json:"hash"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
}

// MissingFields reports which of the six mandatory fields are absent.
// PaymentMethod is optional and only present on webhooks.
func (n Notification) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(n.OrderID) == "" {
		missing = append(missing, "orderId")
	}
	if strings.TrimSpace(n.Status) == "" {
		missing = append(missing, "status")
	}
	if strings.TrimSpace(n.Amount.String()) == "" {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(n.Currency) == "" {
		missing = append(missing, "currency")
	}
	if strings.TrimSpace(n.TransactionID) == "" {
		missing = append(missing, "transactionId")
	}
	if strings.TrimSpace(n.Hash) == "" {
		missing = append(missing, "hash")
	}
	return missing
}

// ExpectedHash recomputes the notification hash from the inbound canonical string.
func (c Config) ExpectedHash(n Notification) (string, error) {
	if err := c.credentials(); err != nil {
		return "", err
	}
	msg := NotificationMessage(n.OrderID, n.Amount.String(), n.Currency, c.MerchantID, n.TransactionID, n.Status)
	return Sign(msg, []byte(c.SecretKey)), nil
}

// VerifyCallback checks the hash embedded in a synchronous callback body.
// Verification fails closed: an empty hash is never treated as "skip".
func (c Config) VerifyCallback(n Notification) error {
	expected, err := c.ExpectedHash(n)
	if err != nil {
		return err
	}
	provided := strings.TrimSpace(n.Hash)
	if provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyWebhook checks the header-carried signature of an asynchronous
// notification against the recomputed value.
func (c Config) VerifyWebhook(n Notification, signature string) error {
	expected, err := c.ExpectedHash(n)
	if err != nil {
		return err
	}
	provided := strings.TrimSpace(signature)
	if provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
		return ErrInvalidSignature
	}
	return nil
}

// CheckoutRequest carries the parameters of an outbound hosted-checkout URL.
// Amount must already be formatted to two decimal places.
type CheckoutRequest struct {
	OrderID     string
	Amount      string
	Currency    string
	RedirectURL string
}

// CheckoutURL signs the outbound order message and assembles the redirect
// URL to the gateway's hosted checkout page.
func (c Config) CheckoutURL(req CheckoutRequest) (string, error) {
	if err := c.credentials(); err != nil {
		return "", err
	}
	signature := Sign(OrderMessage(c.MerchantID, req.Amount, req.Currency, req.OrderID), []byte(c.SecretKey))

	q := url.Values{}
	q.Set("merchantId", c.MerchantID)
	q.Set("orderId", req.OrderID)
	q.Set("amount", req.Amount)
	q.Set("currency", req.Currency)
	q.Set("hash", signature)
	q.Set("merchantRedirect", req.RedirectURL)
	mode := strings.TrimSpace(c.Mode)
	if mode == "" {
		mode = "test"
	}
	q.Set("mode", mode)
	return c.checkoutHost() + "/?" + q.Encode(), nil
}
