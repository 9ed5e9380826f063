package kashier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Sign computes the HMAC-SHA256 digest of message keyed by key, hex encoded.
// It is deterministic and has no side effects.
func Sign(message string, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// OrderMessage builds the canonical string signed on outbound checkout
// requests. Kashier expects plain concatenation with no delimiter; the field
// order is part of the gateway's wire contract and must not change.
func OrderMessage(merchantID, amount, currency, orderID string) string {
	return merchantID + amount + currency + orderID
}

// NotificationMessage builds the canonical string verified on inbound
// callbacks and webhooks. Pipe-delimited, in the exact order the gateway
// documents. This ordering is unrelated to OrderMessage and must never be
// inferred from it.
func NotificationMessage(orderID, amount, currency, merchantID, transactionID, status string) string {
	return strings.Join([]string{orderID, amount, currency, merchantID, transactionID, status}, "|")
}

// FormatAmount renders an amount with exactly two fractional digits, the
// form the gateway requires before signing or URL construction.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
