package payment

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var orderSeq atomic.Uint64

// NewOrderID generates a numeric order identifier unique for the process
// lifetime. Millisecond timestamp plus a process counter; not meant to be
// cryptographically unique.
func NewOrderID() string {
	seq := orderSeq.Add(1) % 1000
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + pad3(seq)
}

func pad3(n uint64) string {
	s := strconv.FormatUint(n, 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// CustomerReference derives the short human-readable reconciliation id:
// "REF-" + first three characters of the customer name, uppercased, + "-" +
// first five characters of the order id.
func CustomerReference(name, orderID string) string {
	namePart := strings.ToUpper(truncate(strings.TrimSpace(name), 3))
	orderPart := truncate(orderID, 5)
	return "REF-" + namePart + "-" + orderPart
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
