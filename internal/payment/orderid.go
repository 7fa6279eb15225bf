package payment

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

const orderIDSuffixLen = 8

// GenerateOrderID returns ORDER_<YYYYMMDDHHmmss>_<8 random chars>. The suffix
// keeps ids from the same second apart; it does not order them.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("ORDER_%s_%s", now.Format("20060102150405"), randomSuffix(orderIDSuffixLen))
}

func NewOrderID() string {
	return GenerateOrderID(time.Now())
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	// 64 symbols, so the low 6 bits map uniformly.
	for i, b := range buf {
		buf[i] = orderIDAlphabet[b&63]
	}
	return string(buf)
}
