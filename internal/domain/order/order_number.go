package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// OrderNumberPrefix starts every order number
const OrderNumberPrefix = "ORD"

// NewOrderNumber builds a human-readable order number for the given day:
// ORD-YYYYMMDD-NNNN with a random four digit suffix. Uniqueness is not
// guaranteed here; the storage layer enforces it with a unique index and
// callers regenerate on collision.
func NewOrderNumber(t time.Time) string {
	suffix := 1000 + rand.IntN(9000)
	return fmt.Sprintf("%s-%s-%d", OrderNumberPrefix, t.Format("20060102"), suffix)
}

// NewWideOrderNumber builds an order number with a larger random suffix.
// Fallback for the rare case where two regenerated numbers collide too.
func NewWideOrderNumber(t time.Time) string {
	suffix := 100000 + rand.IntN(900000)
	return fmt.Sprintf("%s-%s-%d", OrderNumberPrefix, t.Format("20060102"), suffix)
}
