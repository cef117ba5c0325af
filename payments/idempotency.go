package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newIdempotencyKey returns 8 random hex chars followed by the last 9 digits
// of the Unix millisecond timestamp, e.g. "3f9a1c0b716245301".
//
// Why random AND timestamp?
// → The SDK retries POST /v1/checkout/sessions on network errors with the same key
// → Stripe replays the first result instead of creating a second session
// → The random prefix keeps two checkouts in the same millisecond apart
func newIdempotencyKey(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%09d", random, now.UnixMilli()%1_000_000_000)
}
