package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Result reports one limiter decision for a key.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter answers whether a key may perform another action within the window.
type Limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// ErrLimitExceeded indicates the command budget for the key is spent.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// UserKey builds the limiter key for a sender.
func UserKey(senderID int64) string {
	return "user:" + strconv.FormatInt(senderID, 10)
}
