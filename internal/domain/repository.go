package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("price source unavailable")
	ErrUnknownPair       = errors.New("unknown trading pair")
)

type UserRepository interface {
	GetByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)
	GetByID(ctx context.Context, userID uint) (*User, error)
	Create(ctx context.Context, user *User) error
}

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	ListByUser(ctx context.Context, userID uint) ([]Alert, error)
	Delete(ctx context.Context, userID uint, alertID uint) error

	// ListDistinctActiveKeys returns the minimal set of (market, pair) keys
	// that have at least one active alert, so a cycle fetches no price it
	// does not need.
	ListDistinctActiveKeys(ctx context.Context) ([]QuoteKey, error)
	ListActiveByKey(ctx context.Context, key QuoteKey) ([]Alert, error)

	// TryClaim marks the alert triggered iff it is still active at the moment
	// of the write. It must be a single atomic conditional update, safe under
	// concurrent callers across process instances. Returns false when another
	// caller already claimed the alert; that is an expected outcome, not an
	// error.
	TryClaim(ctx context.Context, alertID uint, triggeredAt time.Time) (bool, error)
}
