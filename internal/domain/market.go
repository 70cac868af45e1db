package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MarketBinance  = "binance"
	MarketCoinbase = "coinbase"
)

// QuoteKey identifies the price an alert is watching. Pairs are stored in the
// market's native symbol format (BTCUSDT on binance, BTC-USD on coinbase).
type QuoteKey struct {
	Market string
	Pair   string
}

// PriceQuote is a single observed price. It lives for one evaluation cycle
// and is never persisted.
type PriceQuote struct {
	Market     string
	Pair       string
	Price      decimal.Decimal
	ObservedAt time.Time
}

func (q PriceQuote) Key() QuoteKey {
	return QuoteKey{Market: q.Market, Pair: q.Pair}
}

// PriceSource fetches the current price for a pair on one market. Each call
// applies its own bounded timeout and never retries internally; retry policy
// belongs to the caller's next cycle.
type PriceSource interface {
	FetchPrice(ctx context.Context, pair string) (PriceQuote, error)
}

// Notifier delivers a triggered alert to its owner. Called at most once per
// successful claim; failures do not revert the claim.
type Notifier interface {
	Notify(ctx context.Context, userID uint, payload TriggerPayload) error
}
