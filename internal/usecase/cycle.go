package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Cycle runs one evaluation pass over every active alert: distinct keys are
// fetched with bounded parallelism per market, each quote is evaluated
// against the alerts on its key, and every satisfied alert goes through the
// store's atomic claim before the notifier sees it.
type Cycle struct {
	alerts           domain.AlertRepository
	sources          map[string]domain.PriceSource
	notifier         domain.Notifier
	logger           *zap.Logger
	fetchConcurrency int
	cycleTimeout     time.Duration
	now              func() time.Time
}

func NewCycle(
	alerts domain.AlertRepository,
	sources map[string]domain.PriceSource,
	notifier domain.Notifier,
	logger *zap.Logger,
	fetchConcurrency int,
	cycleTimeout time.Duration,
) *Cycle {
	if fetchConcurrency < 1 {
		fetchConcurrency = 1
	}
	return &Cycle{
		alerts:           alerts,
		sources:          sources,
		notifier:         notifier,
		logger:           logger,
		fetchConcurrency: fetchConcurrency,
		cycleTimeout:     cycleTimeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (c *Cycle) Name() string {
	return "price alert cycle"
}

func (c *Cycle) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cycleTimeout)
	defer cancel()

	keys, err := c.alerts.ListDistinctActiveKeys(ctx)
	if err != nil {
		return fmt.Errorf("list active keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	quotes := c.fetchQuotes(ctx, keys)
	c.logger.Debug("cycle fetched quotes", zap.Int("keys", len(keys)), zap.Int("quotes", len(quotes)))

	for _, quote := range quotes {
		c.evaluateKey(ctx, quote)
	}
	return nil
}

// fetchQuotes fans out per market so one slow or broken market cannot starve
// the others, with a fixed concurrency limit inside each market. A failed
// fetch skips its key for this cycle; the next tick retries it.
func (c *Cycle) fetchQuotes(ctx context.Context, keys []domain.QuoteKey) []domain.PriceQuote {
	byMarket := lo.GroupBy(keys, func(key domain.QuoteKey) string { return key.Market })

	var mu sync.Mutex
	var quotes []domain.PriceQuote

	var markets errgroup.Group
	for market, marketKeys := range byMarket {
		marketKeys := marketKeys
		source, ok := c.sources[market]
		if !ok {
			c.logger.Warn("no price source for market", zap.String("market", market))
			continue
		}
		markets.Go(func() error {
			var fetches errgroup.Group
			fetches.SetLimit(c.fetchConcurrency)
			for _, key := range marketKeys {
				key := key
				fetches.Go(func() error {
					quote, err := source.FetchPrice(ctx, key.Pair)
					if err != nil {
						c.logger.Warn("price fetch failed, skipping key",
							zap.String("market", key.Market),
							zap.String("pair", key.Pair),
							zap.Error(err),
						)
						return nil
					}
					mu.Lock()
					quotes = append(quotes, quote)
					mu.Unlock()
					return nil
				})
			}
			return fetches.Wait()
		})
	}
	_ = markets.Wait()
	return quotes
}

// evaluateKey runs every active alert on the key against the single quote
// fetched for it this cycle, so decisions within a cycle are consistent per
// key. A store failure here affects this key only.
func (c *Cycle) evaluateKey(ctx context.Context, quote domain.PriceQuote) {
	alerts, err := c.alerts.ListActiveByKey(ctx, quote.Key())
	if err != nil {
		c.logger.Warn("failed to load alerts for key",
			zap.String("market", quote.Market),
			zap.String("pair", quote.Pair),
			zap.Error(err),
		)
		return
	}

	for _, alert := range alerts {
		payload, ok := Evaluate(alert, quote)
		if !ok {
			continue
		}

		claimed, err := c.alerts.TryClaim(ctx, alert.ID, c.now())
		if err != nil {
			c.logger.Warn("claim failed", zap.Uint("alert_id", alert.ID), zap.Error(err))
			continue
		}
		if !claimed {
			// Another evaluator got there first; expected under concurrency.
			c.logger.Debug("alert already triggered", zap.Uint("alert_id", alert.ID))
			continue
		}

		c.logger.Info("alert triggered",
			zap.Uint("alert_id", alert.ID),
			zap.String("market", alert.Market),
			zap.String("pair", alert.Pair),
			zap.String("price", quote.Price.String()),
		)
		if err := c.notifier.Notify(ctx, alert.UserID, payload); err != nil {
			// The claim stands: a duplicate notification after a crash is
			// tolerable, a lost trigger is not.
			c.logger.Warn("failed to notify triggered alert", zap.Uint("alert_id", alert.ID), zap.Error(err))
		}
	}
}
