package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var _ domain.PriceSource = (*CoinbaseSource)(nil)

// CoinbaseSource reads spot prices from the Coinbase Exchange REST API.
type CoinbaseSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewCoinbaseSource(baseURL string, timeout time.Duration, logger *zap.Logger) *CoinbaseSource {
	return &CoinbaseSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (s *CoinbaseSource) FetchPrice(ctx context.Context, pair string) (domain.PriceQuote, error) {
	endpoint := fmt.Sprintf("%s/products/%s/ticker", s.baseURL, url.PathEscape(pair))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.PriceQuote{}, err
	}

	start := time.Now()
	response, err := s.client.Do(request)
	if err != nil {
		s.logger.Warn("coinbase ticker request failed", zap.String("pair", pair), zap.Error(err))
		return domain.PriceQuote{}, fmt.Errorf("coinbase ticker %s: %w: %v", pair, domain.ErrSourceUnavailable, err)
	}
	defer response.Body.Close()

	s.logger.Debug(
		"coinbase ticker request complete",
		zap.String("pair", pair),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusNotFound {
		return domain.PriceQuote{}, fmt.Errorf("coinbase ticker %s: %w", pair, domain.ErrUnknownPair)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return domain.PriceQuote{}, fmt.Errorf("coinbase ticker %s: %w: status %d", pair, domain.ErrSourceUnavailable, response.StatusCode)
	}

	var payload struct {
		Price string `json:"price"`
		Time  string `json:"time"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return domain.PriceQuote{}, fmt.Errorf("coinbase ticker %s: decode: %w", pair, err)
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("coinbase ticker %s: parse price %q: %w", pair, payload.Price, err)
	}

	observedAt := time.Now().UTC()
	if ts, err := time.Parse(time.RFC3339Nano, payload.Time); err == nil {
		observedAt = ts
	}

	return domain.PriceQuote{
		Market:     domain.MarketCoinbase,
		Pair:       pair,
		Price:      price,
		ObservedAt: observedAt,
	}, nil
}
