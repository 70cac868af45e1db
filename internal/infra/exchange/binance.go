package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
)

var _ domain.PriceSource = (*BinanceSource)(nil)

type BinanceSource struct {
	cli     *binance.Client
	timeout time.Duration
}

func NewBinanceSource(cli *binance.Client, timeout time.Duration) *BinanceSource {
	return &BinanceSource{cli: cli, timeout: timeout}
}

func (s *BinanceSource) FetchPrice(ctx context.Context, pair string) (domain.PriceQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prices, err := s.cli.NewListPricesService().Symbol(pair).Do(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.PriceQuote{}, fmt.Errorf("binance ticker %s: %w", pair, err)
		}
		return domain.PriceQuote{}, fmt.Errorf("binance ticker %s: %w: %v", pair, domain.ErrSourceUnavailable, err)
	}
	if len(prices) == 0 {
		return domain.PriceQuote{}, fmt.Errorf("binance ticker %s: %w", pair, domain.ErrUnknownPair)
	}

	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("binance ticker %s: parse price %q: %w", pair, prices[0].Price, err)
	}

	return domain.PriceQuote{
		Market:     domain.MarketBinance,
		Pair:       pair,
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}
