package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCoinbaseSourceFetchPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/BTC-USD/ticker", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"trade_id":1,"price":"64250.12","time":"2026-08-26T10:00:00.000000Z"}`))
	}))
	defer server.Close()

	source := NewCoinbaseSource(server.URL, time.Second, zap.NewNop())
	quote, err := source.FetchPrice(context.Background(), "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, domain.MarketCoinbase, quote.Market)
	assert.Equal(t, "BTC-USD", quote.Pair)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("64250.12")))
	assert.Equal(t, 2026, quote.ObservedAt.Year())
}

func TestCoinbaseSourceUnknownPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	source := NewCoinbaseSource(server.URL, time.Second, zap.NewNop())
	_, err := source.FetchPrice(context.Background(), "NOPE-USD")
	assert.ErrorIs(t, err, domain.ErrUnknownPair)
}

func TestCoinbaseSourceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewCoinbaseSource(server.URL, time.Second, zap.NewNop())
	_, err := source.FetchPrice(context.Background(), "BTC-USD")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
