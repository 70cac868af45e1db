package telegram

import (
	"testing"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTriggerMessagePlainAlert(t *testing.T) {
	payload := domain.TriggerPayload{
		AlertID:       12,
		Market:        domain.MarketBinance,
		Pair:          "BTCUSDT",
		Direction:     domain.DirectionGTE,
		TargetPrice:   decimal.RequireFromString("100000"),
		ObservedPrice: decimal.RequireFromString("100250.1"),
	}

	text := FormatTriggerMessage(payload)
	assert.Equal(t, "Alert #12 triggered: binance BTCUSDT >= 100000 (price 100250.1)", text)
}

func TestFormatTriggerMessageBasePriceAlert(t *testing.T) {
	gain := decimal.RequireFromString("50")
	payload := domain.TriggerPayload{
		AlertID:       3,
		Market:        domain.MarketCoinbase,
		Pair:          "ETH-USD",
		Direction:     domain.DirectionGTE,
		TargetPrice:   decimal.RequireFromString("75"),
		ObservedPrice: decimal.RequireFromString("75"),
		DeltaPct:      &gain,
	}
	assert.Contains(t, FormatTriggerMessage(payload), "Up 50.00% since your base price.")

	loss := decimal.RequireFromString("-25")
	payload.DeltaPct = &loss
	assert.Contains(t, FormatTriggerMessage(payload), "Down 25.00% since your base price.")
}

func TestParseAddAlertArgs(t *testing.T) {
	market, pair, direction, target, err := ParseAddAlertArgs("binance BTCUSDT >= 100000")
	require.NoError(t, err)
	assert.Equal(t, "binance", market)
	assert.Equal(t, "BTCUSDT", pair)
	assert.Equal(t, ">=", direction)
	assert.Equal(t, "100000", target)

	_, _, _, _, err = ParseAddAlertArgs("binance BTCUSDT >=")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestParseAddBaseAlertArgs(t *testing.T) {
	market, pair, direction, target, base, err := ParseAddBaseAlertArgs("coinbase ETH-USD <= 2400 3100.50")
	require.NoError(t, err)
	assert.Equal(t, "coinbase", market)
	assert.Equal(t, "ETH-USD", pair)
	assert.Equal(t, "<=", direction)
	assert.Equal(t, "2400", target)
	assert.Equal(t, "3100.50", base)

	_, _, _, _, _, err = ParseAddBaseAlertArgs("coinbase ETH-USD <= 2400")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestParseAlertID(t *testing.T) {
	id, err := ParseAlertID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseAlertID("nope")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}
