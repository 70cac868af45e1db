package telegram

import (
	"errors"
	"strconv"
	"strings"
)

const HelpText = `Commands:
/start - register
/help - show this help
/add_alert <market> <pair> <=|>=|<|> <target>
/add_base_alert <market> <pair> <=|>=|<|> <target> <base_price>
/alerts - list your alerts
/delete <alert_id>

Notes:
- Markets: binance, coinbase.
- Pairs use the market's native symbol: BTCUSDT on binance, BTC-USD on coinbase.
- Use < as alias for <=, and > as alias for >=.
- A base_price alert also reports the move since the price you acquired at.
Examples:
/add_alert binance BTCUSDT >= 100000
/add_base_alert coinbase ETH-USD <= 2400 3100.50
`

var ErrInvalidArguments = errors.New("invalid arguments")

func ParseAddAlertArgs(args string) (market, pair, direction, target string, err error) {
	parts := strings.Fields(args)
	if len(parts) != 4 {
		return "", "", "", "", ErrInvalidArguments
	}
	return parts[0], parts[1], parts[2], parts[3], nil
}

func ParseAddBaseAlertArgs(args string) (market, pair, direction, target, basePrice string, err error) {
	parts := strings.Fields(args)
	if len(parts) != 5 {
		return "", "", "", "", "", ErrInvalidArguments
	}
	return parts[0], parts[1], parts[2], parts[3], parts[4], nil
}

func ParseAlertID(args string) (uint, error) {
	idStr := strings.TrimSpace(args)
	if idStr == "" {
		return 0, ErrInvalidArguments
	}
	value, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, ErrInvalidArguments
	}
	return uint(value), nil
}
