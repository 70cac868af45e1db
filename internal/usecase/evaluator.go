package usecase

import (
	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
)

const deltaPlaces = 2

var hundred = decimal.NewFromInt(100)

// Evaluate decides whether a quote satisfies an alert and builds the
// notification payload. It is pure: all I/O lives in the cycle around it.
func Evaluate(alert domain.Alert, quote domain.PriceQuote) (domain.TriggerPayload, bool) {
	if !satisfied(alert.Direction, quote.Price, alert.TargetPrice) {
		return domain.TriggerPayload{}, false
	}

	payload := domain.TriggerPayload{
		AlertID:       alert.ID,
		Market:        alert.Market,
		Pair:          alert.Pair,
		Direction:     alert.Direction,
		TargetPrice:   alert.TargetPrice,
		ObservedPrice: quote.Price,
	}
	if alert.BasePrice != nil {
		delta := quote.Price.Sub(*alert.BasePrice).
			Div(*alert.BasePrice).
			Mul(hundred).
			Round(deltaPlaces)
		payload.DeltaPct = &delta
	}
	return payload, true
}

func satisfied(direction domain.Direction, price, target decimal.Decimal) bool {
	cmp := price.Cmp(target)
	switch direction {
	case domain.DirectionLTE:
		return cmp <= 0
	case domain.DirectionGTE:
		return cmp >= 0
	default:
		// A direction this engine does not know must never trigger.
		return false
	}
}
