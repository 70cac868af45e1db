package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the comparison an alert makes against the observed price.
type Direction string

const (
	DirectionGTE Direction = ">="
	DirectionLTE Direction = "<="
)

// Alert is a persisted price threshold alert. A non-nil BasePrice marks the
// base-price variant: it never affects triggering, only how the notification
// is phrased.
type Alert struct {
	ID          uint
	UserID      uint
	Market      string
	Pair        string
	Direction   Direction
	TargetPrice decimal.Decimal
	BasePrice   *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
	TriggeredAt *time.Time
	DeletedAt   *time.Time
}

// Active reports whether the alert is still eligible for evaluation.
// TriggeredAt transitions from nil to a timestamp exactly once and is never
// cleared afterwards.
func (a Alert) Active() bool {
	return a.TriggeredAt == nil
}

// TriggerPayload is what the notifier receives once an alert is claimed.
// DeltaPct is set only for base-price alerts: the signed percentage move of
// the observed price relative to the base price, rounded to two places.
type TriggerPayload struct {
	AlertID       uint
	Market        string
	Pair          string
	Direction     Direction
	TargetPrice   decimal.Decimal
	ObservedPrice decimal.Decimal
	DeltaPct      *decimal.Decimal
}
