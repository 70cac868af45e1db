package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotRegistered = errors.New("user not registered")
	ErrUnknownMarket     = errors.New("unknown market")
	ErrInvalidPair       = errors.New("invalid trading pair")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrAlertNotFound     = errors.New("alert not found")
)

type AlertUsecase struct {
	users   domain.UserRepository
	alerts  domain.AlertRepository
	markets map[string]struct{}
}

func NewAlertUsecase(users domain.UserRepository, alerts domain.AlertRepository, markets []string) *AlertUsecase {
	known := make(map[string]struct{}, len(markets))
	for _, market := range markets {
		known[market] = struct{}{}
	}
	return &AlertUsecase{users: users, alerts: alerts, markets: known}
}

func (u *AlertUsecase) AddAlert(ctx context.Context, telegramUserID int64, market, pair, direction, target string) (*domain.Alert, error) {
	return u.addAlert(ctx, telegramUserID, market, pair, direction, target, "")
}

func (u *AlertUsecase) AddBasePriceAlert(ctx context.Context, telegramUserID int64, market, pair, direction, target, basePrice string) (*domain.Alert, error) {
	return u.addAlert(ctx, telegramUserID, market, pair, direction, target, basePrice)
}

func (u *AlertUsecase) addAlert(ctx context.Context, telegramUserID int64, market, pair, direction, target, basePrice string) (*domain.Alert, error) {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotRegistered
		}
		return nil, err
	}

	market = strings.ToLower(strings.TrimSpace(market))
	if _, ok := u.markets[market]; !ok {
		return nil, ErrUnknownMarket
	}

	pair = strings.ToUpper(strings.TrimSpace(pair))
	if pair == "" {
		return nil, ErrInvalidPair
	}

	normalizedDirection, err := normalizeDirection(direction)
	if err != nil {
		return nil, err
	}

	targetPrice, err := parsePositivePrice(target)
	if err != nil {
		return nil, err
	}

	alert := &domain.Alert{
		UserID:      user.ID,
		Market:      market,
		Pair:        pair,
		Direction:   normalizedDirection,
		TargetPrice: targetPrice,
	}
	if basePrice != "" {
		base, err := parsePositivePrice(basePrice)
		if err != nil {
			return nil, err
		}
		alert.BasePrice = &base
	}

	if err := u.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, telegramUserID int64) ([]domain.Alert, error) {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotRegistered
		}
		return nil, err
	}
	return u.alerts.ListByUser(ctx, user.ID)
}

func (u *AlertUsecase) DeleteAlert(ctx context.Context, telegramUserID int64, alertID uint) error {
	user, err := u.users.GetByTelegramID(ctx, telegramUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotRegistered
		}
		return err
	}

	if err := u.alerts.Delete(ctx, user.ID, alertID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	return nil
}

func normalizeDirection(input string) (domain.Direction, error) {
	switch strings.TrimSpace(input) {
	case "<=", "<":
		return domain.DirectionLTE, nil
	case ">=", ">":
		return domain.DirectionGTE, nil
	default:
		return "", ErrInvalidDirection
	}
}

func parsePositivePrice(input string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil || !price.IsPositive() {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return price, nil
}
