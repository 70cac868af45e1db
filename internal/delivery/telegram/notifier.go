package telegram

import (
	"context"
	"fmt"

	"github.com/akarpov/pricewatch/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var _ domain.Notifier = (*Notifier)(nil)

// Notifier delivers trigger payloads over telegram. Delivery is best effort:
// the alert is already claimed when this runs.
type Notifier struct {
	api    *tgbotapi.BotAPI
	users  domain.UserRepository
	logger *zap.Logger
}

func NewNotifier(api *tgbotapi.BotAPI, users domain.UserRepository, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, users: users, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, userID uint, payload domain.TriggerPayload) error {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve user %d: %w", userID, err)
	}

	text := FormatTriggerMessage(payload)
	n.logger.Info("telegram notify send", zap.Int64("telegram_user_id", user.TelegramUserID), zap.Uint("alert_id", payload.AlertID))
	msg := tgbotapi.NewMessage(user.TelegramUserID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("failed to notify", zap.Int64("telegram_user_id", user.TelegramUserID), zap.Error(err))
		return err
	}
	return nil
}

// FormatTriggerMessage renders the user-facing text for a triggered alert.
// Base-price alerts get the signed percentage move since the base price.
func FormatTriggerMessage(payload domain.TriggerPayload) string {
	text := fmt.Sprintf(
		"Alert #%d triggered: %s %s %s %s (price %s)",
		payload.AlertID,
		payload.Market,
		payload.Pair,
		payload.Direction,
		payload.TargetPrice.String(),
		payload.ObservedPrice.String(),
	)
	if payload.DeltaPct != nil {
		word := "Up"
		if payload.DeltaPct.IsNegative() {
			word = "Down"
		}
		text += fmt.Sprintf("\n%s %s%% since your base price.", word, payload.DeltaPct.Abs().StringFixed(2))
	}
	return text
}
