package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/akarpov/pricewatch/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handlers struct {
	userUC  *usecase.UserUsecase
	alertUC *usecase.AlertUsecase
	logger  *zap.Logger
}

func NewHandlers(userUC *usecase.UserUsecase, alertUC *usecase.AlertUsecase, logger *zap.Logger) *Handlers {
	return &Handlers{userUC: userUC, alertUC: alertUC, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	username := update.Message.From.UserName

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("telegram_user_id", userID),
		zap.String("username", username),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		_, err := h.userUC.StartOrGetUser(ctx, userID, username)
		if err != nil {
			h.logger.Warn("start command failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, "Failed to register. Please try again.")
			return
		}
		h.reply(api, chatID, "Welcome to pricewatch.\n\n"+HelpText)
	case "help":
		h.reply(api, chatID, HelpText)
	case "add_alert":
		market, pair, direction, target, err := ParseAddAlertArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /add_alert <market> <pair> <=|>= <target>")
			return
		}
		alert, err := h.alertUC.AddAlert(ctx, userID, market, pair, direction, target)
		if err != nil {
			h.logger.Warn("add_alert failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.alertErrorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("Alert created: %s", formatAlertLine(*alert)))
	case "add_base_alert":
		market, pair, direction, target, basePrice, err := ParseAddBaseAlertArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /add_base_alert <market> <pair> <=|>= <target> <base_price>")
			return
		}
		alert, err := h.alertUC.AddBasePriceAlert(ctx, userID, market, pair, direction, target, basePrice)
		if err != nil {
			h.logger.Warn("add_base_alert failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.alertErrorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("Alert created: %s", formatAlertLine(*alert)))
	case "alerts":
		alerts, err := h.alertUC.ListAlerts(ctx, userID)
		if err != nil {
			h.logger.Warn("alerts list failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.alertErrorMessage(err))
			return
		}
		if len(alerts) == 0 {
			h.reply(api, chatID, "No alerts yet. Use /add_alert to create one.")
			return
		}
		var builder strings.Builder
		builder.WriteString("Your alerts:\n")
		for _, alert := range alerts {
			builder.WriteString(formatAlertLine(alert))
			builder.WriteString("\n")
		}
		h.reply(api, chatID, builder.String())
	case "delete":
		alertID, err := ParseAlertID(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /delete <alert_id>")
			return
		}
		if err := h.alertUC.DeleteAlert(ctx, userID, alertID); err != nil {
			h.logger.Warn("delete failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(api, chatID, h.alertErrorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("Alert #%d deleted.", alertID))
	default:
		h.reply(api, chatID, "Unknown command. Use /help.")
	}
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) alertErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return "Please /start first."
	case errors.Is(err, usecase.ErrUnknownMarket):
		return "Unknown market. Supported: binance, coinbase."
	case errors.Is(err, usecase.ErrInvalidPair):
		return "Invalid trading pair."
	case errors.Is(err, usecase.ErrInvalidDirection):
		return "Invalid direction. Use <= or >=."
	case errors.Is(err, usecase.ErrInvalidPrice):
		return "Invalid price. Use a positive number."
	case errors.Is(err, usecase.ErrAlertNotFound):
		return "Alert not found."
	default:
		return "Something went wrong. Please try again."
	}
}

func formatAlertLine(alert domain.Alert) string {
	status := "active"
	if !alert.Active() {
		status = "triggered " + alert.TriggeredAt.Format("2006-01-02 15:04 MST")
	}
	line := fmt.Sprintf("#%d [%s] %s %s %s %s", alert.ID, status, alert.Market, alert.Pair, alert.Direction, alert.TargetPrice.String())
	if alert.BasePrice != nil {
		line += fmt.Sprintf(" (base %s)", alert.BasePrice.String())
	}
	return line
}
