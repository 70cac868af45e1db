package app

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/akarpov/pricewatch/internal/config"
	"github.com/akarpov/pricewatch/internal/delivery/telegram"
	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/akarpov/pricewatch/internal/infra/db"
	"github.com/akarpov/pricewatch/internal/infra/exchange"
	"github.com/akarpov/pricewatch/internal/infra/log"
	"github.com/akarpov/pricewatch/internal/schedule"
	"github.com/akarpov/pricewatch/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	bot       *telegram.Bot
	runner    *schedule.PeriodicRunner
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	userRepo := db.NewUserRepository(dbConn)
	alertRepo := db.NewAlertRepository(dbConn)

	binanceCli := binance.NewClient(cfg.BinanceAPIKey, cfg.BinanceAPISecret)
	sources := map[string]domain.PriceSource{
		domain.MarketBinance:  exchange.NewBinanceSource(binanceCli, cfg.PriceFetchTimeout),
		domain.MarketCoinbase: exchange.NewCoinbaseSource(cfg.CoinbaseBaseURL, cfg.PriceFetchTimeout, logger),
	}
	markets := make([]string, 0, len(sources))
	for market := range sources {
		markets = append(markets, market)
	}

	userUC := usecase.NewUserUsecase(userRepo)
	alertUC := usecase.NewAlertUsecase(userRepo, alertRepo, markets)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	notifier := telegram.NewNotifier(api, userRepo, logger)
	cycle := usecase.NewCycle(alertRepo, sources, notifier, logger, cfg.PriceFetchConcurrency, cfg.CycleTimeout)
	runner := schedule.NewPeriodicRunner(cycle, cfg.PollInterval, logger)

	handlers := telegram.NewHandlers(userUC, alertUC, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{bot: bot, runner: runner, logger: logger, cleanupFn: cleanup}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("pricewatch service starting")

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return a.runner.Run(ctx) })
	group.Go(func() error { return a.bot.Start(ctx) })

	a.logger.Info("pricewatch service started")
	return group.Wait()
}

func (a *App) Shutdown() {
	a.logger.Info("pricewatch service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
