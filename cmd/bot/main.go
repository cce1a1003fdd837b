package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad/go-telegram-practice/internal/catalog"
	"github.com/ad/go-telegram-practice/internal/config"
	"github.com/ad/go-telegram-practice/internal/db"
	"github.com/ad/go-telegram-practice/internal/handlers"
	"github.com/ad/go-telegram-practice/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err), zap.String("path", cfg.DBPath))
	}
	defer sqlDB.Close()

	if err := db.InitSchema(sqlDB); err != nil {
		logger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	queue := db.NewQueue(sqlDB)
	defer queue.Close()

	stateRepo := db.NewUserStateRepository(queue)
	historyRepo := db.NewHistoryRepository(queue)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := catalog.NewClient(cfg.CatalogURL, logger)
	cache := catalog.NewCache(client.FetchProblems, cfg.CatalogTTL, logger)
	filter := services.NewFilterEngine(cache)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	b, err := bot.New(cfg.BotToken,
		bot.WithHTTPClient(15*time.Second, httpClient),
		bot.WithSkipGetMe(),
	)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	msgManager := services.NewMessageManager(b, logger)
	handler := handlers.NewBotHandler(stateRepo, historyRepo, filter, msgManager, logger)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, handler.HandleUpdate, updateLogger(logger))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "✅ Bot running")
	})
	mux.HandleFunc("POST /"+cfg.BotToken, b.WebhookHandler())

	keepAlive := services.NewKeepAlive(cfg.SelfURL, cfg.PingInterval, logger)
	go keepAlive.Run(ctx)
	go b.StartWebhook(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown", zap.Error(err))
		}
	}()

	logger.Info("Bot started",
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBPath))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server error", zap.Error(err))
	}
}

func updateLogger(logger *zap.Logger) func(next bot.HandlerFunc) bot.HandlerFunc {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
			if update.Message != nil {
				logger.Info("message received",
					zap.Int64("chat_id", update.Message.Chat.ID),
					zap.String("text", update.Message.Text))
			}
			if update.CallbackQuery != nil {
				logger.Info("callback received",
					zap.Int64("from_id", update.CallbackQuery.From.ID),
					zap.String("data", update.CallbackQuery.Data))
			}
			next(ctx, b, update)
		}
	}
}
