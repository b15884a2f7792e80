package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"glulam-ndt/config"
	telegram "glulam-ndt/internal/api"
	"glulam-ndt/internal/container"
	"glulam-ndt/internal/domain/port"
	"glulam-ndt/internal/infrastructure/observability"
	"glulam-ndt/internal/infrastructure/render"
	"glulam-ndt/internal/infrastructure/storage"
	"glulam-ndt/internal/infrastructure/ultrasonic"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewPromMetrics(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		srv := observability.StartMetricsServer(cfg.MetricsAddr, prometheus.DefaultGatherer)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Metrics shutdown: %v", err)
			}
		}()
	}

	// Собираем сервисы приложения
	appContainer := container.New(container.Deps{
		Users:         storage.NewMemoryUserRepository(),
		Inspections:   storage.NewMemoryInspectionRepository(),
		Analyzer:      ultrasonic.NewAnalyzer(),
		Metrics:       metrics,
		RenderTimeout: cfg.RenderTimeout,
		Renderers: []port.ReportRenderer{
			render.NewProfilePlotter(),
			render.NewSchematicRenderer(),
			render.NewHTMLReporter(cfg.EChartsAssetsHost),
		},
	})

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
	log.Println("Bot stopped")
}
