package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultRenderTimeout = 10 * time.Second

type Config struct {
	TelegramToken string
	MetricsAddr   string        // если пусто, метрики не публикуются
	RenderTimeout time.Duration // ограничение на отрисовку отчёта

	EChartsAssetsHost string // адрес скриптов echarts для HTML-отчёта, пусто для адреса по умолчанию
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		RenderTimeout: defaultRenderTimeout,

		EChartsAssetsHost: os.Getenv("ECHARTS_ASSETS_HOST"),
	}

	if raw := os.Getenv("RENDER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse RENDER_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("RENDER_TIMEOUT must be positive, got %s", d)
		}
		cfg.RenderTimeout = d
	}

	return cfg, nil
}
