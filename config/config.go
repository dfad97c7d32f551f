package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingToken нет токена удалённой модели
var ErrMissingToken = errors.New("HF_TOKEN is required")

type Config struct {
	HFToken    string
	HFModelURL string

	DataDir        string
	ReportDir      string
	ReportTemplate string
	ReportJSON     string

	LogDir   string
	LogLevel string

	RequestDelay   time.Duration
	RequestTimeout time.Duration

	HistoryDB string

	TelegramToken  string
	TelegramChatID int64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		HFToken:        os.Getenv("HF_TOKEN"),
		HFModelURL:     os.Getenv("HF_MODEL_URL"),
		DataDir:        getEnv("DATA_DIR", "content/top_influenceurs_2024"),
		ReportDir:      getEnv("REPORT_DIR", "reports"),
		ReportTemplate: os.Getenv("REPORT_TEMPLATE"),
		ReportJSON:     getEnv("REPORT_JSON", "dataset_evaluation_report.json"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HistoryDB:      os.Getenv("HISTORY_DB"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	var err error
	if cfg.RequestDelay, err = getDuration("REQUEST_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.HFToken == "" {
		return ErrMissingToken
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("REQUEST_DELAY must not be negative, got %s", c.RequestDelay)
	}
	return nil
}

// NotifyEnabled сообщает, заданы ли параметры Telegram
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Каталоги набора данных
func (c *Config) ImageDir() string          { return filepath.Join(c.DataDir, "IMG") }
func (c *Config) MaskDir() string           { return filepath.Join(c.DataDir, "Mask") }
func (c *Config) OutputDir() string         { return filepath.Join(c.DataDir, "Output_API") }
func (c *Config) OutputMaskDir() string     { return filepath.Join(c.OutputDir(), "Mask") }
func (c *Config) OutputImageDir() string    { return filepath.Join(c.OutputDir(), "IMG") }
func (c *Config) ExpectedResultDir() string { return filepath.Join(c.DataDir, "Expected_Results") }
func (c *Config) RealResultDir() string     { return filepath.Join(c.DataDir, "Real_Results") }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
