package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	DBPath   string `envconfig:"DB_PATH" default:"./data/hodeway.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Base URL used in links inside outbound emails.
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// Email gateway; an empty host disables outbound mail.
	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"noreply@hodeway.app"`

	// Platform push sink; an empty token disables native notifications.
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
