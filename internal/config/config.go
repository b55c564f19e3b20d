package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Notify   NotifyConfig   `mapstructure:"notify"`

	// Secrets come from the environment only, never from the yaml file.
	Secrets Secrets `mapstructure:"-"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	ConfirmTTL     time.Duration `mapstructure:"confirm_ttl"`
}

type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

type CalendarConfig struct {
	CalendarID      string        `mapstructure:"calendar_id"`
	Timezone        string        `mapstructure:"timezone"`
	MaxResults      int64         `mapstructure:"max_results"`
	ReminderMinutes int64         `mapstructure:"reminder_minutes"`
	LookbackDays    int           `mapstructure:"lookback_days"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Email    EmailConfig    `mapstructure:"email"`
}

type TelegramConfig struct {
	Enabled          bool  `mapstructure:"enabled"`
	ChatID           int64 `mapstructure:"chat_id"`
	ReplyToMessageID int   `mapstructure:"reply_to_message_id"`
}

type EmailConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	From    string `mapstructure:"from"`
	To      string `mapstructure:"to"`
}

// Secrets are the externally supplied credentials: the service-account
// key for the calendar, the bot token and the SMTP password.
type Secrets struct {
	GoogleCredentialsFile string `envconfig:"GOOGLE_CREDENTIALS_FILE"`
	TelegramToken         string `envconfig:"TELEGRAM_BOT_TOKEN"`
	SMTPUsername          string `envconfig:"SMTP_USERNAME"`
	SMTPPassword          string `envconfig:"SMTP_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// The file is optional; defaults plus env cover a bare setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("agenda", &config.Secrets); err != nil {
		return nil, fmt.Errorf("failed to read secrets from environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("server.rate_limit_rps", 10)
	viper.SetDefault("server.rate_limit_burst", 20)
	viper.SetDefault("server.confirm_ttl", time.Minute)

	viper.SetDefault("ledger.path", "agendamentos.csv")

	viper.SetDefault("calendar.calendar_id", "primary")
	viper.SetDefault("calendar.timezone", "America/Sao_Paulo")
	viper.SetDefault("calendar.max_results", 100)
	viper.SetDefault("calendar.reminder_minutes", 60)
	viper.SetDefault("calendar.lookback_days", 30)
	viper.SetDefault("calendar.cache_ttl", 30*time.Second)
}

func (c *Config) validate() error {
	if c.Secrets.GoogleCredentialsFile == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_FILE is required")
	}
	if c.Notify.Telegram.Enabled && c.Secrets.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when telegram notifications are enabled")
	}
	if c.Notify.Email.Enabled && c.Notify.Email.Host == "" {
		return fmt.Errorf("notify.email.host is required when email notifications are enabled")
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required")
	}
	return nil
}
