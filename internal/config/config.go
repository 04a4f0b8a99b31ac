package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервисов WB-SupplyBot
type Config struct {
	Server        ServerConfig        `toml:"server"`
	LicenseServer LicenseServerConfig `toml:"license_server"`
	Database      DatabaseConfig      `toml:"database"`
	Browser       BrowserConfig       `toml:"browser"`
	Portal        PortalConfig        `toml:"portal"`
	Monitoring    MonitoringConfig    `toml:"monitoring"`
	Telegram      TelegramConfig      `toml:"telegram"`
	License       LicenseConfig       `toml:"license"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Logs          LogsConfig          `toml:"logs"`
}

// ServerConfig настройки управляющего HTTP API бота
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LicenseServerConfig настройки сервиса лицензий
type LicenseServerConfig struct {
	HTTPPort      int    `toml:"http_port"`
	AdminPassword string `toml:"admin_password"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// BrowserConfig настройки браузерной сессии
type BrowserConfig struct {
	Headless    bool   `toml:"headless"`
	UserDataDir string `toml:"user_data_dir"`
	WindowW     int    `toml:"window_width"`
	WindowH     int    `toml:"window_height"`
	StartURL    string `toml:"start_url"`
}

// PortalConfig настройки внешних API портала поставщика
type PortalConfig struct {
	SuppliesAPIURL string `toml:"supplies_api_url"`
	APIToken       string `toml:"api_token"`
	Timeout        int    `toml:"timeout"`
}

// MonitoringConfig настройки периодического мониторинга поставок
type MonitoringConfig struct {
	Enabled            bool `toml:"enabled"`
	IntervalMinutes    int  `toml:"interval_minutes"`
	NotifyNewDelivery  bool `toml:"notify_new_delivery"`
	NotifyStatusChange bool `toml:"notify_status_change"`
	NotifyDeadline     bool `toml:"notify_deadline"`
}

// TelegramConfig настройки Telegram-уведомлений
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
	Timeout  int    `toml:"timeout"`
}

// LicenseConfig настройки проверки лицензии на стороне бота
type LicenseConfig struct {
	VerifyURL string `toml:"verify_url"`
	Timeout   int    `toml:"timeout"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8090
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.LicenseServer.HTTPPort == 0 {
		cfg.LicenseServer.HTTPPort = 8091
	}
	if cfg.Browser.WindowW == 0 {
		cfg.Browser.WindowW = 1400
	}
	if cfg.Browser.WindowH == 0 {
		cfg.Browser.WindowH = 900
	}
	if cfg.Monitoring.IntervalMinutes == 0 {
		cfg.Monitoring.IntervalMinutes = 15
	}
	if cfg.Portal.Timeout == 0 {
		cfg.Portal.Timeout = 30
	}
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = 10
	}
	if cfg.License.Timeout == 0 {
		cfg.License.Timeout = 15
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
}
