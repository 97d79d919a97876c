package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/timezone"
	"github.com/m04kA/SMC-SalonBooking/pkg/retry"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ErrInvalidConfig конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server       Server       `toml:"server"`
	Database     Database     `toml:"database"`
	Logs         Logs         `toml:"logs"`
	Metrics      Metrics      `toml:"metrics"`
	Availability Availability `toml:"availability"`
	Retry        Retry        `toml:"retry"`
	RateLimit    RateLimit    `toml:"rate_limit"`
}

// Server настройки HTTP сервера (таймауты в секундах)
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Database настройки подключения к PostgreSQL
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	QueryTimeout    int    `toml:"query_timeout"`     // секунды, 0 = без ограничения
}

// DSN строка подключения для lib/pq
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки Prometheus
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// DailyWindow рабочее окно по умолчанию ("HH:MM")
type DailyWindow struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// Availability настройки расчета доступных слотов
type Availability struct {
	Timezone                string       `toml:"timezone"`
	SlotGranularityMinutes  int          `toml:"slot_granularity_minutes"`
	DefaultDailyWindow      *DailyWindow `toml:"default_daily_window"`
	MinBookingNoticeMinutes int          `toml:"min_booking_notice_minutes"`
	MaxAdvanceDays          int          `toml:"max_advance_days"`
}

// DailyWindowBounds разбирает окно по умолчанию; ok = false, если окно не задано
func (a Availability) DailyWindowBounds() (start, end types.TimeOfDay, ok bool, err error) {
	if a.DefaultDailyWindow == nil {
		return types.TimeOfDay{}, types.TimeOfDay{}, false, nil
	}
	start, err = types.ParseTimeOfDay(a.DefaultDailyWindow.Start)
	if err != nil {
		return types.TimeOfDay{}, types.TimeOfDay{}, false, fmt.Errorf("default_daily_window.start: %w", err)
	}
	end, err = types.ParseTimeOfDay(a.DefaultDailyWindow.End)
	if err != nil {
		return types.TimeOfDay{}, types.TimeOfDay{}, false, fmt.Errorf("default_daily_window.end: %w", err)
	}
	if !start.Before(end) {
		return types.TimeOfDay{}, types.TimeOfDay{}, false,
			fmt.Errorf("default_daily_window: start %s must be before end %s", start, end)
	}
	return start, end, true, nil
}

// Retry политика повторов подключения к БД при старте
type Retry struct {
	MaxAttempts int     `toml:"max_attempts"`
	BaseDelayMs int     `toml:"base_delay_ms"`
	MaxDelayMs  int     `toml:"max_delay_ms"`
	Multiplier  float64 `toml:"multiplier"`
}

// Policy переводит настройки в retry.Policy
func (r Retry) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: r.MaxAttempts,
		BaseDelay:   time.Duration(r.BaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(r.MaxDelayMs) * time.Millisecond,
		Multiplier:  r.Multiplier,
	}
}

// RateLimit ограничение частоты запросов к публичным маршрутам
type RateLimit struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: Server{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: Database{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "salon",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			QueryTimeout:    5,
		},
		Logs: Logs{
			Level: "info",
		},
		Metrics: Metrics{
			Enabled:     true,
			ServiceName: "salon-booking",
			Path:        "/metrics",
		},
		Availability: Availability{
			Timezone:                timezone.DefaultTimezone,
			SlotGranularityMinutes:  domain.DefaultSlotGranularityMinutes,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			MaxAdvanceDays:          domain.DefaultMaxAdvanceDays,
		},
		Retry: Retry{
			MaxAttempts: 5,
			BaseDelayMs: 500,
			MaxDelayMs:  5000,
			Multiplier:  2,
		},
		RateLimit: RateLimit{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// Load читает TOML файл поверх значений по умолчанию,
// подгружает .env (если есть) и применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	// godotenv не перезаписывает уже заданные переменные окружения
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setString(&c.Logs.File, "LOG_FILE")
	setString(&c.Availability.Timezone, "SALON_TIMEZONE")

	if err := setInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Server.HTTPPort, "HTTP_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Availability.SlotGranularityMinutes, "SLOT_GRANULARITY_MINUTES"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Database.QueryTimeout < 0 {
		errs = append(errs, errors.New("database.query_timeout must not be negative"))
	}

	a := c.Availability
	if _, err := timezone.Load(a.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("availability.timezone: %w", err))
	}
	if a.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || a.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		errs = append(errs, fmt.Errorf("availability.slot_granularity_minutes must be in %d..%d, got %d",
			domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes, a.SlotGranularityMinutes))
	}
	if a.MinBookingNoticeMinutes < 0 || a.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		errs = append(errs, fmt.Errorf("availability.min_booking_notice_minutes must be in 0..%d, got %d",
			domain.MaxBookingNoticeMinutes, a.MinBookingNoticeMinutes))
	}
	if a.MaxAdvanceDays < 0 || a.MaxAdvanceDays > domain.MaxAdvanceDays {
		errs = append(errs, fmt.Errorf("availability.max_advance_days must be in 0..%d, got %d",
			domain.MaxAdvanceDays, a.MaxAdvanceDays))
	}
	if _, _, _, err := a.DailyWindowBounds(); err != nil {
		errs = append(errs, fmt.Errorf("availability.%w", err))
	}

	if err := c.Retry.Policy().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("retry: %w", err))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate_limit: requests_per_second and burst must be positive"))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
