package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Order sources understood by ORDER_SOURCE.
const (
	SourceCSV    = "csv"
	SourcePgSQL  = "pgsql"
	SourceMySQL  = "mysql"
	SourceSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	// Inputs and output of a run
	OrderSource      string `mapstructure:"ORDER_SOURCE" validate:"oneof=csv pgsql mysql sqlite"`
	InputHeadersPath string `mapstructure:"INPUT_HEADERS_PATH" validate:"required_if=OrderSource csv"`
	InputItemsPath   string `mapstructure:"INPUT_ITEMS_PATH" validate:"required_if=OrderSource csv"`
	OutputPath       string `mapstructure:"OUTPUT_PATH" validate:"required"`
	DatabaseURL      string `mapstructure:"DATABASE_URL" validate:"required_unless=OrderSource csv"`
	RunMigrations    bool   `mapstructure:"RUN_MIGRATIONS"`
	MigrationsPath   string `mapstructure:"MIGRATIONS_PATH"`

	// Currency conversion
	HomeCurrency   string        `mapstructure:"HOME_CURRENCY" validate:"len=3,alpha"`
	PTAXBaseURL    string        `mapstructure:"PTAX_BASE_URL" validate:"required,url"`
	PTAXTimeout    time.Duration `mapstructure:"PTAX_TIMEOUT" validate:"gt=0"`
	RateWindowDays int           `mapstructure:"RATE_WINDOW_DAYS" validate:"gt=0"`

	// Serve mode and logging
	Port         string `mapstructure:"PORT" validate:"required,numeric"`
	IsProduction bool   `mapstructure:"IS_PRODUCTION"`
	LogLevel     string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	RateLimit    string `mapstructure:"RATE_LIMIT" validate:"required"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := newViper()

	// Defaults are overridden by .env values, which are overridden by actual environment variables.
	v.AutomaticEnv()

	return fromViper(v)
}

// newViper returns a viper instance holding every default.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("ORDER_SOURCE", SourceCSV)
	v.SetDefault("INPUT_HEADERS_PATH", "02_dados/cabecalho_pedido.csv")
	v.SetDefault("INPUT_ITEMS_PATH", "02_dados/item_pedido.csv")
	v.SetDefault("OUTPUT_PATH", "relatorio_ultimo_preco_materiais.csv")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("HOME_CURRENCY", "BRL")
	v.SetDefault("PTAX_BASE_URL", "https://olinda.bcb.gov.br/olinda/servico/PTAX/versao/v1/odata")
	v.SetDefault("PTAX_TIMEOUT", "30s")
	v.SetDefault("RATE_WINDOW_DAYS", 30)
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT", "60-M")
	return v
}

// fromViper builds and validates a Config from an already populated viper instance.
func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		OrderSource:      strings.ToLower(strings.TrimSpace(v.GetString("ORDER_SOURCE"))),
		InputHeadersPath: v.GetString("INPUT_HEADERS_PATH"),
		InputItemsPath:   v.GetString("INPUT_ITEMS_PATH"),
		OutputPath:       v.GetString("OUTPUT_PATH"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RunMigrations:    v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:   v.GetString("MIGRATIONS_PATH"),
		HomeCurrency:     strings.ToUpper(strings.TrimSpace(v.GetString("HOME_CURRENCY"))),
		PTAXBaseURL:      v.GetString("PTAX_BASE_URL"),
		RateWindowDays:   v.GetInt("RATE_WINDOW_DAYS"),
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		RateLimit:        v.GetString("RATE_LIMIT"),
	}

	// Load PTAX timeout (e.g., "30s", "1m")
	timeoutStr := v.GetString("PTAX_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		log.Printf("Warning: Invalid value for PTAX_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout.String())
	}
	cfg.PTAXTimeout = timeout

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
