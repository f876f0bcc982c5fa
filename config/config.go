package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	DB_DRIVER=sqlite3
//	SQLITE_PATH=trades.db
//	TRADE_TABLE=trade_table
//	LOT_SIZE=100000
//	INPUT_PATH=./data/trades.txt
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Postgres PostgresConfig
	Trades   TradesConfig
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string `env:"SERVER_PORT" validate:"required,numeric"`
}

// DatabaseConfig selects the backing store.
//
// Fields:
//   - Driver: database/sql driver name, "sqlite3" or "postgres".
//   - URL: connection string handed to sql.Open. When DB_URL is not set it is
//     derived from SQLITE_PATH or the POSTGRES_* settings.
//   - SQLitePath: database file used by the sqlite3 driver.
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" validate:"required,oneof=sqlite3 postgres"`
	URL        string `env:"DB_URL" validate:"required"`
	SQLitePath string `env:"SQLITE_PATH"`
}

// PostgresConfig defines connection details for PostgreSQL. Only used when
// DB_DRIVER=postgres and DB_URL is empty.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST"`
	Port     int    `env:"POSTGRES_PORT"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB"`
	SSLMode  string `env:"POSTGRES_SSLMODE"`
}

// TradesConfig holds pipeline settings.
type TradesConfig struct {
	Table     string  `env:"TRADE_TABLE" validate:"required"`
	LotSize   float64 `env:"LOT_SIZE" validate:"gt=0"`
	InputPath string  `env:"INPUT_PATH"`
}

// AppConfig is the globally accessible configuration instance, populated once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Missing or invalid values terminate the process (see validateConfig).
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("DB_DRIVER", "sqlite3")
	viper.SetDefault("DB_URL", "")
	viper.SetDefault("SQLITE_PATH", "trades.db")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "fxtrades")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("TRADE_TABLE", "trade_table")
	viper.SetDefault("LOT_SIZE", 100000.0)
	viper.SetDefault("INPUT_PATH", "")

	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(viper.GetString("DB_DRIVER")),
			URL:        viper.GetString("DB_URL"),
			SQLitePath: viper.GetString("SQLITE_PATH"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Trades: TradesConfig{
			Table:     viper.GetString("TRADE_TABLE"),
			LotSize:   viper.GetFloat64("LOT_SIZE"),
			InputPath: viper.GetString("INPUT_PATH"),
		},
	}

	if AppConfig.Database.URL == "" {
		AppConfig.Database.URL = AppConfig.DSN()
	}

	validateConfig()
}

// DSN derives a connection string from the driver-specific settings.
func (c Config) DSN() string {
	switch c.Database.Driver {
	case "postgres":
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.Postgres.User,
			c.Postgres.Password,
			c.Postgres.Host,
			c.Postgres.Port,
			c.Postgres.DBName,
			c.Postgres.SSLMode,
		)
	case "sqlite3":
		if c.Database.SQLitePath == "" {
			return ""
		}
		return "file:" + c.Database.SQLitePath + "?_foreign_keys=on"
	default:
		return ""
	}
}

// newValidator reports field errors by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// invalidKeys returns the env keys whose values fail validation, in struct order.
func invalidKeys(cfg Config) []string {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}
	var keys []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			keys = append(keys, fe.Field())
		}
		return keys
	}
	return []string{err.Error()}
}

// validateConfig terminates the application with log.Fatalf when required
// variables are missing or invalid. This avoids failures halfway through a run.
func validateConfig() {
	if bad := invalidKeys(AppConfig); len(bad) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", bad)
	}
}
