package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendCSV      = "csv"
)

// Config is the whole application configuration, read from the environment.
type Config struct {
	Port  string `mapstructure:"PORT"`
	GoEnv string `mapstructure:"GO_ENV"` // dev/prod

	StoreBackend string `mapstructure:"STORE_BACKEND"` // postgres/csv
	CSVPath      string `mapstructure:"CSV_PATH"`

	DatabaseURL      string `mapstructure:"DATABASE_URL"` // wins over POSTGRES_*
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     int    `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`

	// empty = in-memory sessions
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`

	BackofficeSecret string `mapstructure:"BACKOFFICE_SECRET"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`

	// empty = photos on local disk under PhotoDir
	CloudinaryURL    string `mapstructure:"CLOUDINARY_URL"`
	CloudinaryFolder string `mapstructure:"CLOUDINARY_FOLDER"`
	PhotoDir         string `mapstructure:"PHOTO_DIR"`

	BusinessName string `mapstructure:"BUSINESS_NAME"`
}

var defaults = map[string]any{
	"PORT":              "8080",
	"GO_ENV":            "dev",
	"STORE_BACKEND":     BackendCSV,
	"CSV_PATH":          "inventario.csv",
	"DATABASE_URL":      "",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     5432,
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "bodega",
	"POSTGRES_SSLMODE":  "disable",
	"REDIS_ADDR":        "",
	"REDIS_PASSWORD":    "",
	"SESSION_TTL":       "12h",
	"BACKOFFICE_SECRET": "",
	"JWT_SECRET":        "",
	"CLOUDINARY_URL":    "",
	"CLOUDINARY_FOLDER": "eyca",
	"PHOTO_DIR":         "fotos",
	"BUSINESS_NAME":     "Eyca Accesorios",
}

// Load reads the environment. godotenv has already been applied by main when a .env exists.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	// required
	if cfg.BackofficeSecret == "" {
		return Config{}, fmt.Errorf("BACKOFFICE_SECRET is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.StoreBackend {
	case BackendPostgres:
	case BackendCSV:
		if cfg.CSVPath == "" {
			return Config{}, fmt.Errorf("CSV_PATH is required")
		}
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be %q or %q", BackendPostgres, BackendCSV)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}

	return cfg, nil
}

// Addr turns PORT into a listen address.
func (c Config) Addr() string {
	if c.Port == "" {
		return ":8080"
	}
	if c.Port[0] != ':' {
		return ":" + c.Port
	}
	return c.Port
}

func (c Config) IsDev() bool {
	return c.GoEnv == "" || c.GoEnv == "dev"
}

func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}
