package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/brave-warrior/routecache/internal/database"
)

// EnvPrefix is prepended to every environment variable, e.g. ROUTECACHE_DB_PATH.
const EnvPrefix = "ROUTECACHE"

// ServiceConfig holds all configuration for the route cache service.
type ServiceConfig struct {
	AppEnv string `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	Port   string `mapstructure:"SERVICE_PORT" validate:"required,numeric"`

	DBDriver   string `mapstructure:"DB_DRIVER" validate:"required,oneof=sqlite postgres"`
	DBPath     string `mapstructure:"DB_PATH" validate:"required_if=DBDriver sqlite"`
	DBHost     string `mapstructure:"DB_HOST" validate:"required_if=DBDriver postgres"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME" validate:"required_if=DBDriver postgres"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	DirectionsURL    string        `mapstructure:"DIRECTIONS_URL" validate:"required,url"`
	AutocompleteURL  string        `mapstructure:"AUTOCOMPLETE_URL" validate:"required,url"`
	DirectionsAPIKey string        `mapstructure:"DIRECTIONS_API_KEY"`
	Language         string        `mapstructure:"LANGUAGE" validate:"required"`
	HTTPTimeout      time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gt=0"`
	ParserStrict     bool          `mapstructure:"PARSER_STRICT"`

	KafkaEnabled     bool     `mapstructure:"KAFKA_ENABLED"`
	KafkaBrokers     []string `mapstructure:"KAFKA_BROKERS" validate:"required_if=KafkaEnabled true"`
	KafkaGroupPrefix string   `mapstructure:"KAFKA_GROUP_PREFIX"`
}

var defaults = map[string]any{
	"APP_ENV":            "development",
	"SERVICE_PORT":       "8080",
	"DB_DRIVER":          database.DriverSQLite,
	"DB_PATH":            "data/routes.db",
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_USER":            "postgres",
	"DB_PASSWORD":        "",
	"DB_NAME":            "routecache",
	"DB_SSLMODE":         "disable",
	"DIRECTIONS_URL":     "https://maps.googleapis.com/maps/api/directions/json",
	"AUTOCOMPLETE_URL":   "https://maps.googleapis.com/maps/api/place/autocomplete/json",
	"DIRECTIONS_API_KEY": "",
	"LANGUAGE":           "en",
	"HTTP_TIMEOUT":       "30s",
	"PARSER_STRICT":      false,
	"KAFKA_ENABLED":      false,
	"KAFKA_BROKERS":      "localhost:9092",
	"KAFKA_GROUP_PREFIX": "",
}

// Load reads configuration from an optional .env file in path and from
// ROUTECACHE_-prefixed environment variables, which take precedence.
func Load(path string) (*ServiceConfig, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg ServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.KafkaBrokers = splitBrokers(cfg.KafkaBrokers)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the HTTP listen address.
func (c *ServiceConfig) Addr() string {
	return ":" + c.Port
}

// Database returns the connection settings for the configured driver.
func (c *ServiceConfig) Database() database.Config {
	return database.Config{
		Driver:   c.DBDriver,
		Path:     c.DBPath,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// splitBrokers accepts both a list and a single comma separated entry.
func splitBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, b := range strings.Split(entry, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, b)
			}
		}
	}
	return out
}
