// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Analytics AnalyticsConfig         `mapstructure:"analytics"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Server    ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address" validate:"required"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active" validate:"gte=1"`
	Timeout        int    `mapstructure:"timeout" validate:"gte=1"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout" validate:"gte=1"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Database       string `mapstructure:"database" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=1"`
	MaxIdle        int    `mapstructure:"max_idle" validate:"gte=0"`
	SSLMode        string `mapstructure:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// ElasticsearchConfig is only required when analytics.cohort_backend is "elasticsearch".
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a cache address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// Cohort statistics backends.
const (
	CohortBackendPostgres      = "postgres"
	CohortBackendElasticsearch = "elasticsearch"
)

// AnalyticsConfig tunes the scoring engine and its data sources.
type AnalyticsConfig struct {
	CohortBackend      string        `mapstructure:"cohort_backend" validate:"oneof=postgres elasticsearch"`
	CohortIndex        string        `mapstructure:"cohort_index"`
	CohortCacheTTL     time.Duration `mapstructure:"cohort_cache_ttl"`
	PracticeWindowDays int           `mapstructure:"practice_window_days" validate:"gte=1"`
	TrendWindowMonths  int           `mapstructure:"trend_window_months" validate:"gte=1"`
	RegistryPath       string        `mapstructure:"registry_path"`
}

// PracticeWindow returns the trailing practice window as a duration.
func (a AnalyticsConfig) PracticeWindow() time.Duration {
	return time.Duration(a.PracticeWindowDays) * 24 * time.Hour
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output" validate:"oneof=stdout stderr"`
}

// ServerConfig holds the health/metrics listener.
type ServerConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"`
}
