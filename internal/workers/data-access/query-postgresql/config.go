// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

import (
	"time"

	"jobsearch-analytics/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	PracticeWindow time.Duration
}

func LoadConfig(wcfg config.WorkerConfig, analytics config.AnalyticsConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		Timeout:        timeout,
		PracticeWindow: analytics.PracticeWindow(),
	}
}
