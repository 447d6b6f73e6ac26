// internal/workers/reporting/pipeline-kpi/config.go
package pipelinekpi

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
