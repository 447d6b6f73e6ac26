// internal/workers/assessment/schedule-interview/config.go
package scheduleinterview

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
