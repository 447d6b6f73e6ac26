// internal/workers/assessment/save-assessment-response/config.go
package saveassessmentresponse

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
