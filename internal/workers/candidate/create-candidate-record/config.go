// internal/workers/candidate/create-candidate-record/config.go
package createcandidaterecord

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
