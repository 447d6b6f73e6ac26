// internal/workers/candidate/notify-status-change/config.go
package notifystatuschange

import "time"

type Config struct {
	Timeout      time.Duration
	SMSEnabled   bool
	EmailEnabled bool
	SenderID     string
	FromEmail    string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		SMSEnabled:   true,
		EmailEnabled: false,
	}
}
