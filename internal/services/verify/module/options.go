package module

import (
	"time"

	"addrcheck/internal/platform/config"
	"addrcheck/internal/services/verify/service"
)

const (
	clientStub   = "stub"
	clientAMLBot = "amlbot"
)

// Options holds configuration settings for the verify module
type Options struct {
	Client string

	AMLBot AMLBotOptions

	Poll         service.PollConfig
	CheckTimeout time.Duration

	// PendingTTL evicts requests nobody chose a chain for; 0 keeps them forever
	PendingTTL time.Duration
	ResultTTL  time.Duration

	WebhookURL     string
	WebhookTimeout time.Duration
	WebhookRetries int
}

// AMLBotOptions are the collaborator credentials and transport knobs
type AMLBotOptions struct {
	BaseURL    string
	AccessID   string
	AccessKey  string
	Locale     string
	Timeout    time.Duration
	MaxRetries int
}

// FromConfig reads VERIFY_* settings
func FromConfig(cfg config.Conf) Options {
	vc := cfg.Prefix("VERIFY_")
	ac := vc.Prefix("AMLBOT_")
	pc := vc.Prefix("POLL_")

	o := Options{
		Client: vc.MayEnum("CLIENT", clientStub, clientStub, clientAMLBot),
		Poll: service.PollConfig{
			Interval:    pc.MayDuration("INTERVAL", service.DefaultPollInterval),
			MaxAttempts: pc.MayInt("MAX_ATTEMPTS", 0),
			Multiplier:  pc.MayFloat64("MULTIPLIER", 1),
			MaxInterval: pc.MayDuration("MAX_INTERVAL", 5*time.Minute),
		},
		CheckTimeout:   vc.MayDuration("CHECK_TIMEOUT", 0),
		PendingTTL:     vc.MayDuration("PENDING_TTL", 0),
		ResultTTL:      vc.MayDuration("RESULT_TTL", time.Hour),
		WebhookURL:     vc.MayString("WEBHOOK_URL", ""),
		WebhookTimeout: vc.MayDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		WebhookRetries: vc.MayInt("WEBHOOK_MAX_RETRIES", 3),
	}
	if o.Client == clientAMLBot {
		o.AMLBot = AMLBotOptions{
			BaseURL:    ac.MayString("BASE_URL", ""),
			AccessID:   ac.MustString("ACCESS_ID"),
			AccessKey:  ac.MustString("ACCESS_KEY"),
			Locale:     ac.MayString("LOCALE", "en_US"),
			Timeout:    ac.MayDuration("TIMEOUT", 15*time.Second),
			MaxRetries: ac.MayInt("MAX_RETRIES", 3),
		}
	}
	return o
}
