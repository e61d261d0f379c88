package store

import (
	"time"

	"addrcheck/internal/platform/config"
)

// Config aggregates backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// Enabled reports whether a DSN was given
func (c PGConfig) Enabled() bool { return c.URL != "" }

// FromConfig reads SERVICE_PGSQL_* keys
func FromConfig(cfg config.Conf, appName string) Config {
	pc := cfg.Prefix("SERVICE_PGSQL_")
	return Config{
		AppName: appName,
		PG: PGConfig{
			URL:            pc.MayString("DBURL", ""),
			MaxConns:       int32(pc.MayInt("MAX_CONNS", 8)),
			LogSQL:         pc.MayBool("LOG_SQL", false),
			SlowQueryMs:    pc.MayInt("SLOW_MS", 200),
			ConnectRetries: pc.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
	}
}
