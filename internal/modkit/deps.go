package modkit

import (
	"addrcheck/internal/modkit/repokit"
	"addrcheck/internal/platform/config"
	"addrcheck/internal/platform/logger"
)

// Deps are the shared dependencies handed to every module
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// PG is nil when Postgres is not configured
	PG repokit.TxRunner
}
