// Package api composes the HTTP API from the service modules
package api

import (
	"context"
	"errors"
	"net/http"

	"addrcheck/internal/core/version"
	"addrcheck/internal/modkit"
	"addrcheck/internal/modkit/httpkit"
	"addrcheck/internal/modkit/module"
	"addrcheck/internal/modkit/swaggerkit"
	"addrcheck/internal/platform/config"
	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/metrics"
	phttp "addrcheck/internal/platform/net/http"
	"addrcheck/internal/platform/store"

	verifymod "addrcheck/internal/services/verify/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	CORSOrigins    []string
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool

	// Verify is passed to the verify module, e.g. modkit.WithPorts to inject a client
	Verify []modkit.Option
}

// API is the mounted module set
type API struct {
	Verify *verifymod.Module
}

// Mount builds the modules and mounts them under /api/v1 on r
func Mount(ctx context.Context, r phttp.Router, opt Options) (*API, error) {
	deps := modkit.Deps{
		Log: *logger.Named("api"),
		Cfg: opt.Config,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	verify, err := verifymod.New(ctx, deps, opt.Verify...)
	if err != nil {
		return nil, err
	}
	mods := []module.Module{verify}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.CORSOrigins...), func(api httpkit.Router) {
		httpkit.Get(api, "/version", func(*http.Request) (any, error) {
			return version.Info("addrcheck-api"), nil
		})
		for _, m := range mods {
			// ports are registered by name for cross module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	return &API{Verify: verify}, nil
}

// Shutdown stops background work owned by the modules
func (a *API) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Verify != nil {
		errs = append(errs, a.Verify.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
