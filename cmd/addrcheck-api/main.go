// @title         addrcheck API
// @version       0.1.0
// @description   Blockchain address verification requests

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"addrcheck/internal/platform/config"
	"addrcheck/internal/platform/logger"
	phttp "addrcheck/internal/platform/net/http"
	"addrcheck/internal/platform/net/middleware"
	"addrcheck/internal/platform/store"
	"addrcheck/internal/services/api"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	// a missing .env is fine; the environment may already be set
	_ = godotenv.Load()
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConfig(root, "addrcheck-api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) { m.Use(middleware.Defaults()...) })

	a, err := api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		CORSOrigins:    origins(apiCfg.MayString("CORS_ORIGINS", "*")),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(sctx); err != nil {
		l.Error().Err(err).Msg("module shutdown")
	}
}

func origins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
