// @title         ytchat API
// @version       0.1.0
// @description   Ask questions about YouTube videos, answered from their English transcripts

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"ytchat/internal/modkit/repokit"
	"ytchat/internal/platform/config"
	"ytchat/internal/platform/logger"
	phttp "ytchat/internal/platform/net/http"
	"ytchat/internal/platform/store"

	"ytchat/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("CORE_PG_")
	chCfg := root.Prefix("CORE_CH_")
	rdsCfg := root.Prefix("CORE_REDIS_")

	// a backend is enabled by default when its url is set
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("URL", "")
	rdsURL := rdsCfg.MayString("URL", "")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx,
		store.Config{
			AppName: "ytchat-api",
			PG: store.PGConfig{
				Enabled:     pgCfg.MayBool("ENABLED", pgURL != ""),
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayBool("ENABLED", chURL != ""),
				URL:        chURL,
				ClientName: "ytchat",
				ClientTag:  "api",
			},
			RDS: store.RedisConfig{
				Enabled: rdsCfg.MayBool("ENABLED", rdsURL != ""),
				URL:     rdsURL,
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	guardCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	repokit.MustGuard(guardCtx, st)
	cancel()

	// http server (reads CORE_API_API_PORT, default :8000)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("ENABLE_SWAGGER", false),
			EnableProfiler: apiCfg.MayBool("ENABLE_PROFILER", false),
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
			RequestTimeout: apiCfg.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
		},
	)

	// Run drains in flight asks for CORE_API_SHUTDOWN_GRACE once ctx is cancelled
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
