package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/hbnb"
	"hbnb_web/internal/adapters/observability"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/adapters/web"
	"hbnb_web/internal/app"
	"hbnb_web/internal/auth"
	"hbnb_web/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// deps
	backend, err := hbnb.New(cfg.APIBaseURL, cfg.APIRPS, cfg.APITimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("backend client init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.UserCacheTTL)

	listings := app.NewListingService(backend, cache, cfg.ResolveWorkers)
	account := app.NewAccountService(backend, cache)
	admin := app.NewAdminService(backend)

	tmpl, err := web.NewTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("template parse failed")
	}

	// http
	srv := web.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&web.Handlers{
		Listings:      listings,
		Account:       account,
		Admin:         admin,
		Sessions:      auth.NewCookieStore(cfg.SessionCookie, cfg.SessionTTL, cfg.SecureCookies),
		AdminSessions: auth.NewCookieStore(cfg.AdminCookie, cfg.AdminSessionTTL, cfg.SecureCookies),
		Tmpl:          tmpl,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Str("api", cfg.APIBaseURL).Msg("web frontend listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
