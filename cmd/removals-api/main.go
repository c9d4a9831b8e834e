// README: Entry point; loads config, wires optional integrations, serves HTTP until SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"removals/internal/config"
	httptransport "removals/internal/http"
	"removals/internal/http/handlers"
	"removals/internal/infra"
	"removals/internal/maps"
	"removals/internal/modules/lead"
	"removals/internal/modules/pricing"
	"removals/internal/modules/route"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache route.PlaceCache
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn("geocode cache disabled", "err", err)
		} else {
			defer rdb.Close()
			cache = route.NewStore(rdb, cfg.Maps.CacheTTL)
		}
	}

	var archive lead.Archiver
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Warn("lead archive disabled", "err", err)
		} else {
			defer pool.Close()
			store := lead.NewStore(pool)
			if err := store.EnsureSchema(ctx); err != nil {
				log.Error("lead archive schema", "err", err)
				os.Exit(1)
			}
			archive = store
		}
	}

	var (
		geocoder route.Geocoder
		router   route.Router
		reviews  handlers.ReviewSource
	)
	if cfg.Maps.APIKey != "" {
		routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.Country)
		if err != nil {
			log.Error("maps client", "err", err)
			os.Exit(1)
		}
		geocoder, router = routeSvc, routeSvc
		placesSvc, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			log.Error("places client", "err", err)
			os.Exit(1)
		}
		reviews = placesSvc
	} else {
		log.Warn("GOOGLE_MAPS_API_KEY not set; mileage lookup and reviews disabled")
	}

	var mailer lead.Mailer
	if cfg.Email.ResendKey != "" {
		mailer = lead.NewResendMailer(cfg.Email.ResendKey)
	} else {
		log.Warn("RESEND_API_KEY not set; lead submission disabled")
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Pricing:        pricing.NewService(),
		Route:          route.NewService(geocoder, router, cache, route.Config{MaxStops: cfg.Maps.MaxStops}, log),
		Lead:           lead.NewService(mailer, archive, cfg.Business, log),
		Reviews:        reviews,
		Logger:         log,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RatePerMinute:  cfg.RateLimit.PerMinute,
		RateBurst:      cfg.RateLimit.Burst,
		Debounce:       cfg.Maps.Debounce,
		LookupTimeout:  cfg.Maps.LookupTimeout,
		ReviewsPlaceID: cfg.Maps.ReviewsPlaceID,
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, handler, cfg.HTTP.ShutdownTimeout, log)
	if err := server.Run(ctx); err != nil {
		log.Error("http server", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
