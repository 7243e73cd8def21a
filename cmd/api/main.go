package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"meddir/internal/adapters/feed"
	server "meddir/internal/adapters/http_server"
	"meddir/internal/adapters/observability"
	redisad "meddir/internal/adapters/redis"
	"meddir/internal/app"
	"meddir/internal/domain"
	"meddir/internal/seed"
	"meddir/internal/shared"
	mysqlrepo "meddir/internal/storage/mysql"
	"meddir/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	cityNow := func() time.Time { return time.Now().In(cfg.CityTZ) }

	// directory
	dir := store.New(store.WithClock(cityNow))
	fx, err := seedSource(cfg).Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load seed data failed")
	}
	if problems, err := app.CheckFixtures(ctx, fx, 4); err == nil {
		for _, p := range problems {
			log.Warn().Str("kind", p.Kind).Str("id", p.ID).Str("error", p.Err).Msg("seed record would be rejected by the write path")
		}
	}
	dir.Seed(fx)
	log.Info().
		Int("institutions", len(fx.Institutions)).
		Int("reviews", len(fx.Reviews)).
		Int("news", len(fx.News)).
		Msg("directory seeded")

	// cache + credentials
	var cache domain.Cache
	var creds domain.CredentialStore = store.NewAdmins()
	if cfg.RedisAddr != "" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; cache disabled")
		} else {
			cache = redisad.NewCache(rc, cfg.RedisPrefix)
			if cfg.CredentialBackend == "redis" {
				creds = redisad.NewCredentials(rc, cfg.RedisPrefix)
			}
		}
	}
	switch cfg.CredentialBackend {
	case "mysql":
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connection failed")
		}
		defer db.Close()
		admins := mysqlrepo.New(db)
		if err := admins.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("mysql migration failed")
		}
		creds = admins
		log.Info().Msg("database connection ok")
	case "redis":
		if _, ok := creds.(*redisad.Credentials); !ok {
			log.Fatal().Msg("CREDENTIAL_BACKEND=redis needs a reachable REDIS_ADDR")
		}
	case "memory":
	default:
		log.Warn().Str("backend", cfg.CredentialBackend).Msg("unknown credential backend, using memory")
	}

	// services
	q := app.NewQueryService(dir, cache, cfg.CacheTTL, cfg.PageSize, cityNow)
	c := app.NewCommandService(dir, cache, app.ParseRatingPolicy(cfg.RatingPolicy))
	a := app.NewAuthService(creds, app.AuthConfig{
		DemoUser:     cfg.DemoAdminUser,
		DemoPassword: cfg.DemoAdminPassword,
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.JWTTTL,
	})

	// http
	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: q, C: c, A: a, ReviewLimit: server.RateLimit(cfg.ReviewRPM, 2)})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	metricsSrv := observability.NewServer(cfg.MetricsAddr, observability.InitRegistry())

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range []struct {
		name string
		srv  *http.Server
	}{{"API", httpSrv}, {"metrics", metricsSrv}} {
		g.Go(func() error {
			log.Info().Str("addr", s.srv.Addr).Msgf("%s listening", s.name)
			if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return errors.Join(httpSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func seedSource(cfg shared.Config) domain.SeedSource {
	if cfg.SeedURL == "" {
		return seed.Embedded()
	}
	client, err := feed.New(cfg.SeedURL, cfg.SeedKey, cfg.SeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}
	log.Info().Str("url", cfg.SeedURL).Msg("seeding from remote feed")
	return client
}
