// Command ingestor pulls the seed feed, checks every record against the
// write-path rules and writes a YAML snapshot usable as fixtures
// (SNAPSHOT_PATH, default fixtures.snapshot.yaml).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"meddir/internal/adapters/feed"
	"meddir/internal/adapters/observability"
	"meddir/internal/app"
	"meddir/internal/domain"
	"meddir/internal/seed"
	"meddir/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var src domain.SeedSource = seed.Embedded()
	if cfg.SeedURL != "" {
		client, err := feed.New(cfg.SeedURL, cfg.SeedKey, cfg.SeedRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize feed client")
		}
		src = client
	}
	log.Info().Str("feed", cfg.SeedURL).Msg("ingestor starting")

	fx, err := src.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load fixtures failed")
	}
	problems, err := app.CheckFixtures(ctx, fx, 8)
	if err != nil {
		log.Fatal().Err(err).Msg("check fixtures failed")
	}
	for _, p := range problems {
		log.Warn().Str("kind", p.Kind).Str("id", p.ID).Str("error", p.Err).Msg("invalid record")
	}

	path := os.Getenv("SNAPSHOT_PATH")
	if path == "" {
		path = "fixtures.snapshot.yaml"
	}
	if err := writeSnapshot(path, fx); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("write snapshot failed")
	}

	log.Info().
		Int("institutions", len(fx.Institutions)).
		Int("reviews", len(fx.Reviews)).
		Int("news", len(fx.News)).
		Int("problems", len(problems)).
		Str("snapshot", path).
		Msg("ingestion completed")
	if len(problems) > 0 {
		os.Exit(1)
	}
}

func writeSnapshot(path string, fx domain.Fixtures) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(fx); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
