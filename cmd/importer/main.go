package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"valley_travel/internal/adapters/hotelsapi"
	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/app"
	"valley_travel/internal/domain"
	"valley_travel/internal/security"
	"valley_travel/internal/shared"
	mysqlrepo "valley_travel/internal/storage/mysql"
)

// importFile is the bulk listing format: partner hotels for review plus
// travel packages to upsert by title.
type importFile struct {
	Hotels   []domain.HotelDraft    `json:"hotels"`
	Packages []domain.TravelPackage `json:"packages"`
}

func main() {
	path := flag.String("file", "listings.json", "JSON file with hotels and packages")
	workers := flag.Int("workers", 0, "concurrent submissions (default IMPORT_WORKERS)")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("read import file failed")
	}
	var in importFile
	if err := json.Unmarshal(raw, &in); err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("import file is not valid JSON")
	}
	if *workers <= 0 {
		*workers = cfg.ImportWorkers
	}
	log.Info().
		Str("file", *path).
		Int("hotels", len(in.Hotels)).
		Int("packages", len(in.Packages)).
		Int("workers", *workers).
		Msg("importer starting")

	if len(in.Packages) > 0 {
		seedPackages(ctx, cfg.MySQLDSN, in.Packages)
	}

	if len(in.Hotels) > 0 {
		tokens := security.NewServiceTokenSource(security.NewTokenManager(cfg.JWTSecret, time.Hour), 15*time.Minute)
		client, err := hotelsapi.New(cfg.HotelsAPIURL, tokens, cfg.HotelsAPIRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize hotels API client")
		}
		client.OnUnauthorized = tokens.Invalidate

		results := app.ImportHotels(ctx, app.NewDirectoryStore(client), in.Hotels, *workers)
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		log.Info().Int("submitted", len(results)-failed).Int("failed", failed).Msg("hotel import completed")
		if failed > 0 {
			os.Exit(1)
		}
	}
}

func seedPackages(ctx context.Context, dsn string, ps []domain.TravelPackage) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo := mysqlrepo.New(db)
	for _, p := range ps {
		id, err := repo.UpsertPackage(ctx, p)
		if err != nil {
			log.Warn().Str("title", p.Title).Err(err).Msg("package upsert failed")
			continue
		}
		log.Info().Int64("id", id).Str("title", p.Title).Msg("package upserted")
	}
}
