package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"valley_travel/internal/adapters/firebase"
	"valley_travel/internal/adapters/hotelsapi"
	server "valley_travel/internal/adapters/http_server"
	"valley_travel/internal/adapters/observability"
	"valley_travel/internal/adapters/razorpay"
	redisad "valley_travel/internal/adapters/redis"
	"valley_travel/internal/adapters/sendgrid"
	"valley_travel/internal/app"
	"valley_travel/internal/domain"
	"valley_travel/internal/security"
	"valley_travel/internal/shared"
	mysqlrepo "valley_travel/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	store := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	fbc, err := firebase.NewClients(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase init failed")
	}
	defer fbc.Close()
	identity := firebase.NewIdentity(fbc.Auth)
	registrations := firebase.NewRegistrations(fbc.Firestore)

	var mailer domain.Mailer = sendgrid.LogMailer{}
	if cfg.SendGridKey != "" {
		mailer = sendgrid.New(sendgrid.Config{
			APIKey:            cfg.SendGridKey,
			FromEmail:         cfg.MailFrom,
			FromName:          cfg.MailFromName,
			VerifyTemplateID:  cfg.VerifyTemplateID,
			BookingTemplateID: cfg.BookingTemplateID,
		})
	}

	gateway, err := razorpay.New(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpaySecret)
	if err != nil {
		log.Fatal().Err(err).Msg("razorpay client init failed")
	}

	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	serviceTokens := security.NewServiceTokenSource(tokens, 15*time.Minute)
	hotels, err := hotelsapi.New(cfg.HotelsAPIURL, serviceTokens, cfg.HotelsAPIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("hotels API client init failed")
	}
	hotels.OnUnauthorized = serviceTokens.Invalidate

	// services
	repo := mysqlrepo.New(db)
	directory := app.NewDirectoryStore(hotels)
	regSvc := app.NewRegistrationService(identity, registrations, mailer)
	wizards := app.NewWizardSessions(store, store, regSvc, cfg.WizardTTL, cfg.WizardCloseDelay)
	if len(cfg.WizardBlockingSteps) > 0 {
		pol, err := app.BlockingPolicies(cfg.WizardBlockingSteps)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid WIZARD_BLOCKING_STEPS")
		}
		wizards.WithPolicies(pol)
	}
	wizards.OnRegistered = func(rec domain.RegistrationRecord) {
		log.Info().Str("registration_id", rec.ID).Str("hotel", rec.HotelName).Msg("registration wizard closed")
	}
	bookings := app.NewBookingService(repo, repo, gateway, mailer)

	if err := directory.RefreshAll(ctx); err != nil {
		log.Warn().Err(err).Msg("initial directory load failed, serving empty lists until next refresh")
	}
	sched := cron.New(cron.WithLocation(time.UTC))
	if _, err := sched.AddFunc(cfg.RefreshCron, func() {
		rctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		err := directory.RefreshAll(rctx)
		observability.ObserveDirectory("refresh", err)
		if err != nil {
			log.Warn().Err(err).Msg("scheduled directory refresh failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.RefreshCron).Msg("invalid DIRECTORY_REFRESH_CRON")
	}
	sched.Start()

	// http
	srv := server.New(tokens)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Wizards:       wizards,
		Directory:     directory,
		Registrations: regSvc,
		Catalog:       app.NewCatalogService(repo, store, cfg.CacheTTL),
		Bookings:      bookings,
		Auth:          app.NewAuthService(identity, registrations, tokens),
		Favorites:     store,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	<-sched.Stop().Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	// let confirmation emails already queued go out
	bookings.Wait()
}
