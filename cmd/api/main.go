package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "clinic-portal/docs"
	"clinic-portal/internal/auth"
	"clinic-portal/internal/cache"
	"clinic-portal/internal/config"
	"clinic-portal/internal/database"
	"clinic-portal/internal/email"
	"clinic-portal/internal/handlers"
	"clinic-portal/internal/identity"
	"clinic-portal/internal/logger"
	"clinic-portal/internal/metrics"
	"clinic-portal/internal/middleware"
	"clinic-portal/internal/repository"
	"clinic-portal/internal/scheduler"
	"clinic-portal/internal/service"
	"clinic-portal/internal/signing"
	"clinic-portal/internal/vault"
)

// @title Clinic Portal API
// @version 1.0
// @description Field rep landing, doctor registration, campaign support and sharing endpoints of the clinic portal.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description SSO token from the publisher portal. Format: "Bearer {token}". The sso_token cookie is accepted too.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
	)

	// Secrets from Vault override the environment
	var vaultClient *vault.Client
	if cfg.Vault.Enabled {
		vaultClient, err = vault.NewClient(&cfg.Vault)
		if err != nil {
			slog.Error("Failed to initialize Vault client", "error", err)
			os.Exit(1)
		}
		ctx, cancel := getContext(10 * time.Second)
		secrets, err := vaultClient.LoadSecrets(ctx, cfg.Vault.SecretPath)
		cancel()
		if err != nil {
			slog.Error("Failed to load secrets from Vault", "path", cfg.Vault.SecretPath, "error", err)
			os.Exit(1)
		}
		secrets.Apply(cfg)
		slog.Info("Secrets loaded from Vault", "path", cfg.Vault.SecretPath)
	}
	if cfg.Signing.Secret == "" {
		slog.Error("No signing secret configured in environment or Vault")
		os.Exit(1)
	}

	// Local database
	localDB, err := database.New(&cfg.LocalDB)
	if err != nil {
		slog.Error("Failed to connect to local database", "error", err)
		os.Exit(1)
	}
	defer localDB.Close()
	slog.Info("Connected to local database")

	migrationCtx, cancelMigrations := getContext(2 * time.Minute)
	applied, err := database.NewMigrationExecutor(localDB.DB, logger.Component("migrations")).
		RunMigrations(migrationCtx, cfg.App.MigrationsPath)
	cancelMigrations()
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations complete", "applied", applied)

	// Master database
	masterDB, err := database.OpenOptional(&cfg.MasterDB)
	if err != nil {
		slog.Error("Failed to connect to master database", "error", err)
		os.Exit(1)
	}
	if masterDB == nil {
		slog.Error("Master database is not configured", "hint", "set MASTER_DB_HOST")
		os.Exit(1)
	}
	defer masterDB.Close()
	slog.Info("Connected to master database")

	masterRepo, err := repository.NewMasterRepository(masterDB.DB, cfg.Master, logger.Component("master"))
	if err != nil {
		slog.Error("Failed to initialize master repository", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	portalMetrics := metrics.New(registry)

	// Redis catalog cache (optional)
	redisCtx, cancelRedis := getContext(10 * time.Second)
	redisClient, err := cache.New(redisCtx, cfg.Redis)
	cancelRedis()
	if err != nil {
		slog.Warn("Redis unavailable, catalog will be read from the database", "error", err)
		redisClient = nil
	}
	var catalogCache *cache.JSONCache
	if redisClient != nil {
		defer redisClient.Close()
		catalogCache = cache.NewJSONCache(redisClient.Client, cfg.Catalog.KeyPrefix, logger.Component("cache"))
		catalogCache.OnResult(portalMetrics.CacheHit, portalMetrics.CacheMiss)
		slog.Info("Catalog cache enabled", "ttl", cfg.Catalog.CacheTTL)
	}

	// Signers
	patientLinkSigner, err := signing.New(cfg.Signing.Secret, signing.PatientLinkSalt, cfg.Signing.PatientLinkMaxAge)
	if err != nil {
		slog.Error("Failed to initialize patient link signer", "error", err)
		os.Exit(1)
	}
	passwordSetupSigner, err := signing.New(cfg.Signing.Secret, signing.PasswordSetupSalt, cfg.Signing.PasswordSetupMaxAge)
	if err != nil {
		slog.Error("Failed to initialize password setup signer", "error", err)
		os.Exit(1)
	}

	// SSO verifier is optional; without it the landing flow only accepts URL rep IDs
	verifier, err := auth.NewVerifier(cfg.SSO)
	if err != nil {
		slog.Warn("SSO disabled", "reason", err)
		verifier = nil
	}

	// Repositories
	campaignRepo := repository.NewCampaignRepository(localDB.DB)
	catalogRepo := repository.NewCatalogRepository(localDB.DB)

	// Services
	catalogService := service.NewCatalogService(catalogRepo, catalogCache, cfg.Catalog.CacheTTL)
	linkageService := service.NewLinkageService(masterRepo, portalMetrics, logger.Component("linkage"))
	gatekeeperService := service.NewGatekeeperService(masterRepo, portalMetrics, logger.Component("gatekeeper"))
	supportService := service.NewCampaignSupportService(masterRepo, campaignRepo, logger.Component("support"))
	sharingService := service.NewSharingService(masterRepo, patientLinkSigner)
	accountService := service.NewAccountService(masterRepo, passwordSetupSigner, logger.Component("accounts"))
	mirrorService := service.NewCampaignMirrorService(campaignRepo, gatekeeperService, func(ctx context.Context) {
		// campaign edits can change the published video selection
		if err := catalogService.Invalidate(ctx); err != nil {
			slog.Warn("Failed to invalidate catalog cache", "error", err)
		}
	}, logger.Component("campaign_mirror"))
	landingService := service.NewLandingService(
		linkageService,
		gatekeeperService,
		masterRepo,
		campaignRepo,
		cfg.App.SiteBaseURL,
		cfg.App.WhatsAppCountryCode,
		portalMetrics,
		logger.Component("landing"),
	)
	registrationService := service.NewRegistrationService(
		masterRepo,
		campaignRepo,
		gatekeeperService,
		identity.NewPincodeDirectory(cfg.Pincode.DirectoryPath),
		identity.NewDistrictLookup(cfg.Pincode.DistrictLookupURL, cfg.Pincode.DistrictLookupLimit, cfg.Pincode.DistrictLookupOn, logger.Component("district")),
		email.NewService(&cfg.Email),
		passwordSetupSigner,
		cfg.App.SiteBaseURL,
		portalMetrics,
		logger.Component("registration"),
	)

	// Background jobs
	jobs := scheduler.NewScheduler(cfg.Scheduler.TaskTimeout, logger.Component("scheduler"))
	if cfg.Scheduler.MirrorResyncEnabled {
		jobs.Every(cfg.Scheduler.MirrorResyncInterval, "campaign_mirror_resync", func(ctx context.Context) error {
			_, err := mirrorService.Resync(ctx)
			return err
		})
	}
	defer jobs.Stop()

	// Handlers
	healthChecks := map[string]handlers.Pinger{
		"local_db":  handlers.PingFunc(localDB.HealthCheck),
		"master_db": handlers.PingFunc(masterRepo.Ping),
	}
	if redisClient != nil {
		healthChecks["redis"] = handlers.PingFunc(redisClient.Health)
	}
	if vaultClient != nil {
		healthChecks["vault"] = handlers.PingFunc(vaultClient.Health)
	}
	healthHandler := handlers.NewHealthHandler(cfg.App.Version, healthChecks, logger.Component("health"))
	landingHandler := handlers.NewLandingHandler(landingService, logger.Component("landing"))
	registrationHandler := handlers.NewRegistrationHandler(registrationService, logger.Component("registration"))
	ssoHandler := handlers.NewSSOHandler(verifier, cfg.SSO, logger.Component("sso"))
	sharingHandler := handlers.NewSharingHandler(sharingService, logger.Component("sharing"))
	supportHandler := handlers.NewSupportHandler(supportService)
	accountHandler := handlers.NewAccountHandler(accountService, cfg.App.SiteBaseURL, logger.Component("accounts"))
	campaignHandler := handlers.NewCampaignHandler(mirrorService, gatekeeperService, logger.Component("campaigns"))
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger.Component("catalog"))
	configHandler := handlers.NewConfigHandler(cfg)

	// Middleware
	ssoMw := middleware.NewSSOMiddleware(verifier, cfg.SSO.CookieName, logger.Component("sso"))
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Close()
	requestLogger := middleware.NewRequestLogger(logger.Component("http"), portalMetrics)

	// Setup router
	mux := http.NewServeMux()

	// Health, metrics and docs
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Landing flow and SSO
	mux.Handle("GET /campaign/landing", ssoMw.Attach(http.HandlerFunc(landingHandler.Show)))
	mux.Handle("POST /campaign/landing", ssoMw.Attach(http.HandlerFunc(landingHandler.Submit)))
	mux.HandleFunc("GET /sso/consume", ssoHandler.Consume)

	// Clinic accounts
	mux.HandleFunc("POST /accounts/login", accountHandler.Login)
	mux.HandleFunc("GET /accounts/password-setup/{token}", accountHandler.CheckPasswordSetup)
	mux.HandleFunc("GET /accounts/password-setup/{token}/{$}", accountHandler.CheckPasswordSetup)
	mux.HandleFunc("POST /accounts/password-setup/{token}", accountHandler.CompletePasswordSetup)
	mux.HandleFunc("POST /accounts/password-setup/{token}/{$}", accountHandler.CompletePasswordSetup)

	// API routes
	mux.HandleFunc("GET /api/v1/config/app", configHandler.GetAppConfig)
	mux.HandleFunc("POST /api/v1/doctors/register", registrationHandler.Register)
	mux.HandleFunc("GET /api/v1/doctors/{doctor_id}/patient-link", sharingHandler.CreatePatientLink)
	mux.HandleFunc("GET /api/v1/patient-link/{token}", sharingHandler.OpenPatientLink)
	mux.Handle("GET /api/v1/campaign-support",
		ssoMw.RequireRole()(http.HandlerFunc(supportHandler.CampaignSupport)))
	mux.HandleFunc("GET /api/v1/catalog", catalogHandler.GetCatalog)
	mux.HandleFunc("GET /api/v1/catalog/{code}", catalogHandler.GetCluster)
	mux.Handle("GET /api/v1/campaigns/{campaign_id}",
		ssoMw.RequireRole("publisher", "admin")(http.HandlerFunc(campaignHandler.GetCampaign)))
	mux.Handle("PUT /api/v1/campaigns/{campaign_id}",
		ssoMw.RequireRole("publisher", "admin")(http.HandlerFunc(campaignHandler.UpdateCampaign)))

	// Apply middleware chain
	handler := requestLogger.Handler(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr, "sso_enabled", verifier != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := getContext(30 * time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully")
}
