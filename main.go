package main

import (
	stdlog "log"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/username/tariffscope/src/config"
	"github.com/username/tariffscope/src/handlers"
	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/reference"
	"github.com/username/tariffscope/src/security"
	"github.com/username/tariffscope/src/services"
)

func main() {
	// Browser clients expect plain JSON numbers for monetary values.
	decimal.MarshalJSONWithoutQuotes = true

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Tariffscope backend server starting...")

	logger.L.Info("Initializing reference data...")
	reference.Init()

	logger.L.Info("Initializing quote cache...", "ttl", config.Cfg.QuoteCacheTTL.String())
	quoteCache := cache.New(config.Cfg.QuoteCacheTTL, 2*config.Cfg.QuoteCacheTTL)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.AuthUser, config.Cfg.AuthPass)

	// Surcharge randomness is seeded from the clock in production; tests
	// inject a fixed seed instead.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	estimator := services.NewTariffService(rng)

	complianceService := services.NewComplianceService(
		config.Cfg.ComplianceAPIBase,
		config.Cfg.ComplianceAPIToken,
		config.Cfg.ComplianceCompanyID,
		config.Cfg.ComplianceTimeout,
		quoteCache,
	)
	classificationService := services.NewClassificationService(
		config.Cfg.ClassificationAPIBase,
		config.Cfg.ClassificationAPIToken,
		config.Cfg.ClassificationTimeout,
		complianceService,
	)
	reportService := services.NewReportService()

	validate := handlers.NewValidator()
	tariffHandler := handlers.NewTariffHandler(estimator, validate)
	vendorHandler := handlers.NewVendorHandler(complianceService, validate)
	classificationHandler := handlers.NewClassificationHandler(classificationService, validate)
	reportHandler := handlers.NewReportHandler(reportService)
	referenceHandler := handlers.NewReferenceHandler()

	logger.L.Info("Configuring routes...")
	limiter := rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)
	requireAuth := handlers.BasicAuthMiddleware(authService)

	r := chi.NewRouter()
	r.Use(handlers.RecoverJSON)
	r.Use(handlers.EnableCORS)
	r.Use(handlers.RateLimitMiddleware(limiter))

	// Health and reference lookups stay unauthenticated.
	r.Get("/api/health", referenceHandler.HandleHealth)
	r.Get("/api/countries", referenceHandler.HandleGetCountries)
	r.Get("/api/hs-codes", referenceHandler.HandleGetHSCodes)
	r.Get("/api/hs-code/{code}", referenceHandler.HandleGetHSCodeInfo)

	// Everything else sits behind HTTP Basic credentials.
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", referenceHandler.HandleRoot)
		r.Post("/classify_hs", classificationHandler.HandleClassifyHS)
		r.Post("/calculate_vendor", vendorHandler.HandleCalculateVendor)
		r.Post("/export_excel", reportHandler.HandleExportExcel)
		r.Post("/api/calculate", tariffHandler.HandleCalculate)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second, // compliance quote calls may take the full upstream timeout
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
