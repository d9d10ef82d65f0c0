package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/schooldash/internal"
	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/handler"
	"github.com/DukeRupert/schooldash/internal/metrics"
	"github.com/DukeRupert/schooldash/internal/middleware"
	"github.com/DukeRupert/schooldash/internal/repository"
	"github.com/DukeRupert/schooldash/internal/service"
	"github.com/DukeRupert/schooldash/internal/storage"
	"github.com/DukeRupert/schooldash/web"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx := context.Background()

	migrateStatus := flag.Bool("migrate-status", false, "print the state of each migration and exit")
	flag.Parse()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if *migrateStatus {
		return internal.MigrationStatus(db)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize storage
	store, err := storage.New(cfg.StorageProvider,
		storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		},
		storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Initialize template renderer
	templates := web.Templates()
	if cfg.TemplateReload {
		templates = os.DirFS(cfg.TemplatesDir)
	}
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		FS:     templates,
		Logger: logger,
		Reload: cfg.TemplateReload,
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()), "reload", cfg.TemplateReload)

	// Initialize services
	directoryService := service.NewDirectoryService(repo, logger)
	academicService := service.NewAcademicService(repo, logger)
	assessmentService := service.NewAssessmentService(repo, logger)
	calendarService := service.NewCalendarService(repo, logger)
	dashboardService := service.NewDashboardService(repo, logger)
	gradeService := service.NewGradeService(repo, logger)
	photoService := service.NewPhotoService(repo, store, service.NewImagingProcessor(), logger)

	// Initialize session verification
	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Secret:       cfg.AuthJWTSecret,
		PublicKeyPEM: cfg.AuthJWTPublicKey,
		Issuer:       cfg.AuthIssuer,
	})
	if err != nil {
		return fmt.Errorf("auth initialization failed: %w", err)
	}

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(verifier, cfg.AuthSignInURL, logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure, authOrigin(cfg.AuthSignInURL))
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword, logger)

	apiLimiter := middleware.NewRateLimiter(cfg.APIRateLimit, cfg.APIRateWindow)
	defer apiLimiter.Stop()
	limit := middleware.NewRateLimitMiddleware(apiLimiter, logger).Limit

	requireAdmin := authMw.RequireRoles(domain.RoleAdmin)

	// Initialize handlers
	listHandler := handler.NewListHandler(handler.ListServices{
		Directory:  directoryService,
		Academic:   academicService,
		Assessment: assessmentService,
		Calendar:   calendarService,
		Grades:     gradeService,
	}, renderer, cfg.ItemsPerPage, cfg.PaginationDelta, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, calendarService, renderer, logger)
	profileHandler := handler.NewProfileHandler(directoryService, photoService, renderer, logger, isSecure)
	gradeHandler := handler.NewGradeHandler(gradeService, cfg.ItemsPerPage, logger)
	feedHandler := handler.NewFeedHandler(dashboardService, calendarService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	// Uploaded photos are served by the app only for local storage; R2 serves
	// its own URLs.
	if local, ok := store.(*storage.LocalStorage); ok {
		mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServerFS(noDirFS{os.DirFS(local.Root())})))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Dashboards and list pages. Role checks come from the route access map
	// applied by RequireAccess below.
	dashboardHandler.RegisterRoutes(mux)
	mux.HandleFunc("GET /list/{entity}", listHandler.Index)
	profileHandler.RegisterRoutes(mux, requireAdmin, limit)

	// JSON endpoints
	gradeHandler.RegisterRoutes(mux, requireAdmin, limit)
	feedHandler.RegisterRoutes(mux, requireAdmin)

	// Outermost first
	stack := middleware.Stack(
		metrics.Middleware,
		securityMw.Handler,
		authMw.WithIdentity,
		loggingMw.Handler,
		authMw.RequireAccess,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           stack(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// authOrigin returns the scheme and host of an absolute sign-in URL, or ""
// when the sign-in page is served from this origin.
func authOrigin(signInURL string) string {
	u, err := url.Parse(signInURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// noDirFS hides directory listings under /files/.
type noDirFS struct{ fs.FS }

func (n noDirFS) Open(name string) (fs.File, error) {
	f, err := n.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
