package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/hrms/backend/internal/application/billing"
	identityapp "github.com/hrms/backend/internal/application/identity"
	staffingapp "github.com/hrms/backend/internal/application/staffing"
	"github.com/hrms/backend/internal/infrastructure/auth"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/hrms/backend/internal/infrastructure/event"
	"github.com/hrms/backend/internal/infrastructure/logger"
	"github.com/hrms/backend/internal/infrastructure/persistence"
	"github.com/hrms/backend/internal/infrastructure/printing"
	"github.com/hrms/backend/internal/infrastructure/storage"
	"github.com/hrms/backend/internal/interfaces/http/handler"
	"github.com/hrms/backend/internal/interfaces/http/middleware"
	"github.com/hrms/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HRMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	columnRepo := persistence.NewGormColumnConfigRepository(db.DB)
	candidateRepo := persistence.NewGormCandidateRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Token blacklist: Redis when reachable, in-memory fallback for
	// single-instance deployments
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// File storage backend
	var fileStorage storage.FileStorage
	switch cfg.Storage.Backend {
	case "s3":
		fileStorage, err = storage.NewS3FileStorage(cfg.Storage.S3)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		log.Info("S3 file storage initialized", zap.String("bucket", cfg.Storage.S3.Bucket))
	default:
		fileStorage, err = storage.NewLocalFileStorage(cfg.Storage.Local)
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		log.Info("Local file storage initialized", zap.String("dir", cfg.Storage.Local.Dir))
	}

	// PDF renderer for invoice documents
	pdfRenderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
		Timeout:   30 * time.Second,
		NoSandbox: cfg.App.Env != "development",
		Logger:    log,
	})
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Company creation seeds the default roles
	roleSeeder := identityapp.NewRoleSeeder(roleRepo, log)
	eventBus.Subscribe(roleSeeder, roleSeeder.EventTypes()...)
	log.Info("Event handlers registered",
		zap.Strings("role_seeder_events", roleSeeder.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, companyRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	companyService := identityapp.NewCompanyService(companyRepo, fileStorage, eventBus, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, eventBus, log)
	roleService := identityapp.NewRoleService(roleRepo, log)
	clientService := staffingapp.NewClientService(clientRepo, columnRepo, eventBus, log)
	columnService := staffingapp.NewColumnConfigService(columnRepo, clientRepo, log)
	candidateService := staffingapp.NewCandidateService(candidateRepo, clientRepo, columnRepo, log)
	invoiceService := billingapp.NewInvoiceService(
		invoiceRepo, clientRepo, candidateRepo, columnRepo, companyRepo,
		pdfRenderer, fileStorage, eventBus, log,
	)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	companyHandler := handler.NewCompanyHandler(companyService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	clientHandler := handler.NewClientHandler(clientService, columnService)
	candidateHandler := handler.NewCandidateHandler(candidateService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	systemHandler := handler.NewSystemHandler(db.DB)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	if cfg.Storage.Backend != "s3" {
		// Uploaded assets are public URLs (branding images, invoice PDFs)
		jwtConfig.SkipPathPrefixes = append(jwtConfig.SkipPathPrefixes, cfg.Storage.Local.BaseURL)
	}
	engine.Use(middleware.JWTAuth(jwtConfig))

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(authHandler).
		Register(companyHandler).
		Register(userHandler).
		Register(roleHandler).
		Register(clientHandler).
		Register(candidateHandler).
		Register(invoiceHandler)
	r.Setup()

	// Bare /health for load balancer probes
	engine.GET("/health", systemHandler.Health)

	// Serve uploaded files directly when using disk storage
	if cfg.Storage.Backend != "s3" {
		engine.Static(cfg.Storage.Local.BaseURL, cfg.Storage.Local.Dir)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
