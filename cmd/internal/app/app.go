// Package app wires configuration, storage and services into an echo server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"coursenotes/cmd/internal/config"
	"coursenotes/cmd/internal/domain/database"
	"coursenotes/cmd/internal/domain/database/repository"
	"coursenotes/cmd/internal/http/handler"
	appmiddleware "coursenotes/cmd/internal/http/middleware"
	"coursenotes/cmd/internal/infrastructure/aws/websocket"
	"coursenotes/cmd/internal/infrastructure/storage"
	"coursenotes/cmd/internal/infrastructure/tokenstore"
	"coursenotes/cmd/internal/routes"
	"coursenotes/cmd/internal/service"
	"coursenotes/cmd/internal/service/jobs"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/uid"
	"coursenotes/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// Deps are the external resources the application runs against.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Store   storage.FileStore
	Revoked tokenstore.Store

	// Gateway is nil when realtime notifications are disabled.
	Gateway websocket.GatewayClient
}

type App struct {
	Echo    *echo.Echo
	Auth    *service.DefaultAuthService
	Tokens  *utils.TokenManager
	Cleaner *jobs.ConnectionCleaner

	closers []func() error
}

// Open builds every dependency from cfg and wires the application.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	closers := []func() error{sqlDB.Close}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var revoked tokenstore.Store = tokenstore.NewMemoryStore()
	if cfg.Redis.URL != "" {
		redisStore, err := tokenstore.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		revoked = redisStore
		closers = append(closers, redisStore.Close)
		log.Info("token revocation backed by redis")
	}

	var gateway websocket.GatewayClient
	if cfg.Gateway.Enabled() {
		client, err := websocket.NewAWSGatewayClient(ctx, cfg.Gateway.Endpoint, cfg.Gateway.Region)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		gateway = client
	}

	a, err := Build(Deps{
		Config:  cfg,
		DB:      db,
		Store:   store,
		Revoked: revoked,
		Gateway: gateway,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	a.closers = append(a.closers, closers...)
	return a, nil
}

// OpenDatabase connects and migrates the configured database.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// Build wires repositories, services and routes on top of deps.
func Build(deps Deps) (*App, error) {
	cfg := deps.Config
	validate := validators.New()

	ids, err := uid.New(cfg.App.MachineID)
	if err != nil {
		return nil, err
	}
	tokens := utils.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiry, ids)

	// Getting repos
	noteRepo := repository.NewNoteRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	connRepo := repository.NewConnectionRepository(deps.DB)

	// Getting services
	var dispatcher interface {
		service.EventDispatcher
		service.SessionTerminator
	} = service.NopDispatcher{}

	var wsService *service.WebSocketService
	if deps.Gateway != nil {
		wsService = service.NewWebSocketService(connRepo, deps.Gateway)
		dispatcher = wsService
	}

	uploadService := service.NewUploadService(deps.Store, cfg.Storage.MaxUploadBytes)
	noteService := service.NewNoteService(noteRepo, uploadService, dispatcher, validate)
	authService := service.NewAuthService(userRepo, noteRepo, tokens, deps.Revoked, uploadService, dispatcher, validate)

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, err
	}

	// Getting handlers
	handlers := &routes.Handlers{
		Notes:   handler.NewNoteDefault(noteService),
		Uploads: handler.NewUploadDefault(uploadService),
		Auth:    handler.NewAuthDefault(authService),
		Health:  handler.NewHealthCheck(sqlDB),
	}

	a := &App{
		Auth:   authService,
		Tokens: tokens,
	}
	if wsService != nil {
		handlers.WebSocket = handler.NewWSDefault(wsService)
		a.Cleaner = jobs.NewConnectionCleaner(wsService)
	}

	a.Echo = newEcho(cfg)
	authMiddleware := appmiddleware.NewAuthMiddleware(&appmiddleware.AuthMiddlewareConfig{
		UserRepo: userRepo,
		Tokens:   tokens,
		Revoked:  deps.Revoked,
	})
	routes.Register(a.Echo, handlers, authMiddleware)
	return a, nil
}

// Start serves until ctx is cancelled and then shuts down gracefully.
func (a *App) Start(ctx context.Context, port string) error {
	if a.Cleaner != nil {
		go a.Cleaner.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(":" + port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func newEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = log.New("echo")
	e.Logger.SetLevel(log.Level())

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Errorf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Debugf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(appmiddleware.NewMetricsMiddleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
	}))
	e.Use(middleware.BodyLimit(cfg.App.BodyLimit))
	return e
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.FileStore, error) {
	switch cfg.Driver {
	case "s3":
		return storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region)
	default:
		return storage.NewLocalStore(cfg.UploadsDir)
	}
}
