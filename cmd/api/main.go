package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/config"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/database"
	_ "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/docs" // Import swagger docs
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/handlers"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/kvstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/logger"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/middleware"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/remote"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/validator"
)

// @title           PlannerFinanças API
// @version         1.0
// @description     Local API over the budget data context: budgets, entries, categories and backups, synced to the hosted store when it is reachable.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Local stores
	durable, err := kvstore.OpenSQLite(appConfig.LocalDBPath)
	if err != nil {
		return err
	}
	defer durable.Close()

	var session kvstore.Store = kvstore.NewMemory()
	if appConfig.RedisAddr != "" {
		rdb, err := kvstore.DialRedis(ctx, appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB, appConfig.JWTExpirationDur)
		if err != nil {
			log.Warnw("redis unavailable, keeping session hints in memory", "addr", appConfig.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			session = rdb
		}
	}
	local := localstore.New(durable, session, localstore.WithPrefix(appConfig.StoragePrefix))

	// Remote store and identity provider
	opts := []userdata.Option{}
	var provider auth.Provider
	if appConfig.RemoteEnabled {
		dbConfig, err := database.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load database configuration: %w", err)
		}
		dbManager, err := database.NewManager(dbConfig)
		if err != nil {
			return fmt.Errorf("failed to create database manager: %w", err)
		}
		defer dbManager.Close()

		provider = auth.NewJWTProvider(dbManager.DB(), appConfig.JWTSecret, auth.WithTokenTTL(appConfig.JWTExpirationDur))
		svc := remote.NewService(dbManager.DB(), provider, remote.WithSessionTTL(appConfig.SessionTTL))
		opts = append(opts, userdata.WithRemote(svc), userdata.WithAuth(provider))
	} else {
		log.Info("Remote store disabled, running in local mode")
	}

	data := userdata.NewManager(local, opts...)
	data.Start(ctx)
	defer data.Close()

	readyCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	if err := data.WaitReady(readyCtx); err != nil {
		log.Warnw("data context not ready yet", "error", err)
	}
	cancel()
	if _, err := data.Resume(ctx); err != nil {
		log.Warnw("could not resume remembered user", "error", err)
	}

	validator.Register()

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": data.Status().Mode})
	})

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Routes{
		Data:     data,
		Sessions: provider,
		Settings: local,
	})

	server := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Infof("Starting PlannerFinanças server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}
