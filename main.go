// Package main boots the AlgoHub identity and session service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AllanSJoseph/AlgoHub/config"
	"github.com/AllanSJoseph/AlgoHub/data"
	"github.com/AllanSJoseph/AlgoHub/handler"
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/AllanSJoseph/AlgoHub/middleware"
	"github.com/AllanSJoseph/AlgoHub/security/jwt"
	"github.com/AllanSJoseph/AlgoHub/service"
	"github.com/AllanSJoseph/AlgoHub/structs"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// App represents the service with its wired dependencies.
type App struct {
	config       *config.Config
	logger       *logger.Logger
	data         *data.Data
	authHandler  *handler.AuthHandler
	adminHandler *handler.AdminHandler
	authService  *service.Service
	server       *http.Server
}

// NewApp loads configuration and wires the dependency graph. A failed
// document-store connection is non-fatal: the service starts and the request
// gate rejects traffic until connectivity returns.
func NewApp(configPath string) (*App, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cleanup1, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.StdLogger()

	ctx := context.Background()
	dataLayer, err := data.New(ctx, cfg.Data, log)
	if err != nil {
		log.Error(ctx, "starting anyway, requests are rejected until the store is available", "error", err)
	}

	tokenManager := jwt.NewTokenManager(cfg.Auth.JWT.Secret)
	authService := service.NewService(dataLayer.UserRepo, dataLayer.Blacklist, tokenManager, log)

	app := &App{
		config:       cfg,
		logger:       log,
		data:         dataLayer,
		authHandler:  handler.NewAuthHandler(authService, log),
		adminHandler: handler.NewAdminHandler(authService, log),
		authService:  authService,
	}

	cleanup := func() {
		if err := dataLayer.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
		cleanup1()
	}

	return app, cleanup, nil
}

// router builds the HTTP routing table.
func (a *App) router() *gin.Engine {
	if a.config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Trace())
	r.Use(middleware.RequestLogger(a.logger))

	if len(a.config.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     a.config.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
		}))
	}

	// The health probe bypasses the gate.
	r.GET("/health", func(c *gin.Context) {
		if !a.data.Ready(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "message": "Database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	user := r.Group("/user", middleware.Gate(a.data))
	{
		user.POST("/register", a.authHandler.Register)
		user.POST("/login", a.authHandler.Login)
		user.POST("/logout", a.authHandler.Logout)

		// Trusted at the deployment boundary.
		user.POST("/admin/register", a.adminHandler.Register)

		authed := user.Group("", middleware.Auth(a.authService, a.logger))
		{
			authed.GET("/check", a.authHandler.Check)
			authed.DELETE("/deleteProfile", a.authHandler.DeleteProfile)

			admin := authed.Group("/admin", middleware.RequireRole(structs.RoleAdmin))
			{
				admin.GET("/users", a.adminHandler.ListUsers)
				admin.DELETE("/users/:userId", a.adminHandler.DeleteUser)
			}
		}
	}

	return r
}

// Run starts the server and blocks until shutdown.
func (a *App) Run() error {
	addr := fmt.Sprintf("%s:%d", a.config.Host, a.config.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(context.Background(), "Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info(context.Background(), "Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error(ctx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(context.Background(), "Server exited")
	return nil
}

func main() {
	configPath := flag.String("conf", "config.yaml", "path to the configuration file")
	flag.Parse()

	app, cleanup, err := NewApp(*configPath)
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		fmt.Printf("Failed to run app: %v\n", err)
		os.Exit(1)
	}
}
