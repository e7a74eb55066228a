package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"formsmith/config"
	"formsmith/internal/app"
	"formsmith/internal/jobs"
	"formsmith/internal/log"
	"formsmith/internal/service"
	"formsmith/internal/transport/rest"
	"formsmith/internal/transport/ws"
)

// @title Formsmith API
// @version 1.0
// @description Form builder with sectioned respondent sessions, validation and test-mode scoring
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log.Configure(cfg.LogLevel, cfg.LogFormat)
	log.Info("started")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(context.Background())

	if err := a.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	accounts, err := a.OwnerAccounts()
	if err != nil {
		log.Fatal("Failed to hash owner password:", err)
	}

	jobClient := jobs.NewClient(cfg.RedisAddr)
	defer jobClient.Close()

	// Initialize WebSocket hub and the cross-process relay feeding it
	wsHub := ws.NewHub()
	relay := ws.NewRelay(wsHub, a.EventBus)
	go relay.Run(ctx)
	log.Info("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, accounts)
	formSvc := service.NewFormService(a.FormRepo, a.ResponseRepo, a.FormCache, a.AnalyticsCache)
	sessionSvc := service.NewSessionService(formSvc, authSvc, a.SessionCache, a.SubmitLock, a.ResponseRepo, jobClient)
	responseSvc := service.NewResponseService(formSvc, a.ResponseRepo)
	analyticsSvc := a.AnalyticsService()

	// Inject broadcaster (relay implements service.Broadcaster)
	formSvc.SetBroadcaster(relay)
	sessionSvc.SetBroadcaster(relay)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		FormService:      formSvc,
		SessionService:   sessionSvc,
		ResponseService:  responseSvc,
		AnalyticsService: analyticsSvc,
		WSHub:            wsHub,
		AllowedOrigins:   strings.Split(cfg.CORSAllowedOrigins, ","),
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on :%s", cfg.HTTPPort)
		log.Info("Endpoints:")
		log.Info("  POST /v1/auth/login")
		log.Info("  GET  /v1/public/forms/{formId}")
		log.Info("  POST /v1/public/forms/{formId}/sessions")
		log.Info("  *    /v1/sessions/{sessionId}/...")
		log.Info("  *    /v1/forms/...")
		log.Info("  WS   /v1/ws/forms/{formId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Info("Server exited")
}
