package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/jpvandijk/koopflow/internal/adapters/http"
	"github.com/jpvandijk/koopflow/internal/bootstrap"
	"github.com/jpvandijk/koopflow/internal/config"
	"github.com/jpvandijk/koopflow/internal/observability/logging"
)

const serviceName = "koopflow-api"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(httpadapter.RouterDeps{
		Workflow:       app.Workflow,
		Accounts:       app.Accounts,
		Admin:          app.Admin,
		Organizations:  app.Organizations,
		Instructions:   app.Instructions,
		Authenticator:  tokenAuthenticator(app),
		MetricsHandler: app.ServerMetrics.Handler(),
		Traffic: httpadapter.TrafficConfig{
			RateLimitRPS:     float64(cfg.APIRateLimitRPS),
			RateLimitBurst:   cfg.APIRateLimitBurst,
			MaxInFlight:      cfg.APIMaxInFlight,
			BackpressureWait: time.Duration(cfg.APIBackpressureWaitMS) * time.Millisecond,
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      app.ServerMetrics.Middleware(serviceName, router.Handler()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api_server_failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("api_shutdown_error", "error", err)
	}
}

func tokenAuthenticator(app *bootstrap.App) httpadapter.TokenAuthenticator {
	return httpadapter.TokenAuthenticatorFunc(func(token string) (string, error) {
		claims, err := app.Tokens.Validate(token)
		if err != nil {
			return "", err
		}
		return claims.UserID, nil
	})
}
