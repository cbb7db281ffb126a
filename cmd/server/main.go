// Package main initializes and starts the loopback JSON API of the date
// calculator, setting up configuration, logging, storage, services,
// handlers and the token issuer.
package main

import (
	"cmp"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophDate/internal/config"
	"github.com/atinyakov/GophDate/internal/logger"
	"github.com/atinyakov/GophDate/internal/server/handler/http"
	"github.com/atinyakov/GophDate/internal/service"
	"github.com/atinyakov/GophDate/internal/storage"
	"github.com/atinyakov/GophDate/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, environment and file configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick the backend once; an unreachable database falls back to files.
	store := storage.Open(ctx, options, zapLogger)
	defer func() { _ = store.Close() }()

	gateway := service.NewGateway(store.Backend, options.History.MaxRecords, zapLogger)
	calculator := service.NewCalculator(gateway, options.Lang())

	secret := []byte(options.TokenSecret)
	if len(secret) == 0 {
		// tokens then only survive until restart
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			zapLogger.Fatal("failed to generate token secret", zap.Error(err))
		}
	}
	tokens := token.NewIssuer(secret, time.Duration(options.TokenTTL))

	router := http.NewRouter(
		&http.AuthHandler{AuthService: gateway, Tokens: tokens},
		&http.CalcHandler{CalcService: calculator},
		&http.HistoryHandler{HistoryService: gateway},
		tokens,
		zapLogger,
	)

	if host, _, err := net.SplitHostPort(options.Port); err == nil {
		if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
			zapLogger.Warn("API is listening on a non-loopback address", zap.String("addr", options.Port))
		}
	}

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Port),
		zap.String("storage", string(store.Kind)))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
