// Package app wires the profile store service runtime: SQLite storage, the
// REST API, and the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tapfolio/tapfolio/internal/platform/token"
	"github.com/tapfolio/tapfolio/internal/services/profilestore/api/rest"
	"github.com/tapfolio/tapfolio/internal/services/profilestore/storage/sqlite"
)

const defaultPort = 8084

// RuntimeConfig controls profile store service startup.
type RuntimeConfig struct {
	Port   int
	DBPath string
	Tokens token.Config
}

// Run starts the profile store HTTP runtime until context cancellation.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("db path is required")
	}
	if len(cfg.Tokens.Secret) == 0 {
		return fmt.Errorf("session secret is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close storage: %v", closeErr)
		}
	}()

	handler := rest.New(store, store, cfg.Tokens)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(handler.Routes(), "profilestore"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Printf("profilestore listening on :%d", cfg.Port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}
