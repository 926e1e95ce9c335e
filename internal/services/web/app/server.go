// Package app wires the web service runtime: the profile store client, the
// editor and public modules, and the HTTP server lifecycle.
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
	"github.com/tapfolio/tapfolio/internal/services/web/auth"
	"github.com/tapfolio/tapfolio/internal/services/web/modules/editor"
	"github.com/tapfolio/tapfolio/internal/services/web/modules/publicprofile"
	"github.com/tapfolio/tapfolio/internal/services/web/platform/httpx"
	"github.com/tapfolio/tapfolio/internal/services/web/session"
	"github.com/tapfolio/tapfolio/internal/services/web/static"
	"github.com/tapfolio/tapfolio/internal/storeclient"
)

const defaultPort = 8080

// RuntimeConfig controls web service startup.
type RuntimeConfig struct {
	Port         int
	StoreBaseURL string
	Tokens       token.Config
}

// Handler composes the web service's route table.
func Handler(cfg RuntimeConfig) (http.Handler, error) {
	if strings.TrimSpace(cfg.StoreBaseURL) == "" {
		return nil, fmt.Errorf("store base url is required")
	}
	if len(cfg.Tokens.Secret) == 0 {
		return nil, fmt.Errorf("session secret is required")
	}

	sessions := session.NewManager()
	gateway := func(bearer string) editor.StoreGateway {
		return storeclient.New(cfg.StoreBaseURL, storeclient.StaticCredentials(bearer))
	}
	public := storeclient.New(cfg.StoreBaseURL, nil)

	mux := http.NewServeMux()
	auth.New(cfg.Tokens, sessions).Register(mux)
	editor.New(sessions, cfg.Tokens, gateway).Register(mux)
	publicprofile.New(public).Register(mux)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static.FS)))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/editor", http.StatusFound)
	})

	return httpx.Chain(mux, httpx.RequestID(), httpx.RecoverPanic()), nil
}

// Run starts the web HTTP runtime until context cancellation.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}

	handler, err := Handler(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(handler, "web"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Printf("web listening on :%d", cfg.Port)

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
