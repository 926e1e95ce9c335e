// Package main starts the web service process lifecycle.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tapfolio/tapfolio/internal/platform/config"
	"github.com/tapfolio/tapfolio/internal/platform/otel"
	"github.com/tapfolio/tapfolio/internal/platform/token"
	"github.com/tapfolio/tapfolio/internal/services/web/app"
)

type envConfig struct {
	Port         int    `env:"TAPFOLIO_WEB_PORT"`
	StoreBaseURL string `env:"TAPFOLIO_STORE_URL" envDefault:"http://localhost:8084/api/v1"`
}

func main() {
	log.SetPrefix("[WEB] ")

	var cfg envConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("parse config: %v", err)
	}
	tokens, err := token.LoadConfigFromEnv(time.Now)
	if err != nil {
		config.Exitf("load session config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "web")
	if err != nil {
		config.Exitf("setup tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	runtime := app.RuntimeConfig{
		Port:         cfg.Port,
		StoreBaseURL: cfg.StoreBaseURL,
		Tokens:       tokens,
	}
	if err := app.Run(ctx, runtime); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
