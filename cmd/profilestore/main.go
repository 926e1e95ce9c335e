// Package main starts the profile store service process lifecycle.
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
	"github.com/tapfolio/tapfolio/internal/services/profilestore/app"
)

type envConfig struct {
	Port   int    `env:"TAPFOLIO_PROFILESTORE_PORT"`
	DBPath string `env:"TAPFOLIO_PROFILESTORE_DB_PATH" envDefault:"profilestore.db"`
}

func main() {
	log.SetPrefix("[PROFILESTORE] ")

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

	shutdown, err := otel.Setup(ctx, "profilestore")
	if err != nil {
		config.Exitf("setup tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	runtime := app.RuntimeConfig{
		Port:   cfg.Port,
		DBPath: cfg.DBPath,
		Tokens: tokens,
	}
	if err := app.Run(ctx, runtime); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
