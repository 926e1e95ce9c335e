// Package config covers the entry-point plumbing shared by the tapfolio
// services: loading TAPFOLIO_* environment variables into per-service
// structs and exiting cleanly when startup cannot proceed.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from the process environment. Fields opt in with
// `env` tags; defaults that cannot be expressed as an envDefault tag are
// applied by the caller after parsing.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Exitf reports a startup failure on stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
