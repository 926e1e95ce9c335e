package app

import (
	"context"
	"strings"
	"testing"

	"github.com/tapfolio/tapfolio/internal/platform/token"
)

func TestRunRequiresDBPath(t *testing.T) {
	t.Parallel()

	cfg := RuntimeConfig{Tokens: token.Config{Secret: []byte("secret")}}
	err := Run(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "db path") {
		t.Fatalf("err = %v, want db path error", err)
	}
}

func TestRunRequiresSessionSecret(t *testing.T) {
	t.Parallel()

	cfg := RuntimeConfig{DBPath: "ignored.db"}
	err := Run(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "session secret") {
		t.Fatalf("err = %v, want session secret error", err)
	}
}
