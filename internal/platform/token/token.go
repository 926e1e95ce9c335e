// Package token issues and verifies bearer session tokens for the store API.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
)

const issuer = "tapfolio"

// sessionEnv holds raw env values before post-parse validation.
type sessionEnv struct {
	Secret string `env:"TAPFOLIO_SESSION_SECRET"`
}

// Config defines how session tokens are signed and verified.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// LoadConfigFromEnv reads session token configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw sessionEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse session env: %w", err)
	}
	secret := strings.TrimSpace(raw.Secret)
	if secret == "" {
		return Config{}, fmt.Errorf("TAPFOLIO_SESSION_SECRET is required")
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Secret: []byte(secret),
		TTL:    24 * time.Hour,
		Now:    now,
	}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

// Issue signs a session token for the given account.
func Issue(accountID string, cfg Config) (string, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return "", errors.New("account id is required")
	}
	if len(cfg.Secret) == 0 {
		return "", errors.New("session signer is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := cfg.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify validates a session token and returns the account it identifies.
func Verify(raw string, cfg Config) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.E(apperrors.KindUnauthorized, "session token is required")
	}
	if len(cfg.Secret) == 0 {
		return "", errors.New("session verifier is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(cfg.Now),
	)
	if err != nil {
		return "", mapJWTError(err)
	}
	accountID := strings.TrimSpace(parsed.AccountID)
	if accountID == "" {
		return "", apperrors.E(apperrors.KindUnauthorized, "session token has no account")
	}
	return accountID, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperrors.E(apperrors.KindUnauthorized, "session token is expired")
	}
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.E(apperrors.KindUnauthorized, "session token signature is invalid")
	}
	return apperrors.E(apperrors.KindUnauthorized, "session token is invalid")
}
