package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tapfolio/tapfolio/internal/analytics"
	"github.com/tapfolio/tapfolio/internal/card"
	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
)

// CredentialsProvider supplies the bearer token attached to owner-scoped
// requests. It is injected so the client never reads ambient global state.
type CredentialsProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticCredentials is a CredentialsProvider holding a fixed token.
type StaticCredentials string

// Token returns the fixed token.
func (c StaticCredentials) Token(context.Context) (string, error) {
	return string(c), nil
}

// Client talks to the profile store's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialsProvider
}

// New creates a store client for the given base URL (for example
// "http://localhost:8084/api/v1"). creds may be nil for public-only use.
func New(baseURL string, creds CredentialsProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		creds: creds,
	}
}

// FetchMine returns the first profile owned by the authenticated account.
// The store creates a default profile on first fetch, so an empty list is an
// unexpected store failure rather than a normal condition.
func (c *Client) FetchMine(ctx context.Context) (card.Profile, error) {
	var profiles []WireProfile
	if err := c.do(ctx, http.MethodGet, "/profiles", true, nil, &profiles); err != nil {
		return card.Profile{}, fmt.Errorf("fetch profiles: %w", err)
	}
	if len(profiles) == 0 {
		return card.Profile{}, apperrors.E(apperrors.KindUnavailable, "store returned no profiles")
	}
	return FromWire(profiles[0]), nil
}

// FetchBySlug returns the public profile published at the given slug.
func (c *Client) FetchBySlug(ctx context.Context, slug string) (card.Profile, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return card.Profile{}, apperrors.E(apperrors.KindNotFound, "profile slug is required")
	}
	var payload WireProfile
	if err := c.do(ctx, http.MethodGet, "/profiles/p/"+url.PathEscape(slug), false, nil, &payload); err != nil {
		return card.Profile{}, fmt.Errorf("fetch profile %s: %w", slug, err)
	}
	return FromWire(payload), nil
}

// Save submits the profile as a full replace of the stored document and
// returns the store's authoritative representation, including store-assigned
// block identifiers. On failure the caller's in-memory state is untouched and
// no retry is attempted.
func (c *Client) Save(ctx context.Context, profile card.Profile) (card.Profile, error) {
	if strings.TrimSpace(profile.ID) == "" {
		return card.Profile{}, apperrors.E(apperrors.KindInvalidInput, "profile has no store identifier yet")
	}
	var saved WireProfile
	body := ToWire(profile)
	if err := c.do(ctx, http.MethodPut, "/profiles/"+url.PathEscape(profile.ID), true, body, &saved); err != nil {
		return card.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return FromWire(saved), nil
}

// TrackEvent records one engagement event against a profile. Tracking is
// fire-and-forget for callers; failures surface as ordinary errors.
func (c *Client) TrackEvent(ctx context.Context, profileID string, kind analytics.Kind) error {
	payload := map[string]string{
		"profileId": strings.TrimSpace(profileID),
		"type":      string(kind),
	}
	if err := c.do(ctx, http.MethodPost, "/analytics/track", false, payload, nil); err != nil {
		return fmt.Errorf("track event: %w", err)
	}
	return nil
}

// FetchStats returns engagement totals for the authenticated account.
func (c *Client) FetchStats(ctx context.Context) (analytics.Totals, error) {
	var payload struct {
		Totals struct {
			View  int64 `json:"VIEW"`
			Click int64 `json:"CLICK"`
		} `json:"totals"`
	}
	if err := c.do(ctx, http.MethodGet, "/analytics/stats", true, nil, &payload); err != nil {
		return analytics.Totals{}, fmt.Errorf("fetch stats: %w", err)
	}
	return analytics.Totals{Views: payload.Totals.View, Clicks: payload.Totals.Click}, nil
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if c.creds == nil {
			return apperrors.E(apperrors.KindUnauthorized, "no credentials configured")
		}
		bearer, err := c.creds.Token(ctx)
		if err != nil {
			return fmt.Errorf("resolve credentials: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "profile store is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "decode store response", err)
	}
	return nil
}

func statusError(code int) error {
	switch code {
	case http.StatusNotFound:
		return apperrors.E(apperrors.KindNotFound, "profile not found")
	case http.StatusUnauthorized:
		return apperrors.E(apperrors.KindUnauthorized, "store rejected credentials")
	case http.StatusBadRequest:
		return apperrors.E(apperrors.KindInvalidInput, "store rejected request")
	default:
		return apperrors.E(apperrors.KindUnavailable, fmt.Sprintf("store returned status %d", code))
	}
}
