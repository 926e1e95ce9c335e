// Package publicprofile serves published cards by slug, records engagement
// events, and offers the vCard download behind the contact button.
package publicprofile

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/tapfolio/tapfolio/internal/analytics"
	"github.com/tapfolio/tapfolio/internal/card"
	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
	"github.com/tapfolio/tapfolio/internal/services/web/platform/httpx"
	"github.com/tapfolio/tapfolio/internal/services/web/templates"
)

// StoreGateway is the slice of the profile store client the public pages need.
type StoreGateway interface {
	FetchBySlug(ctx context.Context, slug string) (card.Profile, error)
	TrackEvent(ctx context.Context, profileID string, kind analytics.Kind) error
}

// Handlers serves the public profile routes.
type Handlers struct {
	gateway StoreGateway
}

// New creates public profile handlers over the given gateway.
func New(gateway StoreGateway) *Handlers {
	return &Handlers{gateway: gateway}
}

// Register mounts the public routes on the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /p/{slug}", h.handleProfile)
	mux.HandleFunc("GET /p/{slug}/vcard", h.handleVCard)
	mux.HandleFunc("POST /p/{slug}/click", h.handleClick)
}

func (h *Handlers) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.gateway.FetchBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			if renderErr := templates.Page("Not found", templates.NotFoundPage()).Render(r.Context(), w); renderErr != nil {
				log.Printf("render not found: %v", renderErr)
			}
			return
		}
		httpx.WriteError(w, fmt.Errorf("fetch profile: %w", err))
		return
	}

	// A page view counts even if the tracking write fails.
	if err := h.gateway.TrackEvent(r.Context(), profile.ID, analytics.KindView); err != nil {
		log.Printf("track view: %v", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	title := profile.DisplayName
	if strings.TrimSpace(title) == "" {
		title = "tapfolio"
	}
	if err := templates.Page(title, templates.PublicProfilePage(profile)).Render(r.Context(), w); err != nil {
		log.Printf("render profile: %v", err)
	}
}

func (h *Handlers) handleVCard(w http.ResponseWriter, r *http.Request) {
	profile, err := h.gateway.FetchBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", profile.Slug+".vcf"))
	if _, err := w.Write([]byte(BuildVCard(profile))); err != nil {
		log.Printf("write vcard: %v", err)
	}
}

func (h *Handlers) handleClick(w http.ResponseWriter, r *http.Request) {
	profile, err := h.gateway.FetchBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.gateway.TrackEvent(r.Context(), profile.ID, analytics.KindClick); err != nil {
		httpx.WriteError(w, fmt.Errorf("track click: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
