// Package rest exposes the profile store's HTTP API: owner-scoped profile
// fetch and save, public fetch by slug, and engagement analytics.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tapfolio/tapfolio/internal/analytics"
	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
	"github.com/tapfolio/tapfolio/internal/platform/id"
	"github.com/tapfolio/tapfolio/internal/platform/token"
	"github.com/tapfolio/tapfolio/internal/services/profilestore/storage"
	"github.com/tapfolio/tapfolio/internal/storeclient"
)

// Handler serves the profile store REST API.
type Handler struct {
	profiles storage.ProfileStore
	events   storage.EventStore
	tokens   token.Config
	now      func() time.Time
}

// New creates a REST handler over the given stores.
func New(profiles storage.ProfileStore, events storage.EventStore, tokens token.Config) *Handler {
	return &Handler{
		profiles: profiles,
		events:   events,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/profiles", h.requireAccount(h.handleListProfiles))
	mux.HandleFunc("PUT /api/v1/profiles/{id}", h.requireAccount(h.handleReplaceProfile))
	mux.HandleFunc("GET /api/v1/profiles/p/{slug}", h.handleProfileBySlug)
	mux.HandleFunc("POST /api/v1/analytics/track", h.handleTrackEvent)
	mux.HandleFunc("GET /api/v1/analytics/stats", h.requireAccount(h.handleStats))
	return mux
}

type accountHandler func(w http.ResponseWriter, r *http.Request, accountID string)

func (h *Handler) requireAccount(next accountHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		bearer, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || strings.TrimSpace(bearer) == "" {
			writeError(w, apperrors.E(apperrors.KindUnauthorized, "missing bearer token"))
			return
		}
		accountID, err := token.Verify(strings.TrimSpace(bearer), h.tokens)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, accountID)
	}
}

// handleListProfiles returns the account's profiles, creating a default
// profile the first time an account asks for its list.
func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request, accountID string) {
	profiles, err := h.profiles.ListProfilesByOwner(r.Context(), accountID)
	if err != nil {
		writeError(w, fmt.Errorf("list profiles: %w", err))
		return
	}
	if len(profiles) == 0 {
		created, err := h.createDefaultProfile(r, accountID)
		if err != nil {
			writeError(w, fmt.Errorf("create default profile: %w", err))
			return
		}
		profiles = []storage.Profile{created}
	}

	payload := make([]storeclient.WireProfile, 0, len(profiles))
	for _, profile := range profiles {
		payload = append(payload, toWireProfile(profile))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) createDefaultProfile(r *http.Request, accountID string) (storage.Profile, error) {
	now := h.now().UTC()
	profile := storage.Profile{
		ID:             id.MustNewID(),
		OwnerAccountID: accountID,
		Slug:           id.NewSlug(),
		DisplayName:    "Your Name",
		Title:          "Your Title",
		ThemeLayout:    "classic",
		ThemeColor:     "#c6ff00",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.profiles.CreateProfile(r.Context(), profile); err != nil {
		return storage.Profile{}, err
	}
	return profile, nil
}

// handleReplaceProfile overwrites a stored profile with the submitted
// document. Every submitted block gets a fresh store-assigned identifier;
// client identifiers never survive a save.
func (h *Handler) handleReplaceProfile(w http.ResponseWriter, r *http.Request, accountID string) {
	profileID := strings.TrimSpace(r.PathValue("id"))
	stored, err := h.profiles.GetProfileByID(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	if stored.OwnerAccountID != accountID {
		// Hide other owners' profiles rather than confirming they exist.
		writeError(w, apperrors.E(apperrors.KindNotFound, "profile not found"))
		return
	}

	var incoming storeclient.WireProfile
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, apperrors.Wrap(apperrors.KindInvalidInput, "decode profile", err))
		return
	}

	replacement, err := fromWireProfile(incoming)
	if err != nil {
		writeError(w, err)
		return
	}
	replacement.ID = stored.ID
	replacement.UpdatedAt = h.now().UTC()
	for i := range replacement.Blocks {
		replacement.Blocks[i].ID = id.MustNewID()
	}

	saved, err := h.profiles.ReplaceProfile(r.Context(), replacement)
	if err != nil {
		writeError(w, fmt.Errorf("replace profile: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, toWireProfile(saved))
}

func (h *Handler) handleProfileBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	profile, err := h.profiles.GetProfileBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWireProfile(profile))
}

func (h *Handler) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProfileID string `json:"profileId"`
		Type      string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Wrap(apperrors.KindInvalidInput, "decode event", err))
		return
	}
	kind := analytics.Kind(strings.TrimSpace(payload.Type))
	if !kind.Valid() {
		writeError(w, apperrors.E(apperrors.KindInvalidInput, "unknown event type"))
		return
	}
	if strings.TrimSpace(payload.ProfileID) == "" {
		writeError(w, apperrors.E(apperrors.KindInvalidInput, "profile id is required"))
		return
	}
	event := storage.Event{
		ProfileID: strings.TrimSpace(payload.ProfileID),
		Kind:      string(kind),
		CreatedAt: h.now().UTC(),
	}
	if err := h.events.AppendEvent(r.Context(), event); err != nil {
		writeError(w, fmt.Errorf("append event: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request, accountID string) {
	totals, err := h.events.TotalsByOwner(r.Context(), accountID)
	if err != nil {
		writeError(w, fmt.Errorf("event totals: %w", err))
		return
	}
	payload := struct {
		Totals map[string]int64 `json:"totals"`
	}{Totals: totals}
	if payload.Totals == nil {
		payload.Totals = map[string]int64{}
	}
	writeJSON(w, http.StatusOK, payload)
}

func toWireProfile(profile storage.Profile) storeclient.WireProfile {
	components := make([]storeclient.WireBlock, 0, len(profile.Blocks))
	for _, block := range profile.Blocks {
		var data storeclient.WireBlockData
		if len(block.Data) > 0 {
			// Data was validated on the way in; a decode failure here means
			// a hand-edited row, render it as an empty payload.
			_ = json.Unmarshal(block.Data, &data)
		}
		components = append(components, storeclient.WireBlock{
			ID:        block.ID,
			Type:      block.Type,
			Data:      data,
			IsEnabled: block.Enabled,
		})
	}
	return storeclient.WireProfile{
		ID:             profile.ID,
		Slug:           profile.Slug,
		DisplayName:    profile.DisplayName,
		Title:          profile.Title,
		Company:        profile.Company,
		Bio:            profile.Bio,
		AvatarURL:      profile.AvatarURL,
		CoverURL:       profile.CoverURL,
		Theme:          storeclient.WireTheme{Layout: profile.ThemeLayout, PrimaryColor: profile.ThemeColor},
		Components:     components,
		OwnerAccountID: profile.OwnerAccountID,
		CreatedAt:      profile.CreatedAt.UTC().UnixMilli(),
		UpdatedAt:      profile.UpdatedAt.UTC().UnixMilli(),
	}
}

func fromWireProfile(payload storeclient.WireProfile) (storage.Profile, error) {
	blocks := make([]storage.Block, 0, len(payload.Components))
	for position, component := range payload.Components {
		blockType := strings.TrimSpace(component.Type)
		if blockType == "" {
			return storage.Profile{}, apperrors.E(apperrors.KindInvalidInput, "block type is required")
		}
		data, err := json.Marshal(component.Data)
		if err != nil {
			return storage.Profile{}, apperrors.Wrap(apperrors.KindInvalidInput, "encode block data", err)
		}
		blocks = append(blocks, storage.Block{
			Type:     blockType,
			Data:     data,
			Enabled:  component.IsEnabled,
			Position: position,
		})
	}
	return storage.Profile{
		DisplayName: payload.DisplayName,
		Title:       payload.Title,
		Company:     payload.Company,
		Bio:         payload.Bio,
		AvatarURL:   payload.AvatarURL,
		CoverURL:    payload.CoverURL,
		ThemeLayout: payload.Theme.Layout,
		ThemeColor:  payload.Theme.PrimaryColor,
		Blocks:      blocks,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		log.Printf("profilestore: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
}
