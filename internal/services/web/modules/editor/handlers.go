// Package editor serves the card editor: an in-memory editing session per
// account, HTMX fragment endpoints for every mutation, and an explicit save
// that round-trips through the profile store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/tapfolio/tapfolio/internal/analytics"
	"github.com/tapfolio/tapfolio/internal/card"
	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
	"github.com/tapfolio/tapfolio/internal/platform/token"
	"github.com/tapfolio/tapfolio/internal/services/web/auth"
	"github.com/tapfolio/tapfolio/internal/services/web/platform/httpx"
	"github.com/tapfolio/tapfolio/internal/services/web/session"
	"github.com/tapfolio/tapfolio/internal/services/web/templates"
)

// StoreGateway is the slice of the profile store client the editor needs.
type StoreGateway interface {
	FetchMine(ctx context.Context) (card.Profile, error)
	Save(ctx context.Context, profile card.Profile) (card.Profile, error)
	FetchStats(ctx context.Context) (analytics.Totals, error)
}

// GatewayFactory builds a store gateway acting with the caller's bearer token.
type GatewayFactory func(bearer string) StoreGateway

// Handlers serves the editor routes.
type Handlers struct {
	sessions *session.Manager
	tokens   token.Config
	gateway  GatewayFactory
}

// New creates editor handlers.
func New(sessions *session.Manager, tokens token.Config, gateway GatewayFactory) *Handlers {
	return &Handlers{sessions: sessions, tokens: tokens, gateway: gateway}
}

// Register mounts the editor routes on the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /editor", h.withSession(h.handleIndex))
	mux.HandleFunc("GET /editor/stats", h.withSession(h.handleStats))
	mux.HandleFunc("POST /editor/blocks", h.withSession(h.handleAddBlock))
	mux.HandleFunc("POST /editor/blocks/{id}", h.withSession(h.handleUpdateBlock))
	mux.HandleFunc("POST /editor/blocks/{id}/toggle", h.withSession(h.handleToggleBlock))
	mux.HandleFunc("POST /editor/blocks/{id}/reorder", h.withSession(h.handleReorderBlock))
	mux.HandleFunc("POST /editor/blocks/{id}/delete", h.withSession(h.handleDeleteBlock))
	mux.HandleFunc("POST /editor/profile", h.withSession(h.handleProfileFields))
	mux.HandleFunc("POST /editor/theme", h.withSession(h.handleTheme))
	mux.HandleFunc("POST /editor/save", h.withSession(h.handleSave))
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, ident auth.Identity, sess *session.Session)

func (h *Handlers) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := auth.FromRequest(r, h.tokens)
		if err != nil {
			httpx.WriteRedirect(w, r, "/login")
			return
		}
		sess, err := h.sessions.Load(r.Context(), ident.AccountID, func(ctx context.Context) (card.Profile, error) {
			return h.gateway(ident.Bearer).FetchMine(ctx)
		})
		if err != nil {
			httpx.WriteError(w, fmt.Errorf("load editing session: %w", err))
			return
		}
		next(w, r, ident, sess)
	}
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request, ident auth.Identity, sess *session.Session) {
	totals, err := h.gateway(ident.Bearer).FetchStats(r.Context())
	if err != nil {
		// Stats are decorative on this page; render without them.
		log.Printf("fetch stats: %v", err)
		totals = analytics.Totals{}
	}
	writeComponent(w, r, templates.Page("Edit your card", templates.EditorPage(sess.Snapshot(), totals)))
}

func (h *Handlers) handleStats(w http.ResponseWriter, r *http.Request, ident auth.Identity, _ *session.Session) {
	totals, err := h.gateway(ident.Bearer).FetchStats(r.Context())
	if err != nil {
		httpx.WriteError(w, fmt.Errorf("fetch stats: %w", err))
		return
	}
	writeComponent(w, r, templates.StatsFragment(totals))
}

func (h *Handlers) handleAddBlock(w http.ResponseWriter, r *http.Request, _ auth.Identity, sess *session.Session) {
	blockType := card.BlockType(strings.TrimSpace(r.FormValue("type")))
	err := sess.With(func(doc *card.Document) error {
		_, err := doc.AddBlock(blockType)
		return err
	})
	if err != nil {
		httpx.WriteError(w, mapDocumentError(err))
		return
	}
	h.writeBlocks(w, r, sess)
}

func (h *Handlers) handleUpdateBlock(w http.ResponseWriter, r *http.Request, _ auth.Identity, sess *session.Session) {
	blockID := card.ParseBlockID(r.PathValue("id"))
	err := sess.With(func(doc *card.Document) error {
		block, ok := findBlock(doc.Blocks(), blockID)
		if !ok {
			return nil
		}
		payload := payloadFromForm(block.Type, r)
		if payload == nil {
			return nil
		}
		return doc.UpdateBlockPayload(blockID, payload)
	})
	if err != nil {
		httpx.WriteError(w, mapDocumentError(err))
		return
	}
	h.writeBlocks(w, r, sess)
}

func (h *Handlers) handleToggleBlock(w http.ResponseWriter, r *http.Request, _ auth.Identity, sess *session.Session) {
	blockID := card.ParseBlockID(r.PathValue("id"))
	_ = sess.With(func(doc *card.Document) error {
		if block, ok := findBlock(doc.Blocks(), blockID); ok {
			doc.SetBlockEnabled(blockID, !block.Enabled)
		}
		return nil
	})
	h.writeBlocks(w, r, sess)
}

func (h *Handlers) handleReorderBlock(w http.ResponseWriter, r *http.Request, _ auth.Identity, sess *session.Session) {
	blockID := card.ParseBlockID(r.PathValue("id"))
	direction := strings.TrimSpace(r.FormValue("direction"))
	_ = sess.With(func(doc *card.Document) error {
		blocks := doc.Blocks()
		idx := -1
		for i, block := range blocks {
			if block.ID == blockID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}
		target := idx
		switch direction {
		case "up":
			target = idx - 1
		case "down":
			target = idx + 1
		}
		if target < 0 || target >= len(blocks) || target == idx {
			return nil
		}
		doc.ReorderBlock(blockID, blocks[target].ID)
		return nil
	})
	h.writeBlocks(w, r, sess)
}

func (h *Handlers) handleDeleteBlock(w http.ResponseWriter, r *http.Request, _ auth.Identity, sess *session.Session) {
	blockID := card.ParseBlockID(r.PathValue("id"))
	_ = sess.With(func(doc *card.Document) error {
		doc.RemoveBlock(blockID)
		return nil
	})
	h.writeBlocks(w, r, sess)
}

func (h *Handlers) handleProfileFields(w http.ResponseWriter, r *http.Request, _ auth.Identity, sess *session.Session) {
	_ = sess.With(func(doc *card.Document) error {
		doc.SetDisplayName(r.FormValue("displayName"))
		doc.SetTitle(r.FormValue("title"))
		doc.SetCompany(r.FormValue("company"))
		doc.SetBio(r.FormValue("bio"))
		doc.SetAvatarURL(r.FormValue("avatarUrl"))
		doc.SetCoverURL(r.FormValue("coverUrl"))
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleTheme(w http.ResponseWriter, r *http.Request, _ auth.Identity, sess *session.Session) {
	layout := card.Layout(strings.TrimSpace(r.FormValue("layout")))
	color := strings.TrimSpace(r.FormValue("color"))
	_ = sess.With(func(doc *card.Document) error {
		if layout.Valid() {
			doc.SetThemeLayout(layout)
		}
		if color != "" {
			doc.SetThemeColor(color)
		}
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleSave pushes the document to the store and replaces the session
// document with the store's authoritative response, so transient block
// identifiers give way to store-assigned ones.
func (h *Handlers) handleSave(w http.ResponseWriter, r *http.Request, ident auth.Identity, sess *session.Session) {
	saved, err := h.gateway(ident.Bearer).Save(r.Context(), sess.Snapshot())
	if err != nil {
		httpx.WriteError(w, fmt.Errorf("save profile: %w", err))
		return
	}
	_ = sess.With(func(doc *card.Document) error {
		doc.Replace(saved)
		return nil
	})
	h.writeBlocks(w, r, sess)
}

func (h *Handlers) writeBlocks(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeComponent(w, r, templates.EditorUpdate(sess.Snapshot()))
}

func writeComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		log.Printf("render: %v", err)
	}
}

// mapDocumentError translates document sentinels into typed input errors.
func mapDocumentError(err error) error {
	if errors.Is(err, card.ErrInvalidBlockType) || errors.Is(err, card.ErrPayloadMismatch) {
		return apperrors.Wrap(apperrors.KindInvalidInput, err.Error(), err)
	}
	return err
}

func findBlock(blocks []card.Block, id card.BlockID) (card.Block, bool) {
	for _, block := range blocks {
		if block.ID == id {
			return block, true
		}
	}
	return card.Block{}, false
}

func payloadFromForm(t card.BlockType, r *http.Request) card.Payload {
	switch t {
	case card.BlockLink, card.BlockSocial:
		return card.LinkPayload{
			Label: strings.TrimSpace(r.FormValue("label")),
			URL:   strings.TrimSpace(r.FormValue("url")),
		}
	case card.BlockText:
		return card.TextPayload{Text: r.FormValue("text")}
	case card.BlockVideo:
		return card.VideoPayload{URL: strings.TrimSpace(r.FormValue("url"))}
	case card.BlockGallery:
		var images []string
		for _, line := range strings.Split(r.FormValue("images"), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				images = append(images, trimmed)
			}
		}
		return card.GalleryPayload{Images: images}
	default:
		return nil
	}
}
