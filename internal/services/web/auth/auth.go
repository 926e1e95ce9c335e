// Package auth resolves the signed-in account from the session cookie and
// serves the login and logout endpoints.
package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
	"github.com/tapfolio/tapfolio/internal/platform/token"
	"github.com/tapfolio/tapfolio/internal/services/web/platform/httpx"
	"github.com/tapfolio/tapfolio/internal/services/web/session"
	"github.com/tapfolio/tapfolio/internal/services/web/templates"
)

// CookieName is the session cookie carrying the bearer token.
const CookieName = "tapfolio_session"

// Identity is the resolved caller: the verified account and the raw bearer
// token used to act on its behalf against the profile store.
type Identity struct {
	AccountID string
	Bearer    string
}

// FromRequest resolves the caller's identity from the session cookie.
func FromRequest(r *http.Request, tokens token.Config) (Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Identity{}, apperrors.E(apperrors.KindUnauthorized, "no session")
	}
	accountID, err := token.Verify(cookie.Value, tokens)
	if err != nil {
		return Identity{}, err
	}
	return Identity{AccountID: accountID, Bearer: cookie.Value}, nil
}

// Grant sets the session cookie.
func Grant(w http.ResponseWriter, bearer string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    bearer,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Revoke clears the session cookie.
func Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Handlers serves login and logout.
type Handlers struct {
	tokens   token.Config
	sessions *session.Manager
}

// New creates auth handlers verifying against the given token config.
// Logout discards the account's editing session through sessions.
func New(tokens token.Config, sessions *session.Manager) *Handlers {
	return &Handlers{tokens: tokens, sessions: sessions}
}

// Register mounts the auth routes on the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", h.handleLoginForm)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /logout", h.handleLogout)
}

func (h *Handlers) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page("Sign in", templates.LoginForm()).Render(r.Context(), w); err != nil {
		httpx.WriteError(w, err)
	}
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	bearer := strings.TrimSpace(r.FormValue("token"))
	if _, err := token.Verify(bearer, h.tokens); err != nil {
		httpx.WriteError(w, err)
		return
	}
	Grant(w, bearer)
	httpx.WriteRedirect(w, r, "/editor")
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Unsaved edits must not resurface when the account signs in again.
	if ident, err := FromRequest(r, h.tokens); err == nil {
		h.sessions.Drop(ident.AccountID)
	}
	Revoke(w)
	httpx.WriteRedirect(w, r, "/login")
}
