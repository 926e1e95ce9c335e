package publicprofile

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tapfolio/tapfolio/internal/analytics"
	"github.com/tapfolio/tapfolio/internal/card"
	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
)

type fakeGateway struct {
	mu       sync.Mutex
	profiles map[string]card.Profile
	events   []analytics.Kind
}

func (f *fakeGateway) FetchBySlug(_ context.Context, slug string) (card.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[slug]
	if !ok {
		return card.Profile{}, apperrors.E(apperrors.KindNotFound, "profile not found")
	}
	return profile.Clone(), nil
}

func (f *fakeGateway) TrackEvent(_ context.Context, _ string, kind analytics.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, kind)
	return nil
}

func newFixture(t *testing.T) (*httptest.Server, *fakeGateway) {
	t.Helper()
	gateway := &fakeGateway{profiles: map[string]card.Profile{
		"ada": {
			ID:          "prof-1",
			Slug:        "ada",
			DisplayName: "Ada Lovelace",
			Title:       "Analyst",
			AvatarURL:   "https://img.example/ada.png",
			Theme:       card.Theme{Layout: card.LayoutClassic, PrimaryColor: "#ec4899"},
			Blocks: []card.Block{
				{ID: card.StoreBlockID("b1"), Type: card.BlockLink, Enabled: true,
					Payload: card.LinkPayload{Label: "Site", URL: "https://ada.example"}},
				{ID: card.StoreBlockID("b2"), Type: card.BlockLink, Enabled: false,
					Payload: card.LinkPayload{Label: "Hidden", URL: "https://hidden.example"}},
			},
		},
	}}
	mux := http.NewServeMux()
	New(gateway).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, gateway
}

func get(t *testing.T, serverURL, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(serverURL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestPublicPageRendersAndTracksView(t *testing.T) {
	t.Parallel()

	server, gateway := newFixture(t)
	status, body := get(t, server.URL, "/p/ada")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Ada Lovelace") {
		t.Fatalf("missing name: %s", body)
	}
	if !strings.Contains(body, `style="background-color:#ec4899"`) {
		t.Fatalf("contact button not tinted: %s", body)
	}
	if !strings.Contains(body, "https://ada.example") || strings.Contains(body, "Hidden") {
		t.Fatalf("block visibility wrong: %s", body)
	}
	if len(gateway.events) != 1 || gateway.events[0] != analytics.KindView {
		t.Fatalf("events = %v", gateway.events)
	}
}

func TestMinimalLayoutHidesAvatar(t *testing.T) {
	t.Parallel()

	server, gateway := newFixture(t)
	profile := gateway.profiles["ada"]
	profile.Theme.Layout = card.LayoutMinimal
	gateway.profiles["ada"] = profile

	_, body := get(t, server.URL, "/p/ada")
	if strings.Contains(body, `class="avatar"`) {
		t.Fatalf("minimal layout should hide the avatar: %s", body)
	}
	if !strings.Contains(body, "layout-minimal") {
		t.Fatalf("missing layout class: %s", body)
	}
}

func TestUnknownSlugRendersNotFoundPage(t *testing.T) {
	t.Parallel()

	server, _ := newFixture(t)
	status, body := get(t, server.URL, "/p/nobody")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Profile not found") {
		t.Fatalf("missing terminal page: %s", body)
	}
}

func TestClickEndpointTracks(t *testing.T) {
	t.Parallel()

	server, gateway := newFixture(t)
	resp, err := http.Post(server.URL+"/p/ada/click", "", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(gateway.events) != 1 || gateway.events[0] != analytics.KindClick {
		t.Fatalf("events = %v", gateway.events)
	}
}

func TestVCardDownload(t *testing.T) {
	t.Parallel()

	server, _ := newFixture(t)
	status, body := get(t, server.URL, "/p/ada/vcard")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "FN:Ada Lovelace") {
		t.Fatalf("missing FN line: %s", body)
	}
	if !strings.Contains(body, "URL:https://ada.example") {
		t.Fatalf("missing URL line: %s", body)
	}
	if strings.Contains(body, "hidden.example") {
		t.Fatalf("disabled block leaked into vcard: %s", body)
	}
}

func TestBuildVCardEscapesValues(t *testing.T) {
	t.Parallel()

	profile := card.Profile{
		DisplayName: "Smith; Jones, Inc",
		Bio:         "line one\nline two",
	}
	vcard := BuildVCard(profile)
	if !strings.Contains(vcard, `FN:Smith\; Jones\, Inc`) {
		t.Fatalf("unescaped FN: %s", vcard)
	}
	if !strings.Contains(vcard, `NOTE:line one\nline two`) {
		t.Fatalf("unescaped NOTE: %s", vcard)
	}
}
