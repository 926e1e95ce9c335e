package rest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tapfolio/tapfolio/internal/analytics"
	"github.com/tapfolio/tapfolio/internal/card"
	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
	"github.com/tapfolio/tapfolio/internal/platform/token"
	"github.com/tapfolio/tapfolio/internal/services/profilestore/storage/sqlite"
	"github.com/tapfolio/tapfolio/internal/storeclient"
)

var testTokens = token.Config{Secret: []byte("test-secret"), TTL: time.Hour}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "profilestore.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	server := httptest.NewServer(New(store, store, testTokens).Routes())
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, server *httptest.Server, accountID string) *storeclient.Client {
	t.Helper()
	var creds storeclient.CredentialsProvider
	if accountID != "" {
		signed, err := token.Issue(accountID, testTokens)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		creds = storeclient.StaticCredentials(signed)
	}
	return storeclient.New(server.URL+"/api/v1", creds)
}

func TestFetchMineCreatesDefaultProfile(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newClient(t, server, "acct-default")

	profile, err := client.FetchMine(context.Background())
	if err != nil {
		t.Fatalf("fetch mine: %v", err)
	}
	if profile.ID == "" {
		t.Fatal("expected store-assigned profile id")
	}
	if profile.Slug == "" {
		t.Fatal("expected generated slug")
	}
	if profile.DisplayName != "Your Name" {
		t.Fatalf("display name = %q", profile.DisplayName)
	}
	if profile.OwnerAccountID != "acct-default" {
		t.Fatalf("owner = %q", profile.OwnerAccountID)
	}

	again, err := client.FetchMine(context.Background())
	if err != nil {
		t.Fatalf("fetch mine again: %v", err)
	}
	if again.ID != profile.ID {
		t.Fatalf("second fetch created a new profile: %q vs %q", again.ID, profile.ID)
	}
}

func TestSaveThenFetchBySlugPreservesBlocks(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newClient(t, server, "acct-save")

	profile, err := client.FetchMine(context.Background())
	if err != nil {
		t.Fatalf("fetch mine: %v", err)
	}

	profile.DisplayName = "Ada Lovelace"
	profile.Theme = card.Theme{Layout: card.LayoutMinimal, PrimaryColor: "#3b82f6"}
	profile.Blocks = []card.Block{
		{ID: card.NewLocalBlockID(), Type: card.BlockLink, Enabled: true,
			Payload: card.LinkPayload{Label: "Site", URL: "https://ada.example"}},
		{ID: card.NewLocalBlockID(), Type: card.BlockText, Enabled: false,
			Payload: card.TextPayload{Text: "Notes on the engine"}},
		{ID: card.NewLocalBlockID(), Type: card.BlockGallery, Enabled: true,
			Payload: card.GalleryPayload{Images: []string{"https://img.example/a.png", "https://img.example/b.png"}}},
	}

	saved, err := client.Save(context.Background(), profile)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(saved.Blocks) != 3 {
		t.Fatalf("saved blocks = %d, want 3", len(saved.Blocks))
	}
	for i, block := range saved.Blocks {
		if block.ID.IsLocal() || block.ID.IsZero() {
			t.Fatalf("block %d has no store-assigned id: %v", i, block.ID)
		}
	}

	fetched, err := client.FetchBySlug(context.Background(), profile.Slug)
	if err != nil {
		t.Fatalf("fetch by slug: %v", err)
	}
	if fetched.DisplayName != "Ada Lovelace" {
		t.Fatalf("display name = %q", fetched.DisplayName)
	}
	if fetched.Theme.Layout != card.LayoutMinimal || fetched.Theme.PrimaryColor != "#3b82f6" {
		t.Fatalf("theme = %+v", fetched.Theme)
	}
	wantTypes := []card.BlockType{card.BlockLink, card.BlockText, card.BlockGallery}
	if len(fetched.Blocks) != len(wantTypes) {
		t.Fatalf("fetched blocks = %d, want %d", len(fetched.Blocks), len(wantTypes))
	}
	for i, want := range wantTypes {
		if fetched.Blocks[i].Type != want {
			t.Fatalf("block %d type = %q, want %q", i, fetched.Blocks[i].Type, want)
		}
	}
	link, ok := fetched.Blocks[0].Payload.(card.LinkPayload)
	if !ok || link.Label != "Site" || link.URL != "https://ada.example" {
		t.Fatalf("link payload = %+v", fetched.Blocks[0].Payload)
	}
	if fetched.Blocks[1].Enabled {
		t.Fatal("disabled flag lost on round trip")
	}
	gallery, ok := fetched.Blocks[2].Payload.(card.GalleryPayload)
	if !ok || len(gallery.Images) != 2 || gallery.Images[0] != "https://img.example/a.png" {
		t.Fatalf("gallery payload = %+v", fetched.Blocks[2].Payload)
	}
}

func TestSaveAssignsFreshBlockIDsEachTime(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newClient(t, server, "acct-ids")

	profile, err := client.FetchMine(context.Background())
	if err != nil {
		t.Fatalf("fetch mine: %v", err)
	}
	profile.Blocks = []card.Block{
		{ID: card.NewLocalBlockID(), Type: card.BlockText, Enabled: true,
			Payload: card.TextPayload{Text: "v1"}},
	}
	first, err := client.Save(context.Background(), profile)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := client.Save(context.Background(), first)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first.Blocks[0].ID == second.Blocks[0].ID {
		t.Fatal("expected a fresh block id on every save")
	}
}

func TestSaveOtherOwnersProfileIsNotFound(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	owner := newClient(t, server, "acct-owner")
	intruder := newClient(t, server, "acct-intruder")

	profile, err := owner.FetchMine(context.Background())
	if err != nil {
		t.Fatalf("fetch mine: %v", err)
	}

	_, err = intruder.Save(context.Background(), profile)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("cross-owner save error = %v, want not found", err)
	}
}

func TestFetchBySlugMissing(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newClient(t, server, "")

	_, err := client.FetchBySlug(context.Background(), "nobody")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("missing slug error = %v, want not found", err)
	}
}

func TestStatsRequireAuth(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newClient(t, server, "")

	_, err := client.FetchStats(context.Background())
	if apperrors.KindOf(err) != apperrors.KindUnauthorized {
		t.Fatalf("unauthenticated stats error = %v, want unauthorized", err)
	}
}

func TestTrackEventAndStats(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := newClient(t, server, "acct-stats")

	profile, err := client.FetchMine(context.Background())
	if err != nil {
		t.Fatalf("fetch mine: %v", err)
	}

	public := newClient(t, server, "")
	for _, kind := range []analytics.Kind{analytics.KindView, analytics.KindView, analytics.KindClick} {
		if err := public.TrackEvent(context.Background(), profile.ID, kind); err != nil {
			t.Fatalf("track %s: %v", kind, err)
		}
	}

	totals, err := client.FetchStats(context.Background())
	if err != nil {
		t.Fatalf("fetch stats: %v", err)
	}
	if totals.Views != 2 || totals.Clicks != 1 {
		t.Fatalf("totals = %+v", totals)
	}
}

func TestTrackEventRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	body := bytes.NewBufferString(`{"profileId":"prof-1","type":"HOVER"}`)
	resp, err := http.Post(server.URL+"/api/v1/analytics/track", "application/json", body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
