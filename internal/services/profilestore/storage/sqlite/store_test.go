package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tapfolio/tapfolio/internal/services/profilestore/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "profilestore.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCreateGetProfileRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)
	input := storage.Profile{
		ID:             "prof-1",
		OwnerAccountID: "acct-1",
		Slug:           "ada",
		DisplayName:    "Ada Lovelace",
		Title:          "Analyst",
		Company:        "Analytical Engines",
		Bio:            "First programmer",
		ThemeLayout:    "classic",
		ThemeColor:     "#c6ff00",
		Blocks: []storage.Block{
			{ID: "blk-1", Type: "link", Data: []byte(`{"label":"Site","url":"https://ada.example"}`), Enabled: true},
			{ID: "blk-2", Type: "text", Data: []byte(`{"text":"Hello"}`), Enabled: false},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateProfile(context.Background(), input); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	got, err := store.GetProfileByID(context.Background(), "prof-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Slug != "ada" {
		t.Fatalf("slug = %q, want %q", got.Slug, "ada")
	}
	if got.DisplayName != input.DisplayName {
		t.Fatalf("display_name = %q, want %q", got.DisplayName, input.DisplayName)
	}
	if len(got.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(got.Blocks))
	}
	if got.Blocks[0].ID != "blk-1" || got.Blocks[1].ID != "blk-2" {
		t.Fatalf("block order = %q, %q", got.Blocks[0].ID, got.Blocks[1].ID)
	}
	if !got.Blocks[0].Enabled || got.Blocks[1].Enabled {
		t.Fatal("enabled flags not preserved")
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, now)
	}
}

func TestGetProfileBySlug(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	input := storage.Profile{ID: "prof-slug", OwnerAccountID: "acct-1", Slug: "grace"}
	if err := store.CreateProfile(context.Background(), input); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	got, err := store.GetProfileBySlug(context.Background(), "grace")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.ID != "prof-slug" {
		t.Fatalf("id = %q, want %q", got.ID, "prof-slug")
	}

	if _, err := store.GetProfileBySlug(context.Background(), "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing slug error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCreateProfileDuplicateSlug(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	first := storage.Profile{ID: "prof-a", OwnerAccountID: "acct-1", Slug: "shared"}
	if err := store.CreateProfile(context.Background(), first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	second := storage.Profile{ID: "prof-b", OwnerAccountID: "acct-2", Slug: "shared"}
	err := store.CreateProfile(context.Background(), second)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate slug error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestReplaceProfileOverwritesBlocksKeepsSlug(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	input := storage.Profile{
		ID:             "prof-r",
		OwnerAccountID: "acct-1",
		Slug:           "keep-me",
		DisplayName:    "Before",
		Blocks: []storage.Block{
			{ID: "old-1", Type: "link", Data: []byte(`{"label":"Old","url":"https://old.example"}`), Enabled: true},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := store.CreateProfile(context.Background(), input); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	replacement := storage.Profile{
		ID:          "prof-r",
		Slug:        "attempted-rename",
		DisplayName: "After",
		ThemeLayout: "minimal",
		Blocks: []storage.Block{
			{ID: "new-1", Type: "text", Data: []byte(`{"text":"Fresh"}`), Enabled: true},
			{ID: "new-2", Type: "gallery", Data: []byte(`{"images":["https://img.example/a.png"]}`), Enabled: true},
		},
	}
	got, err := store.ReplaceProfile(context.Background(), replacement)
	if err != nil {
		t.Fatalf("replace profile: %v", err)
	}
	if got.Slug != "keep-me" {
		t.Fatalf("slug = %q, want immutable %q", got.Slug, "keep-me")
	}
	if got.OwnerAccountID != "acct-1" {
		t.Fatalf("owner = %q, want %q", got.OwnerAccountID, "acct-1")
	}
	if got.DisplayName != "After" {
		t.Fatalf("display_name = %q, want %q", got.DisplayName, "After")
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if len(got.Blocks) != 2 || got.Blocks[0].ID != "new-1" || got.Blocks[1].ID != "new-2" {
		t.Fatalf("blocks not replaced: %+v", got.Blocks)
	}
}

func TestReplaceProfileMissing(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.ReplaceProfile(context.Background(), storage.Profile{ID: "ghost"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("replace missing error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListProfilesByOwner(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"prof-1", "prof-2"} {
		input := storage.Profile{
			ID:             id,
			OwnerAccountID: "acct-list",
			Slug:           id + "-slug",
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.CreateProfile(context.Background(), input); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	other := storage.Profile{ID: "prof-x", OwnerAccountID: "acct-other", Slug: "x-slug"}
	if err := store.CreateProfile(context.Background(), other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	profiles, err := store.ListProfilesByOwner(context.Background(), "acct-list")
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(profiles))
	}
	if profiles[0].ID != "prof-1" || profiles[1].ID != "prof-2" {
		t.Fatalf("order = %q, %q", profiles[0].ID, profiles[1].ID)
	}
}

func TestEventTotalsByOwner(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	profile := storage.Profile{ID: "prof-ev", OwnerAccountID: "acct-ev", Slug: "ev-slug"}
	if err := store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	for _, kind := range []string{"VIEW", "VIEW", "VIEW", "CLICK"} {
		event := storage.Event{ProfileID: "prof-ev", Kind: kind}
		if err := store.AppendEvent(context.Background(), event); err != nil {
			t.Fatalf("append %s: %v", kind, err)
		}
	}
	stray := storage.Event{ProfileID: "prof-unknown", Kind: "VIEW"}
	if err := store.AppendEvent(context.Background(), stray); err != nil {
		t.Fatalf("append stray: %v", err)
	}

	totals, err := store.TotalsByOwner(context.Background(), "acct-ev")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals["VIEW"] != 3 || totals["CLICK"] != 1 {
		t.Fatalf("totals = %+v", totals)
	}
}
