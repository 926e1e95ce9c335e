// Package storage defines persistence contracts for profile store state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// Block stores one content block row. Data holds the type-specific payload
// as JSON; Position is the zero-based slot in display order.
type Block struct {
	ID       string
	Type     string
	Data     []byte
	Enabled  bool
	Position int
}

// Profile stores one owner-scoped profile document.
type Profile struct {
	ID             string
	OwnerAccountID string
	Slug           string
	DisplayName    string
	Title          string
	Company        string
	Bio            string
	AvatarURL      string
	CoverURL       string
	ThemeLayout    string
	ThemeColor     string
	Blocks         []Block
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Event stores one engagement event against a profile.
type Event struct {
	ProfileID string
	Kind      string
	CreatedAt time.Time
}

// ProfileStore persists profile documents and their block sequences.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile Profile) error
	GetProfileByID(ctx context.Context, id string) (Profile, error)
	GetProfileBySlug(ctx context.Context, slug string) (Profile, error)
	ListProfilesByOwner(ctx context.Context, ownerAccountID string) ([]Profile, error)
	// ReplaceProfile overwrites the stored document wholesale: envelope
	// fields and the full block sequence. Slug, owner, and creation time
	// are immutable and kept from the stored row.
	ReplaceProfile(ctx context.Context, profile Profile) (Profile, error)
}

// EventStore persists engagement events.
type EventStore interface {
	AppendEvent(ctx context.Context, event Event) error
	// TotalsByOwner returns event counts per kind across all profiles
	// owned by the account.
	TotalsByOwner(ctx context.Context, ownerAccountID string) (map[string]int64, error)
}
