// Package storeclient maps profile documents to and from the profile store's
// HTTP wire representation and performs the save/fetch round-trips.
package storeclient

import (
	"time"

	"github.com/tapfolio/tapfolio/internal/card"
)

// WireBlock is the serialized form of one content block. Saved blocks carry
// no identifier field at all: the store assigns and retains identifiers
// server-side, and transient client identifiers must never reach it.
type WireBlock struct {
	ID        string        `json:"id,omitempty"`
	Type      string        `json:"type"`
	Data      WireBlockData `json:"data"`
	IsEnabled bool          `json:"isEnabled"`
}

// WireBlockData is the union of every block payload shape. The type tag
// determines which fields are meaningful.
type WireBlockData struct {
	Label  string   `json:"label,omitempty"`
	URL    string   `json:"url,omitempty"`
	Text   string   `json:"text,omitempty"`
	Images []string `json:"images,omitempty"`
}

// WireTheme is the serialized rendering policy.
type WireTheme struct {
	Layout       string `json:"layout"`
	PrimaryColor string `json:"primaryColor"`
}

// WireProfile is the serialized profile envelope. ID, owner, and timestamps
// are store-managed: they appear in responses and are dropped on save.
type WireProfile struct {
	ID             string      `json:"id,omitempty"`
	Slug           string      `json:"slug,omitempty"`
	DisplayName    string      `json:"displayName"`
	Title          string      `json:"title"`
	Company        string      `json:"company"`
	Bio            string      `json:"bio"`
	AvatarURL      string      `json:"avatarUrl"`
	CoverURL       string      `json:"coverUrl"`
	Theme          WireTheme   `json:"theme"`
	Components     []WireBlock `json:"components"`
	OwnerAccountID string      `json:"ownerAccountId,omitempty"`
	CreatedAt      int64       `json:"createdAt,omitempty"`
	UpdatedAt      int64       `json:"updatedAt,omitempty"`
}

// ToWire serializes a profile for a save: the envelope loses its identifier,
// owner reference, and timestamps, and every block loses its identifier.
// Applying ToWire to the result of FromWire(ToWire(p)) yields the same wire
// payload.
func ToWire(profile card.Profile) WireProfile {
	components := make([]WireBlock, 0, len(profile.Blocks))
	for _, block := range profile.Blocks {
		components = append(components, WireBlock{
			Type:      string(block.Type),
			Data:      payloadToWire(block.Payload),
			IsEnabled: block.Enabled,
		})
	}
	return WireProfile{
		Slug:        profile.Slug,
		DisplayName: profile.DisplayName,
		Title:       profile.Title,
		Company:     profile.Company,
		Bio:         profile.Bio,
		AvatarURL:   profile.AvatarURL,
		CoverURL:    profile.CoverURL,
		Theme: WireTheme{
			Layout:       string(profile.Theme.Layout),
			PrimaryColor: profile.Theme.PrimaryColor,
		},
		Components: components,
	}
}

// FromWire hydrates a profile from a store response. The store always
// assigns block identifiers, but a block arriving without one gets a
// synthesized transient identifier rather than failing.
func FromWire(payload WireProfile) card.Profile {
	blocks := make([]card.Block, 0, len(payload.Components))
	for _, wb := range payload.Components {
		blockID := card.StoreBlockID(wb.ID)
		if blockID.IsZero() {
			blockID = card.NewLocalBlockID()
		}
		blocks = append(blocks, card.Block{
			ID:      blockID,
			Type:    card.BlockType(wb.Type),
			Enabled: wb.IsEnabled,
			Payload: payloadFromWire(card.BlockType(wb.Type), wb.Data),
		})
	}
	profile := card.Profile{
		ID:             payload.ID,
		Slug:           payload.Slug,
		DisplayName:    payload.DisplayName,
		Title:          payload.Title,
		Company:        payload.Company,
		Bio:            payload.Bio,
		AvatarURL:      payload.AvatarURL,
		CoverURL:       payload.CoverURL,
		Theme:          card.Theme{Layout: card.Layout(payload.Theme.Layout), PrimaryColor: payload.Theme.PrimaryColor},
		Blocks:         blocks,
		OwnerAccountID: payload.OwnerAccountID,
	}
	if payload.CreatedAt > 0 {
		profile.CreatedAt = time.UnixMilli(payload.CreatedAt).UTC()
	}
	if payload.UpdatedAt > 0 {
		profile.UpdatedAt = time.UnixMilli(payload.UpdatedAt).UTC()
	}
	return profile
}

func payloadToWire(payload card.Payload) WireBlockData {
	switch p := payload.(type) {
	case card.LinkPayload:
		return WireBlockData{Label: p.Label, URL: p.URL}
	case card.TextPayload:
		return WireBlockData{Text: p.Text}
	case card.VideoPayload:
		return WireBlockData{URL: p.URL}
	case card.GalleryPayload:
		images := make([]string, len(p.Images))
		copy(images, p.Images)
		return WireBlockData{Images: images}
	default:
		return WireBlockData{}
	}
}

func payloadFromWire(t card.BlockType, data WireBlockData) card.Payload {
	switch t {
	case card.BlockLink, card.BlockSocial:
		return card.LinkPayload{Label: data.Label, URL: data.URL}
	case card.BlockText:
		return card.TextPayload{Text: data.Text}
	case card.BlockVideo:
		return card.VideoPayload{URL: data.URL}
	case card.BlockGallery:
		images := make([]string, len(data.Images))
		copy(images, data.Images)
		return card.GalleryPayload{Images: images}
	default:
		// Unknown tags are tolerated here; the dispatcher renders them as
		// nothing publicly and as a placeholder in the editor.
		return nil
	}
}
