package card

import "time"

// Profile is the top-level aggregate: identity metadata, media references,
// a theme, and the ordered block sequence. Document order is display order.
type Profile struct {
	// ID is the store-assigned profile identifier; empty until persisted.
	ID string
	// Slug is the stable public identifier, immutable after creation.
	Slug string

	DisplayName string
	Title       string
	Company     string
	Bio         string
	AvatarURL   string
	CoverURL    string

	Theme  Theme
	Blocks []Block

	// OwnerAccountID, CreatedAt, and UpdatedAt are store-managed and never
	// serialized back by the client.
	OwnerAccountID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy so readers cannot mutate the document's state.
func (p Profile) Clone() Profile {
	blocks := make([]Block, len(p.Blocks))
	for i, b := range p.Blocks {
		blocks[i] = b.clone()
	}
	p.Blocks = blocks
	return p
}
