package card

import (
	"strings"

	platformid "github.com/tapfolio/tapfolio/internal/platform/id"
)

const localIDPrefix = "local-"

// BlockID identifies a block in one of two disjoint spaces: transient
// client-side identifiers for blocks that have never been saved, and
// store-assigned identifiers for persisted blocks. Transient identifiers
// never leave the client.
type BlockID struct {
	value string
	local bool
}

// NewLocalBlockID returns a fresh transient block identifier.
func NewLocalBlockID() BlockID {
	return BlockID{value: platformid.MustNewID(), local: true}
}

// StoreBlockID wraps a store-assigned identifier.
func StoreBlockID(value string) BlockID {
	return BlockID{value: strings.TrimSpace(value)}
}

// ParseBlockID reads an identifier previously produced by String.
func ParseBlockID(raw string) BlockID {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, localIDPrefix); ok {
		return BlockID{value: rest, local: true}
	}
	return BlockID{value: raw}
}

// IsZero reports whether the identifier is empty.
func (id BlockID) IsZero() bool {
	return id.value == ""
}

// IsLocal reports whether the identifier is transient (never persisted).
func (id BlockID) IsLocal() bool {
	return id.local
}

// StoreValue returns the store-assigned identifier value, or false for
// transient identifiers.
func (id BlockID) StoreValue() (string, bool) {
	if id.local || id.value == "" {
		return "", false
	}
	return id.value, true
}

// String renders the identifier for use in URLs and form fields. Transient
// identifiers carry a prefix so they survive a round-trip through ParseBlockID.
func (id BlockID) String() string {
	if id.local {
		return localIDPrefix + id.value
	}
	return id.value
}
