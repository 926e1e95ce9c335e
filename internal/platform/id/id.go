// Package id generates the identifiers tapfolio hands out: profile and
// block identifiers plus the short public slugs that end up on cards.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Slugs are short enough to read off a card; uniqueness is enforced by the
// store's slug index, not by the generator.
const slugLength = 10

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a fresh identifier: 16 random bytes encoded as unpadded
// lowercase base32, 26 characters, safe in URLs and paths.
func NewID() (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("new id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(raw[:])), nil
}

// MustNewID returns a fresh identifier and panics on entropy failure.
// Entropy exhaustion is not a recoverable condition for callers.
func MustNewID() string {
	value, err := NewID()
	if err != nil {
		panic(err)
	}
	return value
}

// NewSlug returns a short identifier for public profile URLs.
func NewSlug() string {
	return MustNewID()[:slugLength]
}
