// Package card models a profile card as an ordered document of typed content
// blocks and centralizes every mutation applied during an editing session.
package card

import "fmt"

// BlockType tags one of the closed set of content block variants.
type BlockType string

const (
	BlockLink    BlockType = "link"
	BlockSocial  BlockType = "social"
	BlockText    BlockType = "text"
	BlockVideo   BlockType = "video"
	BlockGallery BlockType = "gallery"
)

// BlockTypes lists the closed set in the order the editor offers them.
func BlockTypes() []BlockType {
	return []BlockType{BlockLink, BlockSocial, BlockText, BlockVideo, BlockGallery}
}

// Valid reports whether the type tag belongs to the closed set.
func (t BlockType) Valid() bool {
	switch t {
	case BlockLink, BlockSocial, BlockText, BlockVideo, BlockGallery:
		return true
	}
	return false
}

// ErrInvalidBlockType signals an unknown type tag at block construction time.
// The editor only offers the closed set, so this is a programming error.
var ErrInvalidBlockType = fmt.Errorf("invalid block type")

// ErrPayloadMismatch signals a payload whose shape does not match the block's
// type tag.
var ErrPayloadMismatch = fmt.Errorf("payload does not match block type")

// Payload carries the variant-specific content of a block. The interface is
// sealed: the set of payload shapes is closed alongside the type tags.
type Payload interface {
	clone() Payload
	matches(t BlockType) bool
}

// LinkPayload is the content of link and social blocks.
type LinkPayload struct {
	Label string
	URL   string
}

func (p LinkPayload) clone() Payload { return p }

func (p LinkPayload) matches(t BlockType) bool {
	return t == BlockLink || t == BlockSocial
}

// TextPayload is the content of text blocks.
type TextPayload struct {
	Text string
}

func (p TextPayload) clone() Payload { return p }

func (p TextPayload) matches(t BlockType) bool { return t == BlockText }

// VideoPayload is the content of video blocks. The URL is expected to
// reference a known video provider but is stored as-is either way.
type VideoPayload struct {
	URL string
}

func (p VideoPayload) clone() Payload { return p }

func (p VideoPayload) matches(t BlockType) bool { return t == BlockVideo }

// GalleryPayload is the content of gallery blocks: image references in
// display order.
type GalleryPayload struct {
	Images []string
}

func (p GalleryPayload) clone() Payload {
	images := make([]string, len(p.Images))
	copy(images, p.Images)
	return GalleryPayload{Images: images}
}

func (p GalleryPayload) matches(t BlockType) bool { return t == BlockGallery }

// Block is one typed content entry in a profile document.
type Block struct {
	ID      BlockID
	Type    BlockType
	Enabled bool
	Payload Payload
}

func (b Block) clone() Block {
	if b.Payload != nil {
		b.Payload = b.Payload.clone()
	}
	return b
}

// DefaultPayload returns the starter payload for a freshly added block.
func DefaultPayload(t BlockType) (Payload, error) {
	switch t {
	case BlockLink, BlockSocial:
		return LinkPayload{Label: "New Link", URL: "https://"}, nil
	case BlockText:
		return TextPayload{Text: "Enter text here"}, nil
	case BlockVideo:
		return VideoPayload{URL: "https://youtube.com/..."}, nil
	case BlockGallery:
		return GalleryPayload{Images: []string{
			"https://via.placeholder.com/150",
			"https://via.placeholder.com/150",
		}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBlockType, t)
	}
}
