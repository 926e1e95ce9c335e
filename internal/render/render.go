// Package render turns content blocks into HTML for the two rendering
// contexts: the interactive editor form and the public profile page. Both
// contexts dispatch over the same closed block-type set so editor preview and
// public output stay semantically consistent.
package render

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/tapfolio/tapfolio/internal/card"
)

// Context selects the rendering policy for a block.
type Context string

const (
	// ContextEdit renders every block, disabled or not, as form controls.
	ContextEdit Context = "edit"
	// ContextPublic renders only enabled blocks as display markup.
	ContextPublic Context = "public"
)

type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

var empty = componentFunc(func(context.Context, io.Writer) error { return nil })

// Blocks renders a block sequence in document order. In the public context
// disabled blocks are skipped entirely; the editor context shows everything.
func Blocks(blocks []card.Block, rc Context) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		for _, block := range blocks {
			if err := Block(block, rc).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Block renders one block for the given context. Unrecognized type tags
// render as nothing publicly and as an unlabeled placeholder in the editor;
// they are never an error since the closed set is enforced at creation time.
func Block(block card.Block, rc Context) templ.Component {
	if rc == ContextPublic {
		if !block.Enabled {
			return empty
		}
		return publicBlock(block)
	}
	return editBlock(block)
}

func publicBlock(block card.Block) templ.Component {
	switch payload := block.Payload.(type) {
	case card.LinkPayload:
		return publicLink(block.Type, payload)
	case card.TextPayload:
		return componentFunc(func(_ context.Context, w io.Writer) error {
			_, err := fmt.Fprintf(w, `<div class="block block-text">%s</div>`, html.EscapeString(payload.Text))
			return err
		})
	case card.VideoPayload:
		return publicVideo(payload)
	case card.GalleryPayload:
		return publicGallery(payload)
	default:
		return empty
	}
}

func publicLink(blockType card.BlockType, payload card.LinkPayload) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<a class="block block-%s" href="%s" target="_blank" rel="noopener noreferrer"><span>%s</span></a>`,
			html.EscapeString(string(blockType)),
			html.EscapeString(string(templ.URL(payload.URL))),
			html.EscapeString(payload.Label),
		)
		return err
	})
}

func publicVideo(payload card.VideoPayload) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		embedURL, ok := VideoEmbedURL(payload.URL)
		if !ok {
			_, err := io.WriteString(w, `<div class="block block-video unsupported">Video provider not supported</div>`)
			return err
		}
		_, err := fmt.Fprintf(w,
			`<div class="block block-video"><iframe src="%s" title="Video" allowfullscreen></iframe></div>`,
			html.EscapeString(embedURL),
		)
		return err
	})
}

func publicGallery(payload card.GalleryPayload) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="block block-gallery">`); err != nil {
			return err
		}
		for i, image := range payload.Images {
			if _, err := fmt.Fprintf(w,
				`<img src="%s" alt="Gallery %d">`,
				html.EscapeString(string(templ.URL(image))), i,
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func editBlock(block card.Block) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div class="edit-block" data-block-id="%s"><span class="badge">%s</span>`,
			html.EscapeString(block.ID.String()),
			html.EscapeString(string(block.Type)),
		); err != nil {
			return err
		}
		if err := editFields(w, block); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func editFields(w io.Writer, block card.Block) error {
	switch payload := block.Payload.(type) {
	case card.LinkPayload:
		if _, err := fmt.Fprintf(w,
			`<input type="text" name="label" value="%s" placeholder="Label (e.g. My Website)">`,
			html.EscapeString(payload.Label),
		); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<input type="text" name="url" value="%s" placeholder="URL (https://...)">`,
			html.EscapeString(payload.URL),
		)
		return err
	case card.TextPayload:
		_, err := fmt.Fprintf(w,
			`<textarea name="text" rows="3" placeholder="Enter your text...">%s</textarea>`,
			html.EscapeString(payload.Text),
		)
		return err
	case card.VideoPayload:
		_, err := fmt.Fprintf(w,
			`<input type="text" name="url" value="%s" placeholder="YouTube/Vimeo URL">`,
			html.EscapeString(payload.URL),
		)
		return err
	case card.GalleryPayload:
		if _, err := io.WriteString(w, `<textarea name="images" rows="2" placeholder="Image URLs (one per line)">`); err != nil {
			return err
		}
		for i, image := range payload.Images {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, html.EscapeString(image)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</textarea>`)
		return err
	default:
		_, err := io.WriteString(w, `<div class="edit-block-placeholder"></div>`)
		return err
	}
}
