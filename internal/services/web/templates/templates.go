// Package templates builds the web service's HTML pages and HTMX fragments.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/tapfolio/tapfolio/internal/analytics"
	"github.com/tapfolio/tapfolio/internal/card"
	"github.com/tapfolio/tapfolio/internal/render"
)

// TODO: move these to .templ sources once templ generation is part of the build.
type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

const htmxScript = `<script src="https://unpkg.com/htmx.org@1.9.12"></script>`

// Page wraps a body fragment in the site scaffold.
func Page(title string, body templ.Component) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title>%s<link rel="stylesheet" href="/static/app.css"></head><body>`,
			html.EscapeString(title), htmxScript,
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// LoginForm renders the access token entry form.
func LoginForm() templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<main class="login"><h1>tapfolio</h1>`+
				`<form method="post" action="/login">`+
				`<label for="token">Access token</label>`+
				`<input type="password" id="token" name="token" autocomplete="off">`+
				`<button type="submit">Sign in</button>`+
				`</form></main>`)
		return err
	})
}

// EditorPage renders the full editor: profile fields, theme controls, the
// block list, and engagement stats.
func EditorPage(profile card.Profile, totals analytics.Totals) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<main class="editor"><header><h1>Edit your card</h1><a class="preview-link" href="/p/%s" target="_blank">View public page</a></header>`,
			html.EscapeString(profile.Slug),
		); err != nil {
			return err
		}
		if err := profileFields(profile).Render(ctx, w); err != nil {
			return err
		}
		if err := themeControls(profile.Theme).Render(ctx, w); err != nil {
			return err
		}
		if err := addBlockBar().Render(ctx, w); err != nil {
			return err
		}
		if err := BlocksFragment(profile.Blocks).Render(ctx, w); err != nil {
			return err
		}
		if err := PreviewFragment(profile, false).Render(ctx, w); err != nil {
			return err
		}
		if err := StatsFragment(totals).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w,
			`<form hx-post="/editor/save" hx-target="#blocks" hx-swap="outerHTML"><button class="save" type="submit">Save</button></form>`); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
}

func profileFields(profile card.Profile) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		fields := []struct {
			name        string
			label       string
			value       string
			placeholder string
		}{
			{"displayName", "Name", profile.DisplayName, "Your Name"},
			{"title", "Title", profile.Title, "Your Title"},
			{"company", "Company", profile.Company, "Company"},
			{"bio", "Bio", profile.Bio, "A short bio"},
			{"avatarUrl", "Avatar URL", profile.AvatarURL, "https://..."},
			{"coverUrl", "Cover URL", profile.CoverURL, "https://..."},
		}
		if _, err := io.WriteString(w,
			`<form class="profile-fields" hx-post="/editor/profile" hx-trigger="change" hx-swap="none">`); err != nil {
			return err
		}
		for _, field := range fields {
			if _, err := fmt.Fprintf(w,
				`<label>%s<input type="text" name="%s" value="%s" placeholder="%s"></label>`,
				html.EscapeString(field.label),
				field.name,
				html.EscapeString(field.value),
				html.EscapeString(field.placeholder),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</form>`)
		return err
	})
}

func themeControls(theme card.Theme) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<form class="theme-controls" hx-post="/editor/theme" hx-trigger="change" hx-swap="none"><select name="layout">`); err != nil {
			return err
		}
		for _, layout := range card.Layouts() {
			selected := ""
			if layout == theme.EffectiveLayout() {
				selected = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, layout, selected, layout); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</select><fieldset class="palette">`); err != nil {
			return err
		}
		for _, color := range card.AccentPalette() {
			checked := ""
			if color == theme.EffectiveColor() {
				checked = " checked"
			}
			if _, err := fmt.Fprintf(w,
				`<label class="swatch" style="background-color:%s"><input type="radio" name="color" value="%s"%s></label>`,
				html.EscapeString(color), html.EscapeString(color), checked,
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</fieldset></form>`)
		return err
	})
}

func addBlockBar() templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav class="add-block">`); err != nil {
			return err
		}
		for _, blockType := range card.BlockTypes() {
			if _, err := fmt.Fprintf(w,
				`<button hx-post="/editor/blocks" hx-vals='{"type":"%s"}' hx-target="#blocks" hx-swap="outerHTML">+ %s</button>`,
				blockType, blockType,
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</nav>`)
		return err
	})
}

// BlocksFragment renders the editable block list. Each block is a form that
// posts its field values back, plus toggle, move, and delete actions.
func BlocksFragment(blocks []card.Block) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="blocks" class="blocks">`); err != nil {
			return err
		}
		for _, block := range blocks {
			if err := blockForm(block).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func blockForm(block card.Block) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		blockID := html.EscapeString(block.ID.String())
		if _, err := fmt.Fprintf(w,
			`<form class="block-form" hx-post="/editor/blocks/%s" hx-target="#blocks" hx-swap="outerHTML">`,
			blockID,
		); err != nil {
			return err
		}
		if err := render.Block(block, render.ContextEdit).Render(ctx, w); err != nil {
			return err
		}
		toggleLabel := "Hide"
		if !block.Enabled {
			toggleLabel = "Show"
		}
		_, err := fmt.Fprintf(w,
			`<div class="block-actions">`+
				`<button type="submit">Apply</button>`+
				`<button hx-post="/editor/blocks/%[1]s/toggle" hx-target="#blocks" hx-swap="outerHTML">%[2]s</button>`+
				`<button hx-post="/editor/blocks/%[1]s/reorder" hx-vals='{"direction":"up"}' hx-target="#blocks" hx-swap="outerHTML">&uarr;</button>`+
				`<button hx-post="/editor/blocks/%[1]s/reorder" hx-vals='{"direction":"down"}' hx-target="#blocks" hx-swap="outerHTML">&darr;</button>`+
				`<button hx-post="/editor/blocks/%[1]s/delete" hx-target="#blocks" hx-swap="outerHTML">Delete</button>`+
				`</div></form>`,
			blockID, toggleLabel,
		)
		return err
	})
}

// PreviewFragment renders the live phone-frame preview: the public-context
// view of the current, possibly unsaved, document. With oob set the fragment
// swaps itself out of band so mutation responses refresh the preview too.
func PreviewFragment(profile card.Profile, oob bool) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		oobAttr := ""
		if oob {
			oobAttr = ` hx-swap-oob="true"`
		}
		if _, err := fmt.Fprintf(w,
			`<aside id="preview" class="preview layout-%s"%s><h2>%s</h2><p>%s</p>`,
			profile.Theme.EffectiveLayout(), oobAttr,
			html.EscapeString(profile.DisplayName),
			html.EscapeString(profile.Title),
		); err != nil {
			return err
		}
		if err := render.Blocks(profile.Blocks, render.ContextPublic).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</aside>`)
		return err
	})
}

// EditorUpdate is the response to every block mutation: the refreshed block
// list plus an out-of-band preview swap.
func EditorUpdate(profile card.Profile) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if err := BlocksFragment(profile.Blocks).Render(ctx, w); err != nil {
			return err
		}
		return PreviewFragment(profile, true).Render(ctx, w)
	})
}

// StatsFragment renders engagement totals with the derived click rate.
func StatsFragment(totals analytics.Totals) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<section id="stats" class="stats" hx-get="/editor/stats" hx-trigger="every 30s" hx-swap="outerHTML">`+
				`<span>Views: %d</span><span>Clicks: %d</span><span>CTR: %.1f%%</span></section>`,
			totals.Views, totals.Clicks, totals.CTRPercent(),
		)
		return err
	})
}

// PublicProfilePage renders the published card. The minimal layout drops the
// avatar; the contact button carries the profile's accent color.
func PublicProfilePage(profile card.Profile) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		layout := profile.Theme.EffectiveLayout()
		slug := html.EscapeString(profile.Slug)
		if _, err := fmt.Fprintf(w, `<main class="public layout-%s">`, layout); err != nil {
			return err
		}
		if profile.CoverURL != "" {
			if _, err := fmt.Fprintf(w, `<div class="cover"><img src="%s" alt=""></div>`,
				html.EscapeString(string(templ.URL(profile.CoverURL)))); err != nil {
				return err
			}
		}
		if profile.AvatarURL != "" && layout != card.LayoutMinimal {
			if _, err := fmt.Fprintf(w, `<img class="avatar" src="%s" alt="%s">`,
				html.EscapeString(string(templ.URL(profile.AvatarURL))),
				html.EscapeString(profile.DisplayName)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<h1>%s</h1><p class="headline">%s</p><p class="company">%s</p><p class="bio">%s</p>`,
			html.EscapeString(profile.DisplayName),
			html.EscapeString(profile.Title),
			html.EscapeString(profile.Company),
			html.EscapeString(profile.Bio),
		); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<a class="save-contact" style="background-color:%s" href="/p/%s/vcard">Save Contact</a>`,
			html.EscapeString(profile.Theme.EffectiveColor()), slug,
		); err != nil {
			return err
		}
		if err := render.Blocks(profile.Blocks, render.ContextPublic).Render(ctx, w); err != nil {
			return err
		}
		// Link taps are reported out of band so navigation is never delayed.
		_, err := fmt.Fprintf(w,
			`<script>document.querySelectorAll("a.block").forEach(function(el){el.addEventListener("click",function(){navigator.sendBeacon("/p/%s/click")})})</script></main>`,
			slug,
		)
		return err
	})
}

// NotFoundPage renders the terminal page for an unknown slug.
func NotFoundPage() templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<main class="not-found"><h1>Profile not found</h1><p>This card does not exist or is no longer published.</p></main>`)
		return err
	})
}
