// Package static embeds the web service's static assets.
package static

import "embed"

// FS contains the embedded static assets served under /static/.
//
//go:embed app.css
var FS embed.FS
