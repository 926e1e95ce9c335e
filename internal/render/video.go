package render

import "strings"

// VideoEmbedURL resolves a provider embed URL for a video block URL.
// Only YouTube-shaped URLs are supported: the provider video identifier is
// taken from the v= query parameter when present, otherwise from the trailing
// path segment. Anything else reports false and callers render the
// unsupported-provider fallback.
func VideoEmbedURL(raw string) (string, bool) {
	videoID, ok := ExtractVideoID(raw)
	if !ok {
		return "", false
	}
	return "https://www.youtube.com/embed/" + videoID, true
}

// ExtractVideoID pulls the provider video identifier out of a URL.
func ExtractVideoID(raw string) (string, bool) {
	if !strings.Contains(raw, "youtube") && !strings.Contains(raw, "youtu.be") {
		return "", false
	}
	if _, after, found := strings.Cut(raw, "v="); found {
		if amp := strings.IndexByte(after, '&'); amp >= 0 {
			after = after[:amp]
		}
		if after != "" {
			return after, true
		}
	}
	trimmed := strings.TrimRight(raw, "/")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
