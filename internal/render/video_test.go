package render

import "testing"

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123", true},
		{"https://www.youtube.com/watch?v=abc123&t=42s", "abc123", true},
		{"https://youtu.be/xyz789", "xyz789", true},
		{"https://youtu.be/xyz789/", "xyz789", true},
		{"https://vimeo.com/123", "", false},
		{"not a url", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		gotID, gotOK := ExtractVideoID(tc.url)
		if gotOK != tc.wantOK || gotID != tc.wantID {
			t.Fatalf("ExtractVideoID(%q) = %q, %v, want %q, %v", tc.url, gotID, gotOK, tc.wantID, tc.wantOK)
		}
	}
}

func TestVideoEmbedURL(t *testing.T) {
	embed, ok := VideoEmbedURL("https://www.youtube.com/watch?v=abc123")
	if !ok {
		t.Fatal("expected supported provider")
	}
	if embed != "https://www.youtube.com/embed/abc123" {
		t.Fatalf("embed = %q", embed)
	}

	if _, ok := VideoEmbedURL("https://vimeo.com/123"); ok {
		t.Fatal("expected unsupported provider")
	}
}
