package publicprofile

import (
	"strings"

	"github.com/tapfolio/tapfolio/internal/card"
)

// BuildVCard renders a version 3.0 vCard for the profile. Enabled link
// blocks become URL entries.
func BuildVCard(profile card.Profile) string {
	var sb strings.Builder
	writeLine := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		sb.WriteString(name)
		sb.WriteString(":")
		sb.WriteString(escapeVCardValue(value))
		sb.WriteString("\r\n")
	}

	sb.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	writeLine("FN", profile.DisplayName)
	writeLine("TITLE", profile.Title)
	writeLine("ORG", profile.Company)
	writeLine("NOTE", profile.Bio)
	writeLine("PHOTO;VALUE=URI", profile.AvatarURL)
	for _, block := range profile.Blocks {
		if !block.Enabled {
			continue
		}
		if link, ok := block.Payload.(card.LinkPayload); ok {
			writeLine("URL", link.URL)
		}
	}
	sb.WriteString("END:VCARD\r\n")
	return sb.String()
}

func escapeVCardValue(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return replacer.Replace(value)
}
