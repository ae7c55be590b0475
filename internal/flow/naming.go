package flow

import (
	"strings"
	"unicode"
)

const (
	// MarketingSuffix is appended to every listing folder name on Drive.
	MarketingSuffix = " #SADEEVIM"
	// DefaultRoomType is the canonical room layout. Listings with this room
	// count go directly under the root folder; anything else gets a room-type
	// subfolder first.
	DefaultRoomType = "3 + 1"
)

// ListingTitle derives the canonical listing title from neighborhood, street,
// and room count. Neighborhood and street are stripped to letters, digits and
// spaces; the room count is kept verbatim.
func ListingTitle(neighborhood, street, roomCount string) string {
	return sanitizeComponent(neighborhood) + "-" + sanitizeComponent(street) + "-" + roomCount
}

// FolderName is the Drive folder name for a listing: the title plus the
// marketing suffix.
func FolderName(neighborhood, street, roomCount string) string {
	return ListingTitle(neighborhood, street, roomCount) + MarketingSuffix
}

// IsDefaultRoomType reports whether the room count names the canonical
// layout, ignoring case and surrounding whitespace.
func IsDefaultRoomType(roomCount string) bool {
	return strings.EqualFold(strings.TrimSpace(roomCount), DefaultRoomType)
}

// TitleFromDisplay derives a best-effort listing title from the display text
// the user echoed back during deletion: drop the "(id: ...)" suffix, keep the
// last path segment, and strip the marketing suffix. Ambiguous titles that
// differ only by suffix remain a known limitation.
func TitleFromDisplay(display string) string {
	s := display
	if i := strings.Index(s, " (id:"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.ReplaceAll(s, MarketingSuffix, "")
	return strings.TrimSpace(s)
}

func sanitizeComponent(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
