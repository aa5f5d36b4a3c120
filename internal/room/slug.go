package room

import "strings"

// Slugify normalises a room identifier: lowercase, anything outside
// [a-z0-9-] becomes a dash.
func Slugify(id string) string {
	id = strings.ToLower(id)
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
