package chat

import "strings"

var escaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// sanitize trims surrounding whitespace and escapes markup-significant
// characters. Basic XSS prevention, applied to user-supplied text before
// validation.
func sanitize(s string) string {
	return escaper.Replace(strings.TrimSpace(s))
}
