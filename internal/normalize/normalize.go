// Package normalize provides the canonical form for author display names.
package normalize

import (
	"strings"

	"golang.org/x/text/width"
)

// Name returns the canonical form of an author display name.
// Characters fold to their canonical width, so full-width ASCII variants
// become their half-width counterparts and the ideographic space becomes
// a plain space. Surrounding whitespace is trimmed. The same name
// rendered in either width therefore maps to a single key.
//
// Name is pure and idempotent. It never rejects input; an empty string
// normalizes to itself.
func Name(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(width.Fold.String(s))
}
