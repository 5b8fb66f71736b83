// Package ranking turns a user's ordered facet priorities into a total order
// over the dress catalog. Category priority always dominates value priority:
// an item matching a higher-priority category outranks any item that only
// matches lower-priority categories, however many of those it matches.
package ranking

import "strings"

// Normalize canonicalises a category name or facet value. The empty string
// means "no usable value" and must never be used as a token component.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Token builds the "<category>:<value>" matching key. It returns "" when
// either side normalises to empty.
func Token(category, value string) string {
	c := Normalize(category)
	v := Normalize(value)
	if c == "" || v == "" {
		return ""
	}
	return c + ":" + v
}

// splitToken is the inverse of Token. Values may themselves contain ':'.
func splitToken(token string) (category, value string) {
	category, value, _ = strings.Cut(token, ":")
	return category, value
}
