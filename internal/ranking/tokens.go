package ranking

import "github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"

// TokenSet is the set of facet tokens carried by one dress.
type TokenSet map[string]struct{}

// Has reports whether token is in the set.
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// TokensFor flattens every facet attribute of d into the shared token
// space. List attributes contribute one token per element, flags only
// contribute when true, and blank values contribute nothing. Price never
// produces a token.
func TokensFor(d catalog.Dress) TokenSet {
	set := make(TokenSet, 16)
	for _, key := range catalog.FacetKeys {
		for _, v := range d.FacetValues(key) {
			if t := Token(key, v); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	return set
}
