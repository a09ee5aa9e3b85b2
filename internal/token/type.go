package token

import "philcali.me/recipesync/internal/store"

// TokenMarshaler turns the last evaluated key of a page into an opaque
// continuation token bound to a scope, and back.
type TokenMarshaler interface {
	Marshal(scope string, lastKey store.Item) ([]byte, error)

	Unmarshal(scope string, token []byte) (store.Item, error)
}
