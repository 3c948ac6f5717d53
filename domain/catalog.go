package domain

import (
	"context"
	"errors"
)

// ErrMissingProductColumn is returned by catalog loads when the source has
// no identifying column at all; the load fails and the prior catalog stays.
var ErrMissingProductColumn = errors.New("required column 'Product' not found")

// Product is one catalog entry, keyed by name as provided by the source.
type Product struct {
	Name        string
	Price       string
	Currency    string
	Description string
}

// Catalog abstracts the product store. All returns a snapshot in insertion
// order of the last load; Reload replaces the whole mapping atomically, so a
// concurrent reader sees either the old or the new catalog, never a mix.
type Catalog interface {
	All() []Product
	Reload(ctx context.Context, source string) (int, error)
}
