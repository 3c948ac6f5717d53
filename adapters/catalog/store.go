package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/adewidar/storebot/domain"
	"github.com/adewidar/storebot/utils/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Store is an in-memory domain.Catalog. Reload builds a complete snapshot
// off to the side and publishes it with a single pointer swap, so readers
// never observe a half-written catalog. A failed reload leaves the previous
// snapshot in place.
type Store struct {
	snapshot *atomic.Pointer[snapshot]
	client   *http.Client
}

type snapshot struct {
	products []domain.Product
}

func NewStore() *Store {
	return &Store{
		snapshot: atomic.NewPointer(&snapshot{}),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// All returns the current products in insertion order of the last load.
func (s *Store) All() []domain.Product {
	return s.snapshot.Load().products
}

// Reload replaces the catalog from a CSV file path or http(s) URL and
// returns the number of products loaded.
func (s *Store) Reload(ctx context.Context, source string) (int, error) {
	rc, err := openSource(ctx, s.client, source)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	products, err := parseCSV(rc)
	if err != nil {
		return 0, err
	}

	s.snapshot.Store(&snapshot{products: products})
	log.WithCtx(ctx).Info("catalog reloaded",
		zap.String("source", source),
		zap.Int("product_count", len(products)))
	return len(products), nil
}
