// Package cache stores rendered views keyed by their logical path and lets
// writers invalidate them.
package cache

import "context"

// Revalidator is the cache-invalidation signal. After Revalidate, the next
// read of path recomputes the view.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// ViewCache stores rendered views by path. Every Revalidate advances the
// path's generation, and a view rendered under an older generation is never
// stored.
type ViewCache interface {
	Revalidator

	// Get returns the cached view and true, or nil and false on a miss.
	Get(ctx context.Context, path string) ([]byte, bool, error)

	// Generation returns the current generation of path. Read it before
	// loading the data the view is rendered from.
	Generation(ctx context.Context, path string) (int64, error)

	// Set stores a view rendered under generation gen. It does nothing when
	// path has been revalidated since gen was read.
	Set(ctx context.Context, path string, gen int64, view []byte) error
}
