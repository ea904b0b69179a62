package catalog

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

// Repository provides read access to the upstream catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ByIDs(ctx context.Context, ids []string) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	HighlightedBySeller(ctx context.Context, sellerID string) ([]Product, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and seeding local data.
type InMemoryRepository struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
}

func NewInMemoryRepository(seed []Product, categories []Category) *InMemoryRepository {
	r := &InMemoryRepository{categories: categories}
	r.products = append(r.products, seed...)
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *InMemoryRepository) ByIDs(ctx context.Context, ids []string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.products {
			if p.ProductID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Categories(ctx context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *InMemoryRepository) HighlightedBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Product
	for _, p := range r.products {
		if p.SellerID == sellerID && p.Highlighted {
			out = append(out, p)
		}
	}
	return out, nil
}
