package seller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
)

var ErrNotFound = errors.New("product not found")

// Repository is the upstream product management API, scoped to the seller
// side of the catalog.
type Repository interface {
	Create(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Update(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Delete(ctx context.Context, productID string) error
	BySeller(ctx context.Context, sellerID string) ([]catalog.Product, error)
}

// FakeRepository is the in-memory test double.
type FakeRepository struct {
	mu       sync.Mutex
	seq      int
	products map[string]catalog.Product

	// FailWith makes every call fail with the given error.
	FailWith error
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{products: make(map[string]catalog.Product)}
}

func (r *FakeRepository) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return catalog.Product{}, r.FailWith
	}
	r.seq++
	p.ProductID = fmt.Sprintf("prod-%d", r.seq)
	r.products[p.ProductID] = p
	return p, nil
}

func (r *FakeRepository) Update(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return catalog.Product{}, r.FailWith
	}
	if _, ok := r.products[p.ProductID]; !ok {
		return catalog.Product{}, ErrNotFound
	}
	r.products[p.ProductID] = p
	return p, nil
}

func (r *FakeRepository) Delete(ctx context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	if _, ok := r.products[productID]; !ok {
		return ErrNotFound
	}
	delete(r.products, productID)
	return nil
}

func (r *FakeRepository) BySeller(ctx context.Context, sellerID string) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	var out []catalog.Product
	for i := 1; i <= r.seq; i++ {
		id := fmt.Sprintf("prod-%d", i)
		if p, ok := r.products[id]; ok && p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}
