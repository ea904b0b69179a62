package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository is the upstream order API.
type Repository interface {
	Create(ctx context.Context, req OrderRequest) (Order, error)
	Get(ctx context.Context, orderID string) (Order, error)
	ByCustomer(ctx context.Context, userID string) ([]Order, error)
	MarkViewed(ctx context.Context, userID string) error
}

// FakeRepository is the in-memory test double.
type FakeRepository struct {
	mu     sync.Mutex
	seq    int
	orders map[string]Order
	byUser map[string][]string

	// FailWith makes Create fail with the given error.
	FailWith error
	// BeforeCreate runs inside Create before the order is stored, with the
	// request it is about to store.
	BeforeCreate func(req OrderRequest)
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		orders: make(map[string]Order),
		byUser: make(map[string][]string),
	}
}

func (r *FakeRepository) Create(ctx context.Context, req OrderRequest) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.BeforeCreate != nil {
		r.BeforeCreate(req)
	}
	if r.FailWith != nil {
		return Order{}, r.FailWith
	}
	r.seq++
	o := Order{
		ID:          fmt.Sprintf("order-%d", r.seq),
		Status:      "placed",
		Items:       req.Items,
		TotalAmount: req.TotalAmount,
		Tax:         req.Tax,
		GrandTotal:  req.GrandTotal,
	}
	r.orders[o.ID] = o
	r.byUser[req.UserID] = append(r.byUser[req.UserID], o.ID)
	return o, nil
}

func (r *FakeRepository) Get(ctx context.Context, orderID string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (r *FakeRepository) ByCustomer(ctx context.Context, userID string) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, id := range r.byUser[userID] {
		out = append(out, r.orders[id])
	}
	return out, nil
}

func (r *FakeRepository) MarkViewed(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byUser[userID] {
		o := r.orders[id]
		o.Viewed = true
		r.orders[id] = o
	}
	return nil
}

// Count reports how many orders were created, for duplicate-submission tests.
func (r *FakeRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}
