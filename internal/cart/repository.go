package cart

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotLoggedIn     = errors.New("please log in")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrVariantRequired = errors.New("no variant selected")
	ErrUnpriced        = errors.New("product has no valid price")
	ErrOutOfStock      = errors.New("item is out of stock")
)

// Repository mutates the server-side cart. Every call returns the cart as
// the server now sees it; callers must not do their own arithmetic on top.
type Repository interface {
	Fetch(ctx context.Context, userID string) (Cart, error)
	Add(ctx context.Context, userID string, item Item) (Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (Cart, error)
	Remove(ctx context.Context, userID, productID string) (Cart, error)
	Clear(ctx context.Context, userID string) (Cart, error)
}

// FakeRepository is an in-memory cart backend for tests. BeforeReply, when
// set, runs before each mutation returns; tests use it to stall one call and
// let another overtake it.
type FakeRepository struct {
	mu          sync.Mutex
	carts       map[string][]Item
	FailWith    error
	BeforeReply func(op string)
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{carts: make(map[string][]Item)}
}

func (f *FakeRepository) hook(op string) {
	if f.BeforeReply != nil {
		f.BeforeReply(op)
	}
}

func (f *FakeRepository) snapshot(userID string) Cart {
	items := make([]Item, len(f.carts[userID]))
	copy(items, f.carts[userID])
	return normalize(Cart{Items: items})
}

func (f *FakeRepository) Fetch(ctx context.Context, userID string) (Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(userID), nil
}

func (f *FakeRepository) Add(ctx context.Context, userID string, item Item) (Cart, error) {
	f.hook("add")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return Cart{}, f.FailWith
	}
	items := f.carts[userID]
	merged := false
	for i := range items {
		if items[i].Product.ProductID == item.Product.ProductID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}
	f.carts[userID] = items
	return f.snapshot(userID), nil
}

func (f *FakeRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (Cart, error) {
	f.hook("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return Cart{}, f.FailWith
	}
	for i := range f.carts[userID] {
		if f.carts[userID][i].Product.ProductID == productID {
			f.carts[userID][i].Quantity = quantity
		}
	}
	return f.snapshot(userID), nil
}

func (f *FakeRepository) Remove(ctx context.Context, userID, productID string) (Cart, error) {
	f.hook("remove")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return Cart{}, f.FailWith
	}
	items := f.carts[userID]
	for i := range items {
		if items[i].Product.ProductID == productID {
			f.carts[userID] = append(items[:i], items[i+1:]...)
			break
		}
	}
	return f.snapshot(userID), nil
}

func (f *FakeRepository) Clear(ctx context.Context, userID string) (Cart, error) {
	f.hook("clear")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return Cart{}, f.FailWith
	}
	delete(f.carts, userID)
	return f.snapshot(userID), nil
}
