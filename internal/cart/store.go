package cart

import (
	"context"
	"sync"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/pricing"
)

// Store is the session-side cart: a read replica of the server cart plus
// the validation rules that keep bad mutations off the wire.
//
// Every mutation takes a per-user sequence token before calling upstream and
// only applies the response if no later-issued mutation has landed first, so
// a slow response can never overwrite a newer one.
type Store struct {
	repo Repository

	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
	carts   map[string]Cart
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo:    repo,
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
		carts:   make(map[string]Cart),
	}
}

func (s *Store) begin(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[userID]++
	return s.issued[userID]
}

// apply installs a response snapshot unless a later mutation already did.
// Returns the snapshot now in effect.
func (s *Store) apply(userID string, token uint64, c Cart) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token < s.applied[userID] {
		// out-of-order response; keep the newer state
		return s.carts[userID]
	}
	s.applied[userID] = token
	c = normalize(c)
	s.carts[userID] = c
	return c
}

// Snapshot returns the local replica without touching the network.
func (s *Store) Snapshot(userID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		return c
	}
	return normalize(Cart{})
}

// ItemCount is derived from the last server-confirmed snapshot, never from
// local arithmetic.
func (s *Store) ItemCount(userID string) int {
	return s.Snapshot(userID).ItemCount()
}

// Fetch refreshes the replica from the server. Without a session the cart
// is locally empty and no call is made.
func (s *Store) Fetch(ctx context.Context, userID string) (Cart, error) {
	if userID == "" {
		return normalize(Cart{}), nil
	}
	token := s.begin(userID)
	c, err := s.repo.Fetch(ctx, userID)
	if err != nil {
		return s.Snapshot(userID), err
	}
	return s.apply(userID, token, c), nil
}

// Add puts a product in the cart. Variable products must arrive with a
// resolved variant; passing none is a caller bug, not something to guess
// around.
func (s *Store) Add(ctx context.Context, userID string, product catalog.Product, quantity int, variant *catalog.Variant) (Cart, error) {
	if userID == "" {
		return s.Snapshot(userID), ErrNotLoggedIn
	}
	if quantity < 1 {
		return s.Snapshot(userID), ErrInvalidQuantity
	}

	item := Item{Product: product, Quantity: quantity}
	if product.HasVariations {
		if variant == nil {
			return s.Snapshot(userID), ErrVariantRequired
		}
		if variant.Stock != catalog.StockIn {
			return s.Snapshot(userID), ErrOutOfStock
		}
		if !variant.PriceTag().Priced() {
			return s.Snapshot(userID), ErrUnpriced
		}
		item.Price = variant.Price
		item.DiscountedPrice = variant.DiscountedPrice
		item.Variant = &VariantSnapshot{
			Combination:   variant.Combination,
			Price:         pricing.EffectiveUnit(variant.PriceTag()),
			OriginalPrice: variant.Price,
			Stock:         variant.Stock,
		}
	} else {
		if product.StockStatus != catalog.StockIn {
			return s.Snapshot(userID), ErrOutOfStock
		}
		if !product.PriceTag().Priced() {
			return s.Snapshot(userID), ErrUnpriced
		}
		item.Price = product.Price
		item.DiscountedPrice = product.DiscountedPrice
	}

	token := s.begin(userID)
	c, err := s.repo.Add(ctx, userID, item)
	if err != nil {
		return s.Snapshot(userID), err
	}
	return s.apply(userID, token, c), nil
}

// UpdateQuantity changes a line's quantity. Quantities below 1 are rejected
// outright; removal is a separate, explicit operation.
func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (Cart, error) {
	if userID == "" {
		return s.Snapshot(userID), ErrNotLoggedIn
	}
	if quantity < 1 {
		return s.Snapshot(userID), ErrInvalidQuantity
	}
	token := s.begin(userID)
	c, err := s.repo.UpdateQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return s.Snapshot(userID), err
	}
	return s.apply(userID, token, c), nil
}

// Remove deletes a line from the cart.
func (s *Store) Remove(ctx context.Context, userID, productID string) (Cart, error) {
	if userID == "" {
		return s.Snapshot(userID), ErrNotLoggedIn
	}
	token := s.begin(userID)
	c, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return s.Snapshot(userID), err
	}
	return s.apply(userID, token, c), nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context, userID string) (Cart, error) {
	if userID == "" {
		return s.Snapshot(userID), ErrNotLoggedIn
	}
	token := s.begin(userID)
	c, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return s.Snapshot(userID), err
	}
	return s.apply(userID, token, c), nil
}
