package checkout

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/cart"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/identity"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/session"
)

// ProfileSource supplies the session identity and a fresh upstream copy of it.
type ProfileSource interface {
	Current(ctx context.Context, sid string) (identity.User, error)
	Fresh(ctx context.Context, u identity.User) (identity.User, error)
}

// CartSource supplies the server cart and clears it after a cart-path order.
type CartSource interface {
	Fetch(ctx context.Context, userID string) (cart.Cart, error)
	Clear(ctx context.Context, userID string) (cart.Cart, error)
}

// Service runs the checkout flow: profile gate, draft lifecycle, submission.
type Service struct {
	repo     Repository
	store    session.Store
	profiles ProfileSource
	carts    CartSource

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewService(repo Repository, store session.Store, profiles ProfileSource, carts CartSource) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		profiles: profiles,
		carts:    carts,
		inFlight: make(map[string]bool),
	}
}

// StartCart begins checkout from the cart. If the profile is incomplete the
// attempt is held as an intent and ErrProfileIncomplete comes back, so the
// caller can send the buyer to the profile form and Resume afterwards.
func (s *Service) StartCart(ctx context.Context, sid, userID string) (Draft, error) {
	user, err := s.profiles.Current(ctx, sid)
	if err != nil {
		return Draft{}, err
	}
	current, err := s.carts.Fetch(ctx, userID)
	if err != nil {
		return Draft{}, err
	}
	if len(current.Items) == 0 {
		return Draft{}, ErrEmptyCart
	}
	if !user.IsComplete() {
		if err := s.holdIntent(ctx, sid, Intent{Kind: IntentCart}); err != nil {
			return Draft{}, err
		}
		return Draft{}, ErrProfileIncomplete
	}
	draft, err := BuildFromCart(current, user)
	if err != nil {
		return Draft{}, err
	}
	return draft, s.saveDraft(ctx, sid, draft)
}

// StartBuyNow begins the fast single-product checkout. The variant must
// resolve before anything else happens, even when the profile gate would
// stop the flow anyway.
func (s *Service) StartBuyNow(ctx context.Context, sid string, product catalog.Product, selected map[string]string, quantity int) (Draft, error) {
	if quantity < 1 {
		return Draft{}, ErrInvalidQuantity
	}
	var variant *catalog.Variant
	if product.HasVariations {
		variant = catalog.ResolveVariant(product, selected)
		if variant == nil {
			return Draft{}, ErrVariantRequired
		}
	}

	user, err := s.profiles.Current(ctx, sid)
	if err != nil {
		return Draft{}, err
	}
	if !user.IsComplete() {
		held := Intent{Kind: IntentBuyNow, Product: &product, Combination: selected, Quantity: quantity}
		if err := s.holdIntent(ctx, sid, held); err != nil {
			return Draft{}, err
		}
		return Draft{}, ErrProfileIncomplete
	}

	draft, err := BuildFromBuyNow(product, variant, quantity, user)
	if err != nil {
		return Draft{}, err
	}
	return draft, s.saveDraft(ctx, sid, draft)
}

// Resume replays a held intent after the buyer finished their profile. The
// buyer never re-selects anything; the stored intent carries it all.
func (s *Service) Resume(ctx context.Context, sid, userID string) (Draft, error) {
	raw, err := s.store.Load(ctx, sid, session.FieldIntent)
	if err != nil {
		if err == session.ErrNotFound {
			return Draft{}, ErrNoPendingIntent
		}
		return Draft{}, err
	}
	var intent Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return Draft{}, err
	}

	user, err := s.profiles.Current(ctx, sid)
	if err != nil {
		return Draft{}, err
	}
	if !user.IsComplete() {
		return Draft{}, ErrProfileIncomplete
	}

	var draft Draft
	switch intent.Kind {
	case IntentBuyNow:
		if intent.Product == nil {
			return Draft{}, ErrNoPendingIntent
		}
		var variant *catalog.Variant
		if intent.Product.HasVariations {
			variant = catalog.ResolveVariant(*intent.Product, intent.Combination)
			if variant == nil {
				return Draft{}, ErrVariantRequired
			}
		}
		draft, err = BuildFromBuyNow(*intent.Product, variant, intent.Quantity, user)
	default:
		var current cart.Cart
		current, err = s.carts.Fetch(ctx, userID)
		if err != nil {
			return Draft{}, err
		}
		draft, err = BuildFromCart(current, user)
	}
	if err != nil {
		return Draft{}, err
	}

	if err := s.saveDraft(ctx, sid, draft); err != nil {
		return Draft{}, err
	}
	if err := s.store.Delete(ctx, sid, session.FieldIntent); err != nil {
		log.Printf("checkout: drop intent for session failed: %v", err)
	}
	return draft, nil
}

// Draft returns the draft currently being edited.
func (s *Service) Draft(ctx context.Context, sid string) (Draft, error) {
	return s.loadDraft(ctx, sid)
}

// SetQuantity edits a draft line during the summary step.
func (s *Service) SetQuantity(ctx context.Context, sid, productID string, quantity int) (Draft, error) {
	draft, err := s.loadDraft(ctx, sid)
	if err != nil {
		return Draft{}, err
	}
	if err := draft.SetQuantity(productID, quantity); err != nil {
		return draft, err
	}
	return draft, s.saveDraft(ctx, sid, draft)
}

// Submit places the order. The profile is re-fetched from upstream and
// gated again right before submission, so a profile gutted in another tab
// cannot slip through. Only one submission per draft may be in flight.
func (s *Service) Submit(ctx context.Context, sid, userID string) (Order, error) {
	draft, err := s.loadDraft(ctx, sid)
	if err != nil {
		return Order{}, err
	}

	if !s.acquire(draft.ID) {
		return Order{}, ErrSubmissionInFlight
	}
	defer s.release(draft.ID)

	fresh, err := s.profiles.Fresh(ctx, draft.User)
	if err != nil {
		return Order{}, err
	}
	if !fresh.IsComplete() {
		return Order{}, ErrProfileIncomplete
	}
	draft.User = fresh

	order, err := s.repo.Create(ctx, buildRequest(draft))
	if err != nil {
		// the draft stays; the buyer decides whether to retry
		return Order{}, err
	}

	if !draft.IsBuyNow {
		if _, err := s.carts.Clear(ctx, userID); err != nil {
			log.Printf("checkout: clear cart after order %s failed: %v", order.ID, err)
		}
	}
	if err := s.store.Delete(ctx, sid, session.FieldDraft); err != nil {
		log.Printf("checkout: drop draft after order %s failed: %v", order.ID, err)
	}
	if err := s.store.Delete(ctx, sid, session.FieldIntent); err != nil {
		log.Printf("checkout: drop intent after order %s failed: %v", order.ID, err)
	}
	return order, nil
}

// Orders lists the buyer's order history, newest first per the upstream.
func (s *Service) Orders(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ByCustomer(ctx, userID)
}

// Order fetches a single order.
func (s *Service) Order(ctx context.Context, orderID string) (Order, error) {
	return s.repo.Get(ctx, orderID)
}

// MarkViewed flags all of the buyer's orders as seen.
func (s *Service) MarkViewed(ctx context.Context, userID string) error {
	return s.repo.MarkViewed(ctx, userID)
}

func (s *Service) acquire(draftID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[draftID] {
		return false
	}
	s.inFlight[draftID] = true
	return true
}

func (s *Service) release(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, draftID)
}

func (s *Service) holdIntent(ctx context.Context, sid string, intent Intent) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, sid, session.FieldIntent, raw)
}

func (s *Service) saveDraft(ctx context.Context, sid string, draft Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, sid, session.FieldDraft, raw)
}

func (s *Service) loadDraft(ctx context.Context, sid string) (Draft, error) {
	raw, err := s.store.Load(ctx, sid, session.FieldDraft)
	if err != nil {
		if err == session.ErrNotFound {
			return Draft{}, ErrNoDraft
		}
		return Draft{}, err
	}
	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func buildRequest(d Draft) OrderRequest {
	return OrderRequest{
		UserID: d.User.ID,
		User: orderUser{
			Name:    d.User.Name,
			Phone:   d.User.Phone,
			Email:   d.User.Email,
			Address: d.User.Address,
		},
		Items:       d.Lines,
		TotalAmount: d.Subtotal(),
		Tax:         d.Tax(),
		GrandTotal:  d.Total(),
	}
}
