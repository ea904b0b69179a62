package catalog

import "context"

// Service orchestrates catalog reads and variant resolution.
type Service struct {
	repo  Repository
	cache CategoryCache
}

// NewService wires the catalog service. cache may be nil when no Redis is
// configured; categories are then fetched upstream every time.
func NewService(repo Repository, cache CategoryCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	products, err := s.repo.ByIDs(ctx, []string{id})
	if err != nil {
		return Product{}, err
	}
	if len(products) == 0 {
		return Product{}, ErrNotFound
	}
	return products[0], nil
}

func (s *Service) ByIDs(ctx context.Context, ids []string) ([]Product, error) {
	return s.repo.ByIDs(ctx, ids)
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return cached, nil
		}
	}
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, categories)
	}
	return categories, nil
}

// Highlighted fetches the highlighted set of every given seller and merges
// them into one deduplicated, first-seen-ordered list.
func (s *Service) Highlighted(ctx context.Context, sellerIDs []string) ([]Product, error) {
	lists := make([][]Product, 0, len(sellerIDs))
	for _, id := range sellerIDs {
		list, err := s.repo.HighlightedBySeller(ctx, id)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return MergeHighlighted(lists...), nil
}

// Resolve loads a product and matches the selected attribute options to a
// variant. A nil variant with a nil error means the selection is incomplete
// or invalid; callers must treat that as "no variant selected".
func (s *Service) Resolve(ctx context.Context, productID string, selected map[string]string) (Product, *Variant, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return Product{}, nil, err
	}
	return p, ResolveVariant(p, selected), nil
}
