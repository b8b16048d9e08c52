package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/noah-isme/store-terminal/internal/pricing"
)

// ErrProductNotFound indicates the requested product code is unknown.
var ErrProductNotFound = errors.New("catalog: product not found")

// ErrPromotionNotFound indicates the requested promotion code is unknown.
var ErrPromotionNotFound = errors.New("catalog: promotion not found")

// Store is an in-memory catalog of products and promotions keyed by
// code. Reads and writes are serialized with a RWMutex; lookups return
// copies, so callers capture a point-in-time instance and later price
// changes never leak into in-flight computations.
type Store struct {
	mu         sync.RWMutex
	products   map[string]pricing.Product
	promotions map[string]pricing.Promotion
}

// NewStore constructs an empty catalog.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]pricing.Product),
		promotions: make(map[string]pricing.Promotion),
	}
}

// UpsertProduct inserts or replaces a product by code.
func (s *Store) UpsertProduct(p pricing.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.Code] = p
}

// UpsertPromotion inserts or replaces a promotion by code.
func (s *Store) UpsertPromotion(p pricing.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotions[p.Code] = p
}

// Product returns the product registered under code.
func (s *Store) Product(code string) (pricing.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[code]
	if !ok {
		return pricing.Product{}, fmt.Errorf("%s: %w", code, ErrProductNotFound)
	}
	return p, nil
}

// Promotion returns the promotion registered under code.
func (s *Store) Promotion(code string) (pricing.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.promotions[code]
	if !ok {
		return pricing.Promotion{}, fmt.Errorf("%s: %w", code, ErrPromotionNotFound)
	}
	return p, nil
}

// Products lists all products sorted by code.
func (s *Store) Products() []pricing.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pricing.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Promotions lists all promotions sorted by code.
func (s *Store) Promotions() []pricing.Promotion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pricing.Promotion, 0, len(s.promotions))
	for _, p := range s.promotions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// QuantityFor resolves a product code to a priced quantity entry.
func (s *Store) QuantityFor(code string, amount int64) (pricing.Quantity, error) {
	product, err := s.Product(code)
	if err != nil {
		return pricing.Quantity{}, err
	}
	return pricing.Quantity{Product: product, Amount: amount}, nil
}

// PossiblePromotions returns every promotion whose flat price is
// strictly below maxPrice and whose requirements are covered by the
// pool. Iteration order is the map's, i.e. unspecified. The result is a
// snapshot; the store is not locked across an optimizer run.
func (s *Store) PossiblePromotions(ctx context.Context, pool []pricing.Quantity, maxPrice pricing.Money) ([]pricing.Promotion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []pricing.Promotion
	for _, p := range s.promotions {
		if p.Price < maxPrice && p.IsSatisfiedBy(pool) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Reset removes every product and promotion.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]pricing.Product)
	s.promotions = make(map[string]pricing.Promotion)
}
