package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a promotion requirement
	// references a product code absent from the working pool.
	ErrProductNotFound = errors.New("product not found in pool")
	// ErrNotEnoughItems is returned when a requirement exceeds the
	// amount available in the working pool.
	ErrNotEnoughItems = errors.New("not enough items in pool")
)

// Promotion bundles a set of required quantities for a flat price.
// Immutable after construction; its requirements are canonical, with at
// most one entry per product code.
type Promotion struct {
	Code         string     `json:"code"`
	Requirements []Quantity `json:"requirements"`
	Price        Money      `json:"price"`
}

// NewPromotion constructs a promotion, coalescing the declared
// requirements into their canonical form.
func NewPromotion(code string, requirements []Quantity, price Money) Promotion {
	return Promotion{Code: code, Requirements: Coalesce(requirements), Price: price}
}

// IsSatisfiedBy reports whether every requirement is covered by the
// pool: a matching code must be present with an amount greater than or
// equal to the required amount. A promotion with no requirements is
// trivially satisfied.
func (p Promotion) IsSatisfiedBy(pool []Quantity) bool {
	for _, req := range p.Requirements {
		i := indexByCode(pool, req.Product.Code)
		if i < 0 || pool[i].Amount < req.Amount {
			return false
		}
	}
	return true
}

// Consume subtracts every requirement from a copy of the pool and
// returns the new pool with exact-zero entries removed, survivors
// keeping their relative order. The input pool is never mutated. The
// method re-validates on its own: a missing code fails with
// ErrProductNotFound, an insufficient amount with ErrNotEnoughItems.
func (p Promotion) Consume(pool []Quantity) ([]Quantity, error) {
	working := append([]Quantity(nil), pool...)
	for _, req := range p.Requirements {
		i := indexByCode(working, req.Product.Code)
		if i < 0 {
			return nil, fmt.Errorf("promotion %s requires %s: %w", p.Code, req.Product.Code, ErrProductNotFound)
		}
		if req.Amount > working[i].Amount {
			return nil, fmt.Errorf("promotion %s requires %d of %s: %w", p.Code, req.Amount, req.Product.Code, ErrNotEnoughItems)
		}
		working[i].Amount -= req.Amount
	}
	remaining := make([]Quantity, 0, len(working))
	for _, q := range working {
		if q.Amount > 0 {
			remaining = append(remaining, q)
		}
	}
	return remaining, nil
}
