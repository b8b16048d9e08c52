package pricing

import (
	"context"
	"errors"
	"fmt"
)

// ErrRoundLimit is returned when the search exceeds the configured
// maximum number of rounds without converging.
var ErrRoundLimit = errors.New("optimizer round limit reached")

// DefaultMaxRounds bounds the search when no explicit limit is set.
// With integer prices and the no-progress rule every continuing round
// lowers the total by at least one minor unit, so the limit is a
// backstop rather than a tuning knob.
const DefaultMaxRounds = 1000

// PromotionSource yields the promotions applicable to a pool whose flat
// price is strictly below the given cap. Implementations may be shared
// between goroutines; each call is treated as a point-in-time snapshot.
type PromotionSource interface {
	PossiblePromotions(ctx context.Context, pool []Quantity, maxPrice Money) ([]Promotion, error)
}

// Result carries the outcome of an optimization run.
type Result struct {
	Remaining  []Quantity
	Promotions []Promotion
	Price      Money
	Rounds     int
}

// Optimizer drives a round-based greedy refinement over the promotion
// space. It is an approximation, not an exhaustive search: once a
// locally improving promotion is adopted there is no backtracking, so a
// globally cheaper combination can be missed.
type Optimizer struct {
	Source    PromotionSource
	MaxRounds int
}

// Run searches for a low-price combination of promotions covering the
// pool. Each round queries the source for promotions priced strictly
// below the current best total and satisfied by its remainder, then
// simulates each in turn, adopting any strictly cheaper outcome
// immediately. The search stops when the query set is empty or when a
// full round adopts nothing; the latter guards against promotions that
// pass the price-cap filter without ever lowering the total. A failed
// simulation discards that promotion and the round continues; a source
// failure aborts the run with no partial result.
func (o Optimizer) Run(ctx context.Context, pool []Quantity) (Result, error) {
	if o.Source == nil {
		return Result{}, errors.New("pricing: promotion source is required")
	}
	maxRounds := o.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	best := NewCandidate(nil, Coalesce(pool))
	for round := 1; ; round++ {
		if round > maxRounds {
			return Result{}, fmt.Errorf("%d rounds without convergence: %w", maxRounds, ErrRoundLimit)
		}
		possible, err := o.Source.PossiblePromotions(ctx, best.Remaining(), best.Price())
		if err != nil {
			return Result{}, fmt.Errorf("query promotions: %w", err)
		}
		if len(possible) == 0 {
			return o.result(best, round), nil
		}

		improved := false
		for _, promo := range possible {
			next, err := best.Simulate(promo)
			if err != nil {
				if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrNotEnoughItems) {
					continue
				}
				return Result{}, err
			}
			if next.Price() < best.Price() {
				best = next
				improved = true
			}
		}
		if !improved {
			return o.result(best, round), nil
		}
	}
}

func (o Optimizer) result(best Candidate, rounds int) Result {
	return Result{
		Remaining:  best.Remaining(),
		Promotions: best.Promotions(),
		Price:      best.Price(),
		Rounds:     rounds,
	}
}
