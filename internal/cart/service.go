package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/store-terminal/internal/catalog"
	"github.com/noah-isme/store-terminal/internal/events"
	"github.com/noah-isme/store-terminal/internal/obs"
	"github.com/noah-isme/store-terminal/internal/pricing"
)

// ErrUnknownCode indicates a scanned code that the catalog does not know.
var ErrUnknownCode = errors.New("cart: unknown product code")

// Service owns a single cart: an ordered slice of lines plus the
// catalog it scans against. One instance is shared by the terminal and
// the HTTP surface, so every operation takes the mutex.
type Service struct {
	mu      sync.Mutex
	lines   []Line
	catalog *catalog.Store
	opt     pricing.Optimizer
	log     zerolog.Logger

	// Bus is optional; a nil bus drops events.
	Bus *events.Bus
}

// NewService constructs a cart over the given catalog. maxRounds bounds
// a single optimizer run; zero selects the default.
func NewService(store *catalog.Store, maxRounds int, log zerolog.Logger) *Service {
	return &Service{
		catalog: store,
		opt:     pricing.Optimizer{Source: store, MaxRounds: maxRounds},
		log:     log,
	}
}

// PushProduct appends a product line.
func (s *Service) PushProduct(q pricing.Quantity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, NewProductLine(q))
}

// PushPromotion appends a promotion line.
func (s *Service) PushPromotion(p pricing.Promotion, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, NewPromotionLine(p, count))
}

// Scan resolves each rune of codes as a product code and appends one
// unit of it. Scanning stops at the first unknown code; lines already
// appended stay in the cart.
func (s *Service) Scan(codes string) error {
	for _, r := range codes {
		code := string(r)
		q, err := s.catalog.QuantityFor(code, 1)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownCode, code)
			}
			return err
		}
		s.PushProduct(q)
		if obs.ScannedCodesTotal != nil {
			obs.ScannedCodesTotal.Inc()
		}
	}
	if _, err := s.Bus.Emit(context.Background(), events.TopicCartScanned, map[string]any{"codes": codes}); err != nil {
		s.log.Warn().Err(err).Msg("emit scan event")
	}
	return nil
}

// Flatten returns the coalesced product pool the cart stands for.
// Promotion lines contribute their requirements, so flattening undoes a
// previous optimization and the pool is stable across repeated runs.
func (s *Service) Flatten() []pricing.Quantity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flattenLocked()
}

func (s *Service) flattenLocked() []pricing.Quantity {
	var pool []pricing.Quantity
	for _, line := range s.lines {
		pool = append(pool, line.Quantities()...)
	}
	return pricing.Coalesce(pool)
}

// Optimize flattens the cart, searches for the cheapest promotion
// assignment, and replaces every line with the outcome: one product
// line per remaining quantity and one promotion line per distinct
// promotion, counting repetitions. On error the cart is left untouched.
func (s *Service) Optimize(ctx context.Context) (pricing.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.flattenLocked()
	result, err := s.opt.Run(ctx, pool)
	if err != nil {
		if obs.OptimizeRunsTotal != nil {
			obs.OptimizeRunsTotal.WithLabelValues("error").Inc()
		}
		return pricing.Result{}, err
	}

	lines := make([]Line, 0, len(result.Remaining)+len(result.Promotions))
	for _, q := range result.Remaining {
		lines = append(lines, NewProductLine(q))
	}
	for _, group := range groupPromotions(result.Promotions) {
		lines = append(lines, NewPromotionLine(group.promotion, group.count))
	}
	s.lines = lines

	if obs.OptimizeRunsTotal != nil {
		obs.OptimizeRunsTotal.WithLabelValues("ok").Inc()
	}
	if obs.OptimizerRounds != nil {
		obs.OptimizerRounds.Observe(float64(result.Rounds))
	}
	s.log.Debug().
		Int("rounds", result.Rounds).
		Int("promotions", len(result.Promotions)).
		Int64("price", result.Price).
		Msg("cart optimized")
	if _, err := s.Bus.Emit(ctx, events.TopicCartOptimized, map[string]any{
		"total":  result.Price,
		"rounds": result.Rounds,
	}); err != nil {
		s.log.Warn().Err(err).Msg("emit optimize event")
	}
	return result, nil
}

type promotionGroup struct {
	promotion pricing.Promotion
	count     int64
}

// groupPromotions collapses repeated applications of the same promotion
// into a single counted group, preserving first-seen order.
func groupPromotions(promotions []pricing.Promotion) []promotionGroup {
	var groups []promotionGroup
	index := make(map[string]int)
	for _, p := range promotions {
		if i, ok := index[p.Code]; ok {
			groups[i].count++
			continue
		}
		index[p.Code] = len(groups)
		groups = append(groups, promotionGroup{promotion: p, count: 1})
	}
	return groups
}

// TotalPrice sums the charged totals of all lines.
func (s *Service) TotalPrice() pricing.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total pricing.Money
	for _, line := range s.lines {
		total += line.Total()
	}
	return total
}

// Items returns a snapshot of the current lines.
func (s *Service) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Reset empties the cart.
func (s *Service) Reset() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	if _, err := s.Bus.Emit(context.Background(), events.TopicCartReset, nil); err != nil {
		s.log.Warn().Err(err).Msg("emit reset event")
	}
}
