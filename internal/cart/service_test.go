package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/noah-isme/store-terminal/internal/catalog"
	"github.com/noah-isme/store-terminal/internal/events"
	"github.com/noah-isme/store-terminal/internal/pricing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := catalog.NewStore()
	if err := store.SeedDefault(); err != nil {
		t.Fatalf("seed default: %v", err)
	}
	return NewService(store, 0, zerolog.Nop())
}

func countLines(lines []Line) (products, promotions int) {
	for _, line := range lines {
		switch line.(type) {
		case ProductLine:
			products++
		case PromotionLine:
			promotions++
		}
	}
	return
}

func TestOptimizeAppliesBundle(t *testing.T) {
	s := newTestService(t)
	if err := s.Scan("AAAABBCD"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	result, err := s.Optimize(context.Background())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.Price != 3240 {
		t.Fatalf("expected total 3240, got %d", result.Price)
	}
	if len(result.Promotions) != 1 || result.Promotions[0].Code != "PA" {
		t.Fatalf("expected PA applied, got %v", result.Promotions)
	}
	if got := s.TotalPrice(); got != 3240 {
		t.Fatalf("cart total %d does not match result price", got)
	}
	products, promotions := countLines(s.Items())
	if products != 3 || promotions != 1 {
		t.Fatalf("expected 3 product lines and 1 promotion line, got %d/%d", products, promotions)
	}
}

func TestOptimizeRemainderBeyondBundle(t *testing.T) {
	s := newTestService(t)
	if err := s.Scan("CCCCCCC"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	result, err := s.Optimize(context.Background())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.Price != 725 {
		t.Fatalf("expected total 725, got %d", result.Price)
	}
	if len(result.Promotions) != 1 || result.Promotions[0].Code != "PC" {
		t.Fatalf("expected PC applied, got %v", result.Promotions)
	}
	if len(result.Remaining) != 1 || result.Remaining[0].Amount != 1 {
		t.Fatalf("expected one leftover C, got %v", result.Remaining)
	}
}

func TestOptimizeNoApplicablePromotion(t *testing.T) {
	s := newTestService(t)
	if err := s.Scan("ABCD"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	result, err := s.Optimize(context.Background())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.Price != 1540 {
		t.Fatalf("expected total 1540, got %d", result.Price)
	}
	if len(result.Promotions) != 0 {
		t.Fatalf("expected no promotions, got %v", result.Promotions)
	}
}

func TestOptimizeIsIdempotent(t *testing.T) {
	s := newTestService(t)
	if err := s.Scan("AAAABBCD"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	first, err := s.Optimize(context.Background())
	if err != nil {
		t.Fatalf("first optimize: %v", err)
	}
	second, err := s.Optimize(context.Background())
	if err != nil {
		t.Fatalf("second optimize: %v", err)
	}
	if first.Price != second.Price {
		t.Fatalf("price drifted across runs: %d vs %d", first.Price, second.Price)
	}
	if got := s.TotalPrice(); got != first.Price {
		t.Fatalf("cart total %d drifted from %d", got, first.Price)
	}
}

func TestOptimizeGroupsRepeatedPromotions(t *testing.T) {
	s := newTestService(t)
	if err := s.Scan("AAAAAAAA"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	result, err := s.Optimize(context.Background())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.Price != 1400 {
		t.Fatalf("expected total 1400, got %d", result.Price)
	}
	lines := s.Items()
	products, promotions := countLines(lines)
	if products != 0 || promotions != 1 {
		t.Fatalf("expected a single counted promotion line, got %d/%d", products, promotions)
	}
	promo := lines[0].(PromotionLine)
	if promo.Count != 2 {
		t.Fatalf("expected count 2, got %d", promo.Count)
	}
	// Flattening returns both bundles' products to the pool.
	pool := s.Flatten()
	if len(pool) != 1 || pool[0].Amount != 8 {
		t.Fatalf("expected flattened pool A:8, got %v", pool)
	}
}

func TestScanUnknownCode(t *testing.T) {
	s := newTestService(t)
	err := s.Scan("AZ")
	if !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
	// The A scanned before the failure stays.
	if len(s.Items()) != 1 {
		t.Fatalf("expected one surviving line, got %d", len(s.Items()))
	}
}

func TestFlattenCoalescesProductLines(t *testing.T) {
	s := newTestService(t)
	s.PushProduct(pricing.Quantity{Product: pricing.Product{Code: "A", Price: 200}, Amount: 2})
	s.PushProduct(pricing.Quantity{Product: pricing.Product{Code: "A", Price: 200}, Amount: 3})
	pool := s.Flatten()
	if len(pool) != 1 || pool[0].Amount != 5 {
		t.Fatalf("expected coalesced A:5, got %v", pool)
	}
}

func TestPromotionLineAccounting(t *testing.T) {
	reqs := []pricing.Quantity{{Product: pricing.Product{Code: "A", Price: 200}, Amount: 4}}
	line := NewPromotionLine(pricing.NewPromotion("PA", reqs, 700), 2)
	if line.Subtotal() != 1600 {
		t.Fatalf("expected subtotal 1600, got %d", line.Subtotal())
	}
	if line.Total() != 1400 {
		t.Fatalf("expected total 1400, got %d", line.Total())
	}
	if line.Discount() != 200 {
		t.Fatalf("expected discount 200, got %d", line.Discount())
	}
	qs := line.Quantities()
	if len(qs) != 1 || qs[0].Amount != 8 {
		t.Fatalf("expected scaled quantities A:8, got %v", qs)
	}
}

func TestEventsEmitted(t *testing.T) {
	s := newTestService(t)
	var topics []string
	s.Bus = &events.Bus{Notifiers: []events.Notifier{
		events.NotifierFunc(func(_ context.Context, ev events.Event) error {
			topics = append(topics, ev.Topic)
			return nil
		}),
	}}

	if err := s.Scan("A"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := s.Optimize(context.Background()); err != nil {
		t.Fatalf("optimize: %v", err)
	}
	s.Reset()

	want := []string{events.TopicCartScanned, events.TopicCartOptimized, events.TopicCartReset}
	if len(topics) != len(want) {
		t.Fatalf("expected %v, got %v", want, topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, topics)
		}
	}
}

func TestReset(t *testing.T) {
	s := newTestService(t)
	if err := s.Scan("AB"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	s.Reset()
	if len(s.Items()) != 0 || s.TotalPrice() != 0 {
		t.Fatal("expected empty cart after reset")
	}
}
