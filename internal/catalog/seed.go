package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/noah-isme/store-terminal/internal/pricing"
)

// Seed describes a catalog seed document. Promotion items reference
// product codes and are resolved against the products declared in the
// same document (or already present in the store).
type Seed struct {
	Products   []SeedProduct   `json:"products"`
	Promotions []SeedPromotion `json:"promotions"`
}

// SeedProduct declares a product row in a seed document.
type SeedProduct struct {
	Code  string        `json:"code"`
	Price pricing.Money `json:"price"`
}

// SeedPromotion declares a promotion row in a seed document.
type SeedPromotion struct {
	Code  string        `json:"code"`
	Price pricing.Money `json:"price"`
	Items []SeedItem    `json:"items"`
}

// SeedItem references a required product amount by code.
type SeedItem struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

// LoadSeedFile reads and decodes a JSON seed document.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed file: %w", err)
	}
	return seed, nil
}

// ApplySeed upserts the seed's products first, then its promotions,
// resolving requirement codes to priced quantities. An item referencing
// an unknown product code fails the whole apply.
func (s *Store) ApplySeed(seed Seed) error {
	for _, p := range seed.Products {
		s.UpsertProduct(pricing.Product{Code: p.Code, Price: p.Price})
	}
	for _, promo := range seed.Promotions {
		requirements := make([]pricing.Quantity, 0, len(promo.Items))
		for _, item := range promo.Items {
			q, err := s.QuantityFor(item.Code, item.Amount)
			if err != nil {
				return fmt.Errorf("promotion %s: %w", promo.Code, err)
			}
			requirements = append(requirements, q)
		}
		s.UpsertPromotion(pricing.NewPromotion(promo.Code, requirements, promo.Price))
	}
	return nil
}

// SeedDefault loads the built-in reference catalog: four products and
// the PA/PC bundle promotions.
func (s *Store) SeedDefault() error {
	return s.ApplySeed(Seed{
		Products: []SeedProduct{
			{Code: "A", Price: 200},
			{Code: "B", Price: 1200},
			{Code: "C", Price: 125},
			{Code: "D", Price: 15},
		},
		Promotions: []SeedPromotion{
			{Code: "PA", Price: 700, Items: []SeedItem{{Code: "A", Amount: 4}}},
			{Code: "PC", Price: 600, Items: []SeedItem{{Code: "C", Amount: 6}}},
		},
	})
}
