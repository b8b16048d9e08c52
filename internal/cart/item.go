package cart

import (
	"github.com/google/uuid"

	"github.com/noah-isme/store-terminal/internal/pricing"
)

// Line is one cart entry. Product and promotion lines share the same
// surface so rendering and totalling never branch on the concrete type:
// Quantities reports the product amounts the line stands for, Subtotal
// the undiscounted price of those amounts, and Total what is actually
// charged.
type Line interface {
	ID() uuid.UUID
	Quantities() []pricing.Quantity
	Subtotal() pricing.Money
	Total() pricing.Money
	Discount() pricing.Money
}

// ProductLine charges a quantity of a single product at its captured
// unit price.
type ProductLine struct {
	id       uuid.UUID
	Quantity pricing.Quantity
}

// NewProductLine constructs a product line.
func NewProductLine(q pricing.Quantity) ProductLine {
	return ProductLine{id: uuid.New(), Quantity: q}
}

func (l ProductLine) ID() uuid.UUID { return l.id }

func (l ProductLine) Quantities() []pricing.Quantity {
	return []pricing.Quantity{l.Quantity}
}

func (l ProductLine) Subtotal() pricing.Money { return l.Quantity.TotalPrice() }

func (l ProductLine) Total() pricing.Money { return l.Quantity.TotalPrice() }

func (l ProductLine) Discount() pricing.Money { return 0 }

// PromotionLine charges a bundle at its flat price, Count times. Its
// quantities are the bundle requirements scaled by Count, so flattening
// a cart returns the promotion's products to the pool.
type PromotionLine struct {
	id        uuid.UUID
	Promotion pricing.Promotion
	Count     int64
}

// NewPromotionLine constructs a promotion line covering count
// applications of the bundle.
func NewPromotionLine(p pricing.Promotion, count int64) PromotionLine {
	return PromotionLine{id: uuid.New(), Promotion: p, Count: count}
}

func (l PromotionLine) ID() uuid.UUID { return l.id }

func (l PromotionLine) Quantities() []pricing.Quantity {
	out := make([]pricing.Quantity, len(l.Promotion.Requirements))
	for i, q := range l.Promotion.Requirements {
		out[i] = pricing.Quantity{Product: q.Product, Amount: q.Amount * l.Count}
	}
	return out
}

func (l PromotionLine) Subtotal() pricing.Money {
	return pricing.PoolPrice(l.Promotion.Requirements) * pricing.Money(l.Count)
}

func (l PromotionLine) Total() pricing.Money {
	return l.Promotion.Price * pricing.Money(l.Count)
}

func (l PromotionLine) Discount() pricing.Money {
	return l.Subtotal() - l.Total()
}
