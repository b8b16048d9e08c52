package pricing

// Candidate is a provisional optimizer solution: the promotions chosen
// so far, the unconsumed remainder of the pool, and the total price
// derived from both. Candidates are immutable; every transition builds
// a new one, so the price can never drift from the underlying lists.
type Candidate struct {
	promotions []Promotion
	remaining  []Quantity
	price      Money
}

// NewCandidate derives the candidate price as the sum of the chosen
// promotion prices plus the total price of the remaining quantities.
// Construction is the only place the price is computed.
func NewCandidate(promotions []Promotion, remaining []Quantity) Candidate {
	var price Money
	for _, p := range promotions {
		price += p.Price
	}
	price += PoolPrice(remaining)
	return Candidate{promotions: promotions, remaining: remaining, price: price}
}

// Price returns the derived total price.
func (c Candidate) Price() Money { return c.price }

// Promotions returns a copy of the chosen promotions.
func (c Candidate) Promotions() []Promotion {
	return append([]Promotion(nil), c.promotions...)
}

// Remaining returns a copy of the unconsumed quantities.
func (c Candidate) Remaining() []Quantity {
	return append([]Quantity(nil), c.remaining...)
}

// Simulate returns a new candidate representing this one with the given
// promotion additionally applied: the promotion's requirements are
// consumed from the remainder and the promotion joins the chosen list.
// The receiver is not mutated; a consume failure propagates unchanged.
func (c Candidate) Simulate(p Promotion) (Candidate, error) {
	remaining, err := p.Consume(c.remaining)
	if err != nil {
		return Candidate{}, err
	}
	promotions := make([]Promotion, 0, len(c.promotions)+1)
	promotions = append(promotions, c.promotions...)
	promotions = append(promotions, p)
	return NewCandidate(promotions, remaining), nil
}
