package pricing

import "fmt"

// Money represents a monetary value stored in minor units.
type Money = int64

// Product identifies a catalog entry. Identity is the code alone; the
// captured price is payload and never participates in matching, so an
// in-flight computation keeps whichever priced instance it captured even
// if the catalog price changes underneath it.
type Product struct {
	Code  string `json:"code"`
	Price Money  `json:"price"`
}

// Quantity pairs a product with an amount.
type Quantity struct {
	Product Product `json:"product"`
	Amount  int64   `json:"amount"`
}

// SameProduct reports whether both entries refer to the same product code.
func (q Quantity) SameProduct(other Quantity) bool {
	return q.Product.Code == other.Product.Code
}

// TotalPrice returns amount multiplied by the captured unit price.
func (q Quantity) TotalPrice() Money {
	return Money(q.Amount) * q.Product.Price
}

// PoolPrice sums the total price of every entry in the pool.
func PoolPrice(pool []Quantity) Money {
	var total Money
	for _, q := range pool {
		total += q.TotalPrice()
	}
	return total
}

// FormatMoney renders minor units as a decimal string, e.g. 3240 -> "32.40".
func FormatMoney(m Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}

func indexByCode(pool []Quantity, code string) int {
	for i := range pool {
		if pool[i].Product.Code == code {
			return i
		}
	}
	return -1
}
