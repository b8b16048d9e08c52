package pricing

// Coalesce merges entries that share a product code, summing their
// amounts, and returns a pool with at most one entry per code. The input
// is walked from its end toward its start, so when a code repeats the
// surviving entry carries the price captured by the last occurrence in
// the input. The input slice is never modified. Output order is
// unspecified; callers must not rely on it.
func Coalesce(entries []Quantity) []Quantity {
	result := make([]Quantity, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if j := indexByCode(result, entry.Product.Code); j >= 0 {
			result[j].Amount += entry.Amount
			continue
		}
		result = append(result, entry)
	}
	return result
}
