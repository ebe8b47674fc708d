package order

// TotalAmount sums quantity × unit price over the submitted line items, using
// the per-line price captured at cart time rather than a fresh catalog read.
// An empty slice yields zero.
func TotalAmount(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}
