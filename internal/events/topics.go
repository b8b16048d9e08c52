package events

// Topic constants for domain events emitted by the terminal.
const (
	TopicCartScanned      = "cart.scanned"
	TopicCartOptimized    = "cart.optimized"
	TopicCartReset        = "cart.reset"
	TopicCatalogProduct   = "catalog.product_upserted"
	TopicCatalogPromotion = "catalog.promotion_upserted"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicCartScanned,
		TopicCartOptimized,
		TopicCartReset,
		TopicCatalogProduct,
		TopicCatalogPromotion,
	}
}
