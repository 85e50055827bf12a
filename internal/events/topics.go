package events

const (
	TopicProductPurchased = "store.product_purchased"
	TopicProductRefunded  = "store.product_refunded"
)
