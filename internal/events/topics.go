package events

// Topic constants for domain events emitted by the shop.
const (
	TopicBasketOpened = "basket.opened"
	TopicOrderPlaced  = "order.placed"
	TopicOrderRemoved = "order.removed"
)

// DefaultTopics returns the canonical list of topics.
func DefaultTopics() []string {
	return []string{
		TopicBasketOpened,
		TopicOrderPlaced,
		TopicOrderRemoved,
	}
}
