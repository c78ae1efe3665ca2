package application

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
)

// PubSubService publishes the events of the marketplace to the registered
// webhooks.
type PubSubService interface {
	SecurePubSub() ports.SecurePubSub

	AddWebhook(ctx context.Context, topic, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, topic string) ([]pubsub.Webhook, error)

	PublishItemCreatedTopic(item domain.Item) error
	PublishItemSoldTopic(item domain.Item, distribution domain.Distribution) error
	PublishItemCancelledTopic(item domain.Item) error
	PublishItemExpiredTopic(item domain.Item) error
	PublishBidPlacedTopic(
		item domain.Item, bid domain.Bid, refunded *domain.HighestBid,
	) error
	PublishSwapCreatedTopic(swap domain.Swap) error
	PublishSwapApprovedTopic(swap domain.Swap) error
	PublishSwapCancelledTopic(swap domain.Swap, caller string) error
	PublishCollectionUpdatedTopic(collection domain.Collection) error
	PublishFeePolicyUpdatedTopic(policy domain.FeePolicy) error

	Close()
}

// NewPubSubService returns a service publishing through the given
// SecurePubSub. A nil one disables the publication of events.
func NewPubSubService(secure ports.SecurePubSub) PubSubService {
	return pubsub.NewService(secure)
}
