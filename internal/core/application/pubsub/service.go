package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const queueSize = 256

// ErrServiceClosed is returned when publishing after Close.
var ErrServiceClosed = fmt.Errorf("pubsub service is closed")

const (
	TopicItemCreated       = "ITEM_CREATED"
	TopicItemSold          = "ITEM_SOLD"
	TopicItemCancelled     = "ITEM_CANCELLED"
	TopicItemExpired       = "ITEM_EXPIRED"
	TopicBidPlaced         = "BID_PLACED"
	TopicSwapCreated       = "SWAP_CREATED"
	TopicSwapApproved      = "SWAP_APPROVED"
	TopicSwapCancelled     = "SWAP_CANCELLED"
	TopicCollectionUpdated = "COLLECTION_UPDATED"
	TopicFeePolicyUpdated  = "FEE_POLICY_UPDATED"
)

var topics = map[string]struct{}{
	TopicItemCreated:       {},
	TopicItemSold:          {},
	TopicItemCancelled:     {},
	TopicItemExpired:       {},
	TopicBidPlaced:         {},
	TopicSwapCreated:       {},
	TopicSwapApproved:      {},
	TopicSwapCancelled:     {},
	TopicCollectionUpdated: {},
	TopicFeePolicyUpdated:  {},
	ports.AnyTopic:         {},
}

// IsValidTopic returns whether webhooks can be registered for the topic.
func IsValidTopic(topic string) bool {
	_, ok := topics[topic]
	return ok
}

// Webhook is the info about a registered subscription.
type Webhook struct {
	ID       string
	Topic    string
	Endpoint string
	Secured  bool
}

type message struct {
	topic   string
	payload string
}

// Service publishes a structured event for every marketplace transition. A
// service without a SecurePubSub discards every event.
//
// Events are queued and handed to the SecurePubSub by a single goroutine,
// in the order they were published.
type Service struct {
	pubsub ports.SecurePubSub
	now    func() time.Time

	lock   *sync.RWMutex
	closed bool
	queue  chan message
	done   chan struct{}
}

func NewService(pubsub ports.SecurePubSub) *Service {
	s := &Service{
		pubsub: pubsub,
		now:    time.Now,
		lock:   &sync.RWMutex{},
	}
	if pubsub != nil {
		s.queue = make(chan message, queueSize)
		s.done = make(chan struct{})
		go s.deliver()
	}
	return s
}

func (s *Service) SecurePubSub() ports.SecurePubSub {
	return s.pubsub
}

func (s *Service) AddWebhook(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if s.pubsub == nil {
		return "", fmt.Errorf("webhooks are not enabled")
	}
	if !IsValidTopic(topic) {
		return "", fmt.Errorf("%w: unknown webhook topic %s", domain.ErrInvalidInput, topic)
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	if s.pubsub == nil {
		return fmt.Errorf("webhooks are not enabled")
	}
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *Service) ListWebhooks(_ context.Context, topic string) ([]Webhook, error) {
	if s.pubsub == nil {
		return nil, nil
	}
	if topic != ports.UnspecifiedTopic && !IsValidTopic(topic) {
		return nil, fmt.Errorf("%w: unknown webhook topic %s", domain.ErrInvalidInput, topic)
	}
	subs := s.pubsub.ListSubscriptionsForTopic(topic)
	webhooks := make([]Webhook, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, Webhook{
			ID:       sub.Id(),
			Topic:    sub.Topic(),
			Endpoint: sub.NotifyAt(),
			Secured:  sub.IsSecured(),
		})
	}
	return webhooks, nil
}

func (s *Service) PublishItemCreatedTopic(item domain.Item) error {
	return s.publish(TopicItemCreated, map[string]interface{}{
		"item": getItemPayload(item),
	})
}

func (s *Service) PublishItemSoldTopic(
	item domain.Item, distribution domain.Distribution,
) error {
	return s.publish(TopicItemSold, map[string]interface{}{
		"item":         getItemPayload(item),
		"distribution": getDistributionPayload(distribution),
	})
}

func (s *Service) PublishItemCancelledTopic(item domain.Item) error {
	return s.publish(TopicItemCancelled, map[string]interface{}{
		"item": getItemPayload(item),
	})
}

func (s *Service) PublishItemExpiredTopic(item domain.Item) error {
	return s.publish(TopicItemExpired, map[string]interface{}{
		"item": getItemPayload(item),
		"refund": map[string]interface{}{
			"bidder": item.HighestBid.Bidder,
			"amount": item.HighestBid.Amount,
		},
	})
}

func (s *Service) PublishBidPlacedTopic(
	item domain.Item, bid domain.Bid, refunded *domain.HighestBid,
) error {
	payload := map[string]interface{}{
		"item": getItemPayload(item),
		"bid":  getBidPayload(bid),
	}
	if refunded != nil {
		payload["refund"] = map[string]interface{}{
			"bidder": refunded.Bidder,
			"amount": refunded.Amount,
		}
	}
	return s.publish(TopicBidPlaced, payload)
}

func (s *Service) PublishSwapCreatedTopic(swap domain.Swap) error {
	return s.publish(TopicSwapCreated, map[string]interface{}{
		"swap": getSwapPayload(swap),
	})
}

func (s *Service) PublishSwapApprovedTopic(swap domain.Swap) error {
	return s.publish(TopicSwapApproved, map[string]interface{}{
		"swap": getSwapPayload(swap),
	})
}

func (s *Service) PublishSwapCancelledTopic(swap domain.Swap, caller string) error {
	return s.publish(TopicSwapCancelled, map[string]interface{}{
		"swap":         getSwapPayload(swap),
		"cancelled_by": caller,
	})
}

func (s *Service) PublishCollectionUpdatedTopic(collection domain.Collection) error {
	return s.publish(TopicCollectionUpdated, map[string]interface{}{
		"collection": map[string]interface{}{
			"address": collection.Address,
			"name":    collection.Name,
			"active":  collection.Active,
		},
	})
}

func (s *Service) PublishFeePolicyUpdatedTopic(policy domain.FeePolicy) error {
	return s.publish(TopicFeePolicyUpdated, map[string]interface{}{
		"fee_policy": getFeePolicyPayload(policy),
	})
}

// Close delivers the queued events and then closes the SecurePubSub.
func (s *Service) Close() {
	if s.pubsub == nil {
		return
	}

	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.lock.Unlock()

	<-s.done
	//nolint
	s.pubsub.Close()
}

func (s *Service) deliver() {
	defer close(s.done)

	for m := range s.queue {
		if err := s.pubsub.Publish(m.topic, m.payload); err != nil {
			log.WithError(err).Warnf("pubsub: failed to publish message for topic %s", m.topic)
		}
	}
}

func (s *Service) publish(topic string, payload map[string]interface{}) error {
	if s.pubsub == nil {
		return nil
	}

	now := s.now()
	payload["event"] = topic
	payload["event_id"] = uuid.New().String()
	payload["timestamp"] = now.Unix()
	payload["date"] = now.UTC().Format(time.RFC3339)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closed {
		return ErrServiceClosed
	}
	s.queue <- message{topic, string(encoded)}
	return nil
}
